// Package registry implements the shared algorithm catalog served to sync clients.
package registry
