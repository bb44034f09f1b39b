/*
Package algorithm ties an action tree to its metadata and exposes the
operations an editor and a runner need: executing, editing by editor-line index,
settings, cloning and synchronization with a remote copy.

Edits never fail. An index that does not address a valid target leaves the tree
unchanged and returns an empty Range.
*/
package algorithm
