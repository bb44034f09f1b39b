/*
Package session serializes access to stored algorithms.

Runs and edits of the same algorithm go through a per-algorithm lock: a local
mutex, reference counted so idle algorithms cost nothing, plus an optional
distributed lock shared by every replica pointing at the same store.
*/
package session
