/*
Package domain contains the core models shared by the Delta runtime and its
adapters.

It is kept free of I/O and persistence: stores, transports and presentation
layers depend on it, never the other way round.

# Key Entities

  - EditorLine: one row of the flat editing view of an algorithm.
  - Process: the mutable environment of a single run (variables, output,
    cancellation).
  - Snapshot: an immutable, serializable view of a Process.
  - SyncStatus: the synchronization state of an algorithm with its remote copy.
*/
package domain
