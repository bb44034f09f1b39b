/*
Package ports defines the driven ports (interfaces) of the Delta engine.

These interfaces decouple algorithm orchestration from external implementations,
allowing the engine to work with various storage backends and lock providers.

# Key Interfaces

  - AlgorithmStore: persists algorithm records keyed by their local ID.
  - DistributedLocker: provides distributed locking for concurrent runs and edits
    of the same algorithm across replicas.

Adapters prove compliance by calling RunAlgorithmStoreContract from their tests.
*/
package ports
