package middleware

import "github.com/aretw0/delta/pkg/ports"

// Middleware allows wrapping an AlgorithmStore to add behavior.
type Middleware func(ports.AlgorithmStore) ports.AlgorithmStore

// Chain applies mws so that the first one is the outermost.
func Chain(store ports.AlgorithmStore, mws ...Middleware) ports.AlgorithmStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
