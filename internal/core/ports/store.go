package ports

import "go.trai.ch/flo/internal/core/domain"

// BuildInfoStore persists cache entries across invocations. Implementations
// must serialize writes; reads may happen concurrently.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the entry for a task key. Returns nil, nil if absent.
	Get(key string) (*domain.CacheEntry, error)

	// Put stores the entry, overwriting any previous one for its key.
	Put(entry domain.CacheEntry) error

	// Clear removes every entry and the persisted backing file.
	Clear() error
}
