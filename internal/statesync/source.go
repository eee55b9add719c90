package statesync

import "github.com/iudanet/dashsync/internal/storage"

type staticSource struct {
	store storage.Store
}

func (s staticSource) Store() storage.Store { return s.store }

// StaticSource returns a StoreSource that always yields store
func StaticSource(store storage.Store) StoreSource {
	return staticSource{store: store}
}
