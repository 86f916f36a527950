package contentindex

import "sync"

// Store holds the current index and allows it to be swapped atomically after a reload.
type Store struct {
	mutex sync.RWMutex
	index *Index
}

// NewStore returns a Store serving index. A nil index is replaced by an empty one.
func NewStore(index *Index) *Store {
	if index == nil {
		index = Empty()
	}
	return &Store{index: index}
}

// Current returns the index in effect.
func (store *Store) Current() *Index {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	return store.index
}

// Source returns the index in effect as a Source.
func (store *Store) Source() Source {
	return store.Current()
}

// Replace swaps in index. A nil index is replaced by an empty one.
func (store *Store) Replace(index *Index) {
	if index == nil {
		index = Empty()
	}
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.index = index
}
