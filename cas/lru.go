package cas

import (
	"container/list"
	"sync"

	"github.com/netvis-dev/eqvm/vm"
)

// LRUCache is a CAS wrapper that keeps recently read entries close at hand
// using LRU eviction.
type LRUCache struct {
	underlying CAS

	mu        sync.Mutex
	cache     map[Hash]*list.Element
	evictList *list.List
	maxSize   int
	hits      int
	misses    int
}

type cacheEntry struct {
	hash  Hash
	value []byte
}

// NewLRUCache creates a new LRU-cached CAS wrapper.
// maxSize is the maximum number of entries to cache (0 or negative means the default of 1000)
func NewLRUCache(underlying CAS, maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &LRUCache{
		underlying: underlying,
		cache:      make(map[Hash]*list.Element),
		evictList:  list.New(),
		maxSize:    maxSize,
	}
}

func (l *LRUCache) Put(p *vm.Program) (Hash, error) {
	return l.underlying.Put(p)
}

func (l *LRUCache) Has(hash Hash) bool {
	return l.underlying.Has(hash)
}

func (l *LRUCache) Len() int {
	return l.underlying.Len()
}

// getValue is where caching happens
func (l *LRUCache) getValue(h Hash) (bool, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if elem, ok := l.cache[h]; ok {
		l.evictList.MoveToFront(elem)
		l.hits++
		return true, elem.Value.(*cacheEntry).value, nil
	}
	l.misses++

	has, data, err := l.underlying.getValue(h)
	if err != nil || !has {
		return has, nil, err
	}
	l.addToCache(h, data)
	return true, data, nil
}

// addToCache adds an entry and evicts the oldest if necessary. Callers hold mu.
func (l *LRUCache) addToCache(hash Hash, value []byte) {
	if elem, ok := l.cache[hash]; ok {
		l.evictList.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}
	elem := l.evictList.PushFront(&cacheEntry{hash: hash, value: value})
	l.cache[hash] = elem
	if l.evictList.Len() > l.maxSize {
		l.evictOldest()
	}
}

func (l *LRUCache) evictOldest() {
	elem := l.evictList.Back()
	if elem != nil {
		l.evictList.Remove(elem)
		delete(l.cache, elem.Value.(*cacheEntry).hash)
	}
}

type CacheStats struct {
	Size    int
	MaxSize int
	Hits    int
	Misses  int
}

func (l *LRUCache) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CacheStats{
		Size:    len(l.cache),
		MaxSize: l.maxSize,
		Hits:    l.hits,
		Misses:  l.misses,
	}
}
