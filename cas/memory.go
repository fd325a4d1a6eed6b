package cas

import (
	"sync"

	"github.com/dgryski/go-farm"
	"github.com/netvis-dev/eqvm/vm"
	"github.com/rs/zerolog/log"
)

type MemoryCAS struct {
	mu   sync.RWMutex
	data map[Hash][]byte
}

func NewMemoryCAS() *MemoryCAS {
	return &MemoryCAS{
		data: make(map[Hash][]byte),
	}
}

func (m *MemoryCAS) getValue(h Hash) (bool, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[h]
	if !ok {
		return false, nil, nil
	}
	return true, v, nil
}

func (m *MemoryCAS) Has(hash Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[hash]
	return ok
}

func (m *MemoryCAS) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryCAS) Put(p *vm.Program) (Hash, error) {
	data, err := encode(p)
	if err != nil {
		return 0, err
	}
	h := Hash(farm.Hash64(data))

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[h]; ok {
		log.Trace().Str("hash", h.String()).Msg("cas: program already stored")
		return h, nil
	}
	m.data[h] = data
	log.Trace().Str("hash", h.String()).Int("bytes", len(data)).Msg("cas: stored program")
	return h, nil
}
