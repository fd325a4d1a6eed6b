// Package cas is a content-addressed store for compiled equations. Programs
// are stored in their msgpack encoding and keyed by the 64-bit farm hash of
// those bytes, so identical equations share one entry.
package cas

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/netvis-dev/eqvm/vm"
	"github.com/rs/zerolog/log"
)

type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

var ErrNotFound = errors.New("hash not found in CAS")

type CAS interface {
	Put(p *vm.Program) (Hash, error)
	Has(hash Hash) bool
	Len() int
	getValue(h Hash) (bool, []byte, error)
}

func encode(p *vm.Program) ([]byte, error) {
	var buf bytes.Buffer
	if err := vm.EncodeProgram(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Retrieve decodes the program stored under hash, resolving its function
// handles through reg.
func Retrieve(c CAS, hash Hash, reg *vm.Registry) (*vm.Program, error) {
	has, data, err := c.getValue(hash)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
	}
	p, err := vm.DecodeProgram(bytes.NewReader(data), reg)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", hash, err)
	}
	log.Trace().Str("hash", hash.String()).Int("cells", p.Len()).Msg("cas: retrieved program")
	return p, nil
}
