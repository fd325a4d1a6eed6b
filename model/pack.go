package model

import (
	"bytes"
	"fmt"
	"io"

	"github.com/netvis-dev/eqvm/cas"
	"github.com/netvis-dev/eqvm/vm"
	"github.com/rs/zerolog/log"
	"github.com/shamaton/msgpack/v2"
)

// packedEquation is one entry of a pack file. Program holds the bytes
// written by vm.EncodeProgram.
type packedEquation struct {
	Name    string
	Hash    uint64
	Program []byte
}

// Pack writes every compiled equation, in name order, as a single msgpack
// array.
func (e *Executor) Pack(w io.Writer) error {
	names := e.Sheet.Names()
	out := make([]packedEquation, len(names))
	for i, name := range names {
		p, err := e.Program(name)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := vm.EncodeProgram(&buf, p); err != nil {
			return fmt.Errorf("equation %q: %w", name, err)
		}
		out[i] = packedEquation{Name: name, Hash: uint64(e.Hashes[name]), Program: buf.Bytes()}
	}
	return msgpack.MarshalWrite(w, out)
}

// Unpack reads a pack file back into programs keyed by equation name.
func Unpack(r io.Reader, reg *vm.Registry) (map[string]*vm.Program, error) {
	var in []packedEquation
	if err := msgpack.UnmarshalRead(r, &in); err != nil {
		return nil, err
	}
	out := make(map[string]*vm.Program, len(in))
	for _, pe := range in {
		p, err := vm.DecodeProgram(bytes.NewReader(pe.Program), reg)
		if err != nil {
			return nil, fmt.Errorf("equation %q: %w", pe.Name, err)
		}
		if _, dup := out[pe.Name]; dup {
			return nil, fmt.Errorf("equation %q packed twice", pe.Name)
		}
		log.Trace().Str("equation", pe.Name).Str("hash", cas.Hash(pe.Hash).String()).Msg("unpacked equation")
		out[pe.Name] = p
	}
	return out, nil
}
