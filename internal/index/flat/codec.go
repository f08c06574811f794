package flat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// Binary layout (little endian):
//
//	magic   [4]byte "SDVX"
//	version uint16
//	_       uint16
//	dim     uint32
//	count   uint32
//	data    float32[count*dim]
//	sum     uint64 xxhash64 of all preceding bytes
const (
	formatVersion = 1
	headerSize    = 16
	trailerSize   = 8
)

var magic = [4]byte{'S', 'D', 'V', 'X'}

var errCorrupt = errors.New("corrupt index blob")

// MarshalBinary encodes the index.
func (i *Index) MarshalBinary() ([]byte, error) {
	n := len(i.vecs)
	out := make([]byte, headerSize+4*n*i.dim+trailerSize)

	copy(out[0:4], magic[:])
	binary.LittleEndian.PutUint16(out[4:6], formatVersion)
	binary.LittleEndian.PutUint32(out[8:12], uint32(i.dim))
	binary.LittleEndian.PutUint32(out[12:16], uint32(n))

	off := headerSize
	for _, v := range i.vecs {
		for _, f := range v {
			binary.LittleEndian.PutUint32(out[off:off+4], math.Float32bits(f))
			off += 4
		}
	}
	binary.LittleEndian.PutUint64(out[off:], xxhash.Sum64(out[:off]))
	return out, nil
}

// UnmarshalBinary restores the index from bytes. Any structural or checksum
// failure returns domain.ErrIndexUnavailable.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize+trailerSize {
		return unavailable("truncated header")
	}
	if [4]byte(data[0:4]) != magic {
		return unavailable("bad magic")
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != formatVersion {
		return unavailable(fmt.Sprintf("unsupported version %d", v))
	}

	dim := int(binary.LittleEndian.Uint32(data[8:12]))
	n := int(binary.LittleEndian.Uint32(data[12:16]))
	if (n > 0 && dim == 0) || uint64(n)*uint64(dim) > uint64(len(data)) {
		return unavailable("bad shape")
	}
	end := headerSize + 4*n*dim
	if len(data) != end+trailerSize {
		return unavailable("length mismatch")
	}
	if xxhash.Sum64(data[:end]) != binary.LittleEndian.Uint64(data[end:]) {
		return unavailable("checksum mismatch")
	}

	vecs := make([][]float32, n)
	off := headerSize
	for j := range vecs {
		v := make([]float32, dim)
		for d := range v {
			v[d] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
			off += 4
		}
		vecs[j] = v
	}

	i.vecs = vecs
	i.dim = dim
	if n == 0 {
		i.dim = 0
	}
	return nil
}

func unavailable(reason string) error {
	return fmt.Errorf("flat: %w: %s: %w", domain.ErrIndexUnavailable, reason, errCorrupt)
}
