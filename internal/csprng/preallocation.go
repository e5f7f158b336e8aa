package csprng

import "github.com/obscurcore/obsc/internal/errors"

// preallocRaw serves entropy from a fixed byte vector carried in
// PayloadConfiguration.entropy_scheme_data, consumed identically by writer
// and reader.
type preallocRaw struct {
	data []byte
	pos  int
}

func (r *preallocRaw) nextRaw(buf []byte) error {
	if r.pos+len(buf) > len(r.data) {
		return errors.ErrInsufficientEntropy
	}
	copy(buf, r.data[r.pos:r.pos+len(buf)])
	r.pos += len(buf)
	return nil
}

// NewPreallocationSource builds a Source that consumes data sequentially
// and fails InsufficientEntropy once exhausted, rather than generating
// bytes from a cipher.
func NewPreallocationSource(data []byte) *Source {
	return &Source{raw: &preallocRaw{data: data}}
}
