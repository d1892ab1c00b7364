// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cbor

// Reader parses a canonical CBOR byte stream, rejecting non-canonical
// integer encodings outright rather than accepting them leniently.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for sequential decoding.
func NewReader(data []byte) *Reader { return &Reader{data: data} }

// AtEOF reports whether every byte of the input has been consumed.
func (r *Reader) AtEOF() bool { return r.pos >= len(r.data) }

// Remaining returns the unconsumed tail of the input.
func (r *Reader) Remaining() []byte { return r.data[r.pos:] }

// Pos reports the number of bytes consumed so far.
func (r *Reader) Pos() int { return r.pos }

func (r *Reader) need(n int) error {
	if len(r.data)-r.pos < n {
		return ErrTruncated
	}
	return nil
}

// head is a decoded major-type/length head.
type head struct {
	major       byte
	val         uint64
	indefinite  bool
}

func (r *Reader) readHead() (head, error) {
	if err := r.need(1); err != nil {
		return head{}, err
	}
	b := r.data[r.pos]
	major := b >> 5
	ai := b & 0x1f
	r.pos++

	switch {
	case ai < 24:
		return head{major: major, val: uint64(ai)}, nil
	case ai == 24:
		if err := r.need(1); err != nil {
			return head{}, err
		}
		v := uint64(r.data[r.pos])
		r.pos++
		if v < 24 {
			return head{}, ErrNonCanonicalInteger
		}
		return head{major: major, val: v}, nil
	case ai == 25:
		if err := r.need(2); err != nil {
			return head{}, err
		}
		v := uint64(r.data[r.pos])<<8 | uint64(r.data[r.pos+1])
		r.pos += 2
		if v <= 0xff {
			return head{}, ErrNonCanonicalInteger
		}
		return head{major: major, val: v}, nil
	case ai == 26:
		if err := r.need(4); err != nil {
			return head{}, err
		}
		v := uint64(0)
		for i := 0; i < 4; i++ {
			v = v<<8 | uint64(r.data[r.pos+i])
		}
		r.pos += 4
		if v <= 0xffff {
			return head{}, ErrNonCanonicalInteger
		}
		return head{major: major, val: v}, nil
	case ai == 27:
		if err := r.need(8); err != nil {
			return head{}, err
		}
		v := uint64(0)
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(r.data[r.pos+i])
		}
		r.pos += 8
		if v <= 0xffffffff {
			return head{}, ErrNonCanonicalInteger
		}
		return head{major: major, val: v}, nil
	case ai == 31:
		return head{major: major, indefinite: true}, nil
	default:
		return head{}, ErrUnsupportedSimple
	}
}

// PeekMajor returns the major type of the next item without consuming
// it.
func (r *Reader) PeekMajor() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	return r.data[r.pos] >> 5, nil
}

// ReadUint reads an unsigned integer.
func (r *Reader) ReadUint() (uint64, error) {
	h, err := r.readHead()
	if err != nil {
		return 0, err
	}
	if h.major != MajorUnsigned || h.indefinite {
		return 0, ErrUnexpectedType
	}
	return h.val, nil
}

// ReadInt reads a signed integer encoded as either major type 0 or 1.
func (r *Reader) ReadInt() (int64, error) {
	h, err := r.readHead()
	if err != nil {
		return 0, err
	}
	switch h.major {
	case MajorUnsigned:
		return int64(h.val), nil
	case MajorNegative:
		return -1 - int64(h.val), nil
	default:
		return 0, ErrUnexpectedType
	}
}

// ReadTag reads a CBOR tag head and returns its value.
func (r *Reader) ReadTag() (uint64, error) {
	h, err := r.readHead()
	if err != nil {
		return 0, err
	}
	if h.major != MajorTag || h.indefinite {
		return 0, ErrUnexpectedType
	}
	return h.val, nil
}

// ReadArrayHeader reads a definite-length array head and returns its
// element count.
func (r *Reader) ReadArrayHeader() (uint64, error) {
	h, err := r.readHead()
	if err != nil {
		return 0, err
	}
	if h.major != MajorArray || h.indefinite {
		return 0, ErrUnexpectedType
	}
	return h.val, nil
}

// ReadMapPairsHeader reads a definite-length array head standing in for
// a map and returns the pair count (half the element count). It rejects
// an odd element count.
func (r *Reader) ReadMapPairsHeader() (uint64, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return 0, err
	}
	if n%2 != 0 {
		return 0, ErrUnexpectedType
	}
	return n / 2, nil
}

// ReadBool reads a CBOR boolean simple value.
func (r *Reader) ReadBool() (bool, error) {
	if err := r.need(1); err != nil {
		return false, err
	}
	b := r.data[r.pos]
	switch b {
	case MajorSimple<<5 | simpleTrue:
		r.pos++
		return true, nil
	case MajorSimple<<5 | simpleFalse:
		r.pos++
		return false, nil
	default:
		return false, ErrUnexpectedType
	}
}

// IsNull reports whether the next item is the null simple value, without
// consuming anything else.
func (r *Reader) IsNull() bool {
	return !r.AtEOF() && r.data[r.pos] == MajorSimple<<5|simpleNull
}

// ReadNull consumes a null simple value.
func (r *Reader) ReadNull() error {
	if err := r.need(1); err != nil {
		return err
	}
	if r.data[r.pos] != MajorSimple<<5|simpleNull {
		return ErrUnexpectedType
	}
	r.pos++
	return nil
}

// SkipValue consumes exactly one well-formed CBOR value of any major
// type, without interpreting its contents. It is used by generic
// framing code (the mux's message-boundary detection) that needs to
// find where a value ends without knowing its schema.
func (r *Reader) SkipValue() error {
	h, err := r.readHead()
	if err != nil {
		return err
	}
	switch h.major {
	case MajorUnsigned, MajorNegative:
		return nil
	case MajorSimple:
		return nil
	case MajorTag:
		return r.SkipValue()
	case MajorBytes, MajorText:
		if !h.indefinite {
			if err := r.need(int(h.val)); err != nil {
				return err
			}
			r.pos += int(h.val)
			return nil
		}
		for {
			if err := r.need(1); err != nil {
				return err
			}
			if r.data[r.pos] == 0xff {
				r.pos++
				return nil
			}
			ch, err := r.readHead()
			if err != nil {
				return err
			}
			if ch.major != h.major || ch.indefinite {
				return ErrIndefiniteChunkType
			}
			if err := r.need(int(ch.val)); err != nil {
				return err
			}
			r.pos += int(ch.val)
		}
	case MajorArray, MajorMap:
		if h.indefinite {
			for !r.AtEOF() && r.data[r.pos] != 0xff {
				if err := r.SkipValue(); err != nil {
					return err
				}
			}
			if err := r.need(1); err != nil {
				return err
			}
			r.pos++
			return nil
		}
		count := h.val
		if h.major == MajorMap {
			count *= 2
		}
		for i := uint64(0); i < count; i++ {
			if err := r.SkipValue(); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrUnexpectedType
	}
}

// ReadBytes reads a byte string, transparently reassembling the chunked
// "bounded bytes" indefinite-length form.
func (r *Reader) ReadBytes() ([]byte, error) {
	h, err := r.readHead()
	if err != nil {
		return nil, err
	}
	if h.major != MajorBytes {
		return nil, ErrUnexpectedType
	}
	if !h.indefinite {
		if err := r.need(int(h.val)); err != nil {
			return nil, err
		}
		out := append([]byte{}, r.data[r.pos:r.pos+int(h.val)]...)
		r.pos += int(h.val)
		return out, nil
	}

	var out []byte
	for {
		if err := r.need(1); err != nil {
			return nil, err
		}
		if r.data[r.pos] == 0xff {
			r.pos++
			return out, nil
		}
		ch, err := r.readHead()
		if err != nil {
			return nil, err
		}
		if ch.major != MajorBytes || ch.indefinite || ch.val > BoundedBytesChunkSize {
			return nil, ErrIndefiniteChunkType
		}
		if err := r.need(int(ch.val)); err != nil {
			return nil, err
		}
		out = append(out, r.data[r.pos:r.pos+int(ch.val)]...)
		r.pos += int(ch.val)
	}
}
