// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import "fmt"

// ChainPointer identifies a stake delegation certificate by its
// position on chain: the slot it was submitted in, its transaction
// index within that slot's block, and the certificate's index within
// that transaction.
type ChainPointer struct {
	Slot uint64
	Tx   uint32
	Cert uint32
}

// ErrChainPointerInvalid is returned when a pointer's varint encoding is
// truncated or uses more than 10 groups (wider than any value this type
// can hold).
var ErrChainPointerInvalid = fmt.Errorf("address: invalid chain pointer encoding")

func appendVarint128(out []byte, v uint64) []byte {
	var groups [10]byte
	n := 0
	groups[0] = byte(v & 0x7f)
	v >>= 7
	n++
	for v > 0 {
		groups[n] = byte(v & 0x7f)
		v >>= 7
		n++
	}
	for i := n - 1; i >= 0; i-- {
		b := groups[i]
		if i != 0 {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func readVarint128(data []byte) (v uint64, rest []byte, err error) {
	for i, b := range data {
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, data[i+1:], nil
		}
		if i == 9 {
			return 0, nil, ErrChainPointerInvalid
		}
	}
	return 0, nil, ErrChainPointerInvalid
}

// Encode appends the pointer's three base-128 varint groups to out.
func (p ChainPointer) Encode(out []byte) []byte {
	out = appendVarint128(out, p.Slot)
	out = appendVarint128(out, uint64(p.Tx))
	out = appendVarint128(out, uint64(p.Cert))
	return out
}

// DecodeChainPointer reads a ChainPointer from the front of data and
// returns the unconsumed remainder.
func DecodeChainPointer(data []byte) (ChainPointer, []byte, error) {
	slot, rest, err := readVarint128(data)
	if err != nil {
		return ChainPointer{}, nil, err
	}
	tx, rest, err := readVarint128(rest)
	if err != nil {
		return ChainPointer{}, nil, err
	}
	cert, rest, err := readVarint128(rest)
	if err != nil {
		return ChainPointer{}, nil, err
	}
	return ChainPointer{Slot: slot, Tx: uint32(tx), Cert: uint32(cert)}, rest, nil
}
