// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"fmt"

	"github.com/gocardano/core/bech32"
	"github.com/gocardano/core/digest"
)

// Address is a fully decoded payment/delegation credential pair, or a
// bare stake credential when Header.IsStakeOnly().
type Address struct {
	Header  Header
	Network Network

	PaymentHash digest.Hash224 // payment credential, or the sole credential when stake-only

	StakeHash *digest.Hash224     // present for DelegationStakeKey/DelegationScript
	Pointer   *ChainPointer       // present for DelegationPointer
}

// FieldError identifies which part of an address's byte payload
// rejected decoding.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("address: field %s: %v", e.Field, e.Err) }
func (e *FieldError) Unwrap() error { return e.Err }

// Bytes assembles the address's on-wire encoding: the header/network
// byte, the payment hash, and a suffix selected by the header's
// delegation kind.
func (a Address) Bytes() []byte {
	out := make([]byte, 0, 1+28+28)
	out = append(out, FirstByte(a.Header, a.Network))
	out = append(out, a.PaymentHash[:]...)
	if a.Header.IsStakeOnly() {
		return out
	}
	switch a.Header.DelegationKind() {
	case DelegationStakeKey, DelegationScript:
		out = append(out, a.StakeHash[:]...)
	case DelegationPointer:
		out = a.Pointer.Encode(out)
	case DelegationNone:
	}
	return out
}

// DecodeBytes parses an address's on-wire encoding.
func DecodeBytes(data []byte) (Address, error) {
	if len(data) < 1+28 {
		return Address{}, &FieldError{Field: "header", Err: fmt.Errorf("truncated")}
	}
	h, n, err := SplitFirstByte(data[0])
	if err != nil {
		return Address{}, &FieldError{Field: "header", Err: err}
	}
	paymentHash, err := digest.Hash224FromBytes(data[1:29])
	if err != nil {
		return Address{}, &FieldError{Field: "payment_hash", Err: err}
	}
	addr := Address{Header: h, Network: n, PaymentHash: paymentHash}
	rest := data[29:]

	if h.IsStakeOnly() {
		if len(rest) != 0 {
			return Address{}, &FieldError{Field: "suffix", Err: fmt.Errorf("trailing garbage")}
		}
		return addr, nil
	}

	switch h.DelegationKind() {
	case DelegationStakeKey, DelegationScript:
		if len(rest) != 28 {
			return Address{}, &FieldError{Field: "stake_hash", Err: fmt.Errorf("want 28 bytes, got %d", len(rest))}
		}
		stakeHash, err := digest.Hash224FromBytes(rest)
		if err != nil {
			return Address{}, &FieldError{Field: "stake_hash", Err: err}
		}
		addr.StakeHash = &stakeHash
	case DelegationPointer:
		ptr, tail, err := DecodeChainPointer(rest)
		if err != nil {
			return Address{}, &FieldError{Field: "pointer", Err: err}
		}
		if len(tail) != 0 {
			return Address{}, &FieldError{Field: "pointer", Err: fmt.Errorf("trailing garbage")}
		}
		addr.Pointer = &ptr
	case DelegationNone:
		if len(rest) != 0 {
			return Address{}, &FieldError{Field: "suffix", Err: fmt.Errorf("trailing garbage")}
		}
	}
	return addr, nil
}

// Bech32 renders the address in its textual form.
func (a Address) Bech32() (string, error) {
	hrp := HRP(a.Header, a.Network)
	return bech32.EncodeFromBytes(hrp, a.Bytes())
}

// DecodeBech32 parses an address's textual form, verifying that its HRP
// matches the decoded header/network combination.
func DecodeBech32(s string) (Address, error) {
	hrp, payload, err := bech32.DecodeToBytes(s)
	if err != nil {
		return Address{}, &FieldError{Field: "bech32", Err: err}
	}
	addr, err := DecodeBytes(payload)
	if err != nil {
		return Address{}, err
	}
	if want := HRP(addr.Header, addr.Network); want != hrp {
		return Address{}, &FieldError{Field: "hrp", Err: fmt.Errorf("got %q, want %q", hrp, want)}
	}
	return addr, nil
}
