// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package address implements the Bech32-framed payment/delegation
// credential algebra: a header nibble that is a bijective function of
// (payment kind, delegation kind, stake-only flag), a network bit, and
// the chain-pointer varint triple used by pointer addresses.
package address

import "fmt"

// Network selects which side of the mainnet/testnet split an address
// belongs to; it is carried as the low bit of the first address byte.
type Network uint8

const (
	Testnet Network = 0
	Mainnet Network = 1
)

// PaymentKind identifies how the payment credential hash is interpreted.
type PaymentKind uint8

const (
	PaymentVKey PaymentKind = iota
	PaymentScript
)

// DelegationKind identifies how (or whether) an address delegates.
type DelegationKind uint8

const (
	DelegationStakeKey DelegationKind = iota
	DelegationScript
	DelegationPointer
	DelegationNone
)

// Header is the 4-bit nibble at the top of an address's first on-wire
// byte, encoding the product of payment kind, delegation kind, and
// (for stake addresses) a stake-only flag.
type Header uint8

const (
	HeaderVKeyStakeKey    Header = 0x0
	HeaderScriptStakeKey  Header = 0x1
	HeaderVKeyScript      Header = 0x2
	HeaderScriptScript    Header = 0x3
	HeaderVKeyPointer     Header = 0x4
	HeaderScriptPointer   Header = 0x5
	HeaderVKeyNone        Header = 0x6
	HeaderScriptNone      Header = 0x7
	HeaderVKeyStakeOnly   Header = 0xe
	HeaderScriptStakeOnly Header = 0xf
)

// ErrBadAddressType is returned when a header nibble does not belong to
// the 10 defined address types.
var ErrBadAddressType = fmt.Errorf("address: unrecognized header type")

// ErrBadNetwork is returned when a network bit/byte combination is
// malformed.
var ErrBadNetwork = fmt.Errorf("address: invalid network bit")

var validHeaders = map[Header]bool{
	HeaderVKeyStakeKey: true, HeaderScriptStakeKey: true,
	HeaderVKeyScript: true, HeaderScriptScript: true,
	HeaderVKeyPointer: true, HeaderScriptPointer: true,
	HeaderVKeyNone: true, HeaderScriptNone: true,
	HeaderVKeyStakeOnly: true, HeaderScriptStakeOnly: true,
}

// Valid reports whether h is one of the 10 defined header values.
func (h Header) Valid() bool { return validHeaders[h] }

// IsStakeOnly reports whether h addresses a bare stake credential with
// no associated payment half.
func (h Header) IsStakeOnly() bool {
	return h == HeaderVKeyStakeOnly || h == HeaderScriptStakeOnly
}

// PaymentKind returns the payment credential kind encoded by h. It is
// meaningful for every valid header: stake-only headers still record
// whether the single credential is a key or a script.
func (h Header) PaymentKind() PaymentKind {
	if h == HeaderScriptStakeOnly {
		return PaymentScript
	}
	if h == HeaderVKeyStakeOnly {
		return PaymentVKey
	}
	if h%2 == 1 {
		return PaymentScript
	}
	return PaymentVKey
}

// DelegationKind returns the delegation half encoded by h. It panics if
// h is stake-only, since stake-only headers carry no delegation half of
// their own.
func (h Header) DelegationKind() DelegationKind {
	switch h {
	case HeaderVKeyStakeKey, HeaderScriptStakeKey:
		return DelegationStakeKey
	case HeaderVKeyScript, HeaderScriptScript:
		return DelegationScript
	case HeaderVKeyPointer, HeaderScriptPointer:
		return DelegationPointer
	case HeaderVKeyNone, HeaderScriptNone:
		return DelegationNone
	default:
		panic("address: DelegationKind called on a stake-only header")
	}
}

// HeaderFor looks up the header nibble for a given (payment, delegation)
// pair, the inverse of PaymentKind/DelegationKind.
func HeaderFor(payment PaymentKind, delegation DelegationKind) Header {
	base := Header(delegation) * 2
	if payment == PaymentScript {
		base++
	}
	return base
}

// HeaderForStakeOnly returns the stake-only header for a payment kind.
func HeaderForStakeOnly(payment PaymentKind) Header {
	if payment == PaymentScript {
		return HeaderScriptStakeOnly
	}
	return HeaderVKeyStakeOnly
}

// FirstByte packs h and network into the single on-wire header byte.
func FirstByte(h Header, n Network) byte { return byte(h)<<4 | byte(n) }

// SplitFirstByte decomposes the on-wire header byte.
func SplitFirstByte(b byte) (Header, Network, error) {
	h := Header(b >> 4)
	n := Network(b & 0x1)
	if !h.Valid() {
		return 0, 0, ErrBadAddressType
	}
	if b&0x0f > 1 {
		return 0, 0, ErrBadNetwork
	}
	return h, n, nil
}

// HRP returns the Bech32 human-readable prefix for a header/network
// combination.
func HRP(h Header, n Network) string {
	stake := h.IsStakeOnly()
	switch {
	case stake && n == Mainnet:
		return "stake"
	case stake:
		return "stake_test"
	case n == Mainnet:
		return "addr"
	default:
		return "addr_test"
	}
}
