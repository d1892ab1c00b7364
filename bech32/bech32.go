// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bech32 implements the Bech32 checksummed address encoding:
// 8-bit data regrouped into 5-bit words, a human-readable prefix, and a
// BCH-style checksum over GF(1024).
package bech32

import (
	"fmt"
	"strings"
)

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var charsetRev = func() [128]int8 {
	var rev [128]int8
	for i := range rev {
		rev[i] = -1
	}
	for i, c := range charset {
		rev[c] = int8(i)
	}
	return rev
}()

// MaxLength is the maximum total encoded length this package accepts.
// It is well above BIP-173's 90-character limit, since a base address
// with both credentials encodes to 103 characters (108 on testnet).
const MaxLength = 1023

// Error is returned for any malformed HRP, checksum, or charset
// violation.
type Error struct {
	msg string
}

func (e *Error) Error() string { return "bech32: " + e.msg }

func errf(format string, args ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

func polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for _, c := range hrp {
		out = append(out, byte(c)>>5)
	}
	out = append(out, 0)
	for _, c := range hrp {
		out = append(out, byte(c)&31)
	}
	return out
}

func createChecksum(hrp string, data []byte) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	mod := polymod(values) ^ 1
	out := make([]byte, 6)
	for i := 0; i < 6; i++ {
		out[i] = byte((mod >> uint(5*(5-i))) & 31)
	}
	return out
}

func verifyChecksum(hrp string, data []byte) bool {
	values := append(hrpExpand(hrp), data...)
	return polymod(values) == 1
}

// ConvertBits regroups a slice of fromBits-wide words into toBits-wide
// words, optionally padding the final group.
func ConvertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)
	maxv := uint32(1)<<toBits - 1
	maxAcc := uint32(1)<<(fromBits+toBits-1) - 1

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, errf("invalid data byte for %d-bit group: %d", fromBits, b)
		}
		acc = ((acc << fromBits) | uint32(b)) & maxAcc
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte((acc>>bits)&maxv))
		}
	}
	if pad {
		if bits > 0 {
			out = append(out, byte((acc<<(toBits-bits))&maxv))
		}
	} else if bits >= fromBits || (acc<<(toBits-bits))&maxv != 0 {
		return nil, errf("invalid padding in bit conversion")
	}
	return out, nil
}

// Encode assembles a Bech32 string from a human-readable prefix and
// 5-bit-word data.
func Encode(hrp string, data []byte) (string, error) {
	if len(hrp) == 0 {
		return "", errf("empty human-readable part")
	}
	for _, c := range hrp {
		if c < 33 || c > 126 {
			return "", errf("invalid character in hrp: %q", c)
		}
	}
	lower := strings.ToLower(hrp)
	if lower != hrp && strings.ToUpper(hrp) != hrp {
		return "", errf("mixed-case hrp")
	}
	hrp = lower

	checksum := createChecksum(hrp, data)
	combined := append(append([]byte{}, data...), checksum...)
	var sb strings.Builder
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, b := range combined {
		if int(b) >= len(charset) {
			return "", errf("invalid 5-bit value: %d", b)
		}
		sb.WriteByte(charset[b])
	}
	out := sb.String()
	if len(out) > MaxLength {
		return "", errf("encoded length %d exceeds maximum %d", len(out), MaxLength)
	}
	return out, nil
}

// Decode splits a Bech32 string into its human-readable prefix and
// 5-bit-word data, verifying the checksum.
func Decode(s string) (hrp string, data []byte, err error) {
	if len(s) > MaxLength {
		return "", nil, errf("encoded length %d exceeds maximum %d", len(s), MaxLength)
	}
	lower := strings.ToLower(s)
	upper := strings.ToUpper(s)
	if s != lower && s != upper {
		return "", nil, errf("mixed-case string")
	}
	s = lower

	sep := strings.LastIndexByte(s, '1')
	if sep < 1 || sep+7 > len(s) {
		return "", nil, errf("invalid separator position")
	}
	hrp = s[:sep]
	for _, c := range hrp {
		if c < 33 || c > 126 {
			return "", nil, errf("invalid character in hrp: %q", c)
		}
	}

	dataPart := s[sep+1:]
	data = make([]byte, len(dataPart))
	for i, c := range dataPart {
		if c >= 128 || charsetRev[c] == -1 {
			return "", nil, errf("invalid character in data part: %q", c)
		}
		data[i] = byte(charsetRev[c])
	}
	if !verifyChecksum(hrp, data) {
		return "", nil, errf("invalid checksum")
	}
	return hrp, data[:len(data)-6], nil
}

// EncodeFromBytes is a convenience wrapper that repacks 8-bit payload
// bytes into 5-bit words before encoding.
func EncodeFromBytes(hrp string, payload []byte) (string, error) {
	data, err := ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	return Encode(hrp, data)
}

// DecodeToBytes is the inverse of EncodeFromBytes.
func DecodeToBytes(s string) (hrp string, payload []byte, err error) {
	hrp, data, err := Decode(s)
	if err != nil {
		return "", nil, err
	}
	payload, err = ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, err
	}
	return hrp, payload, nil
}
