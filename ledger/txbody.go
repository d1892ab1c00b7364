// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/gocardano/core/codec"
	"github.com/gocardano/core/codec/cbor"
)

// Transaction body field tags, dense small integers identifying each
// field; absent fields are simply omitted rather than null-padded,
// since the body is itself the sparse-struct pattern rather than the
// struct/array one.
const (
	TxBodyInputs        = 0
	TxBodyOutputs       = 1
	TxBodyFee           = 2
	TxBodyTTL           = 3
	TxBodyCertificates  = 4
	TxBodyMint          = 9
	TxBodyNetworkID     = 15
	txBodyMaxTag        = TxBodyNetworkID
)

// TxIn is a simplified transaction input reference: the hash of the
// transaction it spends from, and the output index within it.
type TxIn struct {
	TransactionID [32]byte
	Index         uint64
}

// TransactionBody is the map-keyed, all-fields-optional-except-fee
// structure every transaction is hashed and signed over. Fee is the
// only field without a sensible absent form; every other field is
// carried as a pointer/nil-slice and omitted when unset.
type TransactionBody struct {
	Inputs       []TxIn
	Outputs      [][]byte // simplified: raw pre-encoded output blobs
	Fee          uint64
	TTL          *uint64
	Certificates []Certificate
	Mint         map[string]int64 // simplified: asset name -> signed quantity

	// NetworkID: nil and an encoded absence are the same state; this
	// field is never encoded as an explicit false.
	NetworkID *bool
}

// Encode writes the body as an ascending tag->value sparse map.
func (b TransactionBody) Encode(w *cbor.Writer) {
	s := codec.NewSparseStruct(txBodyMaxTag)

	if len(b.Inputs) > 0 {
		inputs := b.Inputs
		s.Set(TxBodyInputs, func(w *cbor.Writer) {
			w.WriteArrayHeader(uint64(len(inputs)))
			for _, in := range inputs {
				w.WriteArrayHeader(2)
				w.WriteBytes(in.TransactionID[:])
				w.WriteUint(in.Index)
			}
		})
	}
	if len(b.Outputs) > 0 {
		outputs := b.Outputs
		s.Set(TxBodyOutputs, func(w *cbor.Writer) {
			w.WriteArrayHeader(uint64(len(outputs)))
			for _, out := range outputs {
				w.WriteBytes(out)
			}
		})
	}
	fee := b.Fee
	s.Set(TxBodyFee, func(w *cbor.Writer) { w.WriteUint(fee) })

	if b.TTL != nil {
		ttl := *b.TTL
		s.Set(TxBodyTTL, func(w *cbor.Writer) { w.WriteUint(ttl) })
	}
	if len(b.Certificates) > 0 {
		certs := b.Certificates
		s.Set(TxBodyCertificates, func(w *cbor.Writer) {
			w.WriteArrayHeader(uint64(len(certs)))
			for _, c := range certs {
				c.Encode(w)
			}
		})
	}
	if len(b.Mint) > 0 {
		mint := b.Mint
		s.Set(TxBodyMint, func(w *cbor.Writer) {
			w.WriteMapPairsHeader(uint64(len(mint)))
			for name, qty := range mint {
				w.WriteBytes([]byte(name))
				w.WriteInt(qty)
			}
		})
	}
	// NetworkID is never written: its Option<bool> nil form conflicts
	// with the generic optional scheme elsewhere, so a conforming
	// encoder always emits absence here regardless of the in-memory
	// value.
	s.Encode(w)
}

// DecodeTransactionBody reads a TransactionBody back from its sparse
// map encoding.
func DecodeTransactionBody(r *cbor.Reader, path string) (TransactionBody, error) {
	dec, err := codec.NewSparseStructDecoder(r, txBodyMaxTag, path)
	if err != nil {
		return TransactionBody{}, err
	}
	var b TransactionBody
	sawFee := false
	for i := 0; i < dec.Pairs; i++ {
		tag, err := dec.NextTag()
		if err != nil {
			return TransactionBody{}, err
		}
		switch tag {
		case TxBodyInputs:
			n, err := r.ReadArrayHeader()
			if err != nil {
				return TransactionBody{}, wrapErr(path, "inputs", err)
			}
			b.Inputs = make([]TxIn, 0, n)
			for j := uint64(0); j < n; j++ {
				if _, err := r.ReadArrayHeader(); err != nil {
					return TransactionBody{}, wrapErr(path, "inputs", err)
				}
				raw, err := r.ReadBytes()
				if err != nil {
					return TransactionBody{}, wrapErr(path, "inputs.transaction_id", err)
				}
				var txid [32]byte
				if len(raw) != 32 {
					return TransactionBody{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".inputs.transaction_id"}
				}
				copy(txid[:], raw)
				idx, err := r.ReadUint()
				if err != nil {
					return TransactionBody{}, wrapErr(path, "inputs.index", err)
				}
				b.Inputs = append(b.Inputs, TxIn{TransactionID: txid, Index: idx})
			}
		case TxBodyOutputs:
			n, err := r.ReadArrayHeader()
			if err != nil {
				return TransactionBody{}, wrapErr(path, "outputs", err)
			}
			b.Outputs = make([][]byte, 0, n)
			for j := uint64(0); j < n; j++ {
				out, err := r.ReadBytes()
				if err != nil {
					return TransactionBody{}, wrapErr(path, "outputs", err)
				}
				b.Outputs = append(b.Outputs, out)
			}
		case TxBodyFee:
			fee, err := r.ReadUint()
			if err != nil {
				return TransactionBody{}, wrapErr(path, "fee", err)
			}
			b.Fee = fee
			sawFee = true
		case TxBodyTTL:
			ttl, err := r.ReadUint()
			if err != nil {
				return TransactionBody{}, wrapErr(path, "ttl", err)
			}
			b.TTL = &ttl
		case TxBodyCertificates:
			n, err := r.ReadArrayHeader()
			if err != nil {
				return TransactionBody{}, wrapErr(path, "certificates", err)
			}
			b.Certificates = make([]Certificate, 0, n)
			for j := uint64(0); j < n; j++ {
				c, err := Decode(r, path+".certificates")
				if err != nil {
					return TransactionBody{}, err
				}
				b.Certificates = append(b.Certificates, c)
			}
		case TxBodyMint:
			n, err := r.ReadMapPairsHeader()
			if err != nil {
				return TransactionBody{}, wrapErr(path, "mint", err)
			}
			b.Mint = make(map[string]int64, n)
			for j := uint64(0); j < n; j++ {
				name, err := r.ReadBytes()
				if err != nil {
					return TransactionBody{}, wrapErr(path, "mint.key", err)
				}
				qty, err := r.ReadInt()
				if err != nil {
					return TransactionBody{}, wrapErr(path, "mint.value", err)
				}
				b.Mint[string(name)] = qty
			}
		case TxBodyNetworkID:
			present, err := codec.ReadOptionalField(r)
			if err != nil {
				return TransactionBody{}, wrapErr(path, "network_id", err)
			}
			if present {
				id, err := r.ReadBool()
				if err != nil {
					return TransactionBody{}, wrapErr(path, "network_id", err)
				}
				b.NetworkID = &id
			}
		}
	}
	if !sawFee {
		return TransactionBody{}, &codec.DecodeError{Kind: codec.KindMissingRequiredField, FieldPath: path + ".fee"}
	}
	return b, nil
}

func wrapErr(path, field string, err error) error {
	return &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + "." + field, Err: err}
}
