// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/gocardano/core/codec"
	"github.com/gocardano/core/codec/cbor"
)

// Protocol parameter update tags, dense small integers used by this
// type's sparse-struct encoding.
const (
	ParamMinFeeA = iota
	ParamMinFeeB
	ParamMaxBlockBodySize
	ParamMaxTransactionSize
	ParamMaxBlockHeaderSize
	ParamKeyDeposit
	ParamPoolDeposit
	ParamMaxEpoch
	ParamDesiredNumberOfStakePools
	ParamPoolPledgeInfluence
	ParamExpansionRate
	ParamTreasuryGrowthRate
	ParamMinPoolCost
	ParamCostModels
	ParamDRepDeposit
	ParamDRepActivity
	paramMaxTag = ParamDRepActivity
)

// ProtocolParamUpdate is a sparse struct: only the parameters an update
// actually touches are present on the wire.
type ProtocolParamUpdate struct {
	MinFeeA                     *uint64
	MinFeeB                     *uint64
	MaxBlockBodySize             *uint64
	MaxTransactionSize           *uint64
	MaxBlockHeaderSize           *uint64
	KeyDeposit                   *uint64
	PoolDeposit                  *uint64
	MaxEpoch                     *uint64
	DesiredNumberOfStakePools    *uint64
	PoolPledgeInfluenceNum       *int64
	PoolPledgeInfluenceDen       *int64
	ExpansionRateNum             *uint64
	ExpansionRateDen             *uint64
	TreasuryGrowthRateNum        *uint64
	TreasuryGrowthRateDen        *uint64
	MinPoolCost                  *uint64
	DRepDeposit                  *uint64
	DRepActivity                 *uint64
}

func setUint(s *codec.SparseStruct, tag uint64, v *uint64) {
	if v == nil {
		return
	}
	val := *v
	s.Set(tag, func(w *cbor.Writer) { w.WriteUint(val) })
}

func setRational(s *codec.SparseStruct, tag uint64, num, den *uint64) {
	if num == nil || den == nil {
		return
	}
	n, d := *num, *den
	s.Set(tag, func(w *cbor.Writer) {
		w.WriteArrayHeader(2)
		w.WriteUint(n)
		w.WriteUint(d)
	})
}

// Encode writes the present parameters as an ascending tag->value map.
func (p ProtocolParamUpdate) Encode(w *cbor.Writer) {
	s := codec.NewSparseStruct(paramMaxTag)
	setUint(s, ParamMinFeeA, p.MinFeeA)
	setUint(s, ParamMinFeeB, p.MinFeeB)
	setUint(s, ParamMaxBlockBodySize, p.MaxBlockBodySize)
	setUint(s, ParamMaxTransactionSize, p.MaxTransactionSize)
	setUint(s, ParamMaxBlockHeaderSize, p.MaxBlockHeaderSize)
	setUint(s, ParamKeyDeposit, p.KeyDeposit)
	setUint(s, ParamPoolDeposit, p.PoolDeposit)
	setUint(s, ParamMaxEpoch, p.MaxEpoch)
	setUint(s, ParamDesiredNumberOfStakePools, p.DesiredNumberOfStakePools)
	setRational(s, ParamExpansionRate, p.ExpansionRateNum, p.ExpansionRateDen)
	setRational(s, ParamTreasuryGrowthRate, p.TreasuryGrowthRateNum, p.TreasuryGrowthRateDen)
	setUint(s, ParamMinPoolCost, p.MinPoolCost)
	setUint(s, ParamDRepDeposit, p.DRepDeposit)
	setUint(s, ParamDRepActivity, p.DRepActivity)
	if p.PoolPledgeInfluenceNum != nil && p.PoolPledgeInfluenceDen != nil {
		num, den := *p.PoolPledgeInfluenceNum, *p.PoolPledgeInfluenceDen
		s.Set(ParamPoolPledgeInfluence, func(w *cbor.Writer) {
			w.WriteArrayHeader(2)
			w.WriteInt(num)
			w.WriteInt(den)
		})
	}
	s.Encode(w)
}

// DecodeProtocolParamUpdate reads a sparse tag->value map back into a
// ProtocolParamUpdate. Unknown tags (beyond paramMaxTag) are a decode
// error; every known tag is optional.
func DecodeProtocolParamUpdate(r *cbor.Reader, path string) (ProtocolParamUpdate, error) {
	dec, err := codec.NewSparseStructDecoder(r, paramMaxTag, path)
	if err != nil {
		return ProtocolParamUpdate{}, err
	}
	var p ProtocolParamUpdate
	for i := 0; i < dec.Pairs; i++ {
		tag, err := dec.NextTag()
		if err != nil {
			return ProtocolParamUpdate{}, err
		}
		switch tag {
		case ParamMinFeeA:
			p.MinFeeA, err = readUintPtr(r)
		case ParamMinFeeB:
			p.MinFeeB, err = readUintPtr(r)
		case ParamMaxBlockBodySize:
			p.MaxBlockBodySize, err = readUintPtr(r)
		case ParamMaxTransactionSize:
			p.MaxTransactionSize, err = readUintPtr(r)
		case ParamMaxBlockHeaderSize:
			p.MaxBlockHeaderSize, err = readUintPtr(r)
		case ParamKeyDeposit:
			p.KeyDeposit, err = readUintPtr(r)
		case ParamPoolDeposit:
			p.PoolDeposit, err = readUintPtr(r)
		case ParamMaxEpoch:
			p.MaxEpoch, err = readUintPtr(r)
		case ParamDesiredNumberOfStakePools:
			p.DesiredNumberOfStakePools, err = readUintPtr(r)
		case ParamPoolPledgeInfluence:
			var n, d int64
			if _, err = r.ReadArrayHeader(); err == nil {
				if n, err = r.ReadInt(); err == nil {
					d, err = r.ReadInt()
				}
			}
			if err == nil {
				p.PoolPledgeInfluenceNum, p.PoolPledgeInfluenceDen = &n, &d
			}
		case ParamExpansionRate:
			p.ExpansionRateNum, p.ExpansionRateDen, err = readRational(r)
		case ParamTreasuryGrowthRate:
			p.TreasuryGrowthRateNum, p.TreasuryGrowthRateDen, err = readRational(r)
		case ParamMinPoolCost:
			p.MinPoolCost, err = readUintPtr(r)
		case ParamDRepDeposit:
			p.DRepDeposit, err = readUintPtr(r)
		case ParamDRepActivity:
			p.DRepActivity, err = readUintPtr(r)
		}
		if err != nil {
			return ProtocolParamUpdate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path, Err: err}
		}
	}
	return p, nil
}

func readUintPtr(r *cbor.Reader) (*uint64, error) {
	v, err := r.ReadUint()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readRational(r *cbor.Reader) (num, den *uint64, err error) {
	if _, err = r.ReadArrayHeader(); err != nil {
		return nil, nil, err
	}
	n, err := r.ReadUint()
	if err != nil {
		return nil, nil, err
	}
	d, err := r.ReadUint()
	if err != nil {
		return nil, nil, err
	}
	return &n, &d, nil
}
