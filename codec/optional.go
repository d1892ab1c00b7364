// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import "github.com/gocardano/core/codec/cbor"

// WriteOptionalField writes value via write when present is true, and a
// null placeholder otherwise. Absence and an explicit null decode
// identically, so callers with an optional field only ever need the
// two-state null/non-null choice, never a separate boolean flag.
func WriteOptionalField(w *cbor.Writer, present bool, write func(*cbor.Writer)) {
	if present {
		write(w)
		return
	}
	w.WriteNull()
}

// ReadOptionalField reports whether the next item is present (non-null)
// without consuming it when absent. When it returns true, the caller
// must still decode the value from r; when false, r has already
// consumed the null placeholder.
func ReadOptionalField(r *cbor.Reader) (bool, error) {
	if r.IsNull() {
		return false, r.ReadNull()
	}
	return true, nil
}
