// Copyright (C) 2024-2025 solkit contributors
// This file is part of solkit
//
// solkit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// solkit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with solkit.  If not, see <https://www.gnu.org/licenses/>.

package protocol

import (
	"errors"
	"io"

	"github.com/algorand/go-codec/codec"
)

// ErrInvalidObject is used to state that an object decoding has failed because it's invalid.
var ErrInvalidObject = errors.New("unmarshalled object is invalid")

// JSONHandle is used to instantiate JSON encoders and decoders
// with our settings (canonical, paranoid about decoding errors)
var JSONHandle *codec.JsonHandle

// JSONLenientHandle decodes JSON produced by software we do not control,
// such as ledger RPC nodes, where unknown fields must be ignored.
var JSONLenientHandle *codec.JsonHandle

// Decoder is our interface for a thing that can decode objects.
type Decoder interface {
	Decode(objptr interface{}) error
}

func init() {
	JSONHandle = new(codec.JsonHandle)
	JSONHandle.ErrorIfNoField = true
	JSONHandle.ErrorIfNoArrayExpand = true
	JSONHandle.Canonical = true
	JSONHandle.RecursiveEmptyCheck = true
	JSONHandle.Indent = 2
	JSONHandle.HTMLCharsAsIs = true

	JSONLenientHandle = new(codec.JsonHandle)
	JSONLenientHandle.ErrorIfNoField = false
	JSONLenientHandle.ErrorIfNoArrayExpand = JSONHandle.ErrorIfNoArrayExpand
	JSONLenientHandle.Canonical = JSONHandle.Canonical
	JSONLenientHandle.RecursiveEmptyCheck = JSONHandle.RecursiveEmptyCheck
	JSONLenientHandle.HTMLCharsAsIs = JSONHandle.HTMLCharsAsIs
}

// EncodeJSON returns a JSON-encoded byte buffer for a given object
func EncodeJSON(obj interface{}) []byte {
	var b []byte
	enc := codec.NewEncoderBytes(&b, JSONHandle)
	enc.MustEncode(obj)
	return b
}

// EncodeJSONCompact is like EncodeJSON but without indentation, for wire bodies.
func EncodeJSONCompact(obj interface{}) ([]byte, error) {
	var b []byte
	enc := codec.NewEncoderBytes(&b, JSONLenientHandle)
	err := enc.Encode(obj)
	return b, err
}

// DecodeJSON attempts to decode a JSON-encoded byte buffer into an
// object instance pointed to by objptr
func DecodeJSON(b []byte, objptr interface{}) error {
	dec := codec.NewDecoderBytes(b, JSONHandle)
	return dec.Decode(objptr)
}

// DecodeJSONLenient is DecodeJSON but tolerates fields objptr does not declare.
func DecodeJSONLenient(b []byte, objptr interface{}) error {
	dec := codec.NewDecoderBytes(b, JSONLenientHandle)
	return dec.Decode(objptr)
}

// NewJSONEncoder returns an encoder object writing bytes into [w].
func NewJSONEncoder(w io.Writer) *codec.Encoder {
	return codec.NewEncoder(w, JSONHandle)
}

// NewJSONDecoder returns a json decoder object reading bytes from [r].
func NewJSONDecoder(r io.Reader) Decoder {
	return codec.NewDecoder(r, JSONHandle)
}

// NewLenientJSONDecoder returns a json decoder that ignores unknown fields.
func NewLenientJSONDecoder(r io.Reader) Decoder {
	return codec.NewDecoder(r, JSONLenientHandle)
}
