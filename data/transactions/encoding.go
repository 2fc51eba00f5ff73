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

package transactions

import (
	"encoding/base64"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/solkit/solkit/data/basics"
)

// PacketDataSize is the largest encoded transaction the ledger accepts.
const PacketDataSize = 1232

// SerializeConfig controls the checks Serialize runs before encoding.
type SerializeConfig struct {
	// RequireAllSignatures rejects drafts with empty signature slots. Clearing it is
	// how a partially signed draft is handed to its counterparty.
	RequireAllSignatures bool
	// VerifySignatures checks every filled slot against the message.
	VerifySignatures bool
}

// DefaultSerializeConfig is used for transactions ready for submission.
var DefaultSerializeConfig = SerializeConfig{RequireAllSignatures: true, VerifySignatures: true}

// PartialSerializeConfig is used for drafts handed between co-signers.
var PartialSerializeConfig = SerializeConfig{RequireAllSignatures: false, VerifySignatures: true}

// Serialize encodes the transaction after the checks selected by cfg.
func (tx *Transaction) Serialize(cfg SerializeConfig) ([]byte, error) {
	if err := checkCounts(&tx.Message); err != nil {
		return nil, err
	}
	if cfg.VerifySignatures {
		if err := tx.VerifySignatures(cfg.RequireAllSignatures); err != nil {
			return nil, err
		}
	} else if cfg.RequireAllSignatures {
		if missing := tx.MissingSigners(); len(missing) > 0 {
			return nil, MissingSignatureError{Signers: missing}
		}
	}
	data, err := tx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if len(data) > PacketDataSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTransactionTooLarge, len(data), PacketDataSize)
	}
	return data, nil
}

// UnmarshalBinary decodes the wire form and checks that the result is well formed.
// Every failure wraps ErrMalformedTransaction.
func (tx *Transaction) UnmarshalBinary(data []byte) error {
	decoded, err := decodeTransaction(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}
	*tx = *decoded
	return nil
}

// DecodeTransaction decodes the wire form of a transaction.
func DecodeTransaction(data []byte) (*Transaction, error) {
	var tx Transaction
	if err := tx.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &tx, nil
}

func decodeTransaction(data []byte) (*Transaction, error) {
	dec := bin.NewBinDecoder(data)
	var tx Transaction
	if err := tx.Transaction.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}
	if dec.HasRemaining() {
		return nil, fmt.Errorf("%d bytes: %w", dec.Remaining(), errTrailingBytes)
	}
	if tx.Message.IsVersioned() {
		return nil, errVersionedMessage
	}
	if err := tx.sanitize(); err != nil {
		return nil, err
	}
	return &tx, nil
}

// sanitize checks the structural invariants the codec alone cannot express.
func (tx *Transaction) sanitize() error {
	m := &tx.Message
	h := m.Header
	nkeys := len(m.AccountKeys)
	if h.NumRequiredSignatures == 0 {
		return errNoFeePayer
	}
	if int(h.NumRequiredSignatures) != len(tx.Signatures) {
		return fmt.Errorf("%d signatures for %d required signers", len(tx.Signatures), h.NumRequiredSignatures)
	}
	if int(h.NumRequiredSignatures) > nkeys {
		return fmt.Errorf("%d required signers but only %d account keys", h.NumRequiredSignatures, nkeys)
	}
	if h.NumReadonlySignedAccounts >= h.NumRequiredSignatures {
		return fmt.Errorf("fee payer must be writable")
	}
	if int(h.NumReadonlyUnsignedAccounts) > nkeys-int(h.NumRequiredSignatures) {
		return fmt.Errorf("%d read-only unsigned accounts exceed %d unsigned keys", h.NumReadonlyUnsignedAccounts, nkeys-int(h.NumRequiredSignatures))
	}
	if nkeys > 255 {
		return errTooManyAccounts
	}
	seen := make(map[basics.Address]bool, nkeys)
	for _, k := range m.AccountKeys {
		if seen[k] {
			return fmt.Errorf("account key %s listed twice", k)
		}
		seen[k] = true
	}
	if len(m.Instructions) == 0 {
		return errNoInstructions
	}
	for i, ci := range m.Instructions {
		if int(ci.ProgramIDIndex) >= nkeys {
			return fmt.Errorf("instruction %d: program index %d out of range", i, ci.ProgramIDIndex)
		}
		if ci.ProgramIDIndex == 0 {
			return fmt.Errorf("instruction %d: fee payer cannot be the program", i)
		}
		for _, idx := range ci.Accounts {
			if int(idx) >= nkeys {
				return fmt.Errorf("instruction %d: account index %d out of range", i, idx)
			}
		}
	}
	return nil
}

// EncodeBase64 serializes tx with cfg and encodes it in standard base64, the
// form exchanged between co-signers and sent to the ledger.
func EncodeBase64(tx *Transaction, cfg SerializeConfig) (string, error) {
	data, err := tx.Serialize(cfg)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeBase64 reverses EncodeBase64.
func DecodeBase64(encoded string) (*Transaction, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}
	return DecodeTransaction(data)
}
