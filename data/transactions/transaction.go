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
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/data/basics"
)

// State is where a transaction draft sits in the co-signing lifecycle.
type State int

const (
	// Unsigned drafts have no filled signature slots.
	Unsigned State = iota
	// PartiallySigned drafts have some but not all slots filled.
	PartiallySigned
	// FullySigned drafts can be submitted.
	FullySigned
	// Submitted drafts were accepted by the ledger for processing.
	Submitted
)

func (s State) String() string {
	switch s {
	case Unsigned:
		return "unsigned"
	case PartiallySigned:
		return "partially-signed"
	case FullySigned:
		return "fully-signed"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Transaction is a message together with one signature slot per required signer.
// Slot i belongs to Message.AccountKeys[i]; an all-zero slot is unsigned.
type Transaction struct {
	solana.Transaction

	trackingID string
}

// NewTransaction compiles instrs into a message paying fees from feePayer and
// anchored to the freshness token. The signer set is fixed from here on.
func NewTransaction(feePayer basics.Address, freshness basics.Hash, instrs ...Instruction) (*Transaction, error) {
	compiled, err := compileMessage(feePayer, freshness, instrs)
	if err != nil {
		return nil, err
	}
	compiled.Signatures = make([]crypto.Signature, compiled.Message.Header.NumRequiredSignatures)
	return &Transaction{Transaction: *compiled}, nil
}

// PartialSign fills the slots of the given keys. No slot is touched if any key
// is not a required signer.
func (tx *Transaction) PartialSign(keys ...*crypto.Keypair) error {
	byKey := make(map[basics.Address]*crypto.Keypair, len(keys))
	for _, kp := range keys {
		if tx.signerIndex(kp.PublicKey) < 0 {
			return fmt.Errorf("%w: %s", ErrSignerNotRequired, kp.PublicKey)
		}
		byKey[kp.PublicKey] = kp
	}
	_, err := tx.Transaction.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if kp, ok := byKey[key]; ok {
			return &kp.PrivateKey
		}
		return nil
	})
	return err
}

// Sign fills the slots of keys and requires the result to be fully signed.
func (tx *Transaction) Sign(keys ...*crypto.Keypair) error {
	if err := tx.PartialSign(keys...); err != nil {
		return err
	}
	if missing := tx.MissingSigners(); len(missing) > 0 {
		return MissingSignatureError{Signers: missing}
	}
	return nil
}

// AddSignature places an externally produced signature for signer.
func (tx *Transaction) AddSignature(signer basics.Address, sig crypto.Signature) error {
	slot := tx.signerIndex(signer)
	if slot < 0 {
		return fmt.Errorf("%w: %s", ErrSignerNotRequired, signer)
	}
	tx.Signatures[slot] = sig
	return nil
}

// State reports the lifecycle stage derived from the filled slots.
func (tx *Transaction) State() State {
	if tx.trackingID != "" {
		return Submitted
	}
	filled := 0
	for _, sig := range tx.Signatures {
		if !sig.IsZero() {
			filled++
		}
	}
	switch {
	case filled == 0:
		return Unsigned
	case filled == len(tx.Signatures):
		return FullySigned
	default:
		return PartiallySigned
	}
}

// MissingSigners returns the required signers whose slot is still empty.
func (tx *Transaction) MissingSigners() []basics.Address {
	var missing []basics.Address
	for i, sig := range tx.Signatures {
		if sig.IsZero() && i < len(tx.Message.AccountKeys) {
			missing = append(missing, tx.Message.AccountKeys[i])
		}
	}
	return missing
}

// IsSignedBy reports whether signer's slot holds a signature.
func (tx *Transaction) IsSignedBy(signer basics.Address) bool {
	slot := tx.signerIndex(signer)
	return slot >= 0 && slot < len(tx.Signatures) && !tx.Signatures[slot].IsZero()
}

// VerifySignatures checks every filled slot against the message. Empty slots
// are an error only when requireAll is set.
func (tx *Transaction) VerifySignatures(requireAll bool) error {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return err
	}
	for i, sig := range tx.Signatures {
		if sig.IsZero() {
			continue
		}
		signer := tx.Message.AccountKeys[i]
		if !crypto.VerifyBytes(signer, msg, sig) {
			return SignatureError{Index: i, Signer: signer}
		}
	}
	if requireAll {
		if missing := tx.MissingSigners(); len(missing) > 0 {
			return MissingSignatureError{Signers: missing}
		}
	}
	return nil
}

// MarkSubmitted records the ledger's tracking identifier. Only fully signed
// transactions can be submitted.
func (tx *Transaction) MarkSubmitted(trackingID string) error {
	if st := tx.State(); st != FullySigned {
		return fmt.Errorf("%w: state is %s", ErrNotFullySigned, st)
	}
	tx.trackingID = trackingID
	return nil
}

// TrackingID returns the identifier recorded by MarkSubmitted.
func (tx *Transaction) TrackingID() string {
	return tx.trackingID
}

// ID is the ledger's identifier for the transaction: the fee payer's signature in
// base 58. It is empty until the fee payer has signed.
func (tx *Transaction) ID() string {
	if len(tx.Signatures) == 0 || tx.Signatures[0].IsZero() {
		return ""
	}
	return tx.Signatures[0].String()
}
