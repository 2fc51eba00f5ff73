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
	"errors"
	"fmt"

	"github.com/solkit/solkit/data/basics"
)

var (
	// ErrMalformedTransaction wraps every failure to decode a transaction from its wire form.
	ErrMalformedTransaction = errors.New("malformed transaction")
	// ErrSignerNotRequired is returned when a key that the message does not list as a
	// signer is used to sign it.
	ErrSignerNotRequired = errors.New("signer is not required by this transaction")
	// ErrMissingSignature is returned when a fully signed transaction is expected.
	ErrMissingSignature = errors.New("transaction is missing required signatures")
	// ErrNotFullySigned is returned when submitting a transaction that still has empty slots.
	ErrNotFullySigned = errors.New("transaction is not fully signed")
	// ErrTransactionTooLarge is returned when the encoded transaction exceeds PacketDataSize.
	ErrTransactionTooLarge = errors.New("transaction too large")

	errNoInstructions   = errors.New("transaction has no instructions")
	errTooManyAccounts  = errors.New("transaction references too many accounts")
	errNoFeePayer       = errors.New("transaction has no fee payer")
	errTrailingBytes    = errors.New("trailing bytes after transaction")
	errVersionedMessage = errors.New("versioned messages are not supported")
)

// SignatureError reports a signature slot that failed verification.
type SignatureError struct {
	Index  int
	Signer basics.Address
}

func (err SignatureError) Error() string {
	return fmt.Sprintf("signature %d by %s does not verify", err.Index, err.Signer)
}

// MissingSignatureError lists the signers whose slots are still empty.
type MissingSignatureError struct {
	Signers []basics.Address
}

func (err MissingSignatureError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMissingSignature, err.Signers)
}

// Unwrap lets errors.Is match ErrMissingSignature.
func (err MissingSignatureError) Unwrap() error {
	return ErrMissingSignature
}
