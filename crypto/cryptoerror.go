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

package crypto

import "errors"

var (
	errInvalidPrivateKeyLength = errors.New("invalid private key length")
	errInvalidPrivateKey       = errors.New("invalid private key")
	errPublicKeyMismatch       = errors.New("private key does not match its public half")
	errSeedTooLong             = errors.New("program address seed exceeds maximum length")
	errTooManySeeds            = errors.New("too many program address seeds")
	errInvalidSeeds            = errors.New("seeds derive a point on the ed25519 curve")
	errNoViableBump            = errors.New("unable to find a viable program address bump seed")
)

// ErrRandomnessUnavailable wraps failures of the secure random source; they are never retried.
var ErrRandomnessUnavailable = errors.New("secure random source unavailable")
