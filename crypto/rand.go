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

import (
	"crypto/rand"
	"fmt"
	"io"
)

// RNG represents a source of entropy for key generation.
type RNG interface {
	RandBytes([]byte) error
}

type systemRNG struct{}

// SystemRNG is the operating system's cryptographically secure random source.
var SystemRNG RNG = systemRNG{}

func (systemRNG) RandBytes(buf []byte) error {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}
	return nil
}
