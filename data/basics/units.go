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

package basics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LamportsPerSOL is the number of base units in one SOL.
const LamportsPerSOL uint64 = 1_000_000_000

// NativeDecimals is the number of decimal places of the native currency.
const NativeDecimals uint8 = 9

// MaxDecimals is the largest scale a u64 amount can carry.
const MaxDecimals uint8 = 19

var (
	errAmountEmpty     = errors.New("amount is empty")
	errAmountOverflow  = errors.New("amount does not fit in 64 bits")
	errAmountPrecision = errors.New("amount has more fractional digits than the mint allows")
	errAmountDecimals  = errors.New("too many decimals")
)

func pow10(decimals uint8) uint64 {
	p := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		p *= 10
	}
	return p
}

// FormatAmount renders a base-unit amount with the given number of decimals.
// FormatAmount(2700, 2) is "27.00".
func FormatAmount(amount uint64, decimals uint8) string {
	if decimals == 0 {
		return strconv.FormatUint(amount, 10)
	}
	digits := strconv.FormatUint(amount, 10)
	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}
	cut := len(digits) - int(decimals)
	return digits[:cut] + "." + digits[cut:]
}

// ParseAmount converts a major-unit string such as "27" or "27.5" into base units.
func ParseAmount(s string, decimals uint8) (uint64, error) {
	if decimals > MaxDecimals {
		return 0, fmt.Errorf("%w: %d", errAmountDecimals, decimals)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errAmountEmpty
	}
	whole, frac, hasPoint := strings.Cut(s, ".")
	if whole == "" && (!hasPoint || frac == "") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > int(decimals) {
		return 0, fmt.Errorf("%w: %q with %d decimals", errAmountPrecision, s, decimals)
	}

	var w uint64
	if whole != "" {
		var err error
		w, err = strconv.ParseUint(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}
	var f uint64
	if frac != "" {
		var err error
		f, err = strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		f *= pow10(decimals - uint8(len(frac)))
	}

	scaled, overflowed := OMul(w, pow10(decimals))
	if overflowed {
		return 0, errAmountOverflow
	}
	total, overflowed := OAdd(scaled, f)
	if overflowed {
		return 0, errAmountOverflow
	}
	return total, nil
}
