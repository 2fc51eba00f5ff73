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

// Package vanity searches for keypairs whose base-58 address starts or ends
// with operator supplied patterns.
package vanity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPatterns is returned when neither prefixes nor suffixes were given.
	ErrNoPatterns = errors.New("at least one prefix or suffix pattern is required")
	// ErrUnmatchablePattern is returned for patterns no address can contain.
	ErrUnmatchablePattern = errors.New("pattern can never match an address")
)

const (
	base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

	// maxAddressLength is the longest base-58 rendering of 32 bytes.
	maxAddressLength = 44
)

var matchableChars = strings.ToLower(base58Alphabet)

// MatchPolicy decides how prefixes and suffixes combine.
type MatchPolicy int

const (
	// MatchAny accepts an address matching any single pattern.
	MatchAny MatchPolicy = iota
	// MatchAll requires some prefix and some suffix to match. An empty set
	// is satisfied by every address.
	MatchAll
)

func (p MatchPolicy) String() string {
	switch p {
	case MatchAny:
		return "any"
	case MatchAll:
		return "all"
	}
	return fmt.Sprintf("MatchPolicy(%d)", int(p))
}

// ParseMatchPolicy parses "any" or "all".
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return MatchAny, nil
	case "all":
		return MatchAll, nil
	}
	return MatchAny, fmt.Errorf("unknown match policy %q", s)
}

// Patterns is the set of lower-cased prefixes and suffixes an address is tested against.
type Patterns struct {
	Prefixes []string
	Suffixes []string
	Policy   MatchPolicy
}

// ParsePatterns splits comma separated prefix and suffix lists. Entries are
// trimmed and lower-cased and empty entries are dropped.
func ParsePatterns(starts, ends string, policy MatchPolicy) Patterns {
	return Patterns{
		Prefixes: splitPatterns(starts),
		Suffixes: splitPatterns(ends),
		Policy:   policy,
	}
}

func splitPatterns(csv string) []string {
	var out []string
	for _, p := range strings.Split(csv, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects empty and unmatchable pattern sets.
func (p Patterns) Validate() error {
	if len(p.Prefixes) == 0 && len(p.Suffixes) == 0 {
		return ErrNoPatterns
	}
	for _, set := range [][]string{p.Prefixes, p.Suffixes} {
		for _, pat := range set {
			if len(pat) > maxAddressLength {
				return fmt.Errorf("%w: %q is longer than any address", ErrUnmatchablePattern, pat)
			}
			if i := strings.IndexFunc(pat, func(r rune) bool { return !strings.ContainsRune(matchableChars, r) }); i >= 0 {
				return fmt.Errorf("%w: %q contains %q which is not in the base-58 alphabet", ErrUnmatchablePattern, pat, pat[i])
			}
		}
	}
	if p.Policy != MatchAny && p.Policy != MatchAll {
		return fmt.Errorf("unknown match policy %v", p.Policy)
	}
	return nil
}

// Matches reports whether address satisfies the patterns. The comparison is
// case-insensitive.
func Matches(address string, p Patterns) bool {
	lower := strings.ToLower(address)
	prefix := anyOf(p.Prefixes, func(s string) bool { return strings.HasPrefix(lower, s) })
	suffix := anyOf(p.Suffixes, func(s string) bool { return strings.HasSuffix(lower, s) })
	if p.Policy == MatchAll {
		return (len(p.Prefixes) == 0 || prefix) && (len(p.Suffixes) == 0 || suffix)
	}
	return prefix || suffix
}

func anyOf(set []string, pred func(string) bool) bool {
	for _, s := range set {
		if pred(s) {
			return true
		}
	}
	return false
}
