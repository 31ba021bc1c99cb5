// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines snailfish token types and their delimiter runes.
package token

// Token represents a snailfish token type.
type Token int

const (
	EOF     Token = iota
	ILLEGAL       // Any rune outside the grammar, including whitespace

	NUMBER   // Maximal run of decimal digits
	LBRACKET // [ - Opens a pair
	RBRACKET // ] - Closes a pair
	COMMA    // , - Separates the two halves of a pair
)

// Delimiter runes.
const (
	RuneOpen  = '['
	RuneClose = ']'
	RuneComma = ','
)

// IsDigit returns true for ASCII decimal digits. Other Unicode digits are
// not part of the grammar.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// TokenFromRune returns the token type for a delimiter rune.
func TokenFromRune(r rune) Token {
	switch r {
	case RuneOpen:
		return LBRACKET
	case RuneClose:
		return RBRACKET
	case RuneComma:
		return COMMA
	}
	if IsDigit(r) {
		return NUMBER
	}
	return ILLEGAL
}

// String returns the string representation of a token.
func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return "ILLEGAL"
	case NUMBER:
		return "NUMBER"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case COMMA:
		return "COMMA"
	}
	return "UNKNOWN"
}

// StartsValue returns true if the token can begin a snailfish number.
func (t Token) StartsValue() bool {
	return t == NUMBER || t == LBRACKET
}
