// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package bibtex implements the BibTeX lexer (four mode-morphed token
// alphabets), its recursive-descent parser, and typed AST facades.
package bibtex

import "fmt"

// Kind is the BibTeX grammar's own SyntaxKind enum — a separate type
// from latex.Kind, per spec.md §3 ("one enum per grammar"), even
// though both instantiate the same generic green.Builder/syntax.Node.
type Kind uint16

const (
	// --- tokens shared by every mode ---
	WHITESPACE Kind = iota
	COMMENT

	// --- Root mode ---
	AT
	PREAMBLE_TYPE
	STRING_TYPE
	COMMENT_TYPE
	ENTRY_TYPE
	JUNK

	// --- Body mode ---
	L_DELIM
	R_DELIM
	NAME
	COMMA
	EQUALITY_SIGN

	// --- Value mode ---
	HASH
	INTEGER
	QUOTE

	// --- Content mode ---
	L_BRACE
	R_BRACE
	ACCENT_COMMAND
	COMMAND_NAME
	TILDE
	WORD

	// --- universal sentinels ---
	ERROR
	MISSING

	kindTokenBoundary

	// --- node kinds ---
	ROOT
	PREAMBLE
	STRING
	ENTRY
	FIELD
	VALUE
	JOIN
	BRACE_GROUP
	QUOTE_GROUP
	ACCENT
)

func (k Kind) IsError() bool   { return k == ERROR }
func (k Kind) IsMissing() bool { return k == MISSING }
func (k Kind) IsToken() bool   { return k < kindTokenBoundary }

var kindNames = [...]string{
	"WHITESPACE", "COMMENT", "AT", "PREAMBLE_TYPE", "STRING_TYPE", "COMMENT_TYPE",
	"ENTRY_TYPE", "JUNK", "L_DELIM", "R_DELIM", "NAME", "COMMA", "EQUALITY_SIGN",
	"HASH", "INTEGER", "QUOTE", "L_BRACE", "R_BRACE", "ACCENT_COMMAND",
	"COMMAND_NAME", "TILDE", "WORD", "ERROR", "MISSING", "kindTokenBoundary",
	"ROOT", "PREAMBLE", "STRING", "ENTRY", "FIELD", "VALUE", "JOIN",
	"BRACE_GROUP", "QUOTE_GROUP", "ACCENT",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// Mode is the lexer's current token alphabet. Per spec.md §4.4/§9, the
// mode-morph is implemented as a parameter the parser passes to each
// Peek call rather than a type-level state machine, so one Lexer value
// serves all four modes.
type Mode int

const (
	ModeRoot Mode = iota
	ModeBody
	ModeValue
	ModeContent
)
