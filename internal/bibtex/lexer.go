// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package bibtex

import (
	"regexp"
	"strings"
)

// Token is one lexed leaf: its kind and exact source text.
type Token struct {
	Kind Kind
	Text string
}

// Lexer is BibTeX's mode-morphed tokenizer. Rather than a type-level
// state machine, a single Lexer value, which tracks only its position
// and keeps no mode of its own, accepts the desired
// Mode on every Peek call — the "typed token-pointer morph" of
// spec.md §4.4, reworked per spec.md §9's re-architecture note ("a
// single stateful lexer that accepts a mode parameter on each next
// call"). Peek never mutates position; Advance commits it. This lets
// the parser re-interpret the very same byte position under a
// different mode without any lexer-side bookkeeping to undo.
type Lexer struct {
	src string
	pos int
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src string) *Lexer { return &Lexer{src: src} }

// Advance commits tok as consumed, moving the lexer's position past it.
// Callers always pass back the exact Token a prior Peek returned.
func (l *Lexer) Advance(tok Token) { l.pos += len(tok.Text) }

// Peek returns the next token under mode without consuming it.
func (l *Lexer) Peek(mode Mode) (Token, bool) {
	if l.pos >= len(l.src) {
		return Token{}, false
	}
	switch mode {
	case ModeRoot:
		return l.peekRoot()
	case ModeBody:
		return l.peekBody()
	case ModeValue:
		return l.peekValue()
	case ModeContent:
		return l.peekContent()
	default:
		return Token{}, false
	}
}

func (l *Lexer) peekRoot() (Token, bool) {
	rest := l.src[l.pos:]
	if rest[0] == '@' {
		return Token{Kind: AT, Text: "@"}, true
	}
	if l.pos > 0 && l.src[l.pos-1] == '@' {
		n := scanWhile(rest, isLetter)
		if n > 0 {
			word := rest[:n]
			return Token{Kind: classifyEntryType(word), Text: word}, true
		}
	}
	idx := strings.IndexByte(rest, '@')
	if idx < 0 {
		idx = len(rest)
	}
	if idx == 0 {
		idx = 1
	}
	return Token{Kind: JUNK, Text: rest[:idx]}, true
}

func classifyEntryType(word string) Kind {
	switch strings.ToLower(word) {
	case "preamble":
		return PREAMBLE_TYPE
	case "string":
		return STRING_TYPE
	case "comment":
		return COMMENT_TYPE
	default:
		return ENTRY_TYPE
	}
}

var (
	bodyWhitespace = regexp.MustCompile(`^[ \t\r\n]+`)
	bodyName       = regexp.MustCompile(`^[^ \t\r\n{}()#,="]+`)
	valueName      = regexp.MustCompile(`^[^ \t\r\n#"{}]+`)
	valueInteger   = regexp.MustCompile(`^[0-9]+`)
	contentWord    = regexp.MustCompile(`^[^ \t\r\n{}\\~"]+`)
	accentCommand  = regexp.MustCompile("^\\\\[`'^\"~=.cuvHtbdrk]")
	genericCommand = regexp.MustCompile(`^\\[A-Za-z]+`)
)

func (l *Lexer) peekBody() (Token, bool) {
	rest := l.src[l.pos:]
	if loc := bodyWhitespace.FindStringIndex(rest); loc != nil {
		return Token{Kind: WHITESPACE, Text: rest[:loc[1]]}, true
	}
	switch rest[0] {
	case '{', '(':
		return Token{Kind: L_DELIM, Text: rest[:1]}, true
	case '}', ')':
		return Token{Kind: R_DELIM, Text: rest[:1]}, true
	case ',':
		return Token{Kind: COMMA, Text: rest[:1]}, true
	case '=':
		return Token{Kind: EQUALITY_SIGN, Text: rest[:1]}, true
	}
	if loc := bodyName.FindStringIndex(rest); loc != nil && loc[0] == 0 {
		return Token{Kind: NAME, Text: rest[:loc[1]]}, true
	}
	return Token{Kind: NAME, Text: rest[:1]}, true
}

func (l *Lexer) peekValue() (Token, bool) {
	rest := l.src[l.pos:]
	if loc := bodyWhitespace.FindStringIndex(rest); loc != nil {
		return Token{Kind: WHITESPACE, Text: rest[:loc[1]]}, true
	}
	switch rest[0] {
	case '#':
		return Token{Kind: HASH, Text: rest[:1]}, true
	case '"':
		return Token{Kind: QUOTE, Text: rest[:1]}, true
	case '{':
		return Token{Kind: L_BRACE, Text: rest[:1]}, true
	}
	if loc := valueInteger.FindStringIndex(rest); loc != nil && loc[0] == 0 {
		return Token{Kind: INTEGER, Text: rest[:loc[1]]}, true
	}
	if loc := valueName.FindStringIndex(rest); loc != nil && loc[0] == 0 {
		return Token{Kind: NAME, Text: rest[:loc[1]]}, true
	}
	return Token{Kind: NAME, Text: rest[:1]}, true
}

func (l *Lexer) peekContent() (Token, bool) {
	rest := l.src[l.pos:]
	if loc := bodyWhitespace.FindStringIndex(rest); loc != nil {
		return Token{Kind: WHITESPACE, Text: rest[:loc[1]]}, true
	}
	switch rest[0] {
	case '{':
		return Token{Kind: L_BRACE, Text: rest[:1]}, true
	case '}':
		return Token{Kind: R_BRACE, Text: rest[:1]}, true
	case '"':
		return Token{Kind: QUOTE, Text: rest[:1]}, true
	case '~':
		return Token{Kind: TILDE, Text: rest[:1]}, true
	}
	if loc := accentCommand.FindStringIndex(rest); loc != nil && loc[0] == 0 {
		return Token{Kind: ACCENT_COMMAND, Text: rest[:loc[1]]}, true
	}
	if loc := genericCommand.FindStringIndex(rest); loc != nil && loc[0] == 0 {
		return Token{Kind: COMMAND_NAME, Text: rest[:loc[1]]}, true
	}
	if loc := contentWord.FindStringIndex(rest); loc != nil && loc[0] == 0 {
		return Token{Kind: WORD, Text: rest[:loc[1]]}, true
	}
	return Token{Kind: WORD, Text: rest[:1]}, true
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func scanWhile(s string, pred func(byte) bool) int {
	n := 0
	for n < len(s) && pred(s[n]) {
		n++
	}
	return n
}
