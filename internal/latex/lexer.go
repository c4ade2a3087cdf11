// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package latex

import (
	"regexp"
	"strings"
)

// rule is one entry of the lexer's priority-ordered regex table. Rules
// are tried in order; among rules whose regex matches at the current
// position, the longest match wins, and ties are broken by table order
// (earlier rule wins) — per spec.md §4.1 "longest match, ties broken
// by a static priority table".
type rule struct {
	kind Kind
	re   *regexp.Regexp
}

var rules = []rule{
	{WHITESPACE, regexp.MustCompile(`^[ \t\r\n]+`)},
	{COMMENT, regexp.MustCompile(`^%[^\n]*`)},
	{L_BRACE, regexp.MustCompile(`^\{`)},
	{R_BRACE, regexp.MustCompile(`^\}`)},
	{L_BRACKET, regexp.MustCompile(`^\[`)},
	{R_BRACKET, regexp.MustCompile(`^\]`)},
	{L_PAREN, regexp.MustCompile(`^\(`)},
	{R_PAREN, regexp.MustCompile(`^\)`)},
	{PARAMETER, regexp.MustCompile(`^#[0-9]?`)},
	{COMMA, regexp.MustCompile(`^,`)},
	{EQUALITY_SIGN, regexp.MustCompile(`^=`)},
	{DOLLAR, regexp.MustCompile(`^\$\$?`)},
	// Control words: backslash + run of letters + optional trailing
	// star. The matched spelling is looked up in commandKeywords to
	// decide between a semantic command token and GENERIC_COMMAND_NAME.
	{GENERIC_COMMAND_NAME, regexp.MustCompile(`^\\[A-Za-z]+\*?`)},
	// Control symbols: backslash + exactly one non-letter character,
	// e.g. \[, \], \\, \$, \%, \{, \}.
	{GENERIC_COMMAND_NAME, regexp.MustCompile(`^\\[^A-Za-z]`)},
	// WORD is the catch-all: a greedy run of anything not claimed by a
	// more specific rule above. Every byte not whitespace/punctuation/
	// backslash/percent/dollar/brace/bracket/paren/hash/comma/equals
	// falls in here, so totality (spec.md §4.1(i)) holds.
	{WORD, regexp.MustCompile(`^[^ \t\r\n{}\[\]()#,=$\\%]+`)},
}

// commandKeywords maps a recognized control-sequence spelling (without
// its leading backslash or trailing *) to the semantic command token
// it lexes as instead of the generic GENERIC_COMMAND_NAME. This is the
// "specific control-sequence spellings" table spec.md §4.1 describes.
var commandKeywords = map[string]Kind{
	"begin":            BEGIN_ENV,
	"end":              END_ENV,
	"part":             PART_COMMAND,
	"chapter":          CHAPTER_COMMAND,
	"section":          SECTION_COMMAND,
	"subsection":       SUBSECTION_COMMAND,
	"subsubsection":    SUBSUBSECTION_COMMAND,
	"paragraph":        PARAGRAPH_COMMAND,
	"subparagraph":     SUBPARAGRAPH_COMMAND,
	"item":             ENUM_ITEM_COMMAND,
	"caption":          CAPTION_COMMAND,
	"cite":             CITATION_COMMAND,
	"citep":            CITATION_COMMAND,
	"citet":            CITATION_COMMAND,
	"citeauthor":       CITATION_COMMAND,
	"citeyear":         CITATION_COMMAND,
	"parencite":        CITATION_COMMAND,
	"textcite":         CITATION_COMMAND,
	"nocite":           CITATION_COMMAND,
	"include":          LATEX_INCLUDE_COMMAND,
	"input":            LATEX_INCLUDE_COMMAND,
	"subfile":          LATEX_INCLUDE_COMMAND,
	"addbibresource":   BIBLATEX_INCLUDE_COMMAND,
	"bibliography":     BIBLATEX_INCLUDE_COMMAND,
	"usepackage":       PACKAGE_INCLUDE_COMMAND,
	"RequirePackage":   PACKAGE_INCLUDE_COMMAND,
	"documentclass":    CLASS_INCLUDE_COMMAND,
	"LoadClass":        CLASS_INCLUDE_COMMAND,
	"import":           IMPORT_COMMAND,
	"subimport":        IMPORT_COMMAND,
	"label":            LABEL_DEFINITION_COMMAND,
	"ref":              LABEL_REFERENCE_COMMAND,
	"eqref":            LABEL_REFERENCE_COMMAND,
	"autoref":          LABEL_REFERENCE_COMMAND,
	"pageref":          LABEL_REFERENCE_COMMAND,
	"cref":             LABEL_REFERENCE_COMMAND,
	"Cref":             LABEL_REFERENCE_COMMAND,
	"crefrange":        LABEL_REFERENCE_RANGE_COMMAND,
	"Crefrange":        LABEL_REFERENCE_RANGE_COMMAND,
	"newlabel":         LABEL_NUMBER_COMMAND,
	"newcommand":       COMMAND_DEFINITION_COMMAND,
	"renewcommand":     COMMAND_DEFINITION_COMMAND,
	"providecommand":   COMMAND_DEFINITION_COMMAND,
	"DeclareMathOperator": MATH_OPERATOR_COMMAND,
	"newglossaryentry": GLOSSARY_ENTRY_DEFINITION_COMMAND,
	"newacronym":       ACRONYM_DEFINITION_COMMAND,
	"newtheorem":       THEOREM_DEFINITION_COMMAND,
	"definecolor":      COLOR_DEFINITION_COMMAND,
	"definecolorset":   COLOR_SET_DEFINITION_COMMAND,
	"usetikzlibrary":   TIKZ_LIBRARY_IMPORT_COMMAND,
	"graphicspath":     GRAPHICS_PATH_COMMAND,
	"iffalse":          IFFALSE_COMMAND,
	"fi":               FI_COMMAND,
	"else":             ELSE_COMMAND,
	"verb":             GENERIC_COMMAND_NAME, // handled specially below, kept generic here
}

// controlSymbolKeywords maps a one-character control symbol (the
// character right after the backslash) to its semantic kind. Only
// \[ and \] carry special meaning (display-math delimiters); every
// other control symbol (\\, \$, \%, \{, \}, \&, \_, …) stays generic.
var controlSymbolKeywords = map[byte]Kind{
	'[': BEGIN_EQUATION,
	']': END_EQUATION,
}

// Token is one lexed leaf: its kind and exact source text.
type Token struct {
	Kind Kind
	Text string
}

// Lexer is a single-pass, regex-driven LaTeX tokenizer. It is a pure
// function of its input: constructing one and draining it with Next
// always produces the same token stream, and it never reads or writes
// any state outside of itself (spec.md §4.1(iii)).
type Lexer struct {
	src string
	pos int

	// verbPending and verbDelim implement \verb<delim>...<delim>
	// lexing: after a \verb or \verb* control word, the next calls to
	// Next produce a one-byte VERBATIM_DELIMITER, a VERBATIM run up to
	// (not including) the matching delimiter, and a closing
	// VERBATIM_DELIMITER — braces inside are not balanced, matching
	// spec.md §4.3 "Verbatim".
	verbPending bool
	verbDelim   byte
	verbInside  bool
}

// NewLexer returns a Lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Next returns the next token and true, or a zero Token and false at
// end of input.
func (l *Lexer) Next() (Token, bool) {
	if l.pos >= len(l.src) {
		return Token{}, false
	}

	if l.verbPending {
		l.verbPending = false
		l.verbInside = true
		l.verbDelim = l.src[l.pos]
		text := l.src[l.pos : l.pos+1]
		l.pos++
		return Token{Kind: VERBATIM_DELIMITER, Text: text}, true
	}
	if l.verbInside {
		rest := l.src[l.pos:]
		end := strings.IndexByte(rest, l.verbDelim)
		if end < 0 {
			end = len(rest)
		}
		if end == 0 {
			l.verbInside = false
			text := l.src[l.pos : l.pos+1]
			l.pos++
			return Token{Kind: VERBATIM_DELIMITER, Text: text}, true
		}
		text := l.src[l.pos : l.pos+end]
		l.pos += end
		return Token{Kind: VERBATIM, Text: text}, true
	}

	rest := l.src[l.pos:]
	bestLen := -1
	bestKind := Kind(0)
	for _, r := range rules {
		loc := r.re.FindStringIndex(rest)
		if loc == nil || loc[0] != 0 {
			continue
		}
		n := loc[1]
		if n > bestLen {
			bestLen = n
			bestKind = r.kind
		}
	}

	if bestLen <= 0 {
		// Fallback: no rule matches a lone backslash at the very end of
		// the input (control words and symbols need a character after
		// it, and WORD excludes '\'). Consume exactly one byte so the
		// lexer stays total.
		text := l.src[l.pos : l.pos+1]
		l.pos++
		return Token{Kind: WORD, Text: text}, true
	}

	text := rest[:bestLen]
	kind := bestKind

	if kind == GENERIC_COMMAND_NAME {
		if len(text) >= 2 && isLetter(text[1]) {
			name := text[1:]
			if name[len(name)-1] == '*' {
				name = name[:len(name)-1]
			}
			if k, ok := commandKeywords[name]; ok && k != GENERIC_COMMAND_NAME {
				kind = k
			} else if name == "verb" {
				l.verbPending = true
			}
		} else if len(text) == 2 {
			if k, ok := controlSymbolKeywords[text[1]]; ok {
				kind = k
			}
		}
	}

	l.pos += bestLen
	return Token{Kind: kind, Text: text}, true
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
