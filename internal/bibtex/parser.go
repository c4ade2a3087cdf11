// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package bibtex

import "github.com/playbymail/texls/internal/green"

// Parser is BibTeX's hand-written recursive-descent parser. It drives
// Lexer across its four modes by passing the mode it currently expects
// on every Peek, per spec.md §4.4's mode-morph design.
type Parser struct {
	lx *Lexer
	b  *green.Builder[Kind]
}

// ParseFile lexes and parses src into a green tree. Parsing is total:
// malformed input never returns an error, it produces ERROR/MISSING
// leaves in-tree (spec.md §7), mirroring internal/latex's parser.
func ParseFile(src string) (*green.Tree[Kind], error) {
	p := &Parser{lx: NewLexer(src), b: green.New[Kind]()}
	p.parseRoot()
	return p.b.Finish()
}

func (p *Parser) peek(mode Mode) (Token, bool) { return p.lx.Peek(mode) }

func (p *Parser) bump(mode Mode) Token {
	tok, ok := p.peek(mode)
	if !ok {
		return Token{}
	}
	p.lx.Advance(tok)
	p.b.Token(tok.Kind, tok.Text)
	return tok
}

func (p *Parser) bumpAs(mode Mode, kind Kind) Token {
	tok, ok := p.peek(mode)
	if !ok {
		return Token{}
	}
	p.lx.Advance(tok)
	p.b.Token(kind, tok.Text)
	return tok
}

// expect bumps the next mode-token if it matches kind, else synthesizes
// a zero-length MISSING leaf and leaves the input position untouched.
func (p *Parser) expect(mode Mode, kind Kind) (Token, bool) {
	if tok, ok := p.peek(mode); ok && tok.Kind == kind {
		return p.bump(mode), true
	}
	p.b.Token(MISSING, "")
	return Token{Kind: MISSING}, false
}

// expectMatchingCloser consumes the closing delimiter of an entry/
// preamble/string opened with openTok, rejecting a mismatched pair
// ("{" closed by ")") as MISSING rather than silently accepting it —
// the Open Question in spec.md §9 resolves in favor of flagging
// mixed delimiters, never matching them.
func (p *Parser) expectMatchingCloser(openTok Token) {
	want := "}"
	if openTok.Text == "(" {
		want = ")"
	}
	if tok, ok := p.peek(ModeBody); ok && tok.Kind == R_DELIM && tok.Text == want {
		p.bump(ModeBody)
		return
	}
	p.b.Token(MISSING, "")
}

func (p *Parser) skipTrivia(mode Mode) {
	for {
		tok, ok := p.peek(mode)
		if !ok || tok.Kind != WHITESPACE {
			return
		}
		p.bump(mode)
	}
}

func (p *Parser) parseRoot() {
	p.b.StartNode(ROOT)
	for {
		p.skipTrivia(ModeRoot)
		tok, ok := p.peek(ModeRoot)
		if !ok {
			break
		}
		switch tok.Kind {
		case JUNK:
			p.bump(ModeRoot)
		case AT:
			// Peek two Root-mode tokens ahead (on a throwaway copy of
			// the lexer, which is plain and cheaply copyable) to pick
			// the node kind before StartNode opens it, so the '@' and
			// type-word tokens end up nested inside it.
			la := *p.lx
			la.Advance(tok)
			typeTok, ok2 := la.Peek(ModeRoot)
			if !ok2 {
				p.bumpAs(ModeRoot, ERROR)
				continue
			}
			switch typeTok.Kind {
			case PREAMBLE_TYPE:
				p.parsePreamble()
			case STRING_TYPE:
				p.parseStringDef()
			default: // COMMENT_TYPE and ENTRY_TYPE share the entry shape
				p.parseEntry()
			}
		default:
			p.bumpAs(ModeRoot, ERROR)
		}
	}
	p.b.FinishNode()
}

func (p *Parser) parsePreamble() {
	p.b.StartNode(PREAMBLE)
	p.bump(ModeRoot) // '@'
	p.bump(ModeRoot) // "preamble"
	p.skipTrivia(ModeBody)
	open, _ := p.expect(ModeBody, L_DELIM)
	p.parseValue()
	p.skipTrivia(ModeBody)
	p.expectMatchingCloser(open)
	p.b.FinishNode()
}

func (p *Parser) parseStringDef() {
	p.b.StartNode(STRING)
	p.bump(ModeRoot) // '@'
	p.bump(ModeRoot) // "string"
	p.skipTrivia(ModeBody)
	open, _ := p.expect(ModeBody, L_DELIM)
	p.skipTrivia(ModeBody)
	p.expect(ModeBody, NAME)
	p.skipTrivia(ModeBody)
	p.expect(ModeBody, EQUALITY_SIGN)
	p.parseValue()
	p.skipTrivia(ModeBody)
	p.expectMatchingCloser(open)
	p.b.FinishNode()
}

func (p *Parser) parseEntry() {
	p.b.StartNode(ENTRY)
	p.bump(ModeRoot) // '@'
	p.bump(ModeRoot) // entry type, e.g. "article" or "comment"
	p.skipTrivia(ModeBody)
	open, _ := p.expect(ModeBody, L_DELIM)
	p.skipTrivia(ModeBody)
	p.expect(ModeBody, NAME) // citation key
	for {
		p.skipTrivia(ModeBody)
		tok, ok := p.peek(ModeBody)
		if !ok || tok.Kind == R_DELIM {
			break
		}
		if tok.Kind == COMMA {
			p.bump(ModeBody)
			continue
		}
		if tok.Kind == NAME {
			p.parseField()
			continue
		}
		p.bumpAs(ModeBody, ERROR)
	}
	p.skipTrivia(ModeBody)
	p.expectMatchingCloser(open)
	p.b.FinishNode()
}

func (p *Parser) parseField() {
	p.b.StartNode(FIELD)
	p.expect(ModeBody, NAME)
	p.skipTrivia(ModeBody)
	p.expect(ModeBody, EQUALITY_SIGN)
	p.parseValue()
	p.b.FinishNode()
}

// parseValue parses a '#'-joined value list, left-associating each new
// join via checkpoint+StartNodeAt so "a # b # c" nests as ((a # b) # c)
// per spec.md §9's "joins rotated left" design note. The checkpoint is
// taken once, before the first operand, and deliberately reused on
// every iteration: each StartNodeAt truncates the current frame back
// to that same point and re-wraps exactly the one node it left there
// (the previous JOIN, or the bare first operand) as the new JOIN's
// left child, so the chain nests leftward instead of flattening.
func (p *Parser) parseValue() {
	p.b.StartNode(VALUE)
	p.skipTrivia(ModeValue)
	cp := p.b.Checkpoint()
	p.parseValueToken()
	for {
		p.skipTrivia(ModeValue)
		tok, ok := p.peek(ModeValue)
		if !ok || tok.Kind != HASH {
			break
		}
		p.b.StartNodeAt(cp, JOIN)
		p.bump(ModeValue)
		p.skipTrivia(ModeValue)
		p.parseValueToken()
		p.b.FinishNode()
	}
	p.b.FinishNode()
}

func (p *Parser) parseValueToken() {
	tok, ok := p.peek(ModeValue)
	if !ok {
		p.b.Token(MISSING, "")
		return
	}
	switch tok.Kind {
	case QUOTE:
		p.parseQuoteGroup()
	case L_BRACE:
		p.parseBraceGroup()
	case INTEGER, NAME:
		p.bump(ModeValue)
	default:
		p.b.Token(MISSING, "")
	}
}

func (p *Parser) parseQuoteGroup() {
	p.b.StartNode(QUOTE_GROUP)
	p.bump(ModeValue) // opening quote
	depth := 0
	for {
		tok, ok := p.peek(ModeContent)
		if !ok {
			break
		}
		if tok.Kind == QUOTE && depth == 0 {
			p.bump(ModeContent)
			break
		}
		if tok.Kind == L_BRACE {
			depth++
		} else if tok.Kind == R_BRACE && depth > 0 {
			depth--
		}
		p.parseContentToken(tok)
	}
	p.b.FinishNode()
}

func (p *Parser) parseBraceGroup() {
	p.b.StartNode(BRACE_GROUP)
	p.bump(ModeValue) // opening brace
	depth := 1
	for {
		tok, ok := p.peek(ModeContent)
		if !ok {
			break
		}
		if tok.Kind == L_BRACE {
			depth++
			p.bump(ModeContent)
			continue
		}
		if tok.Kind == R_BRACE {
			depth--
			p.bump(ModeContent)
			if depth == 0 {
				break
			}
			continue
		}
		p.parseContentToken(tok)
	}
	p.b.FinishNode()
}

// parseContentToken consumes one Content-mode token, combining an
// ACCENT_COMMAND with its following argument into an ACCENT node
// (spec.md §4.4 "one-argument accents combining with the next word").
func (p *Parser) parseContentToken(tok Token) {
	if tok.Kind != ACCENT_COMMAND {
		p.bump(ModeContent)
		return
	}
	p.b.StartNode(ACCENT)
	p.bump(ModeContent)
	if next, ok := p.peek(ModeContent); ok {
		switch next.Kind {
		case L_BRACE:
			p.parseBraceGroup()
		case WORD, COMMAND_NAME:
			p.bump(ModeContent)
		}
	}
	p.b.FinishNode()
}
