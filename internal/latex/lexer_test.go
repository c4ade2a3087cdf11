// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package latex_test

import (
	"testing"

	"github.com/playbymail/texls/internal/latex"
)

func lexAll(t *testing.T, src string) []latex.Token {
	t.Helper()
	lx := latex.NewLexer(src)
	var toks []latex.Token
	for {
		tok, ok := lx.Next()
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	var sum int
	for _, tok := range toks {
		sum += len(tok.Text)
	}
	if sum != len(src) {
		t.Fatalf("token text lengths sum to %d, want %d (full coverage)", sum, len(src))
	}
	return toks
}

func TestLexerFullCoverage(t *testing.T) {
	cases := []string{
		`\cite{foo, bar}`,
		`\section{Intro} text % comment` + "\n",
		`$x + y$ and $$z$$`,
		`\begin{foo} x \end{bar}`,
		`\verb|a{b|c`,
		``,
		"  \t\n",
	}
	for _, src := range cases {
		lexAll(t, src)
	}
}

func TestLexerRecognizesSemanticCommands(t *testing.T) {
	toks := lexAll(t, `\section{Intro}`)
	if toks[0].Kind != latex.SECTION_COMMAND {
		t.Fatalf("first token kind = %v, want SECTION_COMMAND", toks[0].Kind)
	}
	if toks[0].Text != `\section` {
		t.Fatalf("first token text = %q", toks[0].Text)
	}
}

func TestLexerGenericCommandFallback(t *testing.T) {
	toks := lexAll(t, `\foobar{x}`)
	if toks[0].Kind != latex.GENERIC_COMMAND_NAME {
		t.Fatalf("kind = %v, want GENERIC_COMMAND_NAME", toks[0].Kind)
	}
}

func TestLexerControlSymbols(t *testing.T) {
	toks := lexAll(t, `\[x\]`)
	if toks[0].Kind != latex.BEGIN_EQUATION {
		t.Fatalf("kind = %v, want BEGIN_EQUATION", toks[0].Kind)
	}
	last := toks[len(toks)-1]
	if last.Kind != latex.END_EQUATION {
		t.Fatalf("kind = %v, want END_EQUATION", last.Kind)
	}
}

func TestLexerVerbatimDoesNotBalanceBraces(t *testing.T) {
	toks := lexAll(t, `\verb|a{b|`)
	var kinds []latex.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	foundVerbatim := false
	for i, k := range kinds {
		if k == latex.VERBATIM {
			foundVerbatim = true
			if toks[i].Text != "a{b" {
				t.Fatalf("verbatim text = %q, want %q", toks[i].Text, "a{b")
			}
		}
	}
	if !foundVerbatim {
		t.Fatal("expected a VERBATIM token")
	}
}

func TestLexerDollarAndDoubleDollar(t *testing.T) {
	toks := lexAll(t, `$$x$$`)
	if toks[0].Kind != latex.DOLLAR || toks[0].Text != "$$" {
		t.Fatalf("first token = %+v, want DOLLAR '$$'", toks[0])
	}
}
