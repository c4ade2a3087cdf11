// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package distro

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// bracePattern is a tiny declarative grammar for the brace-list syntax
// kpsewhich uses for its TEXMF variable ("{/usr/texmf,!!/usr/texmf-var}",
// nested groups included). It is deliberately not the grammar
// `kpsewhich --expand-braces` already performs for us on the happy
// path — it exists as a pure-Go fallback for when `kpsewhich -var-value
// TEXMF` succeeded but `kpsewhich --expand-braces` failed, so the raw
// TEXMF value is still expanded rather than leaving the resolver empty.
// When kpsewhich cannot be run at all there is no TEXMF value and this
// fallback is not reached.
var braceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Punct", Pattern: `[{},]`},
	{Name: "Literal", Pattern: `[^{},]+`},
})

var braceParser = participle.MustBuild[bracePattern](
	participle.Lexer(braceLexer),
	participle.UseLookahead(2),
)

type bracePattern struct {
	Segments []*braceSegment `parser:"@@*"`
}

type braceSegment struct {
	Group   *braceGroup `parser:"(  @@"`
	Literal string      `parser:" | @Literal )"`
}

type braceGroup struct {
	Alts []*bracePattern `parser:"'{' @@ (',' @@)* '}'"`
}

// ExpandBraces expands a kpsewhich-style brace pattern into the list
// of literal strings it denotes, e.g. "{a,b{c,d}}" -> ["a", "bc",
// "bd"]. A pattern with no braces expands to itself.
func ExpandBraces(pattern string) ([]string, error) {
	var p bracePattern
	if err := braceParser.ParseString("", pattern, &p); err != nil {
		return nil, err
	}
	return expandPattern(&p), nil
}

func expandPattern(p *bracePattern) []string {
	results := []string{""}
	for _, seg := range p.Segments {
		var alts []string
		if seg.Group != nil {
			for _, alt := range seg.Group.Alts {
				alts = append(alts, expandPattern(alt)...)
			}
		} else {
			alts = []string{seg.Literal}
		}
		var next []string
		for _, prefix := range results {
			for _, a := range alts {
				next = append(next, prefix+a)
			}
		}
		results = next
	}
	return results
}

// expandTEXMFValue expands every ':'- or ';'-separated element of a
// raw TEXMF variable value (kpsewhich's own brace syntax, possibly
// carrying "!"/"!!" no-ls-R markers this resolver does not act on) and
// strips those markers, mirroring kpsewhich::root_directories'
// `expanded.replace('!', "")` + split-on-path-list-separator step.
func expandTEXMFValue(raw string) ([]string, error) {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ':' || r == ';' }) {
		expanded, err := ExpandBraces(part)
		if err != nil {
			return nil, err
		}
		for _, e := range expanded {
			if dir := strings.ReplaceAll(e, "!", ""); dir != "" {
				out = append(out, dir)
			}
		}
	}
	return out, nil
}
