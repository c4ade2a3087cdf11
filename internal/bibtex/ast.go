// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package bibtex

import (
	"strings"

	"github.com/playbymail/texls/internal/syntax"
)

// AST is a typed, read-only facade over one BibTeX CST node. Accessors
// degrade to zero values on malformed or missing children rather than
// panicking, the same contract internal/latex's AST holds.
type AST struct {
	node *syntax.Node[Kind]
}

// New wraps n in an AST facade.
func New(n *syntax.Node[Kind]) AST { return AST{node: n} }

// Node returns the wrapped CST node.
func (a AST) Node() *syntax.Node[Kind] { return a.node }

// Entries returns every top-level ENTRY node under root (an ENTRY
// node's CST also covers @comment{...} entries, per parseEntry).
func Entries(root *syntax.Node[Kind]) []AST {
	var out []AST
	for _, c := range root.ChildNodes() {
		if c.Kind() == ENTRY {
			out = append(out, New(c))
		}
	}
	return out
}

// Key returns an entry's citation key — the NAME token immediately
// following its opening delimiter.
func (a AST) Key() string {
	if tok := a.node.FirstTokenOfKind(NAME); tok != nil {
		return tok.Text()
	}
	return ""
}

// Type returns an entry's declared type word ("article", "comment", ...).
func (a AST) Type() string {
	if tok := a.node.FirstTokenOfKind(ENTRY_TYPE); tok != nil {
		return strings.ToLower(tok.Text())
	}
	if tok := a.node.FirstTokenOfKind(COMMENT_TYPE); tok != nil {
		return strings.ToLower(tok.Text())
	}
	return ""
}

// Fields returns an entry's FIELD children in source order.
func (a AST) Fields() []AST {
	var out []AST
	for _, c := range a.node.ChildNodes() {
		if c.Kind() == FIELD {
			out = append(out, New(c))
		}
	}
	return out
}

// Name returns a field's name, lower-cased (BibTeX field names are
// case-insensitive).
func (a AST) Name() string {
	if tok := a.node.FirstTokenOfKind(NAME); tok != nil {
		return strings.ToLower(tok.Text())
	}
	return ""
}

// Value returns a field's VALUE node, or nil if absent.
func (a AST) Value() *syntax.Node[Kind] {
	return a.node.FirstChildOfKind(VALUE)
}

// Field looks up a field by case-insensitive name and returns its
// VALUE node.
func (a AST) Field(name string) (*syntax.Node[Kind], bool) {
	want := strings.ToLower(name)
	for _, f := range a.Fields() {
		if f.Name() == want {
			return f.Value(), true
		}
	}
	return nil, false
}

// StringDefs collects every top-level @string{name = value} definition
// under root, keyed by lower-cased name, for use with ResolveStringRefs.
func StringDefs(root *syntax.Node[Kind]) map[string]*syntax.Node[Kind] {
	defs := map[string]*syntax.Node[Kind]{}
	for _, c := range root.ChildNodes() {
		if c.Kind() != STRING {
			continue
		}
		nameTok := c.FirstTokenOfKind(NAME)
		value := c.FirstChildOfKind(VALUE)
		if nameTok == nil || value == nil {
			continue
		}
		defs[strings.ToLower(nameTok.Text())] = value
	}
	return defs
}

// ResolveStringRefs expands value (a FIELD's VALUE node) into plain
// text: quoted/braced literals are taken verbatim, '#'-joined pieces
// are concatenated, and bare NAME components are looked up in strings
// and recursively expanded. visited guards against @string reference
// cycles — a name already being expanded is emitted as its own literal
// text instead of recursing forever.
func ResolveStringRefs(value *syntax.Node[Kind], strings_ map[string]*syntax.Node[Kind], visited map[string]bool) string {
	if value == nil {
		return ""
	}
	var elems []syntax.Element[Kind]
	flattenValue(value, &elems)

	var sb strings.Builder
	for _, el := range elems {
		switch {
		case el.Node != nil && (el.Node.Kind() == QUOTE_GROUP || el.Node.Kind() == BRACE_GROUP):
			sb.WriteString(groupInnerText(el.Node))
		case el.Token != nil && el.Token.Kind() == INTEGER:
			sb.WriteString(el.Token.Text())
		case el.Token != nil && el.Token.Kind() == NAME:
			key := strings.ToLower(el.Token.Text())
			if visited[key] {
				sb.WriteString(el.Token.Text())
				continue
			}
			def, ok := strings_[key]
			if !ok {
				sb.WriteString(el.Token.Text())
				continue
			}
			visited[key] = true
			sb.WriteString(ResolveStringRefs(def, strings_, visited))
			visited[key] = false
		}
	}
	return sb.String()
}

// flattenValue walks past VALUE/JOIN wrapper nodes, collecting the
// ordered list of literal components (tokens or groups) they join.
func flattenValue(n *syntax.Node[Kind], out *[]syntax.Element[Kind]) {
	for _, c := range n.Children() {
		if c.Node != nil && (c.Node.Kind() == JOIN || c.Node.Kind() == VALUE) {
			flattenValue(c.Node, out)
			continue
		}
		*out = append(*out, c)
	}
}

// groupInnerText strips a QUOTE_GROUP/BRACE_GROUP's own delimiter
// tokens and concatenates the rest of its text verbatim.
func groupInnerText(n *syntax.Node[Kind]) string {
	kids := n.Children()
	var sb strings.Builder
	for i, c := range kids {
		if (i == 0 || i == len(kids)-1) && c.Token != nil {
			switch c.Token.Kind() {
			case QUOTE, L_BRACE, R_BRACE:
				continue
			}
		}
		if c.Node != nil {
			sb.WriteString(c.Node.Text())
		} else if c.Token != nil {
			sb.WriteString(c.Token.Text())
		}
	}
	return sb.String()
}

// Author splits an entry's resolved "author" field on the literal
// word "and" (BibTeX's author-list separator), trimming whitespace
// from each name.
func (a AST) Author(strings_ map[string]*syntax.Node[Kind]) ([]string, bool) {
	value, ok := a.Field("author")
	if !ok {
		return nil, false
	}
	text := ResolveStringRefs(value, strings_, map[string]bool{})
	var names []string
	for _, part := range splitOnWord(text, "and") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names, true
}

// splitOnWord splits s on occurrences of word bounded by whitespace,
// so "Doe, Jane and Roe, Richard" splits on " and " without matching
// "and" inside a longer token.
func splitOnWord(s, word string) []string {
	fields := strings.Fields(s)
	var parts [][]string
	current := []string{}
	for _, f := range fields {
		if strings.EqualFold(f, word) {
			parts = append(parts, current)
			current = []string{}
			continue
		}
		current = append(current, f)
	}
	parts = append(parts, current)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.Join(p, " ")
	}
	return out
}
