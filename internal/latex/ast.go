// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package latex

import (
	"strings"

	"github.com/playbymail/texls/internal/syntax"
)

// AST is a typed facade over a CST node: a newtype whose accessors
// return zero values rather than panicking when the underlying tree
// is malformed (missing children, MISSING tokens) — spec.md §3/§9's
// "Option-returning, never panics" contract for typed AST nodes.
type AST struct {
	node *syntax.Node[Kind]
}

// New wraps a red node in a typed facade. The caller is responsible
// for only calling the accessors that make sense for node.Kind(); each
// accessor degrades to a zero value rather than panicking if misused.
func New(node *syntax.Node[Kind]) *AST { return &AST{node: node} }

// Node returns the wrapped red node.
func (a *AST) Node() *syntax.Node[Kind] { return a.node }

func nthChildOfKind(n *syntax.Node[Kind], kind Kind, idx int) *syntax.Node[Kind] {
	i := 0
	for _, c := range n.ChildNodes() {
		if c.Kind() == kind {
			if i == idx {
				return c
			}
			i++
		}
	}
	return nil
}

// GroupText implements the HasCurly capability spec.md §4.5 describes:
// concatenate a curly/mixed group's descendant token text, skip
// comments, collapse runs of whitespace to a single space, and strip
// the group's own outer delimiter tokens (but not any nested group's).
func GroupText(g *syntax.Node[Kind]) string {
	if g == nil {
		return ""
	}
	children := g.Children()
	start, end := 0, len(children)
	if start < end {
		if t := children[start].Token; t != nil && (t.Kind() == L_BRACE || t.Kind() == L_BRACKET || t.Kind() == L_PAREN) {
			start++
		}
	}
	if end > start {
		if t := children[end-1].Token; t != nil && (t.Kind() == R_BRACE || t.Kind() == R_BRACKET || t.Kind() == R_PAREN || t.Kind() == MISSING) {
			end--
		}
	}
	var sb strings.Builder
	lastSpace := true
	for _, el := range children[start:end] {
		appendFlat(&sb, el, &lastSpace)
	}
	return strings.TrimSpace(sb.String())
}

func appendFlat(sb *strings.Builder, el syntax.Element[Kind], lastSpace *bool) {
	if el.Token != nil {
		switch el.Token.Kind() {
		case COMMENT, MISSING:
			return
		case WHITESPACE:
			if !*lastSpace {
				sb.WriteByte(' ')
				*lastSpace = true
			}
			return
		default:
			sb.WriteString(el.Token.Text())
			*lastSpace = false
		}
		return
	}
	for _, c := range el.Node.Children() {
		appendFlat(sb, c, lastSpace)
	}
}

// splitWordList splits a CURLY_GROUP_WORD_LIST's direct children on
// top-level COMMA tokens into trimmed, comment-free key strings.
func splitWordList(g *syntax.Node[Kind]) []string {
	if g == nil {
		return nil
	}
	var keys []string
	var cur strings.Builder
	flush := func() {
		if k := strings.TrimSpace(cur.String()); k != "" {
			keys = append(keys, k)
		}
		cur.Reset()
	}
	for _, el := range g.Children() {
		if el.Token != nil {
			switch el.Token.Kind() {
			case L_BRACE, R_BRACE, MISSING, COMMENT, WHITESPACE:
				continue
			case COMMA:
				flush()
			default:
				cur.WriteString(el.Token.Text())
			}
			continue
		}
		cur.WriteString(el.Node.Text())
	}
	flush()
	return keys
}

// KeyList returns the comma-separated keys of a CITATION, *_INCLUDE,
// LABEL_REFERENCE, TIKZ_LIBRARY_IMPORT, or COLOR_SET_DEFINITION's
// CURLY_GROUP_WORD_LIST child.
func (a *AST) KeyList() []string {
	return splitWordList(a.node.FirstChildOfKind(CURLY_GROUP_WORD_LIST))
}

// BeginName returns an ENVIRONMENT's \begin{name}.
func (a *AST) BeginName() string {
	begin := a.node.FirstChildOfKind(BEGIN)
	if begin == nil {
		return ""
	}
	return GroupText(begin.FirstChildOfKind(CURLY_GROUP_WORD))
}

// EndName returns an ENVIRONMENT's \end{name} (empty if truncated).
func (a *AST) EndName() string {
	end := a.node.FirstChildOfKind(END)
	if end == nil {
		return ""
	}
	return GroupText(end.FirstChildOfKind(CURLY_GROUP_WORD))
}

// ImportDir/ImportFile return an IMPORT node's two required groups.
func (a *AST) ImportDir() string  { return GroupText(nthChildOfKind(a.node, CURLY_GROUP_WORD, 0)) }
func (a *AST) ImportFile() string { return GroupText(nthChildOfKind(a.node, CURLY_GROUP_WORD, 1)) }

// LabelName returns a LABEL_DEFINITION's {name}.
func (a *AST) LabelName() string {
	return GroupText(a.node.FirstChildOfKind(CURLY_GROUP_WORD))
}

// LabelReferenceRange returns a LABEL_REFERENCE_RANGE's {from}{to}.
func (a *AST) LabelReferenceRange() (from, to string) {
	return GroupText(nthChildOfKind(a.node, CURLY_GROUP_WORD, 0)), GroupText(nthChildOfKind(a.node, CURLY_GROUP_WORD, 1))
}

// LabelNumberName/LabelNumberText return a LABEL_NUMBER's {name}{text}.
func (a *AST) LabelNumberName() string {
	return GroupText(a.node.FirstChildOfKind(CURLY_GROUP_WORD))
}
func (a *AST) LabelNumberText() string {
	return GroupText(a.node.FirstChildOfKind(BRACE_GROUP))
}

// CommandName returns a GENERIC_COMMAND's control sequence name,
// without its leading backslash.
func (a *AST) CommandName() string {
	tok := a.node.FirstTokenOfKind(GENERIC_COMMAND_NAME)
	if tok == nil {
		return ""
	}
	return strings.TrimPrefix(tok.Text(), `\`)
}

// DefinedCommandName returns a COMMAND_DEFINITION or MATH_OPERATOR's
// {\name} group content, without its leading backslash.
func (a *AST) DefinedCommandName() string {
	text := GroupText(a.node.FirstChildOfKind(CURLY_GROUP_COMMAND))
	return strings.TrimPrefix(text, `\`)
}

// DefinitionBody returns a COMMAND_DEFINITION/MATH_OPERATOR's {body}.
func (a *AST) DefinitionBody() string {
	return GroupText(a.node.FirstChildOfKind(BRACE_GROUP))
}

// TheoremName/TheoremDescription return a THEOREM_DEFINITION's {name}
// and optional {description} (empty if absent).
func (a *AST) TheoremName() string {
	return GroupText(a.node.FirstChildOfKind(CURLY_GROUP_WORD))
}
func (a *AST) TheoremDescription() string {
	return GroupText(a.node.FirstChildOfKind(BRACE_GROUP))
}

// GraphicsPaths returns every {key} group of a GRAPHICS_PATH node.
func (a *AST) GraphicsPaths() []string {
	var out []string
	for _, c := range a.node.ChildNodes() {
		if c.Kind() == CURLY_GROUP_WORD {
			out = append(out, GroupText(c))
		}
	}
	return out
}
