// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package syntax_test

import (
	"testing"

	"github.com/playbymail/texls/internal/green"
	"github.com/playbymail/texls/internal/syntax"
)

type kind uint16

const (
	kindRoot kind = iota
	kindGroup
	kindWord
	kindError
	kindMissing
)

func (k kind) IsError() bool   { return k == kindError }
func (k kind) IsMissing() bool { return k == kindMissing }
func (k kind) String() string {
	return [...]string{"ROOT", "GROUP", "WORD", "ERROR", "MISSING"}[k]
}

// buildSample builds: ROOT[ WORD("foo") GROUP[ WORD("bar") ] ]
func buildSample(t *testing.T) *green.Tree[kind] {
	t.Helper()
	b := green.New[kind]()
	b.StartNode(kindRoot)
	b.Token(kindWord, "foo")
	b.StartNode(kindGroup)
	b.Token(kindWord, "bar")
	b.FinishNode()
	b.FinishNode()
	tree, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return tree
}

func TestRootRangeCoversWholeInput(t *testing.T) {
	tree := buildSample(t)
	root := syntax.Root(tree)
	if got, want := root.Range(), (syntax.Range{Start: 0, End: 6}); got != want {
		t.Fatalf("root range = %+v, want %+v", got, want)
	}
	if got, want := root.Text(), "foobar"; got != want {
		t.Fatalf("root text = %q, want %q", got, want)
	}
}

func TestChildOffsetsAccumulate(t *testing.T) {
	tree := buildSample(t)
	root := syntax.Root(tree)
	children := root.Children()
	if len(children) != 2 {
		t.Fatalf("children = %d, want 2", len(children))
	}
	wordTok := children[0].Token
	if wordTok == nil || wordTok.Text() != "foo" {
		t.Fatalf("first child = %+v, want token 'foo'", children[0])
	}
	if got, want := wordTok.Range(), (syntax.Range{Start: 0, End: 3}); got != want {
		t.Fatalf("word range = %+v, want %+v", got, want)
	}

	group := children[1].Node
	if group == nil || group.Kind() != kindGroup {
		t.Fatalf("second child = %+v, want GROUP node", children[1])
	}
	if got, want := group.Range(), (syntax.Range{Start: 3, End: 6}); got != want {
		t.Fatalf("group range = %+v, want %+v", got, want)
	}
	if group.Parent() != root {
		t.Fatalf("group.Parent() = %p, want root %p", group.Parent(), root)
	}
}

func TestDescendantsVisitsEveryNode(t *testing.T) {
	tree := buildSample(t)
	root := syntax.Root(tree)
	var kinds []kind
	root.Descendants(func(n *syntax.Node[kind]) { kinds = append(kinds, n.Kind()) })
	if len(kinds) != 2 || kinds[0] != kindRoot || kinds[1] != kindGroup {
		t.Fatalf("visited kinds = %v, want [ROOT GROUP]", kinds)
	}
}

func TestFirstChildOfKind(t *testing.T) {
	tree := buildSample(t)
	root := syntax.Root(tree)
	if g := root.FirstChildOfKind(kindGroup); g == nil {
		t.Fatal("expected to find GROUP child")
	}
	if g := root.FirstChildOfKind(kindError); g != nil {
		t.Fatal("expected no ERROR child")
	}
}
