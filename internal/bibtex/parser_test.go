// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package bibtex_test

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/playbymail/texls/internal/bibtex"
	"github.com/playbymail/texls/internal/syntax"
)

func mustParse(t *testing.T, src string) *syntax.Node[bibtex.Kind] {
	t.Helper()
	tree, err := bibtex.ParseFile(src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	root := syntax.Root(tree)
	if root.Text() != src {
		t.Fatalf("lossless round-trip failed:\n got: %q\nwant: %q", root.Text(), src)
	}
	return root
}

func TestEntryKeyTypeAndFields(t *testing.T) {
	root := mustParse(t, `@article{doe2020, title = {A Study}, year = 2020}`)
	entries := bibtex.Entries(root)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Key() != "doe2020" {
		t.Fatalf("key = %q, want doe2020", e.Key())
	}
	if e.Type() != "article" {
		t.Fatalf("type = %q, want article", e.Type())
	}
	strings_ := bibtex.StringDefs(root)
	title, ok := e.Field("title")
	if !ok {
		t.Fatal("title field not found")
	}
	if got := bibtex.ResolveStringRefs(title, strings_, map[string]bool{}); got != "A Study" {
		t.Fatalf("title = %q, want \"A Study\"", got)
	}
	year, ok := e.Field("year")
	if !ok {
		t.Fatal("year field not found")
	}
	if got := bibtex.ResolveStringRefs(year, strings_, map[string]bool{}); got != "2020" {
		t.Fatalf("year = %q, want 2020", got)
	}
}

func TestQuoteGroupValue(t *testing.T) {
	root := mustParse(t, `@article{k, title = "A Title"}`)
	e := bibtex.Entries(root)[0]
	title, ok := e.Field("title")
	if !ok {
		t.Fatal("title field not found")
	}
	if got := bibtex.ResolveStringRefs(title, nil, map[string]bool{}); got != "A Title" {
		t.Fatalf("title = %q, want \"A Title\"", got)
	}
}

func TestStringRefResolution(t *testing.T) {
	root := mustParse(t, "@string{acm = \"ACM Press\"}\n@article{k, publisher = acm}")
	strings_ := bibtex.StringDefs(root)
	if _, ok := strings_["acm"]; !ok {
		t.Fatal("expected @string acm to be collected")
	}
	e := bibtex.Entries(root)[0]
	publisher, ok := e.Field("publisher")
	if !ok {
		t.Fatal("publisher field not found")
	}
	if got := bibtex.ResolveStringRefs(publisher, strings_, map[string]bool{}); got != "ACM Press" {
		t.Fatalf("publisher = %q, want \"ACM Press\"", got)
	}
}

func TestStringRefCycleTerminates(t *testing.T) {
	root := mustParse(t, "@string{a = b}\n@string{b = a}\n@article{k, x = a}")
	strings_ := bibtex.StringDefs(root)
	e := bibtex.Entries(root)[0]
	value, ok := e.Field("x")
	if !ok {
		t.Fatal("x field not found")
	}
	// a -> b -> a is a cycle; the visited guard must break it by falling
	// back to the second "a" as a literal rather than recursing forever.
	got := bibtex.ResolveStringRefs(value, strings_, map[string]bool{})
	if got != "a" {
		t.Fatalf("got = %q, want literal fallback \"a\"", got)
	}
}

func TestJoinedValueConcatenation(t *testing.T) {
	root := mustParse(t, `@article{k, note = {A} # " B " # year}`)
	strings_ := bibtex.StringDefs(root)
	e := bibtex.Entries(root)[0]
	value, ok := e.Field("note")
	if !ok {
		t.Fatal("note field not found")
	}
	if got := bibtex.ResolveStringRefs(value, strings_, map[string]bool{}); got != "A B year" {
		t.Fatalf("note = %q, want \"A B year\"", got)
	}
}

func TestAuthorSplitOnAnd(t *testing.T) {
	root := mustParse(t, `@article{k, author = "Doe, Jane and Roe, Richard"}`)
	e := bibtex.Entries(root)[0]
	authors, ok := e.Author(nil)
	if !ok {
		t.Fatal("expected author field")
	}
	want := []string{"Doe, Jane", "Roe, Richard"}
	if diff := deep.Equal(authors, want); diff != nil {
		t.Fatalf("authors = %v: %v", authors, diff)
	}
}

func TestMixedDelimitersProduceMissing(t *testing.T) {
	tree, err := bibtex.ParseFile(`@article{k, title = {A})`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	root := syntax.Root(tree)
	var hasMissing bool
	root.Descendants(func(n *syntax.Node[bibtex.Kind]) {
		for _, tok := range n.ChildTokens() {
			if tok.IsMissing() {
				hasMissing = true
			}
		}
	})
	if !hasMissing {
		t.Fatal("expected a MISSING token when the opener '{' is closed by ')'")
	}
}

func TestMissingClosingBraceProducesMissingToken(t *testing.T) {
	tree, err := bibtex.ParseFile(`@article{k, title = {A}`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	root := syntax.Root(tree)
	found := false
	root.Descendants(func(n *syntax.Node[bibtex.Kind]) {
		for _, tok := range n.ChildTokens() {
			if tok.IsMissing() {
				found = true
			}
		}
	})
	if !found {
		t.Fatal("expected a MISSING token for the unclosed entry")
	}
}
