// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package latex_test

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/playbymail/texls/internal/latex"
	"github.com/playbymail/texls/internal/syntax"
)

func parse(t *testing.T, src string) *syntax.Node[latex.Kind] {
	t.Helper()
	tree, err := latex.ParseFile(src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	root := syntax.Root(tree)
	if got, want := root.Text(), src; got != want {
		t.Fatalf("full coverage violated: root text = %q, want %q", got, want)
	}
	return root
}

func findAll(n *syntax.Node[latex.Kind], kind latex.Kind) []*syntax.Node[latex.Kind] {
	var out []*syntax.Node[latex.Kind]
	n.Descendants(func(c *syntax.Node[latex.Kind]) {
		if c.Kind() == kind {
			out = append(out, c)
		}
	})
	return out
}

// countTokens counts the leaf tokens of the given kind anywhere under n;
// findAll only visits nodes, so it cannot see MISSING/ERROR leaves.
func countTokens(n *syntax.Node[latex.Kind], kind latex.Kind) int {
	count := 0
	n.Descendants(func(c *syntax.Node[latex.Kind]) {
		for _, tok := range c.ChildTokens() {
			if tok.Kind() == kind {
				count++
			}
		}
	})
	return count
}

func TestCitationScenario(t *testing.T) {
	root := parse(t, `\cite{foo, bar}`)
	cites := findAll(root, latex.CITATION)
	if len(cites) != 1 {
		t.Fatalf("found %d CITATION nodes, want 1", len(cites))
	}
	keys := latex.New(cites[0]).KeyList()
	if diff := deep.Equal(keys, []string{"foo", "bar"}); diff != nil {
		t.Fatalf("keys = %v: %v", keys, diff)
	}
	if countTokens(root, latex.MISSING) != 0 {
		t.Fatal("expected no MISSING tokens")
	}
}

func TestCitationMissingBrace(t *testing.T) {
	root := parse(t, `\cite{foo`)
	cites := findAll(root, latex.CITATION)
	if len(cites) != 1 {
		t.Fatalf("found %d CITATION nodes, want 1", len(cites))
	}
	keys := latex.New(cites[0]).KeyList()
	if diff := deep.Equal(keys, []string{"foo"}); diff != nil {
		t.Fatalf("keys = %v: %v", keys, diff)
	}
	if countTokens(root, latex.MISSING) == 0 {
		t.Fatal("expected a MISSING token standing in for R_BRACE")
	}
}

func TestSectionNesting(t *testing.T) {
	root := parse(t, `\part{1}\chapter{2}\section{3}`)
	parts := findAll(root, latex.PART)
	if len(parts) != 1 {
		t.Fatalf("parts = %d, want 1", len(parts))
	}
	chapters := findAll(parts[0], latex.CHAPTER)
	if len(chapters) != 1 {
		t.Fatalf("chapters under part = %d, want 1", len(chapters))
	}
	sections := findAll(chapters[0], latex.SECTION)
	if len(sections) != 1 {
		t.Fatalf("sections under chapter = %d, want 1", len(sections))
	}
}

func TestSectionSiblingsWhenHigherRankFollows(t *testing.T) {
	root := parse(t, `\section{A}\chapter{B}`)
	top := root.FirstChildOfKind(latex.BODY)
	if top == nil {
		top = root.FirstChildOfKind(latex.PREAMBLE)
	}
	sections := findAll(root, latex.SECTION)
	chapters := findAll(root, latex.CHAPTER)
	if len(sections) != 1 || len(chapters) != 1 {
		t.Fatalf("sections=%d chapters=%d, want 1 and 1", len(sections), len(chapters))
	}
	if len(findAll(sections[0], latex.CHAPTER)) != 0 {
		t.Fatal("chapter must not nest inside section when it outranks it")
	}
}

func TestEnvironment(t *testing.T) {
	root := parse(t, `\begin{foo} x \end{bar}`)
	envs := findAll(root, latex.ENVIRONMENT)
	if len(envs) != 1 {
		t.Fatalf("environments = %d, want 1", len(envs))
	}
	env := latex.New(envs[0])
	begin, end := env.BeginName(), env.EndName()
	if begin != "foo" || end != "bar" {
		t.Fatalf("begin=%q end=%q, want foo/bar", begin, end)
	}
}

func TestVerbatimDoesNotDesyncParser(t *testing.T) {
	root := parse(t, `\verb|a{b|`)
	if countTokens(root, latex.MISSING) != 0 {
		t.Fatal("expected no MISSING tokens from an unbalanced verbatim body")
	}
}

func TestPackageIncludeBracketOptionsAreStructuredKeyValue(t *testing.T) {
	root := parse(t, `\usepackage[foo=bar,baz]{pkg}`)
	includes := findAll(root, latex.PACKAGE_INCLUDE)
	if len(includes) != 1 {
		t.Fatalf("package includes = %d, want 1", len(includes))
	}
	lists := findAll(includes[0], latex.KEY_VALUE_LIST)
	if len(lists) != 1 {
		t.Fatalf("KEY_VALUE_LIST nodes = %d, want 1", len(lists))
	}
	var got []string
	for _, p := range findAll(lists[0], latex.KEY_VALUE_PAIR) {
		got = append(got, latex.GroupText(p))
	}
	if diff := deep.Equal(got, []string{"foo=bar", "baz"}); diff != nil {
		t.Fatalf("pairs = %v: %v", got, diff)
	}
	if len(findAll(includes[0], latex.MIXED_GROUP)) != 0 {
		t.Fatal("bracket options must not be flattened into an opaque MIXED_GROUP")
	}
}

func TestAcronymDefinitionBracketOptionsAreStructuredKeyValue(t *testing.T) {
	root := parse(t, `\newacronym[longplural=LPs]{lp}{LP}{Long Plural}`)
	defs := findAll(root, latex.ACRONYM_DEFINITION)
	if len(defs) != 1 {
		t.Fatalf("acronym definitions = %d, want 1", len(defs))
	}
	pairs := findAll(defs[0], latex.KEY_VALUE_PAIR)
	if len(pairs) != 1 {
		t.Fatalf("KEY_VALUE_PAIR nodes = %d, want 1", len(pairs))
	}
	if got, want := latex.GroupText(pairs[0]), "longplural=LPs"; got != want {
		t.Fatalf("pair = %q, want %q", got, want)
	}
}

func TestIncludeWithoutBracketOptionsHasNoKeyValueList(t *testing.T) {
	root := parse(t, `\include{chap1}`)
	includes := findAll(root, latex.LATEX_INCLUDE)
	if len(includes) != 1 {
		t.Fatalf("includes = %d, want 1", len(includes))
	}
	if len(findAll(includes[0], latex.KEY_VALUE_LIST)) != 0 {
		t.Fatal("expected no KEY_VALUE_LIST when no bracket options are given")
	}
}

func TestBlockCommentCollapsesIffalseFi(t *testing.T) {
	root := parse(t, `\iffalse \section{X} \fi \section{Y}`)
	blocks := findAll(root, latex.BLOCK_COMMENT)
	if len(blocks) != 1 {
		t.Fatalf("block comments = %d, want 1", len(blocks))
	}
	// The \section inside the iffalse block must not have produced a
	// SECTION node of its own (it's opaque content of the comment).
	if len(findAll(blocks[0], latex.SECTION)) != 0 {
		t.Fatal("content inside \\iffalse...\\fi must not be parsed as LaTeX")
	}
	if len(findAll(root, latex.SECTION)) != 1 {
		t.Fatal("expected exactly one real SECTION outside the block comment")
	}
}
