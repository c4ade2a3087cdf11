// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package latex_test

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/playbymail/texls/internal/latex"
	"github.com/playbymail/texls/internal/syntax"
)

func TestExplicitLinkCandidates(t *testing.T) {
	tree, err := latex.ParseFile(`\include{chap1}`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	root := syntax.Root(tree)
	ex := latex.Analyze(root, "file:///doc/main.tex", nil)
	if len(ex.ExplicitLinks) != 1 {
		t.Fatalf("explicit links = %d, want 1", len(ex.ExplicitLinks))
	}
	link := ex.ExplicitLinks[0]
	if link.Stem != "chap1" {
		t.Fatalf("stem = %q, want chap1", link.Stem)
	}
	want := []string{"file:///doc/chap1", "file:///doc/chap1.tex"}
	if diff := deep.Equal(link.Targets, want); diff != nil {
		t.Fatalf("targets = %v: %v", link.Targets, diff)
	}
}

func TestEnvironmentNamesAndDocumentFlag(t *testing.T) {
	tree, err := latex.ParseFile(`\begin{document} x \end{document}`)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	root := syntax.Root(tree)
	ex := latex.Analyze(root, "file:///doc/main.tex", nil)
	if !ex.HasDocumentEnvironment {
		t.Fatal("expected HasDocumentEnvironment")
	}
	found := false
	for _, name := range ex.EnvironmentNames {
		if name == "document" {
			found = true
		}
	}
	if !found {
		t.Fatalf("environment_names = %v, want to contain 'document'", ex.EnvironmentNames)
	}
}

func TestResolverIndependenceOfCST(t *testing.T) {
	src := `\section{A} \cite{x} \include{y}`
	treeA, _ := latex.ParseFile(src)
	treeB, _ := latex.ParseFile(src)
	if syntax.Root(treeA).Text() != syntax.Root(treeB).Text() {
		t.Fatal("re-parsing identical text produced different CST text")
	}
	exNoResolver := latex.Analyze(syntax.Root(treeA), "file:///d/m.tex", nil)
	exWithResolver := latex.Analyze(syntax.Root(treeB), "file:///d/m.tex", stubResolver{})
	if len(exNoResolver.ExplicitLinks) != len(exWithResolver.ExplicitLinks) {
		t.Fatal("resolver presence changed the number of explicit links, want only Targets to differ")
	}
}

type stubResolver struct{}

func (stubResolver) FindByNameWithExtensions(stem string, exts []string) (string, bool) {
	return "/texmf/" + stem, true
}
