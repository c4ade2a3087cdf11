// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package distro_test

import (
	"testing"

	"github.com/playbymail/texls/internal/distro"
)

func TestFindByNameWithExtensionsFirstMatchWins(t *testing.T) {
	r := distro.New(distro.KindTexlive, map[string]string{
		"figure.pdf": "/texmf/figure.pdf",
		"figure.png": "/texmf/figure.png",
	})

	path, ok := r.FindByNameWithExtensions("figure", []string{"pdf", "png"})
	if !ok || path != "/texmf/figure.pdf" {
		t.Fatalf("got %q, %v, want /texmf/figure.pdf, true", path, ok)
	}

	path, ok = r.FindByNameWithExtensions("figure", []string{"eps", "png"})
	if !ok || path != "/texmf/figure.png" {
		t.Fatalf("got %q, %v, want /texmf/figure.png, true", path, ok)
	}
}

func TestFindByNameWithExtensionsMiss(t *testing.T) {
	r := distro.New(distro.KindTexlive, map[string]string{"a.tex": "/texmf/a.tex"})
	if _, ok := r.FindByNameWithExtensions("b", []string{"tex", "sty"}); ok {
		t.Fatal("expected a miss")
	}
}

func TestEmptyResolverAlwaysMisses(t *testing.T) {
	r := distro.Empty()
	if _, ok := r.FindByNameWithExtensions("article", []string{"cls"}); ok {
		t.Fatal("expected Empty() resolver to always miss")
	}
}

func TestNilResolverIsSafeToQuery(t *testing.T) {
	var r *distro.Resolver
	if _, ok := r.FindByNameWithExtensions("article", []string{"cls"}); ok {
		t.Fatal("expected nil resolver to miss, not panic")
	}
}

func TestFindByNameExactMatch(t *testing.T) {
	r := distro.New(distro.KindMiktex, map[string]string{"article.cls": "/texmf/article.cls"})
	path, ok := r.FindByName("article.cls")
	if !ok || path != "/texmf/article.cls" {
		t.Fatalf("got %q, %v, want /texmf/article.cls, true", path, ok)
	}
	if _, ok := r.FindByName("article"); ok {
		t.Fatal("expected a miss for a name missing its extension")
	}
}
