// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package distro_test

import (
	"testing"

	"github.com/playbymail/texls/internal/distro"
)

func TestParseLSRSkipsCommentsAndBlankLines(t *testing.T) {
	data := "% ls-R -- maintained by mktexlsr\n" +
		"\n" +
		"./tex/latex/base:\n" +
		"article.cls\n" +
		"book.cls\n" +
		"\n" +
		"./bibtex/bst/base:\n" +
		"plain.bst\n"

	got := distro.ParseLSR([]byte(data))
	want := map[string]string{
		"article.cls": "./tex/latex/base/article.cls",
		"book.cls":    "./tex/latex/base/book.cls",
		"plain.bst":   "./bibtex/bst/base/plain.bst",
	}
	if len(got) != len(want) {
		t.Fatalf("entries = %d, want %d: %v", len(got), len(want), got)
	}
	for name, path := range want {
		if got[name] != path {
			t.Errorf("got[%q] = %q, want %q", name, got[name], path)
		}
	}
}

func TestParseLSRFileBeforeAnyHeaderIsDropped(t *testing.T) {
	got := distro.ParseLSR([]byte("orphan.tex\n./dir:\narticle.cls\n"))
	if path, ok := got["orphan.tex"]; !ok || path != "orphan.tex" {
		t.Errorf("orphan.tex = %q, %v, want %q, true (no directory prefix yet)", path, ok, "orphan.tex")
	}
	if got["article.cls"] != "./dir/article.cls" {
		t.Errorf("article.cls = %q", got["article.cls"])
	}
}
