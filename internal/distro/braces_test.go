// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package distro

import (
	"sort"
	"testing"

	"github.com/go-test/deep"
)

func TestExpandBracesNoBraces(t *testing.T) {
	got, err := ExpandBraces("/usr/share/texmf")
	if err != nil {
		t.Fatalf("ExpandBraces: %v", err)
	}
	if diff := deep.Equal(got, []string{"/usr/share/texmf"}); diff != nil {
		t.Fatalf("got %v: %v", got, diff)
	}
}

func TestExpandBracesFlatList(t *testing.T) {
	got, err := ExpandBraces("{/a,/b,/c}")
	if err != nil {
		t.Fatalf("ExpandBraces: %v", err)
	}
	want := []string{"/a", "/b", "/c"}
	sort.Strings(got)
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatalf("got %v, want %v: %v", got, want, diff)
	}
}

func TestExpandBracesNested(t *testing.T) {
	got, err := ExpandBraces("/root{a,b{c,d}}")
	if err != nil {
		t.Fatalf("ExpandBraces: %v", err)
	}
	want := []string{"/roota", "/rootbc", "/rootbd"}
	sort.Strings(got)
	sort.Strings(want)
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatalf("got %v, want %v: %v", got, want, diff)
	}
}

func TestExpandTEXMFValueStripsRecursionMarkers(t *testing.T) {
	got, err := expandTEXMFValue("!!/usr/texmf:!/home/user/texmf-var")
	if err != nil {
		t.Fatalf("expandTEXMFValue: %v", err)
	}
	want := []string{"/usr/texmf", "/home/user/texmf-var"}
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatalf("got %v, want %v: %v", got, want, diff)
	}
}
