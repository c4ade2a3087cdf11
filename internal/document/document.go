// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package document defines the per-file record the syntax layer
// produces for every open file: its language, its CST, and the
// Extras side-table the semantic pass fills in (spec.md §3). It holds
// no parsing logic of its own — internal/latex and internal/bibtex
// populate an Extras by walking their own CST types and write the
// results back through the plain structs defined here.
package document

import (
	"strings"

	"github.com/playbymail/texls/cerrs"
	"github.com/playbymail/texls/internal/syntax"
)

// Language discriminates a file's grammar by its extension, per
// spec.md §6: "A file is LaTeX if its extension is one of tex|sty|cls,
// BibTeX if bib."
type Language int

const (
	LanguageUnknown Language = iota
	LanguageLatex
	LanguageBibtex
)

// DetectLanguage maps a file extension (with or without the leading
// dot, any case) to a Language, or cerrs.ErrUnknownLanguage if it names neither
// grammar.
func DetectLanguage(ext string) (Language, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "tex", "sty", "cls":
		return LanguageLatex, nil
	case "bib":
		return LanguageBibtex, nil
	default:
		return LanguageUnknown, cerrs.ErrUnknownLanguage
	}
}

// LinkKind is the kind of target an ExplicitLink resolves to, which
// selects the extension list used to build candidate URIs (spec.md
// §4.6's "Kind → extensions" table).
type LinkKind int

const (
	LinkLatex LinkKind = iota
	LinkBibtex
	LinkPackage
	LinkClass
)

// Extensions returns the candidate file extensions for k.
func (k LinkKind) Extensions() []string {
	switch k {
	case LinkLatex:
		return []string{"tex"}
	case LinkBibtex:
		return []string{"bib"}
	case LinkPackage:
		return []string{"sty"}
	case LinkClass:
		return []string{"cls"}
	default:
		return nil
	}
}

// ExplicitLink is a parsed include/input/bibliography/package/class/
// import directive together with an ordered list of candidate target
// URIs — the first that resolves against the workspace wins.
type ExplicitLink struct {
	Stem      string
	StemRange syntax.Range
	Kind      LinkKind
	Targets   []string
}

// LabelName is one label definition or reference site.
type LabelName struct {
	Text         string
	Range        syntax.Range
	IsDefinition bool
}

// TheoremEnvironment is one \newtheorem{name}[...]{description}[...].
type TheoremEnvironment struct {
	Name        string
	Description string
}

// Extras is the semantic side-table a single pre-order CST walk
// produces (spec.md §3/§4.6). A malformed document always yields a
// valid, possibly-empty Extras — handlers never fail or panic.
type Extras struct {
	ExplicitLinks          []ExplicitLink
	LabelNames             []LabelName
	LabelNumbersByName     map[string]string
	TheoremEnvironments    []TheoremEnvironment
	CommandNames           []string
	EnvironmentNames       []string
	GraphicsPaths          []string
	HasDocumentEnvironment bool
}

// NewExtras returns an empty, ready-to-populate Extras.
func NewExtras() *Extras {
	return &Extras{LabelNumbersByName: map[string]string{}}
}

// Resolver is the read-only, synchronously-queried interface the
// semantic pass consults to turn an explicit link's stem into
// distribution-resolved candidate paths (spec.md §6). It is satisfied
// by internal/distro's resolver; tests and resolver-independence
// checks (spec.md §8 invariant 5) can pass nil or a stub.
type Resolver interface {
	FindByNameWithExtensions(stem string, exts []string) (path string, ok bool)
}

// Document is the complete per-file record: its identity, its source
// text, its language, and (once analyzed) its CST root and Extras.
// internal/latex and internal/bibtex each expose their own CST node
// type, so Document keeps the tree as an opaque value the caller
// already knows the type of — it is a thin envelope, not a union.
type Document struct {
	URI      string
	Text     string
	Language Language
	Tree     any // the grammar's CST root, e.g. *syntax.Node[latex.Kind]
	Version  string // stamped by the caller (spec.md §5 "atomically swapped handle")
	Extras   *Extras
}
