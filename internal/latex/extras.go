// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package latex

import (
	"strings"

	"github.com/playbymail/texls/internal/document"
	"github.com/playbymail/texls/internal/syntax"
)

// Analyze performs the single pre-order walk spec.md §4.6 describes,
// populating and returning a fresh Extras for root. baseURI anchors
// every ExplicitLink's candidate targets; resolver may be nil, in
// which case only the textual candidates (spec.md §8 invariant 5:
// "resolver independence") are produced.
func Analyze(root *syntax.Node[Kind], baseURI string, resolver document.Resolver) *document.Extras {
	ex := document.NewExtras()
	root.Descendants(func(n *syntax.Node[Kind]) {
		switch n.Kind() {
		case LATEX_INCLUDE:
			analyzeInclude(ex, n, baseURI, resolver, document.LinkLatex)
		case BIBLATEX_INCLUDE:
			analyzeInclude(ex, n, baseURI, resolver, document.LinkBibtex)
		case PACKAGE_INCLUDE:
			analyzeInclude(ex, n, baseURI, resolver, document.LinkPackage)
		case CLASS_INCLUDE:
			analyzeInclude(ex, n, baseURI, resolver, document.LinkClass)
		case IMPORT:
			analyzeImport(ex, n, baseURI, resolver)
		case LABEL_DEFINITION:
			ex.LabelNames = append(ex.LabelNames, document.LabelName{
				Text: New(n).LabelName(), Range: n.Range(), IsDefinition: true,
			})
		case LABEL_REFERENCE:
			for _, key := range New(n).KeyList() {
				ex.LabelNames = append(ex.LabelNames, document.LabelName{Text: key, Range: n.Range()})
			}
		case LABEL_REFERENCE_RANGE:
			from, to := New(n).LabelReferenceRange()
			if from != "" {
				ex.LabelNames = append(ex.LabelNames, document.LabelName{Text: from, Range: n.Range()})
			}
			if to != "" {
				ex.LabelNames = append(ex.LabelNames, document.LabelName{Text: to, Range: n.Range()})
			}
		case LABEL_NUMBER:
			a := New(n)
			if name := a.LabelNumberName(); name != "" {
				ex.LabelNumbersByName[name] = a.LabelNumberText()
			}
		case GENERIC_COMMAND:
			if name := New(n).CommandName(); name != "" {
				ex.CommandNames = append(ex.CommandNames, name)
			}
		case COMMAND_DEFINITION:
			if name := New(n).DefinedCommandName(); name != "" {
				ex.CommandNames = append(ex.CommandNames, name)
			}
		case BEGIN:
			name := GroupText(n.FirstChildOfKind(CURLY_GROUP_WORD))
			if name != "" {
				ex.EnvironmentNames = append(ex.EnvironmentNames, name)
				if name == "document" {
					ex.HasDocumentEnvironment = true
				}
			}
		case THEOREM_DEFINITION:
			a := New(n)
			ex.TheoremEnvironments = append(ex.TheoremEnvironments, document.TheoremEnvironment{
				Name: a.TheoremName(), Description: a.TheoremDescription(),
			})
		case GRAPHICS_PATH:
			ex.GraphicsPaths = append(ex.GraphicsPaths, New(n).GraphicsPaths()...)
		}
	})
	return ex
}

func dirOf(uri string) string {
	i := strings.LastIndex(uri, "/")
	if i < 0 {
		return ""
	}
	return uri[:i+1]
}

func buildCandidates(baseDir, stem string, exts []string, resolver document.Resolver) []string {
	candidates := []string{baseDir + stem}
	for _, ext := range exts {
		candidates = append(candidates, baseDir+stem+"."+ext)
	}
	if resolver != nil {
		if path, ok := resolver.FindByNameWithExtensions(stem, exts); ok {
			candidates = append(candidates, path)
		}
	}
	return candidates
}

func analyzeInclude(ex *document.Extras, n *syntax.Node[Kind], baseURI string, resolver document.Resolver, kind document.LinkKind) {
	baseDir := dirOf(baseURI)
	for _, stem := range New(n).KeyList() {
		ex.ExplicitLinks = append(ex.ExplicitLinks, document.ExplicitLink{
			Stem:      stem,
			StemRange: n.Range(),
			Kind:      kind,
			Targets:   buildCandidates(baseDir, stem, kind.Extensions(), resolver),
		})
	}
}

// analyzeImport handles \import{dir}{file}: candidates are rooted at
// base_uri.join(dir) rather than base_uri (spec.md §4.6).
func analyzeImport(ex *document.Extras, n *syntax.Node[Kind], baseURI string, resolver document.Resolver) {
	a := New(n)
	dir, file := a.ImportDir(), a.ImportFile()
	if file == "" {
		return
	}
	newBaseDir := dirOf(baseURI) + dir + "/"
	ex.ExplicitLinks = append(ex.ExplicitLinks, document.ExplicitLink{
		Stem:      file,
		StemRange: n.Range(),
		Kind:      document.LinkLatex,
		Targets:   buildCandidates(newBaseDir, file, document.LinkLatex.Extensions(), resolver),
	})
}
