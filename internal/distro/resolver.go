// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package distro resolves TeX/LaTeX file-name stems against whatever
// TeX distribution (TeX Live or MiKTeX) is installed on the host, so
// internal/latex's semantic pass can turn a bare \include{chapter}
// into a candidate absolute path (spec.md §6). It never typesets or
// runs the engine; it only reads the distribution's own file-name
// database (ls-R or .fndb-5) once at startup and answers lookups
// against the in-memory result.
package distro

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Kind identifies which TeX distribution a Resolver was populated
// from, mostly for diagnostics/logging.
type Kind int

const (
	KindNone Kind = iota
	KindTexlive
	KindMiktex
	KindTectonic
)

func (k Kind) String() string {
	switch k {
	case KindTexlive:
		return "texlive"
	case KindMiktex:
		return "miktex"
	case KindTectonic:
		return "tectonic"
	default:
		return "none"
	}
}

// Resolver satisfies document.Resolver. It is backed by a read-only
// map from bare file name (including extension, e.g. "article.cls")
// to the absolute path that name resolved to, built once at startup
// by walking the distribution's TEXMF root directories in the order
// kpsewhich reports them. A small LRU front-end memoizes repeated
// extension-probe sequences for hot stems (e.g. every \usepackage
// referencing the same handful of common packages).
type Resolver struct {
	kind       Kind
	byFileName map[string]string
	cache      *lru.Cache[string, lookupResult]
}

type lookupResult struct {
	path string
	ok   bool
}

const defaultCacheSize = 512

// New wraps a pre-populated file-name map. byFileName may be nil or
// empty, in which case every lookup simply misses (spec.md §7: a
// resolver that failed to discover a distribution degrades to an
// empty map rather than an error). cacheSize <= 0 uses defaultCacheSize
// (config.Resolver_t.CacheSize feeds this directly).
func New(kind Kind, byFileName map[string]string, cacheSize ...int) *Resolver {
	size := defaultCacheSize
	if len(cacheSize) > 0 && cacheSize[0] > 0 {
		size = cacheSize[0]
	}
	cache, _ := lru.New[string, lookupResult](size)
	return &Resolver{kind: kind, byFileName: byFileName, cache: cache}
}

// Empty returns a Resolver with no distribution data, matching the
// "I/O errors at startup degrade to an empty map" fallback.
func Empty() *Resolver { return New(KindNone, nil) }

func (r *Resolver) Kind() Kind { return r.kind }

// FindByNameWithExtensions tries stem+"."+ext for each ext in order
// and returns the first hit (first match wins, per spec.md §6).
func (r *Resolver) FindByNameWithExtensions(stem string, exts []string) (string, bool) {
	if r == nil || len(r.byFileName) == 0 {
		return "", false
	}
	key := stem + "\x00" + joinExts(exts)
	if cached, ok := r.cache.Get(key); ok {
		return cached.path, cached.ok
	}
	for _, ext := range exts {
		if path, ok := r.byFileName[stem+"."+ext]; ok {
			r.cache.Add(key, lookupResult{path: path, ok: true})
			return path, true
		}
	}
	r.cache.Add(key, lookupResult{})
	return "", false
}

// FindByName looks up the bare file name (stem with no extension
// appended) directly, for callers that already know the full name.
func (r *Resolver) FindByName(name string) (string, bool) {
	if r == nil || len(r.byFileName) == 0 {
		return "", false
	}
	path, ok := r.byFileName[name]
	return path, ok
}

func joinExts(exts []string) string {
	switch len(exts) {
	case 0:
		return ""
	case 1:
		return exts[0]
	}
	out := exts[0]
	for _, e := range exts[1:] {
		out += "," + e
	}
	return out
}
