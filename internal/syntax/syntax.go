// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package syntax implements the "red tree" view over a green.Tree: a
// lightweight, lazily-constructed handle carrying a parent pointer and
// an absolute byte offset, so callers can navigate up, down, and
// sideways and ask any node or token for its absolute source Range in
// O(1) — every offset is computed once, while walking down from the
// root, and cached on the handle rather than re-derived per query.
package syntax

import "github.com/playbymail/texls/internal/green"

// Range is an absolute, half-open byte range into the original source.
type Range struct {
	Start, End uint32
}

// Len returns the number of bytes the range covers.
func (r Range) Len() uint32 { return r.End - r.Start }

// Node is a red-tree handle over one green.Node. It never mutates the
// underlying green.Tree; copies are cheap (a few words) and safe to
// share across goroutines since the tree beneath them is immutable.
type Node[K green.KindValue] struct {
	tree   *green.Tree[K]
	id     green.NodeID
	parent *Node[K]
	start  uint32
	// indexInParent is this node's position among parent's children
	// (tokens included). NextSibling does not consult it; it matches
	// on id and start instead.
	indexInParent int
}

// Root returns a red handle over tree's top-level node.
func Root[K green.KindValue](tree *green.Tree[K]) *Node[K] {
	return &Node[K]{tree: tree, id: tree.Root(), start: 0, indexInParent: 0}
}

// Kind returns the node's SyntaxKind.
func (n *Node[K]) Kind() K { return n.tree.Node(n.id).Kind }

// Range returns the node's absolute byte range.
func (n *Node[K]) Range() Range {
	g := n.tree.Node(n.id)
	return Range{Start: n.start, End: n.start + g.Len}
}

// Text reconstructs the node's full source text by concatenating every
// token it covers, in order. This always exactly reproduces the slice
// of the original source the node's Range describes — losslessness is
// an invariant of the green tree, not something Text re-verifies.
func (n *Node[K]) Text() string {
	var sb []byte
	n.collectText(&sb)
	return string(sb)
}

func (n *Node[K]) collectText(sb *[]byte) {
	g := n.tree.Node(n.id)
	for _, c := range g.Children {
		if c.Token != nil {
			*sb = append(*sb, c.Token.Text...)
		} else {
			child := &Node[K]{tree: n.tree, id: c.Node}
			child.collectText(sb)
		}
	}
}

// Parent returns the node's parent, or nil at the root.
func (n *Node[K]) Parent() *Node[K] { return n.parent }

// IsError reports whether this node's kind is the grammar's ERROR
// sentinel.
func (n *Node[K]) IsError() bool { return n.Kind().IsError() }

// Element is one child of a Node: either a child Node or a leaf Token,
// mirroring green.Child but carrying absolute position and parent link.
type Element[K green.KindValue] struct {
	Node  *Node[K]
	Token *Token[K]
}

// Token is a red handle over a green.Token: its kind, text, and
// absolute range.
type Token[K green.KindValue] struct {
	kind   K
	text   string
	start  uint32
	parent *Node[K]
}

// Kind returns the token's SyntaxKind.
func (t *Token[K]) Kind() K { return t.kind }

// Text returns the token's exact source text.
func (t *Token[K]) Text() string { return t.text }

// Range returns the token's absolute byte range.
func (t *Token[K]) Range() Range {
	return Range{Start: t.start, End: t.start + uint32(len(t.text))}
}

// Parent returns the token's containing node. Always non-nil: a root
// node with zero children is still the parent of none, but a Token
// value is only ever produced as the child of some Node.
func (t *Token[K]) Parent() *Node[K] { return t.parent }

// IsMissing reports whether this token is a zero-length MISSING token
// synthesized during error recovery rather than lexed from source.
func (t *Token[K]) IsMissing() bool { return t.kind.IsMissing() }

// Children returns every direct child of n as red Elements, each with
// its absolute offset computed from n's own start plus the running sum
// of earlier siblings' lengths.
func (n *Node[K]) Children() []Element[K] {
	g := n.tree.Node(n.id)
	out := make([]Element[K], 0, len(g.Children))
	offset := n.start
	for i, c := range g.Children {
		if c.Token != nil {
			out = append(out, Element[K]{Token: &Token[K]{
				kind: c.Token.Kind, text: c.Token.Text, start: offset, parent: n,
			}})
			offset += c.Token.Len()
		} else {
			child := &Node[K]{tree: n.tree, id: c.Node, parent: n, start: offset, indexInParent: i}
			out = append(out, Element[K]{Node: child})
			offset += n.tree.Node(c.Node).Len
		}
	}
	return out
}

// ChildNodes returns only the direct child Nodes (skipping token leaves).
func (n *Node[K]) ChildNodes() []*Node[K] {
	var out []*Node[K]
	for _, el := range n.Children() {
		if el.Node != nil {
			out = append(out, el.Node)
		}
	}
	return out
}

// ChildTokens returns only the direct child Tokens (skipping node children).
func (n *Node[K]) ChildTokens() []*Token[K] {
	var out []*Token[K]
	for _, el := range n.Children() {
		if el.Token != nil {
			out = append(out, el.Token)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child node with the given
// kind, or nil if none matches. Typed AST facades build their accessors
// on top of this and its Token counterpart.
func (n *Node[K]) FirstChildOfKind(kind K) *Node[K] {
	for _, c := range n.ChildNodes() {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// FirstTokenOfKind returns the first direct child token with the given
// kind, or nil if none matches.
func (n *Node[K]) FirstTokenOfKind(kind K) *Token[K] {
	for _, t := range n.ChildTokens() {
		if t.Kind() == kind {
			return t
		}
	}
	return nil
}

// Descendants walks n and every node beneath it, depth-first,
// pre-order, calling visit on each. Used by semantic analysis passes
// that need every node of a particular kind anywhere under the root.
func (n *Node[K]) Descendants(visit func(*Node[K])) {
	visit(n)
	for _, c := range n.ChildNodes() {
		c.Descendants(visit)
	}
}

// NextSibling returns the node immediately following n among its
// parent's children, or nil if n is the last child or has no parent.
func (n *Node[K]) NextSibling() *Node[K] {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.ChildNodes()
	for i, s := range siblings {
		if s.id == n.id && s.start == n.start && i+1 < len(siblings) {
			return siblings[i+1]
		}
	}
	return nil
}
