// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package green implements the immutable, lossless "green tree" shared by
// the LaTeX and BibTeX grammars: an arena of nodes addressed by NodeID,
// grounded on the arena/ID design in thrift-weaver's internal/syntax
// (NodeID, Node, NodeFlags) rather than a pointer-per-node tree, so the
// tree is cheap to copy and carries no GC-cycle risk.
//
// Tokens store their text as a sub-slice of the original source buffer,
// so leaf text is shared with the input rather than copied; the arena
// of Node values gives the "reference-counted, at least" sharing the
// design calls for without a separate intern table.
package green

import "github.com/playbymail/texls/cerrs"

// KindValue is the constraint every grammar's SyntaxKind enum satisfies.
// Two grammars (latex, bibtex) instantiate the generic Builder/Tree with
// their own Kind type; both carry the universal ERROR/MISSING sentinels.
type KindValue interface {
	~uint16
	IsError() bool
	IsMissing() bool
	String() string
}

// NodeID indexes into a Tree's node arena. The zero value is never a
// valid node: it marks "no node" the way thrift-weaver's NoNode does.
type NodeID uint32

// Token is a lexed leaf: a kind and the exact source text it covers.
type Token[K KindValue] struct {
	Kind K
	Text string
}

// Len returns the number of bytes this token covers.
func (t Token[K]) Len() uint32 { return uint32(len(t.Text)) }

// Child is one entry in a Node's children list: either a Token leaf or
// a reference to another Node in the same arena.
type Child[K KindValue] struct {
	Token *Token[K]
	Node  NodeID
}

// IsToken reports whether this child is a leaf token rather than a node.
func (c Child[K]) IsToken() bool { return c.Token != nil }

// Len returns the byte length this child covers, consulting the owning
// tree's arena when the child is a node reference.
func (c Child[K]) Len(tree *Tree[K]) uint32 {
	if c.Token != nil {
		return c.Token.Len()
	}
	return tree.Node(c.Node).Len
}

// Node is one interior (or leaf-only) element of the green tree: a kind
// plus its children and the total byte length those children cover.
type Node[K KindValue] struct {
	Kind     K
	Children []Child[K]
	Len      uint32
}

// Tree is a finished, immutable green tree: an arena of Nodes plus the
// root NodeID. Trees never reference their Builder after Finish.
type Tree[K KindValue] struct {
	nodes []Node[K]
	root  NodeID
}

// Node returns the arena entry for id. Callers never hold a NodeID from
// one Tree and dereference it against another.
func (t *Tree[K]) Node(id NodeID) *Node[K] {
	return &t.nodes[id-1]
}

// Root returns the id of the tree's single top-level node.
func (t *Tree[K]) Root() NodeID { return t.root }

// RootNode returns the tree's top-level node directly.
func (t *Tree[K]) RootNode() *Node[K] { return t.Node(t.root) }

// frame is one open (start_node'd, not yet finish_node'd) node under
// construction.
type frame[K KindValue] struct {
	kind     K
	children []Child[K]
}

// Checkpoint marks a position within the currently-open frame's children
// list, for later retroactive wrapping via Builder.StartNodeAt. It is
// grounded on gotypst's Marker/wrap pair: a checkpoint records "the
// children emitted so far in this frame", and StartNodeAt pulls every
// child emitted since then into a brand new node.
type Checkpoint struct {
	childLen int
}

// Builder assembles a Tree one StartNode/Token/FinishNode call at a
// time. It mirrors rowan's GreenNodeBuilder: start_node pushes a frame,
// finish_node pops it and appends the finished node as a child of the
// new top frame (or records it as the pending root if the stack is now
// empty).
type Builder[K KindValue] struct {
	nodes []Node[K]
	stack []*frame[K]
	roots []NodeID
}

// New returns an empty Builder ready for a single top-level StartNode.
func New[K KindValue]() *Builder[K] {
	return &Builder[K]{}
}

// StartNode opens a new node of the given kind; subsequent Token and
// StartNode calls append children to it until the matching FinishNode.
func (b *Builder[K]) StartNode(kind K) {
	b.stack = append(b.stack, &frame[K]{kind: kind})
}

// Token appends a leaf token to the currently-open node. text must be a
// sub-slice of the source buffer being parsed, per spec — callers never
// copy or synthesize text except for MISSING tokens, which pass "".
func (b *Builder[K]) Token(kind K, text string) {
	tok := Token[K]{Kind: kind, Text: text}
	b.top().children = append(b.top().children, Child[K]{Token: &tok})
}

// top returns the currently-open frame. Panics if no StartNode is open,
// which is always a parser bug, not a user-input condition.
func (b *Builder[K]) top() *frame[K] {
	if len(b.stack) == 0 {
		panic("green: Token/Checkpoint/StartNodeAt called with no open node")
	}
	return b.stack[len(b.stack)-1]
}

// FinishNode closes the most recently opened node, interns its length,
// and appends it as a child of the new top-of-stack frame — or, if the
// stack is now empty, records it as a pending root.
func (b *Builder[K]) FinishNode() {
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	node := Node[K]{Kind: f.kind, Children: f.children}
	for _, c := range f.children {
		if c.Token != nil {
			node.Len += c.Token.Len()
		} else {
			node.Len += b.nodes[c.Node-1].Len
		}
	}
	b.nodes = append(b.nodes, node)
	id := NodeID(len(b.nodes))

	if len(b.stack) == 0 {
		b.roots = append(b.roots, id)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.children = append(top.children, Child[K]{Node: id})
}

// Checkpoint records the current length of the open frame's children,
// so a later StartNodeAt can retroactively wrap everything emitted
// since then into a new node — used for BibTeX's "#"-joined Value and
// any other postfix-shaped production where the wrapping kind isn't
// known until after some of its children have already been emitted.
func (b *Builder[K]) Checkpoint() Checkpoint {
	return Checkpoint{childLen: len(b.top().children)}
}

// StartNodeAt opens a new node of the given kind containing every child
// the current frame has accumulated since cp was taken, and pushes it
// as the new top frame. It panics if cp does not describe a valid,
// still-current position (cerrs.ErrNoCheckpoint), which is always a
// parser bug. Checkpoints are current-frame-only handles; the same one
// may be passed to StartNodeAt more than once (internal/bibtex's
// parseValue reuses one to nest each '#' join to the left).
func (b *Builder[K]) StartNodeAt(cp Checkpoint, kind K) {
	f := b.top()
	if cp.childLen > len(f.children) {
		panic(cerrs.ErrNoCheckpoint)
	}
	wrapped := append([]Child[K]{}, f.children[cp.childLen:]...)
	f.children = f.children[:cp.childLen]
	b.stack = append(b.stack, &frame[K]{kind: kind, children: wrapped})
}

// Finish completes the build, returning the single top-level node as a
// Tree. It returns cerrs.ErrUnbalancedBuilder if any StartNode is still
// open, or if zero or more than one top-level node was produced — a
// grammar's root production must open exactly one node that covers the
// entire input, including trailing trivia.
func (b *Builder[K]) Finish() (*Tree[K], error) {
	if len(b.stack) != 0 || len(b.roots) != 1 {
		return nil, cerrs.ErrUnbalancedBuilder
	}
	return &Tree[K]{nodes: b.nodes, root: b.roots[0]}, nil
}
