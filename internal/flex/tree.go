package flex

import (
	"errors"
	"fmt"
)

// ErrInvalidNode is returned when a NodeID does not refer to a live node.
var ErrInvalidNode = errors.New("flex: invalid node")

// NodeID is an opaque handle to a node owned by a Tree.
type NodeID uint32

type node struct {
	style    Style
	children []NodeID
	layout   Layout
	live     bool
}

// Tree is an arena of layout nodes. A Tree is not safe for concurrent use;
// it is owned by a single goroutine that threads it through its calls.
type Tree struct {
	nodes []node
	free  []NodeID

	// memoized sizing results, valid for one ComputeLayout call
	cache map[cacheKey]sizeResult
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{cache: make(map[cacheKey]sizeResult)}
}

func (t *Tree) alloc() NodeID {
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		return id
	}
	t.nodes = append(t.nodes, node{})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) get(id NodeID) (*node, error) {
	if int(id) >= len(t.nodes) || !t.nodes[id].live {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNode, id)
	}
	return &t.nodes[id], nil
}

// NewLeaf creates a childless node.
func (t *Tree) NewLeaf(style Style) NodeID {
	id := t.alloc()
	t.nodes[id] = node{style: style, live: true}
	return id
}

// NewWithChildren creates a node that owns the given children in order.
func (t *Tree) NewWithChildren(style Style, children []NodeID) (NodeID, error) {
	for _, c := range children {
		if _, err := t.get(c); err != nil {
			return 0, err
		}
	}
	id := t.NewLeaf(style)
	t.nodes[id].children = append([]NodeID(nil), children...)
	return id, nil
}

// SetStyle replaces the style of a node.
func (t *Tree) SetStyle(id NodeID, style Style) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.style = style
	return nil
}

// Style returns the current style of a node.
func (t *Tree) Style(id NodeID) (Style, error) {
	n, err := t.get(id)
	if err != nil {
		return Style{}, err
	}
	return n.style, nil
}

// SetChildren replaces the ordered child list of a node.
func (t *Tree) SetChildren(id NodeID, children []NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	for _, c := range children {
		if c == id {
			return fmt.Errorf("flex: node %d cannot be its own child", id)
		}
		if _, err := t.get(c); err != nil {
			return err
		}
	}
	n.children = append(n.children[:0], children...)
	return nil
}

// Children returns a copy of the ordered child list of a node.
func (t *Tree) Children(id NodeID) ([]NodeID, error) {
	n, err := t.get(id)
	if err != nil {
		return nil, err
	}
	return append([]NodeID(nil), n.children...), nil
}

// Remove frees a node. Its children are not removed; parents still listing
// the node must be updated with SetChildren before the next ComputeLayout.
func (t *Tree) Remove(id NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	*n = node{}
	t.free = append(t.free, id)
	return nil
}

// Layout returns the geometry produced by the last ComputeLayout.
func (t *Tree) Layout(id NodeID) (Layout, error) {
	n, err := t.get(id)
	if err != nil {
		return Layout{}, err
	}
	return n.layout, nil
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes) - len(t.free)
}
