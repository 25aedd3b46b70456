package retained

import (
	"errors"
	"fmt"
	"slices"

	"github.com/agiangrant/twinscreen/internal/flex"
)

var (
	// ErrUnknownNode is returned for edits that name a node that does not exist.
	ErrUnknownNode = errors.New("unknown node")
	// ErrNodeExists is returned when creating a node whose id is live.
	ErrNodeExists = errors.New("node already exists")
	// ErrBadMutation is returned for structurally invalid edits.
	ErrBadMutation = errors.New("bad mutation")
)

// NodeID identifies a UI node. Ids are chosen by the mutation producer and
// stay stable for the node's lifetime; RootID always exists.
type NodeID uint32

// RootID is the id of the implicit root container.
const RootID NodeID = 0

// Tag classifies a node for drawing and layout.
type Tag uint8

const (
	TagContainer Tag = iota
	TagText
	TagImage
)

func (t Tag) String() string {
	switch t {
	case TagText:
		return "text"
	case TagImage:
		return "image"
	}
	return "container"
}

// Node is one entry of the tree arena. Callers get read access through the
// accessor methods; all edits go through Tree.Apply.
type Node struct {
	id        NodeID
	tag       Tag
	name      string
	text      string
	attrs     Attributes
	parent    NodeID
	hasParent bool
	children  []NodeID
	live      bool

	style       Style
	resolved    bool
	styleDirty  bool
	layoutDirty bool

	handle    flex.NodeID
	hasHandle bool
	flexStyle flex.Style
	flexKids  []flex.NodeID
	kidsDirty bool
}

func (n *Node) ID() NodeID { return n.id }
func (n *Node) Tag() Tag   { return n.tag }

// Name is the element name, or "#text" for text nodes.
func (n *Node) Name() string { return n.name }
func (n *Node) Text() string { return n.text }

// Attr returns a recognized attribute value.
func (n *Node) Attr(a Attr) Value { return n.attrs.Get(a) }

// Extra returns an attribute the engine does not interpret.
func (n *Node) Extra(name string) (Value, bool) {
	v, ok := n.attrs.Extra[name]
	return v, ok
}

// Style returns the resolved style from the last Update.
func (n *Node) Style() Style { return n.style }

// Children returns the ordered child ids. The slice must not be modified.
func (n *Node) Children() []NodeID { return n.children }

// Parent returns the parent id; ok is false for the root and detached nodes.
func (n *Node) Parent() (NodeID, bool) { return n.parent, n.hasParent }

// Tree owns every UI node, the listener registry and the layout solver
// state bound to the nodes. It is used from one goroutine only.
type Tree struct {
	nodes     []Node
	listeners [numEventTypes][]NodeID

	solver    *flex.Tree
	graveyard []flex.NodeID
	resolver  *StyleResolver
	texts     *textMeasureCache
	measurer  TextMeasurer

	// set by any edit; cleared by Update
	dirty bool
}

// NewTree returns a tree holding only the root container.
func NewTree(resolver *StyleResolver, measurer TextMeasurer) *Tree {
	if resolver == nil {
		resolver = NewStyleResolver(nil, 0)
	}
	t := &Tree{
		solver:   flex.NewTree(),
		resolver: resolver,
		texts:    newTextMeasureCache(defaultTextCacheSize),
		measurer: measurer,
	}
	_ = t.create(RootID, TagContainer, "root", "")
	return t
}

// Node returns the live node with the given id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	if int(id) >= len(t.nodes) || !t.nodes[id].live {
		return nil
	}
	return &t.nodes[id]
}

func (t *Tree) live(id NodeID) (*Node, error) {
	if n := t.Node(id); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
}

// Len returns the number of live nodes, including the root.
func (t *Tree) Len() int {
	count := 0
	for i := range t.nodes {
		if t.nodes[i].live {
			count++
		}
	}
	return count
}

func (t *Tree) create(id NodeID, tag Tag, name, text string) error {
	if t.Node(id) != nil {
		return fmt.Errorf("%w: %d", ErrNodeExists, id)
	}
	if int(id) >= len(t.nodes) {
		t.nodes = append(t.nodes, make([]Node, int(id)+1-len(t.nodes))...)
	}
	t.nodes[id] = Node{
		id:          id,
		tag:         tag,
		name:        name,
		text:        text,
		live:        true,
		styleDirty:  true,
		layoutDirty: true,
		kidsDirty:   true,
	}
	t.dirty = true
	return nil
}

func (t *Tree) insert(parent, id NodeID, index int) error {
	p, err := t.live(parent)
	if err != nil {
		return err
	}
	n, err := t.live(id)
	if err != nil {
		return err
	}
	if id == RootID {
		return fmt.Errorf("%w: root cannot be inserted", ErrBadMutation)
	}
	if p.tag == TagText {
		return fmt.Errorf("%w: text node %d cannot have children", ErrBadMutation, parent)
	}
	for a, ok := parent, true; ok; a, ok = t.nodes[a].parent, t.nodes[a].hasParent {
		if a == id {
			return fmt.Errorf("%w: node %d would become its own ancestor", ErrBadMutation, id)
		}
	}

	if n.hasParent {
		t.detach(id)
	}
	p = &t.nodes[parent]
	if index < 0 || index > len(p.children) {
		index = len(p.children)
	}
	p.children = slices.Insert(p.children, index, id)
	p.kidsDirty = true

	n = &t.nodes[id]
	n.parent, n.hasParent = parent, true
	// inherited style may differ under the new parent
	n.styleDirty = true
	t.dirty = true
	return nil
}

func (t *Tree) detach(id NodeID) {
	n := &t.nodes[id]
	if !n.hasParent {
		return
	}
	p := &t.nodes[n.parent]
	if i := slices.Index(p.children, id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	p.kidsDirty = true
	n.hasParent = false
}

func (t *Tree) remove(id NodeID) error {
	if _, err := t.live(id); err != nil {
		return err
	}
	if id == RootID {
		return fmt.Errorf("%w: root cannot be removed", ErrBadMutation)
	}
	t.detach(id)
	t.free(id)
	t.dirty = true
	return nil
}

func (t *Tree) free(id NodeID) {
	n := &t.nodes[id]
	for _, c := range n.children {
		t.free(c)
	}
	if n.hasHandle {
		t.graveyard = append(t.graveyard, n.handle)
	}
	for ev := range t.listeners {
		t.listeners[ev] = slices.DeleteFunc(t.listeners[ev], func(x NodeID) bool { return x == id })
	}
	t.nodes[id] = Node{}
}

func (t *Tree) listen(id NodeID, ev EventType) {
	if !slices.Contains(t.listeners[ev], id) {
		t.listeners[ev] = append(t.listeners[ev], id)
	}
}

func (t *Tree) unlisten(id NodeID, ev EventType) {
	if ev.valid() {
		t.listeners[ev] = slices.DeleteFunc(t.listeners[ev], func(x NodeID) bool { return x == id })
	}
}

// Listeners returns the mounted nodes registered for ev in registration
// order.
func (t *Tree) Listeners(ev EventType) []NodeID {
	return t.appendListeners(nil, ev)
}

func (t *Tree) appendListeners(dst []NodeID, ev EventType) []NodeID {
	if !ev.valid() {
		return dst
	}
	for _, id := range t.listeners[ev] {
		if t.Mounted(id) {
			dst = append(dst, id)
		}
	}
	return dst
}

// IsListening reports whether id is registered for ev.
func (t *Tree) IsListening(id NodeID, ev EventType) bool {
	return ev.valid() && slices.Contains(t.listeners[ev], id)
}

// Mounted reports whether id is live and attached to the root.
func (t *Tree) Mounted(id NodeID) bool {
	n := t.Node(id)
	for n != nil {
		if n.id == RootID {
			return true
		}
		if !n.hasParent {
			return false
		}
		n = t.Node(n.parent)
	}
	return false
}

// Update resolves styles top-down and synchronizes the layout solver
// bottom-up. It reports whether anything visible changed since the last
// call.
func (t *Tree) Update() bool {
	changed := t.dirty
	t.dirty = false
	if t.resolveStyles(RootID, nil, false) {
		changed = true
	}
	if t.syncLayout(RootID) {
		changed = true
	}
	t.drainGraveyard()
	return changed
}

func (t *Tree) resolveStyles(id NodeID, parent *Style, parentChanged bool) bool {
	n := &t.nodes[id]
	changed := false
	if n.styleDirty || parentChanged || !n.resolved {
		s := t.resolver.Resolve(&n.attrs, parent)
		if !n.resolved || s != n.style {
			n.style = s
			changed = true
			// text boxes are measured at the resolved scale
			if n.tag == TagText {
				n.layoutDirty = true
			}
		}
		n.resolved = true
		n.styleDirty = false
	}
	any := changed
	for _, c := range n.children {
		if t.resolveStyles(c, &n.style, changed) {
			any = true
		}
	}
	return any
}
