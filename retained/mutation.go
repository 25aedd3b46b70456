package retained

import "fmt"

// MutationKind identifies one tree edit.
type MutationKind uint8

const (
	MutCreateElement MutationKind = iota + 1
	MutCreateText
	MutInsert
	MutRemove
	MutSetAttr
	MutRemoveAttr
	MutSetText
	MutListen
	MutUnlisten
)

var mutationNames = [...]string{
	MutCreateElement: "create-element",
	MutCreateText:    "create-text",
	MutInsert:        "insert",
	MutRemove:        "remove",
	MutSetAttr:       "set-attr",
	MutRemoveAttr:    "remove-attr",
	MutSetText:       "set-text",
	MutListen:        "listen",
	MutUnlisten:      "unlisten",
}

func (k MutationKind) String() string {
	if int(k) < len(mutationNames) && mutationNames[k] != "" {
		return mutationNames[k]
	}
	return fmt.Sprintf("mutation(%d)", k)
}

// Mutation is one edit from the component framework. Which fields are used
// depends on Kind.
type Mutation struct {
	Kind   MutationKind
	ID     NodeID
	Parent NodeID
	// Index is the insertion position among the parent's children; negative
	// appends.
	Index int
	Name  string // element name or attribute name
	Value Value
	Text  string
	Event EventType
}

func CreateElement(id NodeID, name string) Mutation {
	return Mutation{Kind: MutCreateElement, ID: id, Name: name}
}

func CreateText(id NodeID, text string) Mutation {
	return Mutation{Kind: MutCreateText, ID: id, Text: text}
}

// Append inserts id as the last child of parent.
func Append(parent, id NodeID) Mutation {
	return Mutation{Kind: MutInsert, ID: id, Parent: parent, Index: -1}
}

// InsertAt inserts id at index among parent's children. A node that is
// already attached somewhere is moved.
func InsertAt(parent, id NodeID, index int) Mutation {
	return Mutation{Kind: MutInsert, ID: id, Parent: parent, Index: index}
}

// Remove detaches id and frees its whole subtree.
func Remove(id NodeID) Mutation {
	return Mutation{Kind: MutRemove, ID: id}
}

func SetAttr(id NodeID, name string, v Value) Mutation {
	return Mutation{Kind: MutSetAttr, ID: id, Name: name, Value: v}
}

func RemoveAttr(id NodeID, name string) Mutation {
	return Mutation{Kind: MutRemoveAttr, ID: id, Name: name}
}

func SetText(id NodeID, text string) Mutation {
	return Mutation{Kind: MutSetText, ID: id, Text: text}
}

func Listen(id NodeID, ev EventType) Mutation {
	return Mutation{Kind: MutListen, ID: id, Event: ev}
}

func Unlisten(id NodeID, ev EventType) Mutation {
	return Mutation{Kind: MutUnlisten, ID: id, Event: ev}
}

// Apply performs one mutation. Errors describe edits that referenced nodes
// in the wrong state; the tree is unchanged when an error is returned.
func (t *Tree) Apply(m Mutation) error {
	switch m.Kind {
	case MutCreateElement:
		tag := TagContainer
		if m.Name == "img" {
			tag = TagImage
		}
		return t.create(m.ID, tag, m.Name, "")
	case MutCreateText:
		return t.create(m.ID, TagText, "#text", m.Text)
	case MutInsert:
		return t.insert(m.Parent, m.ID, m.Index)
	case MutRemove:
		return t.remove(m.ID)
	case MutSetAttr, MutRemoveAttr:
		n, err := t.live(m.ID)
		if err != nil {
			return err
		}
		var attr Attr
		var known bool
		if m.Kind == MutSetAttr {
			attr, known = n.attrs.Set(m.Name, m.Value)
		} else {
			attr, known = n.attrs.Remove(m.Name)
		}
		if known {
			n.styleDirty = n.styleDirty || attr.isStyle()
			n.layoutDirty = n.layoutDirty || attr.isLayout()
			t.dirty = true
		}
		return nil
	case MutSetText:
		n, err := t.live(m.ID)
		if err != nil {
			return err
		}
		if n.tag != TagText {
			return fmt.Errorf("%w: node %d is not a text node", ErrBadMutation, m.ID)
		}
		if n.text != m.Text {
			n.text = m.Text
			n.layoutDirty = true
			t.dirty = true
		}
		return nil
	case MutListen:
		if _, err := t.live(m.ID); err != nil {
			return err
		}
		if !m.Event.valid() {
			return fmt.Errorf("%w: unknown event %d", ErrBadMutation, m.Event)
		}
		t.listen(m.ID, m.Event)
		return nil
	case MutUnlisten:
		if _, err := t.live(m.ID); err != nil {
			return err
		}
		t.unlisten(m.ID, m.Event)
		return nil
	}
	return fmt.Errorf("%w: %v", ErrBadMutation, m.Kind)
}

// ApplyAll applies mutations in order. Failed edits are logged and skipped
// so one bad edit does not stall the frame.
func (t *Tree) ApplyAll(muts []Mutation) int {
	failed := 0
	for _, m := range muts {
		if err := t.Apply(m); err != nil {
			failed++
			Logger().Debug("mutation skipped", "kind", m.Kind, "node", m.ID, "err", err)
		}
	}
	return failed
}
