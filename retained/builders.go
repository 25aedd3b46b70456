package retained

// Builder helpers for producing mutation batches.
// These provide a fluent API for apps that describe a subtree up front.

// Element describes a node to be created by Build.
type Element struct {
	name     string
	text     string
	attrs    []namedValue
	events   []EventType
	children []*Element
}

type namedValue struct {
	name  string
	value Value
}

// Div creates a generic container element.
func Div(children ...*Element) *Element {
	return &Element{name: "div", children: children}
}

// Column creates a flex container laying children out top-to-bottom.
func Column(children ...*Element) *Element {
	return Div(children...).Set("display", TextValue("flex")).Set("flex-direction", TextValue("column"))
}

// Row creates a flex container laying children out left-to-right.
func Row(children ...*Element) *Element {
	return Div(children...).Set("display", TextValue("flex")).Set("flex-direction", TextValue("row"))
}

// Label creates a text node.
func Label(text string) *Element {
	return &Element{name: "#text", text: text}
}

// Sprite creates an image showing sprite i of the sprite sheet.
func Sprite(i int) *Element {
	return (&Element{name: "img"}).Set("src", IntValue(int64(i)))
}

// Icon creates an image showing a title icon.
func Icon(titleID uint64, media Media) *Element {
	return (&Element{name: "img"}).
		Set("src", TextValue(formatTitleID(titleID))).
		Set("media", TextValue(media.String()))
}

// QRCode creates an image encoding payload.
func QRCode(payload string) *Element {
	return (&Element{name: "img"}).Set("src", TextValue(payload)).Set("media", TextValue("qrcode"))
}

// Set adds an attribute. Later values for the same name win.
func (e *Element) Set(name string, v Value) *Element {
	e.attrs = append(e.attrs, namedValue{name, v})
	return e
}

// Color sets the text color by palette name.
func (e *Element) Color(name string) *Element { return e.Set("color", TextValue(name)) }

// Background sets the background color by palette name.
func (e *Element) Background(name string) *Element {
	return e.Set("background-color", TextValue(name))
}

// Size sets a fixed width and height in pixels.
func (e *Element) Size(w, h int) *Element {
	return e.Set("width", IntValue(int64(w))).Set("height", IntValue(int64(h)))
}

// On registers the node for ev.
func (e *Element) On(events ...EventType) *Element {
	e.events = append(e.events, events...)
	return e
}

// Add appends children.
func (e *Element) Add(children ...*Element) *Element {
	e.children = append(e.children, children...)
	return e
}

// IDs hands out node ids for Build.
type IDs struct {
	next NodeID
}

// NewIDs returns an allocator whose first id is first.
func NewIDs(first NodeID) *IDs {
	if first == RootID {
		first = RootID + 1
	}
	return &IDs{next: first}
}

func (a *IDs) take() NodeID {
	id := a.next
	a.next++
	return id
}

// Build returns the edits creating e and its subtree under parent, in
// pre-order, and the id given to e.
func (e *Element) Build(parent NodeID, ids *IDs) ([]Mutation, NodeID) {
	var muts []Mutation
	id := e.build(&muts, parent, ids)
	return muts, id
}

func (e *Element) build(muts *[]Mutation, parent NodeID, ids *IDs) NodeID {
	id := ids.take()
	if e.name == "#text" {
		*muts = append(*muts, CreateText(id, e.text))
	} else {
		*muts = append(*muts, CreateElement(id, e.name))
	}
	for _, a := range e.attrs {
		*muts = append(*muts, SetAttr(id, a.name, a.value))
	}
	*muts = append(*muts, Append(parent, id))
	for _, ev := range e.events {
		*muts = append(*muts, Listen(id, ev))
	}
	for _, c := range e.children {
		c.build(muts, id, ids)
	}
	return id
}
