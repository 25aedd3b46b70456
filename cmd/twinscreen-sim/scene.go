package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/twinscreen/retained"
)

// ErrUnknownTag is returned for scene nodes whose tag is not div, text or img.
var ErrUnknownTag = errors.New("unknown tag")

// Scene is the file form of a UI tree plus the reactions that make it
// interactive.
type Scene struct {
	Nodes []SceneNode `toml:"node"`
	Rules []Rule      `toml:"on"`
}

// SceneNode creates one node under Parent. Nodes are created in file order,
// so parents come first.
type SceneNode struct {
	ID     uint32         `toml:"id"`
	Parent uint32         `toml:"parent"`
	Tag    string         `toml:"tag"`
	Text   string         `toml:"text"`
	Attrs  map[string]any `toml:"attrs"`
	Listen []string       `toml:"listen"`
}

// Rule reacts to an event on Node. Target defaults to Node.
type Rule struct {
	Node   uint32 `toml:"node"`
	Event  string `toml:"event"`
	Key    string `toml:"key"`
	Target uint32 `toml:"target"`

	SetText *string        `toml:"set_text"`
	SetAttr map[string]any `toml:"set_attr"`
	Remove  bool           `toml:"remove"`

	Exit    bool   `toml:"exit"`
	TitleID uint64 `toml:"title_id"`
	Media   string `toml:"media"`
}

// LoadScene reads a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var s Scene
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &s, nil
}

// Mutations returns the edits that build the scene.
func (s *Scene) Mutations() ([]retained.Mutation, error) {
	var muts []retained.Mutation
	for i, n := range s.Nodes {
		id := retained.NodeID(n.ID)
		switch n.Tag {
		case "text":
			muts = append(muts, retained.CreateText(id, n.Text))
		case "div", "img":
			muts = append(muts, retained.CreateElement(id, n.Tag))
		default:
			return nil, fmt.Errorf("node %d (#%d): %w %q", n.ID, i, ErrUnknownTag, n.Tag)
		}
		for _, name := range slices.Sorted(maps.Keys(n.Attrs)) {
			v, err := attrValue(n.Attrs[name])
			if err != nil {
				return nil, fmt.Errorf("node %d attribute %s: %w", n.ID, name, err)
			}
			muts = append(muts, retained.SetAttr(id, name, v))
		}
		muts = append(muts, retained.Append(retained.NodeID(n.Parent), id))
		for _, name := range n.Listen {
			ev, ok := retained.ParseEventType(name)
			if !ok {
				return nil, fmt.Errorf("node %d: unknown event %q", n.ID, name)
			}
			muts = append(muts, retained.Listen(id, ev))
		}
	}
	return muts, nil
}

// attrValue converts a decoded TOML value.
func attrValue(raw any) (retained.Value, error) {
	switch v := raw.(type) {
	case string:
		return retained.TextValue(v), nil
	case int64:
		return retained.IntValue(v), nil
	case float64:
		return retained.FloatValue(v), nil
	case bool:
		return retained.BoolValue(v), nil
	}
	return retained.Value{}, fmt.Errorf("unsupported value %v (%T)", raw, raw)
}
