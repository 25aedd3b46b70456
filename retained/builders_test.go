package retained

import "testing"

func TestBuild(t *testing.T) {
	menu := Column(
		Row(Sprite(2), Label("Settings").Color("main-text")).
			Background("selected_bg").
			On(EventClick),
		Icon(0x0004000000055d00, MediaSD),
		QRCode("https://example.com"),
	).Size(200, 100)

	muts, id := menu.Build(RootID, NewIDs(10))
	if id != 10 {
		t.Errorf("got id %d, want 10", id)
	}

	tree := newTestTree()
	mustApply(t, tree, muts...)
	solve(tree)

	tests := []struct {
		id     NodeID
		name   string
		parent NodeID
	}{
		{10, "div", RootID},
		{11, "div", 10},
		{12, "img", 11},
		{13, "#text", 11},
		{14, "img", 10},
		{15, "img", 10},
	}
	for _, tt := range tests {
		n := tree.Node(tt.id)
		if n == nil {
			t.Fatalf("node %d missing", tt.id)
		}
		if n.Name() != tt.name {
			t.Errorf("node %d name = %q, want %q", tt.id, n.Name(), tt.name)
		}
		if p, _ := n.Parent(); p != tt.parent {
			t.Errorf("node %d parent = %d, want %d", tt.id, p, tt.parent)
		}
	}

	if got := tree.Listeners(EventClick); len(got) != 1 || got[0] != 11 {
		t.Errorf("got click listeners %v, want [11]", got)
	}
	if l := tree.Layout(10); l.Width != 200 || l.Height != 100 {
		t.Errorf("got %vx%v, want 200x100", l.Width, l.Height)
	}
	if got, want := tree.Node(14).Attr(AttrSrc).Text, "1125899907194112"; got != want {
		t.Errorf("got src %q, want %q", got, want)
	}
}

func TestNewIDsSkipsRoot(t *testing.T) {
	muts, id := Div().Build(RootID, NewIDs(RootID))
	if id != 1 {
		t.Errorf("got id %d, want 1", id)
	}
	if len(muts) != 2 {
		t.Errorf("got %d mutations, want 2", len(muts))
	}
}
