package retained

import "testing"

func renderScene(t *testing.T, slider float32, muts ...Mutation) *recordingGraphics {
	t.Helper()
	gfx := newRecordingGraphics()
	tree := NewTree(NewStyleResolver(nil, 0), gfx)
	mustApply(t, tree, muts...)
	solve(tree)
	images := NewImageCache(ImageCacheConfig{}, gfx, nil, nil)
	defer images.Close()
	r := NewRenderer(gfx, images, DefaultPlaceholderSprite)
	gfx.BeginFrame()
	r.Render(tree, slider)
	gfx.EndFrame()
	return gfx
}

func TestRenderStereoOffset(t *testing.T) {
	green := DefaultPalette()["green"]
	gfx := renderScene(t, 2, div(1, RootID, map[string]Value{
		"width":            px(48),
		"height":           px(48),
		"background-color": TextValue("green"),
		"deep_3d":          px(1),
	})...)

	rects := gfx.snapshot("rect")
	want := []drawCall{
		{op: "rect", target: TargetTopLeft, x: -2, w: 48, h: 48, color: green},
		{op: "rect", target: TargetTopRight, x: 2, w: 48, h: 48, color: green},
	}
	if len(rects) != len(want) {
		t.Fatalf("got %d rects %+v, want %d", len(rects), rects, len(want))
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Errorf("rect %d: got %+v, want %+v", i, rects[i], want[i])
		}
	}
}

func TestRenderStereoSymmetry(t *testing.T) {
	tests := []struct {
		name   string
		attrs  map[string]Value
		slider float32
		want   map[Target]float32
	}{
		{
			name:   "stereo off draws one eye",
			attrs:  map[string]Value{"deep_3d": px(3)},
			slider: 0,
			want:   map[Target]float32{TargetTopLeft: 20},
		},
		{
			name:   "negative depth swaps sides",
			attrs:  map[string]Value{"deep_3d": FloatValue(-1.5)},
			slider: 2,
			want:   map[Target]float32{TargetTopLeft: 23, TargetTopRight: 17},
		},
		{
			name:   "bottom screen ignores depth",
			attrs:  map[string]Value{"deep_3d": px(3), "screen": TextValue("bottom")},
			slider: 2,
			want:   map[Target]float32{TargetBottom: 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := map[string]Value{
				"width": px(10), "height": px(10), "margin-left": px(20),
				"background-color": TextValue("red"),
			}
			for k, v := range tt.attrs {
				attrs[k] = v
			}
			rects := renderScene(t, tt.slider, div(1, RootID, attrs)...).snapshot("rect")
			got := map[Target]float32{}
			for _, r := range rects {
				got[r.target] = r.x
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for target, x := range tt.want {
				if got[target] != x {
					t.Errorf("%v: x = %v, want %v", target, got[target], x)
				}
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	muts := div(1, RootID, map[string]Value{
		"padding": px(10), "color": TextValue("blue"), "max-width": px(60), "screen": TextValue("bottom"),
	})
	muts = append(muts, CreateText(2, "wrapped text"), Append(1, 2))
	texts := renderScene(t, 2, muts...).snapshot("text")
	if len(texts) != 1 {
		t.Fatalf("got %d text draws, want 1", len(texts))
	}
	got := texts[0]
	want := drawCall{op: "text", target: TargetBottom, x: 10, y: 10, w: 60, color: DefaultPalette()["blue"], text: "wrapped text"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRenderReset(t *testing.T) {
	calls := renderScene(t, 1, div(1, RootID, map[string]Value{"bg_reset": TextValue("main_bg")})...).snapshot("clear")
	if len(calls) != 2 || calls[0].target != TargetTopLeft || calls[1].target != TargetTopRight {
		t.Errorf("got %+v, want clears of both top eyes", calls)
	}

	calls = renderScene(t, 1, div(1, RootID, map[string]Value{
		"bg_reset": TextValue("main_bg"), "screen": TextValue("bottom"),
	})...).snapshot("clear")
	if len(calls) != 1 || calls[0].target != TargetBottom {
		t.Errorf("got %+v, want one bottom clear", calls)
	}
}

func TestRenderImageSources(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]Value
		want  string
	}{
		{"sprite index", map[string]Value{"src": px(2)}, "sheet2"},
		{"sprite out of range", map[string]Value{"src": px(99)}, "sheet4"},
		{"icon still loading", map[string]Value{"src": TextValue("1234"), "media": TextValue("sd")}, "sheet4"},
		{"text source without media", map[string]Value{"src": TextValue("1234")}, "sheet4"},
		{"qr code", map[string]Value{"src": TextValue("https://example.com"), "media": TextValue("qrcode")}, "upload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			muts := []Mutation{CreateElement(1, "img")}
			for k, v := range tt.attrs {
				muts = append(muts, SetAttr(1, k, v))
			}
			muts = append(muts, Append(RootID, 1))
			images := renderScene(t, 0, muts...).snapshot("image")
			if len(images) != 1 {
				t.Fatalf("got %d image draws, want 1", len(images))
			}
			if got := images[0].img.(*fakeImage).name; got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderNestedOrigin(t *testing.T) {
	muts := div(1, RootID, map[string]Value{"margin-left": px(30), "padding-top": px(7)})
	muts = append(muts, div(2, 1, map[string]Value{
		"width": px(5), "height": px(5), "background-color": TextValue("white"),
	})...)
	rects := renderScene(t, 0, muts...).snapshot("rect")
	if len(rects) != 1 || rects[0].x != 30 || rects[0].y != 7 {
		t.Errorf("got %+v, want one rect at (30,7)", rects)
	}
}
