package retained

import "testing"

func TestTextMeasureCacheEvicts(t *testing.T) {
	c := newTextMeasureCache(2)
	a := textKey{text: "a", scale: 1}
	b := textKey{text: "b", scale: 1}
	wrapped := textKey{text: "a", scale: 1, maxWidth: 10}

	c.put(a, textSize{w: 1, h: 1})
	c.put(b, textSize{w: 2, h: 1})
	c.get(a)
	c.put(wrapped, textSize{w: 3, h: 2})

	if got := c.len(); got != 2 {
		t.Errorf("got %d entries, want 2", got)
	}
	if _, ok := c.get(b); ok {
		t.Error("least recently used entry survived")
	}
	tests := []struct {
		key  textKey
		want textSize
	}{
		{a, textSize{w: 1, h: 1}},
		{wrapped, textSize{w: 3, h: 2}},
	}
	for _, tt := range tests {
		if got, ok := c.get(tt.key); !ok || got != tt.want {
			t.Errorf("get(%+v) = %v, %v, want %v", tt.key, got, ok, tt.want)
		}
	}

	c.put(a, textSize{w: 5, h: 5})
	if got := c.len(); got != 2 {
		t.Errorf("got %d entries after update, want 2", got)
	}
}
