package retained

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func testIcon(fill byte) []byte {
	raw := make([]byte, IconBytes)
	for i := range raw {
		raw[i] = fill
	}
	return raw
}

func waitReady(t *testing.T, c *ImageCache) {
	t.Helper()
	select {
	case <-c.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("icon load did not finish")
	}
}

func TestIconMissThenHit(t *testing.T) {
	gfx := newRecordingGraphics()
	release := make(chan struct{})
	var calls atomic.Int32
	loader := IconLoaderFunc(func(ctx context.Context, id uint64, media Media) ([]byte, error) {
		calls.Add(1)
		if id != 7 || media != MediaSD {
			t.Errorf("loader got %d %v, want 7 sd", id, media)
		}
		<-release
		return testIcon(0x1f), nil
	})
	store := NewIconStore(filepath.Join(t.TempDir(), "cache", "icons.bin"))
	c := NewImageCache(ImageCacheConfig{Workers: 1}, gfx, loader, store)
	defer c.Close()

	for range 3 {
		if _, ok := c.Icon(7, MediaSD); ok {
			t.Fatal("first lookup hit")
		}
	}
	if got := c.Pending(); got != 1 {
		t.Errorf("pending = %d, want 1", got)
	}

	c.LoadMissing()
	c.LoadMissing()
	if _, ok := c.Icon(7, MediaSD); ok {
		t.Error("lookup hit while loading")
	}
	close(release)
	waitReady(t, c)

	if !c.TakeDirty() {
		t.Error("TakeDirty = false after load, want true")
	}
	if c.TakeDirty() {
		t.Error("TakeDirty = true twice, want one signal")
	}

	img, ok := c.Icon(7, MediaSD)
	if !ok {
		t.Fatal("lookup after load missed")
	}
	if w, h := img.Size(); w != IconSize || h != IconSize {
		t.Errorf("icon size = %dx%d, want %dx%d", w, h, IconSize, IconSize)
	}
	if again, _ := c.Icon(7, MediaSD); again != img {
		t.Error("second lookup returned a different image")
	}
	if got := c.Pending(); got != 0 {
		t.Errorf("pending = %d, want 0", got)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
	if gfx.uploads != 1 {
		t.Errorf("uploads = %d, want 1", gfx.uploads)
	}

	records, err := store.Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := records[7]; !ok || len(records) != 1 {
		t.Errorf("store records = %d, want only title 7", len(records))
	}
}

func TestIconCollectWithoutLookup(t *testing.T) {
	gfx := newRecordingGraphics()
	loader := IconLoaderFunc(func(ctx context.Context, id uint64, media Media) ([]byte, error) {
		return testIcon(0x22), nil
	})
	c := NewImageCache(ImageCacheConfig{}, gfx, loader, nil)
	defer c.Close()

	c.Icon(9, MediaNAND)
	c.LoadMissing()
	waitReady(t, c)

	c.Collect()
	if got := c.Pending(); got != 0 {
		t.Errorf("pending = %d, want 0", got)
	}
	if gfx.uploads != 1 {
		t.Errorf("uploads = %d, want 1", gfx.uploads)
	}
	if _, ok := c.Icon(9, MediaNAND); !ok {
		t.Error("collected icon missed")
	}
	if gfx.uploads != 1 {
		t.Errorf("uploads = %d after lookup, want 1", gfx.uploads)
	}
}

func TestIconFailureIsCached(t *testing.T) {
	var calls atomic.Int32
	loader := IconLoaderFunc(func(ctx context.Context, id uint64, media Media) ([]byte, error) {
		calls.Add(1)
		return nil, ErrIconNotFound
	})
	store := NewIconStore(filepath.Join(t.TempDir(), "icons.bin"))
	c := NewImageCache(ImageCacheConfig{}, newRecordingGraphics(), loader, store)
	defer c.Close()

	c.Icon(3, MediaNAND)
	c.LoadMissing()
	waitReady(t, c)

	for range 2 {
		if _, ok := c.Icon(3, MediaNAND); ok {
			t.Error("failed icon reported a hit")
		}
	}
	c.LoadMissing()
	if got := c.Pending(); got != 0 {
		t.Errorf("pending = %d, want 0", got)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
	if records, _ := store.Load(nil); len(records) != 0 {
		t.Errorf("failed load was written to the store")
	}
}

func TestIconPreload(t *testing.T) {
	gfx := newRecordingGraphics()
	store := NewIconStore(filepath.Join(t.TempDir(), "icons.bin"))
	if err := store.Append(9, testIcon(0xff)); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(10, testIcon(0x00)); err != nil {
		t.Fatal(err)
	}
	c := NewImageCache(ImageCacheConfig{}, gfx, nil, store)
	defer c.Close()

	if err := c.PreloadStore(func(id uint64) bool { return id == 9 }); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Icon(9, MediaSD); !ok {
		t.Error("preloaded icon missed")
	}
	if _, ok := c.Icon(10, MediaSD); ok {
		t.Error("filtered icon hit")
	}
	if got := c.Pending(); got != 1 {
		t.Errorf("pending = %d, want 1 (title 10)", got)
	}
}

func TestQRCodeRelease(t *testing.T) {
	gfx := newRecordingGraphics()
	c := NewImageCache(ImageCacheConfig{QRSize: 64}, gfx, nil, nil)
	defer c.Close()

	first, ok := c.QRCode("hello")
	if !ok {
		t.Fatal("QRCode failed")
	}
	if w, _ := first.Size(); w != 64 {
		t.Errorf("qr size = %d, want 64", w)
	}
	if again, _ := c.QRCode("hello"); again != first {
		t.Error("same payload in one frame generated twice")
	}

	c.ReleaseUnused() // used this frame: kept
	if again, _ := c.QRCode("hello"); again != first {
		t.Error("used code was released")
	}
	c.ReleaseUnused()
	c.ReleaseUnused() // unused for a frame: dropped
	if again, _ := c.QRCode("hello"); again == first {
		t.Error("unused code was kept")
	}
	if gfx.uploads != 2 {
		t.Errorf("uploads = %d, want 2", gfx.uploads)
	}
}

func TestSheetBounds(t *testing.T) {
	c := NewImageCache(ImageCacheConfig{}, newRecordingGraphics(), nil, nil)
	defer c.Close()
	for _, tt := range []struct {
		i  int
		ok bool
	}{{0, true}, {7, true}, {8, false}, {-1, false}} {
		if _, ok := c.Sheet(tt.i); ok != tt.ok {
			t.Errorf("Sheet(%d) ok = %v, want %v", tt.i, ok, tt.ok)
		}
	}
}
