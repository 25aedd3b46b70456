package retained

import (
	"context"
	"image"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/skip2/go-qrcode"

	"github.com/agiangrant/twinscreen/internal/worker"
)

// Media is the storage medium of an installed title.
type Media uint8

const (
	MediaNAND Media = iota
	MediaSD
)

// ParseMedia maps the media attribute to a Media. Anything but "sd" is NAND.
func ParseMedia(s string) Media {
	if s == "sd" {
		return MediaSD
	}
	return MediaNAND
}

func (m Media) String() string {
	if m == MediaSD {
		return "sd"
	}
	return "nand"
}

// IconLoader fetches the raw icon data of a title. It runs on a worker
// goroutine and may block.
type IconLoader interface {
	LoadIcon(ctx context.Context, titleID uint64, media Media) ([]byte, error)
}

// IconLoaderFunc adapts a function to IconLoader.
type IconLoaderFunc func(ctx context.Context, titleID uint64, media Media) ([]byte, error)

func (f IconLoaderFunc) LoadIcon(ctx context.Context, titleID uint64, media Media) ([]byte, error) {
	return f(ctx, titleID, media)
}

// ImageCacheConfig configures an ImageCache.
type ImageCacheConfig struct {
	// Workers bounds concurrent icon loads.
	Workers int
	// QRSize is the pixel size of generated QR codes.
	QRSize int
}

// DefaultImageCacheConfig returns the stock settings.
func DefaultImageCacheConfig() ImageCacheConfig {
	return ImageCacheConfig{Workers: 2, QRSize: 128}
}

type iconEntry struct {
	img Image
	ok  bool
}

type qrEntry struct {
	img  Image
	ok   bool
	uses int
}

type pendingIcon struct {
	id      uint64
	media   Media
	started bool
	done    bool
	img     *image.NRGBA
}

// ImageCache owns every texture the render walker draws besides text. Sprite
// sheet lookups are synchronous, QR codes are generated on first use and
// dropped when a frame stops using them, and title icons are loaded in the
// background.
//
// All methods except TakeDirty and Ready belong to the UI goroutine.
type ImageCache struct {
	gfx    Graphics
	loader IconLoader
	store  *IconStore
	pool   *worker.Pool
	qrSize int

	icons   map[uint64]iconEntry
	preload map[uint64][]byte
	qr      map[string]*qrEntry

	mu      sync.Mutex
	pending []*pendingIcon // guarded by mu

	dirty atomic.Bool
	ready chan struct{}
}

// NewImageCache returns a cache drawing through gfx. loader and store may be
// nil; without a loader every icon lookup misses.
func NewImageCache(cfg ImageCacheConfig, gfx Graphics, loader IconLoader, store *IconStore) *ImageCache {
	def := DefaultImageCacheConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QRSize <= 0 {
		cfg.QRSize = def.QRSize
	}
	return &ImageCache{
		gfx:     gfx,
		loader:  loader,
		store:   store,
		pool:    worker.New(context.Background(), cfg.Workers),
		qrSize:  cfg.QRSize,
		icons:   make(map[uint64]iconEntry),
		preload: make(map[uint64][]byte),
		qr:      make(map[string]*qrEntry),
		ready:   make(chan struct{}, 1),
	}
}

// Sheet returns sprite i of the sprite sheet.
func (c *ImageCache) Sheet(i int) (Image, bool) {
	if i < 0 {
		return nil, false
	}
	return c.gfx.SheetImage(i)
}

// Icon returns the icon of a title. A miss queues one background load and
// reports false until the load finishes; a failed load is remembered and
// never retried.
func (c *ImageCache) Icon(id uint64, media Media) (Image, bool) {
	if e, ok := c.icons[id]; ok {
		return e.img, e.ok
	}
	if raw, ok := c.preload[id]; ok {
		delete(c.preload, id)
		img, err := DecodeIcon(raw)
		if err != nil {
			Logger().Warn("preloaded icon unreadable", "title", id, "err", err)
			return c.resolve(id, nil)
		}
		return c.resolve(id, img)
	}

	c.mu.Lock()
	i := slices.IndexFunc(c.pending, func(p *pendingIcon) bool { return p.id == id })
	if i < 0 {
		c.pending = append(c.pending, &pendingIcon{id: id, media: media})
		c.mu.Unlock()
		return nil, false
	}
	p := c.pending[i]
	if !p.done {
		c.mu.Unlock()
		return nil, false
	}
	c.pending = slices.Delete(c.pending, i, i+1)
	c.mu.Unlock()
	return c.resolve(id, p.img)
}

// resolve uploads a decoded icon and records the outcome. A nil img records
// a failure.
func (c *ImageCache) resolve(id uint64, img *image.NRGBA) (Image, bool) {
	var e iconEntry
	if img != nil {
		up, err := c.gfx.UploadImage(img)
		if err != nil {
			Logger().Warn("icon upload failed", "title", id, "err", err)
		} else {
			e = iconEntry{img: up, ok: true}
		}
	}
	c.icons[id] = e
	return e.img, e.ok
}

// QRCode returns a QR code encoding payload and counts one use for the
// current frame.
func (c *ImageCache) QRCode(payload string) (Image, bool) {
	e, ok := c.qr[payload]
	if !ok {
		e = &qrEntry{}
		if q, err := qrcode.New(payload, qrcode.Low); err != nil {
			Logger().Warn("qr encode failed", "err", err)
		} else if up, err := c.gfx.UploadImage(q.Image(c.qrSize)); err != nil {
			Logger().Warn("qr upload failed", "err", err)
		} else {
			e.img, e.ok = up, true
		}
		c.qr[payload] = e
	}
	e.uses++
	return e.img, e.ok
}

// ReleaseUnused drops QR codes no draw used since the previous call and
// resets the use counters.
func (c *ImageCache) ReleaseUnused() {
	for k, e := range c.qr {
		if e.uses == 0 {
			delete(c.qr, k)
			continue
		}
		e.uses = 0
	}
}

// LoadMissing starts background loads for queued icons while worker slots
// are free. It never blocks.
func (c *ImageCache) LoadMissing() {
	if c.loader == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.pending {
		if p.started {
			continue
		}
		p.started = true
		if !c.pool.TryGo(func(ctx context.Context) { c.load(ctx, p) }) {
			p.started = false
			break
		}
	}
}

func (c *ImageCache) load(ctx context.Context, p *pendingIcon) {
	var img *image.NRGBA
	raw, err := c.loader.LoadIcon(ctx, p.id, p.media)
	if err == nil {
		img, err = DecodeIcon(raw)
	}
	if err != nil {
		Logger().Warn("icon load failed", "title", p.id, "media", p.media, "err", err)
	} else if c.store != nil {
		if err := c.store.Append(p.id, raw); err != nil {
			Logger().Warn("icon cache write failed", "title", p.id, "err", err)
		}
	}

	c.mu.Lock()
	p.img, p.done = img, true
	c.mu.Unlock()

	c.dirty.Store(true)
	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// Collect moves finished background loads into the cache so their results
// land even when no node asks for them again.
func (c *ImageCache) Collect() {
	c.mu.Lock()
	var done []*pendingIcon
	c.pending = slices.DeleteFunc(c.pending, func(p *pendingIcon) bool {
		if p.done {
			done = append(done, p)
		}
		return p.done
	})
	c.mu.Unlock()

	for _, p := range done {
		if _, ok := c.icons[p.id]; !ok {
			c.resolve(p.id, p.img)
		}
	}
}

// TakeDirty reports whether a background load finished since the last call.
func (c *ImageCache) TakeDirty() bool {
	return c.dirty.Swap(false)
}

// Ready is signalled after a background load finishes.
func (c *ImageCache) Ready() <-chan struct{} {
	return c.ready
}

// Pending returns the number of icons queued or loading.
func (c *ImageCache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Preload hands raw icon records to the cache. They are decoded on first
// use.
func (c *ImageCache) Preload(records map[uint64][]byte) {
	for id, raw := range records {
		if _, ok := c.icons[id]; !ok {
			c.preload[id] = raw
		}
	}
}

// PreloadStore reads the icon store for the titles accepted by keep.
func (c *ImageCache) PreloadStore(keep func(id uint64) bool) error {
	if c.store == nil {
		return nil
	}
	records, err := c.store.Load(keep)
	if err != nil {
		return err
	}
	c.Preload(records)
	return nil
}

// Close waits for running loads.
func (c *ImageCache) Close() {
	c.pool.Close()
}
