package retained

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// ErrIconNotFound is returned by icon loaders for titles without an icon.
var ErrIconNotFound = errors.New("icon not found")

// ErrBadIcon is returned for icon data of the wrong size.
var ErrBadIcon = errors.New("bad icon data")

const (
	// IconSize is the edge length of a title icon.
	IconSize = 48
	// IconBytes is the size of one RGB565 icon.
	IconBytes = IconSize * IconSize * 2

	iconRecordBytes = 8 + IconBytes
)

// pixel order inside an 8x8 tile
var tileOrder = [64]uint8{
	0, 1, 8, 9, 2, 3, 10, 11, 16, 17, 24, 25, 18, 19, 26, 27,
	4, 5, 12, 13, 6, 7, 14, 15, 20, 21, 28, 29, 22, 23, 30, 31,
	32, 33, 40, 41, 34, 35, 42, 43, 48, 49, 56, 57, 50, 51, 58, 59,
	36, 37, 44, 45, 38, 39, 46, 47, 52, 53, 60, 61, 54, 55, 62, 63,
}

// DecodeIcon converts a tiled little-endian RGB565 icon to an image.
func DecodeIcon(raw []byte) (*image.NRGBA, error) {
	if len(raw) < IconBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadIcon, len(raw))
	}
	img := image.NewNRGBA(image.Rect(0, 0, IconSize, IconSize))
	const tilesPerRow = IconSize / 8
	for i := range IconSize * IconSize {
		tile, k := i/64, tileOrder[i%64]
		x := (tile%tilesPerRow)*8 + int(k&7)
		y := (tile/tilesPerRow)*8 + int(k>>3)
		v := binary.LittleEndian.Uint16(raw[i*2:])
		r, g, b := uint8(v>>11), uint8(v>>5)&0x3f, uint8(v)&0x1f
		img.SetNRGBA(x, y, color.NRGBA{
			R: r<<3 | r>>2,
			G: g<<2 | g>>4,
			B: b<<3 | b>>2,
			A: 0xff,
		})
	}
	return img, nil
}

// IconStore is the append-only on-disk icon cache. Each record is the title
// id as 8 big-endian bytes followed by IconBytes of icon data.
type IconStore struct {
	path string
	mu   sync.Mutex
}

// NewIconStore returns a store backed by the file at path.
func NewIconStore(path string) *IconStore {
	return &IconStore{path: path}
}

// Path returns the backing file.
func (s *IconStore) Path() string { return s.path }

// Append adds one record. It is safe to call from worker goroutines.
func (s *IconStore) Append(id uint64, raw []byte) error {
	if len(raw) != IconBytes {
		return fmt.Errorf("%w: %d bytes", ErrBadIcon, len(raw))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create icon cache dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open icon cache: %w", err)
	}
	rec := make([]byte, 0, iconRecordBytes)
	rec = binary.BigEndian.AppendUint64(rec, id)
	rec = append(rec, raw...)
	if _, err := f.Write(rec); err != nil {
		f.Close()
		return fmt.Errorf("write icon cache: %w", err)
	}
	return f.Close()
}

// Load reads every record accepted by keep (nil keeps all). A missing file
// is an empty store and a truncated trailing record is ignored. Later records
// win.
func (s *IconStore) Load(keep func(id uint64) bool) (map[uint64][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[uint64][]byte)
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open icon cache: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	rec := make([]byte, iconRecordBytes)
	for {
		if _, err := io.ReadFull(r, rec); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return out, nil
			}
			return nil, fmt.Errorf("read icon cache: %w", err)
		}
		id := binary.BigEndian.Uint64(rec)
		if keep == nil || keep(id) {
			out[id] = append([]byte(nil), rec[8:]...)
		}
	}
}
