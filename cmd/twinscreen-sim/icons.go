package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agiangrant/twinscreen/retained"
)

// dirIcons loads raw icons from <root>/<media>/<title id in hex>.icn.
type dirIcons struct {
	root string
}

func (d dirIcons) LoadIcon(ctx context.Context, titleID uint64, media retained.Media) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(d.root, media.String(), fmt.Sprintf("%016x.icn", titleID))
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, retained.ErrIconNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read icon: %w", err)
	}
	return raw, nil
}
