package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/agiangrant/twinscreen/retained"
)

func TestDirIcons(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sd"), 0o755); err != nil {
		t.Fatal(err)
	}
	raw := make([]byte, retained.IconBytes)
	if err := os.WriteFile(filepath.Join(root, "sd", "0004000000055d00.icn"), raw, 0o644); err != nil {
		t.Fatal(err)
	}
	icons := dirIcons{root: root}

	got, err := icons.LoadIcon(context.Background(), 0x0004000000055d00, retained.MediaSD)
	if err != nil {
		t.Fatalf("LoadIcon: %v", err)
	}
	if len(got) != retained.IconBytes {
		t.Errorf("got %d bytes, want %d", len(got), retained.IconBytes)
	}

	_, err = icons.LoadIcon(context.Background(), 0x0004000000055d00, retained.MediaNAND)
	if !errors.Is(err, retained.ErrIconNotFound) {
		t.Errorf("got %v, want %v", err, retained.ErrIconNotFound)
	}
}
