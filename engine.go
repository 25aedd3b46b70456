// Package twinscreen wires the retained UI engine for a dual-screen handheld:
// configuration, the optional on-disk icon store and the frame loop.
package twinscreen

import (
	"github.com/agiangrant/twinscreen/retained"
)

// Option adjusts New.
type Option func(*options)

type options struct {
	icons   retained.IconLoader
	preload func(id uint64) bool
}

// WithIconLoader sets the source of title icons.
func WithIconLoader(l retained.IconLoader) Option {
	return func(o *options) { o.icons = l }
}

// WithPreload reads the icons accepted by keep from the icon store before
// the first frame.
func WithPreload(keep func(id uint64) bool) Option {
	return func(o *options) { o.preload = keep }
}

// New returns a loop ready to Run.
func New(cfg Config, gfx retained.Graphics, input retained.Input, app retained.App, opts ...Option) (*retained.Loop, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	lc, err := cfg.LoopConfig()
	if err != nil {
		return nil, err
	}

	host := retained.Host{
		Graphics: gfx,
		Input:    input,
		App:      app,
		Icons:    o.icons,
	}
	if cfg.Images.IconCachePath != "" {
		host.IconStore = retained.NewIconStore(cfg.Images.IconCachePath)
	}

	loop := retained.NewLoop(lc, host)
	if o.preload != nil && host.IconStore != nil {
		if err := loop.Images().PreloadStore(o.preload); err != nil {
			retained.Logger().Warn("icon cache preload failed", "path", cfg.Images.IconCachePath, "err", err)
		}
	}
	return loop, nil
}
