package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genogram/pkg/cache"
	"github.com/matzehuels/genogram/pkg/family"
)

// Runner executes pipeline stages against a cache. It keeps no per-run
// state and is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached layouts and artifacts. Zero uses
	// cache.TTLLayout and cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner returns a runner with defaults filled in: no caching for a nil
// cache, [cache.DefaultKeyer] for a nil keyer and log.Default for a nil
// logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// Execute lays fam out and renders every requested format.
func (r *Runner) Execute(ctx context.Context, fam *family.Family, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	out := &Result{Stats: Stats{People: len(fam.People)}}
	if hash, err := FamilyHash(fam); err == nil {
		out.FamilyHash = hash
	}

	start := time.Now()
	res, hit, err := r.LayoutWithCacheInfo(ctx, fam, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	out.Layout, out.CacheInfo.LayoutHit = res, hit
	out.Stats.Nodes = len(res.Nodes)
	out.Stats.LayoutTime = time.Since(start)
	r.Logger.Info("computed layout",
		"family", fam.Name,
		"nodes", len(res.Nodes),
		"generations", res.Layers,
		"crossings", res.Crossings,
		"diagnostics", len(res.Diagnostics),
		"cached", hit,
		"duration", out.Stats.LayoutTime)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out.Artifacts, out.CacheInfo.RenderHit = artifacts, hit
	out.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", hit, "duration", out.Stats.RenderTime)
	return out, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}

func (r *Runner) ttl(fallback time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return fallback
}
