package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/genogram/pkg/cache"
	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/genogram/layout"
	"github.com/matzehuels/genogram/pkg/observability"
)

// FamilyHash returns the content hash of fam's canonical JSON.
func FamilyHash(fam *family.Family) (string, error) {
	data, err := family.Marshal(fam)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// LayoutWithCacheInfo lays fam out, consulting the cache first. The bool
// reports a cache hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, fam *family.Family, opts Options) (*layout.Result, bool, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	lo := opts.LayoutOptions()
	if err := lo.Validate(); err != nil {
		return nil, false, err
	}

	hash, err := FamilyHash(fam)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached layout.Result
			if err := cache.Decode(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &cached, true, nil
			}
			r.Logger.Debug("discarding undecodable cached layout", "key", key)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, fam.Name, len(fam.People))
	start := time.Now()
	res, err := layout.FromFamily(fam, lo)
	var report observability.LayoutReport
	if res != nil {
		report = observability.LayoutReport{
			Nodes:       len(res.Nodes),
			Layers:      res.Layers,
			Crossings:   res.Crossings,
			Diagnostics: len(res.Diagnostics),
		}
	}
	hooks.OnLayoutComplete(ctx, fam.Name, report, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := cache.Encode(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLLayout)); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return res, false, nil
}

// Layout is LayoutWithCacheInfo without the cache hit flag.
func (r *Runner) Layout(ctx context.Context, fam *family.Family, opts Options) (*layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, fam, opts)
	return res, err
}
