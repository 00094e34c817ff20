package avatar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/workdeck/avatarproxy/internal/cache"
	"github.com/workdeck/avatarproxy/internal/store"
)

var (
	cacheHits      = metrics.GetOrCreateCounter("avatar_cache_hits_total")
	cacheMisses    = metrics.GetOrCreateCounter("avatar_cache_misses_total")
	originFetches  = metrics.GetOrCreateCounter("avatar_origin_fetches_total")
	originFailures = metrics.GetOrCreateCounter("avatar_origin_fetch_failures_total")
)

// DefaultStaleAfter is the staleness threshold shared by the memory and
// source tiers.
const DefaultStaleAfter = time.Hour

// Fetcher retrieves a base image from the external origin.
type Fetcher interface {
	Fetch(ctx context.Context, userID int64, resolution int) ([]byte, error)
}

// Service orchestrates the two cache tiers, the origin and the transformer.
// Concurrent misses for the same key may duplicate work; producers for a key
// compute identical output, so the last writer winning is safe.
type Service struct {
	cache      *cache.Cache
	store      store.SourceStore
	fetcher    Fetcher
	refresher  *Refresher
	staleAfter time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Options configures a Service. Cache, Store and Fetcher are required.
type Options struct {
	Cache   *cache.Cache
	Store   store.SourceStore
	Fetcher Fetcher

	// StaleAfter is the staleness threshold. Zero means DefaultStaleAfter.
	StaleAfter time.Duration

	Logger *slog.Logger

	// Now overrides the time source. Nil means time.Now.
	Now func() time.Time
}

func NewService(opts Options) (*Service, error) {
	if opts.Cache == nil || opts.Store == nil || opts.Fetcher == nil {
		return nil, errors.New("avatar: cache, store and fetcher are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	staleAfter := opts.StaleAfter
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Service{
		cache:      opts.Cache,
		store:      opts.Store,
		fetcher:    opts.Fetcher,
		staleAfter: staleAfter,
		logger:     logger,
		now:        now,
	}
	s.refresher = newRefresher(s.refreshOne, logger)
	return s, nil
}

// Close drains the background refresher.
func (s *Service) Close() {
	s.refresher.close()
}

// CacheStats exposes the memory tier's counters for the stats endpoint.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// RefreshStats exposes the refresher's counters for the stats endpoint.
func (s *Service) RefreshStats() RefreshStats {
	return s.refresher.stats()
}

// Get returns the processed response entry for the validated params. A hit on
// a stale entry is served as-is while a background refresh is scheduled; a
// miss materializes the entry synchronously through the source tier.
func (s *Service) Get(ctx context.Context, p Params) (*cache.Entry, error) {
	key := cacheKey(p)

	if e, ok := s.cache.Get(key); ok {
		cacheHits.Inc()
		if e.Stale(s.now(), s.staleAfter) {
			s.refresher.schedule(p)
		}
		return e, nil
	}
	cacheMisses.Inc()

	buf, err := s.materialize(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.cache.Put(key, buf, s.now()), nil
}

// materialize produces fresh response bytes via disk, origin and transform.
func (s *Service) materialize(ctx context.Context, p Params) ([]byte, error) {
	sourceRes, _ := ResolveSource(p.Resolution)

	base, mtime, err := s.store.Read(ctx, p.UserID, sourceRes)
	if err != nil && errors.Is(err, store.ErrInvalidKey) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUserID, err)
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("source store read failed", "user_id", p.UserID, "error", err)
	}

	onDisk := err == nil
	diskStale := onDisk && s.now().Sub(mtime) > s.staleAfter
	fromDisk := onDisk

	if !onDisk || diskStale {
		// The disk tier is the authoritative base for transformation, so
		// a stale copy forces a synchronous re-fetch rather than a
		// background one.
		fresh, ferr := s.fetchAndPersist(ctx, p.UserID, sourceRes)
		switch {
		case ferr == nil:
			base = fresh
			fromDisk = false
		case onDisk:
			s.logger.Warn("origin fetch failed, serving stale source",
				"user_id", p.UserID, "resolution", sourceRes, "error", ferr)
		default:
			return nil, ferr
		}
	}

	out, terr := Transform(base, p.Resolution, sourceRes, p.Color)
	if terr != nil {
		if fromDisk {
			// Drop the corrupt source so the next request re-fetches.
			if rerr := s.store.Remove(ctx, p.UserID, sourceRes); rerr != nil {
				s.logger.Warn("corrupt source removal failed", "user_id", p.UserID, "error", rerr)
			}
		}
		return nil, terr
	}
	return out, nil
}

// fetchAndPersist pulls a base image from the origin and persists it
// best-effort. Only provider-native sizes are ever persisted; the canonical
// fallback qualifies since it is itself a native size.
func (s *Service) fetchAndPersist(ctx context.Context, userID int64, sourceRes int) ([]byte, error) {
	originFetches.Inc()
	fresh, err := s.fetcher.Fetch(ctx, userID, sourceRes)
	if err != nil {
		originFailures.Inc()
		return nil, err
	}

	if IsNative(sourceRes) {
		if werr := s.store.Write(ctx, userID, sourceRes, fresh); werr != nil {
			s.logger.Warn("source store write failed",
				"user_id", userID, "resolution", sourceRes, "error", werr)
		}
	}
	return fresh, nil
}

// refreshOne repeats fetch+transform for a stale key and fully replaces the
// cache entry. Runs detached from any request.
func (s *Service) refreshOne(ctx context.Context, p Params) error {
	sourceRes, _ := ResolveSource(p.Resolution)

	fresh, err := s.fetchAndPersist(ctx, p.UserID, sourceRes)
	if err != nil {
		return err
	}

	out, err := Transform(fresh, p.Resolution, sourceRes, p.Color)
	if err != nil {
		return err
	}
	s.cache.Put(cacheKey(p), out, s.now())
	return nil
}

func cacheKey(p Params) cache.Key {
	return cache.Key{UserID: p.UserID, Resolution: p.Resolution, Color: p.Color}
}
