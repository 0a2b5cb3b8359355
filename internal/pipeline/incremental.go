package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/cfohelper/internal/model"
	"github.com/theirongolddev/cfohelper/internal/source"
)

// BaselineCache stores parsed source records keyed by file identity.
// Implementations live in internal/store.
type BaselineCache interface {
	// Lookup returns the cached record for id.Path if it was saved from the
	// same file version (mtime and size). ok is false on a miss.
	Lookup(id source.Identity) (rec *source.Record, ok bool, err error)
	Save(rec *source.Record) error
}

// CachedLoadResult is a loaded baseline plus cache metadata.
type CachedLoadResult struct {
	Finances *model.Finances
	Identity source.Identity
	CacheHit bool
}

// LoadWithCache loads the baseline at path, reusing the cached parse when
// the file has not changed since it was saved. A cache read failure is
// returned so callers can fall back to LoadFinances; a failure to save a
// fresh parse is ignored.
func LoadWithCache(path string, cache BaselineCache) (*CachedLoadResult, error) {
	id, err := source.Stat(path)
	if err != nil {
		return nil, &source.ReadError{Path: path, Op: "stat", Err: err}
	}

	rec, ok, err := cache.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	if ok {
		return &CachedLoadResult{Finances: Fold(rec), Identity: id, CacheHit: true}, nil
	}

	rec, err = source.ParseFile(path)
	if err != nil {
		return nil, err
	}
	_ = cache.Save(rec)

	return &CachedLoadResult{Finances: Fold(rec), Identity: rec.Identity}, nil
}

// LoadBaseline is the shared load path for every front end. It goes through
// cache when one is given, falls back to a direct parse when the cache
// cannot be read, and rejects baselines with non-numeric required fields.
func LoadBaseline(path string, cache BaselineCache) (*CachedLoadResult, error) {
	var res *CachedLoadResult
	if cache != nil {
		cr, err := LoadWithCache(path, cache)
		var re *source.ReadError
		switch {
		case err == nil:
			res = cr
		case errors.As(err, &re):
			return nil, err
		}
	}
	if res == nil {
		rec, err := source.ParseFile(path)
		if err != nil {
			return nil, err
		}
		res = &CachedLoadResult{Finances: Fold(rec), Identity: rec.Identity}
	}

	if err := res.Finances.Validate(); err != nil {
		return nil, fmt.Errorf("baseline %s: %w", path, err)
	}
	return res, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cfohelper")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "cfohelper")
}

// CachePath returns the full path to the baseline cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "baselines.db")
}
