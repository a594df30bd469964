package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/localfs"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
)

// resourceTTL bounds how long a memoized script body stays usable.
// Scans finish well inside it; the TTL only matters for long-lived
// batch processes.
const resourceTTL = time.Hour

type resourceCache = *sfcache.TieredCache[string, []byte]

// newResourceCache builds the in-memory memoization cache for script
// resources. The null persistence tier keeps it process-local while the
// singleflight layer collapses concurrent fetches of the same bundle.
func newResourceCache() resourceCache {
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte]())
	if err != nil {
		panic("sfcache.NewTiered with null store: " + err.Error())
	}
	return tc
}

// newPersistentResourceCache builds a disk-backed resource cache at dir.
func newPersistentResourceCache(dir string) (resourceCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	persist, err := localfs.New[string, []byte]("peoplescan", dir)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}
	tc, err := sfcache.NewTiered[string, []byte](persist, sfcache.TTL(resourceTTL))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return tc, nil
}

// resourceKey hashes a URL into a cache key.
func resourceKey(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(hash[:])
}

// FetchResource retrieves the text of a script resource, memoized for
// the fetcher's lifetime. Unavailable or rejected resources memoize as
// misses so a dead bundle URL is not re-fetched page after page.
func (f *Fetcher) FetchResource(ctx context.Context, rawURL string) (string, bool) {
	data, err := f.resources.GetSet(ctx, resourceKey(rawURL), func(ctx context.Context) ([]byte, error) {
		res, ferr := f.get(ctx, rawURL, f.maxResourceBytes, isTextResource)
		if ferr != nil {
			f.logger.Debug("resource unavailable", "url", rawURL, "error", ferr)
			return []byte{}, nil
		}
		return res.body, nil
	}, resourceTTL)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}
