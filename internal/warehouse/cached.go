package warehouse

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"kpidash/pkg/constants"
)

// CachedSource wraps a Source with a TTL cache keyed by the requested key
// set. Warehouse queries are expensive, so batches are reused for the TTL
// window; batches served from cache are marked FromCache so the data source
// status can report "live (cached)".
type CachedSource struct {
	inner  Source
	cache  *expirable.LRU[string, map[string]float64]
	logger *zap.Logger
}

// NewCachedSource wraps inner with a batch cache. A zero ttl selects the
// default warehouse cache TTL.
func NewCachedSource(inner Source, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl == 0 {
		ttl = constants.DefaultWarehouseCacheTTL
	}
	return &CachedSource{
		inner:  inner,
		cache:  expirable.NewLRU[string, map[string]float64](constants.WarehouseBatchCacheSize, nil, ttl),
		logger: logger,
	}
}

// Fetch serves a cached batch when one is fresh for the same key set, and
// otherwise queries the inner source. Failed fetches are never cached.
func (c *CachedSource) Fetch(ctx context.Context, keys []string) (Batch, error) {
	cacheKey := batchKey(keys)
	if values, ok := c.cache.Get(cacheKey); ok {
		c.logger.Debug("serving cached warehouse batch",
			zap.String("op", "warehouse.CachedSource.Fetch"),
			zap.Int("keys", len(keys)),
		)
		return Batch{Values: values, FromCache: true}, nil
	}

	batch, err := c.inner.Fetch(ctx, keys)
	if err != nil {
		return Batch{}, err
	}
	c.cache.Add(cacheKey, batch.Values)
	return batch, nil
}

// Invalidate drops all cached batches.
func (c *CachedSource) Invalidate() {
	c.cache.Purge()
}

func batchKey(keys []string) string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}
