package metrics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"kpidash/internal/status"
	"kpidash/internal/targets"
	"kpidash/internal/warehouse"
	"kpidash/pkg/format"
)

// Record is the unit the rest of the dashboard consumes. Actual and Target
// are nil when absent; zero is a valid value for both.
type Record struct {
	Key       string
	Actual    *float64
	Target    *float64
	Direction Direction
	Kind      format.Kind
}

// Status classifies the record.
func (r Record) Status() status.Result {
	return status.Classify(r.Actual, r.Target, r.Direction.Higher())
}

// SourceStatus describes where the actuals in a snapshot came from.
type SourceStatus struct {
	IsLive      bool   `json:"is_live"`
	Source      string `json:"source"`
	LastUpdated string `json:"last_updated"`
	Error       string `json:"error,omitempty"`
}

// Source descriptor values.
const (
	SourceLive       = "live"
	SourceLiveCached = "live (cached)"
	SourceFallback   = "fallback"
)

// Snapshot is an immutable view of the resolved metrics for one render
// pass. Callers take a snapshot once instead of re-resolving per field
// access.
type Snapshot struct {
	Records map[string]Record
	Status  SourceStatus
}

// DisplayValue renders a record's actual for display. The pipeline gap
// composite pulls its coverage ratio from the companion coverage metric in
// the same snapshot.
func (s Snapshot) DisplayValue(key string) string {
	rec, ok := s.Records[key]
	if !ok {
		return format.Placeholder
	}
	if rec.Kind == format.PipelineGap && rec.Actual != nil {
		if spec, ok := Lookup(key); ok && spec.CoverageKey != "" {
			if cov := s.Records[spec.CoverageKey]; cov.Actual != nil {
				return format.GapWithCoverage(*rec.Actual, *cov.Actual)
			}
		}
	}
	return format.Format(rec.Actual, rec.Kind)
}

// Resolver merges the live metric-value source, fallback actuals, and the
// target store into metric records.
type Resolver struct {
	source warehouse.Source
	store  *targets.Store
	logger *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	lastStatus SourceStatus
}

// NewResolver builds a resolver. source may be nil when no warehouse is
// configured; every resolve then uses fallback actuals.
func NewResolver(source warehouse.Source, store *targets.Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		source: source,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve returns a record for every requested key. A source failure is a
// designed degraded mode, not an error: the fallback actuals from the
// registry stand in and the source status flips to "fallback". Unregistered
// keys resolve to empty neutral records.
func (r *Resolver) Resolve(ctx context.Context, keys []string) map[string]Record {
	actuals, srcStatus := r.fetchActuals(ctx, keys)
	r.setStatus(srcStatus)

	cfg := r.store.Load()

	records := make(map[string]Record, len(keys))
	for _, key := range keys {
		spec, ok := Lookup(key)
		if !ok {
			r.logger.Warn("unregistered metric requested",
				zap.String("op", "metrics.Resolve"),
				zap.String("key", key),
			)
			records[key] = Record{Key: key, Kind: format.Number}
			continue
		}

		rec := Record{
			Key:       key,
			Direction: spec.Direction,
			Kind:      spec.Kind,
		}

		if v, ok := actuals[key]; ok {
			value := v
			rec.Actual = &value
		} else {
			rec.Actual = spec.FallbackActual
		}

		if spec.TargetKey != "" {
			if v, ok := cfg.Company[spec.TargetKey]; ok {
				value := v
				rec.Target = &value
			}
		}
		if rec.Target == nil {
			rec.Target = spec.DefaultTarget
		}

		records[key] = rec
	}
	return records
}

// Snapshot resolves the requested keys and pairs the records with the
// source status of the fetch that produced them.
func (r *Resolver) Snapshot(ctx context.Context, keys []string) Snapshot {
	records := r.Resolve(ctx, keys)
	return Snapshot{Records: records, Status: r.SourceStatus()}
}

// SourceStatus returns the status descriptor from the most recent resolve.
func (r *Resolver) SourceStatus() SourceStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStatus
}

func (r *Resolver) setStatus(s SourceStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastStatus = s
}

// fetchActuals queries the source when one is configured. The returned map
// is empty on failure so every key falls back; there is no retry here, a
// stale cached batch from the source layer is preferred over a failed fresh
// read.
func (r *Resolver) fetchActuals(ctx context.Context, keys []string) (map[string]float64, SourceStatus) {
	now := r.now().Format(time.RFC3339)

	if r.source == nil {
		return nil, SourceStatus{
			IsLive:      false,
			Source:      SourceFallback,
			LastUpdated: now,
			Error:       "warehouse source disabled",
		}
	}

	batch, err := r.source.Fetch(ctx, keys)
	if err != nil {
		r.logger.Warn("warehouse fetch failed, using fallback actuals",
			zap.String("op", "metrics.Resolve"),
			zap.Error(err),
		)
		return nil, SourceStatus{
			IsLive:      false,
			Source:      SourceFallback,
			LastUpdated: now,
			Error:       err.Error(),
		}
	}

	source := SourceLive
	if batch.FromCache {
		source = SourceLiveCached
	}
	return batch.Values, SourceStatus{
		IsLive:      true,
		Source:      source,
		LastUpdated: now,
	}
}
