// Package targets persists editable KPI targets in a JSON file with cached
// reads, atomic writes, and a pre-save backup.
package targets

import (
	"encoding/json"
	"time"

	"kpidash/pkg/format"
)

// MetricTarget is a per-metric target descriptor used for tooltips and the
// settings page.
type MetricTarget struct {
	Value   float64 `json:"value"`
	Format  string  `json:"format"`
	Display string  `json:"display"`
}

// PersonTarget is a per-person target.
type PersonTarget struct {
	Target     float64 `json:"target"`
	MetricName string  `json:"metric_name"`
	Format     string  `json:"format"`
}

// TargetConfig is the persisted target state. It serializes verbatim to the
// targets file schema, so an export is simply the marshaled struct.
type TargetConfig struct {
	Company       map[string]float64      `json:"company"`
	MetricTargets map[string]MetricTarget `json:"metric_targets"`
	People        map[string]PersonTarget `json:"people"`
	LastUpdated   string                  `json:"last_updated"`
	UpdatedBy     string                  `json:"updated_by"`
}

// Timestamp layout for the audit fields.
const timeLayout = time.RFC3339

// DefaultConfig returns the hardcoded fallback targets used when no targets
// file exists or the existing one cannot be parsed.
func DefaultConfig() TargetConfig {
	revenue := 10_000_000.0
	pipeline := 3.0
	return TargetConfig{
		Company: map[string]float64{
			"revenue_target":         revenue,
			"take_rate_target":       0.45,
			"nrr_target":             1.10,
			"supply_nrr_target":      1.10,
			"customer_count_target":  75,
			"pipeline_target":        pipeline,
			"logo_retention_target":  0.50,
			"time_to_fulfill_target": 60,
		},
		MetricTargets: map[string]MetricTarget{
			"Revenue YTD": {
				Value:   revenue,
				Format:  format.Currency.String(),
				Display: format.Compact(&revenue),
			},
			"Pipeline Coverage": {
				Value:   pipeline,
				Format:  format.Multiplier.String(),
				Display: format.Format(&pipeline, format.Multiplier),
			},
		},
		People: map[string]PersonTarget{},
	}
}

// Clone deep-copies the config so cached state cannot be mutated through a
// returned value.
func (c TargetConfig) Clone() TargetConfig {
	out := c
	out.Company = make(map[string]float64, len(c.Company))
	for k, v := range c.Company {
		out.Company[k] = v
	}
	out.MetricTargets = make(map[string]MetricTarget, len(c.MetricTargets))
	for k, v := range c.MetricTargets {
		out.MetricTargets[k] = v
	}
	out.People = make(map[string]PersonTarget, len(c.People))
	for k, v := range c.People {
		out.People[k] = v
	}
	return out
}

// ExportJSON serializes the config to the same JSON schema as the targets
// file, so exports and downloads need no transformation.
func ExportJSON(cfg TargetConfig) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

func (c *TargetConfig) ensureMaps() {
	if c.Company == nil {
		c.Company = map[string]float64{}
	}
	if c.MetricTargets == nil {
		c.MetricTargets = map[string]MetricTarget{}
	}
	if c.People == nil {
		c.People = map[string]PersonTarget{}
	}
}
