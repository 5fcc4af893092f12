// Package metrics merges warehouse actuals, fallback values, and configured
// targets into the records the dashboard renders.
package metrics

import (
	"sort"

	"kpidash/pkg/format"
)

// Direction states whether larger actuals are better for a metric.
type Direction int

const (
	// HigherIsBetter is the default direction.
	HigherIsBetter Direction = iota

	// LowerIsBetter inverts the comparison (e.g. days to fulfill).
	LowerIsBetter
)

// Higher reports the direction as the boolean the classifier takes.
func (d Direction) Higher() bool { return d == HigherIsBetter }

// Spec is the static definition of a metric: direction and format kind are
// fixed per key and never come from a data source. Default target and
// fallback actual fill in when the target store or the warehouse has nothing
// for the key.
type Spec struct {
	Key            string
	Direction      Direction
	Kind           format.Kind
	DefaultTarget  *float64
	FallbackActual *float64
	TargetKey      string
	CoverageKey    string
	Definition     string
}

func f(v float64) *float64 { return &v }

// registry is the single per-key metric registry. Every page reads from
// here instead of re-declaring metric configs inline.
var registry = map[string]Spec{
	"Revenue YTD": {
		Key:            "Revenue YTD",
		Kind:           format.Currency,
		DefaultTarget:  f(10_000_000),
		FallbackActual: f(7_930_000),
		TargetKey:      "revenue_target",
		Definition:     "Total recognized revenue from all sources year-to-date.",
	},
	"Take Rate %": {
		Key:            "Take Rate %",
		Kind:           format.Percent,
		DefaultTarget:  f(0.45),
		FallbackActual: f(0.42),
		TargetKey:      "take_rate_target",
		Definition:     "Percentage of gross value kept as net revenue after payouts.",
	},
	"NRR": {
		Key:            "NRR",
		Kind:           format.Percent,
		DefaultTarget:  f(1.10),
		FallbackActual: f(1.07),
		TargetKey:      "nrr_target",
		Definition:     "Net revenue retention: existing-customer revenue versus the prior period.",
	},
	"Supply NRR": {
		Key:            "Supply NRR",
		Kind:           format.Percent,
		DefaultTarget:  f(1.10),
		FallbackActual: f(0.67),
		TargetKey:      "supply_nrr_target",
		Definition:     "Payout retention for the prior-year supplier cohort.",
	},
	"Pipeline Coverage": {
		Key:            "Pipeline Coverage",
		Kind:           format.Multiplier,
		DefaultTarget:  f(3.0),
		FallbackActual: f(2.8),
		TargetKey:      "pipeline_target",
		Definition:     "Weighted pipeline over remaining quota. 3x or better is healthy.",
	},
	"Logo Retention": {
		Key:            "Logo Retention",
		Kind:           format.Percent,
		DefaultTarget:  f(0.50),
		FallbackActual: f(0.37),
		TargetKey:      "logo_retention_target",
		Definition:     "Share of customers retained year-over-year.",
	},
	"Customer Count": {
		Key:            "Customer Count",
		Kind:           format.Number,
		DefaultTarget:  f(75),
		FallbackActual: f(51),
		TargetKey:      "customer_count_target",
		Definition:     "Active customers with revenue in the current fiscal year.",
	},
	"Time to Fulfill": {
		Key:            "Time to Fulfill",
		Direction:      LowerIsBetter,
		Kind:           format.Days,
		DefaultTarget:  f(60),
		FallbackActual: f(69),
		TargetKey:      "time_to_fulfill_target",
		Definition:     "Median days from contract close until spend reaches the contract value.",
	},
	"Weighted Pipeline Coverage Gap": {
		Key:            "Weighted Pipeline Coverage Gap",
		Direction:      LowerIsBetter,
		Kind:           format.PipelineGap,
		DefaultTarget:  f(0),
		FallbackActual: f(2_500_000),
		CoverageKey:    "Pipeline Coverage",
		Definition:     "Weighted pipeline shortfall against the coverage target. Negative is surplus.",
	},
	"Invoices Overdue": {
		Key:            "Invoices Overdue",
		Direction:      LowerIsBetter,
		Kind:           format.Number,
		DefaultTarget:  f(0),
		FallbackActual: f(4),
		Definition:     "Invoices past payment terms.",
	},
	"Overdue Amount": {
		Key:            "Overdue Amount",
		Direction:      LowerIsBetter,
		Kind:           format.Currency,
		DefaultTarget:  f(0),
		FallbackActual: f(45_000),
		Definition:     "Dollar value of overdue invoices.",
	},
	"Sellable Inventory": {
		Key:        "Sellable Inventory",
		Kind:       format.Number,
		Definition: "Venues and events available for campaigns. Not yet instrumented.",
	},
}

// Lookup returns the spec for a metric key.
func Lookup(key string) (Spec, bool) {
	spec, ok := registry[key]
	return spec, ok
}

// Keys returns every registered metric key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for key := range registry {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
