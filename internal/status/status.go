// Package status classifies actual-versus-target performance into status
// tiers. Classification is total: every finite input pair maps to exactly one
// tier and no branch can divide by zero.
package status

import "kpidash/pkg/constants"

// Tier is the status tier assigned to a metric.
type Tier int

const (
	// OnTrack means the metric meets or beats its target.
	OnTrack Tier = iota

	// AtRisk means the metric is within the warning band below its target.
	AtRisk

	// OffTrack means the metric is below the warning band.
	OffTrack

	// Neutral means the metric cannot be evaluated (no data or no target).
	Neutral
)

// String returns the wire name of the tier.
func (t Tier) String() string {
	switch t {
	case OnTrack:
		return "on_track"
	case AtRisk:
		return "at_risk"
	case OffTrack:
		return "off_track"
	default:
		return "neutral"
	}
}

// Class returns the badge styling class for the tier, matching the classes
// the dashboard front end keys off.
func (t Tier) Class() string {
	switch t {
	case OnTrack:
		return "success"
	case AtRisk:
		return "warning"
	case OffTrack:
		return "danger"
	default:
		return "neutral"
	}
}

// Result is the derived status of a metric. It is computed fresh from an
// (actual, target, direction) triple and never stored.
type Result struct {
	Tier  Tier
	Label string
}

var (
	onTrack  = Result{Tier: OnTrack, Label: "On Track"}
	atRisk   = Result{Tier: AtRisk, Label: "At Risk"}
	offTrack = Result{Tier: OffTrack, Label: "Off Track"}
	noData   = Result{Tier: Neutral, Label: "No Data"}
	noTarget = Result{Tier: Neutral, Label: "No Target"}
)

// Classify returns the status tier for an actual value against a target.
// A nil actual means the source has no data yet; a nil target means no target
// is configured. A zero target is valid for lower-is-better metrics (e.g.
// zero overdue invoices) where meeting or beating zero counts as on track,
// but a higher-is-better metric cannot be evaluated against a zero target.
func Classify(actual, target *float64, higherIsBetter bool) Result {
	if actual == nil {
		return noData
	}
	if target == nil {
		return noTarget
	}

	if *target == 0 {
		if !higherIsBetter {
			if *actual <= 0 {
				return onTrack
			}
			return offTrack
		}
		// Higher is better but target is 0: no meaningful ratio.
		return noTarget
	}

	var ratio float64
	if higherIsBetter {
		ratio = *actual / *target
	} else {
		// Zero actual against a nonzero lower-is-better target is
		// unambiguously good and cannot be expressed as a ratio.
		if *actual == 0 {
			return onTrack
		}
		ratio = *target / *actual
	}

	switch {
	case ratio >= constants.ThresholdOnTrack:
		return onTrack
	case ratio >= constants.ThresholdAtRisk:
		return atRisk
	default:
		return offTrack
	}
}
