// Package format renders metric values as display strings. Formatting is
// fixed English/US style; the dashboard front end receives pre-formatted
// strings and never formats numbers itself.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is rendered when a value is absent.
const Placeholder = "—"

const (
	million  = 1_000_000
	thousand = 1_000
)

// Kind selects how a metric value is rendered.
type Kind int

const (
	// Currency renders dollar amounts ($1.50M, $500K, $100).
	Currency Kind = iota

	// Percent renders a decimal fraction as a whole percentage (45%).
	Percent

	// Multiplier renders with one decimal and an x suffix (3.0x).
	Multiplier

	// Number renders a thousands-grouped integer (1,234).
	Number

	// Days renders an integer day count (5 days).
	Days

	// Hours renders with one decimal and an hrs suffix (16.5hrs).
	Hours

	// PipelineGap renders a pipeline gap in millions; see GapWithCoverage
	// for the composite form with the coverage ratio.
	PipelineGap
)

var kindNames = map[Kind]string{
	Currency:    "currency",
	Percent:     "percent",
	Multiplier:  "multiplier",
	Number:      "number",
	Days:        "days",
	Hours:       "hours",
	PipelineGap: "pipeline_gap",
}

// String returns the wire name of the kind, as stored in target descriptors.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "number"
}

// ParseKind maps a wire name back to a Kind.
func ParseKind(name string) (Kind, error) {
	for kind, n := range kindNames {
		if n == name {
			return kind, nil
		}
	}
	return Number, fmt.Errorf("unknown format kind %q", name)
}

var printer = message.NewPrinter(language.English)

// Format renders a metric value for display. A nil value renders as the
// em-dash placeholder; this function never fails.
func Format(value *float64, kind Kind) string {
	if value == nil {
		return Placeholder
	}
	v := *value

	switch kind {
	case Currency:
		switch {
		case v >= million:
			return fmt.Sprintf("$%.2fM", v/million)
		case v >= thousand:
			return fmt.Sprintf("$%.0fK", v/thousand)
		default:
			return fmt.Sprintf("$%.0f", v)
		}
	case Percent:
		return fmt.Sprintf("%.0f%%", v*100)
	case Multiplier:
		return fmt.Sprintf("%.1fx", v)
	case Number:
		return printer.Sprintf("%.0f", v)
	case Days:
		return fmt.Sprintf("%.0f days", v)
	case Hours:
		return fmt.Sprintf("%.1fhrs", v)
	case PipelineGap:
		return fmt.Sprintf("$%.1fM", math.Abs(v)/million)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// GapWithCoverage renders the pipeline gap composite: the absolute gap in
// millions plus the coverage ratio in parentheses, e.g. "$4.2M (3.8x)".
func GapWithCoverage(gap, coverage float64) string {
	return fmt.Sprintf("$%.1fM (%.1fx)", math.Abs(gap)/million, coverage)
}

// Compact renders a currency value in compact form (e.g. $7.93M), used for
// target display strings in settings and exports.
func Compact(value *float64) string {
	if value == nil {
		return Placeholder
	}
	v := *value
	switch {
	case v >= million:
		return fmt.Sprintf("$%.1fM", v/million)
	case v >= thousand:
		return fmt.Sprintf("$%.0fK", v/thousand)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// Display renders a target value for tooltips and settings, matching Format
// for most kinds but using whole hours and the compact currency form.
func Display(value *float64, kind Kind) string {
	if value == nil {
		return Placeholder
	}
	switch kind {
	case Currency:
		return Compact(value)
	case Hours:
		return fmt.Sprintf("%.0f hrs", *value)
	default:
		return Format(value, kind)
	}
}
