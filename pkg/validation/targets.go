package validation

import (
	"fmt"
	"sort"

	"kpidash/internal/targets"
	"kpidash/pkg/format"
)

// ValidateTargets inspects a target configuration and returns human-readable
// warnings. Nothing here blocks a save; targets are operator-owned data and
// the classifier is total, so odd values degrade to status tiers rather than
// errors.
func ValidateTargets(cfg targets.TargetConfig) []string {
	var warnings []string

	for _, key := range sortedKeys(cfg.Company) {
		if cfg.Company[key] < 0 {
			warnings = append(warnings,
				fmt.Sprintf("company target %q is negative (%v)", key, cfg.Company[key]))
		}
	}

	for _, key := range sortedMetricKeys(cfg.MetricTargets) {
		mt := cfg.MetricTargets[key]
		if _, err := format.ParseKind(mt.Format); err != nil {
			warnings = append(warnings,
				fmt.Sprintf("metric target %q has unknown format %q", key, mt.Format))
		}
	}

	for _, name := range sortedPeopleKeys(cfg.People) {
		person := cfg.People[name]
		if person.MetricName == "" {
			warnings = append(warnings,
				fmt.Sprintf("person target %q has no metric name", name))
		}
		if person.Target < 0 {
			warnings = append(warnings,
				fmt.Sprintf("person target %q is negative (%v)", name, person.Target))
		}
	}

	return warnings
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedMetricKeys(m map[string]targets.MetricTarget) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedPeopleKeys(m map[string]targets.PersonTarget) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
