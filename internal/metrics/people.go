package metrics

import (
	"kpidash/internal/status"
	"kpidash/pkg/format"
)

// PersonRecord is one row of the per-person scoreboard.
type PersonRecord struct {
	Name       string
	Department string
	MetricName string
	Actual     *float64
	Target     *float64
	Direction  Direction
	Kind       format.Kind
}

// personSpec is the static base data for a person: everything except the
// target, which the target store may override.
type personSpec struct {
	name          string
	department    string
	metricName    string
	actual        *float64
	defaultTarget float64
	kind          format.Kind
	direction     Direction
}

// peopleRegistry holds the per-person base data. Actuals here are the
// fallback values; a nil actual means the metric is not instrumented yet.
var peopleRegistry = []personSpec{
	{name: "Jack", department: "CEO / Biz Dev", metricName: "Revenue vs Target",
		actual: f(7_930_000), defaultTarget: 10_000_000, kind: format.Currency},
	{name: "Deuce", department: "COO / Ops", metricName: "Take Rate %",
		actual: f(0.49), defaultTarget: 0.50, kind: format.Percent},
	{name: "Ian", department: "Supply", metricName: "New Unique Inventory",
		actual: f(12), defaultTarget: 16, kind: format.Number},
	{name: "Ashton", department: "Supply AM", metricName: "NRR Top Supply Users",
		actual: f(0.95), defaultTarget: 1.10, kind: format.Percent},
	{name: "Andy", department: "Demand Sales", metricName: "NRR",
		actual: f(1.07), defaultTarget: 1.10, kind: format.Percent},
	{name: "Danny", department: "Demand Sales", metricName: "Pipeline Coverage",
		actual: f(2.8), defaultTarget: 3.0, kind: format.Multiplier},
	{name: "Katie", department: "Demand Sales", metricName: "Pipeline Coverage",
		actual: f(3.2), defaultTarget: 3.0, kind: format.Multiplier},
	{name: "Char", department: "Demand AM", metricName: "Contract Spend %",
		actual: f(0.89), defaultTarget: 0.95, kind: format.Percent},
	{name: "Victoria", department: "Demand AM", metricName: "Days to Fulfill",
		actual: f(69), defaultTarget: 60, kind: format.Days, direction: LowerIsBetter},
	{name: "Claire", department: "Demand AM", metricName: "NPS Score",
		actual: f(0.71), defaultTarget: 0.75, kind: format.Percent},
	{name: "Marketing", department: "Marketing", metricName: "Mktg-Influenced Pipeline",
		actual: f(2_400_000), defaultTarget: 0, kind: format.Currency},
	{name: "VP Engineering", department: "Engineering", metricName: "Features Fully Scoped",
		actual: nil, defaultTarget: 5, kind: format.Number},
}

// People builds the person scoreboard, pulling each person's target from the
// store and falling back to the registry default when none is configured.
func (r *Resolver) People() []PersonRecord {
	cfg := r.store.Load()

	records := make([]PersonRecord, 0, len(peopleRegistry))
	for _, p := range peopleRegistry {
		target := p.defaultTarget
		if configured, ok := cfg.People[p.name]; ok {
			target = configured.Target
		}
		t := target
		records = append(records, PersonRecord{
			Name:       p.name,
			Department: p.department,
			MetricName: p.metricName,
			Actual:     p.actual,
			Target:     &t,
			Direction:  p.direction,
			Kind:       p.kind,
		})
	}
	return records
}

// Status classifies the person record.
func (p PersonRecord) Status() status.Result {
	return status.Classify(p.Actual, p.Target, p.Direction.Higher())
}
