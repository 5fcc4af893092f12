package status

import (
	"testing"
)

func f(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		actual         *float64
		target         *float64
		higherIsBetter bool
		expectedTier   Tier
		expectedLabel  string
	}{
		{
			name:           "On track at exactly target",
			actual:         f(100),
			target:         f(100),
			higherIsBetter: true,
			expectedTier:   OnTrack,
			expectedLabel:  "On Track",
		},
		{
			name:           "On track above target",
			actual:         f(150),
			target:         f(100),
			higherIsBetter: true,
			expectedTier:   OnTrack,
			expectedLabel:  "On Track",
		},
		{
			name:           "At risk at exactly 85 percent",
			actual:         f(85),
			target:         f(100),
			higherIsBetter: true,
			expectedTier:   AtRisk,
			expectedLabel:  "At Risk",
		},
		{
			name:           "Off track just below 85 percent",
			actual:         f(84.9999),
			target:         f(100),
			higherIsBetter: true,
			expectedTier:   OffTrack,
			expectedLabel:  "Off Track",
		},
		{
			name:           "No data regardless of target",
			actual:         nil,
			target:         f(100),
			higherIsBetter: true,
			expectedTier:   Neutral,
			expectedLabel:  "No Data",
		},
		{
			name:           "No data takes precedence over no target",
			actual:         nil,
			target:         nil,
			higherIsBetter: false,
			expectedTier:   Neutral,
			expectedLabel:  "No Data",
		},
		{
			name:           "No target configured",
			actual:         f(50),
			target:         nil,
			higherIsBetter: true,
			expectedTier:   Neutral,
			expectedLabel:  "No Target",
		},
		{
			name:           "Zero target lower is better met at zero",
			actual:         f(0),
			target:         f(0),
			higherIsBetter: false,
			expectedTier:   OnTrack,
			expectedLabel:  "On Track",
		},
		{
			name:           "Zero target lower is better met below zero",
			actual:         f(-250_000),
			target:         f(0),
			higherIsBetter: false,
			expectedTier:   OnTrack,
			expectedLabel:  "On Track",
		},
		{
			name:           "Zero target lower is better exceeded",
			actual:         f(5),
			target:         f(0),
			higherIsBetter: false,
			expectedTier:   OffTrack,
			expectedLabel:  "Off Track",
		},
		{
			name:           "Zero target higher is better is unattainable",
			actual:         f(5),
			target:         f(0),
			higherIsBetter: true,
			expectedTier:   Neutral,
			expectedLabel:  "No Target",
		},
		{
			name:           "Zero actual lower is better beats any positive target",
			actual:         f(0),
			target:         f(100),
			higherIsBetter: false,
			expectedTier:   OnTrack,
			expectedLabel:  "On Track",
		},
		{
			name:           "Lower is better on track",
			actual:         f(55),
			target:         f(60),
			higherIsBetter: false,
			expectedTier:   OnTrack,
			expectedLabel:  "On Track",
		},
		{
			name:           "Lower is better at risk",
			actual:         f(69),
			target:         f(60),
			higherIsBetter: false,
			expectedTier:   AtRisk,
			expectedLabel:  "At Risk",
		},
		{
			name:           "Lower is better off track",
			actual:         f(120),
			target:         f(60),
			higherIsBetter: false,
			expectedTier:   OffTrack,
			expectedLabel:  "Off Track",
		},
		{
			name:           "Negative actual against positive target",
			actual:         f(-10),
			target:         f(100),
			higherIsBetter: true,
			expectedTier:   OffTrack,
			expectedLabel:  "Off Track",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.actual, tt.target, tt.higherIsBetter)
			if result.Tier != tt.expectedTier {
				t.Errorf("Classify() tier = %v, expected %v", result.Tier, tt.expectedTier)
			}
			if result.Label != tt.expectedLabel {
				t.Errorf("Classify() label = %s, expected %s", result.Label, tt.expectedLabel)
			}
		})
	}
}

// TestClassifyTotality sweeps a grid of finite values in both directions and
// verifies the classifier always produces one of the four tiers.
func TestClassifyTotality(t *testing.T) {
	values := []float64{-1e12, -1000, -0.85, -0.0001, 0, 0.0001, 0.85, 1, 1000, 1e12}

	inputs := []*float64{nil}
	for i := range values {
		inputs = append(inputs, &values[i])
	}

	for _, actual := range inputs {
		for _, target := range inputs {
			for _, higher := range []bool{true, false} {
				result := Classify(actual, target, higher)
				switch result.Tier {
				case OnTrack, AtRisk, OffTrack, Neutral:
				default:
					t.Fatalf("Classify(%v, %v, %v) returned unknown tier %v",
						actual, target, higher, result.Tier)
				}
				if result.Label == "" {
					t.Fatalf("Classify(%v, %v, %v) returned empty label", actual, target, higher)
				}
			}
		}
	}
}

func TestClassifyThresholdBoundary(t *testing.T) {
	target := 200.0

	tests := []struct {
		name     string
		factor   float64
		expected Tier
	}{
		{name: "Exactly on track threshold", factor: 1.0, expected: OnTrack},
		{name: "Exactly at risk threshold", factor: 0.85, expected: AtRisk},
		{name: "Just below at risk threshold", factor: 0.849999, expected: OffTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := tt.factor * target
			result := Classify(&actual, &target, true)
			if result.Tier != tt.expected {
				t.Errorf("Classify(%v, %v, true) tier = %v, expected %v",
					actual, target, result.Tier, tt.expected)
			}
		})
	}
}

func TestTierStrings(t *testing.T) {
	tests := []struct {
		tier          Tier
		expectedName  string
		expectedClass string
	}{
		{OnTrack, "on_track", "success"},
		{AtRisk, "at_risk", "warning"},
		{OffTrack, "off_track", "danger"},
		{Neutral, "neutral", "neutral"},
	}

	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.expectedName {
			t.Errorf("Tier(%d).String() = %s, expected %s", tt.tier, got, tt.expectedName)
		}
		if got := tt.tier.Class(); got != tt.expectedClass {
			t.Errorf("Tier(%d).Class() = %s, expected %s", tt.tier, got, tt.expectedClass)
		}
	}
}
