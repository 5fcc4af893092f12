package testutil

import (
	"testing"

	"kpidash/internal/metrics"
)

func TestFloat(t *testing.T) {
	p := Float(42.5)
	if p == nil || *p != 42.5 {
		t.Errorf("Float(42.5) = %v, expected pointer to 42.5", p)
	}

	// Each call must return an independent pointer.
	a, b := Float(1), Float(1)
	if a == b {
		t.Error("Float() should allocate a fresh pointer per call")
	}
}

func TestFindPerson(t *testing.T) {
	people := []metrics.PersonRecord{
		{Name: "Jack", Department: "CEO / Biz Dev"},
		{Name: "Victoria", Department: "Demand AM"},
		{Name: "Marketing", Department: "Marketing"},
	}

	tests := []struct {
		name        string
		searchName  string
		expectFound bool
	}{
		{name: "Find first person", searchName: "Jack", expectFound: true},
		{name: "Find middle person", searchName: "Victoria", expectFound: true},
		{name: "Find last person", searchName: "Marketing", expectFound: true},
		{name: "Non-existent person", searchName: "Nobody", expectFound: false},
		{name: "Empty name", searchName: "", expectFound: false},
		{name: "Case sensitive", searchName: "victoria", expectFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindPerson(people, tt.searchName)
			if tt.expectFound {
				if result == nil {
					t.Errorf("FindPerson() expected to find %q but got nil", tt.searchName)
					return
				}
				if result.Name != tt.searchName {
					t.Errorf("FindPerson() returned %q, expected %q", result.Name, tt.searchName)
				}
			} else if result != nil {
				t.Errorf("FindPerson() expected nil for %q, got %q", tt.searchName, result.Name)
			}
		})
	}
}

func TestFindPersonReturnsPointerIntoSlice(t *testing.T) {
	people := []metrics.PersonRecord{{Name: "Jack"}}

	found := FindPerson(people, "Jack")
	if found == nil {
		t.Fatal("FindPerson() returned nil")
	}
	if &people[0] != found {
		t.Error("FindPerson() should return a pointer to the original element")
	}
}

func TestFindPersonEmptySlice(t *testing.T) {
	if result := FindPerson(nil, "Anyone"); result != nil {
		t.Errorf("FindPerson() on nil slice should return nil, got %v", result)
	}
}
