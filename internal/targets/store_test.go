package targets

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "targets.json"), ttl, zap.NewNop())
}

func sampleConfig() TargetConfig {
	return TargetConfig{
		Company: map[string]float64{
			"revenue_target":   12_000_000,
			"take_rate_target": 0.50,
		},
		MetricTargets: map[string]MetricTarget{
			"Revenue YTD": {Value: 12_000_000, Format: "currency", Display: "$12.0M"},
		},
		People: map[string]PersonTarget{
			"Victoria": {Target: 55, MetricName: "Days to Fulfill", Format: "days"},
		},
	}
}

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	store := newTestStore(t, time.Hour)

	cfg := store.Load()

	if cfg.Company["revenue_target"] != 10_000_000 {
		t.Errorf("default revenue_target = %v, expected 10000000", cfg.Company["revenue_target"])
	}
	if cfg.Company["pipeline_target"] != 3.0 {
		t.Errorf("default pipeline_target = %v, expected 3.0", cfg.Company["pipeline_target"])
	}
	if cfg.People == nil {
		t.Error("expected defaults to have a non-nil people map")
	}
}

func TestLoadReturnsDefaultsOnCorruptFile(t *testing.T) {
	store := newTestStore(t, time.Hour)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	cfg := store.Load()

	if cfg.Company["revenue_target"] != 10_000_000 {
		t.Errorf("corrupt file should yield defaults, got revenue_target = %v", cfg.Company["revenue_target"])
	}
}

func TestSaveThenLoadAfterRestart(t *testing.T) {
	store := newTestStore(t, time.Hour)

	if err := store.Save(sampleConfig(), "alice"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// A fresh store on the same path simulates a process restart with an
	// empty cache.
	restarted := NewStore(store.Path(), time.Hour, zap.NewNop())
	cfg := restarted.Load()

	if cfg.UpdatedBy != "alice" {
		t.Errorf("UpdatedBy = %s, expected alice", cfg.UpdatedBy)
	}
	if cfg.LastUpdated == "" {
		t.Error("expected LastUpdated to be stamped")
	}
	if _, err := time.Parse(time.RFC3339, cfg.LastUpdated); err != nil {
		t.Errorf("LastUpdated %q is not RFC3339: %v", cfg.LastUpdated, err)
	}
	if cfg.Company["revenue_target"] != 12_000_000 {
		t.Errorf("revenue_target = %v, expected 12000000", cfg.Company["revenue_target"])
	}
	if cfg.People["Victoria"].Target != 55 {
		t.Errorf("Victoria target = %v, expected 55", cfg.People["Victoria"].Target)
	}
}

func TestSaveWritesBackupOfPriorState(t *testing.T) {
	store := newTestStore(t, time.Hour)

	first := sampleConfig()
	if err := store.Save(first, "alice"); err != nil {
		t.Fatalf("first Save() failed: %v", err)
	}

	second := sampleConfig()
	second.Company["revenue_target"] = 15_000_000
	if err := store.Save(second, "bob"); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	data, err := os.ReadFile(store.Path() + ".bak")
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	var backup TargetConfig
	if err := json.Unmarshal(data, &backup); err != nil {
		t.Fatalf("backup is not valid JSON: %v", err)
	}
	if backup.Company["revenue_target"] != 12_000_000 {
		t.Errorf("backup revenue_target = %v, expected the pre-save value 12000000",
			backup.Company["revenue_target"])
	}
}

func TestRestoreFromBackup(t *testing.T) {
	store := newTestStore(t, time.Hour)

	if store.RestoreFromBackup() {
		t.Fatal("RestoreFromBackup() with no backup should return false")
	}

	if err := store.Save(sampleConfig(), "alice"); err != nil {
		t.Fatalf("first Save() failed: %v", err)
	}
	second := sampleConfig()
	second.Company["revenue_target"] = 1
	if err := store.Save(second, "mallory"); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	if !store.RestoreFromBackup() {
		t.Fatal("RestoreFromBackup() should succeed once a backup exists")
	}

	cfg := store.Load()
	if cfg.Company["revenue_target"] != 12_000_000 {
		t.Errorf("restored revenue_target = %v, expected 12000000", cfg.Company["revenue_target"])
	}
	if cfg.UpdatedBy != "alice" {
		t.Errorf("restored UpdatedBy = %s, expected alice", cfg.UpdatedBy)
	}
}

func TestSaveFailureLeavesPriorConfigIntact(t *testing.T) {
	store := newTestStore(t, time.Hour)

	if err := store.Save(sampleConfig(), "alice"); err != nil {
		t.Fatalf("initial Save() failed: %v", err)
	}

	store.encode = func(TargetConfig) ([]byte, error) {
		return nil, errors.New("injected encode failure")
	}

	bad := sampleConfig()
	bad.Company["revenue_target"] = 999
	if err := store.Save(bad, "bob"); err == nil {
		t.Fatal("expected Save() to surface the injected failure")
	}

	store.InvalidateCache()
	cfg := store.Load()
	if cfg.Company["revenue_target"] != 12_000_000 {
		t.Errorf("revenue_target after failed save = %v, expected the pre-save value",
			cfg.Company["revenue_target"])
	}
	if cfg.UpdatedBy != "alice" {
		t.Errorf("UpdatedBy after failed save = %s, expected alice", cfg.UpdatedBy)
	}
}

func TestSaveRenameFailureRemovesTempFile(t *testing.T) {
	store := newTestStore(t, time.Hour)

	if err := store.Save(sampleConfig(), "alice"); err != nil {
		t.Fatalf("initial Save() failed: %v", err)
	}

	store.rename = func(oldpath, newpath string) error {
		return errors.New("injected rename failure")
	}

	if err := store.Save(sampleConfig(), "bob"); err == nil {
		t.Fatal("expected Save() to surface the rename failure")
	}

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(store.Path()), ".targets_*"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(leftovers) != 0 {
		t.Errorf("expected temp files to be removed, found %v", leftovers)
	}

	store.InvalidateCache()
	cfg := store.Load()
	if cfg.UpdatedBy != "alice" {
		t.Errorf("UpdatedBy after failed save = %s, expected alice", cfg.UpdatedBy)
	}
}

func TestLoadServesCacheWithinTTL(t *testing.T) {
	store := newTestStore(t, time.Hour)

	if err := store.Save(sampleConfig(), "alice"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	first := store.Load()

	// Mutating the backing file behind the store's back must not be
	// visible within the TTL window: the cache serves the read.
	tampered := sampleConfig()
	tampered.Company["revenue_target"] = 1
	data, _ := json.Marshal(tampered)
	if err := os.WriteFile(store.Path(), data, 0o644); err != nil {
		t.Fatalf("failed to tamper with file: %v", err)
	}

	second := store.Load()
	if second.Company["revenue_target"] != first.Company["revenue_target"] {
		t.Error("expected cached config within TTL, got a fresh read")
	}

	// An explicit invalidation makes the tampered content visible.
	store.InvalidateCache()
	third := store.Load()
	if third.Company["revenue_target"] != 1 {
		t.Errorf("after invalidation revenue_target = %v, expected 1", third.Company["revenue_target"])
	}
}

func TestSaveInvalidatesCacheImmediately(t *testing.T) {
	store := newTestStore(t, time.Hour)

	if err := store.Save(sampleConfig(), "alice"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	store.Load() // warm the cache

	updated := sampleConfig()
	updated.Company["revenue_target"] = 20_000_000
	if err := store.Save(updated, "bob"); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	cfg := store.Load()
	if cfg.Company["revenue_target"] != 20_000_000 {
		t.Errorf("Load() after Save() = %v, expected the new value despite the TTL",
			cfg.Company["revenue_target"])
	}
}

func TestLoadReturnsIndependentCopies(t *testing.T) {
	store := newTestStore(t, time.Hour)
	if err := store.Save(sampleConfig(), "alice"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	first := store.Load()
	first.Company["revenue_target"] = -1

	second := store.Load()
	if second.Company["revenue_target"] == -1 {
		t.Error("mutating a loaded config must not leak into the cache")
	}
}

func TestUpdateSingleTargets(t *testing.T) {
	store := newTestStore(t, time.Hour)

	if err := store.UpdateCompanyTarget("revenue_target", 11_000_000, "alice"); err != nil {
		t.Fatalf("UpdateCompanyTarget() failed: %v", err)
	}
	if v, ok := store.CompanyTarget("revenue_target"); !ok || v != 11_000_000 {
		t.Errorf("CompanyTarget() = %v, %v, expected 11000000, true", v, ok)
	}

	if err := store.UpdatePersonTarget("Victoria", 50, "alice"); err != nil {
		t.Fatalf("UpdatePersonTarget() failed: %v", err)
	}
	person, ok := store.PersonTarget("Victoria")
	if !ok || person.Target != 50 {
		t.Errorf("PersonTarget() = %v, %v, expected target 50", person, ok)
	}
}
