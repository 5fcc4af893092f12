package targets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"kpidash/pkg/cache"
	"kpidash/pkg/constants"
)

// Store is a file-backed target store. Reads go through a short-TTL cache;
// writes back up the prior file, write to a temp file in the same directory,
// and rename it into place so the canonical path is never half-written.
//
// There is no cross-process locking. Concurrent writers race on the final
// rename and the last one wins, which is acceptable for a settings form
// driven by a single operator.
type Store struct {
	path       string
	backupPath string
	cache      *cache.Cache[TargetConfig]
	logger     *zap.Logger
	now        func() time.Time

	// Seams for failure injection in tests.
	encode func(TargetConfig) ([]byte, error)
	rename func(oldpath, newpath string) error
}

// NewStore returns a store backed by the given file path. A zero ttl selects
// the default.
func NewStore(path string, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl == 0 {
		ttl = constants.DefaultTargetsCacheTTL
	}
	return &Store{
		path:       path,
		backupPath: path + constants.BackupSuffix,
		cache:      cache.New[TargetConfig](ttl),
		logger:     logger,
		now:        time.Now,
		encode: func(cfg TargetConfig) ([]byte, error) {
			return json.MarshalIndent(cfg, "", "  ")
		},
		rename: os.Rename,
	}
}

// Path returns the canonical targets file path.
func (s *Store) Path() string { return s.path }

// Load returns the current target configuration. It never fails: a missing
// or corrupt file is logged and replaced by the hardcoded defaults, since
// configuration corruption must never take down the dashboard.
func (s *Store) Load() TargetConfig {
	if cfg, ok := s.cache.Get(); ok {
		return cfg.Clone()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("targets file not found, using defaults",
				zap.String("op", "targets.Load"),
				zap.String("path", s.path),
			)
		} else {
			s.logger.Error("failed to read targets file",
				zap.String("op", "targets.Load"),
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return DefaultConfig()
	}

	var cfg TargetConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Error("invalid JSON in targets file, using defaults",
			zap.String("op", "targets.Load"),
			zap.String("path", s.path),
			zap.Error(err),
		)
		return DefaultConfig()
	}
	cfg.ensureMaps()

	s.cache.Set(cfg.Clone())
	s.logger.Debug("loaded targets",
		zap.String("op", "targets.Load"),
		zap.String("path", s.path),
	)
	return cfg
}

// Save persists the configuration atomically, stamping the audit fields and
// invalidating the read cache so the next Load observes the new value
// immediately. A failed backup copy is logged but does not abort the save;
// a failed write or rename removes the temp file and is returned to the
// caller, since a silently dropped settings change would be worse than an
// error.
func (s *Store) Save(cfg TargetConfig, updatedBy string) error {
	if err := s.backupCurrent(); err != nil {
		s.logger.Warn("failed to create targets backup",
			zap.String("op", "targets.Save"),
			zap.Error(err),
		)
	}

	cfg.ensureMaps()
	cfg.LastUpdated = s.now().Format(timeLayout)
	cfg.UpdatedBy = updatedBy

	data, err := s.encode(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode targets: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".targets_*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp targets file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write targets: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to flush targets: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set targets file mode: %w", err)
	}

	if err := s.rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace targets file: %w", err)
	}

	s.cache.Invalidate()
	s.logger.Info("saved targets",
		zap.String("op", "targets.Save"),
		zap.String("updatedBy", updatedBy),
	)
	return nil
}

func (s *Store) backupCurrent() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.WriteFile(s.backupPath, data, 0o644)
}

// RestoreFromBackup copies the backup file over the live targets file and
// reports whether a backup existed to restore.
func (s *Store) RestoreFromBackup() bool {
	data, err := os.ReadFile(s.backupPath)
	if err != nil {
		s.logger.Warn("no targets backup to restore",
			zap.String("op", "targets.RestoreFromBackup"),
			zap.String("path", s.backupPath),
		)
		return false
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("failed to restore targets from backup",
			zap.String("op", "targets.RestoreFromBackup"),
			zap.Error(err),
		)
		return false
	}
	s.cache.Invalidate()
	s.logger.Info("restored targets from backup",
		zap.String("op", "targets.RestoreFromBackup"),
	)
	return true
}

// InvalidateCache forces the next Load to re-read the backing file.
func (s *Store) InvalidateCache() {
	s.cache.Invalidate()
}

// CompanyTarget returns a company target value, or false when none is
// configured under the key.
func (s *Store) CompanyTarget(key string) (float64, bool) {
	v, ok := s.Load().Company[key]
	return v, ok
}

// PersonTarget returns a person's target, or false when none is configured.
func (s *Store) PersonTarget(name string) (PersonTarget, bool) {
	t, ok := s.Load().People[name]
	return t, ok
}

// MetricTarget returns a metric target descriptor, or false when none is
// configured.
func (s *Store) MetricTarget(key string) (MetricTarget, bool) {
	t, ok := s.Load().MetricTargets[key]
	return t, ok
}

// UpdateCompanyTarget sets a single company target and persists.
func (s *Store) UpdateCompanyTarget(key string, value float64, updatedBy string) error {
	cfg := s.Load()
	cfg.ensureMaps()
	cfg.Company[key] = value
	return s.Save(cfg, updatedBy)
}

// UpdatePersonTarget sets a single person target and persists, keeping the
// person's metric name and format when already configured.
func (s *Store) UpdatePersonTarget(name string, value float64, updatedBy string) error {
	cfg := s.Load()
	cfg.ensureMaps()
	person := cfg.People[name]
	person.Target = value
	cfg.People[name] = person
	return s.Save(cfg, updatedBy)
}
