// Package constants provides shared constants for the KPI dashboard.
package constants

import "time"

// Status thresholds applied to the actual-versus-target ratio.
const (
	// ThresholdOnTrack is the ratio at or above which a metric is on track
	ThresholdOnTrack = 1.0

	// ThresholdAtRisk is the ratio at or above which a metric is at risk
	// rather than off track
	ThresholdAtRisk = 0.85
)

// Target store constants
const (
	// DefaultTargetsFile is the default targets file name
	DefaultTargetsFile = "targets.json"

	// BackupSuffix is appended to the targets file path to form the
	// pre-save snapshot path
	BackupSuffix = ".bak"

	// DefaultTargetsCacheTTL bounds how long a loaded target config is
	// served without re-reading the backing file
	DefaultTargetsCacheTTL = 5 * time.Second
)

// Warehouse source constants
const (
	// DefaultWarehouseCacheTTL bounds how long a fetched batch of actuals
	// is reused before the warehouse is queried again
	DefaultWarehouseCacheTTL = 60 * time.Second

	// DefaultWarehouseQueryTimeout bounds a single warehouse query
	DefaultWarehouseQueryTimeout = 10 * time.Second

	// WarehouseBatchCacheSize is the number of distinct key sets the
	// cached source retains
	WarehouseBatchCacheSize = 32
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"
)
