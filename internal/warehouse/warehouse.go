// Package warehouse supplies actual metric values from the reporting
// warehouse. The dashboard treats it as a replaceable collaborator: any
// Source that can return per-key numbers works, and a missing key is an
// explicit no-data signal rather than a zero.
package warehouse

import "context"

// Batch is one fetch result. Keys absent from Values had no data in the
// warehouse. FromCache marks batches served by a caching layer without a
// fresh query.
type Batch struct {
	Values    map[string]float64
	FromCache bool
}

// Source returns actual values for the requested metric keys. A failed fetch
// returns an error; the resolution layer decides how to degrade.
type Source interface {
	Fetch(ctx context.Context, keys []string) (Batch, error)
}
