package wallet

import "time"

// Paging bounds for ledger listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// CacheTTL bounds how stale a cached wallet can get if an
// invalidation is lost.
const CacheTTL = 5 * time.Minute
