package constants

import "time"

// Cache hashes are prefixed onto keys by the CacheBuilder.
const (
	UserCacheHash    = "user"
	UserCacheExpiry  = 15 * time.Minute
	OrderCacheHash   = "order"
	OrderCacheExpiry = 10 * time.Minute
)
