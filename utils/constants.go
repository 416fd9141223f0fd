// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis identity cache keys (firebase uid -> user id).
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for identity cache entries.
const AuthCacheTTL = time.Hour

// LockPrefix namespaces job-run locks.
const LockPrefix = "lock:"
