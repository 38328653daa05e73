package constants

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Redis Cache Configuration
// Pattern: skybook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_SHORT       = 6 * time.Hour    // 6 hours - for user profiles
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for flight details
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for flight listings
	TTL_DYNAMIC_MEDIUM     = 10 * time.Minute // 10 minutes - for admin stats
	TTL_DYNAMIC_SHORT      = 5 * time.Minute  // 5 minutes - for search results
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "skybook"
)

// ================== FLIGHTS MODULE ==================

const (
	CACHE_KEY_FLIGHTS_LIST   = CACHE_PREFIX + ":flights:list:all"
	CACHE_KEY_FLIGHTS_SEARCH = CACHE_PREFIX + ":flights:search" // + :origin:X:destination:Y:date:Z
	CACHE_KEY_FLIGHT_DETAIL  = CACHE_PREFIX + ":flights:detail:" // + flight-id or flight number
)

const (
	TTL_FLIGHTS_LIST   = TTL_SEMI_STATIC_QUICK  // 15 minutes
	TTL_FLIGHTS_SEARCH = TTL_DYNAMIC_SHORT      // 5 minutes
	TTL_FLIGHT_DETAIL  = TTL_SEMI_STATIC_MEDIUM // 2 hours
)

// ================== PROFILES MODULE ==================

const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":profiles:user:" // + user-id
)

const (
	TTL_USER_PROFILE = TTL_STATIC_SHORT // 6 hours
)

// ================== ANALYTICS MODULE ==================

// Stats are derived from the flights table, so they live under the flights
// namespace and are dropped by the same invalidation pattern
const (
	CACHE_KEY_ADMIN_STATS = CACHE_PREFIX + ":flights:stats:admin"
)

const (
	TTL_ADMIN_STATS = TTL_DYNAMIC_MEDIUM // 10 minutes
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_FLIGHT_ALL = CACHE_PREFIX + ":flights:*"
)

// ================== KEY BUILDERS ==================

// BuildFlightDetailKey builds the cache key for one flight, by id or flight number
func BuildFlightDetailKey(ref string) string {
	return CACHE_KEY_FLIGHT_DETAIL + strings.ToUpper(ref)
}

// BuildFlightSearchKey builds the cache key for a search; filters are case-folded
// because matching is case-insensitive. Each filter is query-escaped so a ':'
// inside one cannot shift it into another's segment.
func BuildFlightSearchKey(origin, destination, date string) string {
	return fmt.Sprintf("%s:origin:%s:destination:%s:date:%s",
		CACHE_KEY_FLIGHTS_SEARCH,
		url.QueryEscape(strings.ToLower(strings.TrimSpace(origin))),
		url.QueryEscape(strings.ToLower(strings.TrimSpace(destination))),
		url.QueryEscape(strings.TrimSpace(date)),
	)
}

// BuildUserProfileKey builds the cache key for a profile by owning user id
func BuildUserProfileKey(userID string) string {
	return CACHE_KEY_USER_PROFILE + userID
}
