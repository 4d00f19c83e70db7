package provider

import (
	"net/http"
	"strconv"
	"time"
)

// epochFloor separates relative "seconds until reset" values from absolute
// Unix timestamps. Anything below it is treated as relative.
const epochFloor = 1_000_000_000

// ParseRateLimit extracts rate-limit headers of the common
// "<prefix>-limit" / "<prefix>-remaining" / "<prefix>-reset" family.
// Returns nil when the headers are absent or unparseable. Reset values are
// normalized to an absolute Unix timestamp: providers disagree on whether
// the header holds an epoch or a countdown.
func ParseRateLimit(h http.Header, prefix string) *RateLimitInfo {
	limit, err1 := strconv.Atoi(headerOrZero(h, prefix+"-limit"))
	remaining, err2 := strconv.Atoi(headerOrZero(h, prefix+"-remaining"))
	reset, err3 := strconv.ParseInt(headerOrZero(h, prefix+"-reset"), 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	if limit == 0 && remaining == 0 {
		return nil
	}
	if reset < epochFloor {
		reset = time.Now().Unix() + reset
	}
	return &RateLimitInfo{Limit: limit, Remaining: remaining, ResetTS: reset}
}

func headerOrZero(h http.Header, name string) string {
	if v := h.Get(name); v != "" {
		return v
	}
	return "0"
}
