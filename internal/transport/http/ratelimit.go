package http

import (
	"time"

	"golang.org/x/time/rate"
)

// newMessageLimiter builds a per-connection limiter for inbound chat
// messages. A non-positive limit disables throttling.
func newMessageLimiter(messagesPerMinute int) *rate.Limiter {
	if messagesPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(
		rate.Every(time.Minute/time.Duration(messagesPerMinute)),
		messagesPerMinute,
	)
}
