package request

import (
	"github.com/nguyenvanvutlv/resolver/internal/config"
	"golang.org/x/time/rate"
)

// NewStoreLimiter returns the outbound limiter shared by all requests made to
// one store, regardless of the user.
func NewStoreLimiter() *rate.Limiter {
	if config.HTTP.StoreRateLimit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(config.HTTP.StoreRateLimit), max(config.HTTP.StoreRateBurst, 1))
}
