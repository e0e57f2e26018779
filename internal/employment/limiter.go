package employment

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// CheckLimiter throttles dry-run checks per graduate. Idle limiters are
// dropped after ttl.
type CheckLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu      sync.Mutex
	byUser  map[string]*userLimiter
	lastGC  time.Time
	nowFunc func() time.Time
}

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewCheckLimiter allows perSec checks per second per user with the given burst.
// A non-positive perSec disables limiting.
func NewCheckLimiter(perSec float64, burst int) *CheckLimiter {
	if burst < 1 {
		burst = 1
	}
	return &CheckLimiter{
		limit:   rate.Limit(perSec),
		burst:   burst,
		ttl:     10 * time.Minute,
		byUser:  make(map[string]*userLimiter),
		nowFunc: time.Now,
	}
}

// Allow reports whether userID may run another check now.
func (l *CheckLimiter) Allow(userID string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if now.Sub(l.lastGC) > l.ttl {
		for id, u := range l.byUser {
			if now.Sub(u.lastSeen) > l.ttl {
				delete(l.byUser, id)
			}
		}
		l.lastGC = now
	}

	u, ok := l.byUser[userID]
	if !ok {
		u = &userLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.byUser[userID] = u
	}
	u.lastSeen = now
	return u.lim.AllowN(now, 1)
}
