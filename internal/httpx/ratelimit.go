package httpx

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepEvery = time.Minute
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one bucket per user. Buckets idle for longer than idleTTL
// are dropped once they have refilled, so a throttled user keeps their state.
type limiterSet struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep time.Time
	limiters  map[int64]*userLimiter
}

func newLimiterSet(rps float64, burst int, idleTTL time.Duration, now func() time.Time) *limiterSet {
	return &limiterSet{
		rps:       rate.Limit(rps),
		burst:     burst,
		idleTTL:   idleTTL,
		now:       now,
		lastSweep: now(),
		limiters:  map[int64]*userLimiter{},
	}
}

func (s *limiterSet) allow(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= limiterSweepEvery {
		s.sweep(now)
	}

	l, ok := s.limiters[userID]
	if !ok {
		l = &userLimiter{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.limiters[userID] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

func (s *limiterSet) sweep(now time.Time) {
	s.lastSweep = now
	for id, l := range s.limiters {
		if now.Sub(l.lastSeen) > s.idleTTL && l.limiter.TokensAt(now) >= float64(s.burst) {
			delete(s.limiters, id)
		}
	}
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimit applies a token bucket per authenticated user. Requests without a
// user share one bucket.
func RateLimit(rps float64, burst int) mux.MiddlewareFunc {
	return rateLimit(newLimiterSet(rps, burst, limiterIdleTTL, time.Now))
}

func rateLimit(limiters *limiterSet) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := UserIdFromContext(r.Context())
			if !limiters.allow(userID) {
				w.Header().Set("Retry-After", "1")
				Error(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
