package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedUsers triggers pruning of idle limiters.
const maxTrackedUsers = 10_000

type userEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userLimiter holds one token bucket per user.
type userLimiter struct {
	mu      sync.Mutex
	users   map[int64]*userEntry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

// newUserLimiter allows perMinute requests per user per minute.
func newUserLimiter(perMinute int) *userLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &userLimiter{
		users:   make(map[int64]*userEntry),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
}

// Allow reports whether userID may run another analysis now.
func (l *userLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.users[userID]
	if !ok {
		if len(l.users) >= maxTrackedUsers {
			l.prune(now)
		}
		e = &userEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.users[userID] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

func (l *userLimiter) prune(now time.Time) {
	for id, e := range l.users {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.users, id)
		}
	}
}
