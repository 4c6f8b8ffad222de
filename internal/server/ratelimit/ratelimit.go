package ratelimit

import (
	"sync"
	"time"
)

// bucketIdleTTL is how long an unused bucket survives cleanup
const bucketIdleTTL = time.Hour

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

type bucketEntry struct {
	bucket     *tokenBucket
	lastAccess time.Time
}

// Limiter manages rate limiting for multiple clients using token buckets.
// Buckets are keyed by client, endpoint, and method.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucketEntry
	config  *Config
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    defaultLimit,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucketEntry),
		config:  config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.stop = make(chan struct{})
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID, endpoint, method string) (bool, Info) {
	switch {
	case !l.config.Enabled, l.config.Whitelist[clientID]:
		return true, Info{Allowed: true}
	case l.config.Blacklist[clientID]:
		return false, Info{}
	}

	rule := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if rule == nil {
		rule = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	bucket := l.bucketFor(clientID+":"+endpoint+":"+method, rule)
	allowed, remaining, resetTime := bucket.take()

	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetTime: resetTime,
	}
	if !allowed {
		info.RetryAfter = bucket.nextToken()
	}
	return allowed, info
}

func (l *Limiter) bucketFor(key string, rule *EndpointConfig) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.buckets[key]
	if !ok {
		capacity := rule.Burst
		if capacity <= 0 {
			capacity = rule.Limit
		}
		entry = &bucketEntry{bucket: newTokenBucket(capacity, float64(rule.Limit)/rule.Window.Seconds())}
		l.buckets[key] = entry
	}
	entry.lastAccess = time.Now()
	return entry.bucket
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets(time.Now().Add(-bucketIdleTTL))
		case <-l.stop:
			return
		}
	}
}

// cleanupBuckets drops buckets last used before cutoff
func (l *Limiter) cleanupBuckets(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entry := range l.buckets {
		if entry.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	if l.stop == nil {
		return
	}
	l.once.Do(func() { close(l.stop) })
}
