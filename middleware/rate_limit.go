package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// limitConfig is a fixed-window limit for one endpoint class.
type limitConfig struct {
	MaxRequests int
	WindowSize  time.Duration
	BlockTime   time.Duration
}

type windowState struct {
	count        int
	windowStart  time.Time
	blockedUntil time.Time
}

// RateLimitMiddleware throttles the chatty endpoints (guesses, purchases)
// per user and everything else per IP. State is in-memory only, so limits
// reset on restart and are per-instance. Good enough for a chat bot
// backend; nobody audits these counters.
type RateLimitMiddleware struct {
	context.DefaultService

	configs map[string]limitConfig

	mutex   sync.Mutex
	windows map[string]*windowState
}

const RATE_LIMIT_MIDDLEWARE_SVC = "rate_limit"

func (svc RateLimitMiddleware) Id() string {
	return RATE_LIMIT_MIDDLEWARE_SVC
}

func (svc *RateLimitMiddleware) Start() error {
	svc.windows = make(map[string]*windowState)
	svc.configs = map[string]limitConfig{
		// Guesses arrive at chat speed, one per player per few seconds.
		"guess": {
			MaxRequests: 30,
			WindowSize:  time.Minute,
			BlockTime:   time.Minute * 2,
		},

		// Purchases are rare; rapid fire here is either a bug or abuse.
		"purchase": {
			MaxRequests: 10,
			WindowSize:  time.Minute * 5,
			BlockTime:   time.Minute * 10,
		},

		"api_general": {
			MaxRequests: 600,
			WindowSize:  time.Minute * 10,
			BlockTime:   time.Minute * 30,
		},
	}

	go svc.startCleanupJob()

	return nil
}

// isAllowed applies a fixed-window check for the identity and class,
// returning the remaining allowance and the moment a block lifts.
func (svc *RateLimitMiddleware) isAllowed(identifier, endpointType string) (bool, int, time.Time) {
	config, exists := svc.configs[endpointType]
	if !exists {
		return true, -1, time.Time{}
	}

	now := time.Now()
	key := endpointType + ":" + identifier

	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	state, ok := svc.windows[key]
	if !ok {
		state = &windowState{windowStart: now}
		svc.windows[key] = state
	}

	if now.Before(state.blockedUntil) {
		return false, 0, state.blockedUntil
	}

	if now.Sub(state.windowStart) > config.WindowSize {
		state.count = 0
		state.windowStart = now
	}

	state.count++
	if state.count > config.MaxRequests {
		state.blockedUntil = now.Add(config.BlockTime)
		log.WithFields(log.Fields{
			"identifier": identifier,
			"endpoint":   endpointType,
		}).Warn("Rate limit exceeded")
		return false, 0, state.blockedUntil
	}

	return true, config.MaxRequests - state.count, time.Time{}
}

func (svc *RateLimitMiddleware) limit(endpointType string, identify func(*fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := identify(c)
		if identifier == "" {
			identifier = clientIP(c)
		}

		allowed, remaining, blockedUntil := svc.isAllowed(identifier, endpointType)
		if remaining >= 0 {
			c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		if !allowed {
			retryAfter := strconv.FormatInt(blockedUntil.Unix(), 10)
			c.Set("Retry-After", retryAfter)
			return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Rate limit exceeded",
				"message":     "Too many requests, slow down",
				"retry_after": retryAfter,
			})
		}

		return c.Next()
	}
}

// GuessRateLimit throttles letter guesses per user.
func (svc *RateLimitMiddleware) GuessRateLimit() fiber.Handler {
	return svc.limit("guess", userIDFromBody)
}

// PurchaseRateLimit throttles shop purchases per user.
func (svc *RateLimitMiddleware) PurchaseRateLimit() fiber.Handler {
	return svc.limit("purchase", userIDFromBody)
}

// IPRateLimit is the general per-IP backstop for the whole API.
func (svc *RateLimitMiddleware) IPRateLimit() fiber.Handler {
	return svc.limit("api_general", clientIP)
}

func userIDFromBody(c *fiber.Ctx) string {
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return ""
	}
	return body.UserID
}

func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}

// startCleanupJob drops idle window entries so the map doesn't grow
// unbounded over weeks of uptime.
func (svc *RateLimitMiddleware) startCleanupJob() {
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		cutoff := time.Now().Add(-2 * time.Hour)

		svc.mutex.Lock()
		for key, state := range svc.windows {
			if state.windowStart.Before(cutoff) && state.blockedUntil.Before(time.Now()) {
				delete(svc.windows, key)
			}
		}
		svc.mutex.Unlock()
	}
}
