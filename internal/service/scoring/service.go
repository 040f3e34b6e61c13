package scoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/janisto/scoring-api/internal/api"
	applog "github.com/janisto/scoring-api/internal/platform/logging"
	"github.com/janisto/scoring-api/internal/platform/metrics"
	"github.com/janisto/scoring-api/internal/store"
)

// AdminScore is returned for every online_score call made by the admin login.
const AdminScore = 42

// DefaultTTL is the score cache expiry used when none is configured.
const DefaultTTL = time.Hour

const cacheKeyPrefix = "uid:"

// ScoreResult is the online_score response.
type ScoreResult struct {
	Score float64 `json:"score" cbor:"score"`
}

// Service runs the supported methods against a store.
type Service struct {
	store  store.Store
	parser *api.Parser
	ttl    time.Duration
}

// NewService creates a Service. A non-positive ttl selects DefaultTTL.
func NewService(s store.Store, parser *api.Parser, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: s, parser: parser, ttl: ttl}
}

// Handle validates args for method and runs it for login.
// Validation failures wrap api.ErrMalformed, api.ErrInvalidPayload or
// api.ErrInsufficientFields; unsupported names return api.ErrUnknownMethod.
func (s *Service) Handle(ctx context.Context, method string, args map[string]any, login string) (any, error) {
	switch method {
	case api.MethodOnlineScore:
		req, err := s.parser.OnlineScore(args)
		if err != nil {
			return nil, err
		}
		return s.Score(ctx, req, login), nil
	case api.MethodClientsInterests:
		req, err := s.parser.ClientsInterests(args)
		if err != nil {
			return nil, err
		}
		return s.Interests(ctx, req, login)
	default:
		return nil, fmt.Errorf("%w: %q", api.ErrUnknownMethod, method)
	}
}

// Score computes the caller's score, serving it from the cache when possible.
// Store failures are logged and never fail the call.
func (s *Service) Score(ctx context.Context, req *api.OnlineScoreRequest, login string) ScoreResult {
	if login == api.AdminLogin {
		return ScoreResult{Score: AdminScore}
	}

	key := CacheKey(req)
	if cached, ok := s.cachedScore(ctx, key); ok {
		return ScoreResult{Score: cached}
	}

	score := Compute(req)
	if err := s.store.Set(ctx, key, strconv.FormatFloat(score, 'f', -1, 64), s.ttl); err != nil {
		metrics.ObserveCacheWriteError()
		applog.LogError(ctx, "score cache write failed", err, slog.String("key", key))
	}
	return ScoreResult{Score: score}
}

// cachedScore reports a cached score for key. Lookup errors and unparsable
// values count as a miss so the score is recomputed.
func (s *Service) cachedScore(ctx context.Context, key string) (float64, bool) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		metrics.ObserveCache(metrics.CacheError)
		applog.LogError(ctx, "score cache read failed", err, slog.String("key", key))
		return 0, false
	}
	if !ok {
		metrics.ObserveCache(metrics.CacheMiss)
		return 0, false
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		metrics.ObserveCache(metrics.CacheError)
		applog.LogWarn(ctx, "score cache value is not a number",
			slog.String("key", key), slog.String("value", raw))
		return 0, false
	}
	metrics.ObserveCache(metrics.CacheHit)
	return score, true
}

// Interests returns the stored interests of every requested client keyed by
// the client id. Store failures are returned to the caller.
func (s *Service) Interests(ctx context.Context, req *api.ClientsInterestsRequest, login string) (map[string][]string, error) {
	if login == api.AdminLogin {
		return map[string][]string{"admin": {"all"}}, nil
	}

	out := make(map[string][]string, len(req.ClientIDs))
	for _, id := range req.ClientIDs {
		key := strconv.FormatInt(id, 10)
		interests, err := s.store.GetList(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("interests of client %s: %w", key, err)
		}
		if interests == nil {
			interests = []string{}
		}
		out[key] = interests
	}
	return out, nil
}

// Compute scores the supplied fields: 1.5 each for phone and email, 1.5 for
// birthday with gender, 0.5 for a non-empty first and last name.
func Compute(req *api.OnlineScoreRequest) float64 {
	score := 0.0
	if nonEmpty(req.Phone) {
		score += 1.5
	}
	if nonEmpty(req.Email) {
		score += 1.5
	}
	if nonEmpty(req.Birthday) && req.Gender != nil {
		score += 1.5
	}
	if nonEmpty(req.FirstName) && nonEmpty(req.LastName) {
		score += 0.5
	}
	return score
}

// CacheKey derives the score cache key from the name, phone and birthday fields.
func CacheKey(req *api.OnlineScoreRequest) string {
	var b strings.Builder
	for _, part := range []*string{req.FirstName, req.LastName, req.Phone, req.Birthday} {
		if part != nil {
			b.WriteString(*part)
		}
	}
	sum := md5.Sum([]byte(b.String()))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
