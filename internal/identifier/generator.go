// Package identifier issues the per-recipient unique identifiers printed on offer letters.
package identifier

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/garyjia/offer-letters/internal/metrics"
	"go.uber.org/zap"
)

// Prefix is the fixed leading part of every identifier
const Prefix = "IE-001"

const (
	minNumber = 10000
	maxNumber = 99999
)

// ErrExhausted is returned when no unused identifier was found within the attempt budget
var ErrExhausted = errors.New("could not find an unused identifier")

// Random returns Prefix-<L><NNNNN> with a uniform uppercase letter and a uniform number in [10000, 99999].
// It performs no collision check.
func Random() string {
	return format(rand.IntN(26), rand.IntN(maxNumber-minNumber+1))
}

func format(letter, offset int) string {
	return fmt.Sprintf("%s-%c%d", Prefix, 'A'+rune(letter), minNumber+offset)
}

// Generator issues identifiers that are unique within a batch and unused in the registry
type Generator struct {
	registry    Registry
	maxAttempts int
	random      func() string
	logger      *zap.Logger
}

// NewGenerator creates a Generator. A nil registry only guards against in-batch collisions.
func NewGenerator(registry Registry, maxAttempts int, logger *zap.Logger) *Generator {
	if registry == nil {
		registry = NopRegistry{}
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Generator{
		registry:    registry,
		maxAttempts: maxAttempts,
		random:      Random,
		logger:      logger,
	}
}

// Registry returns the registry the generator checks against
func (g *Generator) Registry() Registry {
	return g.registry
}

// Session tracks the identifiers issued during one batch
type Session struct {
	gen    *Generator
	issued map[string]struct{}
}

// NewSession starts an empty issuance session
func (g *Generator) NewSession() *Session {
	return &Session{gen: g, issued: make(map[string]struct{})}
}

// Next returns an identifier not yet issued in this session nor present in the registry
func (s *Session) Next(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= s.gen.maxAttempts; attempt++ {
		id := s.gen.random()

		if _, dup := s.issued[id]; dup {
			s.gen.logger.Debug("Identifier collided within batch", zap.String("unique_id", id), zap.Int("attempt", attempt))
			metrics.IdentifierCollisions.Inc()
			continue
		}

		taken, err := s.gen.registry.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check identifier registry: %w", err)
		}
		if taken {
			s.gen.logger.Debug("Identifier already issued in an earlier batch", zap.String("unique_id", id), zap.Int("attempt", attempt))
			metrics.IdentifierCollisions.Inc()
			continue
		}

		s.issued[id] = struct{}{}
		return id, nil
	}
	return "", fmt.Errorf("%w after %d attempts", ErrExhausted, s.gen.maxAttempts)
}

// Issued returns how many identifiers this session handed out
func (s *Session) Issued() int {
	return len(s.issued)
}
