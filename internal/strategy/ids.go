package strategy

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"strategy-builder/internal/models"
)

// IDGenerator hands out leg identifiers. Implementations must be safe for
// concurrent use.
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator issues random "leg-<uuid>" identifiers.
type UUIDGenerator struct{}

// NextID returns a new random leg ID.
func (UUIDGenerator) NextID() string {
	return "leg-" + uuid.NewString()
}

// SequentialIDs issues "<prefix>-1", "<prefix>-2", ... The counter belongs to
// the SequentialIDs value, not to the package.
type SequentialIDs struct {
	prefix string
	n      atomic.Int64
}

// NewSequentialIDs creates a counter based generator.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

// NextID returns the next identifier in sequence.
func (s *SequentialIDs) NextID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}

// NewLeg returns a default leg with an ID from ids.
func NewLeg(ids IDGenerator) models.StrategyLeg {
	return models.NewStrategyLeg(ids.NextID())
}
