package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"product type", NewProductTypeValidationError("MIS", "POSITIONAL", "", MISNotAllowedMessage), ErrProductTypeConflict},
		{"strategy", NewStrategyValidationError([]string{"Index is required"}, nil), ErrInvalidStrategy},
		{"field", NewValidationError("id", "", "strategy ID is required"), ErrInputValidation},
		{"api", NewAPIError("GET", "/strategies/x", 404, "not found", ErrStrategyNotFound), ErrStrategyNotFound},
		{"wrapped", Wrapf(NewValidationError("basket", "", "required"), "push %s", "a.json"), ErrInputValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Is(tt.err, tt.target))
			assert.True(t, Is(fmt.Errorf("outer: %w", tt.err), tt.target))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := NewStrategyValidationError([]string{"Strategy name is required", "Index is required"}, []string{"w"})
	assert.Equal(t, "Validation failed: Strategy name is required, Index is required", err.Error())

	pt := NewProductTypeValidationError("MIS", "INTRADAY", "NEXT_DAY_BTST", MISNotAllowedMessage)
	assert.Equal(t, "product type validation failed: "+MISNotAllowedMessage, pt.Error())

	api := NewAPIError("PUT", "/strategies/1", 503, "busy", nil)
	assert.Equal(t, "api error [PUT /strategies/1] 503: busy", api.Error())
}

func TestAs(t *testing.T) {
	var verr *StrategyValidationError
	err := Wrap(NewStrategyValidationError([]string{"e"}, []string{"w"}), "creating payload")
	assert.True(t, As(err, &verr))
	assert.Equal(t, []string{"w"}, verr.Warnings)

	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}
