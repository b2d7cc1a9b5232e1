package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("wrap keeps the cause in the chain", func(t *testing.T) {
		err := Wrap(cause, CodeUnavailable, "your profile could not be saved")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "service_unavailable: your profile could not be saved: connection refused", err.Error())
	})

	t.Run("HasCode walks nested coded errors", func(t *testing.T) {
		inner := New(CodeNotFound, "draft missing")
		outer := Wrap(inner, CodeInvalidState, "cannot finish")
		assert.True(t, HasCode(outer, CodeInvalidState))
		assert.True(t, HasCode(outer, CodeNotFound))
		assert.False(t, HasCode(outer, CodeConflict))
	})

	t.Run("Is only looks at the outermost code", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", Wrap(New(CodeNotFound, "x"), CodeInternal, "y"))
		assert.True(t, Is(err, CodeInternal))
		assert.False(t, Is(err, CodeNotFound))
	})

	t.Run("From extracts through fmt wrapping", func(t *testing.T) {
		de, ok := From(fmt.Errorf("ctx: %w", New(CodeValidation, "step 1 is incomplete")))
		require.True(t, ok)
		assert.Equal(t, CodeValidation, de.Code)
		assert.Equal(t, "step 1 is incomplete", de.Message)

		_, ok = From(cause)
		assert.False(t, ok)
	})
}
