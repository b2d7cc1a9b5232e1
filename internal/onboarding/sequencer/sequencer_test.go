package sequencer

import (
	"math/rand"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village/internal/onboarding/models"
)

func position(raw string) *QueryPosition {
	q := url.Values{}
	if raw != "" {
		q.Set(Param, raw)
	}
	return NewQueryPosition(q)
}

func TestDerive(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"3", 3},
		{" 2 ", 2},
		{"-1", 0},
		{"two", 0},
		{"99", 99},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(position(tt.raw)))
		})
	}
}

func TestNewQueryPositionCopies(t *testing.T) {
	q := url.Values{Param: {"1"}}
	p := NewQueryPosition(q)
	p.Set("4")
	assert.Equal(t, "1", q.Get(Param))
	assert.Equal(t, "4", p.Get())
}

func TestTransitions(t *testing.T) {
	t.Run("advance writes back to the position", func(t *testing.T) {
		pos := position("1")
		s := New(pos)
		assert.Equal(t, 2, s.Advance(models.IntentSeeking))
		assert.Equal(t, "2", pos.Get())
		assert.Equal(t, "?step=2", s.Bookmark())
	})

	t.Run("retreat is floored at zero", func(t *testing.T) {
		s := New(position(""))
		assert.Equal(t, 0, s.Retreat(models.IntentProviding))
	})

	t.Run("advance stops at the account step", func(t *testing.T) {
		s := New(position("5"))
		assert.Equal(t, models.SeekingStepAccount, s.Advance(models.IntentSeeking))
	})

	t.Run("without intent only step zero is reachable", func(t *testing.T) {
		s := New(position("0"))
		assert.Equal(t, 0, s.Advance(models.IntentUnset))
	})
}

func TestGuardPinsAfterBranchSwitch(t *testing.T) {
	pos := position("6")
	s := New(pos)
	require.Equal(t, 6, s.Guard(models.IntentProviding))

	// user switches to the shorter seeking branch while on the provider account step
	assert.Equal(t, models.SeekingStepAccount, s.Guard(models.IntentSeeking))
	assert.Equal(t, "5", pos.Get())

	// stale deep link
	assert.Equal(t, models.SeekingStepAccount, New(position("42")).Guard(models.IntentSeeking))
}

func TestNeverPastLastStep(t *testing.T) {
	intents := []models.Intent{models.IntentUnset, models.IntentSeeking, models.IntentProviding}
	rng := rand.New(rand.NewSource(7))
	s := New(position(""))

	for i := 0; i < 2000; i++ {
		intent := intents[rng.Intn(len(intents))]
		var got int
		switch rng.Intn(4) {
		case 0:
			got = s.Advance(intent)
		case 1:
			got = s.Retreat(intent)
		case 2:
			got = s.SetStep(rng.Intn(20)-5, intent)
		default:
			got = s.Guard(intent)
		}
		require.GreaterOrEqual(t, got, 0)
		require.LessOrEqual(t, got, models.LastStep(intent), "intent=%q", intent)
		require.Equal(t, got, s.Current())
	}
}
