package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecisionOrdinal(t *testing.T) {
	tests := []struct {
		decision Decision
		ordinal  int
	}{
		{AutoClose, 0},
		{UpdateOnly, 1},
		{AutoRetry, 2},
		{Escalate, 3},
		{HumanReview, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.decision), func(t *testing.T) {
			assert.Equal(t, tt.ordinal, tt.decision.Ordinal())
		})
	}
}

func TestDecisionOrdinal_UnknownIsMaximal(t *testing.T) {
	assert.Equal(t, 4, Decision("").Ordinal())
	assert.Equal(t, 4, Decision("close_ticket").Ordinal())
	assert.Equal(t, 4, Decision("AUTO_CLOSE").Ordinal())
}

func TestDecisionIsValid(t *testing.T) {
	for _, d := range All() {
		assert.True(t, d.IsValid(), "expected %s to be valid", d)
	}
	assert.False(t, Decision("").IsValid())
	assert.False(t, Decision("retry").IsValid())
}

func TestMoreRestrictive_MonotonicJoin(t *testing.T) {
	all := All()
	for _, a := range all {
		for _, b := range all {
			joined := MoreRestrictive(a, b)
			assert.GreaterOrEqual(t, joined.Ordinal(), a.Ordinal())
			assert.GreaterOrEqual(t, joined.Ordinal(), b.Ordinal())
		}
	}
}

func TestMoreRestrictive_Idempotent(t *testing.T) {
	for _, d := range All() {
		assert.Equal(t, d, MoreRestrictive(d, d))
	}
}

func TestMoreRestrictive_NeverRelaxes(t *testing.T) {
	got := MoreRestrictive(HumanReview, AutoClose)
	assert.Equal(t, HumanReview, got)

	got = MoreRestrictive(AutoClose, HumanReview)
	assert.Equal(t, HumanReview, got)
}

func TestMoreRestrictive_UnknownFailsSafe(t *testing.T) {
	got := MoreRestrictive(Decision("garbage"), AutoClose)
	assert.Equal(t, Decision("garbage"), got)
	assert.Equal(t, 4, got.Ordinal())

	// A known maximal decision wins the tie against an unknown value.
	got = MoreRestrictive(HumanReview, Decision("garbage"))
	assert.Equal(t, HumanReview, got)
}
