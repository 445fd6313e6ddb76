package ai

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// scriptedRand replays floats and ints in order.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) IntN(n int) int {
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

func TestOpponentPolicy_Decide(t *testing.T) {
	p := DefaultOpponentPolicy()

	tests := []struct {
		name   string
		floats []float64
		ints   []int
		skills int
		want   Decision
	}{
		{"plain attack", []float64{0.1, 0.9}, nil, 2, Decision{Intention: model.IntentionAttack}},
		{"skill", []float64{0.1, 0.2}, []int{1}, 2, Decision{Intention: model.IntentionCast, SkillIndex: 1}},
		{"no skills attacks", []float64{0.1}, nil, 0, Decision{Intention: model.IntentionAttack}},
		{"defend", []float64{0.75}, nil, 2, Decision{Intention: model.IntentionDefend}},
		{"idle", []float64{0.9}, nil, 2, Decision{Intention: model.IntentionIdle}},
		{"boundary attack/defend", []float64{0.70}, nil, 0, Decision{Intention: model.IntentionDefend}},
		{"boundary defend/idle", []float64{0.85}, nil, 0, Decision{Intention: model.IntentionIdle}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Decide(&scriptedRand{floats: tt.floats, ints: tt.ints}, tt.skills)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpponentPolicy_Distribution(t *testing.T) {
	p := DefaultOpponentPolicy()
	rng := rand.New(rand.NewPCG(7, 11))

	counts := map[model.Intention]int{}
	const n = 20000
	for range n {
		counts[p.Decide(rng, 3).Intention]++
	}

	assert.InDelta(t, 0.70*0.60, float64(counts[model.IntentionAttack])/n, 0.02)
	assert.InDelta(t, 0.70*0.40, float64(counts[model.IntentionCast])/n, 0.02)
	assert.InDelta(t, 0.15, float64(counts[model.IntentionDefend])/n, 0.02)
	assert.InDelta(t, 0.15, float64(counts[model.IntentionIdle])/n, 0.02)
}

func TestAutoPilot_Decide(t *testing.T) {
	a := DefaultAutoPilot()

	assert.Equal(t, Decision{Intention: model.IntentionCast, SkillIndex: 2},
		a.Decide(&scriptedRand{floats: []float64{0.1}, ints: []int{2}}, 0.9, 3))
	assert.Equal(t, Decision{Intention: model.IntentionAttack},
		a.Decide(&scriptedRand{floats: []float64{0.5}}, 0.9, 3))
	assert.Equal(t, Decision{Intention: model.IntentionAttack},
		a.Decide(&scriptedRand{}, 0.2, 3), "low hp never casts")
	assert.Equal(t, Decision{Intention: model.IntentionAttack},
		a.Decide(&scriptedRand{}, 1.0, 0))
}
