package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate(t *testing.T) {
	var buf bytes.Buffer
	err := simulate(&buf, options{
		name:       "Lin",
		sect:       "shushan",
		stage:      "jindan",
		level:      20,
		difficulty: "easy",
		monster:    "wolf",
		seed:       3,
		maxRounds:  50,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Battle begins")
	assert.Contains(t, out, "outcome: ")
}

func TestSimulateRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, simulate(&buf, options{sect: "nowhere", stage: "qi", difficulty: "easy"}))
	assert.Error(t, simulate(&buf, options{sect: "qingyun", stage: "qi", difficulty: "easy", monster: "dragon"}))
}

func TestSimulateIsDeterministic(t *testing.T) {
	opts := options{sect: "wanhua", stage: "qi", level: 5, difficulty: "normal", seed: 11, maxRounds: 50}
	var a, b bytes.Buffer
	require.NoError(t, simulate(&a, opts))
	require.NoError(t, simulate(&b, opts))
	assert.Equal(t, a.String(), b.String())
}
