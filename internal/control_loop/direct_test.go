package control_loop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectControlLoopWithoutStepLimit(t *testing.T) {
	// GIVEN
	loop := NewDirectControlLoop(0)

	// WHEN
	result := loop.Loop(255, 0)

	// THEN
	assert.Equal(t, 255, result)

	// WHEN
	result = loop.Loop(80, 255)

	// THEN
	assert.Equal(t, 80, result)
}

func TestDirectControlLoopLimitsUpwardSteps(t *testing.T) {
	// GIVEN
	loop := NewDirectControlLoop(20)

	// WHEN
	result := loop.Loop(230, 155)

	// THEN
	assert.Equal(t, 175, result)

	// WHEN
	result = loop.Loop(230, result)

	// THEN
	assert.Equal(t, 195, result)
}

func TestDirectControlLoopLimitsDownwardSteps(t *testing.T) {
	// GIVEN
	loop := NewDirectControlLoop(20)

	// WHEN
	result := loop.Loop(80, 200)

	// THEN
	assert.Equal(t, 180, result)
}

func TestDirectControlLoopStopsAtTarget(t *testing.T) {
	// GIVEN
	loop := NewDirectControlLoop(20)

	// WHEN
	result := loop.Loop(160, 155)

	// THEN
	assert.Equal(t, 160, result)

	// WHEN
	result = loop.Loop(160, result)

	// THEN
	assert.Equal(t, 160, result)
}
