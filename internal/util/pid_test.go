package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPidLoop(t *testing.T) {
	// GIVEN
	p, i, d := 1.0, 2.0, 3.0

	// WHEN
	pidLoop := NewPidLoop(p, i, d, -1.0, 1.0)

	// THEN
	assert.Equal(t, p, pidLoop.p)
	assert.Equal(t, i, pidLoop.i)
	assert.Equal(t, d, pidLoop.d)
	assert.Equal(t, -1.0, pidLoop.outMin)
	assert.Equal(t, 1.0, pidLoop.outMax)
}

func TestPidLoop_InitialOutputIsProportionalOnly(t *testing.T) {
	// GIVEN
	pidLoop := NewPidLoop(0.01, 0.5, 0.5, -1.0, 1.0)

	// WHEN
	output := pidLoop.Loop(10.0, 5.0)

	// THEN
	assert.InDelta(t, 0.05, output, 0.001)
}

func TestPidLoop_P(t *testing.T) {
	// GIVEN
	pidLoop := NewPidLoop(0.01, 0.0, 0.0, -1.0, 1.0)
	pidLoop.Loop(10.0, 5.0)

	time.Sleep(1 * time.Second)

	// WHEN
	output := pidLoop.Loop(10.0, 5.0)

	// THEN
	assert.InDelta(t, 0.05, output, 0.001)
}

func TestPidLoop_I(t *testing.T) {
	// GIVEN
	pidLoop := NewPidLoop(0.0, 0.01, 0.0, -1.0, 1.0)
	pidLoop.Loop(10.0, 5.0)

	time.Sleep(1 * time.Second)

	// WHEN
	output := pidLoop.Loop(10.0, 5.0)

	// THEN
	assert.InDelta(t, 0.05, output, 0.01)
}

func TestPidLoop_D(t *testing.T) {
	// GIVEN
	pidLoop := NewPidLoop(0.0, 0.0, 0.01, -1.0, 1.0)
	pidLoop.Loop(10.0, 5.0)

	time.Sleep(1 * time.Second)

	// WHEN
	output := pidLoop.Loop(10.0, 8.0)

	// THEN
	assert.InDelta(t, -0.03, output, 0.01)
}

func TestPidLoop_ClampsOutput(t *testing.T) {
	// GIVEN
	pidLoop := NewPidLoop(1.0, 0.0, 0.0, -1.0, 1.0)

	// WHEN
	output := pidLoop.Loop(10.0, 0.0)

	// THEN
	assert.Equal(t, 1.0, output)
}
