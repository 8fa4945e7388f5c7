package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetWindowMax(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(2)
	window.Append(3)

	// WHEN
	maximum := GetWindowMax(window)

	// THEN
	assert.Equal(t, 3.0, maximum)
}

func TestFillWindow(t *testing.T) {
	// GIVEN
	size := 5
	window := CreateRollingWindow(size)

	// WHEN
	FillWindow(window, size, 7.0)

	// THEN
	assert.Equal(t, 7.0, GetWindowAvg(window))
	assert.Equal(t, 7.0, GetWindowMax(window))
}

func TestGetWindowAvg(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(2)
	window.Append(3)

	// WHEN
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 2.0, avg)
}
