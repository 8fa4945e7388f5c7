package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	// GIVEN
	a := 0.0
	b := 100.0
	c := 50.0

	expected := 0.5

	// WHEN
	result := Ratio(c, a, b)

	// THEN
	assert.Equal(t, expected, result)
}

func TestCoerceBelowRange(t *testing.T) {
	// WHEN
	result := Coerce(-10.0, 0.0, 255.0)

	// THEN
	assert.Equal(t, 0.0, result)
}

func TestCoerceAboveRange(t *testing.T) {
	// WHEN
	result := Coerce(300.0, 0.0, 255.0)

	// THEN
	assert.Equal(t, 255.0, result)
}

func TestCoerceWithinRange(t *testing.T) {
	// WHEN
	result := Coerce(128.0, 0.0, 255.0)

	// THEN
	assert.Equal(t, 128.0, result)
}

func TestCoerceInt(t *testing.T) {
	// WHEN + THEN
	assert.Equal(t, -20, CoerceInt(-30, -20, 20))
	assert.Equal(t, 20, CoerceInt(75, -20, 20))
	assert.Equal(t, 15, CoerceInt(15, -20, 20))
}

func TestUpdateSimpleMovingAvgWindowSizeOne(t *testing.T) {
	// GIVEN
	oldAvg := 40.0
	n := 1

	// WHEN
	result := UpdateSimpleMovingAvg(oldAvg, n, 60.0)

	// THEN
	// a window of size one just passes values through
	assert.Equal(t, 60.0, result)
}

func TestUpdateSimpleMovingAvg(t *testing.T) {
	// GIVEN
	oldAvg := 40.0
	n := 2

	// WHEN
	result := UpdateSimpleMovingAvg(oldAvg, n, 60.0)

	// THEN
	assert.Equal(t, 50.0, result)
}

func TestAvg(t *testing.T) {
	// GIVEN
	values := []float64{1.0, 2.0, 3.0}

	// WHEN
	result := Avg(values)

	// THEN
	assert.Equal(t, 2.0, result)
}
