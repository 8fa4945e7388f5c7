package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsString_Valid(t *testing.T) {
	// GIVEN
	list := []string{
		"one",
		"two",
		"three",
	}

	// WHEN
	result := ContainsString(list, "two")

	// THEN
	assert.True(t, result)
}

func TestContainsString_Invalid(t *testing.T) {
	// GIVEN
	list := []string{
		"one",
		"two",
		"three",
	}

	// WHEN
	result := ContainsString(list, "zero")

	// THEN
	assert.False(t, result)
}

func TestMax(t *testing.T) {
	// GIVEN
	values := []float64{42.5, 61.0, 38.0}

	// WHEN
	result := Max(values)

	// THEN
	assert.Equal(t, 61.0, result)
}

func TestMaxEmpty(t *testing.T) {
	// WHEN
	result := Max([]float64{})

	// THEN
	assert.Equal(t, 0.0, result)
}
