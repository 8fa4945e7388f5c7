package configuration

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func decodeFallbackPolicy(t *testing.T, data interface{}) (interface{}, error) {
	t.Helper()
	hook := FallbackPolicyHookFunc()
	return hook(
		reflect.TypeOf(data),
		reflect.TypeOf(FallbackPolicy("")),
		data,
	)
}

func TestFallbackPolicyHookAcceptsKnownPolicies(t *testing.T) {
	// GIVEN
	inputs := map[string]FallbackPolicy{
		"hold": FallbackPolicyHold,
		"max":  FallbackPolicyMax,
		"MAX":  FallbackPolicyMax,
		"Hold": FallbackPolicyHold,
		" max": FallbackPolicyMax,
	}

	for input, expected := range inputs {
		// WHEN
		result, err := decodeFallbackPolicy(t, input)

		// THEN
		assert.NoError(t, err)
		assert.Equal(t, expected, result)
	}
}

func TestFallbackPolicyHookRejectsUnknownPolicy(t *testing.T) {
	// WHEN
	_, err := decodeFallbackPolicy(t, "panic")

	// THEN
	assert.EqualError(t, err, "unsupported fallback policy 'panic', use one of: hold | max")
}

func TestFallbackPolicyHookPassesThroughOtherTypes(t *testing.T) {
	// GIVEN
	hook := FallbackPolicyHookFunc()

	// WHEN
	result, err := hook(
		reflect.TypeOf(""),
		reflect.TypeOf(""),
		"just a string",
	)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "just a string", result)
}
