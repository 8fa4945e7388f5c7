package configuration

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// FallbackPolicy decides how the controller behaves while no sensor
// delivers any data.
type FallbackPolicy string

const (
	// FallbackPolicyHold keeps the last target duty cycle.
	FallbackPolicyHold FallbackPolicy = "hold"
	// FallbackPolicyMax escalates the target to the configured maximum.
	FallbackPolicyMax FallbackPolicy = "max"
)

// FallbackPolicyHookFunc returns a mapstructure decode hook that parses
// and validates FallbackPolicy values, case-insensitively.
func FallbackPolicyHookFunc() mapstructure.DecodeHookFuncType {
	fallbackPolicyType := reflect.TypeOf(FallbackPolicy(""))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != fallbackPolicyType {
			return data, nil
		}

		value, ok := data.(string)
		if !ok {
			if policy, isPolicy := data.(FallbackPolicy); isPolicy {
				value = string(policy)
			} else {
				return data, nil
			}
		}

		policy := FallbackPolicy(strings.ToLower(strings.TrimSpace(value)))
		switch policy {
		case FallbackPolicyHold, FallbackPolicyMax:
			return policy, nil
		default:
			return nil, fmt.Errorf("unsupported fallback policy '%s', use one of: %s | %s", value, FallbackPolicyHold, FallbackPolicyMax)
		}
	}
}
