package control_loop

// ControlLoop advances the applied pwm value towards a target value,
// possibly limiting the change rate.
type ControlLoop interface {
	// Loop calculates the next pwm value on the way from current towards target
	Loop(target int, current int) int
}
