package util

import "time"

// PidLoop is a simple PID regulator with output clamping and
// basic integral anti-windup.
type PidLoop struct {
	// proportional constant
	p float64
	// integral constant
	i float64
	// derivative constant
	d float64
	// output bounds
	outMin float64
	outMax float64

	// last measured value
	lastMeasured float64
	// accumulated integral error
	integral float64
	// last execution time of the loop
	lastTime time.Time
	// last output value
	lastOutput float64
}

func NewPidLoop(p, i, d, outMin, outMax float64) *PidLoop {
	return &PidLoop{
		p:      p,
		i:      i,
		d:      d,
		outMin: outMin,
		outMax: outMax,
	}
}

// Loop advances the pid loop and returns the next output value.
func (p *PidLoop) Loop(target float64, measured float64) float64 {
	loopTime := time.Now()
	if p.lastTime.IsZero() {
		p.lastMeasured = measured
		p.lastTime = loopTime
		p.integral = 0.0

		// initial output is P-term only, clamped
		output := Coerce(p.p*(target-measured), p.outMin, p.outMax)
		p.lastOutput = output
		return output
	}

	dt := loopTime.Sub(p.lastTime).Seconds()
	if dt <= 0 {
		return p.lastOutput
	}

	err := target - measured

	proportionalTerm := p.p * err

	// do not integrate while the output is saturated and the integral
	// term would push it further out. p.i*err is the direction the
	// integral term is moving, which also covers reverse acting loops
	// with negative constants.
	integrate := true
	if p.lastOutput >= p.outMax && p.i*err > 0 {
		integrate = false
	}
	if p.lastOutput <= p.outMin && p.i*err < 0 {
		integrate = false
	}
	if integrate {
		p.integral = p.integral + err*dt
	}
	integralTerm := p.i * p.integral

	// derivative on measurement, avoids derivative kick on setpoint changes
	derivativeTerm := -p.d * ((measured - p.lastMeasured) / dt)

	output := Coerce(proportionalTerm+integralTerm+derivativeTerm, p.outMin, p.outMax)

	p.lastTime = loopTime
	p.lastMeasured = measured
	p.lastOutput = output

	return output
}
