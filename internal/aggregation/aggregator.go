package aggregation

import (
	"errors"

	"github.com/markusressel/fanloop/internal/sensors"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/markusressel/fanloop/internal/util"
)

// ErrNoData indicates that no sensor delivered a usable reading.
var ErrNoData = errors.New("no temperature data available")

// TemperatureReading is the outcome of a single sensor query.
type TemperatureReading struct {
	SensorID string
	// Value is the smoothed temperature in degrees celsius, only valid when Err is nil
	Value float64
	Err   error
}

// Aggregator queries a set of sensors and reduces their readings to a
// single control temperature. Individual sensor failures are tolerated,
// only the total loss of data is reported as an error.
type Aggregator struct {
	sensors    []sensors.Sensor
	windowSize int
	primed     map[string]bool
}

func NewAggregator(sensorList []sensors.Sensor, windowSize int) *Aggregator {
	if windowSize < 1 {
		windowSize = 1
	}
	return &Aggregator{
		sensors:    sensorList,
		windowSize: windowSize,
		primed:     map[string]bool{},
	}
}

// Collect queries every sensor once and updates their moving averages.
// The first successful reading of a sensor primes its average, so a
// cold start does not drag the smoothed value towards zero.
func (a *Aggregator) Collect() []TemperatureReading {
	readings := make([]TemperatureReading, 0, len(a.sensors))
	for _, sensor := range a.sensors {
		value, err := sensor.GetValue()
		if err != nil {
			ui.Warning("Sensor %s failed to deliver data: %v", sensor.GetId(), err)
			readings = append(readings, TemperatureReading{
				SensorID: sensor.GetId(),
				Err:      err,
			})
			continue
		}

		if !a.primed[sensor.GetId()] {
			sensor.SetMovingAvg(value)
			a.primed[sensor.GetId()] = true
		} else {
			sensor.SetMovingAvg(util.UpdateSimpleMovingAvg(sensor.GetMovingAvg(), a.windowSize, value))
		}

		readings = append(readings, TemperatureReading{
			SensorID: sensor.GetId(),
			Value:    sensor.GetMovingAvg(),
		})
	}
	return readings
}

// Aggregate reduces readings to a single control temperature, the
// maximum over all successful readings. Returns ErrNoData when every
// sensor failed.
func Aggregate(readings []TemperatureReading) (float64, error) {
	values := make([]float64, 0, len(readings))
	for _, reading := range readings {
		if reading.Err != nil {
			continue
		}
		values = append(values, reading.Value)
	}

	if len(values) <= 0 {
		return 0, ErrNoData
	}
	return util.Max(values), nil
}

// ControlTemperature queries all sensors and returns the aggregated
// control temperature together with the individual readings.
func (a *Aggregator) ControlTemperature() (float64, []TemperatureReading, error) {
	readings := a.Collect()
	value, err := Aggregate(readings)
	return value, readings, err
}
