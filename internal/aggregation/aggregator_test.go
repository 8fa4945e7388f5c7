package aggregation

import (
	"errors"
	"testing"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/sensors"
	"github.com/stretchr/testify/assert"
)

type mockSensor struct {
	id        string
	value     float64
	err       error
	movingAvg float64
}

func (s *mockSensor) GetId() string {
	return s.id
}

func (s *mockSensor) GetConfig() configuration.SensorConfig {
	return configuration.SensorConfig{ID: s.id}
}

func (s *mockSensor) GetValue() (float64, error) {
	return s.value, s.err
}

func (s *mockSensor) GetMovingAvg() float64 {
	return s.movingAvg
}

func (s *mockSensor) SetMovingAvg(avg float64) {
	s.movingAvg = avg
}

func TestAggregateTakesMaximum(t *testing.T) {
	// GIVEN
	cpu := &mockSensor{id: "cpu", value: 45.0}
	hdd := &mockSensor{id: "hdd", value: 60.0}
	aggregator := NewAggregator([]sensors.Sensor{cpu, hdd}, 1)

	// WHEN
	value, readings, err := aggregator.ControlTemperature()

	// THEN
	assert.NoError(t, err)
	assert.Len(t, readings, 2)
	assert.Equal(t, 60.0, value)
}

func TestAggregatePartialFailure(t *testing.T) {
	// GIVEN
	cpu := &mockSensor{id: "cpu", value: 45.0}
	hdd := &mockSensor{id: "hdd", err: errors.New("device unreachable")}
	aggregator := NewAggregator([]sensors.Sensor{cpu, hdd}, 1)

	// WHEN
	value, readings, err := aggregator.ControlTemperature()

	// THEN
	// a single failing sensor must not bring down the cycle
	assert.NoError(t, err)
	assert.Len(t, readings, 2)
	assert.Equal(t, 45.0, value)
	assert.Error(t, readings[1].Err)
}

func TestAggregateTotalFailure(t *testing.T) {
	// GIVEN
	cpu := &mockSensor{id: "cpu", err: errors.New("timeout")}
	hdd := &mockSensor{id: "hdd", err: errors.New("device unreachable")}
	aggregator := NewAggregator([]sensors.Sensor{cpu, hdd}, 1)

	// WHEN
	_, _, err := aggregator.ControlTemperature()

	// THEN
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAggregateNoSensors(t *testing.T) {
	// GIVEN
	aggregator := NewAggregator([]sensors.Sensor{}, 1)

	// WHEN
	_, _, err := aggregator.ControlTemperature()

	// THEN
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCollectPrimesMovingAvgOnFirstReading(t *testing.T) {
	// GIVEN
	cpu := &mockSensor{id: "cpu", value: 50.0}
	aggregator := NewAggregator([]sensors.Sensor{cpu}, 10)

	// WHEN
	readings := aggregator.Collect()

	// THEN
	// the first reading primes the average instead of averaging against zero
	assert.Equal(t, 50.0, readings[0].Value)
	assert.Equal(t, 50.0, cpu.GetMovingAvg())
}

func TestCollectSmoothsSubsequentReadings(t *testing.T) {
	// GIVEN
	cpu := &mockSensor{id: "cpu", value: 40.0}
	aggregator := NewAggregator([]sensors.Sensor{cpu}, 2)
	aggregator.Collect()

	// WHEN
	cpu.value = 60.0
	readings := aggregator.Collect()

	// THEN
	assert.Equal(t, 50.0, readings[0].Value)
}

func TestCollectRecoveredSensorKeepsSmoothing(t *testing.T) {
	// GIVEN
	cpu := &mockSensor{id: "cpu", value: 40.0}
	aggregator := NewAggregator([]sensors.Sensor{cpu}, 2)
	aggregator.Collect()

	// sensor goes dark for one cycle
	cpu.err = errors.New("timeout")
	aggregator.Collect()

	// WHEN
	cpu.err = nil
	cpu.value = 60.0
	readings := aggregator.Collect()

	// THEN
	// the average survives the outage, no re-priming happens
	assert.Equal(t, 50.0, readings[0].Value)
}

func TestWindowSizeOnePassesValuesThrough(t *testing.T) {
	// GIVEN
	cpu := &mockSensor{id: "cpu", value: 40.0}
	aggregator := NewAggregator([]sensors.Sensor{cpu}, 1)
	aggregator.Collect()

	// WHEN
	cpu.value = 65.0
	readings := aggregator.Collect()

	// THEN
	assert.Equal(t, 65.0, readings[0].Value)
}
