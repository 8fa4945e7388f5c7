package statistics

import (
	"github.com/markusressel/fanloop/internal/sensors"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	sensors     []sensors.Sensor
	temperature *prometheus.Desc
}

// NewSensorCollector exposes the smoothed temperature of each sensor.
// Scrapes report the value of the last control cycle instead of reading
// the sensor, command based sensors must not spawn processes on scrape.
func NewSensorCollector(sensors []sensors.Sensor) *SensorCollector {
	return &SensorCollector{
		sensors: sensors,
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_celsius"),
			"Smoothed temperature of the sensor in degrees celsius",
			[]string{"id"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, sensor := range collector.sensors {
		sensorId := sensor.GetId()
		ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, sensor.GetMovingAvg(), sensorId)
	}
}
