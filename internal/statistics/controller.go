package statistics

import (
	"github.com/markusressel/fanloop/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type ControllerCollector struct {
	controller controller.FanController

	controlTemp    *prometheus.Desc
	targetDuty     *prometheus.Desc
	writtenDuty    *prometheus.Desc
	inFallback     *prometheus.Desc
	fallbackCycles *prometheus.Desc
}

func NewControllerCollector(fanController controller.FanController) *ControllerCollector {
	return &ControllerCollector{
		controller: fanController,
		controlTemp: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "control_temperature_celsius"),
			"Aggregated temperature the controller acted on in the last cycle",
			[]string{"id"}, nil,
		),
		targetDuty: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "target_duty"),
			"Duty cycle the controller is currently aiming for",
			[]string{"id"}, nil,
		),
		writtenDuty: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "written_duty"),
			"Duty cycle most recently written to the fan",
			[]string{"id"}, nil,
		),
		inFallback: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "in_fallback"),
			"Whether the last cycle ran without temperature data",
			[]string{"id"}, nil,
		),
		fallbackCycles: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "fallback_cycles_total"),
			"Counter for control cycles that ran without temperature data",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.controlTemp
	ch <- collector.targetDuty
	ch <- collector.writtenDuty
	ch <- collector.inFallback
	ch <- collector.fallbackCycles
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	fanId := collector.controller.GetFanId()
	state := collector.controller.State()

	inFallback := 0.0
	if state.InFallback {
		inFallback = 1.0
	}

	ch <- prometheus.MustNewConstMetric(collector.controlTemp, prometheus.GaugeValue, state.ControlTemp, fanId)
	ch <- prometheus.MustNewConstMetric(collector.targetDuty, prometheus.GaugeValue, float64(state.Target), fanId)
	ch <- prometheus.MustNewConstMetric(collector.writtenDuty, prometheus.GaugeValue, float64(state.LastWrittenDuty), fanId)
	ch <- prometheus.MustNewConstMetric(collector.inFallback, prometheus.GaugeValue, inFallback, fanId)
	ch <- prometheus.MustNewConstMetric(collector.fallbackCycles, prometheus.CounterValue, float64(state.FallbackCycles), fanId)
}
