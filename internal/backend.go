package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/markusressel/fanloop/internal/aggregation"
	"github.com/markusressel/fanloop/internal/api"
	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/control_loop"
	"github.com/markusressel/fanloop/internal/controller"
	"github.com/markusressel/fanloop/internal/curves"
	"github.com/markusressel/fanloop/internal/fans"
	"github.com/markusressel/fanloop/internal/hwmon"
	"github.com/markusressel/fanloop/internal/persistence"
	"github.com/markusressel/fanloop/internal/sensors"
	"github.com/markusressel/fanloop/internal/statistics"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RunDaemon() {
	if getProcessOwner() != "root" {
		ui.Fatal("Fan control requires root permissions to be able to modify fan speeds, please run fanloop as root")
	}

	ui.SetLogLevel(configuration.CurrentConfig.LogLevel)

	pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize persistence at %s: %v", configuration.CurrentConfig.DbPath, err)
	}

	fanController, fan := InitializeObjects(pers)

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		// === fan controller
		g.Add(func() error {
			err := fanController.Run(ctx)
			ui.Info("Fan controller for fan %s stopped.", fanController.GetFanId())
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Something went wrong: %v", err)
			}
			cancel()
		})
	}
	{
		enabled := configuration.CurrentConfig.Statistics.Enabled
		if enabled {
			// === Prometheus Exporter
			port := configuration.CurrentConfig.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			addr := fmt.Sprintf(":%d", port)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: addr, Handler: mux}

			g.Add(func() error {
				ui.Info("Starting statistics server on %s...", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: " + err.Error())
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		enabled := configuration.CurrentConfig.Api.Enabled
		if enabled {
			// === monitoring API
			echoRest := api.CreateRestService(fanController, fan)
			g.Add(func() error {
				apiConfig := configuration.CurrentConfig.Api
				addr := fmt.Sprintf("%s:%d", apiConfig.Host, apiConfig.Port)
				if err := echoRest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start monitoring API (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping monitoring API...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := echoRest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping monitoring API: " + err.Error())
				}
			})
		}
	}
	{
		enabled := configuration.CurrentConfig.Profiling.Enabled
		if enabled {
			// === pprof
			profilingConfig := configuration.CurrentConfig.Profiling
			addr := fmt.Sprintf("%s:%d", profilingConfig.Host, profilingConfig.Port)

			mux := http.NewServeMux()
			mux.HandleFunc("/debug/pprof/", pprof.Index)
			mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
			mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
			mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
			mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

			server := &http.Server{Addr: addr, Handler: mux}

			g.Add(func() error {
				ui.Info("Starting profiling server on %s...", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start profiling server (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping profiling server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping profiling server: " + err.Error())
				}
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received SIGTERM signal, exiting...")
			return nil
		}, func(err error) {
			defer close(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// InitializeObjects builds the fan, sensors and controller from the
// current configuration and registers the prometheus collectors.
func InitializeObjects(pers persistence.Persistence) (controller.FanController, fans.Fan) {
	fanConfig := configuration.CurrentConfig.Fan
	if fanConfig.File == nil {
		output := resolvePwmOutput(pers)
		hwMonConfig := fanConfig.HwMon
		if hwMonConfig == nil {
			hwMonConfig = &configuration.HwMonFanConfig{}
		}
		hwMonConfig.PwmPath = output.PwmPath
		if hwMonConfig.RpmInput == "" {
			hwMonConfig.RpmInput = output.RpmInput
		}
		fanConfig.HwMon = hwMonConfig
	}

	fan, err := fans.NewFan(fanConfig)
	if err != nil {
		ui.Fatal("Unable to process fan configuration: %v", err)
	}
	ui.Info("Controlling fan %s", fan.GetId())

	var sensorList []sensors.Sensor
	for _, config := range configuration.CurrentConfig.Sensors {
		sensor, err := sensors.NewSensor(config, configuration.CurrentConfig.SensorTimeout)
		if err != nil {
			ui.Fatal("Unable to process sensor configuration %s: %v", config.ID, err)
		}
		sensorList = append(sensorList, sensor)
		sensors.RegisterSensor(sensor)
	}
	if len(sensorList) <= 0 {
		ui.Fatal("No valid sensor configurations, exiting.")
	}

	aggregator := aggregation.NewAggregator(sensorList, configuration.CurrentConfig.TempRollingWindowSize)
	curve := curves.NewSpeedCurve(configuration.CurrentConfig.Controller)
	loop := control_loop.NewDirectControlLoop(configuration.CurrentConfig.Controller.MaxStep)

	fanController := controller.NewFanController(
		fan,
		aggregator,
		curve,
		loop,
		configuration.CurrentConfig.Controller,
		configuration.CurrentConfig.PollInterval,
		configuration.CurrentConfig.MaxActuationRetries,
	)

	statistics.Register(statistics.NewSensorCollector(sensorList))
	statistics.Register(statistics.NewFanCollector(fan))
	statistics.Register(statistics.NewControllerCollector(fanController))

	return fanController, fan
}

// resolvePwmOutput determines the pwm output to control. An explicitly
// configured path always wins, then a previously persisted output is
// revalidated, otherwise auto-discovery must find exactly one writable
// candidate. A fresh discovery is persisted for the next start.
func resolvePwmOutput(pers persistence.Persistence) hwmon.DiscoveredOutput {
	override := ""
	if configuration.CurrentConfig.Fan.HwMon != nil {
		override = configuration.CurrentConfig.Fan.HwMon.PwmPath
	}

	var persisted *hwmon.DiscoveredOutput
	stored, err := pers.LoadPwmOutput()
	if err == nil {
		persisted = &stored
	} else if !errors.Is(err, os.ErrNotExist) {
		ui.Warning("Unable to load persisted pwm output: %v", err)
	}

	candidates := hwmon.FindPwmOutputs()
	output, err := hwmon.ResolveOutput(override, persisted, candidates)
	if err != nil {
		ui.Fatal("Unable to resolve pwm output: %v", err)
	}

	if override == "" && persisted == nil {
		if err := pers.SavePwmOutput(output); err != nil {
			ui.Warning("Unable to persist pwm output %s: %v", output.PwmPath, err)
		} else {
			ui.Info("Discovered pwm output %s (%s)", output.PwmPath, output.Name)
		}
	}

	return output
}

func getProcessOwner() string {
	stdout, err := exec.Command("ps", "-o", "user=", "-p", strconv.Itoa(os.Getpid())).Output()
	if err != nil {
		ui.Fatal("Error checking process owner: %v", err)
		os.Exit(1)
	}
	return strings.TrimSpace(string(stdout))
}
