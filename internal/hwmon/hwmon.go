package hwmon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/markusressel/fanloop/internal/ui"
	"github.com/markusressel/fanloop/internal/util"
)

const DefaultBasePath = "/sys/class/hwmon"

var (
	pwmOutputRegex = regexp.MustCompile(`^pwm[0-9]+$`)
	tempInputRegex = regexp.MustCompile(`^temp[0-9]+_input$`)
)

// Candidate is a pwm output found while scanning the hwmon tree.
type Candidate struct {
	// PwmPath is the absolute path of the pwm control file
	PwmPath string `json:"pwmpath"`
	// Name is the name of the hwmon chip the output belongs to
	Name string `json:"name"`
	// RpmInput is the path of the matching fanN_input, if one exists
	RpmInput string `json:"rpminput"`
	// Writable indicates whether the pwm file could be opened for writing
	Writable bool `json:"writable"`
}

// TempInput is a temperature input found while scanning the hwmon tree.
type TempInput struct {
	// Path is the absolute path of the tempN_input file
	Path string `json:"path"`
	// Name is the name of the hwmon chip the input belongs to
	Name string `json:"name"`
	// Label is the tempN_label content, if present
	Label string `json:"label"`
	// Value is the current temperature in degrees celsius
	Value float64 `json:"value"`
}

// DiscoveredOutput is a validated pwm output, persisted after discovery.
type DiscoveredOutput struct {
	PwmPath      string    `json:"pwmpath"`
	Name         string    `json:"name"`
	RpmInput     string    `json:"rpminput"`
	DiscoveredAt time.Time `json:"discoveredat"`
}

// FindPwmOutputs scans the hwmon tree for pwm outputs.
func FindPwmOutputs() []Candidate {
	return FindPwmOutputsAt(DefaultBasePath)
}

func FindPwmOutputsAt(basePath string) []Candidate {
	var result []Candidate

	dirs, err := os.ReadDir(basePath)
	if err != nil {
		ui.Warning("Unable to scan %s: %v", basePath, err)
		return result
	}

	for _, dir := range dirs {
		devicePath := filepath.Join(basePath, dir.Name())
		entries, err := os.ReadDir(devicePath)
		if err != nil {
			continue
		}

		name := util.GetDeviceName(devicePath)
		for _, entry := range entries {
			if entry.IsDir() || !pwmOutputRegex.MatchString(entry.Name()) {
				continue
			}

			pwmPath := filepath.Join(devicePath, entry.Name())
			result = append(result, Candidate{
				PwmPath:  pwmPath,
				Name:     name,
				RpmInput: matchingRpmInput(pwmPath),
				Writable: isWritable(pwmPath),
			})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PwmPath < result[j].PwmPath
	})
	return result
}

// FindTempInputs scans the hwmon tree for temperature inputs.
func FindTempInputs() []TempInput {
	return FindTempInputsAt(DefaultBasePath)
}

func FindTempInputsAt(basePath string) []TempInput {
	var result []TempInput

	dirs, err := os.ReadDir(basePath)
	if err != nil {
		ui.Warning("Unable to scan %s: %v", basePath, err)
		return result
	}

	for _, dir := range dirs {
		devicePath := filepath.Join(basePath, dir.Name())
		entries, err := os.ReadDir(devicePath)
		if err != nil {
			continue
		}

		name := util.GetDeviceName(devicePath)
		for _, entry := range entries {
			if entry.IsDir() || !tempInputRegex.MatchString(entry.Name()) {
				continue
			}

			inputPath := filepath.Join(devicePath, entry.Name())
			value := 0.0
			if milliDegrees, err := util.ReadIntFromFile(inputPath); err == nil {
				value = float64(milliDegrees) / 1000.0
			}

			result = append(result, TempInput{
				Path:  inputPath,
				Name:  name,
				Label: util.GetLabel(devicePath, entry.Name()),
				Value: value,
			})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}

// AutoSelect picks the pwm output to control without operator input.
// It only succeeds when the choice is unambiguous.
func AutoSelect(candidates []Candidate) (Candidate, error) {
	var writable []Candidate
	for _, candidate := range candidates {
		if candidate.Writable {
			writable = append(writable, candidate)
		}
	}

	switch len(writable) {
	case 1:
		return writable[0], nil
	case 0:
		return Candidate{}, fmt.Errorf(
			"no writable pwm output found (probed %d candidates), check permissions or set fan.hwmon.pwmPath",
			len(candidates))
	default:
		var paths []string
		for _, candidate := range writable {
			paths = append(paths, candidate.PwmPath)
		}
		return Candidate{}, fmt.Errorf(
			"%d writable pwm outputs found (%s), run 'fanloop configure' to select one",
			len(writable), strings.Join(paths, ", "))
	}
}

// ResolveOutput decides which pwm output to control. An explicit
// override always wins, then a previously persisted output (which must
// still be usable), then startup auto-discovery.
func ResolveOutput(override string, persisted *DiscoveredOutput, candidates []Candidate) (DiscoveredOutput, error) {
	if len(override) > 0 {
		return DiscoveredOutput{
			PwmPath:  override,
			Name:     util.GetDeviceName(filepath.Dir(override)),
			RpmInput: matchingRpmInput(override),
		}, nil
	}

	if persisted != nil {
		if err := validateOutput(persisted.PwmPath); err != nil {
			return DiscoveredOutput{}, fmt.Errorf(
				"persisted pwm output %s is no longer usable (%s), re-run 'fanloop configure'",
				persisted.PwmPath, err)
		}
		return *persisted, nil
	}

	selected, err := AutoSelect(candidates)
	if err != nil {
		return DiscoveredOutput{}, err
	}

	return DiscoveredOutput{
		PwmPath:      selected.PwmPath,
		Name:         selected.Name,
		RpmInput:     selected.RpmInput,
		DiscoveredAt: time.Now(),
	}, nil
}

func validateOutput(pwmPath string) error {
	if _, err := os.Stat(pwmPath); err != nil {
		return err
	}
	if !isWritable(pwmPath) {
		return errors.New("not writable")
	}
	return nil
}

// matchingRpmInput maps a pwm output to the rpm input of the same fan
// channel, e.g. pwm1 -> fan1_input.
func matchingRpmInput(pwmPath string) string {
	dir, file := filepath.Split(pwmPath)
	index := strings.TrimPrefix(file, "pwm")
	rpmInput := filepath.Join(dir, "fan"+index+"_input")
	if _, err := os.Stat(rpmInput); err != nil {
		return ""
	}
	return rpmInput
}

func isWritable(path string) bool {
	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	_ = file.Close()
	return true
}
