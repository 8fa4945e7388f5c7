package hwmon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// createFakeHwmonTree builds a hwmon-like directory layout:
//
//	hwmon0 (nct6798): pwm1 (+fan1_input), pwm2, temp1_input (SYSTIN)
//	hwmon1 (k10temp): temp1_input (Tctl)
func createFakeHwmonTree(t *testing.T) string {
	basePath := t.TempDir()

	hwmon0 := filepath.Join(basePath, "hwmon0")
	hwmon1 := filepath.Join(basePath, "hwmon1")
	assert.NoError(t, os.Mkdir(hwmon0, 0755))
	assert.NoError(t, os.Mkdir(hwmon1, 0755))

	files := map[string]string{
		"hwmon0/name":        "nct6798\n",
		"hwmon0/pwm1":        "128\n",
		"hwmon0/pwm1_enable": "2\n",
		"hwmon0/fan1_input":  "900\n",
		"hwmon0/pwm2":        "255\n",
		"hwmon0/temp1_input": "43000\n",
		"hwmon0/temp1_label": "SYSTIN\n",
		"hwmon1/name":        "k10temp\n",
		"hwmon1/temp1_input": "61250\n",
		"hwmon1/temp1_label": "Tctl\n",
	}
	for name, content := range files {
		path := filepath.Join(basePath, name)
		assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	return basePath
}

func TestFindPwmOutputsAt(t *testing.T) {
	// GIVEN
	basePath := createFakeHwmonTree(t)

	// WHEN
	candidates := FindPwmOutputsAt(basePath)

	// THEN
	assert.Len(t, candidates, 2)

	assert.Equal(t, filepath.Join(basePath, "hwmon0", "pwm1"), candidates[0].PwmPath)
	assert.Equal(t, "nct6798", candidates[0].Name)
	assert.Equal(t, filepath.Join(basePath, "hwmon0", "fan1_input"), candidates[0].RpmInput)
	assert.True(t, candidates[0].Writable)

	assert.Equal(t, filepath.Join(basePath, "hwmon0", "pwm2"), candidates[1].PwmPath)
	assert.Empty(t, candidates[1].RpmInput)
}

func TestFindPwmOutputsAtMissingBasePath(t *testing.T) {
	// WHEN
	candidates := FindPwmOutputsAt("/this/path/does/not/exist")

	// THEN
	assert.Empty(t, candidates)
}

func TestFindTempInputsAt(t *testing.T) {
	// GIVEN
	basePath := createFakeHwmonTree(t)

	// WHEN
	inputs := FindTempInputsAt(basePath)

	// THEN
	assert.Len(t, inputs, 2)

	assert.Equal(t, "nct6798", inputs[0].Name)
	assert.Equal(t, "SYSTIN", inputs[0].Label)
	assert.Equal(t, 43.0, inputs[0].Value)

	assert.Equal(t, "k10temp", inputs[1].Name)
	assert.Equal(t, "Tctl", inputs[1].Label)
	assert.Equal(t, 61.25, inputs[1].Value)
}

func TestAutoSelectSingleWritableCandidate(t *testing.T) {
	// GIVEN
	candidates := []Candidate{
		{PwmPath: "/sys/class/hwmon/hwmon0/pwm1", Name: "nct6798", Writable: true},
		{PwmPath: "/sys/class/hwmon/hwmon0/pwm2", Name: "nct6798", Writable: false},
	}

	// WHEN
	selected, err := AutoSelect(candidates)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "/sys/class/hwmon/hwmon0/pwm1", selected.PwmPath)
}

func TestAutoSelectWithoutWritableCandidates(t *testing.T) {
	// GIVEN
	candidates := []Candidate{
		{PwmPath: "/sys/class/hwmon/hwmon0/pwm1", Writable: false},
	}

	// WHEN
	_, err := AutoSelect(candidates)

	// THEN
	assert.EqualError(t, err,
		"no writable pwm output found (probed 1 candidates), check permissions or set fan.hwmon.pwmPath")
}

func TestAutoSelectRefusesAmbiguousCandidates(t *testing.T) {
	// GIVEN
	candidates := []Candidate{
		{PwmPath: "/sys/class/hwmon/hwmon0/pwm1", Writable: true},
		{PwmPath: "/sys/class/hwmon/hwmon0/pwm2", Writable: true},
	}

	// WHEN
	_, err := AutoSelect(candidates)

	// THEN
	assert.EqualError(t, err,
		"2 writable pwm outputs found (/sys/class/hwmon/hwmon0/pwm1, /sys/class/hwmon/hwmon0/pwm2), run 'fanloop configure' to select one")
}

func TestResolveOutputOverrideWins(t *testing.T) {
	// GIVEN
	basePath := createFakeHwmonTree(t)
	override := filepath.Join(basePath, "hwmon0", "pwm1")
	persisted := &DiscoveredOutput{PwmPath: filepath.Join(basePath, "hwmon0", "pwm2")}

	// WHEN
	output, err := ResolveOutput(override, persisted, nil)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, override, output.PwmPath)
	assert.Equal(t, "nct6798", output.Name)
	assert.Equal(t, filepath.Join(basePath, "hwmon0", "fan1_input"), output.RpmInput)
}

func TestResolveOutputUsesPersistedOutput(t *testing.T) {
	// GIVEN
	basePath := createFakeHwmonTree(t)
	persisted := &DiscoveredOutput{
		PwmPath: filepath.Join(basePath, "hwmon0", "pwm2"),
		Name:    "nct6798",
	}

	// WHEN
	output, err := ResolveOutput("", persisted, nil)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, persisted.PwmPath, output.PwmPath)
}

func TestResolveOutputRejectsStalePersistedOutput(t *testing.T) {
	// GIVEN
	stalePath := "/sys/class/hwmon/hwmon9/pwm4"
	persisted := &DiscoveredOutput{PwmPath: stalePath}

	// WHEN
	_, err := ResolveOutput("", persisted, nil)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), stalePath)
	assert.Contains(t, err.Error(), "re-run 'fanloop configure'")
}

func TestResolveOutputFallsBackToAutoSelect(t *testing.T) {
	// GIVEN
	candidates := []Candidate{
		{PwmPath: "/sys/class/hwmon/hwmon0/pwm1", Name: "nct6798", Writable: true},
	}

	// WHEN
	output, err := ResolveOutput("", nil, candidates)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "/sys/class/hwmon/hwmon0/pwm1", output.PwmPath)
	assert.False(t, output.DiscoveredAt.IsZero())
}
