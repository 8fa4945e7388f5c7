package util

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// GetDeviceName reads the name of a device
func GetDeviceName(devicePath string) string {
	namePath := devicePath + "/name"
	content, _ := os.ReadFile(namePath)
	name := string(content)
	if len(name) <= 0 {
		_, name = filepath.Split(devicePath)
	}
	return strings.TrimSpace(name)
}

// GetLabel reads the label of an in/output of a device
func GetLabel(devicePath string, input string) string {
	labelPath := strings.TrimSuffix(devicePath+"/"+input, "input") + "label"

	content, _ := os.ReadFile(labelPath)
	label := string(content)
	if len(label) <= 0 {
		_, label = filepath.Split(devicePath)
	}
	return strings.TrimSpace(label)
}

// FindHwmonDevicePaths returns the device paths of all hwmon chips on the system.
func FindHwmonDevicePaths() []string {
	basePath := "/sys/class/hwmon"
	if _, err := os.Stat(basePath); err != nil {
		return []string{}
	}

	regex := regexp.MustCompile("hwmon.*")
	result := FindFilesMatching(basePath, regex)

	return result
}
