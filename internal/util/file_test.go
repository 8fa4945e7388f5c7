package util

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadIntFromFile(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "pwm1")
	err := os.WriteFile(filePath, []byte("128\n"), 0644)
	assert.NoError(t, err)

	// WHEN
	value, err := ReadIntFromFile(filePath)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 128, value)
}

func TestReadIntFromFileEmpty(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "empty")
	err := os.WriteFile(filePath, []byte(""), 0644)
	assert.NoError(t, err)

	// WHEN
	_, err = ReadIntFromFile(filePath)

	// THEN
	assert.Error(t, err)
}

func TestReadIntFromFileGarbage(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "garbage")
	err := os.WriteFile(filePath, []byte("not a number"), 0644)
	assert.NoError(t, err)

	// WHEN
	_, err = ReadIntFromFile(filePath)

	// THEN
	assert.Error(t, err)
}

func TestWriteIntToFile(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "pwm1")
	err := os.WriteFile(filePath, []byte("0"), 0644)
	assert.NoError(t, err)

	// WHEN
	err = WriteIntToFile(255, filePath)

	// THEN
	assert.NoError(t, err)
	value, err := ReadIntFromFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, 255, value)
}

func TestReadTextFromFile(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "name")
	err := os.WriteFile(filePath, []byte("nct6798\n"), 0644)
	assert.NoError(t, err)

	// WHEN
	text, err := ReadTextFromFile(filePath)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "nct6798", text)
}

func TestWriteTextToFileAtomic(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "config.yaml")

	// WHEN
	err := WriteTextToFileAtomic("fan:\n", filePath)

	// THEN
	assert.NoError(t, err)
	text, err := ReadTextFromFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "fan:", text)
}

func TestFindFilesMatching(t *testing.T) {
	// GIVEN
	// a fake sysfs layout: class dir entries are symlinks into a device tree
	base := t.TempDir()
	deviceDir := filepath.Join(base, "devices", "platform", "nct6775.656", "hwmon", "hwmon3")
	err := os.MkdirAll(deviceDir, 0755)
	assert.NoError(t, err)
	err = os.WriteFile(filepath.Join(deviceDir, "name"), []byte("nct6798\n"), 0644)
	assert.NoError(t, err)

	classDir := filepath.Join(base, "class", "hwmon")
	err = os.MkdirAll(classDir, 0755)
	assert.NoError(t, err)
	err = os.Symlink(deviceDir, filepath.Join(classDir, "hwmon3"))
	assert.NoError(t, err)

	// WHEN
	result := FindFilesMatching(classDir, regexp.MustCompile("hwmon.*"))

	// THEN
	assert.Len(t, result, 1)
	assert.Equal(t, "nct6798", GetDeviceName(result[0]))
}

func TestFileHasPermissionsUserIsRoot(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}

	// GIVEN
	filePath := filepath.Join(t.TempDir(), "testfile")

	filePerm := os.FileMode(0o700)
	err := os.WriteFile(filePath, []byte("#!/bin/sh\n"), filePerm)
	assert.NoError(t, err)
	err = os.Chown(filePath, 0, 1000)
	assert.NoError(t, err)
	err = os.Chmod(filePath, filePerm)
	assert.NoError(t, err)

	// WHEN
	result, err := CheckFilePermissionsForExecution(filePath)

	// THEN
	assert.Equal(t, true, result)
	assert.NoError(t, err)
}

func TestFileHasPermissionsGroupOtherThanRootHasWritePermission(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}

	// GIVEN
	filePath := filepath.Join(t.TempDir(), "testfile")

	filePerm := os.FileMode(0o720)
	err := os.WriteFile(filePath, []byte("#!/bin/sh\n"), filePerm)
	assert.NoError(t, err)
	err = os.Chown(filePath, 0, 1000)
	assert.NoError(t, err)
	err = os.Chmod(filePath, filePerm)
	assert.NoError(t, err)

	// WHEN
	result, err := CheckFilePermissionsForExecution(filePath)

	// THEN
	assert.Equal(t, false, result)
	assert.Error(t, err)
}

func TestFileHasPermissionsOtherHasWritePermission(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}

	// GIVEN
	filePath := filepath.Join(t.TempDir(), "testfile")

	filePerm := os.FileMode(0o702)
	err := os.WriteFile(filePath, []byte("#!/bin/sh\n"), filePerm)
	assert.NoError(t, err)
	err = os.Chown(filePath, 0, 1000)
	assert.NoError(t, err)
	err = os.Chmod(filePath, filePerm)
	assert.NoError(t, err)

	// WHEN
	result, err := CheckFilePermissionsForExecution(filePath)

	// THEN
	assert.Equal(t, false, result)
	assert.Error(t, err)
}
