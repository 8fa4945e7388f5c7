package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeCmdExecution(t *testing.T) {
	// GIVEN
	executable := "/bin/echo"
	if _, err := os.Stat(executable); err != nil {
		t.Skip("/bin/echo not available")
	}

	// WHEN
	output, err := SafeCmdExecution(executable, []string{"hello"}, 5*time.Second)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "hello", output)
}

func TestSafeCmdExecutionTimeout(t *testing.T) {
	// GIVEN
	executable := "/bin/sleep"
	if _, err := os.Stat(executable); err != nil {
		t.Skip("/bin/sleep not available")
	}

	// WHEN
	_, err := SafeCmdExecution(executable, []string{"1"}, 50*time.Millisecond)

	// THEN
	assert.Error(t, err)
}

func TestSafeCmdExecutionRejectsWorldWritable(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "script")
	err := os.WriteFile(filePath, []byte("#!/bin/sh\necho hi\n"), 0o777)
	assert.NoError(t, err)
	// os.WriteFile mode is filtered by umask, so set the mode explicitly
	err = os.Chmod(filePath, 0o777)
	assert.NoError(t, err)

	// WHEN
	_, err = SafeCmdExecution(filePath, []string{}, 5*time.Second)

	// THEN
	assert.Error(t, err)
}
