package ui

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// LogLevel filters which severities are printed.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

var currentLevel = LevelInfo

// SetLogLevel sets the minimum severity that is printed.
// Accepted names: DEBUG, INFO, WARNING, ERROR (case-insensitive).
// Unknown names leave the level unchanged.
func SetLogLevel(name string) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		currentLevel = LevelDebug
		pterm.EnableDebugMessages()
	case "INFO":
		currentLevel = LevelInfo
	case "WARNING":
		currentLevel = LevelWarning
	case "ERROR":
		currentLevel = LevelError
	}
}

// SetDebugEnabled forces debug output on, overriding the configured level.
func SetDebugEnabled(enabled bool) {
	if enabled {
		pterm.EnableDebugMessages()
		currentLevel = LevelDebug
	} else {
		pterm.DisableDebugMessages()
		if currentLevel == LevelDebug {
			currentLevel = LevelInfo
		}
	}
}

func Print(a ...interface{}) {
	pterm.Print(a...)
}

func Printf(format string, a ...interface{}) {
	pterm.Printf(format, a...)
}

func Printfln(format string, a ...interface{}) {
	pterm.Printfln(format, a...)
}

func Debug(format string, a ...interface{}) {
	if currentLevel > LevelDebug {
		return
	}
	pterm.Debug.Printfln(format, a...)
}

func Info(format string, a ...interface{}) {
	if currentLevel > LevelInfo {
		return
	}
	pterm.Info.Printfln(format, a...)
}

func Success(format string, a ...interface{}) {
	if currentLevel > LevelInfo {
		return
	}
	pterm.Success.Printfln(format, a...)
}

func Warning(format string, a ...interface{}) {
	if currentLevel > LevelWarning {
		return
	}
	pterm.Warning.Printfln(format, a...)
}

func Error(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

func ErrorAndNotify(title string, format string, a ...interface{}) {
	Error(format, a...)
	NotifyError(title, format, a...)
}

func Fatal(format string, a ...interface{}) {
	pterm.Fatal.Printfln(format, a...)
}

func FatalWithoutStacktrace(format string, a ...interface{}) {
	pterm.Fatal.WithFatal(false).Printfln(format, a...)
	os.Exit(1)
}
