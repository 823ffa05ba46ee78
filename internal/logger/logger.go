// Package logger is a small leveled console logger used across the
// service.
package logger

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	timeColor    = color.New(color.FgHiBlack)
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

func stamp() string {
	return timeColor.Sprintf("[%s]", time.Now().Format("15:04:05"))
}

// Info logs general information
func Info(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", stamp(), infoColor.Sprintf(format, args...))
}

// Success logs a completed operation
func Success(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", stamp(), successColor.Sprintf("✓ "+format, args...))
}

// Warning logs a recoverable problem
func Warning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", stamp(), warnColor.Sprintf("⚠ "+format, args...))
}

// Error logs a failure
func Error(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", stamp(), errorColor.Sprintf("✗ "+format, args...))
}

// Request logs one handled HTTP request with its status and duration
func Request(method, path string, statusCode int, duration time.Duration) {
	c := successColor
	switch {
	case statusCode >= 500:
		c = errorColor
	case statusCode >= 400:
		c = warnColor
	}
	fmt.Printf("%s %s %s %s %s\n",
		stamp(),
		c.Sprintf("%d", statusCode),
		method,
		path,
		timeColor.Sprint(duration.Round(time.Millisecond)),
	)
}
