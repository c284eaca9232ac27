package ulogger_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-blockreader/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()

	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	r.Close()

	return buf.String()
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level           string
		expectedOutputs map[string]bool
	}{
		{
			level: "DEBUG",
			expectedOutputs: map[string]bool{
				"DEBUG": true,
				"INFO":  true,
				"WARN":  true,
				"ERROR": true,
			},
		},
		{
			level: "INFO",
			expectedOutputs: map[string]bool{
				"DEBUG": false,
				"INFO":  true,
				"WARN":  true,
				"ERROR": true,
			},
		},
		{
			level: "WARN",
			expectedOutputs: map[string]bool{
				"DEBUG": false,
				"INFO":  false,
				"WARN":  true,
				"ERROR": true,
			},
		},
		{
			level: "ERROR",
			expectedOutputs: map[string]bool{
				"DEBUG": false,
				"INFO":  false,
				"WARN":  false,
				"ERROR": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			// Capture the output of the logger
			output := captureStdout(func() {
				logger := ulogger.New("test-service", ulogger.WithLevel(tt.level))

				logger.Debugf("DEBUG message")
				logger.Infof("INFO message")
				logger.Warnf("WARN message")
				logger.Errorf("ERROR message")
			})

			// Check if the expected outputs are present in the captured output
			if got := strings.Contains(output, "DEBUG message"); got != tt.expectedOutputs["DEBUG"] {
				t.Errorf("expected DEBUG output: %v, got: %v", tt.expectedOutputs["DEBUG"], got)
			}

			if got := strings.Contains(output, "INFO message"); got != tt.expectedOutputs["INFO"] {
				t.Errorf("expected INFO output: %v, got: %v", tt.expectedOutputs["INFO"], got)
			}

			if got := strings.Contains(output, "WARN message"); got != tt.expectedOutputs["WARN"] {
				t.Errorf("expected WARN output: %v, got: %v", tt.expectedOutputs["WARN"], got)
			}

			if got := strings.Contains(output, "ERROR message"); got != tt.expectedOutputs["ERROR"] {
				t.Errorf("expected ERROR output: %v, got: %v", tt.expectedOutputs["ERROR"], got)
			}
		})
	}
}

func TestNewDefaultsToZerolog(t *testing.T) {
	logger := ulogger.New("test-service")
	require.NotNil(t, logger)

	_, ok := logger.(*ulogger.ZLoggerWrapper)
	assert.True(t, ok)
}

func TestNewWithGoCoreType(t *testing.T) {
	logger := ulogger.New("test-service", ulogger.WithLoggerType("gocore"))
	require.NotNil(t, logger)

	_, ok := logger.(*ulogger.GoCoreLogger)
	assert.True(t, ok)
}

func TestZeroLoggerNew(t *testing.T) {
	logger := ulogger.NewZeroLogger("parent", ulogger.WithLevel("ERROR"))
	require.NotNil(t, logger)

	child := logger.New("child")
	require.NotNil(t, child)

	// child inherits the parent's level
	assert.Equal(t, logger.LogLevel(), child.LogLevel())
}

func TestZeroLoggerDuplicate(t *testing.T) {
	logger := ulogger.NewZeroLogger("svc", ulogger.WithLevel("WARN"))

	dup := logger.Duplicate(ulogger.WithLevel("DEBUG"))
	require.NotNil(t, dup)
	assert.NotEqual(t, logger.LogLevel(), dup.LogLevel())
}

func TestTestLoggerIsSilent(t *testing.T) {
	output := captureStdout(func() {
		logger := ulogger.TestLogger{}
		logger.Debugf("should not appear")
		logger.Infof("should not appear")
		logger.Errorf("should not appear")
	})

	assert.Empty(t, output)

	logger := ulogger.TestLogger{}
	assert.Equal(t, 0, logger.LogLevel())
	assert.Equal(t, logger, logger.New("other"))
	assert.Equal(t, logger, logger.Duplicate())
}
