package logger

import (
	"bytes"
	"errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os/exec"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.PanicLevel, ParseLevel("PANIC"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewLoggerLevel(t *testing.T) {
	t.Setenv(LogLevelEnv, "ERROR")
	taggerLogger := NewLogger("test")
	assert.False(t, taggerLogger.Warn().Enabled())
	assert.True(t, taggerLogger.Error().Enabled())
}

func TestLogFilter(t *testing.T) {
	var out, logs bytes.Buffer
	filter := newLogFilter(&out, zerolog.New(&logs))

	input := strings.Join([]string{
		`{"level_name":"info","message":"started"}`,
		``,
		`plain text`,
		`panic: boom`,
		`goroutine 1 [running]:`,
		`{"level_name":"info","message":"after panic"}`,
	}, "\n")
	require.NoError(t, filter.copyLines(strings.NewReader(input)))

	assert.Equal(t, "{\"level_name\":\"info\",\"message\":\"started\"}\n", out.String())
	assert.Contains(t, logs.String(), "plain text")
	assert.Equal(t, "panic: boom\ngoroutine 1 [running]:\n{\"level_name\":\"info\",\"message\":\"after panic\"}\n",
		filter.panicDump.String())

	logs.Reset()
	filter.finish(2)
	assert.Contains(t, logs.String(), `"exit_code":2`)
	assert.Contains(t, logs.String(), "panic: boom")
}

func TestExitCodeOf(t *testing.T) {
	assert.Equal(t, 0, exitCodeOf(nil))
	assert.Equal(t, 1, exitCodeOf(errors.New("not started")))

	err := exec.Command("sh", "-c", "exit 3").Run()
	if err == nil {
		t.Skip("sh is not available")
	}
	assert.Equal(t, 3, exitCodeOf(err))
}
