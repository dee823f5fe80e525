package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"io"
	"os"
	"os/exec"
	"runtime/debug"
	"strings"
)

// WrapProcess runs executable as a child whose stderr is re-emitted line by line: JSON
// records pass through, a Go panic dump is collected into a single fatal record. It exits
// with the child's exit code and never returns.
func WrapProcess(executable string, arg ...string) {
	wrapperLogger := NewLogger("Logs wrapper")
	defer handlePanic(wrapperLogger)

	r, w, err := os.Pipe()
	if err != nil {
		wrapperLogger.Fatal().Err(err).Msg("Could not create pipe for logs")
	}

	cmd := exec.Command(executable, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = w
	if err = cmd.Start(); err != nil {
		wrapperLogger.Fatal().Err(err).Msg("Could not launch main process")
	}
	// the child holds its own copy of the write end
	_ = w.Close()

	filter := newLogFilter(os.Stdout, wrapperLogger)
	if err = filter.copyLines(r); err != nil {
		wrapperLogger.Error().Err(err).Msg("Error scanning piped main process's Stderr")
	}
	exitCode := exitCodeOf(cmd.Wait())
	filter.finish(exitCode)
	os.Exit(exitCode)
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// logFilter sorts the lines of a child's stderr into passed through JSON records,
// panic output and stray text.
type logFilter struct {
	out       io.Writer
	logger    zerolog.Logger
	inPanic   bool
	panicDump strings.Builder
}

func newLogFilter(out io.Writer, logger zerolog.Logger) *logFilter {
	return &logFilter{out: out, logger: logger}
}

func (filter *logFilter) copyLines(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		filter.handleLine(scanner.Bytes())
	}
	return scanner.Err()
}

func (filter *logFilter) handleLine(line []byte) {
	if len(line) == 0 {
		return
	}
	if !filter.inPanic && (strings.HasPrefix(string(line), "panic") || strings.HasPrefix(string(line), "fatal error")) {
		filter.inPanic = true
	}
	switch {
	case filter.inPanic:
		filter.panicDump.Write(line)
		filter.panicDump.WriteByte('\n')
	case json.Valid(line):
		_, _ = fmt.Fprintf(filter.out, "%s\n", line)
	default:
		filter.logger.Error().Str("line", string(line)).Msg("Got log line that is not JSON formatted")
	}
}

func (filter *logFilter) finish(exitCode int) {
	if exitCode == 0 {
		filter.logger.Info().Msg("Exited with code 0")
		return
	}
	event := filter.logger.WithLevel(zerolog.FatalLevel).Int("exit_code", exitCode)
	if filter.panicDump.Len() > 0 {
		event = event.Str("stack_trace", filter.panicDump.String())
	}
	event.Msgf("Panicked and exited with code: %d", exitCode)
}

func handlePanic(wrapperLogger zerolog.Logger) {
	r := recover()
	if r == nil {
		return
	}
	wrapperLogger.Fatal().
		Caller().
		Str("error", fmt.Sprint(r)).
		Str("stack_trace", string(debug.Stack())).
		Msg("Program panicked and exited")
}
