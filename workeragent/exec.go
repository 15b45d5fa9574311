package workeragent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-shellwords"
)

// Execution exit codes reserved for anomalies that never reach the
// child process's own exit status, per spec §4.4 and §7.
const (
	ExitParseError      = 2
	ExitTimeout         = 124
	ExitCommandNotFound = 127
)

// result is the outcome of running one job's command.
type result struct {
	ExitCode      int
	Text          string
	FailureReason string
}

// runJob parses command with POSIX shell-style word-splitting — quotes
// honored, no globbing, no variable expansion, no shell invocation —
// and executes it directly with a hard wall-clock timeout.
func runJob(ctx context.Context, command string, timeout time.Duration, workDir string) result {
	argv, err := shellwords.Parse(command)
	if err != nil {
		return result{ExitCode: ExitParseError, FailureReason: fmt.Sprintf("invalid command: %s", err)}
	}
	if len(argv) == 0 {
		return result{ExitCode: ExitParseError, FailureReason: "invalid command: empty command"}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	text := toUTF8Lossy(stdout.Bytes()) + toUTF8Lossy(stderr.Bytes())

	if runCtx.Err() == context.DeadlineExceeded {
		return result{
			ExitCode:      ExitTimeout,
			Text:          text,
			FailureReason: fmt.Sprintf("timeout exceeded (%ds)", int(timeout.Seconds())),
		}
	}

	var notFound *exec.Error
	if errors.As(runErr, &notFound) {
		return result{
			ExitCode:      ExitCommandNotFound,
			FailureReason: fmt.Sprintf("command not found: %s", argv[0]),
		}
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return result{ExitCode: exitErr.ExitCode(), Text: text}
	}
	if runErr != nil {
		return result{
			ExitCode:      ExitCommandNotFound,
			FailureReason: fmt.Sprintf("command not found: %s", argv[0]),
		}
	}
	return result{ExitCode: 0, Text: text}
}

// toUTF8Lossy decodes b as UTF-8, replacing any invalid byte sequence
// with the Unicode replacement character, matching Python's
// errors="replace" decoding of captured subprocess output.
func toUTF8Lossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}
