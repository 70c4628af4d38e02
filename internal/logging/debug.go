package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DebugEnv switches on trace output for code that runs before, or without,
// an application Logger, such as schema migrations.
const DebugEnv = "TM_DEBUG"

var debugOutput io.Writer = os.Stderr

// DebugEnabled reports whether TM_DEBUG is set to a non-empty value.
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

// Debugf writes one "debug: " prefixed line to stderr when TM_DEBUG is set.
func Debugf(format string, args ...any) {
	if !DebugEnabled() {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(debugOutput, "debug: %s\n", line)
}
