package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Reporter prints progress for a long-running pack/extract to stderr,
// overwriting a single line. Generalized from the teacher's Reporter (which
// drove a GUI progress callback interface) down to a terminal-only bar,
// since this engine has no GUI surface.
type Reporter struct {
	mu       sync.Mutex
	quiet    bool
	lastLine int
}

// NewReporter returns a Reporter; when quiet is true only errors print.
func NewReporter(quiet bool) *Reporter {
	return &Reporter{quiet: quiet}
}

// Progress updates the single progress line with a fraction in [0, 1] and
// a short status string.
func (r *Reporter) Progress(fraction float64, status string) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	const width = 30
	filled := min(int(fraction*width), width)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	line := fmt.Sprintf("\r[%s] %s", bar, status)
	if len(line) < r.lastLine {
		line += strings.Repeat(" ", r.lastLine-len(line))
	}
	r.lastLine = len(line)
	fmt.Fprint(os.Stderr, line)
}

// Finish moves the cursor past the progress line.
func (r *Reporter) Finish() {
	if !r.quiet {
		fmt.Fprintln(os.Stderr)
	}
}

func (r *Reporter) PrintError(format string, args ...any) {
	if !r.quiet && r.lastLine > 0 {
		fmt.Fprintln(os.Stderr)
	}
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

func (r *Reporter) PrintSuccess(format string, args ...any) {
	if r.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
