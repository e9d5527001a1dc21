package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// stackTracer from pkg/errors
type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found while unwrapping given
// error, or nil when none of the layers carries one.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
}

// Format works like pkg/errors, with additions.
// %s is just the error message
// %+v is the full stack trace
// %v appends a compressed [filename:line] where the error was created
func (e *wrappedError) Format(s fmt.State, verb rune) {
	st := trimInternal(stackTrace(e))
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%+v\n", st)
	}
	io.WriteString(s, e.Error())
	if verb == 'v' && !s.Flag('+') && len(st) > 0 {
		writeSimpleFrame(s, st[0])
	}
}

// trimInternal cuts frames that belong to this package or the runtime
// from the top and the bottom of the trace.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && matchesFile(st[0], "custody/errors/", "/runtime/", "/_test/") {
		st = st[1:]
	}
	for len(st) > 0 && matchesFile(st[len(st)-1], "/runtime/") {
		st = st[:len(st)-1]
	}
	return st
}

func matchesFile(f errors.Frame, substrs ...string) bool {
	file, _ := fileLine(f)
	for _, sub := range substrs {
		if strings.Contains(file, sub) {
			return true
		}
	}
	return false
}

func fileLine(f errors.Frame) (string, int) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

func writeSimpleFrame(s io.Writer, f errors.Frame) {
	file, line := fileLine(f)
	chunks := strings.SplitN(file, "github.com/", 2)
	if len(chunks) == 2 {
		file = chunks[1]
	}
	fmt.Fprintf(s, " [%s:%d]", file, line)
}
