package mesh

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/chazu/polymesh/pkg/logging"
)

// AssertInfo describes a failed contract check.
type AssertInfo struct {
	Message string
	File    string
	Line    int
}

func (a AssertInfo) String() string {
	if a.File == "" {
		return a.Message
	}
	return fmt.Sprintf("%s (%s:%d)", a.Message, a.File, a.Line)
}

// AssertionError is the panic value raised by PanicAssertHandler.
type AssertionError struct {
	Info AssertInfo
}

func (e *AssertionError) Error() string {
	return "mesh: assertion failed: " + e.Info.String()
}

// AssertHandler receives failed contract checks. A handler that returns
// normally lets the violating operation continue, which is undefined behavior.
type AssertHandler func(AssertInfo)

// PanicAssertHandler logs the diagnostic and panics with an *AssertionError.
// It is the default handler.
func PanicAssertHandler(info AssertInfo) {
	logging.Error("assertion failed", "msg", info.Message, "file", info.File, "line", info.Line)
	panic(&AssertionError{Info: info})
}

// LogAssertHandler only logs the diagnostic.
func LogAssertHandler(info AssertInfo) {
	logging.Error("assertion failed", "msg", info.Message, "file", info.File, "line", info.Line)
}

var assertHandler atomic.Pointer[AssertHandler]

func init() {
	h := AssertHandler(PanicAssertHandler)
	assertHandler.Store(&h)
}

// SetAssertHandler replaces the process-wide assertion handler and returns
// the previous one. A nil handler restores PanicAssertHandler.
func SetAssertHandler(h AssertHandler) AssertHandler {
	if h == nil {
		h = PanicAssertHandler
	}
	prev := assertHandler.Swap(&h)
	return *prev
}

// AssertionsEnabled reports whether contract checks are compiled in.
func AssertionsEnabled() bool {
	return assertionsEnabled
}

func expect(cond bool, msg string) {
	if assertionsEnabled && !cond {
		fail(msg)
	}
}

func expectf(cond bool, format string, args ...interface{}) {
	if assertionsEnabled && !cond {
		fail(fmt.Sprintf(format, args...))
	}
}

func fail(msg string) {
	info := AssertInfo{Message: msg}
	// skip fail and expect/expectf
	if _, file, line, ok := runtime.Caller(2); ok {
		info.File, info.Line = file, line
	}
	(*assertHandler.Load())(info)
}
