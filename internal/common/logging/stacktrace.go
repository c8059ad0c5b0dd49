package logging

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const stacktraceField = "stacktrace"

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// WithStacktrace adds err to the entry and, when any error in the chain
// carries a pkg/errors stack trace, the innermost such trace.
func WithStacktrace(entry *logrus.Entry, err error) *logrus.Entry {
	entry = entry.WithError(err)
	if stack := innermostStack(err); stack != nil {
		entry = entry.WithField(stacktraceField, stack)
	}
	return entry
}

// innermostStack returns the stack trace recorded closest to where the error
// chain started, or nil when no wrapped error carries one.
func innermostStack(err error) errors.StackTrace {
	var stack errors.StackTrace
	for err != nil {
		if tracer, ok := err.(stackTracer); ok {
			stack = tracer.StackTrace()
		}
		err = errors.Unwrap(err)
	}
	return stack
}
