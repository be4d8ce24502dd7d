package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")
)

// failureOut receives the events zerolog failed to write.
var failureOut io.Writer = os.Stderr //nolint:gochecknoglobals

// writeFailed is installed as zerolog.ErrorHandler.
func writeFailed(err error) {
	if writeFailures != nil {
		writeFailures.Inc()
	}

	_, _ = fmt.Fprintf(failureOut, "itsm-authz: could not write log event: %v\n", err)
}
