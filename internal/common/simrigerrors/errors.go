// Package simrigerrors contains generic errors returned by the planning,
// dispatch, and caching code. Callers discriminate on these types with
// errors.As to decide whether a failure is a configuration problem, a job
// failure, or a fetch failure.
//
// If multiple errors occur in some function (e.g., if several configuration
// fields are invalid), that function should return an error of type
// multierror.Error from package github.com/hashicorp/go-multierror that
// encapsulates those individual errors.
package simrigerrors

import (
	"fmt"
)

// ErrInvalidConfiguration is returned whenever configuration supplied to a
// component is outside its documented domain, e.g., a weight table with no
// positive weight or a parallelism bound below one.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidConfiguration struct {
	Name    string      // Name of the configuration field referred to, e.g., "parallelism"
	Value   interface{} // The invalid value that was provided
	Message string      // An optional message explaining why the value is invalid
}

func (err *ErrInvalidConfiguration) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %q is invalid for configuration field %q", err.Value, err.Name)
	} else {
		return fmt.Sprintf("value %q is invalid for configuration field %q; %s", err.Value, err.Name, err.Message)
	}
}

// ErrNotFound is a generic error to be returned whenever some resource isn't found,
// e.g., a settings key that a run mode requires.
// Type and Message are optional and are omitted from the error message if not provided.
type ErrNotFound struct {
	Type    string
	Value   string
	Message string
}

func (err *ErrNotFound) Error() (s string) {
	if err.Type != "" {
		s = fmt.Sprintf("resource %q of type %q does not exist", err.Value, err.Type)
	} else {
		s = fmt.Sprintf("resource %q does not exist", err.Value)
	}
	if err.Message != "" {
		return s + fmt.Sprintf("; %s", err.Message)
	} else {
		return s
	}
}

// ErrJobFailed indicates that the solve invocation for a single job returned
// an error. The dispatcher surfaces it only after the whole batch has
// drained, so receiving it says nothing about whether other jobs ran.
type ErrJobFailed struct {
	RunNo      string // 1-based sequence number of the failed job within its batch
	Datasource string // Datasource of the failed job, if any
	Err        error  // The error returned by the solve function
}

func (err *ErrJobFailed) Error() string {
	if err.Datasource != "" {
		return fmt.Sprintf("job %s for datasource %s failed: %s", err.RunNo, err.Datasource, err.Err)
	}
	return fmt.Sprintf("job %s failed: %s", err.RunNo, err.Err)
}

func (err *ErrJobFailed) Unwrap() error {
	return err.Err
}

// Cause exists for compatibility with github.com/pkg/errors.
func (err *ErrJobFailed) Cause() error {
	return err.Err
}

// ErrFetchFailed indicates that an outbound fetch performed by the cache
// could not produce usable data. StatusCode is zero for transport errors.
type ErrFetchFailed struct {
	Url        string
	StatusCode int
	Message    string
}

func (err *ErrFetchFailed) Error() (s string) {
	if err.StatusCode != 0 {
		s = fmt.Sprintf("fetching %s returned status %d", err.Url, err.StatusCode)
	} else {
		s = fmt.Sprintf("fetching %s failed", err.Url)
	}
	if err.Message != "" {
		return s + fmt.Sprintf("; %s", err.Message)
	} else {
		return s
	}
}
