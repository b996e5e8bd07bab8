package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents transport faults (timeouts, refused connections)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeStatus represents a response with a non-2xx status code
	ErrorTypeStatus ErrorType = "status"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeValidation represents invalid caller input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeSession represents session store errors
	ErrorTypeSession ErrorType = "session"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
)

// ScrapeError is the error type shared by the fetcher, collector and services
type ScrapeError struct {
	Type       ErrorType
	Page       int
	URL        string
	StatusCode int
	Message    string
	Err        error
	Time       time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Type)
	if e.Page > 0 {
		prefix = fmt.Sprintf("%s page %d", prefix, e.Page)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// AbortsRun reports whether the remaining pages of a run must be skipped.
// Only transport faults stop a run; status errors are per-page warnings.
func (e *ScrapeError) AbortsRun() bool {
	return e.Type == ErrorTypeNetwork
}

// WithPage returns a copy of the error tagged with a page number
func (e *ScrapeError) WithPage(page int) *ScrapeError {
	cp := *e
	cp.Page = page
	return &cp
}

// New creates a new ScrapeError
func New(errType ErrorType, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(url, message string, err error) *ScrapeError {
	e := New(ErrorTypeNetwork, message, err)
	e.URL = url
	return e
}

// NewStatus creates an error for a non-2xx response
func NewStatus(url string, statusCode int) *ScrapeError {
	e := New(ErrorTypeStatus, fmt.Sprintf("unexpected status code: %d", statusCode), nil)
	e.URL = url
	e.StatusCode = statusCode
	return e
}

// NewParsing creates a new parsing error
func NewParsing(message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, message, err)
}

// NewValidation creates a new validation error
func NewValidation(message string) *ScrapeError {
	return New(ErrorTypeValidation, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, message, err)
}

// NewSession creates a new session store error
func NewSession(message string, err error) *ScrapeError {
	return New(ErrorTypeSession, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, message, err)
}

// As finds the first ScrapeError in err's chain
func As(err error) (*ScrapeError, bool) {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsType reports whether err wraps a ScrapeError of the given type
func IsType(err error, errType ErrorType) bool {
	se, ok := As(err)
	return ok && se.Type == errType
}
