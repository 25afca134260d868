package insight

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ModelErrorKind classifies a failed language-model call.
type ModelErrorKind string

const (
	ModelNetwork     ModelErrorKind = "network"
	ModelQuotaOrAuth ModelErrorKind = "quota_or_auth"
	ModelUnknown     ModelErrorKind = "unknown"
)

// ModelCallError wraps a language-model failure with its classification.
type ModelCallError struct {
	Kind ModelErrorKind
	Err  error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call %s error: %v", e.Kind, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// ClassifyModelError returns the kind carried by a *ModelCallError, or infers
// one: deadlines, cancellations and net.Error are network failures,
// anything else is unknown.
func ClassifyModelError(err error) ModelErrorKind {
	var mce *ModelCallError
	if errors.As(err, &mce) {
		return mce.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ModelNetwork
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ModelNetwork
	}
	return ModelUnknown
}

// Conversational replies for the guarded and failed paths. These are the
// stable user-facing vocabulary; underlying causes only go to the log.
const (
	WelcomeMessage = "Hello! I'm your Earthquake Analysis Assistant. I can help you analyze seismic data, " +
		"identify patterns, and answer questions about recent earthquake activity. What would you like to know?"
	NoDataMessage            = "No earthquake data available for analysis. Please wait for data to load."
	MissingCredentialMessage = "Gemini AI integration requires an API key. Please set GEMINI_API_KEY in the service environment."
	FailureMessage           = "Sorry, I encountered an error while processing your request. Please try again."
)
