package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures produced by the analysis core.
// Values are stable for wire compatibility.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindInvalidFeatureVector is malformed numeric scorer input. Fatal to the call.
	KindInvalidFeatureVector
	// KindEmbeddingUnavailable is an embedding provider failure. Recovered locally.
	KindEmbeddingUnavailable
	// KindNarrativeUnavailable is a narrative augmenter failure. Recovered locally.
	KindNarrativeUnavailable
	// KindBatchSizeExceeded rejects a batch before any record is processed.
	KindBatchSizeExceeded
	// KindRecordProcessingFailed is an isolated per-record batch failure.
	KindRecordProcessingFailed
	// KindInvalidInput is a record that failed boundary validation.
	KindInvalidInput
)

var kindNames = map[Kind]string{
	KindUnknown:                "Unknown",
	KindInvalidFeatureVector:   "InvalidFeatureVector",
	KindEmbeddingUnavailable:   "EmbeddingUnavailable",
	KindNarrativeUnavailable:   "NarrativeUnavailable",
	KindBatchSizeExceeded:      "BatchSizeExceeded",
	KindRecordProcessingFailed: "RecordProcessingFailed",
	KindInvalidInput:           "InvalidInput",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Sentinels for errors.Is checks. Any *Error of the same kind matches.
var (
	ErrInvalidFeatureVector   = &Error{Kind: KindInvalidFeatureVector, Msg: "invalid feature vector"}
	ErrEmbeddingUnavailable   = &Error{Kind: KindEmbeddingUnavailable, Msg: "embedding unavailable"}
	ErrNarrativeUnavailable   = &Error{Kind: KindNarrativeUnavailable, Msg: "narrative unavailable"}
	ErrBatchSizeExceeded      = &Error{Kind: KindBatchSizeExceeded, Msg: "batch size exceeded"}
	ErrRecordProcessingFailed = &Error{Kind: KindRecordProcessingFailed, Msg: "record processing failed"}
	ErrInvalidInput           = &Error{Kind: KindInvalidInput, Msg: "invalid input"}
)

// Error is the structured error type of the core.
// Msg is developer facing, Kind is machine facing, Op tags the operation.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

// Wire is the JSON form of an error returned to callers.
type Wire struct {
	Kind    string `json:"kind"`
	Op      string `json:"op,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so callers can match against the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around cause. A nil cause yields nil.
func Wrap(cause error, kind Kind, op string) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Msg: kind.String(), Err: cause}
}

// KindOf extracts the outermost Kind from err, defaulting to KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// WireFrom converts any error into its wire form.
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	var e *Error
	if errors.As(err, &e) {
		return Wire{Kind: e.Kind.String(), Op: e.Op, Message: err.Error()}
	}
	return Wire{Kind: KindUnknown.String(), Message: err.Error()}
}
