// Package dicomerr defines the fatal-error taxonomy the streaming codec
// surfaces (spec §7). Non-fatal anomalies never reach here: they are logged
// through dicomlog and recovered from in place. Value decoders never
// produce a dicomerr value; they are total and fail soft.
package dicomerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the fatal error categories from spec §7.
type Kind int

const (
	// KindNotDicom means autodetection failed at the very start of the
	// stream: neither endianness yields a plausible tag/VR/length.
	KindNotDicom Kind = iota
	// KindImplicitBigEndianNotSupported means autodetection found only a
	// big-endian interpretation for an FMI-range tag, a combination the
	// standard doesn't define.
	KindImplicitBigEndianNotSupported
	// KindTruncated means the upstream closed mid-header or mid-required
	// read, as opposed to a clean truncation inside a value or deflated
	// chunk (which completes the stream instead of failing it).
	KindTruncated
	// KindBufferOverflow means the collect flow's maxBufferSize was
	// exceeded before its stop condition fired.
	KindBufferOverflow
	// KindInvalidPath means a TagPath's shape doesn't match what the
	// target structure at that position expects (e.g. a Tag path where a
	// Sequence/Item trunk is required).
	KindInvalidPath
	// KindUnknownKeyword means a keyword-to-tag lookup found no match.
	KindUnknownKeyword
)

func (k Kind) String() string {
	switch k {
	case KindNotDicom:
		return "NotDicom"
	case KindImplicitBigEndianNotSupported:
		return "ImplicitBigEndianNotSupported"
	case KindTruncated:
		return "Truncated"
	case KindBufferOverflow:
		return "BufferOverflow"
	case KindInvalidPath:
		return "InvalidPath"
	case KindUnknownKeyword:
		return "UnknownKeyword"
	default:
		return "Unknown"
	}
}

// Error is the concrete fatal-error type returned by the parser, collect
// flow, and Elements path mutators. Compare kinds with errors.As, not
// string matching.
type Error struct {
	Kind Kind
	// Pos is the stream byte offset at which the error was detected, or -1
	// when not applicable (e.g. InvalidPath).
	Pos int64
	Msg string
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s (offset %d)", e.Kind, e.Msg, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds an Error without a byte offset.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: -1, Msg: fmt.Sprintf(format, args...)}
}

// At builds an Error carrying a byte offset.
func At(kind Kind, pos int64, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a *Error of the given kind. Callers use this
// instead of type-asserting *Error themselves:
//
//	if dicomerr.Is(err, dicomerr.KindTruncated) { ... }
func Is(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}
