package dicom

import "fmt"

/*
===============================================================================
    Error Types
===============================================================================
*/

// NotADicom is an error representing that the input is not recognised as a valid dicom
type NotADicom struct {
	error
}

// UnsupportedDicom is an error representing that the `Dicom` is unsupported
type UnsupportedDicom struct {
	error
}

// CorruptElement is an error representing that an element header is truncated or inconsistent
type CorruptElement struct {
	error
}

// InsufficientBytes is an error representing that a declared value length exceeds the available input
type InsufficientBytes struct {
	error
}

// CorruptElementStream is an error representing that item / sequence nesting is unbalanced
type CorruptElementStream struct {
	error
}

// NotADicomError raises a `NotADicom` error
func NotADicomError(format string, a ...interface{}) *NotADicom {
	return &NotADicom{fmt.Errorf(format, a...)}
}

// UnsupportedDicomError raises a `UnsupportedDicom` error
func UnsupportedDicomError(format string, a ...interface{}) *UnsupportedDicom {
	return &UnsupportedDicom{fmt.Errorf(format, a...)}
}

// CorruptElementError raises a `CorruptElement` error
func CorruptElementError(format string, a ...interface{}) *CorruptElement {
	return &CorruptElement{fmt.Errorf(format, a...)}
}

// InsufficientBytesError raises a `InsufficientBytes` error
func InsufficientBytesError(format string, a ...interface{}) *InsufficientBytes {
	return &InsufficientBytes{fmt.Errorf(format, a...)}
}

// CorruptElementStreamError raises a `CorruptElementStream` error
func CorruptElementStreamError(format string, a ...interface{}) *CorruptElementStream {
	return &CorruptElementStream{fmt.Errorf(format, a...)}
}

func (e *NotADicom) Unwrap() error            { return e.error }
func (e *UnsupportedDicom) Unwrap() error     { return e.error }
func (e *CorruptElement) Unwrap() error       { return e.error }
func (e *InsufficientBytes) Unwrap() error    { return e.error }
func (e *CorruptElementStream) Unwrap() error { return e.error }
