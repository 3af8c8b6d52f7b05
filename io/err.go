package io

import (
	"errors"

	"github.com/ezrec/minicpu/translate"
)

var f = translate.From

var (
	// Image errors
	ErrAddress   = errors.New(f("image address invalid"))
	ErrWord      = errors.New(f("image word invalid"))
	ErrShortWord = errors.New(f("image ends inside a word"))
)

// ErrImage indicates the line of a malformed text image.
type ErrImage struct {
	LineNo int
	Err    error
}

func (err *ErrImage) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrImage) Unwrap() error {
	return err.Err
}
