package cpu

import (
	"iter"
)

// Bank is a fixed-capacity, zero-initialized storage with range-checked
// access. Width is informational: values are stored verbatim, never masked.
type Bank[T any] struct {
	Name  string // Name used in error reports.
	Width int    // Nominal element width in bits.

	cells []T
}

// NewBank creates a bank of 'capacity' zero cells.
func NewBank[T any](name string, capacity int, width int) (bank *Bank[T]) {
	bank = &Bank[T]{
		Name:  name,
		Width: width,
		cells: make([]T, max(capacity, 0)),
	}

	return
}

// Len returns the fixed capacity of the bank.
func (bank *Bank[T]) Len() int {
	return len(bank.cells)
}

// check validates an index against the bank capacity.
func (bank *Bank[T]) check(index int) (err error) {
	if index < 0 || index >= len(bank.cells) {
		err = ErrIndex{Bank: bank.Name, Index: index, Capacity: len(bank.cells)}
	}
	return
}

// Read returns the value at 'index'.
func (bank *Bank[T]) Read(index int) (value T, err error) {
	err = bank.check(index)
	if err != nil {
		return
	}

	value = bank.cells[index]
	return
}

// Write replaces the value at 'index'.
func (bank *Bank[T]) Write(index int, value T) (err error) {
	err = bank.check(index)
	if err != nil {
		return
	}

	bank.cells[index] = value
	return
}

// Cells iterates over every index and value in the bank.
func (bank *Bank[T]) Cells() iter.Seq2[int, T] {
	return func(yield func(index int, value T) bool) {
		for index, value := range bank.cells {
			if !yield(index, value) {
				return
			}
		}
	}
}

// Clear zeroes every cell.
func (bank *Bank[T]) Clear() {
	clear(bank.cells)
}
