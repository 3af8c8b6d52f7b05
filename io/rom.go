// Package io provides program memory images for the machine.
//
// A Rom is a sequence of 32-bit words, stored either as hex text (one word
// per line, optional 'ADDR:' prefix, '#' or ';' comments, '_' digit
// separators) or as big-endian binary.
package io

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ROM_LIMIT is the default maximum number of words in a text image.
const ROM_LIMIT = 0x10000

// Rom is a program memory image.
type Rom struct {
	Data  []uint32
	Limit int // Maximum words ReadFrom accepts. Zero uses ROM_LIMIT.
}

// ReadFrom parses a hex text image, replacing Data.
func (rom *Rom) ReadFrom(input io.Reader) (n int64, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	var data []uint32

	limit := rom.Limit
	if limit <= 0 {
		limit = ROM_LIMIT
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno++
		n += int64(len(text)) + 1

		line, _, _ := strings.Cut(text, "#")
		line, _, _ = strings.Cut(line, ";")
		line = strings.ReplaceAll(strings.TrimSpace(line), "_", "")
		if len(line) == 0 {
			continue
		}

		addr := len(data)
		if prefix, rest, ok := strings.Cut(line, ":"); ok {
			var a64 uint64
			a64, err = strconv.ParseUint(strings.TrimSpace(prefix), 16, 31)
			if err != nil {
				err = &ErrImage{LineNo: lineno, Err: errors.Join(ErrAddress, err)}
				return
			}
			addr = int(a64)
			line = strings.TrimSpace(rest)
		}

		if addr < len(data) || addr >= limit {
			err = &ErrImage{LineNo: lineno, Err: ErrAddress}
			return
		}

		var w64 uint64
		w64, err = strconv.ParseUint(strings.TrimPrefix(strings.ToLower(line), "0x"), 16, 32)
		if err != nil {
			err = &ErrImage{LineNo: lineno, Err: errors.Join(ErrWord, err)}
			return
		}

		for len(data) < addr {
			data = append(data, 0)
		}
		data = append(data, uint32(w64))
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	rom.Data = data
	return
}

// WriteTo writes a hex text image, one addressed word per line.
func (rom *Rom) WriteTo(output io.Writer) (n int64, err error) {
	for addr, word := range rom.Data {
		var wrote int
		wrote, err = fmt.Fprintf(output, "%04x: %08x\n", addr, word)
		n += int64(wrote)
		if err != nil {
			return
		}
	}

	return
}

// ReadBinary reads a big-endian binary image, replacing Data.
func (rom *Rom) ReadBinary(input io.Reader) (err error) {
	buff, err := io.ReadAll(input)
	if err != nil {
		return
	}

	if len(buff)%4 != 0 {
		err = ErrShortWord
		return
	}

	data := make([]uint32, len(buff)/4)
	for n := range data {
		data[n] = binary.BigEndian.Uint32(buff[n*4:])
	}

	rom.Data = data
	return
}

// WriteBinary writes a big-endian binary image.
func (rom *Rom) WriteBinary(output io.Writer) (err error) {
	buff := make([]byte, 0, len(rom.Data)*4)
	for _, word := range rom.Data {
		buff = binary.BigEndian.AppendUint32(buff, word)
	}

	_, err = output.Write(buff)
	return
}
