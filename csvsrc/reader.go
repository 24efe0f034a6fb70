// Copyright 2024 The BlazeDB Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package csvsrc is the external collaborator that turns a CSV file into
// a sequence of field-list rows: one row per line, fields split on comma
// with surrounding whitespace trimmed, no quoting or escaping.
package csvsrc

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/blazedb/blazedb/blazeerr"
)

// Reader streams rows from one CSV file. It is not safe for concurrent
// use - BlazeDB has exactly one reader per scan, reopened on Reset.
type Reader struct {
	path      string
	hasHeader bool

	f       *os.File
	scanner *bufio.Scanner
	header  []string
	read    bool // header line has been consumed
}

// Open opens path for reading. If hasHeader is true, the first line is
// consumed as column names and exposed via Header(); the caller is
// responsible for calling Header() before the first Next() if it needs
// the names (operator.NewScan reads it once, up front, to build its
// schema).
func Open(path string, hasHeader bool) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, blazeerr.ErrIO.New(err.Error())
	}

	r := &Reader{
		path:      path,
		hasHeader: hasHeader,
		f:         f,
		scanner:   bufio.NewScanner(f),
	}
	if hasHeader {
		if err := r.consumeHeader(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return r, nil
}

func (r *Reader) consumeHeader() error {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return blazeerr.ErrIO.New(err.Error())
		}
		r.header = nil
		return nil
	}
	r.header = splitFields(r.scanner.Text())
	return nil
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields
}

// Header returns the column names read from the first line, when the
// reader was opened with hasHeader true. Returns nil otherwise.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next row's fields, or io.EOF once the file is
// exhausted.
func (r *Reader) Next() ([]string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, blazeerr.ErrIO.New(err.Error())
		}
		return nil, io.EOF
	}
	line := r.scanner.Text()
	if strings.TrimSpace(line) == "" {
		return r.Next()
	}
	return splitFields(line), nil
}

// Reset closes the current file handle and reopens the file from the
// start, re-consuming the header line if applicable.
func (r *Reader) Reset() error {
	if r.f != nil {
		r.f.Close()
	}
	f, err := os.Open(r.path)
	if err != nil {
		return blazeerr.ErrIO.New(err.Error())
	}
	r.f = f
	r.scanner = bufio.NewScanner(f)
	r.header = nil
	if r.hasHeader {
		return r.consumeHeader()
	}
	return nil
}

// Close releases the file handle.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}
