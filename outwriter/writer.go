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

// Package outwriter is the external collaborator that serializes tuples
// to an output file: one per line, fields joined by ", ", no header.
package outwriter

import (
	"bufio"
	"os"

	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/blazeerr"
	"github.com/blazedb/blazedb/operator"
	"github.com/blazedb/blazedb/schema"
)

// Writer appends tuples, one per line, to an underlying file.
type Writer struct {
	f *os.File
	w *bufio.Writer
}

// Create opens path for writing, truncating any existing content.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, blazeerr.ErrIO.New(err.Error())
	}
	return &Writer{f: f, w: bufio.NewWriter(f)}, nil
}

// Write emits one line for t.
func (w *Writer) Write(t schema.Tuple) error {
	if _, err := w.w.WriteString(t.Key()); err != nil {
		return blazeerr.ErrIO.New(err.Error())
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return blazeerr.ErrIO.New(err.Error())
	}
	return nil
}

// Close flushes buffered output and releases the file handle.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return blazeerr.ErrIO.New(err.Error())
	}
	return w.f.Close()
}

// Drain pulls every tuple from root and writes it to path, closing the
// file whether or not an error occurs mid-stream.
func Drain(ctx *blazectx.Context, root operator.Operator, path string) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	rows, err := operator.Drain(ctx, root)
	if err != nil {
		return err
	}
	for _, t := range rows {
		if err := w.Write(t); err != nil {
			return err
		}
	}
	return nil
}
