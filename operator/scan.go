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

package operator

import (
	"io"

	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/catalog"
	"github.com/blazedb/blazedb/csvsrc"
	"github.com/blazedb/blazedb/schema"
)

// Scan streams tuples from a CSV-backed table. It is the only operator
// that touches disk; every other operator's Next is pure CPU work over
// tuples already in memory.
type Scan struct {
	table  *catalog.Table
	reader *csvsrc.Reader
	sch    *schema.Schema
}

// NewScan opens tbl's CSV file and builds its output schema: from the
// file's own header row when tbl.HasHeader, or from the catalog-supplied
// column list otherwise. Either way, column names are qualified as
// "Table.Column".
func NewScan(tbl *catalog.Table) (*Scan, error) {
	reader, err := csvsrc.Open(tbl.Path, tbl.HasHeader)
	if err != nil {
		return nil, err
	}

	var columns []string
	if tbl.HasHeader {
		columns = reader.Header()
	} else {
		columns = tbl.Columns
	}

	qualified := make([]string, len(columns))
	for i, c := range columns {
		qualified[i] = tbl.Name + "." + c
	}

	return &Scan{
		table:  tbl,
		reader: reader,
		sch:    schema.New(qualified...),
	}, nil
}

// Schema implements Operator.
func (s *Scan) Schema() *schema.Schema {
	return s.sch
}

// Next implements Operator. I/O errors are surfaced for the current pull
// and the stream is considered terminated: BlazeDB does not retry a
// failed read.
func (s *Scan) Next(ctx *blazectx.Context) (schema.Tuple, error) {
	fields, err := s.reader.Next()
	if err != nil {
		if err != io.EOF {
			ctx.Log().WithFields(map[string]interface{}{
				"system": "scan",
				"table":  s.table.Name,
				"err":    err,
			}).Warn("scan read failed")
		}
		return nil, err
	}
	return schema.Tuple(fields), nil
}

// Reset re-opens the CSV file from the start, closing the previous
// handle first.
func (s *Scan) Reset(ctx *blazectx.Context) error {
	return s.reader.Reset()
}

// Close releases the scan's file handle. It is not part of the Operator
// interface (most operators hold no resources to release), and neither
// planner.Plan nor cmd/blazedb calls it: a Scan built by the planner
// keeps its file handle open after the query finishes emission.
func (s *Scan) Close() error {
	return s.reader.Close()
}
