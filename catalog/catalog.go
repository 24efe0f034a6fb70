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

// Package catalog is the external collaborator that resolves a table
// name to a CSV file path and, for header-less CSVs, supplies the column
// names from a side-channel schema file. BlazeDB's core only ever sees
// the narrow *catalog.Table shape below; how table metadata is stored is
// this package's concern alone, the way the teacher replaces a global
// catalog singleton with an explicit value threaded through the planner.
package catalog

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/blazedb/blazedb/blazeerr"
)

// SchemaFileName is the well-known file, relative to a database
// directory, listing one header-less table per line:
// "TableName col1 col2 ... colN".
const SchemaFileName = "schema.txt"

// Table is everything the planner needs to know about one table: where
// its data lives, whether the scan should treat the first line as a
// header, and - when it shouldn't - what the column names are.
type Table struct {
	Name       string
	Path       string
	HasHeader  bool
	Columns    []string // only meaningful when !HasHeader
}

// Catalog resolves table names to Table descriptors for one database
// directory. It is built once per query and is never a process-wide
// singleton.
type Catalog struct {
	dir     string
	schemas map[string][]string // table name -> column names, from schema.txt
}

// Open builds a Catalog rooted at dir, reading dir/schema.txt if present.
// A missing schema file is not an error: it simply means every table in
// dir is assumed to carry its own CSV header.
func Open(dir string) (*Catalog, error) {
	c := &Catalog{dir: dir, schemas: map[string][]string{}}

	f, err := os.Open(filepath.Join(dir, SchemaFileName))
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, blazeerr.ErrIO.New(err.Error())
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, blazeerr.ErrParse.New("malformed schema.txt line: " + line)
		}
		c.schemas[fields[0]] = fields[1:]
	}
	if err := scanner.Err(); err != nil {
		return nil, blazeerr.ErrIO.New(err.Error())
	}
	return c, nil
}

// Resolve returns the Table descriptor for the given table name.
func (c *Catalog) Resolve(name string) (*Table, error) {
	path := filepath.Join(c.dir, name+".csv")
	if cols, ok := c.schemas[name]; ok {
		return &Table{Name: name, Path: path, HasHeader: false, Columns: cols}, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, blazeerr.ErrIO.New("no such table: " + name)
		}
		return nil, blazeerr.ErrIO.New(err.Error())
	}
	return &Table{Name: name, Path: path, HasHeader: true}, nil
}
