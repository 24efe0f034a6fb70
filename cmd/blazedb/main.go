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

// Command blazedb runs a single query against a CSV-backed database
// directory and writes its result to an output file: wire a catalog,
// parse the query, plan it, pull the root to completion, write the
// output. Three positional arguments, no flags beyond the optional
// plan-dump debug aid.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/blazeerr"
	"github.com/blazedb/blazedb/catalog"
	"github.com/blazedb/blazedb/outwriter"
	"github.com/blazedb/blazedb/parse"
	"github.com/blazedb/blazedb/planner"
	"github.com/blazedb/blazedb/schema"
)

// Exit codes let a calling script branch on the error category, mirroring
// the §7 error kinds.
const (
	exitOK = iota
	exitUsage
	exitIO
	exitParse
	exitUnsupported
	exitSchemaMiss
	exitTypeMismatch
	exitInvariant
)

func main() {
	dumpPlan := flag.String("dump-plan", "", "write the planned query's output column names as YAML to this path")
	flag.Parse()

	args := flag.Args()
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: blazedb [--dump-plan path] <database_dir> <query_file> <output_file>")
		os.Exit(exitUsage)
	}

	os.Exit(run(args[0], args[1], args[2], *dumpPlan))
}

func run(databaseDir, queryFile, outputFile, dumpPlanPath string) int {
	ctx := blazectx.New()

	queryText, err := os.ReadFile(queryFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, blazeerr.ErrIO.New(err.Error()))
		return exitIO
	}

	stmt, err := parse.Parse(string(queryText))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}

	cat, err := catalog.Open(databaseDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}

	root, sch, err := planner.Plan(ctx, cat, stmt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}

	if dumpPlanPath != "" {
		if err := dumpPlan(sch, dumpPlanPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitCode(err)
		}
	}

	if err := outwriter.Drain(ctx, root, outputFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	return exitOK
}

// planDump is the shape written by --dump-plan: just the final output
// schema, since the operator tree itself has no exported introspection
// beyond Schema(). Good enough for a manual sanity check of column order.
type planDump struct {
	OutputColumns []string `yaml:"output_columns"`
}

func dumpPlan(sch *schema.Schema, path string) error {
	out, err := yaml.Marshal(planDump{OutputColumns: sch.Columns()})
	if err != nil {
		return blazeerr.ErrIO.New(err.Error())
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return blazeerr.ErrIO.New(err.Error())
	}
	return nil
}

// exitCode maps a blazeerr.Kind back to its §7 exit category, unwrapping
// errors annotated by blazeerr.Wrap until one matches a kind.
func exitCode(err error) int {
	for ; err != nil; err = errors.Unwrap(err) {
		switch {
		case blazeerr.ErrIO.Is(err):
			return exitIO
		case blazeerr.ErrParse.Is(err):
			return exitParse
		case blazeerr.ErrUnsupported.Is(err):
			return exitUnsupported
		case blazeerr.ErrSchemaMiss.Is(err):
			return exitSchemaMiss
		case blazeerr.ErrTypeMismatch.Is(err):
			return exitTypeMismatch
		case blazeerr.ErrInvariant.Is(err):
			return exitInvariant
		}
	}
	return exitUsage
}
