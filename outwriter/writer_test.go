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

package outwriter

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/schema"
)

func TestWriterJoinsFieldsWithCommaSpace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(schema.Tuple{"1", "2"}))
	require.NoError(t, w.Write(schema.Tuple{"3"}))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "1, 2\n3\n", string(content))
}

func TestDrainWritesEveryTuple(t *testing.T) {
	sch := schema.New("R.A")
	src := &fakeOp{sch: sch, rows: []schema.Tuple{{"1"}, {"2"}}}
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, Drain(blazectx.New(), src, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n", string(content))
}

type fakeOp struct {
	sch    *schema.Schema
	rows   []schema.Tuple
	cursor int
}

func (f *fakeOp) Schema() *schema.Schema { return f.sch }

func (f *fakeOp) Next(ctx *blazectx.Context) (schema.Tuple, error) {
	if f.cursor >= len(f.rows) {
		return nil, io.EOF
	}
	t := f.rows[f.cursor]
	f.cursor++
	return t, nil
}

func (f *fakeOp) Reset(ctx *blazectx.Context) error {
	f.cursor = 0
	return nil
}
