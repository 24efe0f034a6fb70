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

// Package comparator is the test-time file comparator §8 describes:
// order-sensitive equality by default, and order-insensitive (multiset)
// equality for grouped-aggregation output whose emission order is
// explicitly unspecified.
package comparator

import (
	"bufio"
	"sort"
	"strings"
)

// Lines splits content into non-empty lines, in file order, with a
// trailing "\r" removed from each; other whitespace is kept.
func Lines(content string) []string {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Ordered reports whether got and want contain the same lines in the
// same order.
func Ordered(got, want string) bool {
	g, w := Lines(got), Lines(want)
	if len(g) != len(w) {
		return false
	}
	for i := range g {
		if g[i] != w[i] {
			return false
		}
	}
	return true
}

// Multiset reports whether got and want contain the same lines the same
// number of times, regardless of order - the comparator grouped
// aggregation output needs, since its emission order is unspecified.
func Multiset(got, want string) bool {
	g, w := sortedCopy(Lines(got)), sortedCopy(Lines(want))
	if len(g) != len(w) {
		return false
	}
	for i := range g {
		if g[i] != w[i] {
			return false
		}
	}
	return true
}

func sortedCopy(lines []string) []string {
	out := append([]string(nil), lines...)
	sort.Strings(out)
	return out
}
