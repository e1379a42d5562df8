// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package testutil

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"testing"
)

// Diagnostic is one entry of a testdata "diagnostics.json" catalog, which
// maps a stable key to the code and message of an error or warning.
type Diagnostic struct {
	Key     string
	Code    uint32
	Message string
	Pattern *regexp.Regexp
}

// Matches reports whether a reported message satisfies the catalog entry.
// Entries with neither a message nor a pattern match any message.
func (d *Diagnostic) Matches(message string) bool {
	if d.Pattern != nil {
		return d.Pattern.MatchString(message)
	}
	if d.Message != "" {
		return d.Message == message
	}
	return true
}

func LoadDiagnostics(testdata fs.FS, path string) (map[string]*Diagnostic, error) {
	type raw struct {
		Code    uint32 `json:"code"`
		Message string `json:"message"`
		Pattern string `json:"message_pattern"`
	}

	jsonData, err := fs.ReadFile(testdata, path)
	if err != nil {
		return nil, err
	}

	var rawDiagnostics map[string]raw
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()
	if err := decoder.Decode(&rawDiagnostics); err != nil {
		return nil, err
	}

	out := make(map[string]*Diagnostic, len(rawDiagnostics))
	codes := make(map[uint32]string, len(rawDiagnostics))
	for key, raw := range rawDiagnostics {
		if key[0] == '_' {
			continue
		}
		if raw.Code == 0 {
			return nil, fmt.Errorf("diagnostic %q has no code", key)
		}
		if other, conflict := codes[raw.Code]; conflict {
			return nil, fmt.Errorf("diagnostics %q and %q share code %d", key, other, raw.Code)
		}
		codes[raw.Code] = key

		var pattern *regexp.Regexp
		if raw.Pattern != "" {
			pattern, err = regexp.Compile(raw.Pattern)
			if err != nil {
				return nil, err
			}
		}
		out[key] = &Diagnostic{
			Key:     key,
			Code:    raw.Code,
			Message: raw.Message,
			Pattern: pattern,
		}
	}
	return out, nil
}

// Expected is the parsed content of an "expect_err.json" golden file.
type Expected struct {
	Errors   []*Diagnostic
	Warnings []*Diagnostic
}

func LoadExpected(
	t *testing.T,
	catalog map[string]*Diagnostic,
	testdata fs.FS,
	jsonPath string,
) *Expected {
	t.Helper()

	jsonData, err := fs.ReadFile(testdata, jsonPath)
	if err != nil {
		t.Fatal(err)
	}

	type entry struct {
		Key     string `json:"diagnostic"`
		Message string `json:"message"`
	}
	var raw struct {
		Errors   []entry `json:"errors"`
		Warnings []entry `json:"warnings"`
	}
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		t.Fatal(err)
	}

	lookup := func(entries []entry) []*Diagnostic {
		out := make([]*Diagnostic, 0, len(entries))
		for _, e := range entries {
			d, ok := catalog[e.Key]
			if !ok {
				t.Fatalf("%s: unknown diagnostic %q", jsonPath, e.Key)
			}
			if e.Message != "" {
				copied := *d
				copied.Message = e.Message
				copied.Pattern = nil
				d = &copied
			}
			out = append(out, d)
		}
		slices.SortStableFunc(out, func(a, b *Diagnostic) int {
			return cmp.Compare(a.Code, b.Code)
		})
		return out
	}

	return &Expected{
		Errors:   lookup(raw.Errors),
		Warnings: lookup(raw.Warnings),
	}
}

// Reported is the subset of a compiler diagnostic that golden tests compare.
type Reported interface {
	Code() uint32
	Message() string
}

// ExpectDiagnostics compares reported diagnostics with the expected ones.
// Both sides are ordered by code; the reported slice is not modified.
func ExpectDiagnostics[R Reported](t *testing.T, kind string, want []*Diagnostic, got []R) {
	t.Helper()

	sorted := slices.Clone(got)
	slices.SortStableFunc(sorted, func(a, b R) int {
		return cmp.Compare(a.Code(), b.Code())
	})

	for ii := range max(len(want), len(sorted)) {
		switch {
		case ii >= len(sorted):
			t.Errorf("missing %s %d: E%d %s", kind, ii, want[ii].Code, want[ii].Key)
		case ii >= len(want):
			t.Errorf("unexpected %s %d: E%d: %s", kind, ii, sorted[ii].Code(), sorted[ii].Message())
		case want[ii].Code != sorted[ii].Code():
			t.Errorf(
				"%s %d: expected E%d (%s), got E%d: %s",
				kind, ii, want[ii].Code, want[ii].Key, sorted[ii].Code(), sorted[ii].Message(),
			)
		case !want[ii].Matches(sorted[ii].Message()):
			t.Errorf(
				"%s %d (%s): message mismatch\n  want: %q\n   got: %q",
				kind, ii, want[ii].Key, want[ii].Message, sorted[ii].Message(),
			)
		}
	}
}
