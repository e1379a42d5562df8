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

package compiler_test

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/palantir/conjure-sub002/compiler"
	"github.com/palantir/conjure-sub002/document"
	"github.com/palantir/conjure-sub002/internal/testutil"
	"github.com/palantir/conjure-sub002/ir"
	"github.com/palantir/conjure-sub002/report"
	"github.com/palantir/conjure-sub002/resolver"
)

var (
	testdata    fs.FS
	diagnostics map[string]*testutil.Diagnostic
)

func init() {
	testdata = os.DirFS("testdata")
	var err error
	diagnostics, err = testutil.LoadDiagnostics(testdata, "diagnostics.json")
	if err != nil {
		panic(err)
	}
}

func TestSchema(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(testdata, ".")
	testutil.AssertNoError(t, err)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		testName := entry.Name()
		t.Run(testName, func(t *testing.T) {
			specTest(t, testName)
		})
	}
}

func specTest(t *testing.T, testName string) {
	t.Parallel()

	expectErr := fmt.Sprintf("%s/expect_err.json", testName)
	if _, err := fs.Stat(testdata, expectErr); err == nil {
		testExpectErr(t, testName, expectErr)
	} else {
		testExpectOK(t, testName)
	}
}

func testExpectOK(t *testing.T, testName string) {
	expectJSON, err := fs.ReadFile(testdata, testName+"/expect_ok.json")
	testutil.AssertNoError(t, err)

	expected := &testutil.Expected{}
	expectWarnPath := testName + "/expect_warn.json"
	if _, err := fs.Stat(testdata, expectWarnPath); err == nil {
		expected = testutil.LoadExpected(t, diagnostics, testdata, expectWarnPath)
	}

	result := compileTestInputs(t, testName)
	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			testutil.ExpectNoError(t, err)
		}
		t.FailNow()
	}
	testutil.ExpectDiagnostics(t, "warning", expected.Warnings, result.Warnings)

	gotJSON, err := ir.Marshal(result.Definition)
	testutil.AssertNoError(t, err)
	testutil.ExpectJSONEq(t, expectJSON, gotJSON)
}

func testExpectErr(t *testing.T, testName string, expectErrPath string) {
	expected := testutil.LoadExpected(t, diagnostics, testdata, expectErrPath)
	if len(expected.Errors) == 0 {
		t.Fatalf("len(expected.Errors) == 0")
	}

	result := compileTestInputs(t, testName)
	if result.Definition != nil {
		t.Errorf("expected no definition when compilation fails")
	}
	testutil.ExpectDiagnostics(t, "error", expected.Errors, result.Errors)
	testutil.ExpectDiagnostics(t, "warning", expected.Warnings, result.Warnings)
}

func compileTestInputs(t *testing.T, testName string) compiler.CompileResult {
	t.Helper()
	sub, err := fs.Sub(testdata, testName)
	testutil.AssertNoError(t, err)

	ctx := context.Background()
	graph, err := resolver.ResolveAll(ctx, []string{"api.yml"},
		resolver.WithFileSystem(resolver.FromFS(sub)),
	)
	testutil.AssertNoError(t, err)
	return compiler.Compile(ctx, graph)
}

func compileFiles(t *testing.T, files map[string]string, opts ...compiler.CompileOption) compiler.CompileResult {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	ctx := context.Background()
	graph, err := resolver.ResolveAll(ctx, []string{"api.yml"},
		resolver.WithFileSystem(resolver.FromFS(fsys)),
	)
	testutil.AssertNoError(t, err)
	return compiler.Compile(ctx, graph, opts...)
}

const recursiveSchema = `types:
  definitions:
    default-package: com.example
    objects:
      Foo:
        fields:
          self: Foo
`

func TestErrorLocation(t *testing.T) {
	t.Parallel()

	result := compileFiles(t, map[string]string{"api.yml": recursiveSchema})
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	err := result.Errors[0]
	testutil.ExpectErrorCode(t, 3009, err)
	testutil.ExpectEq(t, "api.yml", err.File())
	testutil.ExpectEq(t, document.Position{Line: 5, Column: 7}, err.Position())
	testutil.ExpectEq(t, "E3009: Illegal recursive data type: Foo -> Foo", err.Error())
}

func TestWarningLocation(t *testing.T) {
	t.Parallel()

	result := compileFiles(t, map[string]string{"api.yml": `types:
  definitions:
    default-package: com.example
    objects:
      Foo:
        fields:
          snake_case: string
`})
	if len(result.Errors) > 0 {
		t.Fatal(result.Errors[0])
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
	warn := result.Warnings[0]
	testutil.ExpectEq(t, uint32(4000), warn.Code())
	testutil.ExpectEq(t, "api.yml", warn.File())
	testutil.ExpectEq(t, document.Position{Line: 7, Column: 11}, warn.Position())
	testutil.ExpectEq(t, "W4000: Field snake_case of com.example.Foo should be lowerCamelCase", warn.String())
}

func TestServicesFromRootsOnly(t *testing.T) {
	t.Parallel()

	result := compileFiles(t, map[string]string{
		"api.yml": `types:
  conjure-imports:
    common: common.yml
services:
  RootService:
    package: com.example
    endpoints:
      ping:
        http: GET /ping
        returns: common.Pong
`,
		"common.yml": `types:
  definitions:
    default-package: com.example.common
    objects:
      Pong:
        alias: string
services:
  ImportedService:
    endpoints:
      ping:
        http: GET /ping
`,
	})
	if len(result.Errors) > 0 {
		t.Fatal(result.Errors[0])
	}
	def := result.Definition
	if len(def.Services) != 1 {
		t.Fatalf("expected 1 service, got %d", len(def.Services))
	}
	testutil.ExpectEq(t, "RootService", def.Services[0].ServiceName.Name)
	if len(def.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(def.Types))
	}
	testutil.ExpectEq(t, ir.TypeName{Name: "Pong", Package: "com.example.common"}, def.Types[0].DefinitionName())
}

type passEvent struct {
	name   string
	errors int
}

type recorder struct {
	report.Reporter

	mu          sync.Mutex
	passes      []passEvent
	diagnostics []uint32
	paths       []string
}

func (r *recorder) PassFinished(pass string, elapsed time.Duration, errors int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passes = append(r.passes, passEvent{pass, errors})
}

func (r *recorder) Diagnostic(kind report.DiagnosticKind, code uint32, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, code)
}

func (r *recorder) EndpointPath(path string, templateVars int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, fmt.Sprintf("%s %d", path, templateVars))
}

func TestCompileReportsPasses(t *testing.T) {
	t.Parallel()

	r := &recorder{Reporter: report.Nop()}
	result := compileFiles(t, map[string]string{"api.yml": `types:
  definitions:
    default-package: com.example
services:
  Things:
    base-path: /things
    endpoints:
      get:
        http: GET /{thingId}/parts/{partId}
        args:
          thingId: string
          partId: string
`}, compiler.WithReporter(r))
	if len(result.Errors) > 0 {
		t.Fatal(result.Errors[0])
	}

	var passNames []string
	for _, p := range r.passes {
		passNames = append(passNames, p.name)
		testutil.ExpectEq(t, 0, p.errors)
	}
	testutil.ExpectSliceEq(t, []string{
		"register", "resolve", "recursion", "maps", "optionals",
		"members", "safety", "services", "constants", "emit",
	}, passNames)
	testutil.ExpectSliceEq(t, []string{"/things/{thingId}/parts/{partId} 2"}, r.paths)
	testutil.ExpectEq(t, 0, len(r.diagnostics))
}

func TestCompileReportsDiagnostics(t *testing.T) {
	t.Parallel()

	r := &recorder{Reporter: report.Nop()}
	result := compileFiles(t, map[string]string{"api.yml": recursiveSchema}, compiler.WithReporter(r))
	testutil.ExpectEq(t, 1, len(result.Errors))
	testutil.ExpectSliceEq(t, []uint32{3009}, r.diagnostics)

	idx := slices.IndexFunc(r.passes, func(p passEvent) bool { return p.name == "recursion" })
	if idx < 0 {
		t.Fatal("recursion pass was not reported")
	}
	testutil.ExpectEq(t, 1, r.passes[idx].errors)
	if slices.ContainsFunc(r.passes, func(p passEvent) bool { return p.name == "emit" }) {
		t.Error("emit pass should not run after errors")
	}
}
