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

package conjure_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palantir/conjure-sub002"
	"github.com/palantir/conjure-sub002/resolver"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestWalk(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"api.yml":              "",
		"b/other.yaml":         "",
		"b/data.json":          "",
		"b/readme.md":          "",
		"generated/skip.yml":   "",
		"b/nested/ignored.yml": "",
	})

	files, err := conjure.Walk(
		[]string{dir},
		conjure.WithExclude("generated", "b/nested/*.yml"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "api.yml"),
		filepath.Join(dir, "b", "data.json"),
		filepath.Join(dir, "b", "other.yaml"),
	}, files)
}

func TestWalkExplicitFile(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"api.yml": ""})
	path := filepath.Join(dir, "api.yml")

	files, err := conjure.Walk([]string{path, dir}, conjure.WithExclude("*.yml"))
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestWalkErrors(t *testing.T) {
	t.Parallel()

	_, err := conjure.Walk(nil)
	assert.Error(t, err)

	dir := writeFiles(t, map[string]string{"readme.md": ""})
	_, err = conjure.Walk([]string{dir})
	assert.ErrorContains(t, err, "no schema files found")

	_, err = conjure.Walk([]string{filepath.Join(dir, "missing")})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCompile(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"api.yml": `types:
  conjure-imports:
    common: common/common.yml
  definitions:
    default-package: com.example
    objects:
      Holder:
        fields:
          id: common.Id
`,
		"common/common.yml": `types:
  definitions:
    default-package: com.example.common
    objects:
      Id:
        alias: uuid
`,
	})

	result, err := conjure.Compile(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.NotNil(t, result.Definition)
	assert.Len(t, result.Definition.Types, 2)
}

func TestCompileFiles(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"api/api.yml": `types:
  conjure-imports:
    common: ../common/common.yml
  definitions:
    default-package: com.example
    objects:
      Holder:
        fields:
          id: common.Id
`,
		"common/common.yml": `types:
  definitions:
    default-package: com.example.common
    objects:
      Id:
        alias: uuid
`,
	})

	result, err := conjure.Compile(context.Background(), []string{filepath.Join(dir, "api")})
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Files, 2)
	assert.Equal(t, "common.yml", filepath.Base(result.Files[0]))
	assert.Equal(t, "common", filepath.Base(filepath.Dir(result.Files[0])))
	assert.Equal(t, "api.yml", filepath.Base(result.Files[1]))
}

func TestCompileParseError(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"api.yml": "types:\n  conjure-imports:\n    missing: missing.yml\n",
	})

	_, err := conjure.Compile(context.Background(), []string{dir})
	var resolveErr *resolver.Error
	require.ErrorAs(t, err, &resolveErr)
}
