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

package names

import (
	"fmt"
	"regexp"
	"strings"
)

type Case uint8

const (
	CaseUnknown Case = iota
	LowerCamelCase
	KebabCase
	SnakeCase
)

var casePatterns = []struct {
	c       Case
	pattern *regexp.Regexp
}{
	{LowerCamelCase, regexp.MustCompile(`^[a-z]([A-Z]{1,2}[a-z0-9]|[a-z0-9])*[A-Z]?$`)},
	{KebabCase, regexp.MustCompile(`^[a-z]((-[a-z]){1,2}[a-z0-9]|[a-z0-9])*(-[a-z])?$`)},
	{SnakeCase, regexp.MustCompile(`^[a-z]((_[a-z]){1,2}[a-z0-9]|[a-z0-9])*(_[a-z])?$`)},
}

func (c Case) String() string {
	switch c {
	case LowerCamelCase:
		return "LOWER_CAMEL_CASE"
	case KebabCase:
		return "KEBAB_CASE"
	case SnakeCase:
		return "SNAKE_CASE"
	default:
		return fmt.Sprintf("Case(%d)", uint8(c))
	}
}

func (c Case) pattern() string {
	for _, cp := range casePatterns {
		if cp.c == c {
			return cp.pattern.String()
		}
	}
	return ""
}

// FieldName names a member of an object, union, or error. The case family is
// detected once, when the name is parsed.
type FieldName struct {
	name string
	c    Case
}

func ParseFieldName(name string) (FieldName, error) {
	for _, cp := range casePatterns {
		if cp.pattern.MatchString(name) {
			return FieldName{name: name, c: cp.c}, nil
		}
	}
	return FieldName{}, errInvalidFieldName(name)
}

func (f FieldName) String() string {
	return f.name
}

func (f FieldName) Case() Case {
	return f.c
}

// ToCase converts f into the target case family. Two field names collide if
// their lowerCamelCase forms are equal.
func (f FieldName) ToCase(target Case) FieldName {
	if f.c == target || f.c == CaseUnknown {
		return f
	}
	words := f.words()
	var name string
	switch target {
	case LowerCamelCase:
		var b strings.Builder
		for ii, word := range words {
			if ii == 0 {
				b.WriteString(word)
				continue
			}
			b.WriteString(strings.ToUpper(word[:1]))
			b.WriteString(word[1:])
		}
		name = b.String()
	case KebabCase:
		name = strings.Join(words, "-")
	case SnakeCase:
		name = strings.Join(words, "_")
	default:
		return f
	}
	return FieldName{name: name, c: target}
}

func (f FieldName) words() []string {
	switch f.c {
	case KebabCase:
		return strings.Split(f.name, "-")
	case SnakeCase:
		return strings.Split(f.name, "_")
	}

	var words []string
	start := 0
	for ii := 1; ii < len(f.name); ii++ {
		if c := f.name[ii]; c >= 'A' && c <= 'Z' {
			words = append(words, strings.ToLower(f.name[start:ii]))
			start = ii
		}
	}
	return append(words, strings.ToLower(f.name[start:]))
}
