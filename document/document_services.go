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

package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/palantir/conjure-sub002/names"
	"github.com/palantir/conjure-sub002/syntax"
)

type ServiceDefinition struct {
	Name names.TypeName
	// Value of the deprecated "name" key, if present.
	DeprecatedName string
	Package        names.ConjurePackage
	Docs           string
	DefaultAuth    AuthDefinition
	BasePath       PathString
	Endpoints      []*EndpointDefinition
	Pos            Position
}

type EndpointDefinition struct {
	Name names.EndpointName
	HTTP RequestLine
	// Nil if the endpoint inherits the service's default auth.
	Auth       *AuthDefinition
	Args       []*ArgumentDefinition
	Tags       []string
	Markers    []syntax.Type
	Returns    syntax.Type
	Docs       string
	Deprecated string
	Errors     []*EndpointError
	Pos        Position
}

type RequestLine struct {
	Method string
	Path   PathString
}

type ArgumentDefinition struct {
	Name      names.ParameterName
	Type      syntax.Type
	Docs      string
	ParamID   string
	ParamType ParamType
	Markers   []syntax.Type
	Tags      []string
	Safety    Safety
	Pos       Position
}

type EndpointError struct {
	Error syntax.Type
	Docs  string
	Pos   Position
}

type ParamType uint8

const (
	ParamAuto ParamType = iota
	ParamPath
	ParamQuery
	ParamHeader
	ParamBody
)

func (p ParamType) String() string {
	switch p {
	case ParamAuto:
		return "auto"
	case ParamPath:
		return "path"
	case ParamQuery:
		return "query"
	case ParamHeader:
		return "header"
	case ParamBody:
		return "body"
	default:
		return fmt.Sprintf("ParamType(%d)", uint8(p))
	}
}

func parseParamType(value string) (ParamType, bool) {
	for p := ParamAuto; p <= ParamBody; p++ {
		if strings.EqualFold(value, p.String()) {
			return p, true
		}
	}
	return ParamAuto, false
}

type AuthType uint8

const (
	AuthNone AuthType = iota
	AuthHeader
	AuthCookie
)

func (a AuthType) String() string {
	switch a {
	case AuthNone:
		return "none"
	case AuthHeader:
		return "header"
	case AuthCookie:
		return "cookie"
	default:
		return fmt.Sprintf("AuthType(%d)", uint8(a))
	}
}

const authHeaderID = "Authorization"

// AuthDefinition is the authentication scheme of an endpoint. ID is the
// cookie name for cookie auth.
type AuthDefinition struct {
	Type AuthType
	ID   string
}

func (a AuthDefinition) String() string {
	return a.Type.String() + ":" + a.ID
}

func NoAuth() AuthDefinition {
	return AuthDefinition{Type: AuthNone, ID: "NONE"}
}

// ParseAuth parses the shorthand forms "none", "header", and "cookie:NAME".
func ParseAuth(value string) (AuthDefinition, error) {
	kind, id, hasID := strings.Cut(value, ":")
	return newAuth(value, kind, id, hasID)
}

func newAuth(value, kind, id string, hasID bool) (AuthDefinition, error) {
	switch strings.ToLower(kind) {
	case "none":
		return NoAuth(), nil
	case "header":
		return AuthDefinition{Type: AuthHeader, ID: authHeaderID}, nil
	case "cookie":
		if !hasID || id == "" {
			return AuthDefinition{}, fmt.Errorf("Cookie authorization type must include a cookie name")
		}
		return AuthDefinition{Type: AuthCookie, ID: id}, nil
	}
	return AuthDefinition{}, fmt.Errorf("Unknown authorization type: %q", value)
}

var (
	pathSegmentPattern      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	pathParamSegmentPattern = regexp.MustCompile(`^\{([a-z][a-z0-9]*(?:[A-Z0-9][a-z0-9]+)*)(:\.\+|:\.\*)?\}$`)
	pathParamPattern        = regexp.MustCompile(`\{[^}]*\}`)
)

// PathString is an absolute HTTP path template such as "/items/{itemId}".
type PathString struct {
	path     string
	segments []pathSegment
}

type pathSegment struct {
	literal  string
	variable string
	// ":.+" or ":.*", if the variable declares a pattern.
	pattern string
}

func RootPath() PathString {
	return PathString{path: "/"}
}

func ParsePathString(path string) (PathString, error) {
	if !strings.HasPrefix(path, "/") {
		return PathString{}, fmt.Errorf("Conjure paths must be absolute, i.e., start with '/': %s", path)
	}
	if path == "/" {
		return RootPath(), nil
	}
	if strings.HasSuffix(path, "/") {
		return PathString{}, fmt.Errorf("Conjure paths must not end with a '/': %s", path)
	}

	raw := strings.Split(path[1:], "/")
	segments := make([]pathSegment, 0, len(raw))
	for _, segment := range raw {
		if pathSegmentPattern.MatchString(segment) {
			segments = append(segments, pathSegment{literal: segment})
			continue
		}
		match := pathParamSegmentPattern.FindStringSubmatch(segment)
		if match == nil {
			return PathString{}, fmt.Errorf(
				"Segment %s of path %s did not match required segment patterns %s or parameter name patterns %s",
				segment, path, pathSegmentPattern, pathParamSegmentPattern,
			)
		}
		segments = append(segments, pathSegment{
			variable: match[1],
			pattern:  strings.TrimPrefix(match[2], ":"),
		})
	}
	p := PathString{path: path, segments: segments}
	if err := p.Validate(); err != nil {
		return PathString{}, err
	}
	return p, nil
}

// Validate checks the rules that span segments: a variable appears at most
// once, and only the last segment may use the ".*" pattern. A path joined
// by [PathString.Resolve] can break them even when both halves are valid.
func (p PathString) Validate() error {
	seen := make(map[string]struct{})
	for ii, segment := range p.segments {
		if segment.variable == "" {
			continue
		}
		if _, dup := seen[segment.variable]; dup {
			return fmt.Errorf("Path parameter %s appears more than once in path %s", segment.variable, p)
		}
		seen[segment.variable] = struct{}{}
		if segment.pattern == ".*" && ii != len(p.segments)-1 {
			return fmt.Errorf(
				"Path parameter {%s:.*} in path %s specifies regular expression .*, but this regular "+
					"expression is only permitted if the path parameter is the last segment",
				segment.variable, p,
			)
		}
	}
	return nil
}

func (p PathString) String() string {
	if p.path == "" {
		return "/"
	}
	return p.path
}

// Resolve returns other appended to p. Resolving the root path returns p.
// The result is not validated; see [PathString.Validate].
func (p PathString) Resolve(other PathString) PathString {
	if len(other.segments) == 0 {
		return p
	}
	if len(p.segments) == 0 {
		return other
	}
	segments := make([]pathSegment, 0, len(p.segments)+len(other.segments))
	segments = append(segments, p.segments...)
	segments = append(segments, other.segments...)
	return PathString{
		path:     p.path + other.path,
		segments: segments,
	}
}

// TemplateVariables returns the names of the path's variables, in order.
func (p PathString) TemplateVariables() []string {
	var vars []string
	for _, segment := range p.segments {
		if segment.variable != "" {
			vars = append(vars, segment.variable)
		}
	}
	return vars
}

// Normalized replaces every path variable with "{arg}", so that two paths
// matching the same requests have the same normalized form.
func (p PathString) Normalized() string {
	return pathParamPattern.ReplaceAllString(p.String(), "{arg}")
}

// splitRequestLine splits the shorthand "METHOD /path" form at the first
// space.
func splitRequestLine(value string) (method, path string, ok bool) {
	method, path, ok = strings.Cut(value, " ")
	if !ok || method == "" || path == "" {
		return "", "", false
	}
	return method, path, true
}
