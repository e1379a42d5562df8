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

package compiler

import (
	"fmt"
	"strings"

	"github.com/palantir/conjure-sub002/document"
	"github.com/palantir/conjure-sub002/ir"
)

// location is the source position a diagnostic is reported at.
type location struct {
	file string
	pos  document.Position
}

func (l location) String() string {
	if l.pos.Line == 0 {
		return l.file
	}
	return l.file + ":" + l.pos.String()
}

type Error struct {
	code    uint32
	message string
	at      location
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// File is the path of the schema file the error was found in.
func (err *Error) File() string {
	return err.at.file
}

// Position is zero if the error is not tied to a single definition.
func (err *Error) Position() document.Position {
	return err.at.pos
}

func errMissingPackage(kind, name string, at location) *Error {
	return &Error{
		code: 3000,
		message: fmt.Sprintf(
			"Must provide default conjure package or explicit conjure package"+
				" for every object and service: %s %s",
			kind, name,
		),
		at: at,
	}
}

func errUnknownType(name string, at location) *Error {
	return &Error{
		code:    3001,
		message: fmt.Sprintf("Unknown type %s referenced in %s", name, at.file),
		at:      at,
	}
}

func errUnknownNamespace(ns, name string, at location) *Error {
	return &Error{
		code: 3002,
		message: fmt.Sprintf(
			"Unknown type %s.%s: namespace %s is not imported by %s",
			ns, name, ns, at.file,
		),
		at: at,
	}
}

func errDuplicateName(name ir.TypeName, prev location, at location) *Error {
	return &Error{
		code: 3003,
		message: fmt.Sprintf(
			"Type, error, and service names must be unique across locally"+
				" defined and imported types/errors: %s (previously defined at %s)",
			name, prev,
		),
		at: at,
	}
}

func errImportedNameConflict(name string, at location) *Error {
	return &Error{
		code:    3004,
		message: fmt.Sprintf("Type %s is both imported and defined in %s", name, at.file),
		at:      at,
	}
}

func errUnknownForeignType(ns, name, importedFile string, at location) *Error {
	return &Error{
		code: 3005,
		message: fmt.Sprintf(
			"Unknown type %s.%s: %s does not define %s",
			ns, name, importedFile, name,
		),
		at: at,
	}
}

func errReservedUnknownType(at location) *Error {
	return &Error{
		code:    3006,
		message: fmt.Sprintf("The type name 'unknown' is reserved and cannot be referenced (in %s)", at.file),
		at:      at,
	}
}

func errErrorAsType(name ir.TypeName, at location) *Error {
	return &Error{
		code:    3007,
		message: fmt.Sprintf("Error %s can only be referenced in the errors of an endpoint", name),
		at:      at,
	}
}

func errExternalBaseType(name, got string, at location) *Error {
	return &Error{
		code:    3008,
		message: fmt.Sprintf("External import %s must have a primitive base-type, got %s", name, got),
		at:      at,
	}
}

func errRecursiveType(chain []string, at location) *Error {
	return &Error{
		code:    3009,
		message: "Illegal recursive data type: " + strings.Join(chain, " -> "),
		at:      at,
	}
}

func errComplexMapKey(key, where string, at location) *Error {
	return &Error{
		code:    3010,
		message: fmt.Sprintf("Complex type '%s' not allowed in map key: %s.", key, where),
		at:      at,
	}
}

func errNestedOptional(where string, at location) *Error {
	return &Error{
		code:    3011,
		message: "Illegal nested optionals found in " + where,
		at:      at,
	}
}

func errDuplicateFieldName(where, name, seen string, at location) *Error {
	return &Error{
		code: 3012,
		message: fmt.Sprintf(
			"%s must not contain duplicate field names (modulo case normalization): %s vs %s",
			where, name, seen,
		),
		at: at,
	}
}

func errInvalidEnumValue(value string, at location) *Error {
	return &Error{
		code: 3013,
		message: fmt.Sprintf(
			"Enumeration values must match format %s: %s",
			enumValuePattern, value,
		),
		at: at,
	}
}

func errReservedEnumValue(enum string, at location) *Error {
	return &Error{
		code:    3014,
		message: "UNKNOWN is a reserved enumeration value and cannot be used in an enum: " + enum,
		at:      at,
	}
}

func errDuplicateEnumValue(enum, value string, at location) *Error {
	return &Error{
		code:    3015,
		message: fmt.Sprintf("Cannot declare enum %s with duplicate enum values: %s", enum, value),
		at:      at,
	}
}

func errEmptyUnionKey(union string, at location) *Error {
	return &Error{
		code:    3016,
		message: "Union member key must not be empty: " + union,
		at:      at,
	}
}

func errInvalidUnionKey(key string, at location) *Error {
	return &Error{
		code:    3017,
		message: "Union member key must be a valid Java identifier: " + key,
		at:      at,
	}
}

func errUnionKeyUnderscore(key string, at location) *Error {
	return &Error{
		code:    3018,
		message: "Union member key must not end with an underscore: " + key,
		at:      at,
	}
}

func errSafetyNotAllowed(where, typeName string, at location) *Error {
	return &Error{
		code: 3019,
		message: fmt.Sprintf(
			"%s cannot declare log safety. Only conjure primitives and"+
				" wrappers around conjure primitives may declare safety. %s is not a primitive type.",
			where, typeName,
		),
		at: at,
	}
}

func errBearerTokenSafety(where string, at location) *Error {
	return &Error{
		code:    3020,
		message: "bearertoken values are do-not-log by default and cannot be configured: " + where,
		at:      at,
	}
}

func errRetrofitSuffix(name string, at location) *Error {
	return &Error{
		code:    3021,
		message: "Service name must not end in Retrofit: " + name,
		at:      at,
	}
}

func errInvalidHTTPMethod(method, endpoint string, at location) *Error {
	return &Error{
		code: 3022,
		message: fmt.Sprintf(
			"HTTP method must be (%s), but received '%s' in endpoint '%s'.",
			strings.Join(httpMethods, "|"), method, endpoint,
		),
		at: at,
	}
}

func errDuplicateEndpointPath(methodPath string, endpoints []string, at location) *Error {
	return &Error{
		code: 3023,
		message: fmt.Sprintf(
			"Endpoint \"%s\" is defined by multiple endpoints: %s",
			methodPath, strings.Join(endpoints, ", "),
		),
		at: at,
	}
}

func errMultipleBodyArgs(endpoint string, args []string, at location) *Error {
	return &Error{
		code: 3024,
		message: fmt.Sprintf(
			"Endpoint '%s' cannot have multiple body parameters: %s",
			endpoint, strings.Join(args, ", "),
		),
		at: at,
	}
}

func errGetWithBody(endpoint string, at location) *Error {
	return &Error{
		code:    3025,
		message: fmt.Sprintf("Endpoint '%s' cannot be a GET and contain a body", endpoint),
		at:      at,
	}
}

func errPathArgsNotInTemplate(args []string, endpoint string, at location) *Error {
	return &Error{
		code: 3026,
		message: fmt.Sprintf(
			"Path parameters defined in endpoint but not present in path template: %s on endpoint %s",
			strings.Join(args, ", "), endpoint,
		),
		at: at,
	}
}

func errPathVarsNotArgs(vars []string, endpoint string, at location) *Error {
	return &Error{
		code: 3027,
		message: fmt.Sprintf(
			"Path parameters %s defined in path template but not present in endpoint: %s",
			strings.Join(vars, ", "), endpoint,
		),
		at: at,
	}
}

func errPathArgType(arg, endpoint string, at location) *Error {
	return &Error{
		code: 3028,
		message: fmt.Sprintf(
			"Path parameters must be primitives or aliases: \"%s\" is not allowed on endpoint %s",
			arg, endpoint,
		),
		at: at,
	}
}

func errHeaderArgType(arg, endpoint string, at location) *Error {
	return &Error{
		code: 3029,
		message: fmt.Sprintf(
			"Header parameters must be enums, primitives, aliases or optional primitive:"+
				" \"%s\" is not allowed on endpoint %s",
			arg, endpoint,
		),
		at: at,
	}
}

func errQueryArgType(arg, endpoint string, at location) *Error {
	return &Error{
		code: 3030,
		message: fmt.Sprintf(
			"Query parameters must be enums or primitives when de-aliased, or containers"+
				" of these (list, sets, optionals): '%s' is not allowed on endpoint '%s'",
			arg, endpoint,
		),
		at: at,
	}
}

func errBearerTokenParam(arg, endpoint string, at location) *Error {
	return &Error{
		code: 3031,
		message: fmt.Sprintf(
			"Path or query parameters of type 'bearertoken' are not allowed as this"+
				" would introduce a security vulnerability: \"%s\" endpoint \"%s\"",
			arg, endpoint,
		),
		at: at,
	}
}

func errBinaryParam(arg, endpoint string, at location) *Error {
	return &Error{
		code: 3032,
		message: fmt.Sprintf(
			"Non body parameters cannot contain the 'binary' type. Parameter '%s'"+
				" from endpoint '%s' violates this constraint.",
			arg, endpoint,
		),
		at: at,
	}
}

func errOptionalBinaryBody(endpoint string, at location) *Error {
	return &Error{
		code:    3033,
		message: "Endpoint BODY argument must not be optional<binary> or alias thereof: " + endpoint,
		at:      at,
	}
}

func errInvalidHeaderID(id, endpoint string, at location) *Error {
	return &Error{
		code: 3034,
		message: fmt.Sprintf(
			"Header parameter id %s on endpoint %s must match pattern %s",
			id, endpoint, headerIDPattern,
		),
		at: at,
	}
}

func errProtocolHeader(id, endpoint string, at location) *Error {
	return &Error{
		code: 3035,
		message: fmt.Sprintf(
			"Header parameter id %s on endpoint %s should not be one of the protocol headers %v",
			id, endpoint, protocolHeaders,
		),
		at: at,
	}
}

func errInvalidQueryID(id, endpoint string, cause error, at location) *Error {
	describe := cause.Error()
	if m, ok := cause.(interface{ Message() string }); ok {
		describe = m.Message()
	}
	return &Error{
		code:    3036,
		message: fmt.Sprintf("Query param id %s on endpoint %s is invalid: %s", id, endpoint, describe),
		at:      at,
	}
}

func errNotAnErrorType(typeName, endpoint string, at location) *Error {
	return &Error{
		code:    3037,
		message: fmt.Sprintf("Endpoint %s declares error %s, which is not an error definition", endpoint, typeName),
		at:      at,
	}
}

func errDuplicateEndpointError(name ir.TypeName, namespace, endpoint string, at location) *Error {
	return &Error{
		code: 3038,
		message: fmt.Sprintf(
			"Error '%s' with namespace '%s' is declared multiple times in endpoint '%s'",
			name, namespace, endpoint,
		),
		at: at,
	}
}

func errConstantType(name, typeName string, at location) *Error {
	return &Error{
		code:    3039,
		message: fmt.Sprintf("Constant %s must have a primitive type, got %s", name, typeName),
		at:      at,
	}
}

func errConstantValue(name, describe string, at location) *Error {
	return &Error{
		code:    3040,
		message: fmt.Sprintf("Invalid value for constant %s: %s", name, describe),
		at:      at,
	}
}

func errDuplicateConstant(name string, prev location, at location) *Error {
	return &Error{
		code:    3041,
		message: fmt.Sprintf("Constant %s is defined more than once (previously defined at %s)", name, prev),
		at:      at,
	}
}

func errMapSafety(where string, at location) *Error {
	return &Error{
		code: 3042,
		message: "Maps cannot declare log safety. Consider using alias types for keys or values" +
			" to leverage the type system. Failing map: " + where,
		at: at,
	}
}

func errInvalidEndpointPath(endpoint string, cause error, at location) *Error {
	return &Error{
		code:    3043,
		message: fmt.Sprintf("Invalid path for endpoint %s: %v", endpoint, cause),
		at:      at,
	}
}
