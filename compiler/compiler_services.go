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
	"regexp"
	"slices"
	"strings"

	"github.com/palantir/conjure-sub002/document"
	"github.com/palantir/conjure-sub002/ir"
	"github.com/palantir/conjure-sub002/names"
	"github.com/palantir/conjure-sub002/syntax"
)

var httpMethods = []string{"GET", "POST", "PUT", "DELETE"}

var headerIDPattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*(-[A-Z][a-zA-Z0-9]*)*$`)

// Headers set by the HTTP client, which an argument may not override.
var protocolHeaders = []string{"Host", "Accept", "Content-Type"}

func (c *compiler) compileServices() {
	for _, svc := range c.services {
		name := svc.name.Name
		if strings.HasSuffix(name, "Retrofit") {
			c.addError(errRetrofitSuffix(name, svc.at))
		}
		if svc.def.DeprecatedName != "" {
			c.warn(warnDeprecatedServiceName(name, svc.at))
		}

		out := &ir.ServiceDefinition{
			ServiceName: svc.name,
			Docs:        svc.def.Docs,
		}
		ok := true

		// Endpoints keyed by "METHOD /normalized/{arg}", in source order.
		var methodPaths []string
		byMethodPath := make(map[string][]*document.EndpointDefinition)

		for _, ep := range svc.def.Endpoints {
			endpoint, resolved := c.compileEndpoint(svc, ep)
			if !resolved {
				ok = false
				continue
			}
			out.Endpoints = append(out.Endpoints, *endpoint)

			path := svc.def.BasePath.Resolve(ep.HTTP.Path)
			key := ep.HTTP.Method + " " + path.Normalized()
			if _, seen := byMethodPath[key]; !seen {
				methodPaths = append(methodPaths, key)
			}
			byMethodPath[key] = append(byMethodPath[key], ep)
		}

		for _, key := range methodPaths {
			endpoints := byMethodPath[key]
			if len(endpoints) < 2 {
				continue
			}
			epNames := make([]string, 0, len(endpoints))
			for _, ep := range endpoints {
				epNames = append(epNames, ep.Name.String())
			}
			c.addError(errDuplicateEndpointPath(key, epNames, at(svc.file, endpoints[1].Pos)))
		}

		if ok {
			c.compiledServices = append(c.compiledServices, out)
		}
	}
}

func authType(auth document.AuthDefinition) ir.AuthType {
	switch auth.Type {
	case document.AuthHeader:
		return ir.HeaderAuth{}
	case document.AuthCookie:
		return ir.CookieAuth{CookieName: auth.ID}
	}
	return nil
}

// compileEndpoint reports false if any type the endpoint uses could not be
// resolved. Other diagnostics do not prevent the endpoint from being
// returned.
func (c *compiler) compileEndpoint(
	svc *serviceInfo,
	ep *document.EndpointDefinition,
) (*ir.EndpointDefinition, bool) {
	scope := c.scopes[svc.file]
	loc := at(svc.file, ep.Pos)
	name := ep.Name.String()
	ok := true

	method := ep.HTTP.Method
	if !slices.Contains(httpMethods, method) {
		c.addError(errInvalidHTTPMethod(method, name, loc))
	}

	path := svc.def.BasePath.Resolve(ep.HTTP.Path)
	if err := path.Validate(); err != nil {
		c.addError(errInvalidEndpointPath(name, err, loc))
	}
	templateVars := path.TemplateVariables()
	c.opts.reporter.EndpointPath(path.String(), len(templateVars))

	auth := svc.def.DefaultAuth
	if ep.Auth != nil {
		auth = *ep.Auth
	}

	out := &ir.EndpointDefinition{
		EndpointName: name,
		HTTPMethod:   method,
		HTTPPath:     path.String(),
		Auth:         authType(auth),
		Docs:         ep.Docs,
		Deprecated:   ep.Deprecated,
		Tags:         ep.Tags,
	}

	if ep.Returns != nil {
		returns, resolved := c.resolveType(scope, ep.Returns, loc)
		if resolved {
			out.Returns = returns
			c.checkMapKeysIn(returns, name, loc)
			if c.hasNestedOptional(returns) {
				c.addError(errNestedOptional("return type of endpoint "+name, loc))
			}
		}
		ok = ok && resolved
	}

	markers, resolved := c.resolveTypeList(scope, ep.Markers, loc)
	out.Markers = markers
	ok = ok && resolved

	var pathArgs, bodyArgs []string
	nestedOptional := false
	for _, arg := range ep.Args {
		argLoc := at(svc.file, arg.Pos)
		argName := arg.Name.String()

		t, typeOK := c.resolveType(scope, arg.Type, argLoc)
		argMarkers, markersOK := c.resolveTypeList(scope, arg.Markers, argLoc)
		if !typeOK || !markersOK {
			ok = false
			continue
		}

		paramType := c.paramType(arg, templateVars, name, argLoc)
		switch paramType.(type) {
		case ir.PathParameter:
			pathArgs = append(pathArgs, argName)
		case ir.BodyParameter:
			bodyArgs = append(bodyArgs, argName)
		}
		c.checkArgType(t, paramType, argName, name, argLoc)
		c.checkMapKeysIn(t, name+"::"+argName, argLoc)
		c.checkSafetyOf(t, logSafety(arg.Safety), name+"::"+argName, argLoc)
		if c.hasNestedOptional(t) {
			nestedOptional = true
		}

		out.Args = append(out.Args, ir.ArgumentDefinition{
			ArgName:   argName,
			Type:      t,
			ParamType: paramType,
			Safety:    logSafety(arg.Safety),
			Docs:      arg.Docs,
			Markers:   argMarkers,
			Tags:      arg.Tags,
		})
	}
	if nestedOptional {
		c.addError(errNestedOptional("one of the arguments of endpoint "+name, loc))
	}

	if len(bodyArgs) > 1 {
		c.addError(errMultipleBodyArgs(name, bodyArgs, loc))
	}
	if method == "GET" && len(bodyArgs) > 0 {
		c.addError(errGetWithBody(name, loc))
	}
	if ok {
		c.checkPathArgs(pathArgs, templateVars, name, loc)
	}

	errs, resolved := c.endpointErrors(scope, ep, name)
	out.Errors = errs
	ok = ok && resolved

	return out, ok
}

func (c *compiler) resolveTypeList(scope *fileScope, types []syntax.Type, loc location) ([]ir.Type, bool) {
	var out []ir.Type
	ok := true
	for _, t := range types {
		resolved, resolvedOK := c.resolveType(scope, t, loc)
		ok = ok && resolvedOK
		out = append(out, resolved)
	}
	return out, ok
}

func (c *compiler) paramType(
	arg *document.ArgumentDefinition,
	templateVars []string,
	endpoint string,
	loc location,
) ir.ParameterType {
	argName := arg.Name.String()
	paramID := arg.ParamID
	if paramID == "" {
		paramID = argName
	}

	switch arg.ParamType {
	case document.ParamPath:
		return ir.PathParameter{}
	case document.ParamBody:
		return ir.BodyParameter{}
	case document.ParamQuery:
		id, err := names.ParseFieldName(paramID)
		if err != nil {
			c.addError(errInvalidQueryID(paramID, endpoint, err, loc))
		} else if id.Case() != names.LowerCamelCase {
			c.warn(warnQueryParamIDCase(paramID, endpoint, loc))
		}
		return ir.QueryParameter{ParamID: paramID}
	case document.ParamHeader:
		if !headerIDPattern.MatchString(paramID) {
			c.addError(errInvalidHeaderID(paramID, endpoint, loc))
		} else if slices.Contains(protocolHeaders, paramID) {
			c.addError(errProtocolHeader(paramID, endpoint, loc))
		}
		return ir.HeaderParameter{ParamID: paramID}
	}

	if slices.Contains(templateVars, argName) {
		return ir.PathParameter{}
	}
	return ir.BodyParameter{}
}

func (c *compiler) checkArgType(t ir.Type, paramType ir.ParameterType, arg, endpoint string, loc location) {
	if _, isBody := paramType.(ir.BodyParameter); isBody {
		if opt, ok := c.dealias(t).(ir.OptionalType); ok {
			if c.dealias(opt.ItemType) == ir.Primitive_BINARY {
				c.addError(errOptionalBinaryBody(endpoint, loc))
			}
		}
		return
	}

	if c.containsPrimitive(t, ir.Primitive_BINARY) {
		c.addError(errBinaryParam(arg, endpoint, loc))
		return
	}

	switch paramType.(type) {
	case ir.PathParameter:
		if c.containsPrimitive(t, ir.Primitive_BEARERTOKEN) {
			c.addError(errBearerTokenParam(arg, endpoint, loc))
		} else if !c.isSimpleArgType(t) {
			c.addError(errPathArgType(arg, endpoint, loc))
		}
	case ir.HeaderParameter:
		inner := c.dealias(t)
		if opt, ok := inner.(ir.OptionalType); ok {
			inner = opt.ItemType
		}
		if !c.isSimpleArgType(inner) {
			c.addError(errHeaderArgType(arg, endpoint, loc))
		}
	case ir.QueryParameter:
		if c.containsPrimitive(t, ir.Primitive_BEARERTOKEN) {
			c.addError(errBearerTokenParam(arg, endpoint, loc))
			return
		}
		inner := c.dealias(t)
		switch container := inner.(type) {
		case ir.OptionalType:
			inner = container.ItemType
		case ir.ListType:
			inner = container.ItemType
		case ir.SetType:
			inner = container.ItemType
		}
		if !c.isSimpleArgType(inner) {
			c.addError(errQueryArgType(arg, endpoint, loc))
		}
	}
}

// isSimpleArgType reports whether t is, after dealiasing, a primitive other
// than any, an enum, or an external type with such a fallback.
func (c *compiler) isSimpleArgType(t ir.Type) bool {
	switch t := c.dealias(t).(type) {
	case ir.Primitive:
		return t != ir.Primitive_ANY
	case ir.ExternalReference:
		return t.Fallback != ir.Primitive_ANY
	case ir.Reference:
		info := c.byName[ir.TypeName(t)]
		return info != nil && info.isEnum()
	}
	return false
}

// containsPrimitive reports whether p appears anywhere within t, looking
// through aliases.
func (c *compiler) containsPrimitive(t ir.Type, p ir.Primitive) bool {
	found := false
	seen := make(map[ir.TypeName]struct{})
	var visit func(t ir.Type)
	visit = func(t ir.Type) {
		walkType(t, func(t ir.Type) {
			switch t := t.(type) {
			case ir.Primitive:
				found = found || t == p
			case ir.Reference:
				if _, ok := seen[ir.TypeName(t)]; ok {
					return
				}
				seen[ir.TypeName(t)] = struct{}{}
				if info := c.byName[ir.TypeName(t)]; info != nil {
					if alias, ok := info.resolved.(*ir.AliasDefinition); ok {
						visit(alias.Alias)
					}
				}
			}
		})
	}
	visit(t)
	return found
}

func (c *compiler) checkPathArgs(pathArgs, templateVars []string, endpoint string, loc location) {
	var notInTemplate, notArgs []string
	for _, arg := range pathArgs {
		if !slices.Contains(templateVars, arg) {
			notInTemplate = append(notInTemplate, arg)
		}
	}
	for _, v := range templateVars {
		if !slices.Contains(pathArgs, v) {
			notArgs = append(notArgs, v)
		}
	}
	if len(notInTemplate) > 0 {
		c.addError(errPathArgsNotInTemplate(notInTemplate, endpoint, loc))
	}
	if len(notArgs) > 0 {
		c.addError(errPathVarsNotArgs(notArgs, endpoint, loc))
	}
}

func (c *compiler) endpointErrors(
	scope *fileScope,
	ep *document.EndpointDefinition,
	endpoint string,
) ([]ir.EndpointError, bool) {
	var out []ir.EndpointError
	ok := true
	seen := make(map[ir.TypeName]struct{}, len(ep.Errors))
	for _, e := range ep.Errors {
		loc := at(scope.file, e.Pos)
		switch e.Error.(type) {
		case syntax.LocalReference, syntax.ForeignReference:
		default:
			c.addError(errNotAnErrorType(e.Error.String(), endpoint, loc))
			continue
		}
		info, found := c.lookup(scope, e.Error, loc)
		if !found {
			ok = false
			continue
		}
		if !info.isError() {
			c.addError(errNotAnErrorType(e.Error.String(), endpoint, loc))
			continue
		}
		if _, dup := seen[info.name]; dup {
			namespace := info.def.Body.(*document.ErrorDefinition).Namespace
			c.addError(errDuplicateEndpointError(info.name, namespace.String(), endpoint, loc))
			continue
		}
		seen[info.name] = struct{}{}
		out = append(out, ir.EndpointError{Error: info.name, Docs: e.Docs})
	}
	return out, ok
}
