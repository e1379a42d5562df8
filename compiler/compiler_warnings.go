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

	"github.com/palantir/conjure-sub002/document"
)

type Warning struct {
	code    uint32
	message string
	at      location
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) File() string {
	return w.at.file
}

func (w *Warning) Position() document.Position {
	return w.at.pos
}

func warnFieldNameCase(where, field string, at location) *Warning {
	return &Warning{
		code:    4000,
		message: fmt.Sprintf("Field %s of %s should be lowerCamelCase", field, where),
		at:      at,
	}
}

func warnDeprecatedServiceName(service string, at location) *Warning {
	return &Warning{
		code:    4001,
		message: fmt.Sprintf("Service %s uses the deprecated 'name' key", service),
		at:      at,
	}
}

func warnQueryParamIDCase(id, endpoint string, at location) *Warning {
	return &Warning{
		code: 4002,
		message: fmt.Sprintf(
			"Query param ids should be camelCase. kebab-case and snake_case are"+
				" supported for legacy endpoints only: %s on endpoint %s",
			id, endpoint,
		),
		at: at,
	}
}
