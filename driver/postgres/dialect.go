//    Copyright 2018 Horacio Duran <horacio@shiftleft.io>, ShiftLeft Inc.
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package postgres

import (
	"fmt"

	"github.com/relq-dev/relq/query"
)

// Dialect renders SQL text the way Postgres expects: `$n` placeholders,
// ON CONFLICT/RETURNING/FOR UPDATE support and the IS [NOT] DISTINCT FROM
// null-safe comparison family.
type Dialect struct {
	query.ANSI
}

var _ query.Dialect = Dialect{}

func (Dialect) Name() string { return "postgresql" }

func (Dialect) Placeholder(n int) string { return query.PositionalPlaceholder("$", n) }

func (Dialect) QuoteIdentifier(name string) string {
	return `"` + escapeQuotes(name) + `"`
}

func escapeQuotes(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			out = append(out, '"', '"')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// NullSafeEquals/NullSafeNotEquals override ANSI's portable doubled-NULL-
// check expansion with Postgres's native (and older, pre-3.39-SQLite)
// IS [NOT] DISTINCT FROM operator — each operand referenced only once.
func (Dialect) NullSafeEquals(a, b string) string {
	return fmt.Sprintf("(%s IS NOT DISTINCT FROM %s)", a, b)
}

func (Dialect) NullSafeNotEquals(a, b string) string {
	return fmt.Sprintf("(%s IS DISTINCT FROM %s)", a, b)
}

func (Dialect) Reverse(s string) string { return fmt.Sprintf("reverse(%s)", s) }

func (Dialect) SupportsReverse() bool { return true }

func (Dialect) DefaultSelectSuffix() string { return "" }

func (Dialect) SupportsOnConflict() bool { return true }
func (Dialect) SupportsReturning() bool  { return true }
func (Dialect) SupportsForUpdate() bool  { return true }

func (Dialect) CastLiteral(placeholder, castKeyword string) string {
	if castKeyword == "" {
		return placeholder
	}
	return placeholder + "::" + castKeyword
}
