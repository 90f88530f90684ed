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

package mysql

import (
	"fmt"
	"strings"

	"github.com/relq-dev/relq/query"
)

// Dialect renders SQL text the way MySQL expects: backtick-quoted
// identifiers, `?` placeholders (MySQL does not support positional `$n`
// markers, so every value is bound in source order, identically to
// ANSI's default), and the `<=>` null-safe equality operator.
//
// MySQL has no RETURNING clause and no `ON CONFLICT` syntax (its
// equivalent, `INSERT ... ON DUPLICATE KEY UPDATE`, has a structurally
// different target-selection model — it infers the conflicting unique
// index rather than naming it — so OnConflict's ON CONFLICT rendering
// would not apply here without a separate builder; SupportsOnConflict
// returns false rather than emit invalid SQL).
type Dialect struct {
	query.ANSI
}

var _ query.Dialect = Dialect{}

func (Dialect) Name() string { return "mysql" }

func (Dialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (Dialect) Modulo(a, b string) string { return fmt.Sprintf("(%s %% %s)", a, b) }

func (Dialect) BitwiseXor(a, b string) string { return fmt.Sprintf("(%s ^ %s)", a, b) }

func (Dialect) NullSafeEquals(a, b string) string    { return fmt.Sprintf("(%s <=> %s)", a, b) }
func (Dialect) NullSafeNotEquals(a, b string) string { return fmt.Sprintf("NOT (%s <=> %s)", a, b) }

func (Dialect) Reverse(s string) string { return fmt.Sprintf("reverse(%s)", s) }
func (Dialect) SupportsReverse() bool   { return true }

// StringAgg overrides ANSI's STRING_AGG with MySQL's `GROUP_CONCAT(expr
// SEPARATOR sep)`.
func (Dialect) StringAgg(expr, sep string) string {
	return fmt.Sprintf("group_concat(%s SEPARATOR %s)", expr, sep)
}

func (Dialect) DefaultSelectSuffix() string { return "" }

func (Dialect) SupportsOnConflict() bool { return false }
func (Dialect) SupportsReturning() bool  { return false }
func (Dialect) SupportsForUpdate() bool  { return true }

// SupportsUpdateJoin reports MySQL's native multi-table
// `UPDATE t1 JOIN t2 ON ... SET ...` syntax, per spec.md §4.7.
func (Dialect) SupportsUpdateJoin() bool { return true }

func (Dialect) CastLiteral(placeholder, castKeyword string) string {
	if castKeyword == "" {
		return placeholder
	}
	return fmt.Sprintf("CAST(%s AS %s)", placeholder, castKeyword)
}
