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

package sqlite

import (
	"fmt"

	"github.com/relq-dev/relq/query"
)

// Dialect renders SQL text the way SQLite (3.35+) expects: `?`
// placeholders, ON CONFLICT and RETURNING support (both added in
// upstream SQLite and present in modernc.org/sqlite), but no row-level
// locking (`FOR UPDATE` is a no-op there, so it is not emitted).
type Dialect struct {
	query.ANSI
}

var _ query.Dialect = Dialect{}

func (Dialect) Name() string { return "sqlite" }

func (Dialect) Reverse(s string) string { return fmt.Sprintf("reverse(%s)", s) }
func (Dialect) SupportsReverse() bool   { return true }

// TrimChars overrides ANSI's `TRIM(chars FROM s)` with SQLite's
// comma-argument `trim(s, chars)` builtin.
func (Dialect) TrimChars(s, chars string) string { return fmt.Sprintf("trim(%s, %s)", s, chars) }

// Substring overrides ANSI's keyword syntax with SQLite's `substr`
// builtin, which takes the same arguments as comma-separated positionals.
func (Dialect) Substring(s, start, length string) string {
	if length == "" {
		return fmt.Sprintf("substr(%s, %s)", s, start)
	}
	return fmt.Sprintf("substr(%s, %s, %s)", s, start, length)
}

// Position overrides ANSI's `POSITION(substr IN s)` with SQLite's
// `instr(s, substr)` builtin, which takes the haystack first.
func (Dialect) Position(substr, s string) string { return fmt.Sprintf("instr(%s, %s)", s, substr) }

// OctetLength overrides ANSI's `octet_length`: SQLite's `length()` counts
// characters for TEXT, so the byte count needs an explicit BLOB cast.
func (Dialect) OctetLength(s string) string { return fmt.Sprintf("length(CAST(%s AS BLOB))", s) }

// StringAgg overrides ANSI's STRING_AGG with SQLite's comma-argument
// `group_concat(expr, sep)` builtin.
func (Dialect) StringAgg(expr, sep string) string { return fmt.Sprintf("group_concat(%s, %s)", expr, sep) }

func (Dialect) DefaultSelectSuffix() string { return "" }

func (Dialect) SupportsOnConflict() bool { return true }
func (Dialect) SupportsReturning() bool  { return true }

// SupportsForUpdate is false: SQLite serializes writers at the file
// level and has no per-row lock syntax.
func (Dialect) SupportsForUpdate() bool { return false }

func (Dialect) CastLiteral(placeholder, castKeyword string) string {
	if castKeyword == "" {
		return placeholder
	}
	return fmt.Sprintf("CAST(%s AS %s)", placeholder, castKeyword)
}
