//    Copyright 2019 Horacio Duran <horacio@shiftleft.io>, ShiftLeft Inc.
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

package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect is the set of override points a backend needs to customize
// rendering, per spec.md §4.7. ANSI supplies sane defaults; a concrete
// dialect (postgres/mysql/sqlite) embeds ANSI and overrides only what
// differs, the way the teacher's render() special-cased Postgres-only
// syntax inline.
type Dialect interface {
	// Name identifies the dialect for diagnostics.
	Name() string
	// Placeholder renders the n-th (1-based) positional parameter marker.
	Placeholder(n int) string
	// QuoteIdentifier quotes a table/column identifier.
	QuoteIdentifier(name string) string
	// Concat renders a string-concatenation expression from already
	// rendered operand text.
	Concat(operands ...string) string
	// Modulo renders the `a % b` operation.
	Modulo(a, b string) string
	// BitwiseAnd, BitwiseOr, BitwiseXor render bitwise operations.
	BitwiseAnd(a, b string) string
	BitwiseOr(a, b string) string
	BitwiseXor(a, b string) string
	// LPad, RPad render padding functions.
	LPad(s, length, pad string) string
	RPad(s, length, pad string) string
	// Trim renders a trim function call. TrimChars renders the two-argument
	// form that strips a caller-supplied character set instead of
	// whitespace. LTrim, RTrim render the one-sided variants.
	Trim(s string) string
	TrimChars(s, chars string) string
	LTrim(s string) string
	RTrim(s string) string
	// Substring renders a substring extraction. length is "" when the
	// caller omitted a length (extract to the end of the string).
	Substring(s, start, length string) string
	// Position renders a 1-based substr-within-string search, returning 0
	// when absent (ANSI `POSITION(substr IN s)`, SQLite's `instr(s, substr)`).
	Position(substr, s string) string
	// OctetLength renders a byte-length function, distinct from character
	// length for multi-byte text.
	OctetLength(s string) string
	// StringAgg renders a group-concatenation aggregate (Postgres/ANSI
	// `STRING_AGG`, MySQL/SQLite `GROUP_CONCAT`).
	StringAgg(expr, sep string) string
	// Reverse renders a string-reversal function call; ANSI renders
	// `reverse(s)` and reports SupportsReverse true.
	Reverse(s string) string
	// SupportsReverse reports whether Reverse() produces valid SQL for
	// this dialect.
	SupportsReverse() bool
	// NullSafeEquals/NullSafeNotEquals render a null-safe equality
	// comparison. a and b are sentinel placeholders (query.operandSentinelA/
	// B) rather than plain text, so an implementation is free to reference
	// either operand more than once in the returned template — required by
	// ANSI's portable expansion, which tests each side for NULL before
	// comparing them.
	NullSafeEquals(a, b string) string
	NullSafeNotEquals(a, b string) string
	// DefaultSelectSuffix is appended to bare SELECTs that were not
	// explicitly marked as statements (mirrors the teacher's habit of a
	// trailing `;`-free terminator customized per backend).
	DefaultSelectSuffix() string
	// SupportsOnConflict reports whether this dialect can render an
	// ON CONFLICT clause (spec.md §9 supplemented feature).
	SupportsOnConflict() bool
	// SupportsReturning reports whether RETURNING is valid here.
	SupportsReturning() bool
	// SupportsForUpdate reports whether `FOR UPDATE` row locking is valid.
	SupportsForUpdate() bool
	// SupportsUpdateJoin reports whether this dialect can render a native
	// multi-table `UPDATE t1 JOIN t2 ON ... SET ...` (MySQL); dialects that
	// report false instead fold a joined UPDATE's extra tables into a
	// `FROM`/`WHERE` clause.
	SupportsUpdateJoin() bool
	// CastLiteral wraps a rendered placeholder with an explicit cast, for
	// TypeMapper.Cast values that need one in this dialect (e.g. Postgres
	// `?::uuid`, MySQL `CAST(? AS uuid)`); an empty castKeyword returns
	// the placeholder unchanged.
	CastLiteral(placeholder, castKeyword string) string
}

// ANSI is the baseline Dialect every concrete driver dialect embeds and
// overrides from, per spec.md §4.7's "ANSI baseline + override points"
// design.
type ANSI struct{}

var _ Dialect = ANSI{}

func (ANSI) Name() string { return "ansi" }

func (ANSI) Placeholder(n int) string { return "?" }

func (ANSI) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (ANSI) Concat(operands ...string) string {
	return strings.Join(operands, " || ")
}

func (ANSI) Modulo(a, b string) string { return fmt.Sprintf("mod(%s, %s)", a, b) }

func (ANSI) BitwiseAnd(a, b string) string { return fmt.Sprintf("(%s & %s)", a, b) }
func (ANSI) BitwiseOr(a, b string) string  { return fmt.Sprintf("(%s | %s)", a, b) }
func (ANSI) BitwiseXor(a, b string) string { return fmt.Sprintf("(%s # %s)", a, b) }

func (ANSI) LPad(s, length, pad string) string { return fmt.Sprintf("lpad(%s, %s, %s)", s, length, pad) }
func (ANSI) RPad(s, length, pad string) string { return fmt.Sprintf("rpad(%s, %s, %s)", s, length, pad) }

func (ANSI) Trim(s string) string { return fmt.Sprintf("trim(%s)", s) }

// TrimChars renders the ANSI `TRIM(chars FROM s)` form.
func (ANSI) TrimChars(s, chars string) string { return fmt.Sprintf("trim(%s from %s)", chars, s) }

func (ANSI) LTrim(s string) string { return fmt.Sprintf("ltrim(%s)", s) }
func (ANSI) RTrim(s string) string { return fmt.Sprintf("rtrim(%s)", s) }

// Substring renders the ANSI `SUBSTRING(s FROM start [FOR length])` form,
// which Postgres and MySQL both also accept natively.
func (ANSI) Substring(s, start, length string) string {
	if length == "" {
		return fmt.Sprintf("substring(%s from %s)", s, start)
	}
	return fmt.Sprintf("substring(%s from %s for %s)", s, start, length)
}

// Position renders the ANSI `POSITION(substr IN s)` form.
func (ANSI) Position(substr, s string) string { return fmt.Sprintf("position(%s in %s)", substr, s) }

func (ANSI) OctetLength(s string) string { return fmt.Sprintf("octet_length(%s)", s) }

// StringAgg renders Postgres/ANSI's `STRING_AGG(expr, sep)`.
func (ANSI) StringAgg(expr, sep string) string { return fmt.Sprintf("string_agg(%s, %s)", expr, sep) }

func (ANSI) Reverse(s string) string    { return fmt.Sprintf("reverse(%s)", s) }
func (ANSI) SupportsReverse() bool      { return true }

// NullSafeEquals expands to the portable form spec.md §4.2/§8 scenario 4
// mandate: `(a IS NULL AND b IS NULL) OR a = b`, each operand referenced
// twice (and so bound twice, once per occurrence) rather than relying on
// the non-ANSI `IS NOT DISTINCT FROM` extension.
func (ANSI) NullSafeEquals(a, b string) string {
	return fmt.Sprintf("((%[1]s IS NULL AND %[2]s IS NULL) OR %[1]s = %[2]s)", a, b)
}

func (ANSI) NullSafeNotEquals(a, b string) string {
	return fmt.Sprintf("NOT ((%[1]s IS NULL AND %[2]s IS NULL) OR %[1]s = %[2]s)", a, b)
}

func (ANSI) DefaultSelectSuffix() string { return "" }

func (ANSI) SupportsOnConflict() bool { return true }
func (ANSI) SupportsReturning() bool  { return true }
func (ANSI) SupportsForUpdate() bool  { return true }
func (ANSI) SupportsUpdateJoin() bool { return false }

func (ANSI) CastLiteral(placeholder, castKeyword string) string {
	if castKeyword == "" {
		return placeholder
	}
	return placeholder + "::" + castKeyword
}

// PositionalPlaceholder is a helper for dialects (like Postgres) whose
// placeholder is `$n`, grounded on the teacher's placeholders.go
// `PlaceholdersToPositional`.
func PositionalPlaceholder(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}
