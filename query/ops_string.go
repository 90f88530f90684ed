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

import "strings"

// Concat renders the dialect's string-concatenation operator across all
// operands, grounded on the teacher's helpers.go string-building chain
// methods.
func Concat(operands ...Expr[string]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		sentinels := make([]string, len(operands))
		frags := make([]Fragment, len(operands))
		for i, op := range operands {
			sentinels[i] = exprSentinel
			frags[i] = op.render(rc)
		}
		tmpl := rc.Dialect.Concat(sentinels...)
		return combineFragments(tmpl, frags...)
	})
}

// LPad, RPad render the dialect's padding functions.
func LPad(s Expr[string], length Expr[int64], pad Expr[string]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.LPad(exprSentinel, exprSentinel, exprSentinel)
		return combineFragments(tmpl, s.render(rc), length.render(rc), pad.render(rc))
	})
}

func RPad(s Expr[string], length Expr[int64], pad Expr[string]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.RPad(exprSentinel, exprSentinel, exprSentinel)
		return combineFragments(tmpl, s.render(rc), length.render(rc), pad.render(rc))
	})
}

// Trim renders the dialect's trim function.
func Trim(s Expr[string]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.Trim(exprSentinel)
		return combineFragments(tmpl, s.render(rc))
	})
}

// Reverse renders the dialect's string-reversal function. Dialects that
// cannot express it (SupportsReverse() == false) still render a best
// effort expression; callers that care should check SupportsReverse
// before using Reverse against a specific dialect.
func Reverse(s Expr[string]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.Reverse(exprSentinel)
		return combineFragments(tmpl, s.render(rc))
	})
}

// Upper, Lower render case-folding functions.
func Upper(s Expr[string]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		return Join("", RawFragment("upper("), s.render(rc), RawFragment(")"))
	})
}

func Lower(s Expr[string]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		return Join("", RawFragment("lower("), s.render(rc), RawFragment(")"))
	})
}

// Length renders `char_length(s)` in every dialect.
func Length(s Expr[string]) Expr[int64] {
	return newExpr(Int64Mapper, func(rc *RenderContext) Fragment {
		return Join("", RawFragment("char_length("), s.render(rc), RawFragment(")"))
	})
}

// TrimChars renders a trim that strips a caller-supplied character set
// instead of whitespace, the two-argument form of spec.md §4.2's trim op.
func TrimChars(s Expr[string], chars Expr[string]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.TrimChars(exprSentinel, exprSentinel)
		return combineFragments(tmpl, s.render(rc), chars.render(rc))
	})
}

// LTrim, RTrim render the one-sided trim functions.
func LTrim(s Expr[string]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.LTrim(exprSentinel)
		return combineFragments(tmpl, s.render(rc))
	})
}

func RTrim(s Expr[string]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.RTrim(exprSentinel)
		return combineFragments(tmpl, s.render(rc))
	})
}

// Substring extracts a portion of s starting at the 1-based position
// start, running for length characters when provided.
func Substring(s Expr[string], start Expr[int64]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.Substring(exprSentinel, exprSentinel, "")
		return combineFragments(tmpl, s.render(rc), start.render(rc))
	})
}

// SubstringFor extracts length characters of s starting at the 1-based
// position start.
func SubstringFor(s Expr[string], start, length Expr[int64]) Expr[string] {
	return newExpr(StringMapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.Substring(exprSentinel, exprSentinel, exprSentinel)
		return combineFragments(tmpl, s.render(rc), start.render(rc), length.render(rc))
	})
}

// IndexOf renders the dialect's 1-based substring search, returning 0
// when substr does not occur in s.
func IndexOf(s Expr[string], substr Expr[string]) Expr[int64] {
	return newExpr(Int64Mapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.Position(exprSentinel, exprSentinel)
		return combineFragments(tmpl, substr.render(rc), s.render(rc))
	})
}

// OctetLength renders the dialect's byte-length function.
func OctetLength(s Expr[string]) Expr[int64] {
	return newExpr(Int64Mapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.OctetLength(exprSentinel)
		return combineFragments(tmpl, s.render(rc))
	})
}

// Like renders the SQL LIKE operator against a raw pattern expression —
// callers supplying their own wildcards should use this; StartsWith/
// EndsWith/Contains below are the common escaped-literal cases.
func Like(s Expr[string], pattern Expr[string]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		return ConcatFragments(s.render(rc), RawFragment(" LIKE "), pattern.render(rc))
	})
}

// NotLike renders `NOT LIKE`.
func NotLike(s Expr[string], pattern Expr[string]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		return ConcatFragments(s.render(rc), RawFragment(" NOT LIKE "), pattern.render(rc))
	})
}

// escapeLikePattern escapes LIKE's own wildcard characters out of a
// caller-supplied literal, so StartsWith/EndsWith/Contains search for the
// substring itself rather than treating a literal `%`/`_` as a wildcard.
func escapeLikePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '%', '_':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func likeEscaped(s Expr[string], pattern string) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		lit := Lit(StringMapper, pattern).render(rc)
		return ConcatFragments(s.render(rc), RawFragment(" LIKE "), lit, RawFragment(" ESCAPE '\\'"))
	})
}

// StartsWith, EndsWith, Contains render LIKE against an escaped literal
// wrapped in `%` wildcards — spec.md §4.2's substring-predicate family.
func StartsWith(s Expr[string], prefix string) Expr[bool] {
	return likeEscaped(s, escapeLikePattern(prefix)+"%")
}

func EndsWith(s Expr[string], suffix string) Expr[bool] {
	return likeEscaped(s, "%"+escapeLikePattern(suffix))
}

func Contains(s Expr[string], substr string) Expr[bool] {
	return likeEscaped(s, "%"+escapeLikePattern(substr)+"%")
}
