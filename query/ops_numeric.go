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

// Numeric constrains the scalar types numeric operators are defined over.
type Numeric interface {
	~int64 | ~float64
}

func numericOp[T Numeric](mapper TypeMapper[T], op string, lhs, rhs Expr[T]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		return ConcatFragments(RawFragment("("), lhs.render(rc), RawFragment(" "+op+" "), rhs.render(rc), RawFragment(")"))
	})
}

// Add renders `lhs + rhs`.
func Add[T Numeric](mapper TypeMapper[T], lhs, rhs Expr[T]) Expr[T] { return numericOp(mapper, "+", lhs, rhs) }

// Sub renders `lhs - rhs`.
func Sub[T Numeric](mapper TypeMapper[T], lhs, rhs Expr[T]) Expr[T] { return numericOp(mapper, "-", lhs, rhs) }

// Mul renders `lhs * rhs`.
func Mul[T Numeric](mapper TypeMapper[T], lhs, rhs Expr[T]) Expr[T] { return numericOp(mapper, "*", lhs, rhs) }

// Div renders `lhs / rhs`.
func Div[T Numeric](mapper TypeMapper[T], lhs, rhs Expr[T]) Expr[T] { return numericOp(mapper, "/", lhs, rhs) }

// Mod renders the dialect's modulo operation, since `%` is not portable
// SQL (Postgres accepts it, SQLite and standard ANSI favor `mod()`).
func Mod[T Numeric](mapper TypeMapper[T], lhs, rhs Expr[T]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.Modulo(exprSentinel, exprSentinel)
		return combineFragments(tmpl, lhs.render(rc), rhs.render(rc))
	})
}

// BitAnd, BitOr, BitXor render bitwise operations through the dialect,
// since Postgres's XOR (`#`) spelling differs from MySQL's (`^`).
func BitAnd[T Numeric](mapper TypeMapper[T], lhs, rhs Expr[T]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.BitwiseAnd(exprSentinel, exprSentinel)
		return combineFragments(tmpl, lhs.render(rc), rhs.render(rc))
	})
}

func BitOr[T Numeric](mapper TypeMapper[T], lhs, rhs Expr[T]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.BitwiseOr(exprSentinel, exprSentinel)
		return combineFragments(tmpl, lhs.render(rc), rhs.render(rc))
	})
}

func BitXor[T Numeric](mapper TypeMapper[T], lhs, rhs Expr[T]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		tmpl := rc.Dialect.BitwiseXor(exprSentinel, exprSentinel)
		return combineFragments(tmpl, lhs.render(rc), rhs.render(rc))
	})
}

// Neg renders unary negation.
func Neg[T Numeric](mapper TypeMapper[T], e Expr[T]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		return ConcatFragments(RawFragment("(-"), e.render(rc), RawFragment(")"))
	})
}

// Abs, Ceil, Floor render the corresponding ANSI scalar functions, portable
// across Postgres/MySQL/SQLite without a dialect hook.
func Abs[T Numeric](mapper TypeMapper[T], e Expr[T]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		return Join("", RawFragment("abs("), e.render(rc), RawFragment(")"))
	})
}

func Ceil[T Numeric](mapper TypeMapper[T], e Expr[T]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		return Join("", RawFragment("ceil("), e.render(rc), RawFragment(")"))
	})
}

func Floor[T Numeric](mapper TypeMapper[T], e Expr[T]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		return Join("", RawFragment("floor("), e.render(rc), RawFragment(")"))
	})
}

// Between renders the `e BETWEEN lo AND hi` range predicate, per spec.md
// §4.2's comparison family.
func Between[T Numeric](e, lo, hi Expr[T]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		return ConcatFragments(
			RawFragment("("), e.render(rc),
			RawFragment(" BETWEEN "), lo.render(rc),
			RawFragment(" AND "), hi.render(rc),
			RawFragment(")"),
		)
	})
}
