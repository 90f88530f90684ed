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

// binOp renders `(lhs OP rhs)` from two already-typed expressions of the
// same T, grounded on the teacher's appendExpandedOp pattern in
// db/chain/expressions.go.
func binOp[T any](op string, lhs, rhs Expr[T]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		l := lhs.render(rc)
		r := rhs.render(rc)
		return ConcatFragments(RawFragment("("), l, RawFragment(" "+op+" "), r, RawFragment(")"))
	})
}

// Eq renders `lhs = rhs`.
func Eq[T any](lhs, rhs Expr[T]) Expr[bool] { return binOp("=", lhs, rhs) }

// NotEq renders `lhs <> rhs`.
func NotEq[T any](lhs, rhs Expr[T]) Expr[bool] { return binOp("<>", lhs, rhs) }

// Lt, Lte, Gt, Gte render ordering comparisons.
func Lt[T any](lhs, rhs Expr[T]) Expr[bool]  { return binOp("<", lhs, rhs) }
func Lte[T any](lhs, rhs Expr[T]) Expr[bool] { return binOp("<=", lhs, rhs) }
func Gt[T any](lhs, rhs Expr[T]) Expr[bool]  { return binOp(">", lhs, rhs) }
func Gte[T any](lhs, rhs Expr[T]) Expr[bool] { return binOp(">=", lhs, rhs) }

// NullSafeEq renders the dialect's null-safe equality operator — spec.md
// §4.2's "optional equality (`===`/`!==`)" comparisons, which treat NULL
// as equal to NULL instead of propagating to an unknown result.
func NullSafeEq[T any](lhs, rhs Expr[T]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		l := lhs.render(rc)
		r := rhs.render(rc)
		tmpl := rc.Dialect.NullSafeEquals(operandSentinelA, operandSentinelB)
		return combineFragmentsBinary(tmpl, l, r)
	})
}

// NullSafeNotEq renders the dialect's null-safe inequality operator.
func NullSafeNotEq[T any](lhs, rhs Expr[T]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		l := lhs.render(rc)
		r := rhs.render(rc)
		tmpl := rc.Dialect.NullSafeNotEquals(operandSentinelA, operandSentinelB)
		return combineFragmentsBinary(tmpl, l, r)
	})
}
