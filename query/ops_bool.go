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

// And renders `a AND b`, grounded on the teacher's AndWhere/appendExpandedOp
// boolean combinators in db/chain/expressions.go.
func (e Expr[bool]) And(other Expr[bool]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		return ConcatFragments(RawFragment("("), e.render(rc), RawFragment(" AND "), other.render(rc), RawFragment(")"))
	})
}

// Or renders `a OR b`.
func (e Expr[bool]) Or(other Expr[bool]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		return ConcatFragments(RawFragment("("), e.render(rc), RawFragment(" OR "), other.render(rc), RawFragment(")"))
	})
}

// Not renders `NOT a`.
func (e Expr[bool]) Not() Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		return ConcatFragments(RawFragment("NOT ("), e.render(rc), RawFragment(")"))
	})
}

// And folds a slice of boolean expressions with AND, defaulting to the
// literal true when empty. Filter does not call it: successive Filter
// predicates are joined with AND by renderAndChain at render time.
func And(exprs ...Expr[bool]) Expr[bool] {
	if len(exprs) == 0 {
		return Lit(BoolMapper, true)
	}
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = acc.And(e)
	}
	return acc
}

// Or folds a slice of boolean expressions with OR, defaulting to false.
func Or(exprs ...Expr[bool]) Expr[bool] {
	if len(exprs) == 0 {
		return Lit(BoolMapper, false)
	}
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = acc.Or(e)
	}
	return acc
}
