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

// ScalarSubquery collapses a single-column, single-row SimpleSelect back
// into a plain Expr[T], the "exprQuery" operation of spec.md §4.3: using
// a subquery wherever a scalar expression is expected (e.g. `price >
// (SELECT avg(price) FROM ...)`).
func ScalarSubquery[T any](mapper TypeMapper[T], sel *SimpleSelect[Expr[T]]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		body := sel.renderBody(rc)
		return ConcatFragments(RawFragment("("), body, RawFragment(")"))
	})
}

// Exists renders `EXISTS (subquery)`, typically used with a correlated
// SimpleSelect whose WHERE clause references the enclosing row.
func Exists[Q any](sel *SimpleSelect[Q]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		body := sel.renderBody(rc)
		return ConcatFragments(RawFragment("EXISTS ("), body, RawFragment(")"))
	})
}

// NotExists renders `NOT EXISTS (subquery)`.
func NotExists[Q any](sel *SimpleSelect[Q]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		body := sel.renderBody(rc)
		return ConcatFragments(RawFragment("NOT EXISTS ("), body, RawFragment(")"))
	})
}

// In renders `expr IN (subquery)` against a single-column subquery.
func In[T any](e Expr[T], sel *SimpleSelect[Expr[T]]) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		body := sel.renderBody(rc)
		return ConcatFragments(e.render(rc), RawFragment(" IN ("), body, RawFragment(")"))
	})
}

// InValues renders `expr IN (v1, v2, ...)` against a literal list.
func InValues[T any](e Expr[T], mapper TypeMapper[T], values ...T) Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		out := ConcatFragments(e.render(rc), RawFragment(" IN ("))
		for i, v := range values {
			if i > 0 {
				out = ConcatFragments(out, RawFragment(", "))
			}
			out = ConcatFragments(out, Lit(mapper, v).render(rc))
		}
		return ConcatFragments(out, RawFragment(")"))
	})
}
