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

// FromValues builds a one-column literal inline table — spec.md §4's
// `Values { elements, column-name }` form — and starts a query against
// it, e.g. `SELECT "t0"."n" AS "res__value" FROM (VALUES (?), (?), (?))
// AS "t0"("n")`. It is
// most often used as the right-hand side of an In/CrossJoin when the
// candidate set is a small literal list rather than a subquery.
func FromValues[T any](mapper TypeMapper[T], columnName string, elements ...T) *SimpleSelect[Expr[T]] {
	aliasRef := new(string)
	col := NewColumn(columnName, mapper)
	row := col.Of(aliasRef)
	return &SimpleSelect[Expr[T]]{
		row: row,
		sources: []source{{
			bind: func(rc *RenderContext) Fragment {
				alias := rc.NextAlias()
				*aliasRef = alias
				vals := RawFragment("VALUES ")
				for i, e := range elements {
					if i > 0 {
						vals = ConcatFragments(vals, RawFragment(", "))
					}
					vals = ConcatFragments(vals, RawFragment("("), Lit(mapper, e).render(rc), RawFragment(")"))
				}
				q := rc.Dialect.QuoteIdentifier
				return ConcatFragments(RawFragment("("), vals, RawFragment(") AS "+q(alias)+"("+q(columnName)+")"))
			},
		}},
	}
}
