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

// Delete builds a DELETE statement against a single table, per spec.md
// §4.4, grounded on the teacher's Delete in
// db/chain/expressions_main_ops.go.
type Delete struct {
	table     string
	aliasRef  *string
	wheres    []exprThunk
	returning []string
}

// DeleteFrom starts building a delete against the named table, returning
// the row value so Where predicates can reference the table's columns
// the same way a Select's Filter does.
func DeleteFrom[R any](t Table[R]) (*Delete, R) {
	aliasRef := new(string)
	row := t.RowFactory(aliasRef)
	return &Delete{table: t.TableName, aliasRef: aliasRef}, row
}

// Where narrows which rows are deleted. Without a Where call the
// statement deletes every row in the table.
func (del *Delete) Where(pred Expr[bool]) *Delete {
	next := *del
	next.wheres = append(append([]exprThunk{}, del.wheres...), thunk(pred))
	return &next
}

// Returning requests the named columns back via RETURNING, where
// supported.
func (del *Delete) Returning(columns ...string) *Delete {
	next := *del
	next.returning = columns
	return &next
}

// Render renders this delete statement for the given dialect.
func (del *Delete) Render(d Dialect) Rendered {
	rc := NewRenderContext(d)
	if del.aliasRef != nil {
		*del.aliasRef = del.table
	}
	q := d.QuoteIdentifier

	out := RawFragment("DELETE FROM " + q(del.table))
	if len(del.wheres) > 0 {
		out = ConcatFragments(out, RawFragment(" WHERE "), renderAndChain(rc, del.wheres))
	}
	if len(del.returning) > 0 && d.SupportsReturning() {
		rlist := RawFragment("")
		for idx, c := range del.returning {
			if idx > 0 {
				rlist = ConcatFragments(rlist, RawFragment(", "))
			}
			rlist = ConcatFragments(rlist, RawFragment(q(c)))
		}
		out = ConcatFragments(out, RawFragment(" RETURNING "), rlist)
	}
	out = out.AsStatement()
	sql, args := out.Render(d)
	return Rendered{SQL: sql, Args: args}
}
