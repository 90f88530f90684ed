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

// Update builds an UPDATE statement against a single table, per spec.md
// §4.4, grounded on the teacher's Update/UpdateMap in
// db/chain/expressions_main_ops.go and the UPDATE branch of render() in
// db/chain/rendering.go.
type Update struct {
	table     string
	aliasRef  *string
	sets      []ColumnValue
	joins     []joinClause
	wheres    []exprThunk
	returning []string
}

// joinClause is one extra table folded into an UPDATE's FROM/JOIN list,
// per spec.md §4.7's joined-update support — a trimmed-down counterpart
// of SimpleSelect's source, since an UPDATE only ever has one primary
// target table to join additional tables against.
type joinClause struct {
	bind func(rc *RenderContext) Fragment
	on   exprThunk
}

// JoinUpdate attaches a second table to an UPDATE statement, so its
// columns can be read in Set values and Where predicates. row is the
// value UpdateTable returned for the primary table, threading its
// columns into the join predicate; the returned row exposes the joined
// table's columns.
//
// Rendering differs by dialect, mirroring the teacher's capability-switch
// pattern (SupportsOnConflict/SupportsReturning): MySQL renders a native
// `UPDATE t1 JOIN t2 ON ... SET t1.col = ...` with the SET list qualified
// by the target table, per spec.md §4.7; dialects that lack multi-table
// UPDATE syntax (the ANSI baseline, Postgres, SQLite) instead fold the
// joined table into a `FROM`/`WHERE` clause, the portable equivalent.
func JoinUpdate[R, B any](u *Update, row R, t Table[B], on func(R, B) Expr[bool]) (*Update, B) {
	aliasRef := new(string)
	bRow := t.RowFactory(aliasRef)
	next := *u
	next.joins = append(append([]joinClause{}, u.joins...), joinClause{
		bind: func(rc *RenderContext) Fragment {
			alias := rc.NextAlias()
			*aliasRef = alias
			return RawFragment(rc.Dialect.QuoteIdentifier(t.TableName) + " AS " + rc.Dialect.QuoteIdentifier(alias))
		},
		on: thunk(on(row, bRow)),
	})
	return &next, bRow
}

// UpdateTable starts building an update against the named table. aliasRef
// is the same deferred-alias mechanism Table/Column.Of use: the returned
// *string is wired into the row value the caller built with
// t.RowFactory(aliasRef) so that Where predicates can reference the
// table's own columns.
func UpdateTable[R any](t Table[R]) (*Update, R) {
	aliasRef := new(string)
	row := t.RowFactory(aliasRef)
	return &Update{table: t.TableName, aliasRef: aliasRef}, row
}

// Set queues one column assignment. Calling Set repeatedly accumulates
// assignments; later calls for the same column shadow earlier ones at
// render time only in the sense that both are emitted — callers are
// expected to call Set once per column, matching the teacher's UpdateMap
// one-shot style.
func (u *Update) Set(cvs ...ColumnValue) *Update {
	next := *u
	next.sets = append(append([]ColumnValue{}, u.sets...), cvs...)
	return &next
}

// Where narrows which rows are updated. Without a Where call the
// statement updates every row in the table, matching plain SQL UPDATE
// semantics (spec.md does not impose a mandatory WHERE).
func (u *Update) Where(pred Expr[bool]) *Update {
	next := *u
	next.wheres = append(append([]exprThunk{}, u.wheres...), thunk(pred))
	return &next
}

// Returning requests the named columns back via RETURNING, where
// supported.
func (u *Update) Returning(columns ...string) *Update {
	next := *u
	next.returning = columns
	return &next
}

// Render renders this update statement for the given dialect.
func (u *Update) Render(d Dialect) Rendered {
	rc := NewRenderContext(d)
	if u.aliasRef != nil {
		*u.aliasRef = u.table
	}
	q := d.QuoteIdentifier

	nativeJoin := len(u.joins) > 0 && d.SupportsUpdateJoin()

	out := RawFragment("UPDATE " + q(u.table))
	if nativeJoin {
		for _, j := range u.joins {
			out = ConcatFragments(out, RawFragment(" JOIN "), j.bind(rc), RawFragment(" ON "), j.on(rc))
		}
	}

	out = ConcatFragments(out, RawFragment(" SET "))
	setPrefix := ""
	if nativeJoin {
		setPrefix = q(u.table) + "."
	}
	for i, cv := range u.sets {
		if i > 0 {
			out = ConcatFragments(out, RawFragment(", "))
		}
		out = ConcatFragments(out, RawFragment(setPrefix+q(cv.Column)+" = "), cv.value(rc))
	}

	var extraWheres []exprThunk
	if len(u.joins) > 0 && !nativeJoin {
		from := RawFragment("")
		for i, j := range u.joins {
			if i > 0 {
				from = ConcatFragments(from, RawFragment(", "))
			}
			from = ConcatFragments(from, j.bind(rc))
			extraWheres = append(extraWheres, j.on)
		}
		out = ConcatFragments(out, RawFragment(" FROM "), from)
	}

	wheres := append(append([]exprThunk{}, extraWheres...), u.wheres...)
	if len(wheres) > 0 {
		out = ConcatFragments(out, RawFragment(" WHERE "), renderAndChain(rc, wheres))
	}
	if len(u.returning) > 0 && d.SupportsReturning() {
		rlist := RawFragment("")
		for idx, c := range u.returning {
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
