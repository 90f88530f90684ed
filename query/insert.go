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

// ColumnValue pairs a column name with the Fragment that supplies its
// value in an INSERT/UPDATE, type-erased so heterogeneous column types
// can share one slice — mirrors the teacher's renderInsert value-list
// assembly in db/chain/rendering.go.
type ColumnValue struct {
	Column string
	value  exprThunk
}

// Set builds a ColumnValue from a typed expression.
func Set[T any](column Column[T], value Expr[T]) ColumnValue {
	return ColumnValue{Column: column.Name, value: thunk(value)}
}

// SetLiteral is shorthand for Set(column, Lit(column.Mapper, value)).
func SetLiteral[T any](column Column[T], value T) ColumnValue {
	return Set(column, Lit(column.Mapper, value))
}

// Insert builds an INSERT statement against a table, per spec.md §4.4.
// It supports three shapes: a single row of values, a batch of rows
// (InsertMulti in the teacher's vocabulary), and INSERT ... SELECT.
type Insert struct {
	table      string
	columns    []string
	rows       [][]exprThunk
	fromSelect *insertFromSelect
	onConflict *OnConflict
	returning  []string
	bulk       bool
}

type insertFromSelect struct {
	columns []string
	render  func(rc *RenderContext) Fragment
}

// InsertInto starts building an insert against the named table.
func InsertInto(tableName string) *Insert {
	return &Insert{table: tableName}
}

// Values appends one row of column/value pairs. Calling Values more than
// once builds a multi-row INSERT (the teacher's InsertMulti), which
// renders as a single statement with one VALUES tuple per call.
func (i *Insert) Values(cvs ...ColumnValue) *Insert {
	next := *i
	if len(next.columns) == 0 {
		next.columns = make([]string, len(cvs))
		for idx, cv := range cvs {
			next.columns[idx] = cv.Column
		}
	}
	row := make([]exprThunk, len(cvs))
	for idx, cv := range cvs {
		row[idx] = cv.value
	}
	next.rows = append(append([][]exprThunk{}, i.rows...), row)
	return &next
}

// Batched marks this insert as a bulk/fast-path insert, reported by
// IsBulk. Render and ExecInsert do not consult the mark: a Batched insert
// still renders and runs as one multi-row VALUES statement. The
// driver-native bulk load (e.g. Postgres COPY) is reached separately
// through BulkInsert.
func (i *Insert) Batched() *Insert {
	next := *i
	next.bulk = true
	return &next
}

// IsBulk reports whether Batched() was called.
func (i *Insert) IsBulk() bool { return i.bulk }

// FromSelectInsert builds an `INSERT INTO t (cols) SELECT ...` statement from
// an existing query, grounded on the teacher's nested-chain-as-insert-
// value support in db/chain/rendering.go.
func FromSelectInsert[Q any](tableName string, columns []string, sel *SimpleSelect[Q]) *Insert {
	return &Insert{
		table:   tableName,
		columns: columns,
		fromSelect: &insertFromSelect{
			columns: columns,
			render:  func(rc *RenderContext) Fragment { return sel.renderBody(rc) },
		},
	}
}

// OnConflict attaches an ON CONFLICT clause, per spec.md §9.
func (i *Insert) OnConflict(oc *OnConflict) *Insert {
	next := *i
	next.onConflict = oc
	return &next
}

// Returning requests the named columns back via RETURNING, where
// supported.
func (i *Insert) Returning(columns ...string) *Insert {
	next := *i
	next.returning = columns
	return &next
}

// Render renders this insert statement for the given dialect.
func (i *Insert) Render(d Dialect) Rendered {
	rc := NewRenderContext(d)
	var out Fragment
	q := d.QuoteIdentifier

	if i.fromSelect != nil {
		colList := RawFragment("")
		for idx, c := range i.columns {
			if idx > 0 {
				colList = ConcatFragments(colList, RawFragment(", "))
			}
			colList = ConcatFragments(colList, RawFragment(q(c)))
		}
		body := i.fromSelect.render(rc)
		out = ConcatFragments(RawFragment("INSERT INTO "+q(i.table)+" ("), colList, RawFragment(") "), body)
	} else {
		colList := RawFragment("")
		for idx, c := range i.columns {
			if idx > 0 {
				colList = ConcatFragments(colList, RawFragment(", "))
			}
			colList = ConcatFragments(colList, RawFragment(q(c)))
		}
		out = ConcatFragments(RawFragment("INSERT INTO "+q(i.table)+" ("), colList, RawFragment(") VALUES "))
		for r, row := range i.rows {
			if r > 0 {
				out = ConcatFragments(out, RawFragment(", "))
			}
			out = ConcatFragments(out, RawFragment("("))
			for c, val := range row {
				if c > 0 {
					out = ConcatFragments(out, RawFragment(", "))
				}
				out = ConcatFragments(out, val(rc))
			}
			out = ConcatFragments(out, RawFragment(")"))
		}
	}

	if i.onConflict != nil && d.SupportsOnConflict() {
		out = ConcatFragments(out, RawFragment(" "), i.onConflict.render(rc))
	}
	if len(i.returning) > 0 && d.SupportsReturning() {
		rlist := RawFragment("")
		for idx, c := range i.returning {
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
