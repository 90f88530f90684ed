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

// Column[T] is a typed handle to one table column: its SQL name and the
// TypeMapper it reads/writes through, per spec.md §3's "Table descriptor"
// column list.
type Column[T any] struct {
	Name   string
	Mapper TypeMapper[T]
}

// NewColumn declares a column by name and mapper.
func NewColumn[T any](name string, mapper TypeMapper[T]) Column[T] {
	return Column[T]{Name: name, Mapper: mapper}
}

// Of binds this column to a table alias that may still be unresolved at
// the time the row value is built: aliasRef is read only when the
// expression is actually rendered, not when Of is called, so the
// renderer is free to allocate the concrete alias after the row value
// already exists (needed for self-joins and repeated subquery use of the
// same table). This is the only way spec.md's row-factories reach into a
// FROM source's columns.
func (c Column[T]) Of(aliasRef *string) Expr[T] {
	return newExpr(c.Mapper, func(rc *RenderContext) Fragment {
		return RawFragment(rc.Dialect.QuoteIdentifier(*aliasRef) + "." + rc.Dialect.QuoteIdentifier(c.Name))
	})
}

// Table[R] is a named SQL table together with the factory that turns a
// (possibly not-yet-allocated) alias reference into a typed row value R
// — a struct of Expr[T] fields, a Tuple, or similar — per spec.md §3's
// table-descriptor definition.
type Table[R any] struct {
	TableName  string
	RowFactory func(aliasRef *string) R
}

// NewTable declares a table descriptor.
func NewTable[R any](name string, rowFactory func(aliasRef *string) R) Table[R] {
	return Table[R]{TableName: name, RowFactory: rowFactory}
}

// Name exposes the underlying SQL table name, used when rendering the
// FROM clause and by BulkInsert/Insert targets.
func (t Table[R]) Name() string { return t.TableName }
