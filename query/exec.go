//    Copyright 2018 Horacio Duran <horacio@shiftleft.io>, ShiftLeft Inc.
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

import (
	"context"

	"github.com/relq-dev/relq/connection"
	"github.com/relq-dev/relq/rqerrors"
)

// Fields returns the result column aliases this rendered query produced,
// in no particular order — the `fields` argument connection.DB.Query
// expects, per spec.md §6's execution boundary.
func (r Rendered) Fields() []string {
	out := make([]string, 0, len(r.ResultPaths))
	for _, alias := range r.ResultPaths {
		out = append(out, alias)
	}
	return out
}

// Fetch renders sel, runs it against db and decodes every row into dest
// (a pointer to a slice of the caller's destination struct type), per
// spec.md §2 item 8: "executes it against a database, and decodes result
// rows back into values matching the query's static result shape."
func Fetch[Q any](ctx context.Context, db connection.DB, d Dialect, sel *SimpleSelect[Q], dest interface{}) error {
	return fetch(ctx, db, Render(d, sel), dest)
}

// FetchCompound is Fetch's counterpart for CompoundSelect.
func FetchCompound[Q any](ctx context.Context, db connection.DB, d Dialect, sel *CompoundSelect[Q], dest interface{}) error {
	return fetch(ctx, db, RenderCompound(d, sel), dest)
}

// fetch wraps the initial query call with SQL/arg context; any failure
// decoding rows into dest is left as the driver reported it (a
// rqerrors.DecodeError, naming the offending column path).
func fetch(ctx context.Context, db connection.DB, r Rendered, dest interface{}) error {
	query, err := db.Query(ctx, r.SQL, r.Fields(), r.Args...)
	if err != nil {
		return rqerrors.NewDriverError(r.SQL, r.Args, err)
	}
	return query(dest)
}

// FetchOne renders sel, runs it and decodes at most one row into dest (a
// pointer to a single destination struct).
func FetchOne[Q any](ctx context.Context, db connection.DB, d Dialect, sel *SimpleSelect[Q], dest interface{}) error {
	r := Render(d, sel)
	next, err := db.QueryIter(ctx, r.SQL, r.Fields(), r.Args...)
	if err != nil {
		return err
	}
	_, closeRows, err := next(dest)
	closeRows()
	return err
}

// ExecInsert renders and runs i against db, returning the number of rows
// it affected. Failures arrive already tagged as rqerrors.DriverError by
// the driver's own ExecResult implementation.
func ExecInsert(ctx context.Context, db connection.DB, d Dialect, i *Insert) (int64, error) {
	r := i.Render(d)
	return db.ExecResult(ctx, r.SQL, r.Args...)
}

// FetchInsertReturning is ExecInsert's counterpart when Returning(...) was
// used: it decodes the RETURNING rows into dest the same way Fetch does.
func FetchInsertReturning(ctx context.Context, db connection.DB, d Dialect, i *Insert, dest interface{}) error {
	r := i.Render(d)
	query, err := db.Query(ctx, r.SQL, nil, r.Args...)
	if err != nil {
		return rqerrors.NewDriverError(r.SQL, r.Args, err)
	}
	return query(dest)
}

// ExecUpdate renders and runs u against db, returning affected row count.
func ExecUpdate(ctx context.Context, db connection.DB, d Dialect, u *Update) (int64, error) {
	r := u.Render(d)
	return db.ExecResult(ctx, r.SQL, r.Args...)
}

// ExecDelete renders and runs del against db, returning affected row
// count.
func ExecDelete(ctx context.Context, db connection.DB, d Dialect, del *Delete) (int64, error) {
	r := del.Render(d)
	return db.ExecResult(ctx, r.SQL, r.Args...)
}

// BulkInsert delegates to the driver's native bulk-load path (e.g.
// Postgres COPY) instead of a single multi-row VALUES INSERT, taking the
// table name, column names and row values directly rather than an
// Insert, per spec.md §9's supplemented feature.
// Failures arrive already tagged as rqerrors.DriverError by the driver's
// own BulkInsert implementation.
func BulkInsert(ctx context.Context, db connection.DB, tableName string, columns []string, rows [][]interface{}) error {
	return db.BulkInsert(ctx, tableName, columns, rows)
}
