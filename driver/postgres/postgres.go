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

// Package postgres implements the connection.DatabaseHandler/DB contract
// on top of jackc/pgx/v5's pgxpool, and supplies the query.Dialect
// Postgres needs (dollar placeholders, RETURNING, ON CONFLICT,
// NullSafeEquals via IS [NOT] DISTINCT FROM). Adapted from the teacher's
// db/postgrespq/connection.go, swapped from the database/sql + pgx
// stdlib adapter to pgx v5's native pool API.
package postgres

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/pkg/errors"

	"github.com/relq-dev/relq/connection"
	"github.com/relq-dev/relq/logging"
	"github.com/relq-dev/relq/rowscan"
	"github.com/relq-dev/relq/rqerrors"
)

var _ connection.DatabaseHandler = &Connector{}
var _ connection.DB = &DB{}

// Connector implements connection.DatabaseHandler for Postgres.
type Connector struct {
	// ConnectionString, if set, is used verbatim instead of deriving a DSN
	// from connection.Information.
	ConnectionString string
}

// Open opens a pgxpool.Pool and wraps it into a connection.DB.
func (c *Connector) Open(ctx context.Context, ci *connection.Information) (connection.DB, error) {
	dsn := c.ConnectionString
	if dsn == "" && ci != nil {
		dsn = fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s",
			ci.Host, ci.Port, ci.Database, ci.User, ci.Password)
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parsing postgres connection string")
	}
	if ci != nil {
		if ci.MaxConnPoolConns > 0 {
			cfg.MaxConns = ci.MaxConnPoolConns
		}
		if ci.Logger != nil {
			level := tracelog.LogLevelError
			if ci.LogLevel != "" {
				if parsed, perr := tracelog.LogLevelFromString(string(ci.LogLevel)); perr == nil {
					level = parsed
				}
			}
			cfg.ConnConfig.Tracer = &tracelog.TraceLog{
				Logger:   logging.NewPgxLogAdapter(ci.Logger),
				LogLevel: level,
			}
		}
		if ci.CustomDial != nil {
			cfg.ConnConfig.DialFunc = ci.CustomDial
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}
	return &DB{pool: pool}, nil
}

// DB wraps a pgxpool.Pool (or an in-flight pgx.Tx) into connection.DB.
type DB struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

// Clone returns a stateful copy sharing the same pool.
func (d *DB) Clone() connection.DB { return &DB{pool: d.pool} }

func (d *DB) query(ctx context.Context, statement string, args ...interface{}) (pgx.Rows, error) {
	if d.tx != nil {
		return d.tx.Query(ctx, statement, args...)
	}
	return d.pool.Query(ctx, statement, args...)
}

// QueryIter returns a closure that scans one row at a time into
// destination, following connection.ResultFetchIter's protocol.
func (d *DB) QueryIter(ctx context.Context, statement string, fields []string, args ...interface{}) (connection.ResultFetchIter, error) {
	rows, err := d.query(ctx, statement, args...)
	if err != nil {
		return nil, rqerrors.NewDriverError(statement, args, err)
	}
	if len(fields) == 0 {
		fields = columnNames(rows)
	}
	return func(destination interface{}) (bool, func(), error) {
		if !rows.Next() {
			return false, rows.Close, rows.Err()
		}
		recipients, err := rowscan.Recipients(destination, fields)
		if err != nil {
			rows.Close()
			return false, func() {}, rqerrors.NewDecodeError(fmt.Sprintf("%T", destination), err)
		}
		if err := rows.Scan(recipients...); err != nil {
			rows.Close()
			return false, func() {}, rqerrors.NewDecodeError(fmt.Sprintf("%T", destination), err)
		}
		return true, rows.Close, nil
	}, nil
}

// Query returns a closure that decodes all rows into a *[]T destination.
func (d *DB) Query(ctx context.Context, statement string, fields []string, args ...interface{}) (connection.ResultFetch, error) {
	rows, err := d.query(ctx, statement, args...)
	if err != nil {
		return nil, rqerrors.NewDriverError(statement, args, err)
	}
	return func(destination interface{}) error {
		defer rows.Close()
		if reflect.TypeOf(destination).Kind() != reflect.Ptr {
			return errors.New("destination must be a pointer to a slice")
		}
		fs := fields
		if len(fs) == 0 {
			fs = columnNames(rows)
		}
		dv := reflect.ValueOf(destination).Elem()
		dv.Set(reflect.MakeSlice(dv.Type(), 0, 0))
		for rows.Next() {
			elem, appendTo, err := rowscan.NewElem(destination)
			if err != nil {
				return rqerrors.NewDecodeError(fmt.Sprintf("%T", destination), err)
			}
			recipients, err := rowscan.Recipients(elem.Interface(), fs)
			if err != nil {
				return rqerrors.NewDecodeError(fmt.Sprintf("%T", destination), err)
			}
			if err := rows.Scan(recipients...); err != nil {
				return rqerrors.NewDecodeError(fmt.Sprintf("%T", destination), err)
			}
			appendTo(elem)
		}
		return rows.Err()
	}, nil
}

// QueryPrimitive decodes a single-column result set into a *[]T.
func (d *DB) QueryPrimitive(ctx context.Context, statement string, field string, args ...interface{}) (connection.ResultFetch, error) {
	rows, err := d.query(ctx, statement, args...)
	if err != nil {
		return nil, rqerrors.NewDriverError(statement, args, err)
	}
	return func(destination interface{}) error {
		defer rows.Close()
		dv := reflect.ValueOf(destination).Elem()
		dv.Set(reflect.MakeSlice(dv.Type(), 0, 0))
		elemType := dv.Type().Elem()
		for rows.Next() {
			v := reflect.New(elemType)
			if err := rows.Scan(v.Interface()); err != nil {
				return rqerrors.NewDecodeError(field, err)
			}
			dv.Set(reflect.Append(dv, v.Elem()))
		}
		return rows.Err()
	}, nil
}

// Raw scans a single row into fields with no reflection magic.
func (d *DB) Raw(ctx context.Context, statement string, args []interface{}, fields ...interface{}) error {
	var row pgx.Row
	if d.tx != nil {
		row = d.tx.QueryRow(ctx, statement, args...)
	} else {
		row = d.pool.QueryRow(ctx, statement, args...)
	}
	err := row.Scan(fields...)
	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return rqerrors.NewDriverError(statement, args, err)
}

// Exec runs statement, discarding any result.
func (d *DB) Exec(ctx context.Context, statement string, args ...interface{}) error {
	_, err := d.exec(ctx, statement, args...)
	return err
}

// ExecResult runs statement and reports rows affected.
func (d *DB) ExecResult(ctx context.Context, statement string, args ...interface{}) (int64, error) {
	tag, err := d.exec(ctx, statement, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (d *DB) exec(ctx context.Context, statement string, args ...interface{}) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	var err error
	if d.tx != nil {
		tag, err = d.tx.Exec(ctx, statement, args...)
	} else {
		tag, err = d.pool.Exec(ctx, statement, args...)
	}
	if err != nil {
		return tag, rqerrors.NewDriverError(statement, args, err)
	}
	return tag, nil
}

// BeginTransaction starts a pgx transaction and wraps it.
func (d *DB) BeginTransaction(ctx context.Context) (connection.DB, error) {
	if d.tx != nil {
		return nil, errors.New("already inside a transaction")
	}
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, rqerrors.NewDriverError("BEGIN", nil, err)
	}
	return &DB{pool: d.pool, tx: tx}, nil
}

// CommitTransaction commits the live transaction.
func (d *DB) CommitTransaction(ctx context.Context) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	return rqerrors.NewDriverError("COMMIT", nil, d.tx.Commit(ctx))
}

// RollbackTransaction rolls back the live transaction.
func (d *DB) RollbackTransaction(ctx context.Context) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	return rqerrors.NewDriverError("ROLLBACK", nil, d.tx.Rollback(ctx))
}

// IsTransaction reports whether this handle holds a live transaction.
func (d *DB) IsTransaction() bool { return d.tx != nil }

// Savepoint establishes a named savepoint.
func (d *DB) Savepoint(ctx context.Context, name string) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	stmt := "SAVEPOINT " + pgx.Identifier{name}.Sanitize()
	_, err := d.tx.Exec(ctx, stmt)
	return rqerrors.NewDriverError(stmt, nil, err)
}

// RollbackToSavepoint rolls back to name.
func (d *DB) RollbackToSavepoint(ctx context.Context, name string) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	stmt := "ROLLBACK TO SAVEPOINT " + pgx.Identifier{name}.Sanitize()
	_, err := d.tx.Exec(ctx, stmt)
	return rqerrors.NewDriverError(stmt, nil, err)
}

// ReleaseSavepoint releases name.
func (d *DB) ReleaseSavepoint(ctx context.Context, name string) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	stmt := "RELEASE SAVEPOINT " + pgx.Identifier{name}.Sanitize()
	_, err := d.tx.Exec(ctx, stmt)
	return rqerrors.NewDriverError(stmt, nil, err)
}

// Set runs `SET LOCAL <set>` within the live transaction.
func (d *DB) Set(ctx context.Context, set string) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	stmt := "SET LOCAL " + set
	_, err := d.tx.Exec(ctx, stmt)
	return rqerrors.NewDriverError(stmt, nil, err)
}

// BulkInsert uses pgx's native COPY protocol, the reason spec.md's
// supplemented BulkInsert feature singles Postgres out for a fast path.
func (d *DB) BulkInsert(ctx context.Context, tableName string, columns []string, values [][]interface{}) error {
	source := pgx.CopyFromRows(values)
	var err error
	if d.tx != nil {
		_, err = d.tx.CopyFrom(ctx, pgx.Identifier{tableName}, columns, source)
	} else {
		conn, acquireErr := d.pool.Acquire(ctx)
		if acquireErr != nil {
			return rqerrors.NewDriverError("COPY "+tableName, nil, acquireErr)
		}
		defer conn.Release()
		_, err = conn.Conn().CopyFrom(ctx, pgx.Identifier{tableName}, columns, source)
	}
	return rqerrors.NewDriverError("COPY "+tableName, nil, err)
}

func columnNames(rows pgx.Rows) []string {
	fds := rows.FieldDescriptions()
	out := make([]string, len(fds))
	for i, fd := range fds {
		out[i] = string(fd.Name)
	}
	return out
}
