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

// Package mysql implements the connection.DatabaseHandler/DB contract on
// top of database/sql and go-sql-driver/mysql, and supplies the
// query.Dialect MySQL needs (backtick-quoted identifiers, `?`
// placeholders, `<=>` null-safe equality, no RETURNING/ON CONFLICT).
// Adapted from the teacher's database/sql-backed db/postgres/connection.go
// shape, retargeted at MySQL's driver and SQL surface.
package mysql

import (
	"context"
	gosql "database/sql"
	"fmt"
	"reflect"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/relq-dev/relq/connection"
	"github.com/relq-dev/relq/rowscan"
	"github.com/relq-dev/relq/rqerrors"
)

var _ connection.DatabaseHandler = &Connector{}
var _ connection.DB = &DB{}

// Connector implements connection.DatabaseHandler for MySQL.
type Connector struct {
	// ConnectionString, if set, is used verbatim as the DSN.
	ConnectionString string
}

// Open opens a database/sql connection pool through go-sql-driver/mysql.
func (c *Connector) Open(ctx context.Context, ci *connection.Information) (connection.DB, error) {
	dsn := c.ConnectionString
	if dsn == "" && ci != nil {
		cfg := mysqldriver.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = fmtAddr(ci.Host, ci.Port)
		cfg.DBName = ci.Database
		cfg.User = ci.User
		cfg.Passwd = ci.Password
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	}
	conn, err := gosql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mysql")
	}
	if ci != nil {
		if ci.MaxConnPoolConns > 0 {
			conn.SetMaxOpenConns(int(ci.MaxConnPoolConns))
		}
		if ci.ConnMaxLifetime != nil {
			conn.SetConnMaxLifetime(*ci.ConnMaxLifetime)
		}
	}
	if err := conn.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "pinging mysql")
	}
	return &DB{conn: conn}, nil
}

func fmtAddr(host string, port uint16) string {
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// DB wraps a database/sql pool (or an in-flight *sql.Tx) into connection.DB.
type DB struct {
	conn *gosql.DB
	tx   *gosql.Tx
}

// Clone returns a stateful copy sharing the same pool.
func (d *DB) Clone() connection.DB { return &DB{conn: d.conn} }

func (d *DB) rowQuery(ctx context.Context, statement string, args ...interface{}) (*gosql.Rows, error) {
	if d.tx != nil {
		return d.tx.QueryContext(ctx, statement, args...)
	}
	return d.conn.QueryContext(ctx, statement, args...)
}

// QueryIter scans one row at a time into destination.
func (d *DB) QueryIter(ctx context.Context, statement string, fields []string, args ...interface{}) (connection.ResultFetchIter, error) {
	rows, err := d.rowQuery(ctx, statement, args...)
	if err != nil {
		return nil, rqerrors.NewDriverError(statement, args, err)
	}
	if len(fields) == 0 {
		fields, _ = rows.Columns()
	}
	return func(destination interface{}) (bool, func(), error) {
		if !rows.Next() {
			return false, func() { rows.Close() }, rows.Err()
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
		return true, func() { rows.Close() }, nil
	}, nil
}

// Query decodes all rows into a *[]T destination.
func (d *DB) Query(ctx context.Context, statement string, fields []string, args ...interface{}) (connection.ResultFetch, error) {
	rows, err := d.rowQuery(ctx, statement, args...)
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
			fs, _ = rows.Columns()
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
	rows, err := d.rowQuery(ctx, statement, args...)
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
	var row *gosql.Row
	if d.tx != nil {
		row = d.tx.QueryRowContext(ctx, statement, args...)
	} else {
		row = d.conn.QueryRowContext(ctx, statement, args...)
	}
	err := row.Scan(fields...)
	if errors.Is(err, gosql.ErrNoRows) {
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
	res, err := d.exec(ctx, statement, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return n, rqerrors.NewDriverError(statement, args, err)
}

func (d *DB) exec(ctx context.Context, statement string, args ...interface{}) (gosql.Result, error) {
	var res gosql.Result
	var err error
	if d.tx != nil {
		res, err = d.tx.ExecContext(ctx, statement, args...)
	} else {
		res, err = d.conn.ExecContext(ctx, statement, args...)
	}
	if err != nil {
		return res, rqerrors.NewDriverError(statement, args, err)
	}
	return res, nil
}

// BeginTransaction starts a database/sql transaction.
func (d *DB) BeginTransaction(ctx context.Context) (connection.DB, error) {
	if d.tx != nil {
		return nil, errors.New("already inside a transaction")
	}
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, rqerrors.NewDriverError("BEGIN", nil, err)
	}
	return &DB{conn: d.conn, tx: tx}, nil
}

// CommitTransaction commits the live transaction.
func (d *DB) CommitTransaction(ctx context.Context) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	return rqerrors.NewDriverError("COMMIT", nil, d.tx.Commit())
}

// RollbackTransaction rolls back the live transaction.
func (d *DB) RollbackTransaction(ctx context.Context) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	return rqerrors.NewDriverError("ROLLBACK", nil, d.tx.Rollback())
}

// IsTransaction reports whether this handle holds a live transaction.
func (d *DB) IsTransaction() bool { return d.tx != nil }

// Savepoint establishes a named savepoint.
func (d *DB) Savepoint(ctx context.Context, name string) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	stmt := "SAVEPOINT `" + name + "`"
	_, err := d.tx.ExecContext(ctx, stmt)
	return rqerrors.NewDriverError(stmt, nil, err)
}

// RollbackToSavepoint rolls back to name.
func (d *DB) RollbackToSavepoint(ctx context.Context, name string) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	stmt := "ROLLBACK TO SAVEPOINT `" + name + "`"
	_, err := d.tx.ExecContext(ctx, stmt)
	return rqerrors.NewDriverError(stmt, nil, err)
}

// ReleaseSavepoint releases name.
func (d *DB) ReleaseSavepoint(ctx context.Context, name string) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	stmt := "RELEASE SAVEPOINT `" + name + "`"
	_, err := d.tx.ExecContext(ctx, stmt)
	return rqerrors.NewDriverError(stmt, nil, err)
}

// Set runs `SET <set>` against the live transaction's session; MySQL has
// no `SET LOCAL`, so this is scoped to the transaction's connection only
// by virtue of using *sql.Tx, not by syntax.
func (d *DB) Set(ctx context.Context, set string) error {
	if d.tx == nil {
		return errors.New("no transaction in progress")
	}
	stmt := "SET " + set
	_, err := d.tx.ExecContext(ctx, stmt)
	return rqerrors.NewDriverError(stmt, nil, err)
}

// BulkInsert falls back to a single multi-row INSERT, since MySQL has no
// COPY-equivalent bulk-load API reachable through database/sql.
func (d *DB) BulkInsert(ctx context.Context, tableName string, columns []string, values [][]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	stmt := "INSERT INTO `" + tableName + "` ("
	for i, c := range columns {
		if i > 0 {
			stmt += ", "
		}
		stmt += "`" + c + "`"
	}
	stmt += ") VALUES "
	args := make([]interface{}, 0, len(values)*len(columns))
	for r, row := range values {
		if r > 0 {
			stmt += ", "
		}
		stmt += "("
		for i := range row {
			if i > 0 {
				stmt += ", "
			}
			stmt += "?"
		}
		stmt += ")"
		args = append(args, row...)
	}
	return d.Exec(ctx, stmt, args...)
}
