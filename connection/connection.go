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

// Package connection describes the boundary between the query renderer and
// an actual database driver: a connection that executes parameterized SQL
// and returns rows, plus the transaction/savepoint scoping discipline that
// sits on top of it. This is the "driver contract (consumed)" of spec.md §6.
package connection

import (
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/relq-dev/relq/logging"
	"github.com/relq-dev/relq/rqerrors"
)

// LogLevel is the type for the potential log levels a db can have.
type LogLevel string

var (
	// Trace sets log level to trace.
	Trace LogLevel = "trace"
	// Debug sets log level to debug.
	Debug LogLevel = "debug"
	// Info sets log level to info.
	Info LogLevel = "info"
	// Warn sets log level to warn.
	Warn LogLevel = "warn"
	// Error sets log level to error.
	Error LogLevel = "error"
	// None sets log level to none.
	None LogLevel = "none"
)

// Information contains all required information to create a connection into a db.
type Information struct {
	Host     string
	Port     uint16
	Database string
	User     string
	Password string

	ConnMaxLifetime *time.Duration

	CustomDial func(ctx context.Context, network, addr string) (net.Conn, error)

	// MaxConnPoolConns where applies will be used to determine the maximum amount of connections
	// a pool can have.
	MaxConnPoolConns int32

	// QueryExecTimeout holds a per-statement time limit. It is not
	// enforced in this package, and none of the drivers in this module
	// read it.
	QueryExecTimeout *time.Duration

	Logger   logging.Logger
	LogLevel LogLevel

	// NameMapper holds an identifier (table/column name) rewriting
	// function. Neither the drivers nor the query renderer read it, so
	// identifiers reach the dialect's quoting step unchanged.
	NameMapper func(string) string
}

// DatabaseHandler represents the boundary with a db.
type DatabaseHandler interface {
	// Open must be able to connect to the handled engine and return a db.
	Open(ctx context.Context, ci *Information) (DB, error)
}

// ResultFetchIter represents a closure that receives a receiver struct that will get the
// results assigned for one row and returns a tuple of `next item present`, `close function`, error.
type ResultFetchIter func(interface{}) (bool, func(), error)

// ResultFetch represents a closure that receives a receiver struct and will assign all the results;
// it is expected that it receives a slice.
type ResultFetch func(interface{}) error

// DB represents an active database connection.
type DB interface {
	// Clone returns a stateful copy of this connection.
	Clone() DB
	// QueryIter returns a closure allowing rows to be loaded/fetched one by one.
	QueryIter(ctx context.Context, statement string, fields []string, args ...interface{}) (ResultFetchIter, error)
	// Query returns a closure that allows fetching of the results of the query.
	Query(ctx context.Context, statement string, fields []string, args ...interface{}) (ResultFetch, error)
	// QueryPrimitive returns a closure that allows fetching of the results of a query to a
	// slice of primitives.
	QueryPrimitive(ctx context.Context, statement string, field string, args ...interface{}) (ResultFetch, error)
	// Raw is intended to be an all-raw query that runs statement with args and tries
	// to retrieve the results into fields without much magic whatsoever.
	Raw(ctx context.Context, statement string, args []interface{}, fields ...interface{}) error
	// Exec is intended for queries that do not yield results (data modifiers).
	Exec(ctx context.Context, statement string, args ...interface{}) error
	// ExecResult is intended for queries that modify data and respond with how many rows were affected.
	ExecResult(ctx context.Context, statement string, args ...interface{}) (int64, error)
	// BeginTransaction returns a new DB that will use the transaction instead of the basic conn.
	BeginTransaction(ctx context.Context) (DB, error)
	// CommitTransaction commits the transaction.
	CommitTransaction(ctx context.Context) error
	// RollbackTransaction rolls back the transaction.
	RollbackTransaction(ctx context.Context) error
	// IsTransaction indicates if the DB is in the middle of a transaction.
	IsTransaction() bool
	// Savepoint establishes a named savepoint within the current transaction.
	Savepoint(ctx context.Context, name string) error
	// RollbackToSavepoint rolls the transaction back to a previously established savepoint.
	RollbackToSavepoint(ctx context.Context, name string) error
	// ReleaseSavepoint releases a previously established savepoint.
	ReleaseSavepoint(ctx context.Context, name string) error
	// Set allows changing settings for the current transaction (`SET LOCAL ...`).
	Set(ctx context.Context, set string) error
	// BulkInsert inserts in the most efficient way possible a lot of data.
	BulkInsert(ctx context.Context, tableName string, columns []string, values [][]interface{}) error
}

var _ DB = (*FlexibleTransaction)(nil)

// FlexibleTransaction allows a DB transaction to be passed through functions and avoid multiple
// commit/rollbacks; it also takes care of some of the most repeated checks at the time of
// commit/rollback and tx checking.
type FlexibleTransaction struct {
	DB
	rolled               bool
	cause                error
	concurrencySafeguard sync.Mutex
}

// MarkRollbackCause records why this transaction is being rolled back, so
// Cleanup can surface it as TransactionError.Cause if the rollback itself
// also fails. Callers that roll back without a tracked cause (plain
// RollbackTransaction) still work: Cleanup reports a rollback failure with
// an unknown cause rather than none at all.
func (f *FlexibleTransaction) MarkRollbackCause(err error) {
	f.concurrencySafeguard.Lock()
	defer f.concurrencySafeguard.Unlock()
	f.rolled = true
	f.cause = err
}

// Cleanup commits if the transaction was never marked for rollback, rolls back otherwise.
// It reports (committed, rolledBack, error).
func (f *FlexibleTransaction) Cleanup(ctx context.Context) (bool, bool, error) {
	f.concurrencySafeguard.Lock()
	defer f.concurrencySafeguard.Unlock()
	if f.DB == nil {
		return false, false, nil
	}
	if f.rolled {
		if err := f.DB.RollbackTransaction(ctx); err != nil {
			return false, false, rqerrors.NewTransactionError(f.cause, err)
		}
		return false, true, nil
	}

	if err := f.DB.CommitTransaction(ctx); err != nil {
		return false, false, rqerrors.NewDriverError("COMMIT", nil, err)
	}
	return true, false, nil
}

// TXFinishFunc represents an all-encompassing function that either rolls back or commits a tx
// based on the outcome.
type TXFinishFunc func(ctx context.Context) (committed, rolled bool, err error)

// BeginTransaction wraps the passed DB into a transaction handler that supports being used with
// less care, and prevents failures due to double-committing or re-entrant transactions.
func BeginTransaction(ctx context.Context, conn DB) (DB, TXFinishFunc, error) {
	// this can happen, so let's work around it.
	if ft, isFT := conn.(*FlexibleTransaction); isFT {
		return ft, noop, nil
	}

	// the underlying conn is already a tx, let's be careful not to commit/rollback it.
	if conn.IsTransaction() {
		return &FlexibleTransaction{DB: conn}, noop, nil
	}

	tx, err := conn.BeginTransaction(ctx)
	if err != nil {
		return nil, nil, rqerrors.NewDriverError("BEGIN", nil, err)
	}

	f := &FlexibleTransaction{DB: tx}
	return f, f.Cleanup, nil
}

func noop(context.Context) (bool, bool, error) { return false, false, nil }

// BeginTransaction implements DB for FlexibleTransaction.
func (f *FlexibleTransaction) BeginTransaction(ctx context.Context) (DB, error) {
	return f, nil
}

// CommitTransaction implements DB for FlexibleTransaction.
func (f *FlexibleTransaction) CommitTransaction(ctx context.Context) error {
	return nil
}

// RollbackTransaction implements DB for FlexibleTransaction.
func (f *FlexibleTransaction) RollbackTransaction(ctx context.Context) error {
	f.concurrencySafeguard.Lock()
	defer f.concurrencySafeguard.Unlock()
	f.rolled = true
	return nil
}

// EscapeArgs returns the query and args with the argument placeholders rewritten from `?` to
// dialect-native positional markers (`$1`, `$2`, ...).
func EscapeArgs(query string, args []interface{}) (string, []interface{}, error) {
	queryWithArgs := &strings.Builder{}
	argCounter := 1
	for _, queryChar := range query {
		if queryChar == '?' {
			queryWithArgs.WriteRune('$')
			queryWithArgs.WriteString(strconv.Itoa(argCounter))
			argCounter++
		} else {
			queryWithArgs.WriteRune(queryChar)
		}
	}
	if len(args) != argCounter-1 {
		return "", nil, errors.Errorf("the query has %d args but %d were passed: \n %q \n %#v",
			argCounter-1, len(args), queryWithArgs, args)
	}
	return queryWithArgs.String(), args, nil
}
