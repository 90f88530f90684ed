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

// Package rqerrors holds the sentinel and wrapping error types shared across
// the query renderer, the row-decoding layer and the connection/transaction
// layer.
package rqerrors

import pkgErrors "github.com/pkg/errors"

// ErrNoRows should be returned when a query that is supposed to yield results does not.
var ErrNoRows = pkgErrors.New("no rows in result set")

// ErrNoTX is encountered when an operation is done that assumes a transaction exists, but isn't present.
var ErrNoTX = pkgErrors.New("transaction does not exist")

// ErrNoDB is encountered when an operation is performed without a valid transaction or connection to the DB.
var ErrNoDB = pkgErrors.New("neither transaction or database connection exists")

// ErrAlreadyInTX is encountered when one attempts to start a transaction within a transaction.
var ErrAlreadyInTX = pkgErrors.New("cannot begin a transaction within a transaction")

// ErrNoSavepoint is encountered when rolling back to or releasing a savepoint that was never set.
var ErrNoSavepoint = pkgErrors.New("no such savepoint")

// ErrNotImplemented is returned when a feature not supported by a driver/dialect is invoked.
var ErrNotImplemented = pkgErrors.New("not implemented for this driver")

// RenderError wraps a failure discovered while turning a Query IR value into
// SQL text, before any driver is involved.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return "rendering " + e.Op + ": " + e.Err.Error()
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *RenderError) Unwrap() error { return e.Err }

// NewRenderError builds a RenderError, naming the rendering step that failed.
func NewRenderError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RenderError{Op: op, Err: err}
}

// BindError wraps a failure binding a Go value to a parameter slot under a
// declared TypeMapper.
type BindError struct {
	Column string
	Value  interface{}
	Err    error
}

func (e *BindError) Error() string {
	return pkgErrors.Wrapf(e.Err, "binding column %q (value %#v)", e.Column, e.Value).Error()
}

func (e *BindError) Unwrap() error { return e.Err }

// DriverError wraps any error reported by the underlying connection,
// attaching the SQL text and parameter count that triggered it, per
// spec.md §7 ("propagated verbatim with the failed SQL text and parameter
// count attached").
type DriverError struct {
	SQL     string
	NumArgs int
	Err     error
}

func (e *DriverError) Error() string {
	return pkgErrors.Wrapf(e.Err, "executing statement (args=%d): %s", e.NumArgs, e.SQL).Error()
}

func (e *DriverError) Unwrap() error { return e.Err }

// NewDriverError builds a DriverError, or returns nil if err is nil.
func NewDriverError(sql string, args []interface{}, err error) error {
	if err == nil {
		return nil
	}
	return &DriverError{SQL: sql, NumArgs: len(args), Err: err}
}

// DecodeError wraps a failure reconstructing a result row into a user
// shape, naming the offending column path.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return pkgErrors.Wrapf(e.Err, "decoding column path %q", e.Path).Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecodeError builds a DecodeError, or returns nil if err is nil.
func NewDecodeError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Path: path, Err: err}
}

// TransactionError records a failure inside a transaction block together
// with whatever happened when rollback was attempted, per spec.md §7
// ("if rollback itself fails, the original error is surfaced with the
// rollback failure chained").
type TransactionError struct {
	Cause          error
	RollbackFailed error
}

func (e *TransactionError) Error() string {
	cause := e.Cause
	if cause == nil {
		cause = pkgErrors.New("unknown cause")
	}
	if e.RollbackFailed == nil {
		return pkgErrors.Wrap(cause, "transaction failed").Error()
	}
	return pkgErrors.Wrapf(cause,
		"transaction failed, and rolling it back also failed: %v", e.RollbackFailed).Error()
}

func (e *TransactionError) Unwrap() error { return e.Cause }

// NewTransactionError builds a TransactionError, or returns nil if both
// cause and rollbackFailed are nil (nothing went wrong).
func NewTransactionError(cause, rollbackFailed error) error {
	if cause == nil && rollbackFailed == nil {
		return nil
	}
	return &TransactionError{Cause: cause, RollbackFailed: rollbackFailed}
}
