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
	"testing"

	"github.com/relq-dev/relq/connection"
)

// fakeDB records the last statement/args it was asked to run, mirroring
// the teacher's fakeConn in db/connection/connection_test.go.
type fakeDB struct {
	lastStatement string
	lastArgs      []interface{}
	lastFields    []string
	execResult    int64
	bulkTable     string
	bulkColumns   []string
	bulkValues    [][]interface{}
}

var _ connection.DB = (*fakeDB)(nil)

func (f *fakeDB) Clone() connection.DB { return f }

func (f *fakeDB) QueryIter(ctx context.Context, statement string, fields []string, args ...interface{}) (connection.ResultFetchIter, error) {
	f.lastStatement, f.lastFields, f.lastArgs = statement, fields, args
	return func(interface{}) (bool, func(), error) { return false, func() {}, nil }, nil
}

func (f *fakeDB) Query(ctx context.Context, statement string, fields []string, args ...interface{}) (connection.ResultFetch, error) {
	f.lastStatement, f.lastFields, f.lastArgs = statement, fields, args
	return func(interface{}) error { return nil }, nil
}

func (f *fakeDB) QueryPrimitive(ctx context.Context, statement string, field string, args ...interface{}) (connection.ResultFetch, error) {
	f.lastStatement, f.lastArgs = statement, args
	return func(interface{}) error { return nil }, nil
}

func (f *fakeDB) Raw(ctx context.Context, statement string, args []interface{}, fields ...interface{}) error {
	f.lastStatement, f.lastArgs = statement, args
	return nil
}

func (f *fakeDB) Exec(ctx context.Context, statement string, args ...interface{}) error {
	f.lastStatement, f.lastArgs = statement, args
	return nil
}

func (f *fakeDB) ExecResult(ctx context.Context, statement string, args ...interface{}) (int64, error) {
	f.lastStatement, f.lastArgs = statement, args
	return f.execResult, nil
}

func (f *fakeDB) BeginTransaction(ctx context.Context) (connection.DB, error) { return f, nil }
func (f *fakeDB) CommitTransaction(ctx context.Context) error                 { return nil }
func (f *fakeDB) RollbackTransaction(ctx context.Context) error               { return nil }
func (f *fakeDB) IsTransaction() bool                                        { return false }
func (f *fakeDB) Savepoint(ctx context.Context, name string) error           { return nil }
func (f *fakeDB) RollbackToSavepoint(ctx context.Context, name string) error { return nil }
func (f *fakeDB) ReleaseSavepoint(ctx context.Context, name string) error    { return nil }
func (f *fakeDB) Set(ctx context.Context, set string) error                  { return nil }

func (f *fakeDB) BulkInsert(ctx context.Context, tableName string, columns []string, values [][]interface{}) error {
	f.bulkTable, f.bulkColumns, f.bulkValues = tableName, columns, values
	return nil
}

func TestExecInsert(t *testing.T) {
	db := &fakeDB{execResult: 1}
	insert := InsertInto("buyers").Values(SetLiteral(nameCol, "ana"))
	n, err := ExecInsert(context.Background(), db, ANSI{}, insert)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("got %d rows affected, want 1", n)
	}
	want := `INSERT INTO "buyers" ("name") VALUES (?)`
	if db.lastStatement != want {
		t.Errorf("got statement %q, want %q", db.lastStatement, want)
	}
}

func TestExecUpdate(t *testing.T) {
	db := &fakeDB{execResult: 2}
	u, row := UpdateTable(buyersTable)
	u = u.Set(SetLiteral(ageCol, int64(1))).Where(Eq(row.Name, Lit(StringMapper, "ana")))
	n, err := ExecUpdate(context.Background(), db, ANSI{}, u)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("got %d rows affected, want 2", n)
	}
}

func TestExecDelete(t *testing.T) {
	db := &fakeDB{execResult: 3}
	d, row := DeleteFrom(buyersTable)
	d = d.Where(Eq(row.Name, Lit(StringMapper, "ana")))
	n, err := ExecDelete(context.Background(), db, ANSI{}, d)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("got %d rows affected, want 3", n)
	}
}

func TestFetch(t *testing.T) {
	db := &fakeDB{}
	sel := From(buyersTable)
	var dest []buyerRow
	if err := Fetch(context.Background(), db, ANSI{}, sel, &dest); err != nil {
		t.Fatal(err)
	}
	if len(db.lastFields) == 0 {
		t.Error("expected Fetch to pass result-path fields through to db.Query")
	}
}

func TestBulkInsert(t *testing.T) {
	db := &fakeDB{}
	rows := [][]interface{}{{"ana", int64(30)}, {"leo", int64(40)}}
	if err := BulkInsert(context.Background(), db, "buyers", []string{"name", "age"}, rows); err != nil {
		t.Fatal(err)
	}
	if db.bulkTable != "buyers" || len(db.bulkValues) != 2 {
		t.Errorf("unexpected bulk insert call: table=%q values=%v", db.bulkTable, db.bulkValues)
	}
}
