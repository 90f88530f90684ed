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

import (
	"testing"

	"github.com/go-test/deep"
)

var nameCol = NewColumn("name", StringMapper)
var ageCol = NewColumn("age", Int64Mapper)

func TestInsert_Render(t *testing.T) {
	tests := []struct {
		name     string
		insert   *Insert
		want     string
		wantArgs []interface{}
	}{
		{
			name:     "single row",
			insert:   InsertInto("buyers").Values(SetLiteral(nameCol, "ana"), SetLiteral(ageCol, int64(30))),
			want:     `INSERT INTO "buyers" ("name", "age") VALUES (?, ?)`,
			wantArgs: []interface{}{"ana", int64(30)},
		},
		{
			name: "multi row",
			insert: InsertInto("buyers").
				Values(SetLiteral(nameCol, "ana"), SetLiteral(ageCol, int64(30))).
				Values(SetLiteral(nameCol, "leo"), SetLiteral(ageCol, int64(40))),
			want:     `INSERT INTO "buyers" ("name", "age") VALUES (?, ?), (?, ?)`,
			wantArgs: []interface{}{"ana", int64(30), "leo", int64(40)},
		},
		{
			name: "returning",
			insert: InsertInto("buyers").
				Values(SetLiteral(nameCol, "ana")).
				Returning("id"),
			want:     `INSERT INTO "buyers" ("name") VALUES (?) RETURNING "id"`,
			wantArgs: []interface{}{"ana"},
		},
		{
			name: "on conflict do nothing",
			insert: InsertInto("buyers").
				Values(SetLiteral(nameCol, "ana")).
				OnConflict(OnColumn("name").DoNothing()),
			want:     `INSERT INTO "buyers" ("name") VALUES (?) ON CONFLICT ("name") DO NOTHING`,
			wantArgs: []interface{}{"ana"},
		},
		{
			name: "on conflict do update",
			insert: InsertInto("buyers").
				Values(SetLiteral(nameCol, "ana"), SetLiteral(ageCol, int64(30))).
				OnConflict(OnColumn("name").DoUpdate(SetLiteral(ageCol, int64(31)))),
			want:     `INSERT INTO "buyers" ("name", "age") VALUES (?, ?) ON CONFLICT ("name") DO UPDATE SET "age" = ?`,
			wantArgs: []interface{}{"ana", int64(30), int64(31)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered := tt.insert.Render(ANSI{})
			if rendered.SQL != tt.want {
				t.Errorf("Insert.Render() \ngot  %q\nwant %q", rendered.SQL, tt.want)
			}
			if diff := deep.Equal(rendered.Args, tt.wantArgs); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestInsert_Batched(t *testing.T) {
	i := InsertInto("buyers").Values(SetLiteral(nameCol, "ana"))
	if i.IsBulk() {
		t.Fatal("expected IsBulk() false before Batched()")
	}
	if !i.Batched().IsBulk() {
		t.Fatal("expected IsBulk() true after Batched()")
	}
}

func TestFromSelectInsert_Render(t *testing.T) {
	buyers := NewTable("buyers", func(aliasRef *string) Expr[string] {
		return nameCol.Of(aliasRef)
	})
	sel := From(buyers).Filter(func(name Expr[string]) Expr[bool] {
		return Eq(name, Lit(StringMapper, "ana"))
	})

	insert := FromSelectInsert[Expr[string]]("archived_buyers", []string{"name"}, sel)
	rendered := insert.Render(ANSI{})
	want := `INSERT INTO "archived_buyers" ("name") SELECT "t0"."name" AS "res__value" FROM "buyers" AS "t0" WHERE ("t0"."name" = ?)`
	if rendered.SQL != want {
		t.Errorf("FromSelectInsert Render() \ngot  %q\nwant %q", rendered.SQL, want)
	}
	if diff := deep.Equal(rendered.Args, []interface{}{"ana"}); diff != nil {
		t.Error(diff)
	}
}
