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

type buyerRow struct {
	Name Expr[string]
	Age  Expr[int64]
}

var buyersTable = NewTable("buyers", func(aliasRef *string) buyerRow {
	return buyerRow{Name: nameCol.Of(aliasRef), Age: ageCol.Of(aliasRef)}
})

func TestUpdate_Render(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Update
		want     string
		wantArgs []interface{}
	}{
		{
			name: "set with where",
			build: func() *Update {
				u, row := UpdateTable(buyersTable)
				return u.Set(SetLiteral(ageCol, int64(31))).Where(Eq(row.Name, Lit(StringMapper, "ana")))
			},
			want:     `UPDATE "buyers" SET "age" = ? WHERE ("buyers"."name" = ?)`,
			wantArgs: []interface{}{int64(31), "ana"},
		},
		{
			name: "no where updates every row",
			build: func() *Update {
				u, _ := UpdateTable(buyersTable)
				return u.Set(SetLiteral(ageCol, int64(0)))
			},
			want:     `UPDATE "buyers" SET "age" = ?`,
			wantArgs: []interface{}{int64(0)},
		},
		{
			name: "returning",
			build: func() *Update {
				u, row := UpdateTable(buyersTable)
				return u.Set(SetLiteral(ageCol, int64(31))).
					Where(Eq(row.Name, Lit(StringMapper, "ana"))).
					Returning("id", "age")
			},
			want:     `UPDATE "buyers" SET "age" = ? WHERE ("buyers"."name" = ?) RETURNING "id", "age"`,
			wantArgs: []interface{}{int64(31), "ana"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered := tt.build().Render(ANSI{})
			if rendered.SQL != tt.want {
				t.Errorf("Update.Render() \ngot  %q\nwant %q", rendered.SQL, tt.want)
			}
			if diff := deep.Equal(rendered.Args, tt.wantArgs); diff != nil {
				t.Error(diff)
			}
		})
	}
}
