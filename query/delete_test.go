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

func TestDelete_Render(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Delete
		want     string
		wantArgs []interface{}
	}{
		{
			name: "delete with where",
			build: func() *Delete {
				d, row := DeleteFrom(buyersTable)
				return d.Where(Eq(row.Name, Lit(StringMapper, "ana")))
			},
			want:     `DELETE FROM "buyers" WHERE ("buyers"."name" = ?)`,
			wantArgs: []interface{}{"ana"},
		},
		{
			name: "delete everything",
			build: func() *Delete {
				d, _ := DeleteFrom(buyersTable)
				return d
			},
			want:     `DELETE FROM "buyers"`,
			wantArgs: []interface{}{},
		},
		{
			name: "delete with returning",
			build: func() *Delete {
				d, row := DeleteFrom(buyersTable)
				return d.Where(Gt(row.Age, Lit(Int64Mapper, int64(99)))).Returning("id")
			},
			want:     `DELETE FROM "buyers" WHERE ("buyers"."age" > ?) RETURNING "id"`,
			wantArgs: []interface{}{int64(99)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered := tt.build().Render(ANSI{})
			if rendered.SQL != tt.want {
				t.Errorf("Delete.Render() \ngot  %q\nwant %q", rendered.SQL, tt.want)
			}
			if diff := deep.Equal(rendered.Args, tt.wantArgs); diff != nil {
				t.Error(diff)
			}
		})
	}
}
