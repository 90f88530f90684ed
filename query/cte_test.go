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

func TestCTE_RenderViaWith(t *testing.T) {
	adults := From(buyersTable).Filter(func(row buyerRow) Expr[bool] {
		return Gt(row.Age, Lit(Int64Mapper, int64(18)))
	})
	cte := NamedCTE("adults", adults, func(aliasRef *string) buyerRow {
		return buyerRow{Name: nameCol.Of(aliasRef), Age: ageCol.Of(aliasRef)}
	})

	sel := FromCTE(cte).
		With(cte.Def()).
		Filter(func(row buyerRow) Expr[bool] {
			return Eq(row.Name, Lit(StringMapper, "ana"))
		})

	rendered := Render(ANSI{}, sel)
	want := `WITH "adults" AS (SELECT "t0"."name" AS "res__name", "t0"."age" AS "res__age" FROM "buyers" AS "t0" WHERE ("t0"."age" > ?)) SELECT "t1"."name" AS "res__name", "t1"."age" AS "res__age" FROM "adults" AS "t1" WHERE ("t1"."name" = ?)`
	if rendered.SQL != want {
		t.Errorf("CTE Render() \ngot  %q\nwant %q", rendered.SQL, want)
	}
	if diff := deep.Equal(rendered.Args, []interface{}{int64(18), "ana"}); diff != nil {
		t.Error(diff)
	}
}
