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

func TestSimpleSelect_FilterWhere(t *testing.T) {
	sel := From(buyersTable).Filter(func(row buyerRow) Expr[bool] {
		return Eq(row.Name, Lit(StringMapper, "ana"))
	})
	rendered := Render(ANSI{}, sel)
	want := `SELECT "t0"."name" AS "res__name", "t0"."age" AS "res__age" FROM "buyers" AS "t0" WHERE ("t0"."name" = ?)`
	if rendered.SQL != want {
		t.Errorf("got  %q\nwant %q", rendered.SQL, want)
	}
	if diff := deep.Equal(rendered.Args, []interface{}{"ana"}); diff != nil {
		t.Error(diff)
	}
}

func TestSimpleSelect_TakeIsMonotonicMinimum(t *testing.T) {
	sel := From(buyersTable).Take(10).Take(3).Take(7)
	rendered := Render(ANSI{}, sel)
	want := `SELECT "t0"."name" AS "res__name", "t0"."age" AS "res__age" FROM "buyers" AS "t0" LIMIT 3`
	if rendered.SQL != want {
		t.Errorf("got  %q\nwant %q", rendered.SQL, want)
	}
}

func TestSimpleSelect_DropSums(t *testing.T) {
	sel := From(buyersTable).Drop(5).Drop(5)
	rendered := Render(ANSI{}, sel)
	want := `SELECT "t0"."name" AS "res__name", "t0"."age" AS "res__age" FROM "buyers" AS "t0" OFFSET 10`
	if rendered.SQL != want {
		t.Errorf("got  %q\nwant %q", rendered.SQL, want)
	}
}

func TestSimpleSelect_SortByMostRecentIsPrimary(t *testing.T) {
	base := From(buyersTable)
	sel := base.SortBy(Asc(base.row.Age)).SortBy(Desc(base.row.Name))
	rendered := Render(ANSI{}, sel)
	want := `SELECT "t0"."name" AS "res__name", "t0"."age" AS "res__age" FROM "buyers" AS "t0" ORDER BY "t0"."name" DESC, "t0"."age" ASC`
	if rendered.SQL != want {
		t.Errorf("got  %q\nwant %q", rendered.SQL, want)
	}
}

func TestJoin_Inner(t *testing.T) {
	orders := NewTable("orders", func(aliasRef *string) struct {
		BuyerName Expr[string]
	} {
		return struct{ BuyerName Expr[string] }{BuyerName: NewColumn("buyer_name", StringMapper).Of(aliasRef)}
	})
	joined := Join(From(buyersTable), orders, func(b buyerRow, o struct{ BuyerName Expr[string] }) Expr[bool] {
		return Eq(b.Name, o.BuyerName)
	})
	rendered := Render(ANSI{}, joined)
	want := `SELECT "t0"."name" AS "res__first__name", "t0"."age" AS "res__first__age", "t1"."buyer_name" AS "res__second__buyer_name" FROM "buyers" AS "t0" INNER JOIN "orders" AS "t1" ON ("t0"."name" = "t1"."buyer_name")`
	if rendered.SQL != want {
		t.Errorf("got  %q\nwant %q", rendered.SQL, want)
	}
}

func TestLeftJoin_NullablePresence(t *testing.T) {
	orders := NewTable("orders", func(aliasRef *string) struct {
		BuyerName Expr[string]
	} {
		return struct{ BuyerName Expr[string] }{BuyerName: NewColumn("buyer_name", StringMapper).Of(aliasRef)}
	})
	joined := LeftJoin(From(buyersTable), orders, func(b buyerRow, o struct{ BuyerName Expr[string] }) Expr[bool] {
		return Eq(b.Name, o.BuyerName)
	})
	rendered := Render(ANSI{}, joined)
	wantPrefix := `SELECT "t0"."name" AS "res__first__name", "t0"."age" AS "res__first__age", ? AS "res__second__present"`
	if len(rendered.SQL) < len(wantPrefix) || rendered.SQL[:len(wantPrefix)] != wantPrefix {
		t.Errorf("unexpected select-list prefix in %q", rendered.SQL)
	}
	if len(rendered.Args) == 0 || rendered.Args[0] != true {
		t.Errorf("expected presence literal true as first bound arg, got %v", rendered.Args)
	}
}

func TestGroupBy(t *testing.T) {
	grouped := GroupBy(From(buyersTable),
		func(row buyerRow) Expr[string] { return row.Name },
		func(row buyerRow) Expr[int64] { return row.Age },
	)
	rendered := Render(ANSI{}, grouped)
	want := `SELECT "t0"."name" AS "res__first", "t0"."age" AS "res__second" FROM "buyers" AS "t0" GROUP BY "t0"."name"`
	if rendered.SQL != want {
		t.Errorf("got  %q\nwant %q", rendered.SQL, want)
	}
}

func TestFilterAfterGroupByTargetsHaving(t *testing.T) {
	grouped := GroupBy(From(buyersTable),
		func(row buyerRow) Expr[string] { return row.Name },
		func(row buyerRow) Expr[int64] { return row.Age },
	).Filter(func(kv Tuple2[Expr[string], Expr[int64]]) Expr[bool] {
		return Gt(kv.Second, Lit(Int64Mapper, int64(18)))
	})
	rendered := Render(ANSI{}, grouped)
	want := `SELECT "t0"."name" AS "res__first", "t0"."age" AS "res__second" FROM "buyers" AS "t0" GROUP BY "t0"."name" HAVING ("t0"."age" > ?)`
	if rendered.SQL != want {
		t.Errorf("got  %q\nwant %q", rendered.SQL, want)
	}
}
