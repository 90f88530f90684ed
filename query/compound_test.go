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

func TestCompoundSelect_Union(t *testing.T) {
	young := From(buyersTable).Filter(func(row buyerRow) Expr[bool] {
		return Lt(row.Age, Lit(Int64Mapper, int64(18)))
	})
	old := From(buyersTable).Filter(func(row buyerRow) Expr[bool] {
		return Gt(row.Age, Lit(Int64Mapper, int64(65)))
	})
	combined := young.Union(old).Take(5)
	rendered := RenderCompound(ANSI{}, combined)
	want := `SELECT "t0"."name" AS "res__name", "t0"."age" AS "res__age" FROM "buyers" AS "t0" WHERE ("t0"."age" < ?) UNION SELECT "t1"."name" AS "res__name", "t1"."age" AS "res__age" FROM "buyers" AS "t1" WHERE ("t1"."age" > ?) LIMIT 5`
	if rendered.SQL != want {
		t.Errorf("got  %q\nwant %q", rendered.SQL, want)
	}
	if diff := deep.Equal(rendered.Args, []interface{}{int64(18), int64(65)}); diff != nil {
		t.Error(diff)
	}
}

func TestCompoundSelect_PruneColumns_PanicsAcrossUnion(t *testing.T) {
	a := From(buyersTable)
	b := From(buyersTable)
	combined := a.Union(b)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected PruneColumns to panic across a plain UNION arm")
		}
	}()
	combined.PruneColumns("name")
}

func TestCompoundSelect_PruneColumns_AllowedAcrossUnionAll(t *testing.T) {
	a := From(buyersTable)
	b := From(buyersTable)
	combined := a.UnionAll(b)
	pruned := combined.PruneColumns("name")
	if pruned == nil {
		t.Fatal("expected a non-nil pruned CompoundSelect")
	}
}
