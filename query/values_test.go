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

func TestFromValues_Render(t *testing.T) {
	sel := FromValues(StringMapper, "n", "ana", "leo", "pajarito")
	rendered := Render(ANSI{}, sel)
	want := `SELECT "t0"."n" AS "res__value" FROM (VALUES (?), (?), (?)) AS "t0"("n")`
	if rendered.SQL != want {
		t.Errorf("FromValues Render() \ngot  %q\nwant %q", rendered.SQL, want)
	}
	if diff := deep.Equal(rendered.Args, []interface{}{"ana", "leo", "pajarito"}); diff != nil {
		t.Error(diff)
	}
}

func TestFromValues_FilterAndJoin(t *testing.T) {
	sel := FromValues(Int64Mapper, "n", int64(1), int64(2)).
		Filter(func(n Expr[int64]) Expr[bool] { return Gt(n, Lit(Int64Mapper, int64(0))) }).
		Take(10)
	rendered := Render(ANSI{}, sel)
	want := `SELECT "t0"."n" AS "res__value" FROM (VALUES (?), (?)) AS "t0"("n") WHERE ("t0"."n" > ?) LIMIT 10`
	if rendered.SQL != want {
		t.Errorf("FromValues Filter/Take Render() \ngot  %q\nwant %q", rendered.SQL, want)
	}
	if diff := deep.Equal(rendered.Args, []interface{}{int64(1), int64(2), int64(0)}); diff != nil {
		t.Error(diff)
	}
}
