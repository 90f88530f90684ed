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

import "testing"

func TestOnConflict_render(t *testing.T) {
	tests := []struct {
		name string
		oc   *OnConflict
		want string
	}{
		{
			name: "on column do nothing",
			oc:   OnColumn("email").DoNothing(),
			want: `ON CONFLICT ("email") DO NOTHING`,
		},
		{
			name: "on constraint do nothing",
			oc:   OnConstraint("buyers_email_key").DoNothing(),
			want: `ON CONFLICT ON CONSTRAINT "buyers_email_key" DO NOTHING`,
		},
		{
			name: "on column do update",
			oc:   OnColumn("email").DoUpdate(SetLiteral(ageCol, int64(1))),
			want: `ON CONFLICT ("email") DO UPDATE SET "age" = ?`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := NewRenderContext(ANSI{})
			frag := tt.oc.render(rc)
			sql, _ := frag.Render(ANSI{})
			if sql != tt.want {
				t.Errorf("OnConflict.render() \ngot  %q\nwant %q", sql, tt.want)
			}
		})
	}
}

func TestOnConflict_DoUpdateWhere(t *testing.T) {
	aliasRef := new(string)
	*aliasRef = "buyers"
	oc := OnColumn("email").
		DoUpdate(SetLiteral(ageCol, int64(1))).
		Where(Gt(ageCol.Of(aliasRef), Lit(Int64Mapper, int64(0))))
	rc := NewRenderContext(ANSI{})
	sql, args := oc.render(rc).Render(ANSI{})
	want := `ON CONFLICT ("email") DO UPDATE SET "age" = ? WHERE ("buyers"."age" > ?)`
	if sql != want {
		t.Errorf("OnConflict.render() with Where \ngot  %q\nwant %q", sql, want)
	}
	if len(args) != 2 || args[0] != int64(1) || args[1] != int64(0) {
		t.Errorf("got args %v", args)
	}
}

func TestOnConflict_DoUpdateOverridesDoNothing(t *testing.T) {
	oc := OnColumn("email").DoNothing().DoUpdate(SetLiteral(ageCol, int64(5)))
	rc := NewRenderContext(ANSI{})
	sql, args := oc.render(rc).Render(ANSI{})
	wantSQL := `ON CONFLICT ("email") DO UPDATE SET "age" = ?`
	if sql != wantSQL {
		t.Errorf("got %q want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != int64(5) {
		t.Errorf("got args %v", args)
	}
}
