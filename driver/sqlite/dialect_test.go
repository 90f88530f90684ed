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

package sqlite

import "testing"

func TestDialect_SupportFlags(t *testing.T) {
	d := Dialect{}
	if !d.SupportsOnConflict() {
		t.Error("SQLite 3.35+ supports ON CONFLICT; expected true")
	}
	if !d.SupportsReturning() {
		t.Error("SQLite 3.35+ supports RETURNING; expected true")
	}
	if d.SupportsForUpdate() {
		t.Error("SQLite has no per-row lock syntax; expected SupportsForUpdate() false")
	}
}

func TestDialect_QuoteIdentifier(t *testing.T) {
	d := Dialect{}
	if got, want := d.QuoteIdentifier("buyers"), `"buyers"`; got != want {
		t.Errorf("QuoteIdentifier() = %q, want %q", got, want)
	}
}

func TestDialect_CastLiteral(t *testing.T) {
	d := Dialect{}
	if got, want := d.CastLiteral("?", ""), "?"; got != want {
		t.Errorf("CastLiteral with empty cast = %q, want %q", got, want)
	}
	if got, want := d.CastLiteral("?", "TEXT"), "CAST(? AS TEXT)"; got != want {
		t.Errorf("CastLiteral() = %q, want %q", got, want)
	}
}
