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

package mysql

import "testing"

func TestDialect_QuoteIdentifier(t *testing.T) {
	d := Dialect{}
	tests := []struct {
		name string
		want string
	}{
		{name: "buyers", want: "`buyers`"},
		{name: "weird`name", want: "`weird``name`"},
	}
	for _, tt := range tests {
		if got := d.QuoteIdentifier(tt.name); got != tt.want {
			t.Errorf("QuoteIdentifier(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDialect_NoOnConflictOrReturning(t *testing.T) {
	d := Dialect{}
	if d.SupportsOnConflict() {
		t.Error("MySQL's ON DUPLICATE KEY UPDATE has a different target-selection model than ON CONFLICT; expected SupportsOnConflict() false")
	}
	if d.SupportsReturning() {
		t.Error("MySQL has no RETURNING clause; expected SupportsReturning() false")
	}
	if !d.SupportsForUpdate() {
		t.Error("MySQL supports FOR UPDATE row locking; expected true")
	}
}

func TestDialect_NullSafeEquals(t *testing.T) {
	d := Dialect{}
	if got, want := d.NullSafeEquals("a", "b"), "(a <=> b)"; got != want {
		t.Errorf("NullSafeEquals() = %q, want %q", got, want)
	}
	if got, want := d.NullSafeNotEquals("a", "b"), "NOT (a <=> b)"; got != want {
		t.Errorf("NullSafeNotEquals() = %q, want %q", got, want)
	}
}

func TestDialect_CastLiteral(t *testing.T) {
	d := Dialect{}
	if got, want := d.CastLiteral("?", ""), "?"; got != want {
		t.Errorf("CastLiteral with empty cast = %q, want %q", got, want)
	}
	if got, want := d.CastLiteral("?", "DECIMAL"), "CAST(? AS DECIMAL)"; got != want {
		t.Errorf("CastLiteral() = %q, want %q", got, want)
	}
}

func TestFmtAddr(t *testing.T) {
	tests := []struct {
		host string
		port uint16
		want string
	}{
		{host: "localhost", port: 3306, want: "localhost:3306"},
		{host: "db.internal", port: 0, want: "db.internal:3306"},
	}
	for _, tt := range tests {
		if got := fmtAddr(tt.host, tt.port); got != tt.want {
			t.Errorf("fmtAddr(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}
