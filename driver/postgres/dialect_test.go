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

package postgres

import "testing"

func TestDialect_Placeholder(t *testing.T) {
	d := Dialect{}
	tests := []struct {
		n    int
		want string
	}{
		{n: 1, want: "$1"},
		{n: 2, want: "$2"},
		{n: 10, want: "$10"},
	}
	for _, tt := range tests {
		if got := d.Placeholder(tt.n); got != tt.want {
			t.Errorf("Placeholder(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDialect_QuoteIdentifier(t *testing.T) {
	d := Dialect{}
	tests := []struct {
		name string
		want string
	}{
		{name: "buyers", want: `"buyers"`},
		{name: `weird"name`, want: `"weird""name"`},
	}
	for _, tt := range tests {
		if got := d.QuoteIdentifier(tt.name); got != tt.want {
			t.Errorf("QuoteIdentifier(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDialect_SupportFlags(t *testing.T) {
	d := Dialect{}
	if !d.SupportsOnConflict() || !d.SupportsReturning() || !d.SupportsForUpdate() {
		t.Error("Postgres should support ON CONFLICT, RETURNING and FOR UPDATE")
	}
}

func TestDialect_CastLiteral(t *testing.T) {
	d := Dialect{}
	if got, want := d.CastLiteral("?", "uuid"), "?::uuid"; got != want {
		t.Errorf("CastLiteral() = %q, want %q", got, want)
	}
}
