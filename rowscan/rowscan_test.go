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

package rowscan

import (
	"reflect"
	"testing"
)

type buyer struct {
	Name      string
	TotalDue  int64 `relq:"field_name:res__total"`
	unexposed string
}

func TestNameFromTag(t *testing.T) {
	tod := reflect.TypeOf(buyer{})
	tests := []struct {
		field string
		want  string
	}{
		{field: "Name", want: "name"},
		{field: "TotalDue", want: "res__total"},
	}
	for _, tt := range tests {
		f, ok := tod.FieldByName(tt.field)
		if !ok {
			t.Fatalf("field %s not found", tt.field)
		}
		if got := NameFromTag(f); got != tt.want {
			t.Errorf("NameFromTag(%s) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestFieldMap_SkipsUnexported(t *testing.T) {
	fm, err := FieldMap(reflect.TypeOf(buyer{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := fm["unexposed"]; ok {
		t.Error("expected unexported field to be skipped")
	}
	if _, ok := fm["name"]; !ok {
		t.Error("expected \"name\" to be mapped")
	}
	if _, ok := fm["res__total"]; !ok {
		t.Error("expected tag override \"res__total\" to be mapped")
	}
}

func TestFieldMap_RejectsNonStruct(t *testing.T) {
	if _, err := FieldMap(reflect.TypeOf(42)); err == nil {
		t.Error("expected an error for a non-struct type")
	}
}

func TestRecipients_MatchesByNameAndDiscardsUnmatched(t *testing.T) {
	dest := &buyer{}
	recipients, err := Recipients(dest, []string{"name", "res__total", "unknown_column"})
	if err != nil {
		t.Fatal(err)
	}
	if len(recipients) != 3 {
		t.Fatalf("got %d recipients, want 3", len(recipients))
	}
	*(recipients[0].(*string)) = "ana"
	*(recipients[1].(*int64)) = 42
	if dest.Name != "ana" || dest.TotalDue != 42 {
		t.Errorf("unexpected decode result: %+v", dest)
	}
}

func TestRecipients_RejectsNonPointer(t *testing.T) {
	if _, err := Recipients(buyer{}, []string{"name"}); err == nil {
		t.Error("expected an error for a non-pointer destination")
	}
}

func TestNewElem_AllocatesAndAppends(t *testing.T) {
	var dest []buyer
	elem, appendTo, err := NewElem(&dest)
	if err != nil {
		t.Fatal(err)
	}
	elem.Elem().FieldByName("Name").SetString("leo")
	appendTo(elem)
	if len(dest) != 1 || dest[0].Name != "leo" {
		t.Errorf("unexpected dest after append: %+v", dest)
	}
}

func TestNewElem_RejectsNonSlice(t *testing.T) {
	var dest buyer
	if _, _, err := NewElem(&dest); err == nil {
		t.Error("expected an error for a non-slice destination")
	}
}
