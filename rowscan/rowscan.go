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

// Package rowscan decodes result rows coming back from a driver into a
// plain Go struct by reflection, matching each column alias produced by
// query.Rendered's result-path convention (`res__purchase__buyer__name`) to
// a destination struct field by tag or snake_case name. This is the
// decode-side counterpart of the query package's Queryable/Project
// reflection protocol, and is adapted from the teacher's db/srm
// reflection helpers so the three driver packages share one mapping
// implementation instead of each re-deriving it.
package rowscan

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ErrNoPointer indicates that the passed destination is not a pointer.
var ErrNoPointer = errors.Errorf("destination needs to be pointer")

// ErrUnexpectedKind indicates that the type passed was not one expected.
var ErrUnexpectedKind = errors.Errorf("found an unexpected type")

const (
	// SubTagFieldName holds the sub-tag name carrying an explicit column
	// alias override, e.g. `relq:"field_name:res__total"`.
	SubTagFieldName = "field_name"
	// TagName is the struct tag rowscan looks at before falling back to a
	// snake_case derivation of the field's Go name.
	TagName = "relq"
)

// NameFromTag extracts the column name from a `relq:"field_name:x"` tag,
// or derives it from the Go field name via camelToSnake otherwise.
func NameFromTag(field reflect.StructField) string {
	tagText, ok := field.Tag.Lookup(TagName)
	if ok {
		for _, segment := range strings.Split(tagText, ";") {
			pair := strings.SplitN(segment, ":", 2)
			if len(pair) == 2 && pair[0] == SubTagFieldName {
				return pair[1]
			}
		}
	}
	return camelToSnake(field.Name)
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i != 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FieldMap returns the column name -> reflect.StructField mapping for
// tod's exported fields, each keyed by the column name NameFromTag gives it.
func FieldMap(tod reflect.Type) (map[string]reflect.StructField, error) {
	if tod.Kind() == reflect.Ptr {
		tod = tod.Elem()
	}
	if tod.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrUnexpectedKind, "expected struct, got %s", tod.Kind())
	}
	out := make(map[string]reflect.StructField, tod.NumField())
	for i := 0; i < tod.NumField(); i++ {
		f := tod.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		out[NameFromTag(f)] = f
	}
	return out, nil
}

// Recipients returns, for each name in fields (in the same order), a
// pointer into dest's corresponding field suitable for passing to a
// driver's row-scan call — the same role the teacher's
// FieldRecipientsFromValueOf plays for db/srm.
func Recipients(dest interface{}, fields []string) ([]interface{}, error) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr {
		return nil, errors.Wrapf(ErrNoPointer, "got %T", dest)
	}
	v = v.Elem()
	fieldMap, err := FieldMap(v.Type())
	if err != nil {
		return nil, err
	}
	recipients := make([]interface{}, len(fields))
	for i, name := range fields {
		sf, ok := fieldMap[name]
		if !ok {
			var ignored interface{}
			recipients[i] = &ignored
			continue
		}
		recipients[i] = v.FieldByIndex(sf.Index).Addr().Interface()
	}
	return recipients, nil
}

// NewElem allocates a fresh pointer to sliceDest's element type and
// returns it with an appendTo function that appends the filled element to
// the slice sliceDest points to, used by driver Query implementations to
// grow a result slice one scanned row at a time.
func NewElem(sliceDest interface{}) (elem reflect.Value, appendTo func(reflect.Value), err error) {
	v := reflect.ValueOf(sliceDest)
	if v.Kind() != reflect.Ptr {
		return reflect.Value{}, nil, errors.Wrapf(ErrNoPointer, "got %T", sliceDest)
	}
	slice := v.Elem()
	if slice.Kind() != reflect.Slice {
		return reflect.Value{}, nil, errors.Wrapf(ErrUnexpectedKind, "expected pointer to slice, got %s", slice.Kind())
	}
	elemPtr := reflect.New(slice.Type().Elem())
	return elemPtr, func(filled reflect.Value) {
		slice.Set(reflect.Append(slice, filled.Elem()))
	}, nil
}
