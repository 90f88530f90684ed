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
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	uuid "github.com/satori/go.uuid"
)

// anyTypeMapper is the type-erased face of TypeMapper[T] used anywhere a
// Fragment needs to bind a value without knowing its static type, per
// spec.md §2 item 1 ("type mapper... erased to bind/scan at the fragment
// boundary").
type anyTypeMapper interface {
	// castKeyword names the SQL cast type used when a literal needs an
	// explicit cast to disambiguate (e.g. `?::uuid`). Empty means no cast
	// is needed for the default dialect.
	castKeyword() string
	// bind converts a Go value into whatever the driver layer expects
	// (e.g. decimal.Decimal -> string, uuid.UUID -> string for drivers
	// that want text, or passthrough for native types).
	bind(value interface{}) interface{}
}

// TypeMapper describes how Go type T is carried across the SQL boundary:
// how it casts in literal position and how it is bound/scanned. Every
// Column[T] and Expr[T] literal constructor is parameterized by one of
// these, per spec.md §2 item 1 "Type mapper".
type TypeMapper[T any] struct {
	// Cast is the SQL keyword used to cast an ambiguous placeholder
	// (most dialects only need this for enums, arrays and uuid/decimal
	// text encodings).
	Cast string
	// Bind converts a T into whatever value the driver should receive.
	Bind func(T) interface{}
	// Scan converts a value read back from the driver into a T.
	Scan func(interface{}) (T, error)
}

func (m TypeMapper[T]) castKeyword() string { return m.Cast }

func (m TypeMapper[T]) bind(value interface{}) interface{} {
	t, ok := value.(T)
	if !ok {
		return value
	}
	if m.Bind == nil {
		return t
	}
	return m.Bind(t)
}

func passthrough[T any](t T) interface{} { return t }

// BoolMapper is the TypeMapper for bool columns.
var BoolMapper = TypeMapper[bool]{Bind: passthrough[bool]}

// Int64Mapper is the TypeMapper for 64-bit integer columns.
var Int64Mapper = TypeMapper[int64]{Bind: passthrough[int64]}

// Float64Mapper is the TypeMapper for floating point columns.
var Float64Mapper = TypeMapper[float64]{Bind: passthrough[float64]}

// StringMapper is the TypeMapper for text columns.
var StringMapper = TypeMapper[string]{Bind: passthrough[string]}

// TimeMapper is the TypeMapper for timestamp columns.
var TimeMapper = TypeMapper[time.Time]{Bind: passthrough[time.Time]}

// UUIDMapper is the TypeMapper for uuid columns, bound via satori/go.uuid
// — the teacher's uuid dependency, per spec.md's domain stack wiring.
var UUIDMapper = TypeMapper[uuid.UUID]{
	Cast: "uuid",
	Bind: func(u uuid.UUID) interface{} { return u.String() },
	Scan: func(v interface{}) (uuid.UUID, error) {
		switch t := v.(type) {
		case uuid.UUID:
			return t, nil
		case string:
			return uuid.FromString(t)
		case []byte:
			return uuid.FromString(string(t))
		default:
			return uuid.UUID{}, sql.ErrNoRows
		}
	},
}

// DecimalMapper is the TypeMapper for arbitrary-precision numeric columns,
// bound via shopspring/decimal to avoid float64 rounding loss.
var DecimalMapper = TypeMapper[decimal.Decimal]{
	Cast: "numeric",
	Bind: func(d decimal.Decimal) interface{} { return d.String() },
	Scan: func(v interface{}) (decimal.Decimal, error) {
		switch t := v.(type) {
		case decimal.Decimal:
			return t, nil
		case string:
			return decimal.NewFromString(t)
		case float64:
			return decimal.NewFromFloat(t), nil
		case []byte:
			return decimal.NewFromString(string(t))
		default:
			return decimal.Decimal{}, sql.ErrNoRows
		}
	},
}

// BytesMapper is the TypeMapper for binary/blob columns.
var BytesMapper = TypeMapper[[]byte]{Bind: passthrough[[]byte]}
