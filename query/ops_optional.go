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

// Optional[T] represents a possibly-NULL column or expression, per
// spec.md §4.2's "optional" expression family — grounded on the teacher's
// `Null`/`NotNull` helper constraints in db/chain/helpers.go, generalized
// here into a typed wrapper instead of untyped chain predicates.
type Optional[T any] struct {
	Expr[T]
}

// OptionalOf lifts a plain expression into an Optional, used when a
// non-nullable column is selected alongside nullable ones (e.g. the
// left side of a LEFT JOIN).
func OptionalOf[T any](e Expr[T]) Optional[T] { return Optional[T]{Expr: e} }

// IsNull renders `expr IS NULL`.
func (o Optional[T]) IsNull() Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		return Join("", o.Fragment(rc), RawFragment(" IS NULL"))
	})
}

// IsNotNull renders `expr IS NOT NULL`.
func (o Optional[T]) IsNotNull() Expr[bool] {
	return newExpr(BoolMapper, func(rc *RenderContext) Fragment {
		return Join("", o.Fragment(rc), RawFragment(" IS NOT NULL"))
	})
}

// Coalesce renders `COALESCE(expr, default)`, collapsing an Optional[T]
// back into a plain Expr[T].
func Coalesce[T any](mapper TypeMapper[T], o Optional[T], fallback Expr[T]) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		return Join("", RawFragment("coalesce("), o.Fragment(rc), RawFragment(", "), fallback.render(rc), RawFragment(")"))
	})
}

// IsDefined, IsEmpty are the Option-vocabulary aliases of IsNotNull/IsNull,
// per spec.md §4.2's "optional" expression family.
func (o Optional[T]) IsDefined() Expr[bool] { return o.IsNotNull() }
func (o Optional[T]) IsEmpty() Expr[bool]   { return o.IsNull() }

// MapOptional transforms the underlying expression while preserving
// nullability — a free function (not a method) because it introduces a
// new type parameter T2, which Go methods cannot do, mirroring the
// top-level Map over SimpleSelect.
func MapOptional[T, T2 any](o Optional[T], mapper TypeMapper[T2], f func(Expr[T]) Expr[T2]) Optional[T2] {
	return OptionalOf(f(o.Expr))
}

// FlatMapOptional is MapOptional's counterpart for a mapping function that
// itself produces an Optional, collapsing the nesting — NULL propagates
// from either level since SQL has no notion of nested NULL.
func FlatMapOptional[T, T2 any](o Optional[T], f func(Expr[T]) Optional[T2]) Optional[T2] {
	return f(o.Expr)
}

// Filter keeps the value only when pred holds, otherwise collapsing it to
// NULL — `CASE WHEN pred THEN expr ELSE NULL END`, spec.md §4.2's optional
// filter operation.
func (o Optional[T]) Filter(pred func(Expr[T]) Expr[bool]) Optional[T] {
	mapper := o.Mapper()
	cond := pred(o.Expr)
	inner := o.Expr
	return OptionalOf(newExpr(mapper, func(rc *RenderContext) Fragment {
		return ConcatFragments(
			RawFragment("CASE WHEN "), cond.render(rc),
			RawFragment(" THEN "), inner.render(rc),
			RawFragment(" ELSE NULL END"),
		)
	}))
}

// GetOrElse collapses an Optional[T] to a plain Expr[T] by substituting a
// literal Go value for NULL — `COALESCE(expr, ?)`.
func (o Optional[T]) GetOrElse(fallback T) Expr[T] {
	mapper := o.Mapper()
	return Coalesce(mapper, o, Lit(mapper, fallback))
}

// OrElse collapses an Optional[T] to a plain Expr[T] by substituting
// another expression for NULL — `COALESCE(expr, expr2)`.
func (o Optional[T]) OrElse(fallback Expr[T]) Expr[T] {
	return Coalesce(o.Mapper(), o, fallback)
}

// Nullable[R] wraps an entire row shape R as possibly absent, the result
// of an outer join's non-preserved side, per spec.md §3's "outer-join
// nullability via Nullable[R]" invariant. Present is projected as its own
// `present` column: R's PresenceProbe predicate when R implements one,
// otherwise the literal true. No decoder in this module reads that column,
// so an unmatched row is not turned into a nil/zero R.
type Nullable[R any] struct {
	Present Expr[bool]
	Value   R
}
