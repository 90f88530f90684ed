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

// exprThunk type-erases an Expr[T] into a render-only closure, so
// heterogeneous expressions (different T) can live in the same slice —
// grounded on the teacher's querySegmentAtom, which does the same
// erasure for its where/having/groupBy/orderBy segments.
type exprThunk func(rc *RenderContext) Fragment

func thunk[T any](e Expr[T]) exprThunk {
	return func(rc *RenderContext) Fragment { return e.Fragment(rc) }
}

type orderTerm struct {
	expr       exprThunk
	desc       bool
	nullsFirst bool
	nullsLast  bool
}

// Asc builds an ascending ORDER BY term.
func Asc[T any](e Expr[T]) orderTerm { return orderTerm{expr: thunk(e)} }

// Desc builds a descending ORDER BY term.
func Desc[T any](e Expr[T]) orderTerm { return orderTerm{expr: thunk(e), desc: true} }

// NullsFirst overrides the nulls-ordering of an order term.
func NullsFirst(t orderTerm) orderTerm { t.nullsFirst = true; t.nullsLast = false; return t }

// NullsLast overrides the nulls-ordering of an order term.
func NullsLast(t orderTerm) orderTerm { t.nullsLast = true; t.nullsFirst = false; return t }

// joinKind enumerates the join operators a SimpleSelect's FROM clause can
// chain together, grounded on the teacher's Join/LeftJoin/RightJoin/
// InnerJoin/FullJoin family in db/chain/expressions.go.
type joinKind string

const (
	joinPrimary joinKind = ""
	joinInner   joinKind = "INNER JOIN"
	joinLeft    joinKind = "LEFT JOIN"
	joinRight   joinKind = "RIGHT JOIN"
	joinFull    joinKind = "FULL JOIN"
	joinCross   joinKind = "CROSS JOIN"
)

// source is one FROM-clause entry. bind is invoked once per render pass,
// in FROM-clause order: it allocates this source's alias (if it needs
// one) and returns its fully rendered "table-or-subquery AS alias" text.
// Entries after the first additionally carry a join kind and predicate.
type source struct {
	bind func(rc *RenderContext) Fragment
	kind joinKind
	on   exprThunk
}

// SimpleSelect[Q] is a single (non-compound) SELECT, per spec.md §4's
// query IR. Q is the projected row shape: a scalar Expr[T], a Tuple, or a
// plain struct of such fields.
type SimpleSelect[Q any] struct {
	row       Q
	sources   []source
	wheres    []exprThunk
	groupBy   []exprThunk
	havings   []exprThunk
	orderBy   []orderTerm
	limit     *int64
	offset    int64
	distinctQ bool
	forUpdate bool
	ctes      []cteDef
}

// From starts a query against a table descriptor.
func From[R any](t Table[R]) *SimpleSelect[R] {
	aliasRef := new(string)
	row := t.RowFactory(aliasRef)
	return &SimpleSelect[R]{
		row: row,
		sources: []source{{
			bind: func(rc *RenderContext) Fragment {
				alias := rc.NextAlias()
				*aliasRef = alias
				return RawFragment(rc.Dialect.QuoteIdentifier(t.TableName) + " AS " + rc.Dialect.QuoteIdentifier(alias))
			},
		}},
	}
}

// Subquery packages a derived SELECT together with an explicit row
// factory describing how the enclosing query should reference its
// exposed result columns (`<subqueryAlias>.res__<path>`, per spec.md
// §4.6's result-path re-exposure convention). Go's type system has no
// way to discover a projected shape's column names from Q alone, so —
// unlike a Table, whose columns are declared once — a Subquery's
// row factory must be supplied by the caller, mirroring the teacher's
// named-CTE pattern in db/chain/cte.go where the caller names the
// columns it expects back out.
type Subquery[Q any] struct {
	body       renderableSelect
	RowFactory func(aliasRef *string) Q
}

// renderableSelect is implemented by SimpleSelect and CompoundSelect so
// a Subquery can wrap either.
type renderableSelect interface {
	renderBody(rc *RenderContext) Fragment
}

// AsSubquery wraps a SimpleSelect as a named derived table.
func AsSubquery[Q, Q2 any](sel *SimpleSelect[Q], rowFactory func(aliasRef *string) Q2) Subquery[Q2] {
	return Subquery[Q2]{body: sel, RowFactory: rowFactory}
}

// AsSubqueryFromCompound wraps a CompoundSelect (a UNION/INTERSECT/
// EXCEPT chain) as a named derived table.
func AsSubqueryFromCompound[Q, Q2 any](sel *CompoundSelect[Q], rowFactory func(aliasRef *string) Q2) Subquery[Q2] {
	return Subquery[Q2]{body: sel, RowFactory: rowFactory}
}

// FromSubquery starts a query against a derived table.
func FromSubquery[Q any](sq Subquery[Q]) *SimpleSelect[Q] {
	aliasRef := new(string)
	row := sq.RowFactory(aliasRef)
	return &SimpleSelect[Q]{
		row: row,
		sources: []source{{
			bind: func(rc *RenderContext) Fragment {
				inner := sq.body.renderBody(rc)
				alias := rc.NextAlias()
				*aliasRef = alias
				return ConcatFragments(RawFragment("("), inner, RawFragment(") AS "+rc.Dialect.QuoteIdentifier(alias)))
			},
		}},
	}
}

// Filter adds a predicate, routed to WHERE or HAVING depending on whether
// a GROUP BY has already been applied — invariant I2 of spec.md §4.3
// ("filter before groupBy narrows WHERE, filter after groupBy narrows
// HAVING").
func (s *SimpleSelect[Q]) Filter(pred func(Q) Expr[bool]) *SimpleSelect[Q] {
	next := s.clone()
	e := pred(s.row)
	if len(next.groupBy) > 0 {
		next.havings = append(next.havings, thunk(e))
	} else {
		next.wheres = append(next.wheres, thunk(e))
	}
	return next
}

// Distinct marks the query DISTINCT.
func (s *SimpleSelect[Q]) Distinct() *SimpleSelect[Q] {
	next := s.clone()
	next.distinctQ = true
	return next
}

// Take applies a LIMIT, monotonically shrinking any existing limit —
// invariant I3: `take(n).take(m)` behaves as `take(min(n, m))`.
func (s *SimpleSelect[Q]) Take(n int64) *SimpleSelect[Q] {
	next := s.clone()
	if next.limit == nil || n < *next.limit {
		next.limit = &n
	}
	return next
}

// Drop applies an OFFSET, summing with any existing offset. Per spec.md
// §8 scenario 1, dropping rows out of an already-limited window shrinks
// the standing LIMIT by the dropped count too — `take(2).drop(1)` must
// render `LIMIT 1 OFFSET 1`, not `LIMIT 2 OFFSET 1`, since only one row
// can remain in view once the first of the two taken rows is dropped.
func (s *SimpleSelect[Q]) Drop(n int64) *SimpleSelect[Q] {
	next := s.clone()
	next.offset += n
	if next.limit != nil {
		remaining := *next.limit - n
		if remaining < 0 {
			remaining = 0
		}
		next.limit = &remaining
	}
	return next
}

// SortBy adds ordering terms. Per spec.md's "last-applied is primary"
// invariant, the most recently applied SortBy call takes sort priority,
// so new terms are prepended ahead of previously accumulated ones.
func (s *SimpleSelect[Q]) SortBy(terms ...orderTerm) *SimpleSelect[Q] {
	next := s.clone()
	next.orderBy = append(append([]orderTerm{}, terms...), next.orderBy...)
	return next
}

// ForUpdate marks the query to take row locks, per spec.md §9's
// supplemented `FOR UPDATE` feature, grounded on the teacher's
// ForUpdate() in db/chain/expressions.go.
func (s *SimpleSelect[Q]) ForUpdate() *SimpleSelect[Q] {
	next := s.clone()
	next.forUpdate = true
	return next
}

// Union, UnionAll, Intersect, Except combine this query with another of
// the same row shape into a CompoundSelect, per spec.md §4's compound
// query IR.
func (s *SimpleSelect[Q]) Union(other *SimpleSelect[Q]) *CompoundSelect[Q] {
	return newCompound(s, compoundUnion, other)
}

func (s *SimpleSelect[Q]) UnionAll(other *SimpleSelect[Q]) *CompoundSelect[Q] {
	return newCompound(s, compoundUnionAll, other)
}

func (s *SimpleSelect[Q]) Intersect(other *SimpleSelect[Q]) *CompoundSelect[Q] {
	return newCompound(s, compoundIntersect, other)
}

func (s *SimpleSelect[Q]) Except(other *SimpleSelect[Q]) *CompoundSelect[Q] {
	return newCompound(s, compoundExcept, other)
}

func (s *SimpleSelect[Q]) clone() *SimpleSelect[Q] {
	cp := *s
	cp.sources = append([]source{}, s.sources...)
	cp.wheres = append([]exprThunk{}, s.wheres...)
	cp.groupBy = append([]exprThunk{}, s.groupBy...)
	cp.havings = append([]exprThunk{}, s.havings...)
	cp.orderBy = append([]orderTerm{}, s.orderBy...)
	cp.ctes = append([]cteDef{}, s.ctes...)
	return &cp
}

// With attaches a named CTE to this query, per spec.md §9's supplemented
// WITH-query feature, grounded on the teacher's With/renderctes in
// db/chain/cte.go. The CTE's body is rendered once, immediately before
// this query's own SELECT, and referenced by name via FromCTE.
func (s *SimpleSelect[Q]) With(refs ...cteDef) *SimpleSelect[Q] {
	next := s.clone()
	next.ctes = append(next.ctes, refs...)
	return next
}

// Map changes the projected row shape without touching the FROM/WHERE/
// ORDER clauses — a free function (not a method) because it introduces a
// brand new type parameter Q2, which Go methods cannot do.
func Map[Q, Q2 any](s *SimpleSelect[Q], f func(Q) Q2) *SimpleSelect[Q2] {
	return &SimpleSelect[Q2]{
		row:       f(s.row),
		sources:   s.sources,
		wheres:    s.wheres,
		groupBy:   s.groupBy,
		havings:   s.havings,
		orderBy:   s.orderBy,
		limit:     s.limit,
		offset:    s.offset,
		distinctQ: s.distinctQ,
		forUpdate: s.forUpdate,
	}
}

// Join performs an INNER JOIN against another table, combining the two
// row shapes into a Tuple2.
func Join[A, B any](s *SimpleSelect[A], t Table[B], on func(A, B) Expr[bool]) *SimpleSelect[Tuple2[A, B]] {
	return joinTable(s, t, joinInner, on)
}

// LeftJoin performs a LEFT JOIN: the joined side becomes Nullable[B],
// honoring spec.md's outer-join nullability invariant.
func LeftJoin[A, B any](s *SimpleSelect[A], t Table[B], on func(A, B) Expr[bool]) *SimpleSelect[Tuple2[A, Nullable[B]]] {
	joined := joinTable(s, t, joinLeft, on)
	return Map(joined, func(ab Tuple2[A, B]) Tuple2[A, Nullable[B]] {
		return Tuple2[A, Nullable[B]]{First: ab.First, Second: Nullable[B]{Present: presenceOf(ab.Second), Value: ab.Second}}
	})
}

// RightJoin performs a RIGHT JOIN: the preserved (left) side becomes
// Nullable[A].
func RightJoin[A, B any](s *SimpleSelect[A], t Table[B], on func(A, B) Expr[bool]) *SimpleSelect[Tuple2[Nullable[A], B]] {
	joined := joinTable(s, t, joinRight, on)
	return Map(joined, func(ab Tuple2[A, B]) Tuple2[Nullable[A], B] {
		return Tuple2[Nullable[A], B]{First: Nullable[A]{Present: presenceOf(ab.First), Value: ab.First}, Second: ab.Second}
	})
}

// FullJoin performs a FULL OUTER JOIN: both sides become Nullable.
func FullJoin[A, B any](s *SimpleSelect[A], t Table[B], on func(A, B) Expr[bool]) *SimpleSelect[Tuple2[Nullable[A], Nullable[B]]] {
	joined := joinTable(s, t, joinFull, on)
	return Map(joined, func(ab Tuple2[A, B]) Tuple2[Nullable[A], Nullable[B]] {
		return Tuple2[Nullable[A], Nullable[B]]{
			First:  Nullable[A]{Present: presenceOf(ab.First), Value: ab.First},
			Second: Nullable[B]{Present: presenceOf(ab.Second), Value: ab.Second},
		}
	})
}

// presenceOf builds the best-effort "is this joined row present" probe:
// true as a literal when the caller has nothing better, left for a
// concrete row type to override by implementing PresenceProbe.
func presenceOf(v interface{}) Expr[bool] {
	if p, ok := v.(PresenceProbe); ok {
		return p.IsPresent()
	}
	return Lit(BoolMapper, true)
}

// PresenceProbe lets a row shape define its own "is this outer-joined
// row actually present" predicate (typically `<primary key> IS NOT
// NULL`), used by LeftJoin/RightJoin/FullJoin to populate Nullable.Present.
type PresenceProbe interface {
	IsPresent() Expr[bool]
}

// CrossJoin pairs every row of s with every row of a derived Subquery,
// unconditionally — the Go-native realization of spec.md's relational
// flatMap/cross-join composition. A correlated (per-row) subquery needs
// its predicate folded into the Subquery's own SimpleSelect before
// wrapping it here, since Go cannot infer a subquery's projected column
// names from Q alone the way the spec's host language can.
func CrossJoin[A, B any](s *SimpleSelect[A], sq Subquery[B]) *SimpleSelect[Tuple2[A, B]] {
	aliasRef := new(string)
	bRow := sq.RowFactory(aliasRef)
	src := source{
		kind: joinCross,
		bind: func(rc *RenderContext) Fragment {
			inner := sq.body.renderBody(rc)
			alias := rc.NextAlias()
			*aliasRef = alias
			return ConcatFragments(RawFragment("("), inner, RawFragment(") AS "+rc.Dialect.QuoteIdentifier(alias)))
		},
	}
	next := &SimpleSelect[Tuple2[A, B]]{
		sources:   append(append([]source{}, s.sources...), src),
		wheres:    s.wheres,
		groupBy:   s.groupBy,
		havings:   s.havings,
		orderBy:   s.orderBy,
		limit:     s.limit,
		offset:    s.offset,
		distinctQ: s.distinctQ,
		forUpdate: s.forUpdate,
		row:       Tuple2[A, B]{First: s.row, Second: bRow},
	}
	return next
}

func joinTable[A, B any](s *SimpleSelect[A], t Table[B], kind joinKind, on func(A, B) Expr[bool]) *SimpleSelect[Tuple2[A, B]] {
	aliasRef := new(string)
	bRow := t.RowFactory(aliasRef)
	src := source{
		kind: kind,
		bind: func(rc *RenderContext) Fragment {
			alias := rc.NextAlias()
			*aliasRef = alias
			return RawFragment(rc.Dialect.QuoteIdentifier(t.TableName) + " AS " + rc.Dialect.QuoteIdentifier(alias))
		},
		on: thunk(on(s.row, bRow)),
	}
	return &SimpleSelect[Tuple2[A, B]]{
		sources:   append(append([]source{}, s.sources...), src),
		wheres:    s.wheres,
		groupBy:   s.groupBy,
		havings:   s.havings,
		orderBy:   s.orderBy,
		limit:     s.limit,
		offset:    s.offset,
		distinctQ: s.distinctQ,
		forUpdate: s.forUpdate,
		row:       Tuple2[A, B]{First: s.row, Second: bRow},
	}
}

// GroupBy aggregates rows by a derived key, collapsing the projection to
// Tuple2[K, Agg]. Any Filter applied after GroupBy targets HAVING per
// invariant I2.
func GroupBy[Q, K, Agg any](s *SimpleSelect[Q], key func(Q) K, agg func(Q) Agg) *SimpleSelect[Tuple2[K, Agg]] {
	next := s.clone()
	keyVal := key(s.row)
	aggVal := agg(s.row)
	out := &SimpleSelect[Tuple2[K, Agg]]{
		sources:   next.sources,
		wheres:    next.wheres,
		havings:   next.havings,
		orderBy:   next.orderBy,
		limit:     next.limit,
		offset:    next.offset,
		distinctQ: next.distinctQ,
		forUpdate: next.forUpdate,
		row:       Tuple2[K, Agg]{First: keyVal, Second: aggVal},
	}
	scratch := NewRenderContext(ANSI{})
	for _, col := range Project(scratch, "", keyVal) {
		col := col
		out.groupBy = append(out.groupBy, func(rc *RenderContext) Fragment { return col.Fragment(rc) })
	}
	return out
}
