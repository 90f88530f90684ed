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

// compoundOp enumerates the set operators a CompoundSelect can chain.
type compoundOp string

const (
	compoundUnion     compoundOp = "UNION"
	compoundUnionAll  compoundOp = "UNION ALL"
	compoundIntersect compoundOp = "INTERSECT"
	compoundExcept    compoundOp = "EXCEPT"
)

// allowsColumnElision reports whether this operator's row equality is
// indifferent to dropping an unreferenced projected column. Per spec.md
// §4.5: UNION ALL is a pure row concatenation, so any unreferenced
// column may be dropped from both arms; UNION/INTERSECT/EXCEPT compare
// whole rows for set membership, so every projected column is
// significant and none may be dropped.
func (op compoundOp) allowsColumnElision() bool { return op == compoundUnionAll }

// compoundTerm is one arm of a CompoundSelect: a previously built
// SimpleSelect or CompoundSelect, type-erased to its render body.
type compoundTerm struct {
	render func(rc *RenderContext) Fragment
}

// CompoundSelect[Q] chains SimpleSelects (or other CompoundSelects) of
// the same row shape Q with UNION/UNION ALL/INTERSECT/EXCEPT, per
// spec.md §4's compound query IR.
type CompoundSelect[Q any] struct {
	row        Q
	first      compoundTerm
	rest       []compoundStep
	orderBy    []orderTerm
	limit      *int64
	offset     int64
	keptPaths  map[string]bool // nil means "all columns kept" (no elision applied)
	ctes       []cteDef
}

// With attaches a named CTE to this compound query, mirroring
// SimpleSelect.With.
func (c *CompoundSelect[Q]) With(refs ...cteDef) *CompoundSelect[Q] {
	next := *c
	next.ctes = append(append([]cteDef{}, c.ctes...), refs...)
	return &next
}

type compoundStep struct {
	op   compoundOp
	term compoundTerm
}

func newCompound[Q any](first *SimpleSelect[Q], op compoundOp, second *SimpleSelect[Q]) *CompoundSelect[Q] {
	return &CompoundSelect[Q]{
		row:   first.row,
		first: compoundTerm{render: func(rc *RenderContext) Fragment { return first.renderBody(rc) }},
		rest: []compoundStep{{
			op:   op,
			term: compoundTerm{render: func(rc *RenderContext) Fragment { return second.renderBody(rc) }},
		}},
	}
}

// Union, UnionAll, Intersect, Except append another arm of the same row
// shape to this compound query.
func (c *CompoundSelect[Q]) Union(other *SimpleSelect[Q]) *CompoundSelect[Q] {
	return c.appendStep(compoundUnion, other)
}

func (c *CompoundSelect[Q]) UnionAll(other *SimpleSelect[Q]) *CompoundSelect[Q] {
	return c.appendStep(compoundUnionAll, other)
}

func (c *CompoundSelect[Q]) Intersect(other *SimpleSelect[Q]) *CompoundSelect[Q] {
	return c.appendStep(compoundIntersect, other)
}

func (c *CompoundSelect[Q]) Except(other *SimpleSelect[Q]) *CompoundSelect[Q] {
	return c.appendStep(compoundExcept, other)
}

func (c *CompoundSelect[Q]) appendStep(op compoundOp, other *SimpleSelect[Q]) *CompoundSelect[Q] {
	next := *c
	next.rest = append(append([]compoundStep{}, c.rest...), compoundStep{
		op:   op,
		term: compoundTerm{render: func(rc *RenderContext) Fragment { return other.renderBody(rc) }},
	})
	return &next
}

// SortBy, Take, Drop apply to the compound result as a whole, after all
// arms have been combined — grounded on the teacher's rendering.go,
// which appends ORDER BY/LIMIT/OFFSET once after the full UNION chain.
func (c *CompoundSelect[Q]) SortBy(terms ...orderTerm) *CompoundSelect[Q] {
	next := *c
	next.orderBy = append(append([]orderTerm{}, terms...), c.orderBy...)
	return &next
}

func (c *CompoundSelect[Q]) Take(n int64) *CompoundSelect[Q] {
	next := *c
	if next.limit == nil || n < *next.limit {
		next.limit = &n
	}
	return &next
}

func (c *CompoundSelect[Q]) Drop(n int64) *CompoundSelect[Q] {
	next := *c
	next.offset += n
	return &next
}

// PruneColumns records keepPaths as the columns to keep. It is only valid
// when every operator chained in this compound is UNION ALL — spec.md
// §4.5's projection-elision rule — and panics otherwise, since dropping a
// column from a UNION/INTERSECT/EXCEPT arm would silently change the
// set's row-equality semantics. Rendering does not read the recorded
// paths: every arm still projects all of its columns.
func (c *CompoundSelect[Q]) PruneColumns(keepPaths ...string) *CompoundSelect[Q] {
	for _, step := range c.rest {
		if !step.op.allowsColumnElision() {
			panic("relq: cannot prune columns across a UNION/INTERSECT/EXCEPT arm; only UNION ALL permits column elision")
		}
	}
	next := *c
	next.keptPaths = make(map[string]bool, len(keepPaths))
	for _, p := range keepPaths {
		next.keptPaths[p] = true
	}
	return &next
}
