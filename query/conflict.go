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

// OnConflict describes an `ON CONFLICT ...` clause to attach to an
// Insert, a feature spec.md §9 supplements beyond the distilled spec,
// grounded on the teacher's OnConstraint/OnColumn/DoNothing/DoUpdate
// builder in db/chain/constraint.go.
type OnConflict struct {
	target     conflictTarget
	doNothing  bool
	doUpdate   []ColumnValue
	doUpdateWh []exprThunk
}

type conflictTargetKind int

const (
	conflictNone conflictTargetKind = iota
	conflictColumns
	conflictConstraint
)

type conflictTarget struct {
	kind    conflictTargetKind
	columns []string
	name    string
}

// OnColumn targets a conflict arising from the named columns (typically
// a unique index), e.g. `ON CONFLICT (email)`.
func OnColumn(columns ...string) *OnConflict {
	return &OnConflict{target: conflictTarget{kind: conflictColumns, columns: columns}}
}

// OnConstraint targets a conflict by named constraint, e.g.
// `ON CONFLICT ON CONSTRAINT buyer_email_key`.
func OnConstraint(name string) *OnConflict {
	return &OnConflict{target: conflictTarget{kind: conflictConstraint, name: name}}
}

// DoNothing renders `DO NOTHING`.
func (oc *OnConflict) DoNothing() *OnConflict {
	next := *oc
	next.doNothing = true
	next.doUpdate = nil
	return &next
}

// DoUpdate renders `DO UPDATE SET ...`, optionally narrowed by Where to
// `DO UPDATE SET ... WHERE ...`.
func (oc *OnConflict) DoUpdate(cvs ...ColumnValue) *OnConflict {
	next := *oc
	next.doNothing = false
	next.doUpdate = cvs
	return &next
}

// Where restricts a DoUpdate clause, mirroring the partial-index-aware
// `ON CONFLICT ... DO UPDATE ... WHERE` form Postgres supports.
func (oc *OnConflict) Where(pred Expr[bool]) *OnConflict {
	next := *oc
	next.doUpdateWh = append(append([]exprThunk{}, oc.doUpdateWh...), thunk(pred))
	return &next
}

func (oc *OnConflict) render(rc *RenderContext) Fragment {
	q := rc.Dialect.QuoteIdentifier
	out := RawFragment("ON CONFLICT")
	switch oc.target.kind {
	case conflictColumns:
		cols := RawFragment("")
		for i, c := range oc.target.columns {
			if i > 0 {
				cols = ConcatFragments(cols, RawFragment(", "))
			}
			cols = ConcatFragments(cols, RawFragment(q(c)))
		}
		out = ConcatFragments(out, RawFragment(" ("), cols, RawFragment(")"))
	case conflictConstraint:
		out = ConcatFragments(out, RawFragment(" ON CONSTRAINT "+q(oc.target.name)))
	}

	if oc.doNothing || len(oc.doUpdate) == 0 {
		return ConcatFragments(out, RawFragment(" DO NOTHING"))
	}

	out = ConcatFragments(out, RawFragment(" DO UPDATE SET "))
	for i, cv := range oc.doUpdate {
		if i > 0 {
			out = ConcatFragments(out, RawFragment(", "))
		}
		out = ConcatFragments(out, RawFragment(q(cv.Column)+" = "), cv.value(rc))
	}
	if len(oc.doUpdateWh) > 0 {
		out = ConcatFragments(out, RawFragment(" WHERE "), renderAndChain(rc, oc.doUpdateWh))
	}
	return out
}
