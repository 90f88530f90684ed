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

// cteDef is a single `name AS (body)` entry, type-erased the same way
// exprThunk type-erases scalar expressions, grounded on the teacher's
// ctesOrder/ctes map in db/chain/cte.go.
type cteDef struct {
	name   string
	render func(rc *RenderContext) Fragment
}

// CTE names a SimpleSelect (or CompoundSelect, via NamedCTEFromCompound) as a
// common table expression and supplies the row factory FromCTE needs to
// reference it later — the same explicit-descriptor shape Subquery uses,
// for the same reason: Go cannot derive a projected row's column names
// from Q alone.
type CTE[Q any] struct {
	def        cteDef
	RowFactory func(aliasRef *string) Q
}

// NamedCTE declares a CTE from a SimpleSelect body.
func NamedCTE[Q any](name string, sel *SimpleSelect[Q], rowFactory func(aliasRef *string) Q) CTE[Q] {
	return CTE[Q]{
		def:        cteDef{name: name, render: func(rc *RenderContext) Fragment { return sel.renderBody(rc) }},
		RowFactory: rowFactory,
	}
}

// NamedCTEFromCompound declares a CTE from a CompoundSelect body.
func NamedCTEFromCompound[Q any](name string, sel *CompoundSelect[Q], rowFactory func(aliasRef *string) Q) CTE[Q] {
	return CTE[Q]{
		def:        cteDef{name: name, render: func(rc *RenderContext) Fragment { return sel.renderBody(rc) }},
		RowFactory: rowFactory,
	}
}

// Def returns the type-erased definition to pass to SimpleSelect.With.
func (c CTE[Q]) Def() cteDef { return c.def }

// FromCTE starts a query against a previously named CTE, referencing it
// by name rather than re-embedding its SQL body.
func FromCTE[Q any](c CTE[Q]) *SimpleSelect[Q] {
	aliasRef := new(string)
	row := c.RowFactory(aliasRef)
	name := c.def.name
	return &SimpleSelect[Q]{
		row: row,
		sources: []source{{
			bind: func(rc *RenderContext) Fragment {
				alias := rc.NextAlias()
				*aliasRef = alias
				q := rc.Dialect.QuoteIdentifier
				return RawFragment(q(name) + " AS " + q(alias))
			},
		}},
	}
}

func renderCTEs(rc *RenderContext, defs []cteDef) Fragment {
	out := RawFragment("WITH ")
	for i, d := range defs {
		if i > 0 {
			out = ConcatFragments(out, RawFragment(", "))
		}
		q := rc.Dialect.QuoteIdentifier
		out = ConcatFragments(out, RawFragment(q(d.name)+" AS ("), d.render(rc), RawFragment(")"))
	}
	return out
}
