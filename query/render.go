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

import "strconv"

// Rendered is the result of walking a query IR all the way to SQL text:
// the statement, its positional arguments in bind order, and the map
// from a projected row's dotted path to the result column alias the
// renderer actually emitted — the decode-side counterpart of spec.md
// §4.6's result-path convention.
type Rendered struct {
	SQL         string
	Args        []interface{}
	ResultPaths map[string]string
}

// renderBody renders the full SELECT body ("SELECT ... FROM ... WHERE
// ... GROUP BY ... HAVING ... ORDER BY ... LIMIT ... OFFSET ..."),
// suitable either as a top-level statement or embedded as a derived
// table. It implements the join-ordering and clause-assembly rules
// grounded on the teacher's render() in db/chain/rendering.go.
func (s *SimpleSelect[Q]) renderBody(rc *RenderContext) Fragment {
	var with Fragment
	if len(s.ctes) > 0 {
		with = renderCTEs(rc, s.ctes)
	}
	from := RawFragment("")
	for i, src := range s.sources {
		piece := src.bind(rc)
		if i == 0 {
			from = piece
			continue
		}
		from = ConcatFragments(from, RawFragment(" "+string(src.kind)+" "), piece)
		if src.kind != joinCross {
			from = ConcatFragments(from, RawFragment(" ON "), src.on(rc))
		}
	}

	cols := Project(rc, "", s.row)
	selectList := RawFragment("")
	for i, c := range cols {
		alias := rc.ResultPath(c.Path)
		piece := ConcatFragments(c.Fragment(rc), RawFragment(" AS "+rc.Dialect.QuoteIdentifier(alias)))
		if i == 0 {
			selectList = piece
		} else {
			selectList = ConcatFragments(selectList, RawFragment(", "), piece)
		}
	}

	keyword := "SELECT "
	if s.distinctQ {
		keyword = "SELECT DISTINCT "
	}
	out := ConcatFragments(RawFragment(keyword), selectList, RawFragment(" FROM "), from)

	if len(s.wheres) > 0 {
		out = ConcatFragments(out, RawFragment(" WHERE "), renderAndChain(rc, s.wheres))
	}
	if len(s.groupBy) > 0 {
		out = ConcatFragments(out, RawFragment(" GROUP BY "), renderCommaChain(rc, s.groupBy))
	}
	if len(s.havings) > 0 {
		out = ConcatFragments(out, RawFragment(" HAVING "), renderAndChain(rc, s.havings))
	}
	out = appendOrderLimitOffset(rc, out, s.orderBy, s.limit, s.offset)
	if s.forUpdate && rc.Dialect.SupportsForUpdate() {
		out = ConcatFragments(out, RawFragment(" FOR UPDATE"))
	}
	if len(s.ctes) > 0 {
		out = ConcatFragments(with, RawFragment(" "), out)
	}
	return out
}

// renderBody implements renderableSelect for CompoundSelect.
func (c *CompoundSelect[Q]) renderBody(rc *RenderContext) Fragment {
	out := c.first.render(rc)
	for _, step := range c.rest {
		out = ConcatFragments(out, RawFragment(" "+string(step.op)+" "), step.term.render(rc))
	}
	out = appendOrderLimitOffset(rc, out, c.orderBy, c.limit, c.offset)
	if len(c.ctes) > 0 {
		out = ConcatFragments(renderCTEs(rc, c.ctes), RawFragment(" "), out)
	}
	return out
}

func renderAndChain(rc *RenderContext, preds []exprThunk) Fragment {
	out := preds[0](rc)
	for _, p := range preds[1:] {
		out = ConcatFragments(RawFragment("("), out, RawFragment(") AND ("), p(rc), RawFragment(")"))
	}
	return out
}

func renderCommaChain(rc *RenderContext, exprs []exprThunk) Fragment {
	out := exprs[0](rc)
	for _, e := range exprs[1:] {
		out = ConcatFragments(out, RawFragment(", "), e(rc))
	}
	return out
}

func appendOrderLimitOffset(rc *RenderContext, out Fragment, orderBy []orderTerm, limit *int64, offset int64) Fragment {
	if len(orderBy) > 0 {
		out = ConcatFragments(out, RawFragment(" ORDER BY "))
		for i, term := range orderBy {
			if i > 0 {
				out = ConcatFragments(out, RawFragment(", "))
			}
			out = ConcatFragments(out, term.expr(rc))
			if term.desc {
				out = ConcatFragments(out, RawFragment(" DESC"))
			} else {
				out = ConcatFragments(out, RawFragment(" ASC"))
			}
			if term.nullsFirst {
				out = ConcatFragments(out, RawFragment(" NULLS FIRST"))
			} else if term.nullsLast {
				out = ConcatFragments(out, RawFragment(" NULLS LAST"))
			}
		}
	}
	if limit != nil {
		out = ConcatFragments(out, RawFragment(" LIMIT "+strconv.FormatInt(*limit, 10)))
	}
	if offset != 0 {
		out = ConcatFragments(out, RawFragment(" OFFSET "+strconv.FormatInt(offset, 10)))
	}
	return out
}

// renderSelect renders any renderableSelect's body and returns it with
// rc's result-path map, without the final statement framing. Nothing in
// this package calls it; CrossJoin and FromSubquery call renderBody
// directly.
func renderSelect(rc *RenderContext, sel renderableSelect) (Fragment, map[string]string) {
	return sel.renderBody(rc), rc.resultPaths
}

// Render walks sel all the way to SQL text and positional arguments for
// the given dialect — the top-level entry point spec.md §2 item 8 calls
// the execution API.
func Render[Q any](d Dialect, sel *SimpleSelect[Q]) Rendered {
	return renderTop(d, sel)
}

// RenderCompound is Render's counterpart for CompoundSelect.
func RenderCompound[Q any](d Dialect, sel *CompoundSelect[Q]) Rendered {
	return renderTop(d, sel)
}

func renderTop(d Dialect, sel renderableSelect) Rendered {
	rc := NewRenderContext(d)
	body := sel.renderBody(rc)
	if suffix := d.DefaultSelectSuffix(); suffix != "" && !body.IsStatement() {
		body = ConcatFragments(body, RawFragment(suffix))
	}
	sql, args := body.Render(d)
	return Rendered{SQL: sql, Args: args, ResultPaths: rc.resultPaths}
}
