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

import "fmt"

// RenderContext carries everything the renderer needs while walking the
// query IR: the dialect, alias allocation state and the result-path map
// used to re-expose subquery columns, per spec.md §4.6.
type RenderContext struct {
	Dialect     Dialect
	aliasSeq    int
	resultPaths map[string]string
}

// NewRenderContext starts a fresh render pass for the given dialect.
func NewRenderContext(d Dialect) *RenderContext {
	return &RenderContext{Dialect: d, resultPaths: map[string]string{}}
}

// NextAlias allocates a fresh `t0`, `t1`, ... source alias, grounded on the
// teacher's per-join alias bookkeeping in rendering.go.
func (rc *RenderContext) NextAlias() string {
	a := fmt.Sprintf("t%d", rc.aliasSeq)
	rc.aliasSeq++
	return a
}

// ResultPath registers the rendered SQL for a result column at the given
// dotted path (e.g. "purchase.buyer.name"), so an enclosing query can
// re-expose it as `res__purchase__buyer__name`.
func (rc *RenderContext) ResultPath(path string) string {
	alias, ok := rc.resultPaths[path]
	if !ok {
		alias = "res__" + sanitizePath(path)
		rc.resultPaths[path] = alias
	}
	return alias
}

func sanitizePath(path string) string {
	out := make([]rune, 0, len(path))
	for _, r := range path {
		if r == '.' {
			out = append(out, '_', '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// Expr[T] is the single generic expression type of spec.md §4.2: a typed
// wrapper around a closure that renders itself given a RenderContext. This
// realizes the spec's "boxed closure" fallback for Expr[T] noted as
// acceptable in spec.md's design notes, and is grounded on the teacher's
// querySegmentAtom (itself a closure-rendered query atom) plus the
// Expr-interface-with-a-render-method pattern seen in the sqldsl reference
// example.
type Expr[T any] struct {
	mapper TypeMapper[T]
	render func(*RenderContext) Fragment
}

// newExpr wraps a render closure into a typed Expr[T].
func newExpr[T any](mapper TypeMapper[T], render func(*RenderContext) Fragment) Expr[T] {
	return Expr[T]{mapper: mapper, render: render}
}

// Fragment renders this expression within rc. Exported so table
// descriptors, the select IR and the renderer in the same package (and
// driver dialects) can walk expressions without a type switch.
func (e Expr[T]) Fragment(rc *RenderContext) Fragment {
	return e.render(rc)
}

// Mapper exposes the TypeMapper bound to this expression, used by the
// renderer to cast ambiguous literal placeholders and by row decoding to
// scan the corresponding result column.
func (e Expr[T]) Mapper() TypeMapper[T] { return e.mapper }

// Lit builds a literal-valued expression — a single bound parameter slot.
func Lit[T any](mapper TypeMapper[T], value T) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		f := Param(erasedMapper(mapper), value)
		if cast := mapper.castKeyword(); cast != "" {
			f = f.withCast(rc.Dialect, cast)
		}
		return f
	})
}

// withCast wraps a single-slot placeholder fragment with the dialect's
// cast syntax (e.g. Postgres `?::uuid`), by splicing the dialect's
// rendering of a bare `?` placeholder around the existing slot.
func (f Fragment) withCast(d Dialect, cast string) Fragment {
	if cast == "" || len(f.slots) != 1 {
		return f
	}
	wrapped := d.CastLiteral("?", cast)
	pre, post := splitOnQuestionMark(wrapped)
	return Fragment{
		chunks: []string{pre, post},
		slots:  f.slots,
	}
}

func splitOnQuestionMark(s string) (string, string) {
	for i, r := range s {
		if r == '?' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

func erasedMapper[T any](m TypeMapper[T]) anyTypeMapper { return m }

// Raw builds an expression directly from SQL text, the typed counterpart
// of RawFragment — an escape hatch for dialect-specific functions not
// otherwise exposed.
func Raw[T any](mapper TypeMapper[T], sql string) Expr[T] {
	return newExpr(mapper, func(rc *RenderContext) Fragment {
		return RawFragment(sql)
	})
}

// As gives an expression an explicit result path, used when projecting it
// as a named column of a Queryable row type.
func (e Expr[T]) As(path string) NamedExpr {
	return NamedExpr{Path: path, render: func(rc *RenderContext) Fragment { return e.render(rc) }}
}

// NamedExpr pairs a projected expression with its result path, the unit
// Queryable.Walk yields for each row field per spec.md §6.
type NamedExpr struct {
	Path   string
	render func(*RenderContext) Fragment
}

// Fragment renders the underlying expression.
func (n NamedExpr) Fragment(rc *RenderContext) Fragment { return n.render(rc) }
