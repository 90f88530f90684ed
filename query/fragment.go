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

import "strings"

// slot holds one bound parameter: its runtime value and the mapper that
// knows how to bind it to the driver's positional placeholder.
type slot struct {
	mapper anyTypeMapper
	value  interface{}
}

// Fragment is an immutable piece of SQL text with parameter holes, per
// spec.md §4.1. It never interpolates user data directly into the text;
// user data always travels in slots, collected left-to-right as fragments
// are concatenated.
type Fragment struct {
	chunks    []string
	slots     []slot
	statement bool // true once this fragment is known to be a full statement.
}

// RawFragment builds a Fragment from SQL text that is already known to be
// safe (an identifier validated by a name mapper, or a dialect keyword) —
// the "raw(text) escape hatch" of spec.md §4.1.
func RawFragment(text string) Fragment {
	return Fragment{chunks: []string{text}}
}

// Param builds a one-slot Fragment that renders as a single placeholder.
func Param(mapper anyTypeMapper, value interface{}) Fragment {
	return Fragment{
		chunks: []string{"", ""},
		slots:  []slot{{mapper: mapper, value: value}},
	}
}

// ConcatFragments appends the text and slots of each fragment in order,
// preserving left-to-right slot emission order (spec.md §3 invariant I:
// "order of slots matches emission order of their fragments in
// left-to-right concatenation").
func ConcatFragments(parts ...Fragment) Fragment {
	out := Fragment{chunks: []string{""}}
	for _, p := range parts {
		out = out.append(p)
	}
	return out
}

// Join concatenates items with sep between each one — the `join(sep, items)`
// constructor of spec.md §4.1.
func Join(sep string, items ...Fragment) Fragment {
	out := Fragment{chunks: []string{""}}
	for i, item := range items {
		if i > 0 {
			out = out.append(RawFragment(sep))
		}
		out = out.append(item)
	}
	return out
}

func (f Fragment) append(other Fragment) Fragment {
	if len(other.chunks) == 0 {
		return f
	}
	chunks := make([]string, 0, len(f.chunks)+len(other.chunks)-1)
	chunks = append(chunks, f.chunks[:len(f.chunks)-1]...)
	chunks = append(chunks, f.chunks[len(f.chunks)-1]+other.chunks[0])
	chunks = append(chunks, other.chunks[1:]...)
	return Fragment{
		chunks:    chunks,
		slots:     append(append([]slot{}, f.slots...), other.slots...),
		statement: f.statement || other.statement,
	}
}

// AsStatement marks the fragment as a complete statement, so the renderer
// will not append a dialect's default select-suffix to it.
func (f Fragment) AsStatement() Fragment {
	f.statement = true
	return f
}

// IsStatement reports whether this fragment was marked complete.
func (f Fragment) IsStatement() bool { return f.statement }

// NumSlots reports the number of parameter slots carried by this fragment.
func (f Fragment) NumSlots() int { return len(f.slots) }

// exprSentinel is the opaque placeholder text dialect template methods
// (Concat, Modulo, StringAgg, ...) receive in place of each operand's
// real rendered text. combineFragments splices the operands' real chunks
// and slots back in at the sentinel's position, so the dialect only ever
// has to describe syntax shape, never touch real placeholder numbering.
const exprSentinel = "\x00"

// combineFragments rebuilds a Fragment from a dialect-produced template
// string (built from exprSentinel operands, in order) and the original
// operand fragments, preserving each operand's own chunks/slots.
func combineFragments(template string, operands ...Fragment) Fragment {
	segs := strings.Split(template, exprSentinel)
	out := RawFragment(segs[0])
	for i, f := range operands {
		out = out.append(f)
		if i+1 < len(segs) {
			out = out.append(RawFragment(segs[i+1]))
		}
	}
	return out
}

// operandSentinelA/B are named placeholders for dialect templates that may
// reference an operand more than once (e.g. ANSI's portable null-safe
// equality expansion, which tests each side for NULL before comparing
// them) — combineFragmentsBinary splices the real operand back in at
// every occurrence, so a doubly-referenced operand binds its parameter
// twice, once per occurrence, in left-to-right order.
const (
	operandSentinelA = "\x00A"
	operandSentinelB = "\x00B"
)

// combineFragmentsBinary rebuilds a Fragment from a template built out of
// operandSentinelA/B, splicing a in at every A occurrence and b in at
// every B occurrence, in the order they appear in the template.
func combineFragmentsBinary(template string, a, b Fragment) Fragment {
	out := Fragment{chunks: []string{""}}
	rest := template
	for {
		ia := strings.Index(rest, operandSentinelA)
		ib := strings.Index(rest, operandSentinelB)
		switch {
		case ia < 0 && ib < 0:
			return out.append(RawFragment(rest))
		case ib < 0 || (ia >= 0 && ia < ib):
			out = out.append(RawFragment(rest[:ia])).append(a)
			rest = rest[ia+len(operandSentinelA):]
		default:
			out = out.append(RawFragment(rest[:ib])).append(b)
			rest = rest[ib+len(operandSentinelB):]
		}
	}
}

// Render walks the fragment once, left to right, interpolating the
// dialect's native positional placeholder syntax and collecting bound
// argument values in the same order. This is spec.md §4.1's "single
// left-to-right pass".
func (f Fragment) Render(d Dialect) (string, []interface{}) {
	var b strings.Builder
	args := make([]interface{}, 0, len(f.slots))
	for i, chunk := range f.chunks {
		b.WriteString(chunk)
		if i < len(f.slots) {
			s := f.slots[i]
			b.WriteString(d.Placeholder(len(args) + 1))
			args = append(args, s.mapper.bind(s.value))
		}
	}
	return b.String(), args
}
