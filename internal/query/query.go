// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package query assembles parameterized SELECT statements from a set of
// optional joins and predicates. A Spec is a value: every builder method
// returns a modified copy, so the listing statement and its count statement
// are rendered from the same joins and predicates.
package query

import (
	"strconv"
	"strings"
)

// Spec describes a SELECT over one base table.
type Spec struct {
	from     string
	key      string
	columns  []string
	joins    []string
	where    []string
	args     []any
	orderBy  []string
	distinct bool
	limit    int
	offset   int
}

// Select starts a spec reading columns from the given table expression.
// The count key defaults to "*".
func Select(from string, columns ...string) Spec {
	return Spec{from: from, key: "*", columns: columns}
}

// CountKey sets the expression counted by CountSQL. With joins that can
// multiply rows it should be the base table's primary key.
func (s Spec) CountKey(expr string) Spec {
	s.key = expr
	return s
}

// Join adds a join clause, e.g. "INNER JOIN tags t ON t.id = ct.tag_id".
func (s Spec) Join(clause string) Spec {
	s.joins = appendCopy(s.joins, clause)
	return s
}

// Where adds a predicate. Predicates are ANDed together. Use ? for each
// argument; placeholders are numbered at render time.
func (s Spec) Where(cond string, args ...any) Spec {
	s.where = appendCopy(s.where, cond)
	s.args = append(append([]any(nil), s.args...), args...)
	return s
}

// OrderBy replaces the ordering terms.
func (s Spec) OrderBy(terms ...string) Spec {
	s.orderBy = append([]string(nil), terms...)
	return s
}

// Distinct makes the listing SELECT DISTINCT and the count COUNT(DISTINCT key).
func (s Spec) Distinct() Spec {
	s.distinct = true
	return s
}

// Page sets LIMIT and OFFSET. A zero limit renders no LIMIT clause.
func (s Spec) Page(limit, offset int) Spec {
	s.limit = limit
	s.offset = offset
	return s
}

// HasJoins reports whether any join clause has been added.
func (s Spec) HasJoins() bool {
	return len(s.joins) > 0
}

// SQL renders the listing statement and its arguments.
func (s Spec) SQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(strings.Join(s.columns, ", "))
	s.writeBody(&b)
	if len(s.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(s.orderBy, ", "))
	}

	args := append([]any(nil), s.args...)
	if s.limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, s.limit)
	}
	if s.offset > 0 {
		b.WriteString(" OFFSET ?")
		args = append(args, s.offset)
	}
	return rebind(b.String()), args
}

// CountSQL renders a COUNT over the same joins and predicates, without
// ordering or paging.
func (s Spec) CountSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(")
	if s.distinct && s.key != "*" {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(s.key)
	b.WriteString(")")
	s.writeBody(&b)
	return rebind(b.String()), append([]any(nil), s.args...)
}

func (s Spec) writeBody(b *strings.Builder) {
	b.WriteString(" FROM ")
	b.WriteString(s.from)
	for _, j := range s.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if len(s.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(s.where, " AND "))
	}
}

// rebind numbers ? placeholders as $1, $2, ... Question marks inside
// single-quoted literals are left alone.
func rebind(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(q); i++ {
		c := q[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func appendCopy(xs []string, x string) []string {
	out := make([]string, len(xs), len(xs)+1)
	copy(out, xs)
	return append(out, x)
}
