package query

import "strings"

// likeEscaper escapes the LIKE metacharacters in a single pass, so the
// backslashes it inserts are never escaped again.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes s so it matches literally inside a LIKE/ILIKE pattern
// that uses backslash as its escape character.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern returns a pattern matching any value containing s literally.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// ILikeContains returns a case-insensitive substring predicate on column
// and its argument, ready for Spec.Where.
func ILikeContains(column, term string) (string, any) {
	return column + ` ILIKE ? ESCAPE '\'`, ContainsPattern(term)
}
