package users

import "strings"

// escapeLike neutralizes LIKE wildcards in user-supplied search terms so a
// term is always matched literally as a prefix.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
