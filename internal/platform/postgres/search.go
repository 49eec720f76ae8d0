package postgres

import "strings"

// likeEscaper neutralizes LIKE/ILIKE metacharacters in user-supplied
// query text so a search for "100%" matches that literal text.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds the ILIKE pattern for a substring keyword match.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
