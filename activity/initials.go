package activity

import "strings"

const unknownInitials = "?"

// Initials abbreviates an email for use as an avatar placeholder.
//
// The local part (everything before the first '@') is split on '.', '_'
// and '-'. With two or more tokens the result is the first letter of each of
// the first two tokens; with one token it is the token's first two
// characters; with none it is the first two characters of the local part.
// An empty local part yields "?".
func Initials(email string) string {
	local, _, _ := strings.Cut(email, "@")
	tokens := strings.FieldsFunc(local, isInitialsSeparator)

	switch len(tokens) {
	case 0:
		if local == "" {
			return unknownInitials
		}
		return strings.ToUpper(firstRunes(local, 2))
	case 1:
		return strings.ToUpper(firstRunes(tokens[0], 2))
	default:
		return strings.ToUpper(firstRunes(tokens[0], 1) + firstRunes(tokens[1], 1))
	}
}

func isInitialsSeparator(r rune) bool {
	return r == '.' || r == '_' || r == '-'
}

func firstRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
