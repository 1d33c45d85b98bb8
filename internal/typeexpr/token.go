package typeexpr

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokGUID
	tokLAngle
	tokRAngle
	tokComma
	tokAt
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "name"
	case tokGUID:
		return "guid"
	case tokLAngle:
		return "'<'"
	case tokRAngle:
		return "'>'"
	case tokComma:
		return "','"
	case tokAt:
		return "'@'"
	}
	return "unknown"
}

type token struct {
	value string
	typ   tokenType
	pos   int
}

func isNameByte(c byte) bool {
	return c == '.' || c == '_' || c == '`' ||
		c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// tokenize splits input into tokens. A brace-enclosed guid is one token; an
// unterminated brace or a stray character ends with an error position.
func tokenize(input string) ([]token, int) {
	var tokens []token
	for i := 0; i < len(input); {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '<':
			tokens = append(tokens, token{"<", tokLAngle, i})
			i++
		case c == '>':
			tokens = append(tokens, token{">", tokRAngle, i})
			i++
		case c == ',':
			tokens = append(tokens, token{",", tokComma, i})
			i++
		case c == '@':
			tokens = append(tokens, token{"@", tokAt, i})
			i++
		case c == '{':
			end := i + 1
			for end < len(input) && input[end] != '}' {
				end++
			}
			if end == len(input) {
				return nil, i
			}
			tokens = append(tokens, token{input[i : end+1], tokGUID, i})
			i = end + 1
		case isNameByte(c):
			start := i
			for i < len(input) && isNameByte(input[i]) {
				i++
			}
			tokens = append(tokens, token{input[start:i], tokIdent, start})
		default:
			return nil, i
		}
	}
	return append(tokens, token{"", tokEOF, len(input)}), -1
}
