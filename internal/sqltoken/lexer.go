package sqltoken

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Tokenize scans sql into a Token slice terminated by an EOF token.
// Identifiers and keywords are matched case-insensitively; keywords are
// normalized to their canonical Kind, identifiers keep their original
// case in Text.
func Tokenize(sql string) ([]Token, error) {
	var tokens []Token
	runes := []rune(sql)
	i := 0
	n := len(runes)

	for i < n {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++

		case c == '*':
			tokens = append(tokens, Token{Kind: Star})
			i++
		case c == ',':
			tokens = append(tokens, Token{Kind: Comma})
			i++
		case c == '(':
			tokens = append(tokens, Token{Kind: LParen})
			i++
		case c == ')':
			tokens = append(tokens, Token{Kind: RParen})
			i++
		case c == '=':
			tokens = append(tokens, Token{Kind: Eq})
			i++
		case c == ';':
			tokens = append(tokens, Token{Kind: Semicolon})
			i++

		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			for j < n && runes[j] != quote {
				j++
			}
			if j >= n {
				return nil, errors.Errorf("sqltoken: unterminated string literal starting at %d", i)
			}
			tokens = append(tokens, Token{Kind: String, Text: string(runes[i+1 : j])})
			i = j + 1

		case unicode.IsDigit(c):
			j := i
			for j < n && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			tokens = append(tokens, Token{Kind: Number, Text: string(runes[i:j])})
			i = j

		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < n && (unicode.IsLetter(runes[j]) || runes[j] == '_') {
				j++
			}
			word := string(runes[i:j])
			if kind, ok := keywords[strings.ToLower(word)]; ok {
				tokens = append(tokens, Token{Kind: kind, Text: word})
			} else {
				tokens = append(tokens, Token{Kind: Ident, Text: word})
			}
			i = j

		default:
			return nil, errors.Errorf("sqltoken: unexpected character %q at %d", c, i)
		}
	}

	tokens = append(tokens, Token{Kind: EOF})
	return tokens, nil
}
