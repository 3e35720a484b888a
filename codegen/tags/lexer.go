package tags

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/vast-data/markergen/codegen/diag"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokEquals
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of tag"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokEquals:
		return "'='"
	case tokComma:
		return "','"
	default:
		return "token"
	}
}

type token struct {
	kind tokenKind
	// text is the identifier, or the unquoted value of a string.
	text string
	// pos is the byte offset of the token in the tag.
	pos int
}

// tokenize splits a tag into tokens. The final token is always tokEOF.
func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == ' ' || r == '\t':
			i += size
		case r == '=':
			toks = append(toks, token{kind: tokEquals, text: "=", pos: i})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		case r == '"':
			end, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			text, uerr := strconv.Unquote(src[i:end])
			if uerr != nil {
				return nil, malformed(i, "invalid string literal %s", src[i:end])
			}
			toks = append(toks, token{kind: tokString, text: text, pos: i})
			i = end
		case isIdentStart(r):
			start := i
			i += size
			for i < len(src) {
				r, size = utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r) {
					break
				}
				i += size
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			return nil, malformed(i, "unexpected character %q", r)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

// scanString returns the offset just past the closing quote of the string starting at start.
func scanString(src string, start int) (int, error) {
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '"':
			return i + 1, nil
		}
	}
	return 0, malformed(start, "unterminated string")
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// Identifiers may contain dashes so that formats such as file-path need no quoting.
func isIdentPart(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func malformed(offset int, format string, args ...any) *diag.Error {
	e := diag.New(diag.MalformedTag, format, args...)
	e.Offset = offset
	return e
}
