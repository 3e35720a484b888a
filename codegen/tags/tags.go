// Package tags parses the `marker:"..."` struct tag that annotates marker payload fields.
//
// Grammar:
//
//	tag   := "-" | item ("," item)* | ""
//	item  := IDENT | IDENT "=" value
//	value := STRING | IDENT
//
// A leading bare identifier that is not a flag names the field kind. Later bare
// identifiers must be flags. Examples:
//
//	marker:"text,searchable"
//	marker:"name=\"Request URL\",format=url"
//	marker:"integer,format=bytes"
//	marker:"-"
package tags

import (
	"strings"

	"github.com/vast-data/markergen/codegen/diag"
)

// Name is the struct tag key read by the generator.
const Name = "marker"

const (
	flagSearchable = "searchable"

	keyName   = "name"
	keyFormat = "format"
)

// FieldTag is the parsed form of one field's tag.
type FieldTag struct {
	// Kind is the kind spelled in the tag, empty when the tag names none.
	Kind string
	// Searchable marks the field as used by the profiler UI search.
	Searchable bool
	// DisplayName overrides the field name in the schema when set.
	DisplayName *string
	// Format overrides the kind's default display format when set.
	Format *string
	// Skip excludes the field from the payload.
	Skip bool
}

// Parse parses a tag value. Errors are *diag.Error values of code MalformedTag or
// UnknownTagKey carrying the byte offset; the caller attaches the field identity.
func Parse(src string) (FieldTag, error) {
	if strings.TrimSpace(src) == "-" {
		return FieldTag{Skip: true}, nil
	}
	toks, err := tokenize(src)
	if err != nil {
		return FieldTag{}, err
	}
	p := &parser{toks: toks}
	if err := p.parseTag(); err != nil {
		return FieldTag{}, err
	}
	return p.tag, nil
}

type parser struct {
	toks []token
	pos  int
	tag  FieldTag
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, malformed(t.pos, "expected %s, found %s", what, describe(t))
	}
	return t, nil
}

func (p *parser) parseTag() error {
	if p.peek().kind == tokEOF {
		return nil
	}
	if err := p.parseItem(true); err != nil {
		return err
	}
	for p.peek().kind == tokComma {
		p.next()
		if err := p.parseItem(false); err != nil {
			return err
		}
	}
	if t := p.peek(); t.kind != tokEOF {
		return malformed(t.pos, "expected ',' or end of tag, found %s", describe(t))
	}
	return nil
}

func (p *parser) parseItem(first bool) error {
	ident, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return err
	}
	if p.peek().kind != tokEquals {
		return p.applyFlag(ident, first)
	}
	p.next()
	value, err := p.parseValue()
	if err != nil {
		return err
	}
	return p.applyKey(ident, value)
}

func (p *parser) parseValue() (token, error) {
	t := p.next()
	if t.kind != tokString && t.kind != tokIdent {
		return t, malformed(t.pos, "expected value, found %s", describe(t))
	}
	return t, nil
}

func (p *parser) applyFlag(ident token, first bool) error {
	switch {
	case ident.text == flagSearchable:
		if p.tag.Searchable {
			return malformed(ident.pos, "duplicate flag %q", ident.text)
		}
		p.tag.Searchable = true
	case first:
		p.tag.Kind = ident.text
	default:
		return unknownKey(ident)
	}
	return nil
}

func (p *parser) applyKey(key, value token) error {
	var dst **string
	switch key.text {
	case keyName:
		dst = &p.tag.DisplayName
	case keyFormat:
		dst = &p.tag.Format
	default:
		return unknownKey(key)
	}
	if *dst != nil {
		return malformed(key.pos, "duplicate key %q", key.text)
	}
	if strings.TrimSpace(value.text) == "" {
		return malformed(value.pos, "empty value for %q", key.text)
	}
	v := value.text
	*dst = &v
	return nil
}

func unknownKey(t token) *diag.Error {
	e := diag.New(diag.UnknownTagKey, "unknown tag key %q", t.text)
	e.Offset = t.pos
	e.Key = t.text
	return e
}

func describe(t token) string {
	switch t.kind {
	case tokIdent:
		return "identifier " + t.text
	case tokString:
		return "string"
	default:
		return t.kind.String()
	}
}
