package types

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// ErrParse reports a malformed type string.
var ErrParse = errors.New("invalid type string")

type tokenKind uint8

const (
	tokInt tokenKind = iota
	tokIdent
	tokString // quoted 'literal'
	tokStar
	tokQuestion
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokComma
	tokColon
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '*':
			toks = append(toks, token{tokStar, "*", i})
			i++
		case c == '?':
			toks = append(toks, token{tokQuestion, "?", i})
			i++
		case c == '{':
			toks = append(toks, token{tokLBrace, "{", i})
			i++
		case c == '}':
			toks = append(toks, token{tokRBrace, "}", i})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ",", i})
			i++
		case c == ':':
			toks = append(toks, token{tokColon, ":", i})
			i++
		case c == '\'':
			j := i + 1
			for j < len(s) && s[j] != '\'' {
				j++
			}
			if j >= len(s) {
				return nil, fmt.Errorf("%w: unterminated string literal at offset %d", ErrParse, i)
			}
			toks = append(toks, token{tokString, s[i+1 : j], i})
			i = j + 1
		case c >= '0' && c <= '9':
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			toks = append(toks, token{tokInt, s[i:j], i})
			i = j
		case isIdentStart(rune(c)):
			j := i
			for j < len(s) && isIdentPart(rune(s[j])) {
				j++
			}
			toks = append(toks, token{tokIdent, s[i:j], i})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrParse, c, i)
		}
	}
	toks = append(toks, token{tokEOF, "", len(s)})
	return toks, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

type parser struct {
	toks []token
	pos  int
	src  string
}

func (p *parser) peek() token  { return p.toks[p.pos] }
func (p *parser) next() token  { t := p.toks[p.pos]; p.pos++; return t }
func (p *parser) at(k tokenKind) bool { return p.toks[p.pos].kind == k }

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != k {
		return t, fmt.Errorf("%w: expected %s at offset %d in %q", ErrParse, what, t.pos, p.src)
	}
	return t, nil
}

// Parse converts a type string into a descriptor.
func Parse(s string) (*Type, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, src: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.at(tokEOF) {
		tok := p.peek()
		return nil, fmt.Errorf("%w: trailing input at offset %d in %q", ErrParse, tok.pos, s)
	}
	return t, nil
}

// MustParse is Parse that panics on error. For tests and constants.
func MustParse(s string) *Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// parseType handles the leading dimension list followed by a dtype.
func (p *parser) parseType() (*Type, error) {
	// A dimension is INT, "var" or an uppercase identifier, but only
	// when followed by "*". Otherwise the token starts the dtype.
	if p.isDimAhead() {
		tok := p.next()
		if _, err := p.expect(tokStar, "'*'"); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.kind == tokInt:
			n, err := strconv.Atoi(tok.text)
			if err != nil {
				return nil, fmt.Errorf("%w: bad dimension %q", ErrParse, tok.text)
			}
			return NewFixedDim(n, elem), nil
		case tok.text == "var":
			return NewVarDim(elem), nil
		default:
			return NewSymbolicDim(tok.text, elem), nil
		}
	}
	return p.parseDType()
}

func (p *parser) isDimAhead() bool {
	tok := p.peek()
	if tok.kind == tokEOF || p.toks[p.pos+1].kind != tokStar {
		return false
	}
	switch tok.kind {
	case tokInt:
		return true
	case tokIdent:
		return tok.text == "var" || isUpper(tok.text)
	}
	return false
}

func isUpper(s string) bool {
	return len(s) > 0 && unicode.IsUpper(rune(s[0]))
}

func (p *parser) parseDType() (*Type, error) {
	switch tok := p.peek(); tok.kind {
	case tokQuestion:
		p.next()
		elem, err := p.parseDType()
		if err != nil {
			return nil, err
		}
		return NewOption(elem), nil
	case tokLBrace:
		return p.parseRecord()
	case tokIdent:
		p.next()
		if tok.text == "categorical" {
			return p.parseCategorical()
		}
		if k, ok := scalarNames[tok.text]; ok {
			return NewScalar(k), nil
		}
		if isUpper(tok.text) {
			return NewTypeVar(tok.text), nil
		}
		return nil, fmt.Errorf("%w: unknown type name %q at offset %d", ErrParse, tok.text, tok.pos)
	default:
		return nil, fmt.Errorf("%w: unexpected token at offset %d in %q", ErrParse, tok.pos, p.src)
	}
}

func (p *parser) parseRecord() (*Type, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	var fields []Field
	seen := map[string]bool{}
	for {
		name, err := p.expect(tokIdent, "field name")
		if err != nil {
			return nil, err
		}
		if seen[name.text] {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrParse, name.text)
		}
		seen[name.text] = true
		if _, err := p.expect(tokColon, "':'"); err != nil {
			return nil, err
		}
		ft, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name.text, Type: ft})
		if p.at(tokComma) {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return NewRecord(fields), nil
}

func (p *parser) parseCategorical() (*Type, error) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var levels []Level
	sawNA := false
	for {
		switch tok := p.next(); {
		case tok.kind == tokString:
			levels = append(levels, Level{Label: tok.text})
		case tok.kind == tokIdent && tok.text == "NA":
			if sawNA {
				return nil, fmt.Errorf("%w: duplicate NA level", ErrParse)
			}
			sawNA = true
			levels = append(levels, Level{NA: true})
		default:
			return nil, fmt.Errorf("%w: expected level literal or NA at offset %d", ErrParse, tok.pos)
		}
		if p.at(tokComma) {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return NewCategorical(levels), nil
}
