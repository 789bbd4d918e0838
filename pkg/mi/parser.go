package mi

import (
	"strings"

	"github.com/ctagard/gdbmi/pkg/errors"
)

// maxNesting bounds list/tuple recursion on hostile input.
const maxNesting = 1000

// parser holds state for parsing one line.
type parser struct {
	s     string // the source line
	i     int    // the current position
	depth int    // current list/tuple nesting
}

// ParseLine parses one line of GDB/MI output into a record. A single
// trailing carriage return is ignored. Grammar violations fail with a
// MALFORMED_LINE error; well-formed lines whose indicator/class pair is not
// known fail with UNKNOWN_RECORD_CLASS.
//
// record ==> [ token ] ( "^" | "*" | "+" | "=" ) class ( "," result )*
//
//	| [ token ] ( "~" | "@" | "&" ) c-string
func ParseLine(raw string) (Record, error) {
	line := strings.TrimSuffix(raw, "\r")

	h, err := scan(line)
	if err != nil {
		return nil, err
	}

	p := &parser{s: line, i: h.payload}

	switch h.indicator {
	case IndicatorConsole, IndicatorTarget, IndicatorLog:
		text, err := p.parseCString()
		if err != nil {
			return nil, err
		}
		if !p.eof() {
			return nil, p.err("stream record", "end of line")
		}
		return classifyStream(h, text), nil
	}

	results, err := p.parseRecordResults()
	if err != nil {
		return nil, err
	}
	return classify(h, results)
}

// ParseValue parses a standalone value (c-string, list or tuple) that must
// span all of s.
func ParseValue(s string) (Value, error) {
	p := &parser{s: s}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.err("value", "end of input")
	}
	return v, nil
}

// parseRecordResults parses the optional "," result list that follows a
// class keyword and expects to reach the end of the line.
//
// ( "," result )*
func (p *parser) parseRecordResults() ([]*Result, error) {
	var results []*Result

	for !p.eof() {
		if !p.consume(',') {
			return nil, p.err("record", "',' or end of line")
		}
		r, err := p.parseResult()
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, nil
}

// parseResult returns a variable/value pair and advances past it.
//
// result ==> variable "=" value
func (p *parser) parseResult() (*Result, error) {
	start := p.i
	for p.i < len(p.s) && isVariableChar(p.s[p.i]) {
		p.i++
	}
	if p.i == start {
		return nil, p.err("result", "variable name")
	}
	name := p.s[start:p.i]

	if !p.consume('=') {
		return nil, p.err("result", "'='")
	}

	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &Result{Variable: name, Value: v}, nil
}

// parseValue dispatches on the first character: '"', '{' or '[' for
// c-string, tuple and list respectively.
//
// value ==> c-string | tuple | list
func (p *parser) parseValue() (Value, error) {
	if p.eof() {
		return nil, p.err("value", `'"', '{' or '['`)
	}

	switch p.s[p.i] {
	case '"':
		s, err := p.parseCString()
		if err != nil {
			return nil, err
		}
		return &CString{Value: s}, nil

	case '{':
		t, err := p.parseTuple()
		if err != nil {
			return nil, err
		}
		return t, nil

	case '[':
		l, err := p.parseList()
		if err != nil {
			return nil, err
		}
		return l, nil
	}

	return nil, p.err("value", `'"', '{' or '['`)
}

// parseCString decodes a quoted string and advances past the closing quote.
//
// c-string ==> '"' ( escaped-char | normal-char )* '"'
func (p *parser) parseCString() (string, error) {
	if !p.consume('"') {
		return "", p.err("c-string", `'"'`)
	}

	start := p.i
	// Fast path: no escapes.
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case '"':
			s := p.s[start:p.i]
			p.i++
			return s, nil
		case '\\':
			return p.parseEscapedCString(start)
		}
		p.i++
	}

	return "", p.err("c-string", `closing '"'`)
}

func (p *parser) parseEscapedCString(start int) (string, error) {
	var sb strings.Builder
	sb.WriteString(p.s[start:p.i])

	for p.i < len(p.s) {
		c := p.s[p.i]
		switch c {
		case '"':
			p.i++
			return sb.String(), nil

		case '\\':
			p.i++
			if p.eof() {
				return "", p.err("c-string", "escaped character")
			}
			p.decodeEscape(&sb)

		default:
			sb.WriteByte(c)
			p.i++
		}
	}

	return "", p.err("c-string", `closing '"'`)
}

// decodeEscape decodes the escape sequence whose first character (after
// the backslash) is at p.i. Unknown escapes, and octal escapes above
// \377, are kept verbatim.
func (p *parser) decodeEscape(sb *strings.Builder) {
	c := p.s[p.i]
	p.i++

	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case 'e':
		sb.WriteByte(0x1b)
	case '"', '\\', '\'':
		sb.WriteByte(c)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		start := p.i - 1
		n := int(c - '0')
		for k := 0; k < 2 && p.i < len(p.s) && isOctal(p.s[p.i]); k++ {
			n = n*8 + int(p.s[p.i]-'0')
			p.i++
		}
		if n > 0xff {
			// Does not fit a byte: kept verbatim like an unknown escape.
			sb.WriteByte('\\')
			sb.WriteString(p.s[start:p.i])
			return
		}
		sb.WriteByte(byte(n))
	default:
		sb.WriteByte('\\')
		sb.WriteByte(c)
	}
}

// parseTuple parses a tuple and advances past the closing brace.
//
// tuple ==> "{}" | "{" result ( "," result )* "}"
func (p *parser) parseTuple() (*Tuple, error) {
	if !p.consume('{') {
		return nil, p.err("tuple", "'{'")
	}
	if err := p.enter("tuple"); err != nil {
		return nil, err
	}
	defer p.leave()

	t := &Tuple{}
	if p.consume('}') {
		return t, nil
	}

	for {
		r, err := p.parseResult()
		if err != nil {
			return nil, err
		}
		t.Results = append(t.Results, r)

		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			return t, nil
		}
		return nil, p.err("tuple", "',' or '}'")
	}
}

// parseList parses a list and advances past the closing bracket. Elements
// may be bare values or results, in any mix.
//
// list ==> "[]" | "[" ( value | result ) ( "," ( value | result ) )* "]"
func (p *parser) parseList() (*List, error) {
	if !p.consume('[') {
		return nil, p.err("list", "'['")
	}
	if err := p.enter("list"); err != nil {
		return nil, err
	}
	defer p.leave()

	l := &List{}
	if p.consume(']') {
		return l, nil
	}

	for {
		var el Element
		if p.atResult() {
			r, err := p.parseResult()
			if err != nil {
				return nil, err
			}
			el = r
		} else {
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			el = v
		}
		l.Elements = append(l.Elements, el)

		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return l, nil
		}
		return nil, p.err("list", "',' or ']'")
	}
}

// atResult looks ahead past a run of variable characters for an '='.
// A value always starts with '"', '[' or '{', none of which is a variable
// character, so the lookahead never crosses a quote or bracket.
func (p *parser) atResult() bool {
	j := p.i
	for j < len(p.s) && isVariableChar(p.s[j]) {
		j++
	}
	return j > p.i && j < len(p.s) && p.s[j] == '='
}

func (p *parser) enter(construct string) error {
	p.depth++
	if p.depth > maxNesting {
		return p.err(construct, "less deeply nested value")
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// consume advances past c if it is the current character.
func (p *parser) consume(c byte) bool {
	if p.i < len(p.s) && p.s[p.i] == c {
		p.i++
		return true
	}
	return false
}

func (p *parser) eof() bool {
	return p.i >= len(p.s)
}

// err describes what was being parsed, what was expected, and where.
func (p *parser) err(construct, expected string) error {
	return errors.MalformedLine(p.s, p.i, construct, expected)
}

func isOctal(c byte) bool {
	return '0' <= c && c <= '7'
}
