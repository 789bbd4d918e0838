package mi

import (
	"strconv"
	"strings"
)

// Compact renders n in the exact wire form, without layout whitespace.
// For any record r returned by ParseLine, ParseLine(Compact(r)) yields an
// equal tree.
func Compact(n Node) string {
	var sb strings.Builder
	v := &compactor{sb: &sb}
	Visit(v, n)
	return sb.String()
}

type compactor struct {
	sb *strings.Builder
}

func (c *compactor) record(r Record, class string, results []*Result) {
	if tok, ok := r.TokenValue(); ok {
		c.sb.WriteString(formatToken(tok))
	}
	c.sb.WriteByte(r.Indicator())
	c.sb.WriteString(class)
	for _, res := range results {
		c.sb.WriteByte(',')
		Visit(c, res)
	}
}

func (c *compactor) VisitResultRecord(r *ResultRecord) { c.record(r, r.Class, r.Results) }
func (c *compactor) VisitAsyncRecord(r *AsyncRecord)   { c.record(r, r.Class, r.Results) }

func (c *compactor) VisitStreamRecord(r *StreamRecord) {
	if tok, ok := r.TokenValue(); ok {
		c.sb.WriteString(formatToken(tok))
	}
	c.sb.WriteByte(r.Indicator())
	c.sb.WriteString(Quote(r.Text))
}

func (c *compactor) VisitResult(r *Result) {
	c.sb.WriteString(r.Variable)
	c.sb.WriteByte('=')
	Visit(c, r.Value)
}

func (c *compactor) VisitCString(s *CString) {
	c.sb.WriteString(Quote(s.Value))
}

func (c *compactor) VisitList(l *List) {
	c.sb.WriteByte('[')
	for i, el := range l.Elements {
		if i > 0 {
			c.sb.WriteByte(',')
		}
		Visit(c, el)
	}
	c.sb.WriteByte(']')
}

func (c *compactor) VisitTuple(t *Tuple) {
	c.sb.WriteByte('{')
	for i, r := range t.Results {
		if i > 0 {
			c.sb.WriteByte(',')
		}
		Visit(c, r)
	}
	c.sb.WriteByte('}')
}

// Quote returns s as an MI c-string, escaping quotes, backslashes and
// control characters so the parser decodes it back to s.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if c < 0x20 || c == 0x7f {
				sb.WriteByte('\\')
				sb.WriteByte('0' + c>>6)
				sb.WriteByte('0' + c>>3&7)
				sb.WriteByte('0' + c&7)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func formatToken(tok uint64) string {
	return strconv.FormatUint(tok, 10)
}
