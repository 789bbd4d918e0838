package mi

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripLayout removes whitespace outside c-strings and the spaces around
// "=", turning pretty-printed output back into wire syntax.
func stripLayout(s string) string {
	var sb strings.Builder
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString:
			sb.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
			sb.WriteByte(c)
		case c == ' ' || c == '\n' || c == '\t':
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

var roundTripLines = []string{
	"^done",
	"5^connected",
	`^error,msg="No symbol \"x\" in current context.",code="undefined-command"`,
	`0^done,bkpt={number="1",type="breakpoint",disp="keep",enabled="y",addr="0x00000000000023c5",func="main.main",file="dev_0.go",line="33",times="0",original-location="main.main"}`,
	`*stopped,reason="breakpoint-hit",disp="keep",bkptno="1",frame={addr="0x23c5",func="main.main",args=[],file="dev_0.go",line="33"},thread-id="2",stopped-threads="all"`,
	`^done,threads=[{id="2",target-id="Thread 0x1903 of process 6425",frame={level="0",args=[{name="argc",value="1"}]},state="stopped"}],current-thread-id="2"`,
	`4^done,stack=[frame={level="0",func="main.main"},frame={level="1",func="runtime.main"}]`,
	`^done,x=["1","2",{a="1"}]`,
	`^done,t={k="1",k="2"}`,
	`=thread-group-started,id="i1",pid="12345"`,
	`~"Reading symbols from /tmp/a.out...\n"`,
	`@"raw\ttarget \"output\"\r\n"`,
	`&"\033[1mbold\033[0m"`,
	`~"keep \q verbatim"`,
}

func TestPrettyPrint_RoundTrip(t *testing.T) {
	for _, line := range roundTripLines {
		t.Run(line, func(t *testing.T) {
			rec, err := ParseLine(line)
			require.NoError(t, err)

			printed := Sprint(rec)
			reparsed, err := ParseLine(stripLayout(printed))
			require.NoError(t, err, "printed form:\n%s", printed)
			assert.Equal(t, rec, reparsed)
		})
	}
}

func TestCompact_RoundTrip(t *testing.T) {
	for _, line := range roundTripLines {
		t.Run(line, func(t *testing.T) {
			rec, err := ParseLine(line)
			require.NoError(t, err)

			reparsed, err := ParseLine(Compact(rec))
			require.NoError(t, err)
			assert.Equal(t, rec, reparsed)
		})
	}
}

func TestCompact_ExactForCanonicalInput(t *testing.T) {
	line := `7^done,bkpt={number="1",thread-groups=["i1"]},x=[a="1",{}]`
	rec, err := ParseLine(line)
	require.NoError(t, err)
	assert.Equal(t, line, Compact(rec))
}

func TestPrettyPrint_Format(t *testing.T) {
	rec, err := ParseLine(`^done,bkpt={number="1",thread-groups=["i1","i2"]},empty=[]`)
	require.NoError(t, err)

	want := `^done,
  bkpt = {
    number = "1",
    thread-groups = [
      "i1",
      "i2"
    ]
  },
  empty = []
`
	assert.Equal(t, want, Sprint(rec))
}

func TestPrettyPrint_MixedList(t *testing.T) {
	rec, err := ParseLine(`^done,x=["1",frame={level="0"}]`)
	require.NoError(t, err)

	want := `^done,
  x = [
    "1",
    frame = {
      level = "0"
    }
  ]
`
	assert.Equal(t, want, Sprint(rec))
}

func TestPrettyPrint_RecordHeaders(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"^done", "^done\n"},
		{"12^running", "12^running\n"},
		{`*running,thread-id="all"`, "*running,\n  thread-id = \"all\"\n"},
		{`~"hi\n"`, "~\"hi\\n\"\n"},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			rec, err := ParseLine(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, Sprint(rec))
		})
	}
}

func TestPrettyPrint_CustomIndent(t *testing.T) {
	rec, err := ParseLine(`^done,a={b="c"}`)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, NewPrinter(&sb, WithIndent("\t")).Print(rec))
	assert.Equal(t, "^done,\n\ta = {\n\t\tb = \"c\"\n\t}\n", sb.String())
}

type failingWriter struct {
	n int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("sink closed")
	}
	w.n--
	return len(p), nil
}

func TestPrettyPrint_WriteErrorRestoresDepth(t *testing.T) {
	rec, err := ParseLine(`^done,a={b=["1",{c="2"}]}`)
	require.NoError(t, err)

	p := NewPrinter(&failingWriter{n: 5})
	err = p.Print(rec)
	require.Error(t, err)
	assert.Equal(t, 0, p.depth)

	// The printer is reusable after a failure.
	var sb strings.Builder
	p.w = &sb
	require.NoError(t, p.Print(rec))
	assert.Equal(t, Sprint(rec), sb.String())
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, Quote("plain"))
	assert.Equal(t, `"a\"b\\c\nd\te\rf"`, Quote("a\"b\\c\nd\te\rf"))
	assert.Equal(t, `"\033\177"`, Quote("\x1b\x7f"))
	assert.Equal(t, `"héllo"`, Quote("héllo"))
}
