package records

import (
	"github.com/ctagard/gdbmi/pkg/errors"
	"github.com/ctagard/gdbmi/pkg/mi"
)

// Field is a detached name/value pair. Value is one of string,
// []interface{} (a list) or []Field (a tuple). List items that were
// results on the wire are stored as Field.
type Field struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// Detach copies a syntax tree value into plain Go values.
func Detach(v mi.Value) interface{} {
	switch v := v.(type) {
	case *mi.CString:
		return v.Value
	case *mi.Tuple:
		return detachResults(v.Results)
	case *mi.List:
		out := make([]interface{}, 0, len(v.Elements))
		for _, e := range v.Elements {
			if r, ok := e.(*mi.Result); ok {
				out = append(out, Field{Name: r.Variable, Value: Detach(r.Value)})
				continue
			}
			out = append(out, Detach(e.(mi.Value)))
		}
		return out
	}
	return nil
}

func detachResults(results []*mi.Result) []Field {
	if len(results) == 0 {
		return nil
	}
	out := make([]Field, len(results))
	for i, r := range results {
		out[i] = Field{Name: r.Variable, Value: Detach(r.Value)}
	}
	return out
}

// Lookup returns the value of the first field named name.
func Lookup(fields []Field, name string) (interface{}, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// LookupString is Lookup restricted to string values.
func LookupString(fields []Field, name string) (string, bool) {
	v, ok := Lookup(fields, name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// fieldReader extracts typed fields from a record's results. The first
// occurrence of a key wins.
type fieldReader struct {
	class   string
	results []*mi.Result
}

func (f fieldReader) value(name string) (mi.Value, bool) {
	for _, r := range f.results {
		if r.Variable == name {
			return r.Value, true
		}
	}
	return nil, false
}

func (f fieldReader) optString(name string) (*string, error) {
	v, ok := f.value(name)
	if !ok {
		return nil, nil
	}
	s, ok := v.(*mi.CString)
	if !ok {
		return nil, errors.InvalidField(f.class, name, "c-string")
	}
	out := s.Value
	return &out, nil
}

func (f fieldReader) reqString(name string) (string, error) {
	s, err := f.optString(name)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", errors.MissingField(f.class, name)
	}
	return *s, nil
}

func (f fieldReader) optTuple(name string) ([]Field, error) {
	v, ok := f.value(name)
	if !ok {
		return nil, nil
	}
	t, ok := v.(*mi.Tuple)
	if !ok {
		return nil, errors.InvalidField(f.class, name, "tuple")
	}
	return detachResults(t.Results), nil
}

// optThreadSet reads a field that is either the "all" sentinel or a list
// of thread ids.
func (f fieldReader) optThreadSet(name string) (*ThreadSet, error) {
	v, ok := f.value(name)
	if !ok {
		return nil, nil
	}
	switch v := v.(type) {
	case *mi.CString:
		var s ThreadSet
		if v.Value == allThreads {
			s = AllThreads()
		} else {
			s = Threads(v.Value)
		}
		return &s, nil
	case *mi.List:
		ids := make([]string, 0, len(v.Elements))
		for _, e := range v.Elements {
			c, ok := e.(*mi.CString)
			if !ok {
				return nil, errors.InvalidField(f.class, name, `"all" or list of thread ids`)
			}
			ids = append(ids, c.Value)
		}
		s := Threads(ids...)
		return &s, nil
	}
	return nil, errors.InvalidField(f.class, name, `"all" or list of thread ids`)
}
