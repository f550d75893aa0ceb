package builder

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// tuple reads the positional fields of one encoded record. The first failure
// sticks: later reads return zero values and the caller checks err once.
type tuple struct {
	file   string
	row    int
	fields []json.RawMessage
	err    error
}

func newTuple(file string, row int, fields []json.RawMessage, arity int) (*tuple, error) {
	if len(fields) != arity {
		return nil, fmt.Errorf("%s row %d: %w: got %d fields, want %d",
			file, row, ErrMalformedTuple, len(fields), arity)
	}
	return &tuple{file: file, row: row, fields: fields}, nil
}

func (t *tuple) fail(i int, err error) {
	if t.err == nil {
		t.err = fmt.Errorf("%s row %d field %d: %w", t.file, t.row, i, err)
	}
}

func (t *tuple) decode(i int, v any) bool {
	if t.err != nil {
		return false
	}
	if err := json.Unmarshal(t.fields[i], v); err != nil {
		t.fail(i, fmt.Errorf("%w: %v", ErrMalformedTuple, err))
		return false
	}
	return true
}

func (t *tuple) isNull(i int) bool {
	return bytes.Equal(bytes.TrimSpace(t.fields[i]), []byte("null"))
}

// str reads a string field; null reads as "".
func (t *tuple) str(i int) string {
	var s string
	t.decode(i, &s)
	return s
}

func (t *tuple) optStr(i int) *string {
	if t.err != nil || t.isNull(i) {
		return nil
	}
	s := t.str(i)
	return &s
}

func (t *tuple) number(i int) int {
	var n int
	t.decode(i, &n)
	return n
}

func (t *tuple) float(i int) float64 {
	var f float64
	t.decode(i, &f)
	return f
}

func (t *tuple) optFloat(i int) *float64 {
	if t.err != nil || t.isNull(i) {
		return nil
	}
	f := t.float(i)
	return &f
}

func (t *tuple) floatPair(i int) [2]float64 {
	var p []float64
	if !t.decode(i, &p) {
		return [2]float64{}
	}
	if len(p) != 2 {
		t.fail(i, fmt.Errorf("%w: pair has %d elements", ErrMalformedTuple, len(p)))
		return [2]float64{}
	}
	return [2]float64{p[0], p[1]}
}

func (t *tuple) intPair(i int) [2]int {
	var p []int
	if !t.decode(i, &p) {
		return [2]int{}
	}
	if len(p) != 2 {
		t.fail(i, fmt.Errorf("%w: pair has %d elements", ErrMalformedTuple, len(p)))
		return [2]int{}
	}
	return [2]int{p[0], p[1]}
}

// index reads a foreign key into a pool of size n. It returns -1 for the
// sentinel and fails on anything else outside [0,n).
func (t *tuple) index(i, n int) int {
	idx := t.number(i)
	if t.err != nil {
		return -1
	}
	return t.checkIndex(i, idx, n)
}

func (t *tuple) checkIndex(i, idx, n int) int {
	if idx == -1 {
		return -1
	}
	if idx < 0 || idx >= n {
		t.fail(i, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, idx, n))
		return -1
	}
	return idx
}

func (t *tuple) indexes(i, n int) []int {
	var ids []int
	if !t.decode(i, &ids) {
		return nil
	}
	for _, id := range ids {
		if id < 0 || id >= n {
			t.fail(i, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, id, n))
			return nil
		}
	}
	return ids
}

// ref resolves a foreign key to an element of pool; -1 yields nil.
func ref[T any](t *tuple, i int, pool []T) *T {
	idx := t.index(i, len(pool))
	if idx < 0 {
		return nil
	}
	return &pool[idx]
}

// refs resolves a list of foreign keys. The sentinel is not allowed inside
// lists.
func refs[T any](t *tuple, i int, pool []T) []*T {
	ids := t.indexes(i, len(pool))
	if len(ids) == 0 {
		return nil
	}
	out := make([]*T, len(ids))
	for j, id := range ids {
		out[j] = &pool[id]
	}
	return out
}

func lookup(t *tuple, i int, pool []string) string {
	idx := t.index(i, len(pool))
	if idx < 0 {
		return ""
	}
	return pool[idx]
}

func optLookup(t *tuple, i int, pool []string) *string {
	idx := t.index(i, len(pool))
	if idx < 0 {
		return nil
	}
	s := pool[idx]
	return &s
}

func lookups(t *tuple, i int, pool []string) []string {
	ids := t.indexes(i, len(pool))
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for j, id := range ids {
		out[j] = pool[id]
	}
	return out
}
