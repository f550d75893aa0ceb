package catalog

import (
	"fmt"
	"strings"
)

// Term is one of the three academic terms of a year.
type Term string

const (
	TermUnknown Term = ""
	TermSpring  Term = "spring"
	TermSummer  Term = "summer"
	TermFall    Term = "fall"
)

// Terms lists the terms in the order the catalog encodes them.
var Terms = [3]Term{TermSpring, TermSummer, TermFall}

// TermFromIndex maps the encoded term index (0 spring, 1 summer, 2 fall) to a
// Term. The sentinel -1 yields TermUnknown.
func TermFromIndex(i int) (Term, error) {
	if i == -1 {
		return TermUnknown, nil
	}
	if i < 0 || i >= len(Terms) {
		return TermUnknown, fmt.Errorf("term index %d out of range", i)
	}
	return Terms[i], nil
}

// Index returns the encoded position of the term, or -1 for TermUnknown.
func (t Term) Index() int {
	for i, term := range Terms {
		if term == t {
			return i
		}
	}
	return -1
}

// ParseTerm accepts a term name in any letter case.
func ParseTerm(s string) (Term, error) {
	t := Term(strings.ToLower(strings.TrimSpace(s)))
	if t.Index() == -1 {
		return TermUnknown, fmt.Errorf("unknown term %q (expected spring, summer or fall)", s)
	}
	return t, nil
}

// Weekdays holds the single-letter weekday codes used in slot day strings,
// Sunday first.
const Weekdays = "UMTWRFS"
