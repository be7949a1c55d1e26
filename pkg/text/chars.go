package text

import "strings"

// CharRange is an inclusive range of characters.
type CharRange struct {
	Lo, Hi rune
}

// charClass is an O(1) membership test over single characters. For one or
// two characters it compares directly; for larger sets it uses a lookup
// table sized to the maximum character code supplied. Characters beyond the
// table are classified false (or true for negated sets) without branching
// per member.
type charClass struct {
	a, b    rune
	n       int
	table   []bool
	pred    func(rune) bool
	negated bool
}

func classOf(chars []rune) charClass {
	switch len(chars) {
	case 0:
		return charClass{n: 0}
	case 1:
		return charClass{a: chars[0], n: 1}
	case 2:
		return charClass{a: chars[0], b: chars[1], n: 2}
	}
	maxCode := rune(0)
	for _, c := range chars {
		if c > maxCode {
			maxCode = c
		}
	}
	table := make([]bool, maxCode+1)
	for _, c := range chars {
		table[c] = true
	}
	return charClass{table: table, n: len(chars)}
}

func classOfRanges(ranges []CharRange) charClass {
	maxCode := rune(0)
	for _, r := range ranges {
		if r.Hi > maxCode {
			maxCode = r.Hi
		}
	}
	table := make([]bool, maxCode+1)
	for _, r := range ranges {
		for c := r.Lo; c <= r.Hi; c++ {
			table[c] = true
		}
	}
	return charClass{table: table, n: len(table)}
}

func (c charClass) contains(r rune) bool {
	var in bool
	switch {
	case c.pred != nil:
		in = c.pred(r)
	case c.table != nil:
		in = r >= 0 && int(r) < len(c.table) && c.table[r]
	case c.n == 1:
		in = r == c.a
	case c.n == 2:
		in = r == c.a || r == c.b
	}
	if c.negated {
		return !in
	}
	return in
}

// Chars scans a run of characters belonging to a character class. By default
// it always succeeds, consuming the longest (possibly empty) matching run;
// Min makes shorter runs a failure.
type Chars struct {
	class charClass
	min   int
}

// AnyOf matches runs of the given characters.
func AnyOf(chars ...rune) Chars {
	return Chars{class: classOf(chars)}
}

// AnyBut matches runs of characters other than the given ones.
func AnyBut(chars ...rune) Chars {
	c := classOf(chars)
	c.negated = true
	return Chars{class: c}
}

// AnyIn matches runs of characters within the given inclusive ranges.
func AnyIn(ranges ...CharRange) Chars {
	return Chars{class: classOfRanges(ranges)}
}

// AnyWhile matches runs of characters satisfying the predicate.
func AnyWhile(pred func(rune) bool) Chars {
	return Chars{class: charClass{pred: pred}}
}

// Min requires at least n matching characters; fewer is a failure stating
// the minimum and the count observed.
func (c Chars) Min(n int) Chars {
	c.min = n
	return c
}

// Parse is the Parser[string] for this scanner.
func (c Chars) Parse(pos Position) Result[string] {
	cur := pos
	count := 0
	for {
		r, ok := cur.Peek()
		if !ok || !c.class.contains(r) {
			break
		}
		cur = cur.AdvanceRune()
		count++
	}
	if count < c.min {
		return Fail[string](pos, "expected at least %d matching characters, found %d", c.min, count)
	}
	return Succeed(pos.Between(cur), cur)
}

// Contains reports whether the scanner's class contains r. Exposed so
// dispatch tables can reuse a class as a stop set.
func (c Chars) Contains(r rune) bool {
	return c.class.contains(r)
}

// Whitespace matches runs of spaces and tabs.
func Whitespace() Chars {
	return AnyOf(' ', '\t')
}

// letter and identifier scanning shared by directive and reference names.

// IsNameStart reports whether r may start an identifier.
func IsNameStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsNameChar reports whether r may continue an identifier.
func IsNameChar(r rune) bool {
	return IsNameStart(r) || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

// Name parses an identifier: a letter followed by letters, digits, '-' or '_'.
func Name() Parser[string] {
	body := AnyWhile(IsNameChar)
	return func(pos Position) Result[string] {
		r, ok := pos.Peek()
		if !ok || !IsNameStart(r) {
			return Fail[string](pos, "expected identifier")
		}
		return body.Parse(pos)
	}
}

// TrimWs removes leading and trailing spaces and tabs.
func TrimWs(s string) string {
	return strings.Trim(s, " \t")
}
