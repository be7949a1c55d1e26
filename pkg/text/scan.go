package text

// StopReason classifies what ended a delimited scan. Callers must
// distinguish the three: a delimiter ends the enclosing construct, a stop
// character hands control to a nested parser, and end-of-input is only a
// success when explicitly allowed.
type StopReason int

const (
	// StoppedAtDelimiter means the end-condition parser matched; the
	// delimiter is consumed and excluded from the scanned text.
	StoppedAtDelimiter StopReason = iota

	// StoppedAtChar means a character from the stop set was reached; the
	// character is not consumed and is reported as StopChar.
	StoppedAtChar

	// StoppedAtEOF means end of input was reached with AllowEOF set.
	StoppedAtEOF
)

// Scanned is the outcome of a delimited scan: the text consumed plus the
// classification of what stopped the scan.
type Scanned struct {
	Text     string
	Reason   StopReason
	StopChar rune
}

// Delimited scans text up to a dynamically supplied end condition: a
// delimiter parser, a set of stop characters, or (when allowed) end of
// input. The zero value is not useful; construct with Until or StopOn.
type Delimited struct {
	delim     Parser[string]
	delimHint byte
	stops     charClass
	hasStops  bool
	allowEOF  bool
}

// Until returns a scanner that consumes characters until delim succeeds at
// the current position. Reaching end of input without the delimiter (or a
// stop character) is a failure.
func Until(delim Parser[string]) Delimited {
	return Delimited{delim: delim}
}

// UntilLit is Until for a literal delimiter, with a first-byte fast path so
// the delimiter parser only runs where it could match.
func UntilLit(s string) Delimited {
	d := Delimited{delim: Lit(s)}
	if len(s) > 0 {
		d.delimHint = s[0]
	}
	return d
}

// StopOn returns a copy of the scanner that also stops (without consuming)
// at any of the given characters.
func (d Delimited) StopOn(chars ...rune) Delimited {
	d.stops = classOf(chars)
	d.hasStops = len(chars) > 0
	return d
}

// AllowEOF returns a copy of the scanner that treats end of input as a
// successful stop instead of a failure.
func (d Delimited) AllowEOF() Delimited {
	d.allowEOF = true
	return d
}

// Parse is the Parser[Scanned] for this scanner.
func (d Delimited) Parse(pos Position) Result[Scanned] {
	cur := pos
	for {
		if cur.AtEnd() {
			if d.allowEOF {
				return Succeed(Scanned{Text: pos.Between(cur), Reason: StoppedAtEOF}, cur)
			}
			return Fail[Scanned](pos, "unterminated: reached end of input while scanning")
		}
		if d.delim != nil && (d.delimHint == 0 || cur.Rest()[0] == d.delimHint) {
			if r := d.delim(cur); r.Ok() {
				return Succeed(Scanned{Text: pos.Between(cur), Reason: StoppedAtDelimiter}, r.Next)
			}
		}
		r, _ := cur.Peek()
		if d.hasStops && d.stops.contains(r) {
			return Succeed(Scanned{Text: pos.Between(cur), Reason: StoppedAtChar, StopChar: r}, cur)
		}
		cur = cur.AdvanceRune()
	}
}
