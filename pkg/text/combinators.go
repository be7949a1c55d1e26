package text

// Lit matches the exact string s.
func Lit(s string) Parser[string] {
	return func(pos Position) Result[string] {
		if !pos.HasPrefix(s) {
			return Fail[string](pos, "expected %q", s)
		}
		return Succeed(s, pos.Advance(len(s)))
	}
}

// Map transforms the value of a successful parse.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(pos Position) Result[B] {
		r := p(pos)
		if !r.Ok() {
			return FailWith[B](r.Err)
		}
		return Succeed(f(r.Value), r.Next)
	}
}

// Map2 runs two parsers in sequence and combines their values. The failure
// of either parser is the failure of the sequence.
func Map2[A, B, C any](pa Parser[A], pb Parser[B], f func(A, B) C) Parser[C] {
	return func(pos Position) Result[C] {
		ra := pa(pos)
		if !ra.Ok() {
			return FailWith[C](ra.Err)
		}
		rb := pb(ra.Next)
		if !rb.Ok() {
			return FailWith[C](rb.Err)
		}
		return Succeed(f(ra.Value, rb.Value), rb.Next)
	}
}

// Then runs two parsers in sequence, keeping the second value.
func Then[A, B any](pa Parser[A], pb Parser[B]) Parser[B] {
	return Map2(pa, pb, func(_ A, b B) B { return b })
}

// ThenSkip runs two parsers in sequence, keeping the first value.
func ThenSkip[A, B any](pa Parser[A], pb Parser[B]) Parser[A] {
	return Map2(pa, pb, func(a A, _ B) A { return a })
}

// Opt holds the value of an optional parse.
type Opt[T any] struct {
	Value T
	Set   bool
}

// Optional turns failure of p into a successful empty Opt without consuming
// input.
func Optional[T any](p Parser[T]) Parser[Opt[T]] {
	return func(pos Position) Result[Opt[T]] {
		r := p(pos)
		if !r.Ok() {
			return Succeed(Opt[T]{}, pos)
		}
		return Succeed(Opt[T]{Value: r.Value, Set: true}, r.Next)
	}
}

// First tries each parser in order at the same position and returns the
// first success. On overall failure it reports the message of the branch
// that reached the furthest offset, with MaxOffset widened across all
// branches. An explicit loop, not recursion: stack depth stays bounded by
// markup nesting only.
func First[T any](parsers ...Parser[T]) Parser[T] {
	return func(pos Position) Result[T] {
		var furthest *ParseError
		widest := pos.Offset()
		for _, p := range parsers {
			r := p(pos)
			if r.Ok() {
				return r
			}
			if r.Err.MaxOffset > widest {
				widest = r.Err.MaxOffset
			}
			if furthest == nil || r.Err.MaxOffset > furthest.MaxOffset {
				furthest = r.Err
			}
		}
		if furthest == nil {
			return Fail[T](pos, "no alternatives given")
		}
		furthest.MaxOffset = widest
		return FailWith[T](furthest)
	}
}

// Rep applies p zero or more times, collecting values until p fails.
// A success that consumes no input terminates the repetition: unbounded
// repetition requires forward progress, so a zero-width success cannot loop.
func Rep[T any](p Parser[T]) Parser[[]T] {
	return func(pos Position) Result[[]T] {
		var values []T
		cur := pos
		for {
			r := p(cur)
			if !r.Ok() {
				return Succeed(values, cur)
			}
			if r.Next.Offset() <= cur.Offset() {
				return Succeed(values, cur)
			}
			values = append(values, r.Value)
			cur = r.Next
		}
	}
}

// RepMin is Rep with a required minimum number of matches.
func RepMin[T any](p Parser[T], n int) Parser[[]T] {
	rep := Rep(p)
	return func(pos Position) Result[[]T] {
		r := rep(pos)
		if r.Ok() && len(r.Value) < n {
			return Fail[[]T](pos, "expected at least %d occurrences, found %d", n, len(r.Value))
		}
		return r
	}
}

// Lazy defers construction of a parser until first use, allowing recursive
// grammars to reference themselves.
func Lazy[T any](build func() Parser[T]) Parser[T] {
	var p Parser[T]
	return func(pos Position) Result[T] {
		if p == nil {
			p = build()
		}
		return p(pos)
	}
}
