package verify

import (
	"iter"
)

// CheckSetMembers checks that every key of the reference is set and, unless disabled
// with WithoutCount, that the set holds no other keys.
func CheckSetMembers(set Bitset, ref []uint32, opts ...Option) error {
	c := newConfig(opts)
	return c.fail(checkMembers(c, set, ref))
}

// CheckSet walks the set with its enumerator in lock-step with the reference, which
// must be exactly the sorted keys of the set. Each enumerated key must match the
// reference and, unless disabled with WithoutCount, the closed range between two
// consecutive keys must count exactly those two keys, and the set must hold no more
// keys than the reference.
func CheckSet(set Bitset, ref []uint32, opts ...Option) error {
	c := newConfig(opts)
	return c.fail(checkEnumerator(c, set, ref))
}

// CheckSetsEqual checks that two sets hold exactly the same keys, walking both of
// them in ascending order.
func CheckSetsEqual(want, got Bitset, opts ...Option) error {
	c := newConfig(opts)
	return c.fail(checkSetsEqual(want, got))
}

func checkMembers(c *config, set Bitset, ref []uint32) error {
	for i, v := range ref {
		if !set.Contains(v) {
			return mismatch(MembershipMismatch, uint64(i), uint64(v), 0, "key %d is not set", v)
		}
	}

	return checkCount(c, set, ref)
}

func checkEnumerator(c *config, set Bitset, ref []uint32) error {
	next, stop := iter.Pull(set.All())
	defer stop()

	var prev uint32
	for i, want := range ref {
		got, ok := next()
		switch {
		case !ok:
			return mismatch(EnumeratorMismatch, uint64(i), uint64(want), 0, "enumerator exhausted")
		case got != want:
			return mismatch(EnumeratorMismatch, uint64(i), uint64(want), uint64(got), "")
		}

		// The first key has no predecessor to count the range from
		if i > 0 && got != prev && c.countCheck {
			if n := set.CountRange(prev, got); n != 2 {
				return mismatch(RangeCountMismatch, uint64(i), 2, uint64(n), "range [%d, %d]", prev, got)
			}
		}
		prev = got
	}

	return checkCount(c, set, ref)
}

func checkCount(c *config, set Bitset, ref []uint32) error {
	if !c.countCheck {
		return nil
	}

	if n := set.Count(); n != len(ref) {
		return mismatch(SizeMismatch, 0, uint64(len(ref)), uint64(n), "set count")
	}
	return nil
}

func checkSetsEqual(want, got Bitset) error {
	nextW, stopW := iter.Pull(want.All())
	defer stopW()
	nextG, stopG := iter.Pull(got.All())
	defer stopG()

	for i := uint64(0); ; i++ {
		w, okW := nextW()
		g, okG := nextG()
		switch {
		case !okW && !okG:
			if a, b := want.Count(), got.Count(); a != b {
				return mismatch(SizeMismatch, 0, uint64(a), uint64(b), "set count")
			}
			return nil
		case !okG:
			return mismatch(MembershipMismatch, i, uint64(w), 0, "key %d is missing", w)
		case !okW:
			return mismatch(MembershipMismatch, i, 0, uint64(g), "key %d is unexpected", g)
		case w != g:
			return mismatch(MembershipMismatch, i, uint64(w), uint64(g), "")
		}
	}
}
