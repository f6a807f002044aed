package verify

import (
	"go.uber.org/zap"
)

// LoadSet sets every key of the reference in the set. The reference must not hold
// duplicates: the set must end up with exactly one key per reference element, which
// is reported as a SizeMismatch otherwise.
func LoadSet(set MutableBitset, ref []uint32, opts ...Option) error {
	c := newConfig(opts)
	for _, v := range ref {
		set.Set(v)
	}

	if n := set.Count(); n != len(ref) {
		return c.fail(mismatch(SizeMismatch, 0, uint64(len(ref)), uint64(n),
			"set count after load, reference may hold duplicates"))
	}

	c.log.Debug("set loaded", zap.Int("count", len(ref)))
	return nil
}

// ClearSet removes every key of the reference from the set
func ClearSet(set MutableBitset, ref []uint32) {
	for _, v := range ref {
		set.Remove(v)
	}
}

// LoadVector stores every value of the reference at the position equal to the value
func LoadVector(sv interface{ Set(i, v uint32) }, ref []uint32) {
	for _, v := range ref {
		sv.Set(v, v)
	}
}

// BulkLoad appends a strictly increasing reference to a sparse array through its
// inserter, so that exactly the reference positions hold a value equal to their
// position. The gaps between consecutive values, including the leading gap before the
// first value, are appended as null runs. Repeated values are skipped, while an empty
// reference or a decreasing value is a LoaderContractViolation, in which case the
// inserter is not flushed.
func BulkLoad(bi Inserter, ref []uint32, opts ...Option) error {
	c := newConfig(opts)
	if err := bulkLoad(bi, ref); err != nil {
		return c.fail(err)
	}

	c.log.Debug("vector bulk loaded", zap.Int("count", len(ref)), zap.Uint32("last", ref[len(ref)-1]))
	return nil
}

func bulkLoad(bi Inserter, ref []uint32) error {
	if len(ref) == 0 {
		return mismatch(LoaderContractViolation, 0, 1, 0, "empty reference")
	}

	prev := ref[0]
	if prev != 0 {
		bi.AddNull(prev)
	}
	bi.Add(prev)

	for i, v := range ref[1:] {
		switch {
		case v == prev:
			continue
		case v < prev:
			return mismatch(LoaderContractViolation, uint64(i+1), uint64(prev), uint64(v),
				"reference must be strictly increasing")
		}

		if gap := v - prev; gap > 1 {
			bi.AddNull(gap - 1)
		}

		bi.Add(v)
		prev = v
	}

	if err := bi.Flush(); err != nil {
		m := mismatch(LoaderContractViolation, uint64(len(ref)-1), uint64(prev), 0, "flush")
		m.Err = err
		return m
	}
	return nil
}
