package main

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/kelindar/sparsecheck/adapter"
	"github.com/kelindar/sparsecheck/roaring"
	"github.com/kelindar/sparsecheck/sparse"
	"github.com/kelindar/sparsecheck/verify"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type shape struct {
	name string
	gen  func(rng *rand.Rand, size int) []uint32
}

var shapes = []shape{
	{"seq", dataSeq},
	{"rnd", dataRand},
	{"sps", dataSparse},
	{"dns", dataDense},
}

// runner drives the loaders and checkers over generated references
type runner struct {
	log     *zap.Logger
	rng     *rand.Rand
	opts    []verify.Option
	maxSpan uint32 // largest reference value for which vectors are checked
}

func newRunner(log *zap.Logger, seed uint64, maxSpan uint32, opts ...verify.Option) *runner {
	return &runner{
		log:     log,
		rng:     rand.New(rand.NewPCG(seed, seed+1)),
		opts:    append([]verify.Option{verify.WithLogger(log), verify.WithSeed(seed)}, opts...),
		maxSpan: maxSpan,
	}
}

// Run checks every combination of size and shape, and returns all of the failures
func (r *runner) Run(sizes []int, names []string) (err error) {
	selected, err := selectShapes(names)
	if err != nil {
		return err
	}

	for _, size := range sizes {
		for _, s := range selected {
			ref := sortedSet(s.gen(r.rng, size))
			log := r.log.With(zap.String("shape", s.name), zap.String("size", formatSize(size)))
			log.Info("checking", zap.Int("keys", len(ref)))

			err = multierr.Append(err, r.checkSets(log, ref))
			err = multierr.Append(err, r.checkVectors(log, ref))
		}
	}
	return err
}

// checkSets loads the reference into every set implementation and cross-checks them
func (r *runner) checkSets(log *zap.Logger, ref []uint32) error {
	engine := roaring.New()
	if err := verify.LoadSet(engine, ref, r.opts...); err != nil {
		return errors.Wrap(err, "load engine")
	}

	sets := []struct {
		name string
		set  verify.MutableBitset
	}{
		{"engine", engine},
		{"roaring", adapter.NewRoaring()},
		{"bitset", adapter.NewBitSet()},
		{"dense", adapter.NewDense()},
	}

	for _, s := range sets {
		if s.set != engine {
			if err := verify.LoadSet(s.set, ref, r.opts...); err != nil {
				return errors.Wrapf(err, "load %s", s.name)
			}
		}

		if err := r.checkSet(s.set, ref); err != nil {
			return errors.Wrapf(err, "check %s", s.name)
		}

		if err := verify.CheckSetsEqual(engine, s.set, r.opts...); err != nil {
			return errors.Wrapf(err, "compare %s", s.name)
		}
	}

	// Optimizing changes the containers, but never the keys
	engine.Optimize()
	if err := r.checkSet(engine, ref); err != nil {
		return errors.Wrap(err, "check optimized engine")
	}

	for _, s := range sets {
		verify.ClearSet(s.set, ref)
		if err := verify.CheckSet(s.set, nil, r.opts...); err != nil {
			return errors.Wrapf(err, "clear %s", s.name)
		}
	}

	log.Debug("sets checked", zap.Int("count", len(sets)))
	return nil
}

func (r *runner) checkSet(set verify.Bitset, ref []uint32) error {
	if err := verify.CheckSetMembers(set, ref, r.opts...); err != nil {
		return err
	}
	return verify.CheckSet(set, ref, r.opts...)
}

// checkVectors loads the reference into sparse vectors, positioning every value at
// its own index, and checks the vectors and their compressed form
func (r *runner) checkVectors(log *zap.Logger, ref []uint32) error {
	if len(ref) == 0 || ref[len(ref)-1] > r.maxSpan {
		log.Info("skipping vectors", zap.Uint32("maxSpan", r.maxSpan))
		return nil
	}

	plain := sparse.New()
	verify.LoadVector(plain, ref)
	if err := verify.CheckVectorAt(plain, ref, r.opts...); err != nil {
		return errors.Wrap(err, "check loaded vector")
	}

	sv := sparse.NewNullable()
	if err := verify.BulkLoad(sv.Inserter(), ref, r.opts...); err != nil {
		return errors.Wrap(err, "bulk load")
	}

	dense := make([]uint32, ref[len(ref)-1]+1)
	for _, v := range ref {
		dense[v] = v
	}

	filled := append(slices.Clip(r.opts), verify.WithIntervalFilled())
	if err := verify.CheckVector(sv, dense, filled...); err != nil {
		return errors.Wrap(err, "check bulk loaded vector")
	}

	csv := sparse.Compress(sv)
	if err := verify.CheckCompressed(csv, sv, r.opts...); err != nil {
		return errors.Wrap(err, "check compressed")
	}

	if err := verify.CheckDecode(csv, r.opts...); err != nil {
		return errors.Wrap(err, "check decode")
	}

	log.Debug("vectors checked", zap.Uint32("size", sv.Size()))
	return nil
}

// selectShapes returns the shapes with the given names, or all of them if none given
func selectShapes(names []string) ([]shape, error) {
	if len(names) == 0 {
		return shapes, nil
	}

	out := make([]shape, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(shapes, func(s shape) bool { return s.name == name })
		if i < 0 {
			return nil, errors.Errorf("unknown shape %q", name)
		}
		out = append(out, shapes[i])
	}
	return out, nil
}

// sortedSet sorts the keys and removes the duplicates
func sortedSet(data []uint32) []uint32 {
	slices.Sort(data)
	return slices.Compact(data)
}

func formatSize(size int) string {
	if size >= 1e6 {
		return fmt.Sprintf("%.0fM", float64(size)/1e6)
	}
	return fmt.Sprintf("%.0fK", float64(size)/1e3)
}

func dataSeq(_ *rand.Rand, size int) []uint32 {
	data := make([]uint32, size)
	for i := 0; i < size; i++ {
		data[i] = uint32(i)
	}
	return data
}

func dataRand(rng *rand.Rand, size int) []uint32 {
	data := make([]uint32, size)
	for i := 0; i < size; i++ {
		data[i] = uint32(rng.IntN(max(1, size)))
	}
	return data
}

func dataSparse(_ *rand.Rand, size int) []uint32 {
	data := make([]uint32, size)
	for i := 0; i < size; i++ {
		data[i] = uint32(i * 1000)
	}
	return data
}

func dataDense(rng *rand.Rand, size int) []uint32 {
	data := make([]uint32, size)
	for i := 0; i < size; i++ {
		data[i] = uint32(rng.IntN(max(1, size/10)))
	}
	return data
}
