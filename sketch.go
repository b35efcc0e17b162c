/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package varopt implements VarOpt weighted reservoir sampling (Cohen,
// Duffield, Lund, Thorup: "Efficient Stream Sampling for Variance-Optimal
// Estimation of Subset Sums"). It maintains a bounded-size (k), statistically
// representative sample of (item, weight) pairs drawn from a stream of
// unbounded length. Items live in one of three regions packed into a single
// paired item/weight buffer:
//
//   - H (heavy), slots [0, h): a min-heap over weight.
//   - M (middle), slots [h, h+m): a transient holding area that is
//     non-empty only while an Update call is in progress.
//   - R (reservoir), slots [h+m, h+m+r) during an update: items that share
//     an implicit, equal adjusted weight of totalWeightR / r.
//
// At rest (between Update calls), m is always 0, and either r = 0 (the
// sketch is still in warmup, with h <= k) or h + r = k. In the latter case
// slot h is an empty gap (the next update's M slot) and R occupies
// [h+1, k+1).
package varopt

import (
	"fmt"
	"iter"
	"math"

	"github.com/vsample/varopt/internal/xmath"
)

const (
	minK            = 2
	defaultResizeFactor = ResizeX8
	minLgArrItems   = 4 // smallest starting array size: 16, or k if k is smaller
)

// Sketch is a VarOpt weighted reservoir sample over items of type T.
//
// A Sketch must not be shared between concurrent writers without external
// synchronization; a reader concurrent with a writer observes torn state.
type Sketch[T any] struct {
	k            int     // target sample size, fixed at construction
	n            int64   // total items seen
	h            int     // |H|
	m            int     // |M| (always 0 at rest)
	r            int     // |R|
	totalWeightR float64 // sum of weights represented by the R region

	data    []T
	weights []float64 // -1.0 in R-region slots: stale by design, not meaningful
	marks   []bool    // optional per-slot diagnostic marks; nil unless WithMarks()

	rf     ResizeFactor
	cap    int // currently allocated capacity, <= k+1
	random RandomSource
}

// Option configures a Sketch at construction time.
type Option[T any] func(*sketchConfig)

type sketchConfig struct {
	resizeFactor ResizeFactor
	random       RandomSource
	marks        bool
}

// WithResizeFactor overrides the default (ResizeX8) array growth factor.
func WithResizeFactor[T any](rf ResizeFactor) Option[T] {
	return func(c *sketchConfig) { c.resizeFactor = rf }
}

// WithRandomSource overrides the sketch's random source, e.g. with a fake
// for deterministic tests.
func WithRandomSource[T any](r RandomSource) Option[T] {
	return func(c *sketchConfig) { c.random = r }
}

// WithSeed makes the sketch's random draws deterministic given seed.
func WithSeed[T any](seed int64) Option[T] {
	return func(c *sketchConfig) { c.random = NewSeededRandomSource(seed) }
}

// WithSeedKey derives a deterministic seed from an arbitrary string (e.g. a
// shard name) instead of requiring the caller to pick an integer.
func WithSeedKey[T any](key string) Option[T] {
	return func(c *sketchConfig) { c.random = NewSeededRandomSource(seedFromKey(key)) }
}

// WithMarks enables per-slot gadget marks. Marks are diagnostic only; they
// are not part of the sampling algorithm, and the wireformat package does
// not write them.
func WithMarks[T any]() Option[T] {
	return func(c *sketchConfig) { c.marks = true }
}

// New constructs a Sketch with target sample size k (k >= 2).
func New[T any](k int, opts ...Option[T]) (*Sketch[T], error) {
	if k < minK {
		return nil, fmt.Errorf("%w: k must be at least %d, got %d", ErrInvalidArgument, minK, k)
	}

	cfg := &sketchConfig{resizeFactor: defaultResizeFactor}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.random == nil {
		cfg.random = NewRandomSource()
	}

	initialSize := startingCapacity(k, cfg.resizeFactor)

	s := &Sketch[T]{
		k:      k,
		rf:     cfg.resizeFactor,
		cap:    initialSize,
		data:   make([]T, initialSize),
		weights: make([]float64, initialSize),
		random: cfg.random,
	}
	if cfg.marks {
		s.marks = make([]bool, initialSize)
	}
	return s, nil
}

func startingCapacity(k int, rf ResizeFactor) int {
	lgMin := minLgArrItems
	lgTarget, _ := xmath.ExactLog2(xmath.CeilPowerOf2(k))
	lgRf := int(rf)
	lg := startingSubMultiple(lgTarget, lgRf, lgMin)
	size := 1 << uint(lg)
	if size > k {
		size = k
	}
	if size < 1 {
		size = 1
	}
	return size
}

// startingSubMultiple picks the smallest array size (as a power-of-2
// exponent) on the geometric growth path from lgMin to lgTarget, so that
// repeated growth by 2^lgRf lands exactly on lgTarget.
func startingSubMultiple(lgTarget, lgRf, lgMin int) int {
	if lgTarget <= lgMin {
		return lgMin
	}
	if lgRf == 0 {
		return lgTarget
	}
	return (lgTarget-lgMin)%lgRf + lgMin
}

// K returns the configured target sample size.
func (s *Sketch[T]) K() int { return s.k }

// N returns the total number of items observed. A nil item is skipped
// without counting; a non-positive weight is rejected with
// ErrInvalidWeight and also does not count. See Update.
func (s *Sketch[T]) N() int64 { return s.n }

// H returns the current size of the heavy region.
func (s *Sketch[T]) H() int { return s.h }

// R returns the current size of the reservoir region.
func (s *Sketch[T]) R() int { return s.r }

// TotalWeightR returns the aggregate weight represented by the R region.
func (s *Sketch[T]) TotalWeightR() float64 { return s.totalWeightR }

// ResizeFactor returns the configured array growth factor.
func (s *Sketch[T]) ResizeFactor() ResizeFactor { return s.rf }

// NumSamples returns min(k, h+r): the number of items currently retained.
func (s *Sketch[T]) NumSamples() int {
	n := s.h + s.r
	if n > s.k {
		return s.k
	}
	return n
}

// IsEmpty reports whether the sketch has not yet processed any items.
func (s *Sketch[T]) IsEmpty() bool { return s.n == 0 }

// inWarmup reports whether the sketch is still in exact mode (r == 0).
func (s *Sketch[T]) inWarmup() bool { return s.r == 0 }

// peekMin returns the current heap minimum, or +Inf if H is empty.
func (s *Sketch[T]) peekMin() float64 {
	if s.h == 0 {
		return math.Inf(1)
	}
	return s.weights[0]
}

// Sample pairs a retained item with its adjusted weight.
type Sample[T any] struct {
	Item   T
	Weight float64
}

// All iterates every retained sample with its adjusted weight: the original
// weight for H-region items, and totalWeightR/r for each R-region item.
// Returns no samples when the sketch is empty.
func (s *Sketch[T]) All() iter.Seq[Sample[T]] {
	return func(yield func(Sample[T]) bool) {
		for i := 0; i < s.h; i++ {
			if !yield(Sample[T]{Item: s.data[i], Weight: s.weights[i]}) {
				return
			}
		}
		if s.r > 0 {
			tau := s.totalWeightR / float64(s.r)
			// Skip the empty gap slot h that downsampleCandidateSet leaves.
			rStart := s.h + 1
			for i := 0; i < s.r; i++ {
				if !yield(Sample[T]{Item: s.data[rStart+i], Weight: tau}) {
					return
				}
			}
		}
	}
}

// Samples materializes All() into a slice, for callers that don't want to
// range over the iterator directly.
func (s *Sketch[T]) Samples() []Sample[T] {
	out := make([]Sample[T], 0, s.NumSamples())
	for sample := range s.All() {
		out = append(out, sample)
	}
	return out
}

// Reset clears the sketch back to empty while preserving k and its random
// source.
func (s *Sketch[T]) Reset() {
	initialSize := startingCapacity(s.k, s.rf)
	s.n = 0
	s.h = 0
	s.m = 0
	s.r = 0
	s.totalWeightR = 0
	s.cap = initialSize
	s.data = make([]T, initialSize)
	s.weights = make([]float64, initialSize)
	if s.marks != nil {
		s.marks = make([]bool, initialSize)
	}
}
