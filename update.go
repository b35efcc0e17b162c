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

package varopt

import (
	"fmt"
	"math"

	"github.com/vsample/varopt/internal/xmath"
)

// Update offers one (item, weight) pair to the sketch.
//
// A nil item (valid only for nillable T: pointer, interface, slice, map,
// chan, func) is silently skipped: there is nothing to offer. A
// non-positive weight is rejected with ErrInvalidWeight; the sketch's
// state is unchanged when Update returns an error.
func (s *Sketch[T]) Update(item T, weight float64) error {
	if xmath.IsNil(item) {
		return nil
	}
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: weight must be positive and finite, got %v", ErrInvalidWeight, weight)
	}

	s.n++

	if s.r == 0 {
		return s.updateWarmup(item, weight)
	}

	// tau' if this item were folded into the R region alongside the
	// current candidates, computed from the totals before this update.
	// An item goes the pseudo-light way only if it is below tau' and no
	// heavier than the heap minimum.
	hypotheticalTau := (weight + s.totalWeightR) / float64(s.r)
	isLightEnoughForHeap := s.h == 0 || weight <= s.peekMin()
	isLightEnoughForTau := weight < hypotheticalTau

	switch {
	case isLightEnoughForHeap && isLightEnoughForTau:
		return s.updatePseudoLight(item, weight)
	case s.r == 1:
		return s.updatePseudoHeavyREq1(item, weight)
	default:
		return s.updatePseudoHeavyGeneral(item, weight)
	}
}

// updateWarmup appends to H while h <= k.
func (s *Sketch[T]) updateWarmup(item T, weight float64) error {
	s.ensureCapacityFor(s.h)
	s.data[s.h] = item
	s.weights[s.h] = weight
	if s.marks != nil {
		s.marks[s.h] = false
	}
	s.h++

	if s.h > s.k {
		s.transitionFromWarmup()
	}
	return nil
}

// transitionFromWarmup fires exactly once, when the (k+1)th item arrives
// during warmup. It builds the heap over all k+1 slots, peels the two
// lightest into M, reinterprets one as the singleton R region, and grows
// the candidate set from there.
func (s *Sketch[T]) transitionFromWarmup() {
	s.buildHeap()
	s.popMinToMiddle()
	s.popMinToMiddle()

	// h = k-1, m = 2 here; fold the lighter of the two M items into R.
	s.m--
	s.r++

	rSlot := s.h + s.m // == k
	s.totalWeightR = s.weights[rSlot]
	s.weights[rSlot] = -1.0

	mSlot := s.h // == k-1
	s.growCandidateSet(s.weights[mSlot]+s.totalWeightR, 2)
}

// updatePseudoLight handles an item lighter than the hypothetical tau' and
// no heavier than the heap minimum: it goes straight into the M slot and
// joins the candidate set.
func (s *Sketch[T]) updatePseudoLight(item T, weight float64) error {
	mSlot := s.h
	s.ensureCapacityFor(mSlot)
	s.data[mSlot] = item
	s.weights[mSlot] = weight
	if s.marks != nil {
		s.marks[mSlot] = false
	}
	s.m = 1

	s.growCandidateSet(s.totalWeightR+weight, s.r+1)
	return nil
}

// updatePseudoHeavyGeneral handles an item heavier than the old tau when
// r >= 2: it is pushed into the heap (it may be peeled right back out
// during candidate growth).
func (s *Sketch[T]) updatePseudoHeavyGeneral(item T, weight float64) error {
	s.ensureCapacityFor(s.h)
	s.push(item, weight)
	s.growCandidateSet(s.totalWeightR, s.r)
	return nil
}

// updatePseudoHeavyREq1 handles an item heavier than the old tau when
// r == 1: the new item goes into the heap, then the heap minimum is popped
// back out to M, and both the M item and the single R item join the
// candidate set.
func (s *Sketch[T]) updatePseudoHeavyREq1(item T, weight float64) error {
	s.ensureCapacityFor(s.h)
	s.push(item, weight)
	s.popMinToMiddle()

	mSlot := s.k - 1
	s.growCandidateSet(s.weights[mSlot]+s.totalWeightR, 2)
	return nil
}
