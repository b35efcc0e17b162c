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

// downsampleCandidateSet picks one candidate (out of the numCands items
// spanning M and R) to drop, then collapses M and R back into a single R
// region of numCands-1 items.
func (s *Sketch[T]) downsampleCandidateSet(wtCands float64, numCands int) {
	if numCands < 2 {
		panic("varopt: downsampleCandidateSet called with numCands < 2")
	}

	deleteSlot := s.chooseDeleteSlot(wtCands, numCands)

	leftmostCand := s.h
	stop := leftmostCand + s.m
	for j := leftmostCand; j < stop; j++ {
		s.weights[j] = -1.0
		if s.marks != nil {
			s.marks[j] = false
		}
	}

	// Move whatever survives at the leftmost candidate slot into the
	// deleted one; safe even when deleteSlot == leftmostCand.
	if deleteSlot != leftmostCand {
		s.data[deleteSlot] = s.data[leftmostCand]
		if s.marks != nil {
			s.marks[deleteSlot] = s.marks[leftmostCand]
		}
	}
	var zero T
	s.data[leftmostCand] = zero

	s.m = 0
	s.r = numCands - 1
	s.totalWeightR = wtCands
}

// chooseDeleteSlot picks the candidate to evict. With no M item the choice
// is uniform over R; with exactly one M item, a weighted coin decides
// whether to evict it or fall back to a uniform pick from R; with two or
// more M items, a weighted scan over M decides, falling back to a uniform
// pick from R if the scan exhausts M without committing.
func (s *Sketch[T]) chooseDeleteSlot(wtCand float64, numCand int) int {
	if s.r == 0 {
		panic("varopt: chooseDeleteSlot called in warmup (r == 0)")
	}

	switch s.m {
	case 0: // case 1
		return s.pickRandomSlotInR()
	case 1:
		wtM := s.weights[s.h]
		// Deliberately weighted against wtCand, the whole candidate-set
		// total with the M item's weight included; matches the eviction
		// odds the rest of the candidate set uses.
		if wtCand*s.random.NextFloat64ExcludeZero() < float64(numCand-1)*wtM {
			return s.pickRandomSlotInR() // case 2: keep the M item
		}
		return s.h // case 3: delete the M item
	default:
		slot := s.chooseWeightedDeleteSlot(wtCand, numCand)
		firstRSlot := s.h + s.m
		if slot == firstRSlot { // case 4: scan fell through to the virtual R slot
			return s.pickRandomSlotInR()
		}
		return slot // case 5
	}
}

// chooseWeightedDeleteSlot scans the M region, weighting each candidate by
// how many of the numCand-1 survivors it would represent, and returns h+m
// (the "virtual" R slot) if the scan runs off the end without committing to
// an M slot.
func (s *Sketch[T]) chooseWeightedDeleteSlot(wtCand float64, numCand int) int {
	numToKeep := numCand - 1
	left := 0.0
	right := -wtCand * s.random.NextFloat64ExcludeZero()

	last := s.h + s.m - 1
	for i := s.h; i <= last; i++ {
		left += float64(numToKeep) * s.weights[i]
		right += wtCand
		if left < right {
			return i
		}
	}
	return last + 1
}

// pickRandomSlotInR returns a uniformly random slot within the current R
// region.
func (s *Sketch[T]) pickRandomSlotInR() int {
	offset := s.h + s.m
	if s.r == 1 {
		return offset
	}
	return offset + s.random.NextIntn(s.r)
}
