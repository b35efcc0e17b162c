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

import "fmt"

// FromParts rebuilds a Sketch directly from its region contents, bypassing
// Update. It exists for decoders (see the wireformat package) that have
// read back an exact H/R split from a binary image and must not let a
// replay through Update silently resample it.
//
// hItems/hWeights must already be a valid min-heap by weight; n is the
// total item count the source sketch had observed. r items share
// totalWeightR; callers with an empty sketch pass r == 0 and the rest of
// the reservoir arguments zeroed.
func FromParts[T any](k int, n int64, hItems []T, hWeights []float64, rItems []T, totalWeightR float64, opts ...Option[T]) (*Sketch[T], error) {
	if len(hItems) != len(hWeights) {
		return nil, fmt.Errorf("%w: hItems and hWeights must have equal length, got %d and %d", ErrInvalidArgument, len(hItems), len(hWeights))
	}
	h, r := len(hItems), len(rItems)
	if h+r > k {
		return nil, fmt.Errorf("%w: h+r = %d exceeds k = %d", ErrInvalidArgument, h+r, k)
	}
	if r >= 1 && totalWeightR <= 0 {
		return nil, fmt.Errorf("%w: a non-empty R region needs a positive totalWeightR, got %v", ErrInvalidArgument, totalWeightR)
	}

	s, err := New[T](k, opts...)
	if err != nil {
		return nil, err
	}
	s.n = n
	s.h = h
	s.r = r
	s.totalWeightR = totalWeightR

	// With a non-empty R region, slot h stays an empty gap and R occupies
	// [h+1, h+1+r), the layout Update expects at rest.
	needed := h + r
	if r > 0 {
		needed++
	}
	for needed > s.cap {
		s.growDataArrays()
	}

	copy(s.data, hItems)
	copy(s.weights, hWeights)
	for i, item := range rItems {
		s.data[h+1+i] = item
		s.weights[h+1+i] = -1.0
	}

	if !isMinHeapWeights(s.weights, s.h) {
		return nil, fmt.Errorf("%w: H-region weights do not form a valid min-heap", ErrCorruption)
	}
	return s, nil
}

func isMinHeapWeights(weights []float64, h int) bool {
	for i := 0; i < h; i++ {
		for _, child := range [2]int{2*i + 1, 2*i + 2} {
			if child < h && weights[child] < weights[i] {
				return false
			}
		}
	}
	return true
}
