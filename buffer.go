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

// ensureCapacityFor grows the paired buffer, if needed, so that slot index
// is addressable. The buffer never grows past k+1 slots: the +1 is the gap
// an update path transiently needs while h+m+r == k+1, before
// downsampleCandidateSet restores h+m+r <= k.
func (s *Sketch[T]) ensureCapacityFor(slot int) {
	if slot < s.cap {
		return
	}
	s.growDataArrays()
}

func (s *Sketch[T]) growDataArrays() {
	maxSize := s.k + 1
	if s.cap >= maxSize {
		return
	}
	newSize := s.cap * s.rf.factor()
	if newSize > maxSize {
		newSize = maxSize
	}
	if newSize <= s.cap {
		newSize = maxSize
	}

	newData := make([]T, newSize)
	copy(newData, s.data)
	s.data = newData

	newWeights := make([]float64, newSize)
	copy(newWeights, s.weights)
	s.weights = newWeights

	if s.marks != nil {
		newMarks := make([]bool, newSize)
		copy(newMarks, s.marks)
		s.marks = newMarks
	}

	s.cap = newSize
}
