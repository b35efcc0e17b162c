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

// Min-heap maintained over weight[0:h), in place inside the paired buffer.
// A slot's children are at 2*slot+1 and 2*slot+2, its parent at (slot-1)/2.

func (s *Sketch[T]) swap(i, j int) {
	s.data[i], s.data[j] = s.data[j], s.data[i]
	s.weights[i], s.weights[j] = s.weights[j], s.weights[i]
	if s.marks != nil {
		s.marks[i], s.marks[j] = s.marks[j], s.marks[i]
	}
}

func (s *Sketch[T]) siftUp(slot int) {
	for slot > 0 {
		parent := (slot - 1) / 2
		if s.weights[parent] <= s.weights[slot] {
			break
		}
		s.swap(slot, parent)
		slot = parent
	}
}

func (s *Sketch[T]) siftDown(slot int) {
	last := s.h - 1
	for {
		child := 2*slot + 1
		if child > last {
			return
		}
		if right := child + 1; right <= last && s.weights[right] < s.weights[child] {
			child = right
		}
		if s.weights[slot] <= s.weights[child] {
			return
		}
		s.swap(slot, child)
		slot = child
	}
}

// buildHeap turns weight[0:h) into a valid min-heap, bottom-up.
func (s *Sketch[T]) buildHeap() {
	if s.h < 2 {
		return
	}
	for j := s.h/2 - 1; j >= 0; j-- {
		s.siftDown(j)
	}
}

// push inserts (item, weight) at the end of H and restores the heap
// property. The caller must have already ensured capacity for slot h.
func (s *Sketch[T]) push(item T, weight float64) {
	s.data[s.h] = item
	s.weights[s.h] = weight
	if s.marks != nil {
		s.marks[s.h] = false
	}
	s.h++
	s.siftUp(s.h - 1)
}

// popMinToMiddle moves the heap minimum out of H into the M slot. Requires
// h >= 1.
func (s *Sketch[T]) popMinToMiddle() {
	if s.h == 1 {
		s.h--
		s.m++
		return
	}
	last := s.h - 1
	s.swap(0, last)
	s.h--
	s.m++
	s.siftDown(0)
}
