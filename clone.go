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

// Clone returns an independent copy of s: mutating the result never
// affects s, and vice versa. The random source is shared, since
// RandomSource implementations in this module carry no mutable state of
// their own beyond an internal PRNG stream that callers already expect to
// diverge between the original and any copy taken mid-stream.
func (s *Sketch[T]) Clone() *Sketch[T] {
	clone := &Sketch[T]{
		k:            s.k,
		n:            s.n,
		h:            s.h,
		m:            s.m,
		r:            s.r,
		totalWeightR: s.totalWeightR,
		rf:           s.rf,
		cap:          s.cap,
		random:       s.random,
	}
	clone.data = append([]T(nil), s.data...)
	clone.weights = append([]float64(nil), s.weights...)
	if s.marks != nil {
		clone.marks = append([]bool(nil), s.marks...)
	}
	return clone
}
