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
	"math/rand"
	"time"

	"github.com/twmb/murmur3"
)

// RandomSource supplies the two primitive draws the sampling algorithm
// needs: a uniform float in (0, 1] (zero is excluded so that the
// strict-less-than comparisons in chooseDeleteSlot stay unambiguous) and a
// uniform integer in [0, n). It is per-sketch, not global, so that
// concurrent tests with different seeds never interfere with each other.
type RandomSource interface {
	NextFloat64ExcludeZero() float64
	NextIntn(n int) int
}

// mathRandSource adapts *rand.Rand to RandomSource.
type mathRandSource struct {
	r *rand.Rand
}

// NewRandomSource returns the default RandomSource, seeded from the current
// time. Use WithSeed or WithSeedKey on a sketch for reproducible draws.
func NewRandomSource() RandomSource {
	return &mathRandSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRandomSource returns a RandomSource that is deterministic given
// seed.
func NewSeededRandomSource(seed int64) RandomSource {
	return &mathRandSource{r: rand.New(rand.NewSource(seed))}
}

func (s *mathRandSource) NextFloat64ExcludeZero() float64 {
	for {
		v := s.r.Float64()
		if v > 0 {
			return v
		}
	}
}

func (s *mathRandSource) NextIntn(n int) int {
	return s.r.Intn(n)
}

// seedFromKey derives a deterministic int64 seed from an arbitrary string,
// via the first 64-bit half of a 128-bit murmur3 hash with its top bit
// cleared. This lets a caller pin
// a sketch's randomness to something memorable (a shard name, a test case
// id) instead of hand-picking an integer.
func seedFromKey(key string) int64 {
	h1, _ := murmur3.SeedSum128(0, 0, []byte(key))
	return int64(h1 &^ (1 << 63))
}
