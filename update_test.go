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

import "testing"

// A single enormously heavy item among many light ones must always stay in
// H: its weight vastly exceeds what any tau could reach, so it can never be
// pseudo-light and can never lose a weighted-eviction draw.
func TestUpdate_DominantHeavyItemAlwaysRetained(t *testing.T) {
	s, _ := New[int](8, WithSeed[int](7))
	const heavyItem = -1
	if err := s.Update(heavyItem, 1e12); err != nil {
		t.Fatalf("Update(heavy): %v", err)
	}
	for i := 0; i < 5000; i++ {
		if err := s.Update(i, 1.0); err != nil {
			t.Fatalf("Update(%d): %v", i, err)
		}
	}

	found := false
	for sample := range s.All() {
		if sample.Item == heavyItem {
			found = true
			if sample.Weight != 1e12 {
				t.Errorf("heavy item's weight changed to %v, want 1e12", sample.Weight)
			}
		}
	}
	if !found {
		t.Error("dominant heavy item was evicted from the sample")
	}
}

func TestUpdate_AfterWarmupHPlusREqualsK(t *testing.T) {
	s, _ := New[int](12, WithSeed[int](99))
	for i := 0; i < 10000; i++ {
		if err := s.Update(i, float64(i%13+1)); err != nil {
			t.Fatalf("Update(%d): %v", i, err)
		}
		if !s.inWarmup() && s.H()+s.R() != s.K() {
			t.Fatalf("after %d updates: H()+R() = %d, want K() = %d", i, s.H()+s.R(), s.K())
		}
	}
}

func TestUpdate_RRegionSamplesShareTau(t *testing.T) {
	s, _ := New[int](10, WithSeed[int](5))
	for i := 0; i < 2000; i++ {
		_ = s.Update(i, float64(i%11+1))
	}
	if s.R() == 0 {
		t.Fatal("expected a non-empty R region after many updates")
	}
	tau := s.totalWeightR / float64(s.r)
	rStart := s.h + 1 // slot h is the empty gap at rest
	for i := 0; i < s.r; i++ {
		if s.weights[rStart+i] != -1.0 {
			t.Fatalf("R-region weight slot %d not marked stale (-1), got %v", i, s.weights[rStart+i])
		}
	}
	count := 0
	for sample := range s.All() {
		if count >= s.H() && sample.Weight != tau {
			t.Fatalf("R-region sample %d has weight %v, want tau = %v", count-s.H(), sample.Weight, tau)
		}
		count++
	}
	if count != s.NumSamples() {
		t.Fatalf("All() yielded %d items, want NumSamples() = %d", count, s.NumSamples())
	}
}

func TestUpdate_NeverExceedsTargetSampleSize(t *testing.T) {
	s, _ := New[int](5, WithSeed[int](3))
	for i := 0; i < 50000; i++ {
		if err := s.Update(i, float64(i%31+1)); err != nil {
			t.Fatalf("Update(%d): %v", i, err)
		}
		if s.NumSamples() > s.K() {
			t.Fatalf("NumSamples() = %d exceeds K() = %d at update %d", s.NumSamples(), s.K(), i)
		}
	}
}

func TestEstimateSubsetSum_WarmupIsExact(t *testing.T) {
	s, _ := New[int](100, WithSeed[int](1))
	var want float64
	for i := 1; i <= 20; i++ {
		_ = s.Update(i, float64(i))
		if i%2 == 0 {
			want += float64(i)
		}
	}
	est, err := s.EstimateSubsetSum(2.0, func(i int) bool { return i%2 == 0 })
	if err != nil {
		t.Fatalf("EstimateSubsetSum: %v", err)
	}
	if est.Estimate != want || est.Lower != want || est.Upper != want {
		t.Fatalf("got %+v, want exact value %v (still in warmup)", est, want)
	}
}

func TestEstimateSubsetSum_BoundsAreOrdered(t *testing.T) {
	s, _ := New[int](20, WithSeed[int](11))
	for i := 0; i < 5000; i++ {
		_ = s.Update(i, float64(i%17+1))
	}
	est, err := s.EstimateSubsetSum(2.0, func(i int) bool { return i%3 == 0 })
	if err != nil {
		t.Fatalf("EstimateSubsetSum: %v", err)
	}
	if !(est.Lower <= est.Estimate && est.Estimate <= est.Upper) {
		t.Fatalf("bounds out of order: %+v", est)
	}
}

func TestEstimateSubsetSum_RejectsNegativeKappa(t *testing.T) {
	s, _ := New[int](8)
	_, err := s.EstimateSubsetSum(-1, func(int) bool { return true })
	if err == nil {
		t.Fatal("expected an error for negative kappa")
	}
}
