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

	"github.com/vsample/varopt/internal/binomprop"
)

// SubsetSumEstimate bounds the true sum, over the full stream, of weights
// belonging to items matching some predicate: a point estimate plus a
// [Lower, Upper] confidence interval at the requested number of standard
// deviations.
type SubsetSumEstimate struct {
	Estimate float64
	Lower    float64
	Upper    float64
}

// EstimateSubsetSum estimates the total weight of items satisfying match,
// from the current sample alone. H-region items are exact (every H item is
// counted with its own weight); R-region items contribute a
// Clopper-Pearson-bounded fraction of totalWeightR, since which R items
// would have been retained under a different predicate is itself uncertain.
//
// kappa is the number of standard deviations of confidence to use for the
// R-region bound (2 is a common choice, roughly 95%).
func (s *Sketch[T]) EstimateSubsetSum(kappa float64, match func(T) bool) (SubsetSumEstimate, error) {
	if kappa < 0 {
		return SubsetSumEstimate{}, fmt.Errorf("%w: kappa must be non-negative, got %v", ErrInvalidArgument, kappa)
	}

	var hSum float64
	for i := 0; i < s.h; i++ {
		if match(s.data[i]) {
			hSum += s.weights[i]
		}
	}

	if s.r == 0 {
		return SubsetSumEstimate{Estimate: hSum, Lower: hSum, Upper: hSum}, nil
	}

	var rMatches uint64
	// At rest R occupies [h+1, h+1+r); slot h is an empty gap.
	rStart := s.h + 1
	for i := 0; i < s.r; i++ {
		if match(s.data[rStart+i]) {
			rMatches++
		}
	}

	n := uint64(s.r)
	lowerFrac, err := binomprop.LowerBound(n, rMatches, kappa)
	if err != nil {
		return SubsetSumEstimate{}, fmt.Errorf("varopt: estimating subset sum: %w", err)
	}
	upperFrac, err := binomprop.UpperBound(n, rMatches, kappa)
	if err != nil {
		return SubsetSumEstimate{}, fmt.Errorf("varopt: estimating subset sum: %w", err)
	}

	pointFrac := float64(rMatches) / float64(n)

	return SubsetSumEstimate{
		Estimate: hSum + pointFrac*s.totalWeightR,
		Lower:    hSum + lowerFrac*s.totalWeightR,
		Upper:    hSum + upperFrac*s.totalWeightR,
	}, nil
}
