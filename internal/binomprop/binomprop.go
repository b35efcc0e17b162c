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

// Package binomprop approximates a Clopper-Pearson confidence interval for
// a binomial proportion, via Abramowitz & Stegun formula 26.5.22 (an
// approximation of the inverse incomplete beta function). It backs
// subset-sum estimation over a sample: n trials, k of which matched a
// predicate, yields a [lower, upper] bound on the true matching fraction.
package binomprop

import (
	"fmt"
	"math"
)

// LowerBound returns the lower bound on the true success proportion p, given
// n trials, k observed successes, and a confidence expressed as a number of
// standard deviations (kappa) of a standard normal distribution.
func LowerBound(n, k uint64, kappa float64) (float64, error) {
	if err := checkTrial(n, k); err != nil {
		return 0, err
	}
	switch {
	case n == 0, k == 0:
		return 0, nil
	case k == 1:
		return exactLowerAtKEq1(n, tailProbability(kappa)), nil
	case k == n:
		return exactLowerAtKEqN(n, tailProbability(kappa)), nil
	default:
		x := inverseBetaApprox(float64((n-k)+1), float64(k), -kappa)
		return 1.0 - x, nil
	}
}

// UpperBound returns the upper bound on the true success proportion p, given
// n trials, k observed successes, and a confidence expressed as a number of
// standard deviations (kappa).
func UpperBound(n, k uint64, kappa float64) (float64, error) {
	if err := checkTrial(n, k); err != nil {
		return 0, err
	}
	switch {
	case n == 0, k == n:
		return 1, nil
	case k == n-1:
		return exactUpperAtKEqNMinus1(n, tailProbability(kappa)), nil
	case k == 0:
		return exactUpperAtKEq0(n, tailProbability(kappa)), nil
	default:
		x := inverseBetaApprox(float64(n-k), float64(k+1), kappa)
		return 1.0 - x, nil
	}
}

func checkTrial(n, k uint64) error {
	if k > n {
		return fmt.Errorf("binomprop: k cannot exceed n (n=%d, k=%d)", n, k)
	}
	return nil
}

func tailProbability(kappa float64) float64 {
	return normalCDF(-kappa)
}

func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + erf(x/math.Sqrt2))
}

// erf approximates the error function to roughly 7 decimal digits, via
// Abramowitz & Stegun formula 7.1.28.
func erf(x float64) float64 {
	if x < 0 {
		return -erfNonNeg(-x)
	}
	return erfNonNeg(x)
}

func erfNonNeg(x float64) float64 {
	const (
		a1 = 0.0705230784
		a2 = 0.0422820123
		a3 = 0.0092705272
		a4 = 0.0001520143
		a5 = 0.0002765672
		a6 = 0.0000430638
	)
	x2 := x * x
	x3 := x2 * x
	x4 := x2 * x2
	x5 := x2 * x3
	x6 := x3 * x3
	sum := 1.0 + a1*x + a2*x2 + a3*x3 + a4*x4 + a5*x5 + a6*x6
	sum2 := sum * sum
	sum4 := sum2 * sum2
	sum8 := sum4 * sum4
	sum16 := sum8 * sum8
	return 1.0 - 1.0/sum16
}

// inverseBetaApprox approximates the x for which the regularized incomplete
// beta function I_x(a, b) equals the tail probability implied by yp
// standard deviations. a and b follow the naming of Abramowitz & Stegun so
// the formula can be checked directly against the source text.
func inverseBetaApprox(a, b, yp float64) float64 {
	b2m1 := 2.0*b - 1.0
	a2m1 := 2.0*a - 1.0
	lambda := (yp*yp - 3.0) / 6.0
	h := 2.0 / (1.0/a2m1 + 1.0/b2m1)
	term1 := (yp * math.Sqrt(h+lambda)) / h
	term2 := 1.0/b2m1 - 1.0/a2m1
	term3 := (lambda + 5.0/6.0) - 2.0/(3.0*h)
	w := term1 - term2*term3
	return a / (a + b*math.Exp(2.0*w))
}

func exactUpperAtKEq0(n uint64, delta float64) float64 {
	return 1.0 - math.Pow(delta, 1.0/float64(n))
}

func exactLowerAtKEqN(n uint64, delta float64) float64 {
	return math.Pow(delta, 1.0/float64(n))
}

func exactLowerAtKEq1(n uint64, delta float64) float64 {
	return 1.0 - math.Pow(1.0-delta, 1.0/float64(n))
}

func exactUpperAtKEqNMinus1(n uint64, delta float64) float64 {
	return math.Pow(1.0-delta, 1.0/float64(n))
}
