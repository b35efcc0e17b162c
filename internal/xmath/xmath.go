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

// Package xmath holds the small numeric helpers shared by the sampling
// packages: power-of-two sizing for array growth and a generic nil check
// for skipping null stream items.
package xmath

import (
	"fmt"
	"math"
	"math/bits"
	"reflect"
)

// CeilPowerOf2 returns the smallest power of 2 greater than or equal to n.
func CeilPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	topIntPwrOf2 := 1 << 30
	if n >= topIntPwrOf2 {
		return topIntPwrOf2
	}
	return int(math.Pow(2, math.Ceil(math.Log2(float64(n)))))
}

// IsPowerOf2 reports whether n is a positive power of 2.
func IsPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// ExactLog2 returns log2(powerOf2), failing if powerOf2 is not a positive
// power of 2.
func ExactLog2(powerOf2 int) (int, error) {
	if !IsPowerOf2(powerOf2) {
		return 0, fmt.Errorf("argument must be a positive power of 2, got %d", powerOf2)
	}
	return bits.TrailingZeros64(uint64(powerOf2)), nil
}

// BoolToInt returns 1 for true, 0 for false.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// IsNil reports whether a generic value of nillable kind (pointer,
// interface, slice, map, chan, func) is nil. Non-nillable kinds (e.g. int,
// string, struct) always report false, matching the Go notion that a value
// type can never be "the null item."
func IsNil[T any](t T) bool {
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Invalid:
		// a completely untyped nil, e.g. T is an interface type and the
		// caller passed literal nil with no concrete dynamic type.
		return true
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}
