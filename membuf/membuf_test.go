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

package membuf

import "testing"

func TestRegion_PrimitiveRoundTrip(t *testing.T) {
	r := Wrap(make([]byte, 32))

	r.PutUint8(0, 0xAB)
	r.PutInt32(1, -12345)
	r.PutInt64(8, -9876543210)
	r.PutFloat64(16, 3.25)

	if got := r.Uint8(0); got != 0xAB {
		t.Errorf("Uint8 = %#x, want 0xAB", got)
	}
	if got := r.Int32(1); got != -12345 {
		t.Errorf("Int32 = %d, want -12345", got)
	}
	if got := r.Int64(8); got != -9876543210 {
		t.Errorf("Int64 = %d, want -9876543210", got)
	}
	if got := r.Float64(16); got != 3.25 {
		t.Errorf("Float64 = %v, want 3.25", got)
	}
}

func TestRegion_Slice(t *testing.T) {
	r := Wrap(make([]byte, 16))
	r.PutInt32(8, 42)

	sub, err := r.Slice(8, 8)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if got := sub.Int32(0); got != 42 {
		t.Errorf("sub.Int32(0) = %d, want 42", got)
	}

	sub.PutInt32(4, 7)
	if got := r.Int32(12); got != 7 {
		t.Errorf("writing through a Slice view did not propagate: r.Int32(12) = %d, want 7", got)
	}
}

func TestRegion_SliceOutOfBounds(t *testing.T) {
	r := Wrap(make([]byte, 8))
	if _, err := r.Slice(4, 8); err == nil {
		t.Error("expected an error slicing past the end of the region")
	}
	if _, err := r.Slice(-1, 4); err == nil {
		t.Error("expected an error for a negative offset")
	}
}
