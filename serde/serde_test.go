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

package serde

import "testing"

func TestNumericSerDe_Int64RoundTrip(t *testing.T) {
	sd := NewNumericSerDe[int64](8)
	items := []int64{0, 1, -1, 1 << 40, -(1 << 40)}

	buf := sd.SerializeToBytes(items)
	if len(buf) != len(items)*8 {
		t.Fatalf("len(buf) = %d, want %d", len(buf), len(items)*8)
	}

	got, err := sd.DeserializeFromBytes(buf, len(items))
	if err != nil {
		t.Fatalf("DeserializeFromBytes: %v", err)
	}
	for i := range items {
		if got[i] != items[i] {
			t.Errorf("item %d: got %d, want %d", i, got[i], items[i])
		}
	}
}

func TestNumericSerDe_Float64RoundTrip(t *testing.T) {
	sd := NewNumericSerDe[float64](8)
	items := []float64{0, 1.5, -2.25, 1e300, -1e-300}

	buf := sd.SerializeToBytes(items)
	got, err := sd.DeserializeFromBytes(buf, len(items))
	if err != nil {
		t.Fatalf("DeserializeFromBytes: %v", err)
	}
	for i := range items {
		if got[i] != items[i] {
			t.Errorf("item %d: got %v, want %v", i, got[i], items[i])
		}
	}
}

func TestNumericSerDe_Int32RoundTrip(t *testing.T) {
	sd := NewNumericSerDe[int32](4)
	items := []int32{0, 1, -1, 1 << 20, -(1 << 20)}

	buf := sd.SerializeToBytes(items)
	if len(buf) != len(items)*4 {
		t.Fatalf("len(buf) = %d, want %d", len(buf), len(items)*4)
	}
	got, err := sd.DeserializeFromBytes(buf, len(items))
	if err != nil {
		t.Fatalf("DeserializeFromBytes: %v", err)
	}
	for i := range items {
		if got[i] != items[i] {
			t.Errorf("item %d: got %d, want %d", i, got[i], items[i])
		}
	}
}

func TestNumericSerDe_RejectsShortBuffer(t *testing.T) {
	sd := NewNumericSerDe[int64](8)
	if _, err := sd.DeserializeFromBytes(make([]byte, 4), 1); err == nil {
		t.Error("expected an error deserializing from a too-short buffer")
	}
}

func TestStringSerDe_RoundTrip(t *testing.T) {
	var sd StringSerDe
	items := []string{"", "a", "hello world", "\x00\x01binary"}

	buf := sd.SerializeToBytes(items)
	got, err := sd.DeserializeFromBytes(buf, len(items))
	if err != nil {
		t.Fatalf("DeserializeFromBytes: %v", err)
	}
	for i := range items {
		if got[i] != items[i] {
			t.Errorf("item %d: got %q, want %q", i, got[i], items[i])
		}
	}
}

func TestStringSerDe_SizeOfItemIsVariable(t *testing.T) {
	var sd StringSerDe
	if sd.SizeOfItem() != -1 {
		t.Errorf("SizeOfItem() = %d, want -1", sd.SizeOfItem())
	}
}
