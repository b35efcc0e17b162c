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

// Package serde provides item serializers for the binary wire format: a
// built-in SerDe for every fixed-width numeric type plus strings, and the
// ItemSerDe interface a caller implements for anything else.
package serde

import (
	"encoding/binary"
	"errors"
	"math"

	"golang.org/x/exp/constraints"
)

// ItemSerDe converts a slice of items to and from bytes for wire-format
// encoding. SizeOfItem returns -1 for variable-length items (e.g. strings);
// fixed-width SerDes return the constant per-item byte count.
type ItemSerDe[T any] interface {
	SerializeToBytes(items []T) []byte
	DeserializeFromBytes(data []byte, numItems int) ([]T, error)
	SizeOfItem() int
}

// NumericSerDe serializes any fixed-width ordered numeric type as
// little-endian bytes, generically over the constraints.Integer/Float type
// sets. One implementation replaces what would otherwise be a hand-written
// SerDe per numeric type.
type NumericSerDe[T constraints.Integer | constraints.Float] struct {
	width int
}

// NewNumericSerDe builds a NumericSerDe for T, with width bytes per item
// (8 for int64/float64/uint64, 4 for int32/float32/uint32, and so on).
func NewNumericSerDe[T constraints.Integer | constraints.Float](width int) NumericSerDe[T] {
	return NumericSerDe[T]{width: width}
}

func (s NumericSerDe[T]) SizeOfItem() int { return s.width }

func (s NumericSerDe[T]) SerializeToBytes(items []T) []byte {
	buf := make([]byte, len(items)*s.width)
	for i, v := range items {
		s.putAt(buf[i*s.width:], v)
	}
	return buf
}

func (s NumericSerDe[T]) DeserializeFromBytes(data []byte, numItems int) ([]T, error) {
	if len(data) < numItems*s.width {
		return nil, errors.New("serde: data too short for numeric deserialization")
	}
	items := make([]T, numItems)
	for i := range items {
		items[i] = s.readAt(data[i*s.width:])
	}
	return items, nil
}

func (s NumericSerDe[T]) putAt(buf []byte, v T) {
	switch s.width {
	case 1:
		buf[0] = byte(anyToUint64(v))
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(anyToUint64(v)))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(anyToUint64(v)))
	case 8:
		binary.LittleEndian.PutUint64(buf, anyToUint64(v))
	}
}

func (s NumericSerDe[T]) readAt(buf []byte) T {
	switch s.width {
	case 1:
		return uint64ToAny[T](uint64(buf[0]))
	case 2:
		return uint64ToAny[T](uint64(binary.LittleEndian.Uint16(buf)))
	case 4:
		return uint64ToAny[T](uint64(binary.LittleEndian.Uint32(buf)))
	default:
		return uint64ToAny[T](binary.LittleEndian.Uint64(buf))
	}
}

// anyToUint64 reinterprets v's bits for storage; floats go through the IEEE
// 754 bit pattern so a round trip is exact.
func anyToUint64[T constraints.Integer | constraints.Float](v T) uint64 {
	switch x := any(v).(type) {
	case float64:
		return math.Float64bits(x)
	case float32:
		return uint64(math.Float32bits(x))
	default:
		return uint64(v)
	}
}

func uint64ToAny[T constraints.Integer | constraints.Float](bits uint64) T {
	var zero T
	switch any(zero).(type) {
	case float64:
		return any(math.Float64frombits(bits)).(T)
	case float32:
		return any(math.Float32frombits(uint32(bits))).(T)
	default:
		return T(bits)
	}
}

// StringSerDe serializes strings as a 4-byte little-endian length prefix
// followed by the raw bytes.
type StringSerDe struct{}

func (StringSerDe) SizeOfItem() int { return -1 }

func (StringSerDe) SerializeToBytes(items []string) []byte {
	total := 0
	for _, str := range items {
		total += 4 + len(str)
	}
	buf := make([]byte, total)
	offset := 0
	for _, str := range items {
		binary.LittleEndian.PutUint32(buf[offset:], uint32(len(str)))
		offset += 4
		offset += copy(buf[offset:], str)
	}
	return buf
}

func (StringSerDe) DeserializeFromBytes(data []byte, numItems int) ([]string, error) {
	items := make([]string, numItems)
	offset := 0
	for i := range items {
		if offset+4 > len(data) {
			return nil, errors.New("serde: data too short for string length prefix")
		}
		length := int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4
		if offset+length > len(data) {
			return nil, errors.New("serde: data too short for string content")
		}
		items[i] = string(data[offset : offset+length])
		offset += length
	}
	return items, nil
}
