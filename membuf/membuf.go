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

// Package membuf wraps a byte slice with little-endian primitive accessors,
// so wireformat doesn't repeat encoding/binary calls at hand-tracked
// offsets throughout its encode/decode functions.
package membuf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Region is a byte-addressable view over a slice. A Region never copies on
// construction or on Slice; callers that need an independent copy must copy
// the backing buf themselves.
type Region struct {
	buf []byte
}

// Wrap returns a Region backed directly by b.
func Wrap(b []byte) Region {
	return Region{buf: b}
}

// Bytes returns the Region's backing slice.
func (r Region) Bytes() []byte { return r.buf }

// Len returns the number of addressable bytes.
func (r Region) Len() int { return len(r.buf) }

func (r Region) checkBounds(off, width int) error {
	if off < 0 || width < 0 || off+width > len(r.buf) {
		return fmt.Errorf("membuf: offset %d width %d out of bounds for region of length %d", off, width, len(r.buf))
	}
	return nil
}

func (r Region) Uint8(off int) uint8 {
	return r.buf[off]
}

func (r Region) PutUint8(off int, v uint8) {
	r.buf[off] = v
}

func (r Region) Int32(off int) int32 {
	return int32(binary.LittleEndian.Uint32(r.buf[off:]))
}

func (r Region) PutInt32(off int, v int32) {
	binary.LittleEndian.PutUint32(r.buf[off:], uint32(v))
}

func (r Region) Int64(off int) int64 {
	return int64(binary.LittleEndian.Uint64(r.buf[off:]))
}

func (r Region) PutInt64(off int, v int64) {
	binary.LittleEndian.PutUint64(r.buf[off:], uint64(v))
}

func (r Region) Float64(off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(r.buf[off:]))
}

func (r Region) PutFloat64(off int, v float64) {
	binary.LittleEndian.PutUint64(r.buf[off:], math.Float64bits(v))
}

// Slice returns a sub-range view sharing the same backing array, erroring
// if [off, off+length) falls outside the Region.
func (r Region) Slice(off, length int) (Region, error) {
	if err := r.checkBounds(off, length); err != nil {
		return Region{}, err
	}
	return Region{buf: r.buf[off : off+length]}, nil
}
