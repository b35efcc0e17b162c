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

// Package wireformat encodes and decodes a varopt.Sketch as a binary
// image: a fixed preamble of 8-byte longs, followed by the H-region item
// weights, followed by H-region then R-region item bytes (via an injected
// serde.ItemSerDe).
package wireformat

import (
	"fmt"

	"github.com/vsample/varopt"
	"github.com/vsample/varopt/internal/family"
	"github.com/vsample/varopt/membuf"
	"github.com/vsample/varopt/serde"
)

// Preamble longs: long0 is always present. preLongsEmpty adds just k.
// preLongsNoR/Full add hCount/rCount and n; Full additionally carries
// totalWeightR for the R region.
const (
	preLongsEmpty  = 2
	preLongsNoR    = 4
	preLongsFull   = 5
	serVer         = 1
	flagEmptyBit   = 0x01
)

func encodeResizeFactor(rf varopt.ResizeFactor) (byte, error) {
	switch rf {
	case varopt.ResizeX1:
		return 0x00, nil
	case varopt.ResizeX2:
		return 0x01, nil
	case varopt.ResizeX4:
		return 0x02, nil
	case varopt.ResizeX8:
		return 0x03, nil
	default:
		return 0, fmt.Errorf("%w: unsupported resize factor %d", varopt.ErrInvalidArgument, rf)
	}
}

func decodeResizeFactor(bits byte) (varopt.ResizeFactor, error) {
	switch bits {
	case 0x00:
		return varopt.ResizeX1, nil
	case 0x01:
		return varopt.ResizeX2, nil
	case 0x02:
		return varopt.ResizeX4, nil
	case 0x03:
		return varopt.ResizeX8, nil
	default:
		return 0, fmt.Errorf("%w: invalid resize factor bits %#x", varopt.ErrCorruption, bits)
	}
}

func writeLong0(r membuf.Region, preLongs int, flags byte, rfBits byte) {
	r.PutUint8(0, byte(preLongs))
	r.PutUint8(1, serVer)
	r.PutUint8(2, byte(family.Registry.VarOptItems.Id))
	r.PutUint8(3, flags)
	r.PutUint8(4, rfBits)
}

// Encode serializes s into a binary image using itemSerDe for item bytes.
func Encode[T any](s *varopt.Sketch[T], itemSerDe serde.ItemSerDe[T]) ([]byte, error) {
	rfBits, err := encodeResizeFactor(s.ResizeFactor())
	if err != nil {
		return nil, err
	}

	if s.IsEmpty() {
		buf := make([]byte, 8*preLongsEmpty)
		r := membuf.Wrap(buf)
		writeLong0(r, preLongsEmpty, flagEmptyBit, rfBits)
		r.PutInt32(8, int32(s.K()))
		return buf, nil
	}

	samples := s.Samples()
	hCount := s.H()
	rCount := s.R()

	preLongs := preLongsNoR
	if rCount > 0 {
		preLongs = preLongsFull
	}
	headerLen := 8 * preLongs

	hItems := make([]T, hCount)
	hWeights := make([]float64, hCount)
	for i := 0; i < hCount; i++ {
		hItems[i] = samples[i].Item
		hWeights[i] = samples[i].Weight
	}
	rItems := make([]T, rCount)
	for i := 0; i < rCount; i++ {
		rItems[i] = samples[hCount+i].Item
	}

	weightsLen := hCount * 8
	itemBytes := itemSerDe.SerializeToBytes(append(hItems, rItems...))

	buf := make([]byte, headerLen+weightsLen+len(itemBytes))
	r := membuf.Wrap(buf)
	writeLong0(r, preLongs, 0, rfBits)
	r.PutInt32(8, int32(s.K()))
	r.PutInt32(12, int32(hCount))
	r.PutInt32(16, int32(rCount))
	r.PutInt64(24, s.N())
	if preLongs == preLongsFull {
		r.PutFloat64(32, s.TotalWeightR())
	}

	weights, err := r.Slice(headerLen, weightsLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", varopt.ErrInvalidArgument, err)
	}
	for i, w := range hWeights {
		weights.PutFloat64(i*8, w)
	}
	copy(buf[headerLen+weightsLen:], itemBytes)
	return buf, nil
}

// Decode reconstructs a Sketch[T] from a binary image produced by Encode,
// validating the preamble before trusting any of it.
func Decode[T any](data []byte, itemSerDe serde.ItemSerDe[T], opts ...varopt.Option[T]) (*varopt.Sketch[T], error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: image shorter than one preamble long", varopt.ErrCorruption)
	}
	r := membuf.Wrap(data)

	preLongs := int(r.Uint8(0))
	if preLongs != preLongsEmpty && preLongs != preLongsNoR && preLongs != preLongsFull {
		return nil, fmt.Errorf("%w: preLongs = %d is not a recognized preamble length", varopt.ErrCorruption, preLongs)
	}
	if got := r.Uint8(1); got != serVer {
		return nil, fmt.Errorf("%w: serVer = %d, this module reads %d", varopt.ErrUnsupportedVersion, got, serVer)
	}
	if got := int(r.Uint8(2)); got != family.Registry.VarOptItems.Id {
		return nil, fmt.Errorf("%w: familyId = %d, expected %d", varopt.ErrCorruption, got, family.Registry.VarOptItems.Id)
	}

	headerLen := 8 * preLongs
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: image too short for a %d-long preamble", varopt.ErrCorruption, preLongs)
	}

	rf, err := decodeResizeFactor(r.Uint8(4))
	if err != nil {
		return nil, err
	}

	if preLongs == preLongsEmpty {
		k := int(r.Int32(8))
		return varopt.New[T](k, append(append([]varopt.Option[T]{}, opts...), varopt.WithResizeFactor[T](rf))...)
	}

	k := int(r.Int32(8))
	hCount := int(r.Int32(12))
	rCount := int(r.Int32(16))
	n := r.Int64(24)

	if rCount > 0 && preLongs != preLongsFull {
		return nil, fmt.Errorf("%w: rCount = %d > 0 requires a %d-long preamble, got %d", varopt.ErrCorruption, rCount, preLongsFull, preLongs)
	}
	if preLongs == preLongsFull && rCount <= 0 {
		return nil, fmt.Errorf("%w: a %d-long preamble requires rCount > 0, got %d", varopt.ErrCorruption, preLongsFull, rCount)
	}

	var totalWeightR float64
	if preLongs == preLongsFull {
		totalWeightR = r.Float64(32)
	}

	weightsLen := hCount * 8
	if len(data) < headerLen+weightsLen {
		return nil, fmt.Errorf("%w: image too short for %d H-region weights", varopt.ErrCorruption, hCount)
	}
	weightsRegion, err := r.Slice(headerLen, weightsLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", varopt.ErrCorruption, err)
	}
	hWeights := make([]float64, hCount)
	for i := range hWeights {
		hWeights[i] = weightsRegion.Float64(i * 8)
	}

	itemsStart := headerLen + weightsLen
	items, err := itemSerDe.DeserializeFromBytes(data[itemsStart:], hCount+rCount)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding items: %v", varopt.ErrCorruption, err)
	}
	hItems := items[:hCount]
	rItems := items[hCount:]

	allOpts := append(append([]varopt.Option[T]{}, opts...), varopt.WithResizeFactor[T](rf))
	return varopt.FromParts[T](k, n, hItems, hWeights, rItems, totalWeightR, allOpts...)
}
