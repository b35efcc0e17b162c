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

// Package varoptunion merges independently maintained varopt.Sketch values
// (e.g. one per shard) into a single sketch of bounded size, without ever
// requiring one combined stream to pass through a single sketch.
package varoptunion

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vsample/varopt"
)

// Union accumulates sketches into a single gadget sketch of size maxK.
// Not safe for concurrent use; callers merging concurrently should shard
// Unions and combine the results with MergeAll.
type Union[T any] struct {
	maxK   int
	opts   []varopt.Option[T]
	gadget *varopt.Sketch[T]
}

// New constructs an empty union with the given maximum sample size.
func New[T any](maxK int, opts ...varopt.Option[T]) (*Union[T], error) {
	if maxK < 2 {
		return nil, fmt.Errorf("%w: maxK must be at least 2, got %d", varopt.ErrInvalidArgument, maxK)
	}
	return &Union[T]{maxK: maxK, opts: opts}, nil
}

// MaxK returns the union's configured sample size ceiling.
func (u *Union[T]) MaxK() int { return u.maxK }

// UpdateSketch merges s into the union. s is read, never mutated.
func (u *Union[T]) UpdateSketch(s *varopt.Sketch[T]) error {
	if s == nil || s.IsEmpty() {
		return nil
	}
	if s.K() > u.maxK {
		return fmt.Errorf("%w: source K() = %d exceeds union maxK = %d", varopt.ErrInvalidArgument, s.K(), u.maxK)
	}

	if u.gadget == nil {
		g, err := varopt.New[T](u.maxK, u.opts...)
		if err != nil {
			return err
		}
		u.gadget = g
		return replayInto(u.gadget, s)
	}

	// Replay whichever side holds fewer retained samples into the other,
	// bounding the replay cost to the smaller side. When the incoming
	// sketch dominates, rebuild a fresh gadget around it rather than
	// diluting its information through the smaller one.
	if s.NumSamples() <= u.gadget.NumSamples() {
		return replayInto(u.gadget, s)
	}

	g, err := varopt.New[T](u.maxK, u.opts...)
	if err != nil {
		return err
	}
	if err := replayInto(g, s); err != nil {
		return err
	}
	if err := replayInto(g, u.gadget); err != nil {
		return err
	}
	u.gadget = g
	return nil
}

// replayInto feeds every retained sample of src through dst's own Update,
// at src's already-adjusted weight. Update's weighted-reservoir acceptance
// test is what makes this a valid merge: unlike unweighted reservoir
// sampling, it doesn't need a separate probability-rescaling step for a
// sketch that is past warmup.
func replayInto[T any](dst, src *varopt.Sketch[T]) error {
	for sample := range src.All() {
		if err := dst.Update(sample.Item, sample.Weight); err != nil {
			return err
		}
	}
	return nil
}

// Result returns an independent copy of the union's current sketch. An
// empty union (no sketches merged yet) returns a fresh, empty sketch of
// size maxK.
func (u *Union[T]) Result() (*varopt.Sketch[T], error) {
	if u.gadget == nil {
		return varopt.New[T](u.maxK, u.opts...)
	}
	return u.gadget.Clone(), nil
}

// Reset clears the union back to empty.
func (u *Union[T]) Reset() {
	u.gadget = nil
}

// MergeAll merges sketches pairwise in parallel via errgroup, halving the
// work list on each round until one sketch remains, and returns it. Each
// pairwise merge in a round is independent and writes only its own result
// slot.
func MergeAll[T any](maxK int, sketches []*varopt.Sketch[T], opts ...varopt.Option[T]) (*varopt.Sketch[T], error) {
	live := make([]*varopt.Sketch[T], 0, len(sketches))
	for _, s := range sketches {
		if s != nil && !s.IsEmpty() {
			live = append(live, s)
		}
	}
	if len(live) == 0 {
		return varopt.New[T](maxK, opts...)
	}

	for len(live) > 1 {
		next := make([]*varopt.Sketch[T], (len(live)+1)/2)
		g, _ := errgroup.WithContext(context.Background())
		for i := range next {
			i := i
			g.Go(func() error {
				u, err := New[T](maxK, opts...)
				if err != nil {
					return err
				}
				if err := u.UpdateSketch(live[2*i]); err != nil {
					return err
				}
				if 2*i+1 < len(live) {
					if err := u.UpdateSketch(live[2*i+1]); err != nil {
						return err
					}
				}
				result, err := u.Result()
				if err != nil {
					return err
				}
				next[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		live = next
	}
	return live[0], nil
}
