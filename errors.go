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

import "errors"

// Sentinel error kinds. Callers distinguish them with errors.Is; the
// wrapped message carries the situational detail.
var (
	// ErrInvalidArgument covers constructor and range-check failures, e.g.
	// k < 2.
	ErrInvalidArgument = errors.New("varopt: invalid argument")

	// ErrInvalidWeight is returned by Update when weight <= 0.
	ErrInvalidWeight = errors.New("varopt: invalid weight")

	// ErrCorruption is returned by wireformat decoding when a binary image
	// fails preamble validation.
	ErrCorruption = errors.New("varopt: corrupt image")

	// ErrUnsupportedVersion is returned when a binary image's serialization
	// version does not match what this module can read.
	ErrUnsupportedVersion = errors.New("varopt: unsupported version")
)
