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

// Package family is the sketch family/version registry: every binary image
// stamps a family id in its preamble so a decoder can reject bytes that
// belong to an unrelated sketch before it even looks at the rest of the
// preamble.
package family

// Family identifies a sketch family for serialization purposes.
type Family struct {
	Id          int
	MaxPreLongs int
}

// Registry enumerates the families this module serializes.
var Registry = struct {
	VarOptItems Family
	VarOptUnion Family
}{
	VarOptItems: Family{
		Id:          17,
		MaxPreLongs: 5,
	},
	VarOptUnion: Family{
		Id:          18,
		MaxPreLongs: 1,
	},
}
