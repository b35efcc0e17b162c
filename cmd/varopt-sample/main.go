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

package main

import (
	"os"
)

func main() {
	var in *os.File = os.Stdin
	args := os.Args[1:]

	// A trailing positional argument names an input file in place of stdin.
	if n := len(args); n > 0 && args[n-1][0] != '-' {
		f, err := os.Open(args[n-1])
		if err == nil {
			in = f
			args = args[:n-1]
			defer f.Close()
		}
	}

	os.Exit(run(in, os.Stdout, os.Stderr, args))
}
