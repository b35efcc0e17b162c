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

// Package main implements varopt-sample, a small command that streams
// weighted items through a varopt.Sketch[string] and prints the retained
// sample and a subset-sum estimate.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	flag "github.com/spf13/pflag"

	"github.com/vsample/varopt"
	"github.com/vsample/varopt/serde"
	"github.com/vsample/varopt/wireformat"
)

type options struct {
	k            int
	resizeFactor varopt.ResizeFactor
	seedKey      string
	dedup        bool
	match        string
	synthetic    int
	dumpPath     string
}

const defaultK = 64

func run(in io.Reader, out, errOut io.Writer, args []string) int {
	if hasHelpFlag(args) {
		printHelp(out)
		return 0
	}

	opts, code := parseFlags(errOut, args)
	if code != 0 {
		return code
	}

	sketchOpts := []varopt.Option[string]{varopt.WithResizeFactor[string](opts.resizeFactor)}
	if opts.seedKey != "" {
		sketchOpts = append(sketchOpts, varopt.WithSeedKey[string](opts.seedKey))
	}

	s, err := varopt.New[string](opts.k, sketchOpts...)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	var seen map[uint64]bool
	if opts.dedup {
		seen = make(map[uint64]bool)
	}

	feed := func(item string, weight float64) error {
		if opts.dedup {
			h := xxhash.Sum64String(item)
			if seen[h] {
				return nil
			}
			seen[h] = true
		}
		return s.Update(item, weight)
	}

	if opts.synthetic > 0 {
		for i := 0; i < opts.synthetic; i++ {
			item := fmt.Sprintf("item-%d", i)
			weight := float64(i%97 + 1)
			if err := feed(item, weight); err != nil {
				fmt.Fprintln(errOut, "error:", err)
				return 1
			}
		}
	} else {
		scanner := bufio.NewScanner(in)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			item, weight, parseErr := parseLine(line)
			if parseErr != nil {
				fmt.Fprintf(errOut, "warning: line %d: %v\n", lineNo, parseErr)
				continue
			}
			if err := feed(item, weight); err != nil {
				fmt.Fprintf(errOut, "warning: line %d: %v\n", lineNo, err)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
	}

	printSample(out, s)

	if opts.match != "" {
		est, err := s.EstimateSubsetSum(2.0, func(item string) bool {
			return strings.Contains(item, opts.match)
		})
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
		fmt.Fprintf(out, "subset-sum estimate for %q: %.4f [%.4f, %.4f]\n", opts.match, est.Estimate, est.Lower, est.Upper)
	}

	if opts.dumpPath != "" {
		image, err := wireformat.Encode[string](s, serde.StringSerDe{})
		if err != nil {
			fmt.Fprintln(errOut, "error encoding sketch:", err)
			return 1
		}
		if err := os.WriteFile(opts.dumpPath, image, 0o644); err != nil {
			fmt.Fprintln(errOut, "error writing dump:", err)
			return 1
		}
	}

	return 0
}

func parseLine(line string) (string, float64, error) {
	idx := strings.LastIndexByte(line, ',')
	if idx < 0 {
		return "", 0, fmt.Errorf("expected \"item,weight\", got %q", line)
	}
	item := line[:idx]
	weight, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid weight in %q: %w", line, err)
	}
	return item, weight, nil
}

func printSample(out io.Writer, s *varopt.Sketch[string]) {
	fmt.Fprintf(out, "k=%d n=%d retained=%d\n", s.K(), s.N(), s.NumSamples())
	for sample := range s.All() {
		fmt.Fprintf(out, "%s\t%.6f\n", sample.Item, sample.Weight)
	}
}

func hasHelpFlag(args []string) bool {
	for _, a := range args {
		if a == "-h" || a == "--help" {
			return true
		}
	}
	return false
}

func parseFlags(errOut io.Writer, args []string) (options, int) {
	flagSet := flag.NewFlagSet("varopt-sample", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	k := flagSet.IntP("k", "k", defaultK, "target sample size")
	rfInt := flagSet.Int("resize-factor", 3, "array growth factor: 0=x1, 1=x2, 2=x4, 3=x8")
	seedKey := flagSet.String("seed-key", "", "derive deterministic randomness from this key")
	dedup := flagSet.Bool("dedup", false, "drop items already seen (by exact match)")
	match := flagSet.String("match", "", "substring predicate for a subset-sum estimate")
	synthetic := flagSet.Int("synthetic", 0, "generate N synthetic (item,weight) pairs instead of reading input")
	dumpPath := flagSet.String("dump", "", "write the encoded sketch to this path")

	if err := flagSet.Parse(args); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return options{}, 2
	}

	if *k < 2 {
		fmt.Fprintln(errOut, "error: --k must be at least 2")
		return options{}, 2
	}
	if *rfInt < 0 || *rfInt > 3 {
		fmt.Fprintln(errOut, "error: --resize-factor must be between 0 and 3")
		return options{}, 2
	}
	if *synthetic < 0 {
		fmt.Fprintln(errOut, "error: --synthetic must be non-negative")
		return options{}, 2
	}

	return options{
		k:            *k,
		resizeFactor: varopt.ResizeFactor(*rfInt),
		seedKey:      *seedKey,
		dedup:        *dedup,
		match:        *match,
		synthetic:    *synthetic,
		dumpPath:     *dumpPath,
	}, 0
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: varopt-sample [options] [file]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Streams \"item,weight\" lines (stdin or file) through a VarOpt sketch.")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Options:")
	fmt.Fprintln(out, "  -k, --k=N                target sample size [default: 64]")
	fmt.Fprintln(out, "  --resize-factor=N        array growth factor 0-3 [default: 3]")
	fmt.Fprintln(out, "  --seed-key=KEY           deterministic randomness from KEY")
	fmt.Fprintln(out, "  --dedup                  drop items already seen")
	fmt.Fprintln(out, "  --match=SUBSTR           print a subset-sum estimate for this substring")
	fmt.Fprintln(out, "  --synthetic=N            generate N synthetic pairs instead of reading input")
	fmt.Fprintln(out, "  --dump=PATH              write the encoded sketch to PATH")
}
