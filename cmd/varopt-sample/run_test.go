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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_SyntheticProducesBoundedSample(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(strings.NewReader(""), &out, &errOut, []string{"--k=5", "--synthetic=500"})
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "k=5") {
		t.Errorf("expected output to report k=5, got: %s", out.String())
	}
}

func TestRun_ReadsItemWeightPairsFromInput(t *testing.T) {
	input := "apple,3\nbanana,7\ncherry,1\n"
	var out, errOut bytes.Buffer
	code := run(strings.NewReader(input), &out, &errOut, []string{"--k=10"})
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, errOut.String())
	}
	for _, want := range []string{"apple", "banana", "cherry"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected output to contain %q, got: %s", want, out.String())
		}
	}
}

func TestRun_SkipsMalformedLinesWithWarning(t *testing.T) {
	input := "good,2\nmalformed-line\nalsogood,4\n"
	var out, errOut bytes.Buffer
	code := run(strings.NewReader(input), &out, &errOut, []string{"--k=10"})
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, errOut.String())
	}
	if !strings.Contains(errOut.String(), "line 2") {
		t.Errorf("expected a warning about line 2, got: %s", errOut.String())
	}
	if !strings.Contains(out.String(), "good") || !strings.Contains(out.String(), "alsogood") {
		t.Errorf("expected both valid lines to be retained, got: %s", out.String())
	}
}

func TestRun_DedupDropsRepeatedItems(t *testing.T) {
	input := "same,1\nsame,1\nsame,1\nother,1\n"
	var out, errOut bytes.Buffer
	code := run(strings.NewReader(input), &out, &errOut, []string{"--k=10", "--dedup"})
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "retained=2") {
		t.Errorf("expected exactly 2 retained items after dedup, got: %s", out.String())
	}
}

func TestRun_MatchPrintsSubsetSumEstimate(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(strings.NewReader(""), &out, &errOut, []string{"--k=20", "--synthetic=2000", "--match=item-1"})
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "subset-sum estimate") {
		t.Errorf("expected a subset-sum estimate line, got: %s", out.String())
	}
}

func TestRun_RejectsInvalidK(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(strings.NewReader(""), &out, &errOut, []string{"--k=1"})
	if code == 0 {
		t.Error("expected a non-zero exit code for --k=1")
	}
}

func TestRun_RejectsResizeFactorOutOfRange(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(strings.NewReader(""), &out, &errOut, []string{"--resize-factor=9"})
	if code == 0 {
		t.Error("expected a non-zero exit code for an out-of-range resize factor")
	}
}

func TestRun_SeedKeyIsDeterministic(t *testing.T) {
	input := strings.Repeat("x,1\ny,2\nz,3\n", 200)

	var out1, errOut1 bytes.Buffer
	code1 := run(strings.NewReader(input), &out1, &errOut1, []string{"--k=5", "--seed-key=fixed"})
	var out2, errOut2 bytes.Buffer
	code2 := run(strings.NewReader(input), &out2, &errOut2, []string{"--k=5", "--seed-key=fixed"})

	if code1 != 0 || code2 != 0 {
		t.Fatalf("run() codes = %d, %d", code1, code2)
	}
	if out1.String() != out2.String() {
		t.Error("expected identical output for identical --seed-key runs")
	}
}

func TestRun_DumpWritesAnImageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sketch.bin")

	var out, errOut bytes.Buffer
	code := run(strings.NewReader(""), &out, &errOut, []string{"--k=5", "--synthetic=50", "--dump=" + path})
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, errOut.String())
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected a dump file at %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty dump file")
	}
}

func TestRun_HelpFlagPrintsUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(strings.NewReader(""), &out, &errOut, []string{"--help"})
	if code != 0 {
		t.Fatalf("run() = %d, stderr: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Errorf("expected usage text, got: %s", out.String())
	}
}
