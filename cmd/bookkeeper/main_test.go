/*
 * Copyright 2025 the bookkeeper authors.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
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

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"12", 1200},
		{"12.5", 1250},
		{"12.50", 1250},
		{"0.05", 5},
		{"-3.25", -325},
		{"0", 0},
	}
	for _, c := range cases {
		got, err := parseAmount(c.in)
		if err != nil {
			t.Errorf("parseAmount(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseAmount(%q): expected %d, got %d", c.in, c.want, got)
		}
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "12.345", "1,50"} {
		if _, err := parseAmount(in); err == nil {
			t.Errorf("parseAmount(%q): expected an error", in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		1250: "12.50",
		5:    "0.05",
		0:    "0.00",
		-325: "-3.25",
	}
	for in, want := range cases {
		if got := formatAmount(in); got != want {
			t.Errorf("formatAmount(%d): expected %q, got %q", in, want, got)
		}
	}
}
