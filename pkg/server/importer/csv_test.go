/* Copyright 2025 Pagemark Authors
 *
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

package importer

import (
	"strings"
	"testing"

	"github.com/pagemark/pagemark/pkg/assert"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected [][]string
	}{
		{
			name:     "quoted comma",
			input:    `a,"b,c",d`,
			expected: [][]string{{"a", "b,c", "d"}},
		},
		{
			name:     "escaped quote",
			input:    `a,"b""c",d`,
			expected: [][]string{{"a", `b"c`, "d"}},
		},
		{
			name:     "whitespace is trimmed",
			input:    "  a ,\t b  ,c ",
			expected: [][]string{{"a", "b", "c"}},
		},
		{
			name:     "line endings",
			input:    "a,b\r\nc,d\re,f\ng,h",
			expected: [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}, {"g", "h"}},
		},
		{
			name:     "empty rows and rows with an empty first field are dropped",
			input:    "a,b\n\n,x\n  \nc,d\n",
			expected: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:     "unterminated quote runs to the end of the line",
			input:    "a,\"b,c\nd,e",
			expected: [][]string{{"a", "b,c"}, {"d", "e"}},
		},
		{
			name:     "empty quoted field",
			input:    `a,"",b`,
			expected: [][]string{{"a", "", "b"}},
		},
		{
			name:     "trailing empty field",
			input:    "a,b,",
			expected: [][]string{{"a", "b", ""}},
		},
		{
			name:     "empty input",
			input:    "",
			expected: [][]string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.DeepEqual(t, Tokenize(tc.input), tc.expected, "rows mismatch")
		})
	}
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"with bom", "\xef\xbb\xbftitle,author", "title,author"},
		{"without bom", "title,author", "title,author"},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tc.input))
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, got, tc.expected, "text mismatch")
		})
	}
}
