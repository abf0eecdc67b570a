// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:  string & !=""
	count: int | *1
	tags?: [...string]
}
`

type doc struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	schema := MustCompile([]byte(testSchema), "#Doc")

	tests := []struct {
		name      string
		input     string
		want      doc
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "defaults applied",
			input: `name: "x"`,
			want:  doc{Name: "x", Count: 1},
		},
		{
			name:  "all fields",
			input: `name: "x", count: 3, tags: ["a", "b"]`,
			want:  doc{Name: "x", Count: 3, Tags: []string{"a", "b"}},
		},
		{
			name:      "empty name rejected",
			input:     `name: ""`,
			wantErr:   true,
			errSubstr: "name",
		},
		{
			name:      "wrong type",
			input:     `name: "x", count: "many"`,
			wantErr:   true,
			errSubstr: "count",
		},
		{
			name:      "syntax error",
			input:     `name: `,
			wantErr:   true,
			errSubstr: "doc.cue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode[doc](schema, []byte(tt.input), WithFilename("doc.cue"))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode() = %+v, want error", got)
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Decode() error = %q, want substring %q", err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.Name != tt.want.Name || got.Count != tt.want.Count || strings.Join(got.Tags, ",") != strings.Join(tt.want.Tags, ",") {
				t.Errorf("Decode() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestDecodeMap_NonConcrete(t *testing.T) {
	t.Parallel()

	schema := MustCompile([]byte(`#Cfg: { mode?: "a" | "b", level?: int }`), "#Cfg")

	m, err := schema.DecodeMap([]byte(`mode: "b"`), WithConcrete(false))
	if err != nil {
		t.Fatalf("DecodeMap() error = %v", err)
	}
	if m["mode"] != "b" {
		t.Errorf("mode = %v, want b", m["mode"])
	}
	if _, ok := m["level"]; ok {
		t.Error("unset optional field should be absent")
	}

	if _, err := schema.DecodeMap([]byte(`mode: "c"`), WithConcrete(false)); err == nil {
		t.Error("DecodeMap() accepted a value outside the enum")
	}
}

func TestDecode_FileSizeLimit(t *testing.T) {
	t.Parallel()

	schema := MustCompile([]byte(testSchema), "#Doc")
	_, err := Decode[doc](schema, []byte(`name: "abcdefgh"`), WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("Decode() error = %v, want size error", err)
	}
}

func TestCompile_MissingDefinition(t *testing.T) {
	t.Parallel()

	if _, err := Compile([]byte(testSchema), "#Nope"); err == nil {
		t.Error("Compile() with unknown definition should fail")
	}
}

func TestJSONPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		parts []string
		want  string
	}{
		{nil, ""},
		{[]string{"name"}, "name"},
		{[]string{"implementations", "0", "label"}, "implementations[0].label"},
		{[]string{"a", "12", "3"}, "a[12][3]"},
		{[]string{"0", "x"}, "0.x"},
	}

	for _, tt := range tests {
		if got := JSONPath(tt.parts); got != tt.want {
			t.Errorf("JSONPath(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestMultiError_Unwrap(t *testing.T) {
	t.Parallel()

	m := &MultiError{File: "f", Violations: []*ValidationError{{File: "f", Path: "a", Message: "bad"}}}
	var ve *ValidationError
	if !errors.As(m, &ve) || ve.Path != "a" {
		t.Errorf("errors.As(MultiError) = %v", ve)
	}
	if !strings.Contains(m.Error(), "a: bad") {
		t.Errorf("Error() = %q", m.Error())
	}
}
