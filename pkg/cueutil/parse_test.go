// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Doc: close({
	name:  string & !=""
	size?: int & >0
	tags?: [...string]
})
`

func TestValidateBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      string
		wantErr   bool
		errSubstr string
	}{
		{"valid json document", `{"name": "demo", "size": 32}`, false, ""},
		{"optional fields absent", `{"name": "demo"}`, false, ""},
		{"bound violated", `{"name": "demo", "size": 0}`, true, "size"},
		{"wrong type", `{"name": "demo", "tags": [1]}`, true, "tags[0]"},
		{"missing required", `{"size": 4}`, true, "name"},
		{"unknown field rejected by closed struct", `{"name": "demo", "extra": true}`, true, "extra"},
		{"syntax error", `{"name": `, true, "doc.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateBytes(testSchema, []byte(tt.data), "#Doc", WithFilename("doc.json"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateBytes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("error %q should mention %q", err.Error(), tt.errSubstr)
			}
		})
	}
}

func TestValidateBytes_SchemaViolationIsDetectable(t *testing.T) {
	t.Parallel()

	err := ValidateBytes(testSchema, []byte(`{"name": "demo", "size": -1}`), "#Doc")
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "<input>") {
		t.Errorf("default filename should be <input>, got %q", err.Error())
	}
}

func TestValidateBytes_FileSizeLimit(t *testing.T) {
	t.Parallel()

	err := ValidateBytes(testSchema, []byte(`{"name": "demo"}`), "#Doc", WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestValidateBytes_UnknownDefinition(t *testing.T) {
	t.Parallel()

	err := ValidateBytes(testSchema, []byte(`{}`), "#Missing")
	if err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Fatalf("expected missing definition error, got %v", err)
	}
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	type doc struct {
		Name string   `json:"name"`
		Size int      `json:"size"`
		Tags []string `json:"tags"`
	}

	res, err := ParseAndDecode[doc](testSchema, []byte(`name: "demo", tags: ["a", "b"]`), "#Doc")
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if res.Value.Name != "demo" || len(res.Value.Tags) != 2 {
		t.Errorf("decoded %+v", *res.Value)
	}

	const optionalSchema = `#Opts: {
	size?: int & >0
	mode?: "a" | "b"
}`
	partial, err := ParseAndDecode[map[string]any](optionalSchema, []byte(`size: 3`), "#Opts", WithConcrete(false))
	if err != nil {
		t.Fatalf("non-concrete ParseAndDecode() error = %v", err)
	}
	if got := (*partial.Value)["size"]; got == nil {
		t.Errorf("expected size in decoded map, got %v", *partial.Value)
	}
}
