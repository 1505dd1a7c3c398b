// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Config: {
	name?:    string
	workers?: int & >=0
	apps?: [...{name: string, path: string}]
}
`

type testConfig struct {
	Name    string `json:"name"`
	Workers int    `json:"workers"`
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "amdpack.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("some error")
		err := FormatError(originalErr, "amdpack.cue")
		if !errors.Is(err, originalErr) {
			t.Errorf("error should wrap the original, got: %v", err)
		}
		if !strings.Contains(err.Error(), "amdpack.cue") {
			t.Errorf("error should contain filepath, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{name: "empty path", path: []string{}, expected: ""},
		{name: "single element", path: []string{"compress"}, expected: "compress"},
		{name: "nested path", path: []string{"output", "dir"}, expected: "output.dir"},
		{name: "array index", path: []string{"apps", "0", "name"}, expected: "apps[0].name"},
		{name: "leading number is a key", path: []string{"0", "name"}, expected: "0.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := &ValidationError{FilePath: "amdpack.cue", CUEPath: "bundles.main", Message: "reserved bundle name"}
	if got, want := err.Error(), "amdpack.cue: bundles.main: reserved bundle name"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &ValidationError{FilePath: "amdpack.cue", Message: "empty"}
	if got, want := err.Error(), "amdpack.cue: empty"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "a.cue"); err != nil {
		t.Errorf("CheckFileSize() at limit error = %v", err)
	}
	err := CheckFileSize(make([]byte, 11), 10, "a.cue")
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("CheckFileSize() over limit error = %v", err)
	}
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid struct", func(t *testing.T) {
		t.Parallel()

		result, err := ParseAndDecodeString[testConfig](testSchema, []byte(`name: "shop"
workers: 4
`), "#Config", WithFilename("amdpack.cue"))
		if err != nil {
			t.Fatalf("ParseAndDecode() error: %v", err)
		}
		if result.Value.Name != "shop" || result.Value.Workers != 4 {
			t.Errorf("decoded = %+v", *result.Value)
		}
	})

	t.Run("schema violation includes path", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[testConfig](testSchema, []byte(`name: "shop"
workers: -1
`), "#Config", WithFilename("amdpack.cue"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "amdpack.cue") || !strings.Contains(err.Error(), "workers") {
			t.Errorf("error should name file and field, got: %v", err)
		}
	})

	t.Run("non-concrete allowed when disabled", func(t *testing.T) {
		t.Parallel()

		result, err := ParseAndDecodeString[map[string]any](testSchema, []byte(`workers: 2`), "#Config", WithConcrete(false))
		if err != nil {
			t.Fatalf("ParseAndDecode() error: %v", err)
		}
		if (*result.Value)["workers"] != int64(2) && (*result.Value)["workers"] != 2 {
			t.Errorf("workers = %#v", (*result.Value)["workers"])
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[testConfig](testSchema, []byte(`name: "shop`), "#Config")
		if err == nil || !strings.Contains(err.Error(), "<input>") {
			t.Errorf("expected error naming <input>, got: %v", err)
		}
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[testConfig](testSchema, []byte(`name: "shop"`), "#Config", WithMaxFileSize(4))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("expected size error, got: %v", err)
		}
	})
}
