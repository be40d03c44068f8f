package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const rangesDoc = `{"prefixes":[{"ip_prefix":"3.5.140.0/22","region":"ap-northeast-2","service":"AMAZON"}]}`

func writeRanges(t *testing.T) options {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ip-ranges.json")
	if err := os.WriteFile(path, []byte(rangesDoc), 0o600); err != nil {
		t.Fatalf("write ranges: %v", err)
	}
	return options{RangesFile: path}
}

func TestRunPrintsRegion(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"3.5.140.7"}, writeRanges(t), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "ap-northeast-2\n" {
		t.Fatalf("output=%q", out.String())
	}
}

func TestRunPrintsNothingWithoutMatch(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"8.8.8.8"}, writeRanges(t), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("output=%q, want none", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	opts := writeRanges(t)
	tests := []struct {
		name string
		args []string
		opts options
	}{
		{name: "no args", args: nil, opts: opts},
		{name: "too many args", args: []string{"1.1.1.1", "2.2.2.2"}, opts: opts},
		{name: "bad ip", args: []string{"nope"}, opts: opts},
		{name: "missing file", args: []string{"3.5.140.7"}, opts: options{RangesFile: filepath.Join(t.TempDir(), "absent.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(tt.args, tt.opts, &out); err == nil {
				t.Fatalf("expected error")
			}
			if out.Len() != 0 {
				t.Fatalf("output=%q, want none", out.String())
			}
		})
	}
}

func TestRunUsage(t *testing.T) {
	if err := run(nil, options{}, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}
