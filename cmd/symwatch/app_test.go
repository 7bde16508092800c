package main

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/robotomize/symwatch/provider"
)

func TestRateSource(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
	}{
		{name: sourceYahoo},
		{name: sourceECB},
		{name: sourceCAE},
		{name: sourceRCB},
		{name: sourceChain},
		{name: "bloomberg", err: errUnknownSource},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			source, err := rateSource(tc.name, http.DefaultClient)
			if !errors.Is(err, tc.err) {
				t.Fatalf("got %v, want %v", err, tc.err)
			}

			if tc.err == nil && source == nil {
				t.Errorf("got nil source")
			}
		})
	}
}

func TestRateSource_Chain(t *testing.T) {
	t.Parallel()

	source, err := rateSource(sourceChain, http.DefaultClient)
	if err != nil {
		t.Fatalf("rate source: %v", err)
	}

	chain, ok := source.(provider.Chain)
	if !ok {
		t.Fatalf("got %T, want provider.Chain", source)
	}

	if len(chain) != 4 {
		t.Errorf("got %d sources, want 4", len(chain))
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		s        string
		expected []string
	}{
		{name: "test_empty", s: ""},
		{name: "test_single", s: ".env", expected: []string{".env"}},
		{name: "test_spaces_and_blanks", s: " a.env, ,b.env,", expected: []string{"a.env", "b.env"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.expected, splitList(tc.s)); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}
