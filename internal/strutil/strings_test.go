package strutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRemoveExtraSpaces(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "test_not_modifying_0",
			source: "Hello world!",
			want:   "Hello world!",
		},
		{
			name:   "test_not_extra_space_inner",
			source: "Hello  world!",
			want:   "Hello world!",
		},
		{
			name: "test_not_extra_space_inner_tab",
			source: "Hello        	world!",
			want: "Hello world!",
		},
		{
			name:   "test_not_extra_space_inner_outer",
			source: "   Hello        world!   ",
			want:   "Hello world!",
		},
		{
			name: "test_not_extra_space_inner_outer_tab_0",
			source: "   Hello        	world!   ",
			want: "Hello world!",
		},
		{
			name: "test_not_extra_space_inner_outer_tab_1",
			source: "   	Hello        	w.  o.  r.  l.  d!   ",
			want: "Hello w. o. r. l. d!",
		},
		{
			name:   "test_table_cell",
			source: "\n\t\t\tUS\n\t\t\tDollar\n\t\t",
			want:   "US Dollar",
		},
	}

	for _, test := range testCases {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := RemoveExtraSpaces(test.source)
			if got != test.want {
				diff := cmp.Diff(test.want, got)
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestRemoveContentIntoBrackets(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "test_remove_into_brackets_0",
			source: "(Hello world)",
			want:   "",
		},
		{
			name:   "test_remove_into_brackets_1",
			source: "[Hello world]",
			want:   "",
		},
		{
			name:   "test_remove_into_brackets_2",
			source: "[Hello world](Hello world)",
			want:   "",
		},
		{
			name:   "test_remove_into_brackets_3",
			source: "Hello [Hello world]world!(Hello world)",
			want:   "Hello world!",
		},
		{
			name:   "test_nested_brackets",
			source: "Hello [Hello (world)]world!(Hello [world])",
			want:   "Hello world!",
		},
		{
			name:   "test_remove_into_brackets_4",
			source: "Hello [Hello ((world))]world!([Hello] [world])",
			want:   "Hello world!",
		},
		{
			name:   "test_currency_code_suffix",
			source: "US Dollar (USD)",
			want:   "US Dollar ",
		},
	}
	for _, test := range testCases {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := RemoveContentIntoBrackets(test.source)
			if got != test.want {
				diff := cmp.Diff(test.want, got)
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestAlphaNum(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "test_exchange_suffix",
			source: "SAAB-B.ST",
			want:   "SAABBST",
		},
		{
			name:   "test_index_caret",
			source: "^OMX",
			want:   "OMX",
		},
		{
			name:   "test_pair_symbol",
			source: "SEKUSD=X",
			want:   "SEKUSDX",
		},
		{
			name:   "test_spaces_removed",
			source: "[Hello] (world)!",
			want:   "Helloworld",
		},
		{
			name:   "test_non_ascii",
			source: `ПриветмирHello world`,
			want:   "Helloworld",
		},
	}

	for _, test := range testCases {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := AlphaNum(test.source)
			if got != test.want {
				diff := cmp.Diff(test.want, got)
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}
