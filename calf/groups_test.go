package calf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no tabs", "no tabs"},
		{"\tx", "        x"},
		{"ab\tx", "ab      x"},
		{"12345678\tx", "12345678        x"},
	}
	for _, tt := range tests {
		if got := expandTabs(tt.in); got != tt.want {
			t.Errorf("expandTabs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIndentedGroups(t *testing.T) {
	tests := []struct {
		name string
		text string
		want [][]string
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "blank only",
			text: "\n   \n\n",
			want: nil,
		},
		{
			name: "flat lines",
			text: "  a: one\n  b: two\n",
			want: [][]string{{"  a: one"}, {"  b: two"}},
		},
		{
			name: "continuation lines",
			text: "  a: one\n    more\n  b: two\n",
			want: [][]string{{"  a: one", "    more"}, {"  b: two"}},
		},
		{
			name: "stops below baseline",
			text: "    a: one\n    b: two\nReturns:\n    ignored\n",
			want: [][]string{{"    a: one"}, {"    b: two"}},
		},
		{
			name: "blank lines inside are dropped",
			text: "  a: one\n\n    more\n",
			want: [][]string{{"  a: one", "    more"}},
		},
		{
			name: "tabs expand before measuring",
			text: "\ta: one\n\t\tmore\n",
			want: [][]string{{"        a: one", "                more"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IndentedGroups(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("IndentedGroups mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
