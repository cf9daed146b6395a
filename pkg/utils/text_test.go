package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeTagSet(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "Dedupes case-insensitively",
			in:   []string{"Hiking", "hiking", " HIKING "},
			want: []string{"hiking"},
		},
		{
			name: "Drops blanks and sorts",
			in:   []string{"yoga", "", "  ", "board  games"},
			want: []string{"board games", "yoga"},
		},
		{
			name: "Empty input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTagSet(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTagSet(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
