package dedup

import (
	"reflect"
	"testing"

	"github.com/valpere/tmtune/internal"
)

func TestPairs(t *testing.T) {
	tests := []struct {
		name  string
		input []internal.Pair
		want  []internal.Pair
	}{
		{
			name:  "nil input",
			input: nil,
			want:  []internal.Pair{},
		},
		{
			name: "exact duplicates keep first",
			input: []internal.Pair{
				{Source: "Hello", Target: "Bonjour"},
				{Source: "Hello", Target: "Bonjour"},
			},
			want: []internal.Pair{{Source: "Hello", Target: "Bonjour"}},
		},
		{
			name: "same source different target kept",
			input: []internal.Pair{
				{Source: "Hello", Target: "Bonjour"},
				{Source: "Hello", Target: "Salut"},
			},
			want: []internal.Pair{
				{Source: "Hello", Target: "Bonjour"},
				{Source: "Hello", Target: "Salut"},
			},
		},
		{
			name: "blank sides dropped",
			input: []internal.Pair{
				{Source: "Hi", Target: "Salut"},
				{Source: "", Target: "Au revoir"},
				{Source: "Bye", Target: "   "},
			},
			want: []internal.Pair{{Source: "Hi", Target: "Salut"}},
		},
		{
			name: "case differences are distinct",
			input: []internal.Pair{
				{Source: "hello", Target: "bonjour"},
				{Source: "Hello", Target: "Bonjour"},
			},
			want: []internal.Pair{
				{Source: "hello", Target: "bonjour"},
				{Source: "Hello", Target: "Bonjour"},
			},
		},
		{
			name: "order of first occurrence preserved",
			input: []internal.Pair{
				{Source: "b", Target: "2"},
				{Source: "a", Target: "1"},
				{Source: "b", Target: "2"},
				{Source: "c", Target: "3"},
				{Source: "a", Target: "1"},
			},
			want: []internal.Pair{
				{Source: "b", Target: "2"},
				{Source: "a", Target: "1"},
				{Source: "c", Target: "3"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pairs(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Pairs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPairs_Idempotent(t *testing.T) {
	input := []internal.Pair{
		{Source: "x", Target: "1"},
		{Source: "y", Target: ""},
		{Source: "x", Target: "1"},
		{Source: "z", Target: "3"},
	}

	once := Pairs(input)
	twice := Pairs(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second pass changed result: %v -> %v", once, twice)
	}
}

func TestPairs_DoesNotModifyInput(t *testing.T) {
	input := []internal.Pair{
		{Source: "a", Target: "1"},
		{Source: "a", Target: "1"},
	}
	_ = Pairs(input)
	if len(input) != 2 || input[1] != (internal.Pair{Source: "a", Target: "1"}) {
		t.Errorf("input modified: %v", input)
	}
}
