package author

import (
	"reflect"
	"testing"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Name
	}{
		{
			name:  "single word is last name",
			input: "Yu",
			want:  Name{Last: "Yu"},
		},
		{
			name:  "two words is First Last",
			input: "Timothy Yu",
			want:  Name{First: "Timothy", Last: "Yu"},
		},
		{
			name:  "three words: first two are first name",
			input: "Timothy C Yu",
			want:  Name{First: "Timothy C", Last: "Yu"},
		},
		{
			name:  "comma format: Last, First",
			input: "Yu, Timothy",
			want:  Name{First: "Timothy", Last: "Yu"},
		},
		{
			name:  "comma format with spaces",
			input: "Yu,  Timothy C",
			want:  Name{First: "Timothy C", Last: "Yu"},
		},
		{
			name:  "comma without space",
			input: "Vaswani,A",
			want:  Name{First: "A", Last: "Vaswani"},
		},
		{
			name:  "leading/trailing whitespace",
			input: "  Bloom  ",
			want:  Name{Last: "Bloom"},
		},
		{
			name:  "empty string",
			input: "",
			want:  Name{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  Name{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseName(tt.input)
			if got != tt.want {
				t.Errorf("ParseName(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Vaswani, A", "vaswani, a"},
		{"Ashish Vaswani", "vaswani, ashish"},
		{"Bloom", "bloom"},
		{"vaswani,   a", "vaswani, a"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ParseName(tt.input).Label(); got != tt.want {
			t.Errorf("ParseName(%q).Label() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLabelIsStable(t *testing.T) {
	// Re-parsing a label must give the same label back.
	for _, input := range []string{"Vaswani, A", "Timothy C Yu", "Bloom", "de la Cruz, Maria"} {
		label := ParseName(input).Label()
		if again := ParseName(label).Label(); again != label {
			t.Errorf("ParseName(%q).Label() = %q, not a fixed point of %q", label, again, input)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"semicolons", "Vaswani, A; Shazeer, N;", []string{"Vaswani, A", "Shazeer, N"}},
		{"bibtex and", "Vaswani, Ashish and Shazeer, Noam", []string{"Vaswani, Ashish", "Shazeer, Noam"}},
		{"and without commas", "Ashish Vaswani and Noam Shazeer", []string{"Ashish Vaswani", "Noam Shazeer"}},
		{"upper-case AND", "A AND B", []string{"A", "B"}},
		{"single author", "Bloom, Jesse", []string{"Bloom, Jesse"}},
		{"name containing and", "Alexander Anderson", []string{"Alexander Anderson"}},
		{"empty", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitList(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}
