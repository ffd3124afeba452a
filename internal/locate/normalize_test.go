package locate

import (
	"reflect"
	"testing"
)

func TestFold_PreservesLength(t *testing.T) {
	inputs := []string{"Adverse EVENT", "ÉRUPTION cutanée", "İstanbul", ""}
	for _, in := range inputs {
		if got, want := len(Fold(in)), len([]rune(in)); got != want {
			t.Errorf("Fold(%q) changed length: %d vs %d", in, got, want)
		}
	}
	if got := FoldString("Drug LMN"); got != "drug lmn" {
		t.Errorf("FoldString = %q", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  Severe\trash\nand  pruritus ")
	want := []string{"Severe", "rash", "and", "pruritus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestSplitPhrases(t *testing.T) {
	got := SplitPhrases("One. Two! Three? Four")
	want := []string{"One", " Two", " Three", " Four"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitPhrases = %q, want %q", got, want)
	}
}

func TestIndexFold(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             int
	}{
		{"abcabc", "cab", 2},
		{"abc", "abcd", -1},
		{"abc", "", -1},
		{"aaab", "aab", 1},
		{"xyz", "q", -1},
	}
	for _, tt := range tests {
		if got := IndexFold([]rune(tt.haystack), []rune(tt.needle)); got != tt.want {
			t.Errorf("IndexFold(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestRuneOffset(t *testing.T) {
	s := "naïve rash"
	// "naïve " is 7 bytes but 6 code points
	if got := RuneOffset(s, 7); got != 6 {
		t.Errorf("RuneOffset = %d, want 6", got)
	}
}
