package frequency

import (
	"math"
	"testing"

	"github.com/BackendStack21/toyrsa-go/alphabet"
)

func TestEnglish_SumsToOne(t *testing.T) {
	ref := English()
	if len(ref) != 27 {
		t.Fatalf("reference length = %d, want 27", len(ref))
	}
	var sum float64
	for _, v := range ref {
		sum += v
	}
	// Letters sum to ~1 on their own; the space bin is an approximation on top.
	if sum < 1.1 || sum > 1.2 {
		t.Errorf("reference sum = %f", sum)
	}
}

func TestEnglish_ReturnsCopy(t *testing.T) {
	ref := English()
	ref[4] = 0
	if English()[4] != 0.12702 {
		t.Error("mutating the returned vector changed the reference")
	}
}

func TestLetterFrequency_Empty(t *testing.T) {
	v := LetterFrequency("")
	if len(v) != 27 {
		t.Fatalf("length = %d, want 27", len(v))
	}
	for i, x := range v {
		if x != 0 {
			t.Errorf("bin %d = %f, want 0", i, x)
		}
	}
	if v := LetterFrequency("123!?"); v[0] != 0 || len(v) != 27 {
		t.Error("non-alphabet input should give a zero vector")
	}
}

func TestLetterFrequency_Single(t *testing.T) {
	v := LetterFrequency("AAAA")
	if v[0] != 1.0 {
		t.Errorf("bin A = %f, want 1", v[0])
	}
	for i := 1; i < 27; i++ {
		if v[i] != 0 {
			t.Errorf("bin %d = %f, want 0", i, v[i])
		}
	}
}

func TestLetterFrequency_CaseInsensitive(t *testing.T) {
	v := LetterFrequency("aB b")
	if v[0] != 0.25 || v[1] != 0.5 || v[26] != 0.25 {
		t.Errorf("unexpected profile: A=%f B=%f space=%f", v[0], v[1], v[26])
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("sum = %f, want 1", sum)
	}
}

func TestMeanSquaredError(t *testing.T) {
	v := LetterFrequency("THE QUICK BROWN FOX")
	if got := MeanSquaredError(v, v); got != 0 {
		t.Errorf("MSE(v, v) = %f, want 0", got)
	}
	if got := MeanSquaredError([]float64{1, 0}, []float64{0, 0}); got != 0.5 {
		t.Errorf("MSE = %f, want 0.5", got)
	}
	if got := MeanSquaredError([]float64{1, 1, 9}, []float64{0, 1}); got != 0.5 {
		t.Errorf("MSE over shared prefix = %f, want 0.5", got)
	}
	if got := MeanSquaredError(nil, nil); got != 0 {
		t.Errorf("MSE(nil, nil) = %f", got)
	}
}

func TestScore_PrefersEnglish(t *testing.T) {
	english := Score("IT WAS THE BEST OF TIMES IT WAS THE WORST OF TIMES")
	noise := Score("QZXJ QZXJ KKVV QZXJ")
	if english >= noise {
		t.Errorf("english score %f should be below noise %f", english, noise)
	}
	want := 0.0013459842535651996
	if got := Score("THE QUICK BROWN FOX"); math.Abs(got-want) > 1e-15 {
		t.Errorf("Score = %.18f, want %.18f", got, want)
	}
}

func TestScoreCodes_MatchesScore(t *testing.T) {
	texts := []string{"", "A", "THE QUICK BROWN FOX", "ATTACK AT DAWN"}
	for _, s := range texts {
		codes := alphabet.Encode(s)
		if a, b := ScoreCodes(codes), Score(s); a != b {
			t.Errorf("ScoreCodes(%q) = %v, Score = %v", s, a, b)
		}
	}
}

func TestLetterHistogram(t *testing.T) {
	h := LetterHistogram("ABBA C")
	if len(h.Labels) != 27 || len(h.Counts) != 27 {
		t.Fatalf("histogram sizes %d/%d", len(h.Labels), len(h.Counts))
	}
	if h.Labels[0] != "A" || h.Labels[25] != "Z" || h.Labels[26] != "␣" {
		t.Errorf("unexpected labels %v", h.Labels)
	}
	if h.Counts[0] != 2 || h.Counts[1] != 2 || h.Counts[2] != 1 || h.Counts[26] != 1 {
		t.Errorf("unexpected counts %v", h.Counts)
	}
}

func BenchmarkScoreCodes(b *testing.B) {
	codes := alphabet.Encode("IT WAS THE BEST OF TIMES IT WAS THE WORST OF TIMES")
	for i := 0; i < b.N; i++ {
		ScoreCodes(codes)
	}
}
