// Package frequency scores text by how closely its letter profile matches English.
package frequency

import (
	toyrsa "github.com/BackendStack21/toyrsa-go"
)

// english is the reference profile for A..Z followed by space.
var english = [toyrsa.AlphabetSize]float64{
	0.08167, // A
	0.01492, // B
	0.02782, // C
	0.04253, // D
	0.12702, // E
	0.02228, // F
	0.02015, // G
	0.06094, // H
	0.06966, // I
	0.00153, // J
	0.00772, // K
	0.04025, // L
	0.02406, // M
	0.06749, // N
	0.07507, // O
	0.01929, // P
	0.00095, // Q
	0.05987, // R
	0.06327, // S
	0.09056, // T
	0.02758, // U
	0.00978, // V
	0.02360, // W
	0.00150, // X
	0.01974, // Y
	0.00074, // Z
	0.17000, // space (approx.)
}

// English returns a copy of the reference English frequency vector.
func English() toyrsa.FrequencyVector {
	v := make(toyrsa.FrequencyVector, toyrsa.AlphabetSize)
	copy(v, english[:])
	return v
}

// Labels returns the bin labels A..Z followed by a visible space marker.
func Labels() []string {
	labels := make([]string, toyrsa.AlphabetSize)
	for i := 0; i < 26; i++ {
		labels[i] = string(rune('A' + i))
	}
	labels[toyrsa.SpaceCode] = "␣"
	return labels
}

// Counts returns raw per-symbol counts and their total.
// Letters are counted case-insensitively; every other character is ignored.
func Counts(text string) (counts [toyrsa.AlphabetSize]int, total int) {
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			counts[r-'A']++
		case r >= 'a' && r <= 'z':
			counts[r-'a']++
		case r == ' ':
			counts[toyrsa.SpaceCode]++
		default:
			continue
		}
		total++
	}
	return counts, total
}

// LetterFrequency returns the proportion of each symbol in text.
// Empty input yields an all-zero vector.
func LetterFrequency(text string) toyrsa.FrequencyVector {
	counts, total := Counts(text)
	v := make(toyrsa.FrequencyVector, toyrsa.AlphabetSize)
	if total == 0 {
		return v
	}
	for i, c := range counts {
		v[i] = float64(c) / float64(total)
	}
	return v
}

// MeanSquaredError averages the squared differences over the shared prefix
// of a and b. Two empty vectors have zero error.
func MeanSquaredError(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum / float64(n)
}

// Score is the error between the letter profile of text and English.
// Lower means more English-like.
func Score(text string) float64 {
	return MeanSquaredError(LetterFrequency(text), english[:])
}

// ScoreCodes scores a sequence of symbol codes without building a string.
// Codes outside [0, 26] are ignored, as LetterFrequency ignores placeholders.
func ScoreCodes(codes []int64) float64 {
	var counts [toyrsa.AlphabetSize]int
	total := 0
	for _, c := range codes {
		if c >= 0 && c < toyrsa.AlphabetSize {
			counts[c]++
			total++
		}
	}
	var sum float64
	for i, ref := range english {
		var p float64
		if total > 0 {
			p = float64(counts[i]) / float64(total)
		}
		d := p - ref
		sum += d * d
	}
	return sum / toyrsa.AlphabetSize
}

// LetterHistogram returns chart data: one count per symbol, labelled A..Z, ␣.
func LetterHistogram(text string) toyrsa.Histogram {
	counts, _ := Counts(text)
	h := toyrsa.Histogram{Labels: Labels(), Counts: make([]int, toyrsa.AlphabetSize)}
	copy(h.Counts, counts[:])
	return h
}
