package intent

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// wordRe matches runs of two or more word characters.
var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// terms returns the case-folded unigrams and bigrams of text.
func terms(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, 2*len(words))
	out = append(out, words...)
	for i := 0; i+1 < len(words); i++ {
		out = append(out, words[i]+" "+words[i+1])
	}
	return out
}

// feature is one non-zero entry of a sparse vector.
type feature struct {
	index int
	value float64
}

// vectorizer maps text to L2-normalised TF-IDF vectors over a fixed vocabulary.
type vectorizer struct {
	vocab map[string]int
	idf   []float64
	// unseen is the idf a term outside the vocabulary would have.
	unseen float64
}

// fitVectorizer learns the vocabulary and smoothed idf weights from docs.
func fitVectorizer(docs []string) *vectorizer {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]bool)
		for _, t := range terms(d) {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	vocab := make([]string, 0, len(df))
	for t := range df {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	n := float64(len(docs))
	v := &vectorizer{
		vocab:  make(map[string]int, len(vocab)),
		idf:    make([]float64, len(vocab)),
		unseen: math.Log(1+n) + 1,
	}
	for i, t := range vocab {
		v.vocab[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return v
}

func (v *vectorizer) size() int { return len(v.idf) }

// transform returns the sparse vector for text, sorted by index. Terms
// outside the vocabulary get no feature but still count towards the norm,
// so text that is mostly unknown words yields a weak vector.
func (v *vectorizer) transform(text string) []feature {
	counts := make(map[int]float64)
	unknown := make(map[string]float64)
	for _, t := range terms(text) {
		if i, ok := v.vocab[t]; ok {
			counts[i]++
		} else {
			unknown[t]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	out := make([]feature, 0, len(counts))
	for i, c := range counts {
		out = append(out, feature{i, c * v.idf[i]})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].index < out[b].index })

	var norm float64
	for _, f := range out {
		norm += f.value * f.value
	}
	// Integer counts sum exactly, so map order cannot change the result.
	var unknownSq float64
	for _, c := range unknown {
		unknownSq += c * c
	}
	norm += unknownSq * v.unseen * v.unseen
	norm = math.Sqrt(norm)
	for i := range out {
		out[i].value /= norm
	}
	return out
}
