package intent

import (
	"math"
	"slices"
	"strings"
)

// trainParams controls the gradient descent fit.
type trainParams struct {
	epochs       int
	learningRate float64
	// c is the inverse L2 strength; the penalty per example is 1/(c*n).
	c float64
}

// model is a fitted multinomial logistic regression over TF-IDF features.
// It is immutable once built.
type model struct {
	vec     *vectorizer
	classes []Label // sorted by name
	weights [][]float64
	bias    []float64
	size    int // training examples
}

// byName orders labels by their names.
func byName(a, b Label) int { return strings.Compare(a.String(), b.String()) }

// fit trains a model on corpus by full-batch gradient descent on the mean
// log loss plus an L2 penalty on the weights. corpus must contain at least
// two labels.
func fit(corpus []Example, p trainParams) *model {
	docs := make([]string, len(corpus))
	for i, ex := range corpus {
		docs[i] = ex.Text
	}
	vec := fitVectorizer(docs)

	var classes []Label
	for _, ex := range corpus {
		if !slices.Contains(classes, ex.Label) {
			classes = append(classes, ex.Label)
		}
	}
	slices.SortFunc(classes, byName)
	index := make(map[Label]int, len(classes))
	for k, l := range classes {
		index[l] = k
	}

	m := &model{
		vec:     vec,
		classes: classes,
		weights: make([][]float64, len(classes)),
		bias:    make([]float64, len(classes)),
		size:    len(corpus),
	}
	gradW := make([][]float64, len(classes))
	for k := range m.weights {
		m.weights[k] = make([]float64, vec.size())
		gradW[k] = make([]float64, vec.size())
	}
	gradB := make([]float64, len(classes))

	xs := make([][]feature, len(corpus))
	ys := make([]int, len(corpus))
	for i, ex := range corpus {
		xs[i] = vec.transform(ex.Text)
		ys[i] = index[ex.Label]
	}

	n := float64(len(corpus))
	var lambda float64
	if p.c > 0 {
		lambda = 1 / (p.c * n)
	}
	probs := make([]float64, len(classes))

	for epoch := 0; epoch < p.epochs; epoch++ {
		for k := range gradW {
			clear(gradW[k])
		}
		clear(gradB)

		for i, x := range xs {
			m.probabilities(x, probs)
			for k := range classes {
				g := probs[k]
				if k == ys[i] {
					g -= 1
				}
				gradB[k] += g / n
				for _, f := range x {
					gradW[k][f.index] += g * f.value / n
				}
			}
		}

		for k, w := range m.weights {
			g := gradW[k]
			for j := range w {
				w[j] -= p.learningRate * (g[j] + lambda*w[j])
			}
			m.bias[k] -= p.learningRate * gradB[k]
		}
	}
	return m
}

// probabilities writes the softmax class distribution for x into out.
func (m *model) probabilities(x []feature, out []float64) {
	maxScore := math.Inf(-1)
	for k := range m.classes {
		s := m.bias[k]
		w := m.weights[k]
		for _, f := range x {
			s += w[f.index] * f.value
		}
		out[k] = s
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	for k := range out {
		out[k] = math.Exp(out[k] - maxScore)
		sum += out[k]
	}
	for k := range out {
		out[k] /= sum
	}
}

// predict returns the most probable label and its probability.
func (m *model) predict(text string) (Label, float64) {
	probs := make([]float64, len(m.classes))
	m.probabilities(m.vec.transform(text), probs)

	best := 0
	for k := range probs {
		if probs[k] > probs[best] {
			best = k
		}
	}
	return m.classes[best], probs[best]
}
