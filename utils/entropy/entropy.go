// Package entropy measures the byte distribution of a stream.
package entropy

import "math"

// Histogram counts byte occurrences. The zero value is ready to use.
type Histogram struct {
	counts [256]uint64
	total  uint64
}

// Write adds p to the histogram. It never fails.
func (h *Histogram) Write(p []byte) (int, error) {
	for _, b := range p {
		h.counts[b]++
	}
	h.total += uint64(len(p))
	return len(p), nil
}

// Count returns the number of occurrences of b.
func (h *Histogram) Count(b byte) uint64 { return h.counts[b] }

// Total returns the number of bytes seen.
func (h *Histogram) Total() uint64 { return h.total }

// Distinct returns how many byte values occurred at least once.
func (h *Histogram) Distinct() int {
	n := 0
	for _, c := range h.counts {
		if c != 0 {
			n++
		}
	}
	return n
}

// Probability returns the relative frequency of b, 0 for an empty histogram.
func (h *Histogram) Probability(b byte) float64 {
	if h.total == 0 {
		return 0
	}
	return float64(h.counts[b]) / float64(h.total)
}

// Entropy returns the Shannon entropy in bits per byte (0..8).
func (h *Histogram) Entropy() float64 {
	if h.total == 0 {
		return 0
	}
	var e float64
	for _, c := range h.counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(h.total)
		e -= p * math.Log2(p)
	}
	return e
}

// Of returns the entropy of data.
func Of(data []byte) float64 {
	var h Histogram
	h.Write(data)
	return h.Entropy()
}
