package services

import (
	"math"
	"sort"
	"strings"

	"electronics-arbitrage/models"
	"electronics-arbitrage/utils"
)

// Matcher clusters listings into same-product groups using term-weighted
// text similarity over normalized names.
type Matcher struct {
	logger     *utils.Logger
	threshold  float64
	exactFirst bool
}

// NewMatcher creates a Matcher with the given similarity threshold.
// exactFirst enables a pre-pass that groups identical normalized names
// before similarity matching.
func NewMatcher(logger *utils.Logger, threshold float64, exactFirst bool) *Matcher {
	return &Matcher{logger: logger, threshold: threshold, exactFirst: exactFirst}
}

// Group clusters the full accumulated batch into product groups.
//
// Listings are processed in original order. Each unprocessed listing seeds a
// new group; every other unprocessed listing whose similarity to the seed
// exceeds the threshold joins it and is marked processed, so a listing
// belongs to at most one group. This is greedy single-link clustering
// relative to the seed, not transitive closure: membership is decided
// against the seed only. Groups of size 1 are discarded.
func (m *Matcher) Group(listings []*models.Listing) []models.ProductGroup {
	if len(listings) < 2 {
		m.logger.Info("[matcher] Fewer than 2 listings, nothing to group")
		return nil
	}

	var groups []models.ProductGroup
	used := make([]bool, len(listings))

	if m.exactFirst {
		groups = m.groupExact(listings, used)
	}

	vectors := vectorize(listings)

	for i := range listings {
		if used[i] {
			continue
		}
		used[i] = true

		group := models.ProductGroup{Members: []*models.Listing{listings[i]}}
		for j := range listings {
			if used[j] {
				continue
			}
			if cosine(vectors[i], vectors[j]) > m.threshold {
				group.Members = append(group.Members, listings[j])
				used[j] = true
			}
		}

		if len(group.Members) > 1 {
			groups = append(groups, group)
		}
	}

	m.logger.Info("[matcher] Grouped %d listings into %d product groups", len(listings), len(groups))
	return groups
}

// groupExact pulls out listings sharing an identical non-empty normalized
// name before similarity matching runs over the remainder.
func (m *Matcher) groupExact(listings []*models.Listing, used []bool) []models.ProductGroup {
	byName := make(map[string][]int)
	order := make([]string, 0)
	for i, l := range listings {
		if l.NormalizedName == "" {
			continue
		}
		if _, ok := byName[l.NormalizedName]; !ok {
			order = append(order, l.NormalizedName)
		}
		byName[l.NormalizedName] = append(byName[l.NormalizedName], i)
	}

	var groups []models.ProductGroup
	for _, name := range order {
		idxs := byName[name]
		if len(idxs) < 2 {
			continue
		}
		group := models.ProductGroup{}
		for _, i := range idxs {
			group.Members = append(group.Members, listings[i])
			used[i] = true
		}
		groups = append(groups, group)
	}

	if len(groups) > 0 {
		m.logger.Debug("[matcher] Exact-name pre-pass produced %d groups", len(groups))
	}
	return groups
}

// termVector is a sparse TF-IDF vector, L2-normalized at construction.
type termVector map[string]float64

// vectorize builds TF-IDF vectors over unigrams and bigrams of each
// normalized name. Terms are weighted by smoothed inverse document
// frequency across the batch so discriminating terms dominate. Listings
// whose names produce no terms get an empty vector (similarity 0 to all).
func vectorize(listings []*models.Listing) []termVector {
	docs := make([][]string, len(listings))
	df := make(map[string]int)

	for i, l := range listings {
		terms := ngrams(l.NormalizedName)
		docs[i] = terms

		unique := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			unique[t] = struct{}{}
		}
		for t := range unique {
			df[t]++
		}
	}

	n := float64(len(listings))
	idf := make(map[string]float64, len(df))
	for t, count := range df {
		idf[t] = math.Log((1+n)/(1+float64(count))) + 1
	}

	vectors := make([]termVector, len(listings))
	for i, terms := range docs {
		vec := make(termVector)
		for _, t := range terms {
			vec[t] += idf[t]
		}

		var norm float64
		for _, w := range vec {
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for t := range vec {
				vec[t] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// ngrams tokenizes a normalized name into unigrams plus adjacent bigrams.
func ngrams(name string) []string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return nil
	}

	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// cosine computes cosine similarity between two L2-normalized vectors,
// which reduces to their dot product. Terms are summed in sorted order so
// the result does not vary with map iteration order; a value sitting
// exactly at the grouping threshold then compares the same way on every run.
func cosine(a, b termVector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	terms := make([]string, 0, len(a))
	for t := range a {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	var dot float64
	for _, t := range terms {
		dot += a[t] * b[t]
	}
	return dot
}
