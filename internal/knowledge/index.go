package knowledge

import (
	"sort"
	"strings"
)

// Index is an inverted index from lowercase keyword to the corpus entries it
// describes. It is immutable once built; a corpus reload builds a new one.
type Index struct {
	corpus   *Corpus
	postings map[string][]ChunkRef
	keys     []string // sorted, for prefix scans
}

// builds the inverted index for a corpus
func Build(corpus *Corpus) *Index {
	if corpus == nil {
		corpus = &Corpus{}
	}

	sets := make(map[string]map[ChunkRef]struct{})
	add := func(keyword string, ref ChunkRef) {
		set, ok := sets[keyword]
		if !ok {
			set = make(map[ChunkRef]struct{})
			sets[keyword] = set
		}
		set[ref] = struct{}{}
	}

	for i, a := range corpus.Atoms {
		ref := ChunkRef{Type: ChunkAtom, Index: i}

		for _, kw := range fieldKeywords(a.Class) {
			add(kw, ref)
		}

		for _, kw := range fieldKeywords(a.Member) {
			add(kw, ref)
		}

		for _, tag := range a.Tags {
			for _, kw := range fieldKeywords(tag) {
				add(kw, ref)
			}
		}
	}

	for i, r := range corpus.Recipes {
		ref := ChunkRef{Type: ChunkRecipe, Index: i}
		indexTagged(add, ref, r.Tags, r.Title)
	}

	for i, g := range corpus.Gotchas {
		ref := ChunkRef{Type: ChunkGotcha, Index: i}
		indexTagged(add, ref, g.Tags, g.Title)
	}

	idx := &Index{
		corpus:   corpus,
		postings: make(map[string][]ChunkRef, len(sets)),
		keys:     make([]string, 0, len(sets)),
	}

	for kw, set := range sets {
		refs := make([]ChunkRef, 0, len(set))
		for ref := range set {
			refs = append(refs, ref)
		}

		sort.Slice(refs, func(i, j int) bool {
			if refs[i].Type != refs[j].Type {
				return refs[i].Type < refs[j].Type
			}
			return refs[i].Index < refs[j].Index
		})

		idx.postings[kw] = refs
		idx.keys = append(idx.keys, kw)
	}

	sort.Strings(idx.keys)

	return idx
}

func indexTagged(add func(string, ChunkRef), ref ChunkRef, tags []string, title string) {
	for _, tag := range tags {
		for _, kw := range fieldKeywords(tag) {
			add(kw, ref)
		}
	}

	for _, kw := range titleKeywords(title) {
		add(kw, ref)
	}
}

// returns the corpus the index was built from
func (idx *Index) Corpus() *Corpus {
	if idx == nil {
		return nil
	}

	return idx.corpus
}

// returns the corpus version tag
func (idx *Index) Version() string {
	if idx == nil || idx.corpus == nil {
		return ""
	}

	return idx.corpus.Version
}

// number of distinct keywords
func (idx *Index) Size() int {
	if idx == nil {
		return 0
	}

	return len(idx.keys)
}

// Score tokenizes text and accumulates points per chunk: an exact keyword
// match adds 3, every keyword the token strictly prefixes adds 1.
func (idx *Index) Score(text string) map[ChunkRef]int {
	scores := make(map[ChunkRef]int)
	if idx == nil {
		return scores
	}

	for _, token := range Tokenize(text) {
		for _, ref := range idx.postings[token] {
			scores[ref] += exactMatchScore
		}

		// keys sharing the prefix are contiguous in sorted order
		start := sort.SearchStrings(idx.keys, token)
		for _, kw := range idx.keys[start:] {
			if !strings.HasPrefix(kw, token) {
				break
			}

			if kw == token {
				continue
			}

			for _, ref := range idx.postings[kw] {
				scores[ref] += prefixMatchScore
			}
		}
	}

	return scores
}

// Search returns the chunks scoring at least the minimum, ranked per type by
// score descending (ties in corpus order) and capped per type.
func (idx *Index) Search(text string, opts Options) []Match {
	opts = opts.withDefaults()

	byType := map[ChunkType][]Match{}
	for ref, score := range idx.Score(text) {
		if score < opts.MinScore {
			continue
		}
		byType[ref.Type] = append(byType[ref.Type], Match{Ref: ref, Score: score})
	}

	limits := map[ChunkType]int{
		ChunkAtom:   opts.MaxAtoms,
		ChunkRecipe: opts.MaxRecipes,
		ChunkGotcha: opts.MaxGotchas,
	}

	var out []Match
	for _, t := range []ChunkType{ChunkAtom, ChunkRecipe, ChunkGotcha} {
		matches := byType[t]

		sort.Slice(matches, func(i, j int) bool {
			if matches[i].Score != matches[j].Score {
				return matches[i].Score > matches[j].Score
			}
			return matches[i].Ref.Index < matches[j].Ref.Index
		})

		if len(matches) > limits[t] {
			matches = matches[:limits[t]]
		}

		out = append(out, matches...)
	}

	return out
}

// Retrieve returns a formatted digest of the most relevant entries for text,
// or "" when nothing clears the threshold.
func (idx *Index) Retrieve(text string, opts Options) string {
	if idx == nil || idx.corpus == nil {
		return ""
	}

	return formatDigest(idx.corpus, idx.Search(text, opts))
}
