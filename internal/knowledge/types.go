package knowledge

// Corpus is the static knowledge base: API member reference ("atoms"),
// code recipes and gotchas. An entry's position in its slice is its identity
// in the index, so a loaded corpus is never mutated.
type Corpus struct {
	Version string   `json:"version" yaml:"version"`
	Atoms   []Atom   `json:"atoms" yaml:"atoms"`
	Recipes []Recipe `json:"recipes" yaml:"recipes"`
	Gotchas []Gotcha `json:"gotchas" yaml:"gotchas"`
}

// one API member (or class) of the host scripting DOM
type Atom struct {
	Class       string   `json:"class" yaml:"class"`
	Member      string   `json:"member,omitempty" yaml:"member,omitempty"`
	Signature   string   `json:"signature,omitempty" yaml:"signature,omitempty"`
	Returns     string   `json:"returns,omitempty" yaml:"returns,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// a known-good snippet for a common task
type Recipe struct {
	Title string   `json:"title" yaml:"title"`
	Code  string   `json:"code" yaml:"code"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// an anti-pattern the model should avoid
type Gotcha struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

type ChunkType int

const (
	ChunkAtom ChunkType = iota
	ChunkRecipe
	ChunkGotcha
)

func (t ChunkType) String() string {
	switch t {
	case ChunkAtom:
		return "atom"
	case ChunkRecipe:
		return "recipe"
	case ChunkGotcha:
		return "gotcha"
	default:
		return "unknown"
	}
}

// identifies one corpus entry
type ChunkRef struct {
	Type  ChunkType
	Index int
}

// a scored chunk
type Match struct {
	Ref   ChunkRef
	Score int
}

// Options bounds a retrieval. Zero fields take the defaults.
type Options struct {
	MaxAtoms   int
	MaxRecipes int
	MaxGotchas int
	MinScore   int
}

const (
	// points for a token equal to an indexed keyword
	exactMatchScore = 3
	// points for a token that is a strict prefix of an indexed keyword
	prefixMatchScore = 1

	DefaultMinScore   = 3
	DefaultMaxAtoms   = 5
	DefaultMaxRecipes = 2
	DefaultMaxGotchas = 3
)

func (o Options) withDefaults() Options {
	if o.MaxAtoms <= 0 {
		o.MaxAtoms = DefaultMaxAtoms
	}

	if o.MaxRecipes <= 0 {
		o.MaxRecipes = DefaultMaxRecipes
	}

	if o.MaxGotchas <= 0 {
		o.MaxGotchas = DefaultMaxGotchas
	}

	if o.MinScore <= 0 {
		o.MinScore = DefaultMinScore
	}

	return o
}
