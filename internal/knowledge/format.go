package knowledge

import "strings"

const (
	atomsHeader   = "RELEVANT API:"
	recipesHeader = "PATTERNS:"
	gotchasHeader = "AVOID:"
)

// renders the selected matches as up to three labeled sections
func formatDigest(corpus *Corpus, matches []Match) string {
	var atoms, recipes, gotchas []string

	for _, m := range matches {
		switch m.Ref.Type {
		case ChunkAtom:
			atoms = append(atoms, FormatAtom(corpus.Atoms[m.Ref.Index]))
		case ChunkRecipe:
			recipes = append(recipes, FormatRecipe(corpus.Recipes[m.Ref.Index]))
		case ChunkGotcha:
			gotchas = append(gotchas, FormatGotcha(corpus.Gotchas[m.Ref.Index]))
		}
	}

	var sections []string

	if len(atoms) > 0 {
		sections = append(sections, atomsHeader+"\n"+strings.Join(atoms, "\n"))
	}

	if len(recipes) > 0 {
		sections = append(sections, recipesHeader+"\n"+strings.Join(recipes, "\n\n"))
	}

	if len(gotchas) > 0 {
		sections = append(sections, gotchasHeader+"\n"+strings.Join(gotchas, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

// renders an atom as Class.member(signature) -> returnType followed by the
// description separator, omitting absent parts
func FormatAtom(a Atom) string {
	var sb strings.Builder

	sb.WriteString(a.Class)

	if a.Member != "" {
		sb.WriteString(".")
		sb.WriteString(a.Member)
	}

	if a.Signature != "" {
		if strings.HasPrefix(a.Signature, "(") {
			sb.WriteString(a.Signature)
		} else {
			sb.WriteString("(" + a.Signature + ")")
		}
	}

	if a.Returns != "" {
		sb.WriteString(" -> ")
		sb.WriteString(a.Returns)
	}

	if a.Description != "" {
		sb.WriteString(" — ")
		sb.WriteString(a.Description)
	}

	return sb.String()
}

func FormatRecipe(r Recipe) string {
	return r.Title + ":\n" + strings.TrimSpace(r.Code)
}

func FormatGotcha(g Gotcha) string {
	return "- " + g.Title + ": " + g.Description
}
