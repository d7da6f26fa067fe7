// Package matching ranks catalog ingredients against free-text names.
//
// Scores run from 0 to 100. The ranking is deterministic: identical inputs
// always produce identical output, ties included.
package matching

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"backbar/internal/naming"
	"backbar/models"
)

// citrus maps common juice names onto a base fruit and its prep action.
var citrus = map[string][2]string{
	"lemon juice":      {"lemon", "juice"},
	"lime juice":       {"lime", "juice"},
	"orange juice":     {"orange", "juice"},
	"grapefruit juice": {"grapefruit", "juice"},
}

// Candidate is one ranked match.
type Candidate struct {
	Ref        Reference          `json:"ref"`
	Key        string             `json:"key"`
	Name       string             `json:"name"`
	Ingredient *models.Ingredient `json:"ingredient"`
	PrepAction *models.PrepAction `json:"prep_action,omitempty"`
	Confidence float64            `json:"confidence"`
	MatchedOn  string             `json:"matched_on"`
	ViaAlias   bool               `json:"via_alias"`
	Exact      bool               `json:"exact"`
}

type Matcher struct {
	tuning Tuning
}

func New(tuning Tuning) *Matcher {
	return &Matcher{tuning: tuning}
}

// Default is a matcher with DefaultTuning.
var Default = New(DefaultTuning())

// Match ranks ingredients against query using the default tuning.
func Match(query string, ingredients []models.Ingredient, threshold float64) []Candidate {
	return Default.Match(query, ingredients, threshold)
}

func (m *Matcher) Tuning() Tuning {
	return m.tuning
}

// Best returns the top candidate scoring above threshold.
func (m *Matcher) Best(query string, ingredients []models.Ingredient, threshold float64) (Candidate, bool) {
	candidates := m.Match(query, ingredients, threshold)
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[0], true
}

// Match scores every ingredient and every prepared form of it, keeps those
// scoring strictly above threshold and returns the best Limit, highest first.
func (m *Matcher) Match(query string, ingredients []models.Ingredient, threshold float64) []Candidate {
	q := normalize(query)
	if q == "" || len(ingredients) == 0 {
		return nil
	}
	if threshold < 0 {
		threshold = 0
	}

	basePart, actionPart := splitAction(query)
	if pair, ok := citrus[stripFresh(q)]; ok {
		basePart, actionPart = pair[0], pair[1]
	}

	var out []Candidate
	for i := range ingredients {
		ingredient := &ingredients[i]
		if normalize(ingredient.Name) == "" {
			continue
		}

		if c, ok := m.scoreBase(q, ingredient); ok && c.Confidence > threshold {
			out = append(out, c)
		}
		for j := range ingredient.PrepActions {
			action := &ingredient.PrepActions[j]
			if normalize(action.Name) == "" {
				continue
			}
			if c, ok := m.scorePrepared(q, basePart, actionPart, ingredient, action); ok && c.Confidence > threshold {
				out = append(out, c)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Exact != b.Exact {
			return a.Exact
		}
		if a.Ref.IsPrepared() != b.Ref.IsPrepared() {
			return !a.Ref.IsPrepared()
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Ref.IngredientID != b.Ref.IngredientID {
			return a.Ref.IngredientID < b.Ref.IngredientID
		}
		return a.Ref.PrepAction < b.Ref.PrepAction
	})

	if m.tuning.Limit > 0 && len(out) > m.tuning.Limit {
		out = out[:m.tuning.Limit]
	}
	return out
}

func (m *Matcher) scoreBase(q string, ingredient *models.Ingredient) (Candidate, bool) {
	score, matched, viaAlias, exact := m.bestName(q, ingredient)
	if score <= 0 {
		return Candidate{}, false
	}
	ref := Base(ingredient.ID)
	return Candidate{
		Ref:        ref,
		Key:        ref.Key(),
		Name:       ingredient.Name,
		Ingredient: ingredient,
		Confidence: m.boost(score, q, ingredient),
		MatchedOn:  matched,
		ViaAlias:   viaAlias,
		Exact:      exact,
	}, true
}

func (m *Matcher) scorePrepared(q, basePart, actionPart string, ingredient *models.Ingredient, action *models.PrepAction) (Candidate, bool) {
	display := ingredient.Name + ", " + action.Name

	var score float64
	var matched string
	var viaAlias, exact bool
	if actionPart != "" && normalize(action.Name) == normalize(actionPart) {
		score, matched, viaAlias, exact = m.bestName(normalize(basePart), ingredient)
		matched += ", " + action.Name
	} else {
		score, matched = m.Score(q, display), display
		exact = score >= m.tuning.Exact
	}
	if score <= 0 {
		return Candidate{}, false
	}

	ref := Prepared(ingredient.ID, action.Name)
	return Candidate{
		Ref:        ref,
		Key:        ref.Key(),
		Name:       display,
		Ingredient: ingredient,
		PrepAction: action,
		Confidence: m.boost(score, q, ingredient),
		MatchedOn:  matched,
		ViaAlias:   viaAlias,
		Exact:      exact,
	}, true
}

// bestName scores q against the ingredient name and each alias. Alias
// scores carry the alias boost.
func (m *Matcher) bestName(q string, ingredient *models.Ingredient) (score float64, matched string, viaAlias, exact bool) {
	score, matched = m.Score(q, ingredient.Name), ingredient.Name
	if score >= m.tuning.Exact {
		return score, matched, false, true
	}
	for _, alias := range ingredient.Aliases {
		raw := m.Score(q, alias)
		if raw <= 0 {
			continue
		}
		boosted := clamp(raw + m.tuning.AliasBoost)
		if boosted > score {
			score, matched, viaAlias, exact = boosted, alias, true, raw >= m.tuning.Exact
		}
	}
	return score, matched, viaAlias, exact
}

func (m *Matcher) boost(score float64, q string, ingredient *models.Ingredient) float64 {
	if score <= 0 {
		return 0
	}
	if spirit := normalize(ingredient.SpiritType); spirit != "" && containsWord(q, spirit) {
		score += m.tuning.SpiritTypeBoost
	}
	category := strings.ToLower(ingredient.Category)
	if strings.Contains(category, "spirit") || strings.Contains(category, "liquor") {
		score += m.tuning.SpiritCategoryBoost
	}
	return clamp(score)
}

// Score compares two names and returns a similarity from 0 to 100.
func (m *Matcher) Score(query, name string) float64 {
	q, n := normalize(query), normalize(name)
	if q == "" || n == "" {
		return 0
	}
	if q == n {
		return m.tuning.Exact
	}

	score := m.tokenOverlap(q, n) * 100
	switch {
	case containsWord(n, q):
		score = max(score, m.tuning.QueryInCandidateFloor)
	case containsWord(q, n):
		score = max(score, m.tuning.CandidateInQueryFloor)
	}
	score = max(score, similarity(q, n)*100*m.tuning.SimilarityWeight)

	// only an exact match may reach the exact score
	return min(clamp(score), m.tuning.Exact-1)
}

// tokenOverlap credits each query token found in the name, over the token
// count of the longer side, so extra words on either side cost score.
func (m *Matcher) tokenOverlap(q, n string) float64 {
	queryTokens := strings.Fields(q)
	nameTokens := strings.Fields(n)
	if len(queryTokens) == 0 || len(nameTokens) == 0 {
		return 0
	}

	total := 0.0
	for _, qt := range queryTokens {
		credit := 0.0
		for _, nt := range nameTokens {
			if qt == nt {
				credit = 1
				break
			}
			if m.affixMatch(qt, nt) {
				credit = m.tuning.PartialTokenWeight
			}
		}
		total += credit
	}
	return total / float64(max(len(queryTokens), len(nameTokens)))
}

func (m *Matcher) affixMatch(a, b string) bool {
	if len(a) < m.tuning.MinAffixLength || len(b) < m.tuning.MinAffixLength {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a) ||
		strings.HasSuffix(a, b) || strings.HasSuffix(b, a)
}

func similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

// normalize folds case and turns punctuation into spaces.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return naming.Key(mapped)
}

func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

func splitAction(query string) (string, string) {
	basePart, actionPart, found := strings.Cut(query, ",")
	if !found {
		return strings.TrimSpace(query), ""
	}
	return strings.TrimSpace(basePart), strings.TrimSpace(actionPart)
}

func stripFresh(q string) string {
	for _, prefix := range []string{"freshly squeezed ", "fresh squeezed ", "fresh "} {
		if strings.HasPrefix(q, prefix) {
			return strings.TrimPrefix(q, prefix)
		}
	}
	return q
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
