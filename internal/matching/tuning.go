package matching

// Tuning holds every constant the ranking depends on.
type Tuning struct {
	// Exact is the score of an exact normalised match.
	Exact float64
	// PartialTokenWeight is the credit for a query token that only matches
	// a candidate token by prefix or suffix.
	PartialTokenWeight float64
	// MinAffixLength is the shortest token eligible for partial matching.
	MinAffixLength int
	// QueryInCandidateFloor and CandidateInQueryFloor are the minimum scores
	// for whole-word containment in either direction.
	QueryInCandidateFloor float64
	CandidateInQueryFloor float64
	// SimilarityWeight scales the edit-distance similarity (0-100).
	SimilarityWeight float64

	SpiritTypeBoost     float64
	SpiritCategoryBoost float64
	AliasBoost          float64

	BroadThreshold   float64
	SuggestThreshold float64
	StrongThreshold  float64

	// Limit caps the number of candidates returned.
	Limit int
}

// DefaultTuning returns the production ranking constants.
func DefaultTuning() Tuning {
	return Tuning{
		Exact:                 100,
		PartialTokenWeight:    0.8,
		MinAffixLength:        4,
		QueryInCandidateFloor: 90,
		CandidateInQueryFloor: 85,
		SimilarityWeight:      0.9,
		SpiritTypeBoost:       10,
		SpiritCategoryBoost:   5,
		AliasBoost:            15,
		BroadThreshold:        40,
		SuggestThreshold:      60,
		StrongThreshold:       70,
		Limit:                 5,
	}
}
