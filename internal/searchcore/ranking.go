package searchcore

import "math"

// RankingWeights tunes the query engine's BM25-variant scoring. The
// defaults match the original search core's tuning and are only ever
// changed by an operator who understands the tradeoffs documented on
// each field.
type RankingWeights struct {
	// TermSimilarity controls how much a matched word's length differs
	// from the query term before its contribution decays. Larger values
	// decay faster; must be >= 0.
	TermSimilarity float32
	// PageLength controls how much page length relative to the corpus
	// average affects ranking. Expected in [0, 1]; not clamped.
	PageLength float32
	// TermSaturation controls how quickly a repeated term's contribution
	// saturates. Expected in [0, 2]; not clamped.
	TermSaturation float32
	// TermFrequency interpolates between BM25 term frequency (1.0) and
	// raw weighted word count (0.0). Expected in [0, 1]; not clamped.
	TermFrequency float32
}

// DefaultRankingWeights returns the tuning used when a caller doesn't
// override it.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		TermSimilarity: 1.0,
		PageLength:     0.75,
		TermSaturation: 1.4,
		TermFrequency:  1.0,
	}
}

// wordLengthBonus scores how closely a matched vocabulary word's length
// matches the query term it extended from. differential is
// |len(word)-len(term)|+1; as termSimilarity trends to zero the bonus
// trends to 1.0 regardless of differential.
func wordLengthBonus(differential uint8, termSimilarity float32) float32 {
	const stdDev = 2.0
	base := math.Exp(-0.5 * math.Pow(float64(differential), 2) / (stdDev * stdDev))
	maxValue := math.Exp(float64(termSimilarity))
	return float32(math.Exp(base*float64(termSimilarity)) / maxValue)
}

// BM25Params is the per-(page,term) input to the scoring function.
type BM25Params struct {
	WeightedTermFrequency float32
	DocumentLength        float32
	AveragePageLength     float32
	TotalPages            int
	PagesContainingTerm   int
	LengthBonus           float32
}

// ScoringMetrics is the breakdown behind one term's contribution to a
// page's score, exposed for playground/verbose diagnostics.
type ScoringMetrics struct {
	IDF        float32
	BM25TF     float32
	RawTF      float32
	PagefindTF float32
	Score      float32
}

func calculateBM25WordScore(p BM25Params, ranking RankingWeights) ScoringMetrics {
	weightedWithLength := p.WeightedTermFrequency * p.LengthBonus

	k1 := ranking.TermSaturation
	b := ranking.PageLength

	idf := float32(math.Log(
		float64((float32(p.TotalPages)-float32(p.PagesContainingTerm)+0.5)/(float32(p.PagesContainingTerm)+0.5)) + 1,
	))

	bm25tf := (k1 + 1.0) * weightedWithLength /
		(k1*(1.0-b+b*(p.DocumentLength/p.AveragePageLength)) + weightedWithLength)

	// Scale the raw weighted count to roughly the same bounds as BM25's
	// output (k1+1) so term_frequency can interpolate between the two.
	rawCountScalar := p.AveragePageLength / 5.0
	rawTF := weightedWithLength / rawCountScalar
	if rawTF > k1+1.0 {
		rawTF = k1 + 1.0
	}

	pagefindTF := (1.0-ranking.TermFrequency)*rawTF + ranking.TermFrequency*bm25tf

	return ScoringMetrics{
		IDF:        idf,
		BM25TF:     bm25tf,
		RawTF:      rawTF,
		PagefindTF: pagefindTF,
		Score:      idf * pagefindTF,
	}
}

// BalancedWordScore is one coalesced word match on a page: its weight,
// its balanced (weight^2 * length bonus) contribution, and its position.
type BalancedWordScore struct {
	Weight        uint8
	BalancedScore float32
	WordLocation  uint32
}

func calculateIndividualWordScore(weight uint8, lengthBonus float32, location uint32) BalancedWordScore {
	return BalancedWordScore{
		Weight:        weight,
		BalancedScore: float32(math.Pow(float64(weight), 2)) * lengthBonus,
		WordLocation:  location,
	}
}

// PageSearchResult is one page's ranked match for a query.
type PageSearchResult struct {
	Page          string
	PageIndex     int
	PageLength    uint32
	PageScore     float32
	WordLocations []BalancedWordScore
}
