package matcher

import (
	"sort"

	"resumatch/internal/domain"
	"resumatch/internal/embedding"
)

// Match ranks the target documents against the query vector by cosine
// similarity (inner product over unit vectors) and returns the topK best.
// Scores for all targets are computed in one pass; target sets are small, so
// a full stable sort keeps the ranking deterministic, with equal scores
// preserving row order.
func Match(query []float32, targets [][]float32, metas []domain.DocMeta, topK int) []domain.MatchResult {
	if len(targets) == 0 || topK <= 0 {
		return nil
	}

	results := make([]domain.MatchResult, len(targets))
	for i, target := range targets {
		var meta domain.DocMeta
		if i < len(metas) {
			meta = metas[i]
		}
		results[i] = domain.MatchResult{
			JobIndex:  i,
			JobID:     meta.ID,
			JobSource: meta.Source,
			Score:     embedding.Dot(query, target),
			JobMeta:   meta,
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

// MatchSingle ranks one target, accepting a flat vector instead of a batch.
func MatchSingle(query []float32, target []float32, meta domain.DocMeta) domain.MatchResult {
	res := Match(query, [][]float32{target}, []domain.DocMeta{meta}, 1)
	return res[0]
}

// SqueezeQuery flattens a batch-of-one query, as produced by a batch encode
// call, into a single vector.
func SqueezeQuery(batch [][]float32) []float32 {
	if len(batch) == 0 {
		return nil
	}
	return batch[0]
}
