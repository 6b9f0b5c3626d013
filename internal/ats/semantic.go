package ats

import (
	"context"
	"math"

	"go.uber.org/zap"
)

// maxEmbedChars bounds the text sent to the embedding model.
const maxEmbedChars = 8000

// Hybrid weights of the semantic scorer.
const (
	HybridWeightKeyword  = 0.6
	HybridWeightSemantic = 0.4
)

// Embedder generates a fixed-length embedding vector for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// HybridScore combines keyword overlap with embedding similarity.
type HybridScore struct {
	Overall       float64 `json:"overall"`
	KeywordScore  float64 `json:"keyword_score"`
	SemanticScore float64 `json:"semantic_score"`
}

// SemanticScorer scores texts by cosine similarity of their embeddings.
type SemanticScorer struct {
	embedder Embedder
	tagger   KeywordTagger
	logger   *zap.Logger
}

// NewSemanticScorer creates a SemanticScorer. The tagger feeds the keyword half of
// the hybrid score; a nil logger disables logging.
func NewSemanticScorer(embedder Embedder, tagger KeywordTagger, logger *zap.Logger) *SemanticScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemanticScorer{embedder: embedder, tagger: tagger, logger: logger}
}

// Similarity returns cosine similarity ×100 clamped to [0,100]. Embedding
// failures degrade to 0.
func (s *SemanticScorer) Similarity(ctx context.Context, jobText, resumeText string) float64 {
	if s.embedder == nil {
		return 0
	}

	jobVec, err := s.embedder.Embed(ctx, truncateRunes(jobText, maxEmbedChars))
	if err != nil {
		s.logger.Warn("job embedding failed", zap.Error(err))
		return 0
	}
	resumeVec, err := s.embedder.Embed(ctx, truncateRunes(resumeText, maxEmbedChars))
	if err != nil {
		s.logger.Warn("resume embedding failed", zap.Error(err))
		return 0
	}

	return clamp(CosineSimilarity(jobVec, resumeVec) * 100)
}

// Hybrid returns 0.6×keyword + 0.4×semantic, rounded to two decimals.
func (s *SemanticScorer) Hybrid(ctx context.Context, jobText, resumeText string) HybridScore {
	keyword := (&Scorer{tagger: s.tagger}).keywordScore(jobText, resumeText)
	semantic := s.Similarity(ctx, jobText, resumeText)

	return HybridScore{
		Overall:       clamp(round2(HybridWeightKeyword*keyword + HybridWeightSemantic*semantic)),
		KeywordScore:  round2(keyword),
		SemanticScore: round2(semantic),
	}
}

// CosineSimilarity returns the cosine of the angle between two vectors. Zero-length
// vectors or a zero magnitude yield 0. Extra trailing dimensions are ignored.
func CosineSimilarity(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
