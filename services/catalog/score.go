package catalog

import (
	"math"
	"strings"
)

// Scoring weights. Popularity and vote volume are the population-level
// signals; the text-match tiers push a literal match above a more popular
// but loosely-related title.
const (
	popularityWeight = 2
	voteCountWeight  = 30
	ratingWeight     = 5

	exactMatchBonus     = 500
	prefixMatchBonus    = 200
	substringMatchBonus = 100

	posterBonus   = 20
	backdropBonus = 10

	// Titles with almost no votes are usually junk data; scale them down
	// instead of excluding them outright.
	lowVoteThreshold = 5
	lowVotePenalty   = 0.3
)

// relevanceScore ranks a raw candidate against a search query. Deterministic
// and total; higher is better.
func relevanceScore(item tmdbTitle, query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	title := strings.ToLower(displayTitle(item))
	original := strings.ToLower(originalTitle(item))

	score := item.Popularity * popularityWeight

	// log10 compresses the vote-count long tail: 5000 votes should not beat
	// 500 votes by 10x.
	score += math.Log10(math.Max(float64(item.VoteCount), 1)) * voteCountWeight

	score += item.VoteAverage * ratingWeight

	switch {
	case title == q || original == q:
		score += exactMatchBonus
	case strings.HasPrefix(title, q) || strings.HasPrefix(original, q):
		score += prefixMatchBonus
	case strings.Contains(title, q) || strings.Contains(original, q):
		score += substringMatchBonus
	}

	if item.PosterPath != "" {
		score += posterBonus
	}
	if item.BackdropPath != "" {
		score += backdropBonus
	}

	// Applied last and multiplicatively so it scales with the accumulated
	// score rather than overcorrecting high scorers.
	if item.VoteCount < lowVoteThreshold {
		score *= lowVotePenalty
	}

	return score
}
