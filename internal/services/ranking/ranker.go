package ranking

import (
	"sort"
	"time"

	"OptEdge/internal/domain/models"
)

// Filter holds the minimum thresholds a candidate must meet to be ranked.
// MinScore applies to full-variant confidence, MinAttractiveness to basic-variant
// attractiveness; the two scores live on different scales.
type Filter struct {
	MinPremium        float64
	MinVolume         int64
	MinScore          float64
	MinAttractiveness float64
}

// Accept reports whether c passes every threshold.
func (f Filter) Accept(c models.OptionCandidate) bool {
	if c.Premium < f.MinPremium || c.Volume < f.MinVolume {
		return false
	}
	if c.Variant == models.VariantBasic {
		return c.Attractiveness >= f.MinAttractiveness
	}
	return c.Confidence >= f.MinScore
}

type contractKey struct {
	ticker string
	ct     models.ContractType
	expiry string
	strike float64
}

func keyOf(c models.OptionCandidate) contractKey {
	return contractKey{ticker: c.Ticker, ct: c.ContractType, expiry: c.ExpiryDate.Format(time.DateOnly), strike: c.Strike}
}

type Ranker struct {
	filter Filter
}

func NewRanker(f Filter) *Ranker { return &Ranker{filter: f} }

// Rank filters cands, drops repeats of the same contract (first one wins) and
// orders the rest by descending score. Ties keep their input order.
// The input slice is not modified.
func (r *Ranker) Rank(cands []models.OptionCandidate) []models.OptionCandidate {
	out := make([]models.OptionCandidate, 0, len(cands))
	seen := make(map[contractKey]struct{}, len(cands))
	for _, c := range cands {
		if !r.filter.Accept(c) {
			continue
		}
		k := keyOf(c)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	sortByScore(out)
	return out
}

// TopPerTicker ranks one instrument's candidates and keeps the best k.
func (r *Ranker) TopPerTicker(cands []models.OptionCandidate, k int) []models.OptionCandidate {
	return head(r.Rank(cands), k)
}

// TopGlobal merges per-instrument lists, given in instrument order, into one list of the best n.
func (r *Ranker) TopGlobal(lists [][]models.OptionCandidate, n int) []models.OptionCandidate {
	var all []models.OptionCandidate
	for _, l := range lists {
		all = append(all, l...)
	}
	return head(r.Rank(all), n)
}

func sortByScore(cs []models.OptionCandidate) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Score() > cs[j].Score() })
}

func head(cs []models.OptionCandidate, n int) []models.OptionCandidate {
	if n >= 0 && len(cs) > n {
		return cs[:n]
	}
	return cs
}
