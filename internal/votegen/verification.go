package votegen

import "github.com/okian/arena/internal/domain/types"

// Concordance returns the fraction of competitor pairs that entries order
// the same way as the true ratings. Pairs with equal true ratings and
// competitors missing from entries are skipped. It returns 1 when no pair
// can be compared.
func Concordance(truth []Competitor, entries []types.Entry) float64 {
	fitted := make(map[string]float64, len(entries))
	for _, e := range entries {
		fitted[e.Model] = e.Rating
	}
	agree, total := 0, 0
	for i := 0; i < len(truth); i++ {
		ri, ok := fitted[truth[i].Name]
		if !ok {
			continue
		}
		for j := i + 1; j < len(truth); j++ {
			rj, ok := fitted[truth[j].Name]
			if !ok || truth[i].Rating == truth[j].Rating {
				continue
			}
			total++
			if (truth[i].Rating > truth[j].Rating) == (ri > rj) {
				agree++
			}
		}
	}
	if total == 0 {
		return 1
	}
	return float64(agree) / float64(total)
}
