package filter

import (
	"strings"

	"github.com/rusthp/voxelpromo-sub005/internal/model"
)

// Options selects a subset of offers. Nil pointer fields mean "no
// constraint": an absent threshold is not the same thing as a zero one.
type Options struct {
	MinPrice    *float64 `json:"minPrice,omitempty"`
	MaxPrice    *float64 `json:"maxPrice,omitempty"`
	MinDiscount *float64 `json:"minDiscount,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	MaxProducts int      `json:"maxProducts,omitempty"`
}

// Apply filters offers with every configured predicate ANDed together, then
// truncates to MaxProducts when it is positive.
func Apply(offers []model.Offer, opts Options) []model.Offer {
	out := make([]model.Offer, 0, len(offers))
	for _, o := range offers {
		if opts.MinPrice != nil && o.CurrentPrice < *opts.MinPrice {
			continue
		}
		if opts.MaxPrice != nil && o.CurrentPrice > *opts.MaxPrice {
			continue
		}
		if opts.MinDiscount != nil && o.DiscountPercentage < *opts.MinDiscount {
			continue
		}
		if len(opts.Categories) > 0 && !matchesCategory(o.Category, opts.Categories) {
			continue
		}
		out = append(out, o)
	}

	if opts.MaxProducts > 0 && len(out) > opts.MaxProducts {
		out = out[:opts.MaxProducts]
	}
	return out
}

func matchesCategory(category string, wanted []string) bool {
	c := strings.ToLower(category)
	for _, w := range wanted {
		if strings.Contains(c, strings.ToLower(w)) {
			return true
		}
	}
	return false
}
