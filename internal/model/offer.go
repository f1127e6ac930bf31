package model

// Offer is the canonical product record produced from an affiliate feed row.
// One generation of offers is produced per advertiser fetch; records are
// never mutated after creation.
type Offer struct {
	ID                 string   `json:"id,omitempty"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	ProductURL         string   `json:"productUrl,omitempty"`
	AffiliateURL       string   `json:"affiliateUrl"`
	ImageURL           string   `json:"imageUrl,omitempty"`
	CurrentPrice       float64  `json:"currentPrice"`
	OriginalPrice      float64  `json:"originalPrice"`
	Discount           float64  `json:"discount"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Currency           string   `json:"currency"`
	Category           string   `json:"category"`
	Brand              string   `json:"brand,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Source             string   `json:"source"`
	IsActive           bool     `json:"isActive"`
	IsPosted           bool     `json:"isPosted"`
}
