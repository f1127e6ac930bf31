package awin

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rusthp/voxelpromo-sub005/internal/model"
)

// Source identifies this network on every offer it produces.
const Source = "awin"

var currencyCodeRe = regexp.MustCompile(`[A-Za-z]{3}`)

// parsePrice turns an advertiser price string into a float. Currency codes
// ("BRL 99,90") are stripped and decimal commas normalized. Anything that
// still fails to parse counts as zero.
func parsePrice(s string) float64 {
	s = strings.TrimSpace(currencyCodeRe.ReplaceAllString(s, ""))
	s = strings.TrimSpace(strings.Trim(s, "R$ "))
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// stripHTML flattens an HTML fragment into plain text. Advertisers routinely
// ship descriptions as HTML.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Normalize maps one raw feed record into the canonical offer shape.
// Returns nil when the row is unusable: no title and no id, or no
// trackable affiliate link after field resolution.
func Normalize(record map[string]string) *model.Offer {
	title := pick(record, titleKeys)
	id := pick(record, idKeys)
	if title == "" && id == "" {
		return nil
	}
	if title == "" {
		title = "Produto " + id
	}

	affiliateURL := pick(record, deepLinkKeys)
	if affiliateURL == "" {
		return nil
	}

	var currentPrice, originalPrice float64
	if sale := pick(record, salePriceKeys); sale != "" {
		currentPrice = parsePrice(sale)
		originalPrice = parsePrice(pick(record, listPriceKeys))
		if originalPrice == 0 {
			originalPrice = parsePrice(pick(record, priceKeys))
		}
	} else {
		currentPrice = parsePrice(pick(record, priceKeys))
		originalPrice = parsePrice(pick(record, listPriceKeys))
	}

	// Whichever price is missing mirrors the other, so a single price
	// signal never leaves one side at zero.
	if currentPrice == 0 && originalPrice > 0 {
		currentPrice = originalPrice
	}
	if originalPrice == 0 && currentPrice > 0 {
		originalPrice = currentPrice
	}

	discount := originalPrice - currentPrice
	if discount < 0 {
		discount = 0
	}
	var discountPct float64
	if originalPrice > 0 {
		discountPct = discount / originalPrice * 100
	}

	currency := pick(record, currencyKeys)
	if currency == "" {
		currency = "BRL"
	}

	category := pick(record, categoryKeys)
	if category == "" {
		category = "outros"
	}

	brand := pick(record, brandKeys)

	description := stripHTML(pick(record, descKeys))
	if description == "" {
		description = title
	}

	tags := []string{Source}
	if brand != "" {
		tags = append(tags, strings.ToLower(brand))
	}

	return &model.Offer{
		Title:              title,
		Description:        description,
		ProductURL:         pick(record, productURLKeys),
		AffiliateURL:       affiliateURL,
		ImageURL:           pick(record, imageKeys),
		CurrentPrice:       currentPrice,
		OriginalPrice:      originalPrice,
		Discount:           discount,
		DiscountPercentage: discountPct,
		Currency:           currency,
		Category:           category,
		Brand:              brand,
		Tags:               tags,
		Source:             Source,
		IsActive:           true,
		IsPosted:           false,
	}
}
