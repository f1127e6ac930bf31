package awin

// Advertiser feeds are not consistent about column naming: most use the
// standard Awin datafeed columns, a sizeable minority re-export a Google
// Shopping feed. Each logical field therefore has an ordered candidate list
// probed first-match by pick.

var (
	titleKeys = []string{"product_name", "title", "Product Name", "name"}
	idKeys    = []string{"aw_product_id", "product_id", "id", "merchant_product_id"}

	salePriceKeys  = []string{"sale_price", "display_price", "product_sale_price"}
	priceKeys      = []string{"search_price", "price", "store_price", "product_price"}
	listPriceKeys  = []string{"rrp_price", "base_price", "high_price", "list_price"}
	currencyKeys   = []string{"currency", "display_price_currency"}
	deepLinkKeys   = []string{"aw_deep_link", "deep_link", "deeplink", "link"}
	productURLKeys = []string{"merchant_deep_link", "product_url", "url", "link"}
	imageKeys      = []string{"merchant_image_url", "aw_image_url", "image_url", "image_link", "large_image"}
	categoryKeys   = []string{"merchant_category", "category_name", "google_product_category", "category", "product_type"}
	brandKeys      = []string{"brand_name", "brand", "merchant_name"}
	descKeys       = []string{"description", "product_short_description", "specifications"}

	advertiserIDKeys = []string{"Advertiser ID", "advertiser_id", "advertiserId", "Merchant ID", "merchant_id"}
	feedURLKeys      = []string{"URL", "url", "feed_url", "Feed URL", "download_url"}
	feedIDKeys       = []string{"Feed ID", "feed_id", "feedId"}
	membershipKeys   = []string{"Membership Status", "membership_status", "status"}
)

// AdvertiserIDOf resolves the advertiser id column of a raw feed-list
// record, whatever the export calls it.
func AdvertiserIDOf(record map[string]string) string {
	return pick(record, advertiserIDKeys)
}

// pick returns the first non-empty value among the candidate keys.
func pick(record map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := record[k]; ok && v != "" {
			return v
		}
	}
	return ""
}
