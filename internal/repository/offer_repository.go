package repository

import (
	"database/sql"

	"github.com/rusthp/voxelpromo-sub005/internal/model"
)

// OfferRepository persists collected offers. The feed cache itself lives on
// disk; this table is the durable store the rest of the application reads.
type OfferRepository struct {
	DB *sql.DB
}

// Save upserts one offer keyed on source plus affiliate URL.
func (r *OfferRepository) Save(o model.Offer) error {
	var exists bool
	err := r.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM offers WHERE source = $1 AND affiliate_url = $2)",
		o.Source, o.AffiliateURL,
	).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		_, err = r.DB.Exec(`
			UPDATE offers
			SET title = $1, description = $2, image_url = $3,
			    current_price = $4, original_price = $5,
			    discount = $6, discount_percentage = $7,
			    category = $8, brand = $9, is_active = $10
			WHERE source = $11 AND affiliate_url = $12
		`, o.Title, o.Description, o.ImageURL,
			o.CurrentPrice, o.OriginalPrice,
			o.Discount, o.DiscountPercentage,
			o.Category, o.Brand, o.IsActive,
			o.Source, o.AffiliateURL)
	} else {
		_, err = r.DB.Exec(`
			INSERT INTO offers
			(id, title, description, product_url, affiliate_url, image_url,
			 current_price, original_price, discount, discount_percentage,
			 currency, category, brand, source, is_active, is_posted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`, o.ID, o.Title, o.Description, o.ProductURL, o.AffiliateURL, o.ImageURL,
			o.CurrentPrice, o.OriginalPrice, o.Discount, o.DiscountPercentage,
			o.Currency, o.Category, o.Brand, o.Source, o.IsActive, o.IsPosted)
	}

	return err
}

// ListUnposted returns active offers not yet published to any channel.
func (r *OfferRepository) ListUnposted(limit int) ([]model.Offer, error) {
	rows, err := r.DB.Query(`
		SELECT id, title, description, product_url, affiliate_url, image_url,
		       current_price, original_price, discount, discount_percentage,
		       currency, category, brand, source
		FROM offers
		WHERE is_active = true AND is_posted = false
		ORDER BY discount_percentage DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Offer
	for rows.Next() {
		var o model.Offer
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.ProductURL, &o.AffiliateURL, &o.ImageURL,
			&o.CurrentPrice, &o.OriginalPrice, &o.Discount, &o.DiscountPercentage,
			&o.Currency, &o.Category, &o.Brand, &o.Source); err != nil {
			return nil, err
		}
		o.IsActive = true
		list = append(list, o)
	}

	return list, rows.Err()
}
