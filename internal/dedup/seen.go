package dedup

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const seenTTL = 24 * time.Hour

// SeenStore remembers which offers were already collected in the current
// window, so repeated collection cycles do not re-persist and re-publish
// the same offer.
type SeenStore struct {
	Client *redis.Client
}

// MarkNew records the offer key and reports whether it was unseen. Redis
// being down counts as unseen; collection keeps working without dedup.
func (s *SeenStore) MarkNew(ctx context.Context, source, affiliateURL string) bool {
	key := "offer:seen:" + source + ":" + hash(affiliateURL)

	ok, err := s.Client.SetNX(ctx, key, 1, seenTTL).Result()
	if err != nil {
		return true
	}
	return ok
}

func hash(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}
