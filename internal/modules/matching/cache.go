// README: Redis-backed cache for geocoding and routing results.
package matching

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"movelink/internal/types"
)

const (
	geoKeyPrefix  = "matching:geo:%s"
	distKeyPrefix = "matching:dist:%s"
)

// Cache memoizes routing-service answers across pair evaluations and
// across runs. A nil *Cache is valid and behaves as a permanent miss, so
// the estimator works without Redis.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(redis *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: redis, ttl: ttl}
}

func (c *Cache) GetPoint(ctx context.Context, query string) (types.Point, bool) {
	if c == nil || c.redis == nil {
		return types.Point{}, false
	}
	val, err := c.redis.Get(ctx, geoKey(query)).Result()
	if err != nil {
		return types.Point{}, false
	}
	parts := strings.SplitN(val, ",", 2)
	if len(parts) != 2 {
		return types.Point{}, false
	}
	lat, err1 := strconv.ParseFloat(parts[0], 64)
	lng, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return types.Point{}, false
	}
	return types.Point{Lat: lat, Lng: lng}, true
}

func (c *Cache) SetPoint(ctx context.Context, query string, p types.Point) {
	if c == nil || c.redis == nil {
		return
	}
	val := fmt.Sprintf("%f,%f", p.Lat, p.Lng)
	_ = c.redis.Set(ctx, geoKey(query), val, c.ttl).Err()
}

func (c *Cache) GetDistance(ctx context.Context, origin, dest types.Point) (float64, bool) {
	if c == nil || c.redis == nil {
		return 0, false
	}
	val, err := c.redis.Get(ctx, distKey(origin, dest)).Result()
	if err != nil {
		return 0, false
	}
	km, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return km, true
}

func (c *Cache) SetDistance(ctx context.Context, origin, dest types.Point, km float64) {
	if c == nil || c.redis == nil {
		return
	}
	_ = c.redis.Set(ctx, distKey(origin, dest), strconv.FormatFloat(km, 'f', 3, 64), c.ttl).Err()
}

func geoKey(query string) string {
	return fmt.Sprintf(geoKeyPrefix, strings.ToLower(strings.TrimSpace(query)))
}

func distKey(origin, dest types.Point) string {
	// 4 decimal places ≈ 11m, plenty for postal-code level addresses.
	return fmt.Sprintf(distKeyPrefix, fmt.Sprintf("%.4f,%.4f:%.4f,%.4f",
		origin.Lat, origin.Lng, dest.Lat, dest.Lng))
}
