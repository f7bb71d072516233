package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"marcenapp/internal/models"
)

const (
	supplierCacheTTL     = 30 * time.Minute
	supplierCachePrefix  = "supplier-search:"
	supplierRedisTimeout = 2 * time.Second
)

// SupplierService answers price and availability questions through the
// grounded search flow. Answers are cached: in process always, and in Redis
// as a shared second tier when a client is configured. Redis being down
// never fails a lookup.
type SupplierService struct {
	ai      AIGateway
	metrics *Metrics

	local *cache.Cache
	redis *redis.Client
}

// NewSupplierService creates a new supplier search service. redisClient may
// be nil for single-instance deployments.
func NewSupplierService(ai AIGateway, redisClient *redis.Client, metrics *Metrics) *SupplierService {
	return &SupplierService{
		ai:      ai,
		metrics: metrics,
		local:   cache.New(supplierCacheTTL, 10*time.Minute),
		redis:   redisClient,
	}
}

// Search runs a grounded supplier query, serving repeats from cache.
func (s *SupplierService) Search(ctx context.Context, req models.SupplierSearchRequest) (*models.SupplierSearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("consulta de fornecedor vazia")
	}

	key := supplierCacheKey(query, req.Location)
	if cached := s.lookupCache(ctx, key); cached != nil {
		cached.Cached = true
		return cached, nil
	}

	start := time.Now()
	answer, citations, err := s.ai.GenerateGroundedText(ctx, supplierQuery(query), req.Location)
	s.metrics.observe("supplier_search", start, err)
	if err != nil {
		return nil, err
	}

	result := &models.SupplierSearchResult{
		Answer:    answer,
		Citations: citations,
	}
	s.storeCache(ctx, key, result)
	return result, nil
}

// SweepExpired drops expired in-process entries. Wired as a periodic job so
// long-idle servers do not hold stale answers in memory.
func (s *SupplierService) SweepExpired() {
	s.local.DeleteExpired()
}

func (s *SupplierService) lookupCache(ctx context.Context, key string) *models.SupplierSearchResult {
	if hit, ok := s.local.Get(key); ok {
		if result, ok := hit.(*models.SupplierSearchResult); ok {
			copied := *result
			return &copied
		}
	}

	if s.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, supplierRedisTimeout)
	defer cancel()

	raw, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		log.Printf("⚠️ Supplier cache read from Redis failed: %v", err)
		return nil
	}

	var result models.SupplierSearchResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Printf("⚠️ Discarding corrupt supplier cache entry %s: %v", key, err)
		return nil
	}
	// Promote to the in-process tier for the remainder of the TTL.
	s.local.Set(key, &result, cache.DefaultExpiration)
	copied := result
	return &copied
}

func (s *SupplierService) storeCache(ctx context.Context, key string, result *models.SupplierSearchResult) {
	s.local.Set(key, result, cache.DefaultExpiration)

	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, supplierRedisTimeout)
	defer cancel()
	if err := s.redis.Set(ctx, key, raw, supplierCacheTTL).Err(); err != nil {
		log.Printf("⚠️ Supplier cache write to Redis failed: %v", err)
	}
}

// supplierCacheKey folds the normalized query and a coarse location grid into
// one key, so nearby callers share answers.
func supplierCacheKey(query string, location *models.Coordinates) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	if location != nil {
		normalized = fmt.Sprintf("%s|%.2f,%.2f", normalized, location.Latitude, location.Longitude)
	}
	sum := sha256.Sum256([]byte(normalized))
	return supplierCachePrefix + hex.EncodeToString(sum[:16])
}
