package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Portoviejo360-pucesm/alquileres-hub-pucem/models"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const searchCacheTTL = 60 * time.Second

// SearchService answers the public availability queries. Results are cached
// in Redis per filter set; cache errors are ignored, the database always
// remains the source of truth.
type SearchService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewSearchService(db *gorm.DB, cache *redis.Client) *SearchService {
	return &SearchService{db: db, cache: cache}
}

type SearchFilters struct {
	Status           string
	TargetAudienceID uint
	PriceMin         float64
	PriceMax         float64
	Furnished        *bool
}

func (f SearchFilters) cacheKey() string {
	furnished := "any"
	if f.Furnished != nil {
		furnished = fmt.Sprintf("%t", *f.Furnished)
	}
	return fmt.Sprintf("search:%s:%d:%g:%g:%s", f.Status, f.TargetAudienceID, f.PriceMin, f.PriceMax, furnished)
}

func (s *SearchService) Search(ctx context.Context, filters SearchFilters) ([]models.Property, error) {
	key := filters.cacheKey()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var properties []models.Property
			if err := json.Unmarshal([]byte(cached), &properties); err == nil {
				return properties, nil
			}
		}
	}

	query := s.db.Model(&models.Property{})

	if filters.Status != "" {
		query = query.Joins("JOIN property_statuses ps ON ps.id = properties.status_id").
			Where("UPPER(ps.name) = UPPER(?)", filters.Status)
	}
	if filters.TargetAudienceID != 0 {
		query = query.Where("properties.target_audience_id = ?", filters.TargetAudienceID)
	}
	if filters.PriceMin > 0 {
		query = query.Where("properties.monthly_price >= ?", filters.PriceMin)
	}
	if filters.PriceMax > 0 {
		query = query.Where("properties.monthly_price <= ?", filters.PriceMax)
	}
	if filters.Furnished != nil {
		query = query.Where("properties.furnished = ?", *filters.Furnished)
	}

	var properties []models.Property
	err := query.
		Preload("Status").
		Preload("TargetAudience").
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC") }).
		Order("properties.id DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(properties); err == nil {
			if err := s.cache.Set(ctx, key, payload, searchCacheTTL).Err(); err != nil {
				log.Printf("search cache set failed: %v", err)
			}
		}
	}

	return properties, nil
}
