package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/triaxx-pos/internal/cache"
	"github.com/triaxx-pos/internal/logger"
	"github.com/triaxx-pos/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository 菜品/加料/规格只读查询，不存在时返回 nil 而非错误
type CatalogRepository interface {
	GetItem(id uint) (*models.CatalogItem, error)
	GetAddon(id uint) (*models.CatalogAddon, error)
	GetVariant(id uint) (*models.CatalogVariant, error)
}

// GormCatalogRepository GORM 实现
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建菜品仓库
func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// GetItem 获取菜品
func (r *GormCatalogRepository) GetItem(id uint) (*models.CatalogItem, error) {
	var item models.CatalogItem
	return firstOrNil(r.db, &item, id)
}

// GetAddon 获取加料
func (r *GormCatalogRepository) GetAddon(id uint) (*models.CatalogAddon, error) {
	var addon models.CatalogAddon
	return firstOrNil(r.db, &addon, id)
}

// GetVariant 获取规格
func (r *GormCatalogRepository) GetVariant(id uint) (*models.CatalogVariant, error) {
	var variant models.CatalogVariant
	return firstOrNil(r.db, &variant, id)
}

func firstOrNil[T any](db *gorm.DB, dest *T, id uint) (*T, error) {
	if id == 0 {
		return nil, nil
	}
	if err := db.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return dest, nil
}

// CachedCatalogRepository 在 Redis 中缓存菜品价格数据，Redis 未启用时直接透传
type CachedCatalogRepository struct {
	next CatalogRepository
	ttl  time.Duration
}

// NewCachedCatalogRepository 创建带缓存的菜品仓库
func NewCachedCatalogRepository(next CatalogRepository, ttl time.Duration) *CachedCatalogRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedCatalogRepository{next: next, ttl: ttl}
}

// GetItem 获取菜品
func (r *CachedCatalogRepository) GetItem(id uint) (*models.CatalogItem, error) {
	return cachedLookup(fmt.Sprintf("catalog:item:%d", id), r.ttl, func() (*models.CatalogItem, error) {
		return r.next.GetItem(id)
	})
}

// GetAddon 获取加料
func (r *CachedCatalogRepository) GetAddon(id uint) (*models.CatalogAddon, error) {
	return cachedLookup(fmt.Sprintf("catalog:addon:%d", id), r.ttl, func() (*models.CatalogAddon, error) {
		return r.next.GetAddon(id)
	})
}

// GetVariant 获取规格
func (r *CachedCatalogRepository) GetVariant(id uint) (*models.CatalogVariant, error) {
	return cachedLookup(fmt.Sprintf("catalog:variant:%d", id), r.ttl, func() (*models.CatalogVariant, error) {
		return r.next.GetVariant(id)
	})
}

// cachedLookup 只缓存命中的记录；缓存读写失败不影响主流程
func cachedLookup[T any](key string, ttl time.Duration, load func() (*T, error)) (*T, error) {
	ctx := context.Background()
	if cache.Enabled() {
		var cached T
		hit, err := cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warnw("catalog_cache_get_failed", "key", key, "error", err)
		} else if hit {
			return &cached, nil
		}
	}
	value, err := load()
	if err != nil || value == nil {
		return value, err
	}
	if cache.Enabled() {
		if err := cache.SetJSON(ctx, key, value, ttl); err != nil {
			logger.Warnw("catalog_cache_set_failed", "key", key, "error", err)
		}
	}
	return value, nil
}
