package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wfm/backend/internal/repository"
	pkgredis "wfm/backend/pkg/redis"
)

// autoApproveCacheKey 自动审批开关缓存键
const autoApproveCacheKey = "wfm:system_config:auto_approve_swaps"

// AutoApproveProvider 自动审批开关
// 仅组长审批时读取
type AutoApproveProvider interface {
	AutoApproveEnabled(ctx context.Context) (bool, error)
}

// AutoApproveFunc 函数适配器
type AutoApproveFunc func(ctx context.Context) (bool, error)

func (f AutoApproveFunc) AutoApproveEnabled(ctx context.Context) (bool, error) {
	return f(ctx)
}

// BoolCache 布尔值缓存（*pkgredis.Client 实现）
type BoolCache interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type configAutoApproveProvider struct {
	repo   repository.SystemConfigRepository
	cache  BoolCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewAutoApproveProvider 基于 system_config 的开关读取，cache 为 nil 时直接查库
func NewAutoApproveProvider(repo repository.SystemConfigRepository, cache BoolCache, ttl time.Duration, logger *zap.Logger) AutoApproveProvider {
	return &configAutoApproveProvider{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (p *configAutoApproveProvider) AutoApproveEnabled(ctx context.Context) (bool, error) {
	if p.cache != nil {
		v, err := p.cache.GetBool(ctx, autoApproveCacheKey)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, pkgredis.ErrCacheMiss) {
			// Redis 不可用时回退到数据库
			p.logger.Warn("读取自动审批缓存失败", zap.Error(err))
		}
	}

	cfg, err := p.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p.logger.Warn("系统配置未初始化，自动审批按关闭处理")
			return false, nil
		}
		p.logger.Error("查询系统配置失败", zap.Error(err))
		return false, err
	}

	if p.cache != nil && p.ttl > 0 {
		if err := p.cache.SetBool(ctx, autoApproveCacheKey, cfg.AutoApproveSwaps, p.ttl); err != nil {
			p.logger.Warn("写入自动审批缓存失败", zap.Error(err))
		}
	}
	return cfg.AutoApproveSwaps, nil
}
