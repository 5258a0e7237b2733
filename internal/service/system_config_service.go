package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
)

// ── 系统配置模块业务错误 ──

var (
	ErrSystemConfigNotFound = errors.New("系统配置未初始化")
)

// SystemConfigService 系统配置业务接口
type SystemConfigService interface {
	Get(ctx context.Context) (*dto.SystemConfigResponse, error)
	Update(ctx context.Context, req *dto.UpdateSystemConfigRequest, callerID string) (*dto.SystemConfigResponse, error)
}

type systemConfigService struct {
	repo   *repository.Repository
	cache  BoolCache
	logger *zap.Logger
}

// NewSystemConfigService 创建 SystemConfigService 实例
func NewSystemConfigService(repo *repository.Repository, cache BoolCache, logger *zap.Logger) SystemConfigService {
	return &systemConfigService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *systemConfigService) Get(ctx context.Context) (*dto.SystemConfigResponse, error) {
	cfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSystemConfigNotFound
		}
		s.logger.Error("查询系统配置失败", zap.Error(err))
		return nil, err
	}
	return toSystemConfigResponse(cfg), nil
}

// ────────────────────── Update ──────────────────────

func (s *systemConfigService) Update(ctx context.Context, req *dto.UpdateSystemConfigRequest, callerID string) (*dto.SystemConfigResponse, error) {
	cfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSystemConfigNotFound
		}
		s.logger.Error("查询系统配置失败", zap.Error(err))
		return nil, err
	}

	if req.AutoApproveSwaps != nil {
		cfg.AutoApproveSwaps = *req.AutoApproveSwaps
	}
	if req.SwapDeadlineHours != nil {
		cfg.SwapDeadlineHours = *req.SwapDeadlineHours
	}

	cfg.UpdatedBy = &callerID

	if err := s.repo.SystemConfig.Update(ctx, cfg); err != nil {
		s.logger.Error("更新系统配置失败", zap.Error(err))
		return nil, err
	}

	// 自动审批开关可能变化，清除缓存
	if s.cache != nil {
		if err := s.cache.Delete(ctx, autoApproveCacheKey); err != nil {
			s.logger.Warn("清除自动审批缓存失败", zap.Error(err))
		}
	}

	s.logger.Info("系统配置已更新",
		zap.Bool("auto_approve_swaps", cfg.AutoApproveSwaps),
		zap.Int("swap_deadline_hours", cfg.SwapDeadlineHours),
		zap.String("updated_by", callerID),
	)

	return toSystemConfigResponse(cfg), nil
}

func toSystemConfigResponse(cfg *model.SystemConfig) *dto.SystemConfigResponse {
	return &dto.SystemConfigResponse{
		AutoApproveSwaps:  cfg.AutoApproveSwaps,
		SwapDeadlineHours: cfg.SwapDeadlineHours,
		UpdatedAt:         cfg.UpdatedAt.UTC().Format(datetimeLayout),
	}
}
