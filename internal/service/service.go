package service

import (
	"go.uber.org/zap"

	"wfm/backend/config"
	"wfm/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Swap         SwapService
	SystemConfig SystemConfigService
}

// NewService 创建 Service 聚合
// cache 可为 nil（不使用缓存）；events 为 nil 时不发布事件
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache BoolCache,
	events SwapEventPublisher,
	logger *zap.Logger,
) *Service {
	if events == nil {
		events = NewNoopSwapEventPublisher()
	}
	autoApprove := NewAutoApproveProvider(repo.SystemConfig, cache, cfg.Swap.AutoApproveCacheTTL, logger)

	return &Service{
		Swap:         NewSwapService(repo, autoApprove, NewAuditRecorder(repo.SwapAuditLog), events, logger),
		SystemConfig: NewSystemConfigService(repo, cache, logger),
	}
}
