package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
	pkgerrors "wfm/backend/pkg/errors"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02T15:04:05Z07:00"
)

// SwapService 换班审批业务接口
type SwapService interface {
	Create(ctx context.Context, req *dto.CreateSwapRequest, callerID string) (*dto.SwapRequestResponse, error)
	Transition(ctx context.Context, in *dto.TransitionInput) (*dto.SwapRequestResponse, error)
	Get(ctx context.Context, id string) (*dto.SwapRequestResponse, error)
	ListAuditLogs(ctx context.Context, id string, req *dto.SwapAuditLogListRequest) ([]dto.SwapAuditLogResponse, int64, error)
}

type swapService struct {
	repo        *repository.Repository
	engine      *ExchangeEngine
	autoApprove AutoApproveProvider
	audit       AuditRecorder
	events      SwapEventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewSwapService 创建 SwapService 实例
func NewSwapService(
	repo *repository.Repository,
	autoApprove AutoApproveProvider,
	audit AuditRecorder,
	events SwapEventPublisher,
	logger *zap.Logger,
) SwapService {
	return &swapService{
		repo:        repo,
		engine:      NewExchangeEngine(logger),
		autoApprove: autoApprove,
		audit:       audit,
		events:      events,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ────────────────────── Create ──────────────────────

func (s *swapService) Create(ctx context.Context, req *dto.CreateSwapRequest, callerID string) (*dto.SwapRequestResponse, error) {
	if req.TargetUserID == callerID {
		return nil, ErrSwapSelf
	}

	requesterShift, err := s.loadShift(ctx, req.RequesterShiftID, callerID)
	if err != nil {
		return nil, err
	}
	targetShift, err := s.loadShift(ctx, req.TargetShiftID, req.TargetUserID)
	if err != nil {
		return nil, err
	}

	if err := s.checkDeadline(ctx, requesterShift.ShiftDate, targetShift.ShiftDate); err != nil {
		return nil, err
	}

	swap := &model.SwapRequest{
		RequesterID:      callerID,
		TargetUserID:     req.TargetUserID,
		RequesterShiftID: requesterShift.ShiftAssignmentID,
		TargetShiftID:    targetShift.ShiftAssignmentID,
		RequesterDate:    requesterShift.ShiftDate,
		TargetDate:       targetShift.ShiftDate,
		Reason:           req.Reason,
		Status:           model.SwapStatusPendingAcceptance,
	}
	swap.CreatedBy = &callerID
	swap.UpdatedBy = &callerID

	// 快照与落库在同一事务内，保证快照与创建时刻一致
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := s.engine.Capture(ctx, txRepo.ShiftAssignment, swap); err != nil {
			return err
		}
		return txRepo.SwapRequest.Create(ctx, swap)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSwapAlreadyInFlight
		}
		s.logger.Error("创建换班申请失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("换班申请已创建",
		zap.String("swap_request_id", swap.SwapRequestID),
		zap.String("requester_id", swap.RequesterID),
		zap.String("target_user_id", swap.TargetUserID),
	)

	s.afterCommit(ctx, swap, callerID, "", model.SwapActionCreate, "", req.Reason)

	return toSwapRequestResponse(swap), nil
}

// loadShift 读取班次并校验归属
func (s *swapService) loadShift(ctx context.Context, shiftID, ownerID string) (*model.ShiftAssignment, error) {
	sa, err := s.repo.ShiftAssignment.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ResourceNotFoundError{ResourceType: "ShiftAssignment", ID: shiftID}
		}
		s.logger.Error("查询班次失败", zap.String("shift_assignment_id", shiftID), zap.Error(err))
		return nil, err
	}
	if sa.EmployeeID != ownerID {
		return nil, ErrShiftOwnerMismatch
	}
	return sa, nil
}

// checkDeadline 任一班次开始前 swap_deadline_hours 小时内不可发起换班，0 表示不限制
func (s *swapService) checkDeadline(ctx context.Context, dates ...time.Time) error {
	cfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("系统配置未初始化，跳过换班截止时间校验")
			return nil
		}
		s.logger.Error("查询系统配置失败", zap.Error(err))
		return err
	}
	if cfg.SwapDeadlineHours <= 0 {
		return nil
	}

	cutoff := s.now().Add(time.Duration(cfg.SwapDeadlineHours) * time.Hour)
	for _, d := range dates {
		if d.Before(cutoff) {
			return ErrSwapDeadlinePassed
		}
	}
	return nil
}

// ────────────────────── Transition ──────────────────────

// transitionPlan 一次流转要写入的内容
type transitionPlan struct {
	from          string
	to            string
	tlApprovedAt  *time.Time
	wfmApprovedAt *time.Time
	exchange      string // "" | execute | reverse
	note          string
}

func (s *swapService) Transition(ctx context.Context, in *dto.TransitionInput) (*dto.SwapRequestResponse, error) {
	swap, err := s.repo.SwapRequest.GetByID(ctx, in.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ResourceNotFoundError{ResourceType: "SwapRequest", ID: in.RequestID}
		}
		s.logger.Error("查询换班申请失败", zap.String("swap_request_id", in.RequestID), zap.Error(err))
		return nil, err
	}

	// 合法性以调用方看到的状态为准，条件更新使用同一个值
	expected := in.ExpectedStatus
	if expected == "" {
		expected = swap.Status
	}

	rule, err := checkTransition(swap, in.ActorID, in.ActorRole, in.Action, expected)
	if err != nil {
		return nil, err
	}

	plan, err := s.planTransition(ctx, swap, in.Action, rule, expected)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.SwapRequest.UpdateStatus(ctx, &repository.SwapStatusUpdate{
			ID:             swap.SwapRequestID,
			ExpectedStatus: plan.from,
			NewStatus:      plan.to,
			TLApprovedAt:   plan.tlApprovedAt,
			WFMApprovedAt:  plan.wfmApprovedAt,
			UpdatedBy:      in.ActorID,
		}); err != nil {
			return err
		}
		return s.applyExchange(ctx, txRepo, swap, plan)
	})
	if err != nil {
		return nil, s.transitionError(swap, in, plan, err)
	}

	swap.Status = plan.to
	swap.TLApprovedAt = plan.tlApprovedAt
	swap.WFMApprovedAt = plan.wfmApprovedAt
	swap.UpdatedBy = &in.ActorID
	swap.UpdatedAt = s.now()

	s.logger.Info("换班状态已变更",
		zap.String("swap_request_id", swap.SwapRequestID),
		zap.String("action", in.Action),
		zap.String("from", plan.from),
		zap.String("to", plan.to),
		zap.String("actor_id", in.ActorID),
	)

	note := plan.note
	if in.Comment != "" {
		if note != "" {
			note += "；"
		}
		note += in.Comment
	}
	s.afterCommit(ctx, swap, in.ActorID, in.ActorRole, in.Action, plan.from, note)

	return toSwapRequestResponse(swap), nil
}

// planTransition 计算目标状态、审批时间戳与交换动作
func (s *swapService) planTransition(ctx context.Context, swap *model.SwapRequest, action string, rule swapRule, from string) (*transitionPlan, error) {
	now := s.now()
	plan := &transitionPlan{
		from:          from,
		to:            rule.to,
		tlApprovedAt:  swap.TLApprovedAt,
		wfmApprovedAt: swap.WFMApprovedAt,
	}

	switch action {
	case model.SwapActionTLApprove:
		auto, err := s.autoApprove.AutoApproveEnabled(ctx)
		if err != nil {
			s.logger.Error("读取自动审批开关失败", zap.Error(err))
			return nil, ErrAutoApproveUnknown
		}
		plan.tlApprovedAt = &now
		if auto {
			plan.to = model.SwapStatusApproved
			plan.wfmApprovedAt = &now
			plan.exchange = ExchangePhaseExecute
			plan.note = "已开启自动审批，由系统完成排班审批"
		}

	case model.SwapActionWFMApprove:
		plan.wfmApprovedAt = &now
		if plan.tlApprovedAt == nil {
			plan.tlApprovedAt = &now
		}
		plan.exchange = ExchangePhaseExecute

	case model.SwapActionRevoke:
		plan.tlApprovedAt = nil
		plan.wfmApprovedAt = nil
		if from == model.SwapStatusApproved {
			plan.exchange = ExchangePhaseReverse
		}
	}

	return plan, nil
}

// applyExchange 在流转事务内执行或还原排班交换
func (s *swapService) applyExchange(ctx context.Context, txRepo *repository.Repository, swap *model.SwapRequest, plan *transitionPlan) error {
	var (
		result *ExchangeResult
		err    error
	)
	switch plan.exchange {
	case ExchangePhaseExecute:
		result, err = s.engine.Execute(ctx, txRepo.ShiftAssignment, swap)
	case ExchangePhaseReverse:
		result, err = s.engine.Reverse(ctx, txRepo.ShiftAssignment, swap)
	default:
		return nil
	}
	if err != nil {
		return &ExchangeFailureError{RequestID: swap.SwapRequestID, Phase: plan.exchange, Err: err}
	}

	s.logger.Info("排班交换完成",
		zap.String("swap_request_id", swap.SwapRequestID),
		zap.String("phase", plan.exchange),
		zap.Strings("swapped_dates", result.SwappedDates),
		zap.Int("written", result.Written),
		zap.Int("skipped", result.Skipped),
	)
	return nil
}

// transitionError 按类型记录日志并返回
func (s *swapService) transitionError(swap *model.SwapRequest, in *dto.TransitionInput, plan *transitionPlan, err error) error {
	fields := []zap.Field{
		zap.String("swap_request_id", swap.SwapRequestID),
		zap.String("action", in.Action),
		zap.String("expected_status", plan.from),
		zap.String("actor_id", in.ActorID),
	}

	var exErr *ExchangeFailureError
	switch {
	case errors.As(err, &exErr):
		// 需要人工排查
		s.logger.Error("排班交换失败，流转已回滚", append(fields, zap.String("phase", exErr.Phase), zap.Error(exErr.Err))...)
		return err
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		s.logger.Info("换班状态并发冲突", append(fields, zap.Error(err))...)
		return err
	case repository.IsUniqueViolation(err):
		// 撤销后重新进入审批流程，但同一组合已有新的进行中申请
		return ErrSwapAlreadyInFlight
	default:
		s.logger.Error("换班状态变更失败", append(fields, zap.Error(err))...)
		return err
	}
}

// afterCommit 提交后的审计与事件，失败只告警
func (s *swapService) afterCommit(ctx context.Context, swap *model.SwapRequest, actorID, actorRole, action, from, note string) {
	entry := &model.SwapAuditLog{
		SwapRequestID: swap.SwapRequestID,
		ActorID:       actorID,
		ActorName:     s.actorName(ctx, actorID),
		ActorRole:     actorRole,
		Action:        action,
		FromStatus:    from,
		ToStatus:      swap.Status,
		Note:          note,
		CreatedAt:     s.now(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("写入换班审计日志失败",
			zap.String("swap_request_id", swap.SwapRequestID),
			zap.String("action", action),
			zap.Error(err),
		)
	}

	event := &SwapEvent{
		SwapRequestID: swap.SwapRequestID,
		Action:        action,
		FromStatus:    from,
		ToStatus:      swap.Status,
		ActorID:       actorID,
		RequesterID:   swap.RequesterID,
		TargetUserID:  swap.TargetUserID,
		OccurredAt:    s.now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("发布换班事件失败",
			zap.String("swap_request_id", swap.SwapRequestID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// actorName 查询操作人姓名，查不到时退回 ID
func (s *swapService) actorName(ctx context.Context, actorID string) string {
	user, err := s.repo.User.GetByID(ctx, actorID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询操作人失败", zap.String("actor_id", actorID), zap.Error(err))
		}
		return actorID
	}
	return user.Name
}

// ────────────────────── Get / ListAuditLogs ──────────────────────

func (s *swapService) Get(ctx context.Context, id string) (*dto.SwapRequestResponse, error) {
	swap, err := s.repo.SwapRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ResourceNotFoundError{ResourceType: "SwapRequest", ID: id}
		}
		s.logger.Error("查询换班申请失败", zap.String("swap_request_id", id), zap.Error(err))
		return nil, err
	}
	return toSwapRequestResponse(swap), nil
}

func (s *swapService) ListAuditLogs(ctx context.Context, id string, req *dto.SwapAuditLogListRequest) ([]dto.SwapAuditLogResponse, int64, error) {
	if _, err := s.repo.SwapRequest.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, &ResourceNotFoundError{ResourceType: "SwapRequest", ID: id}
		}
		return nil, 0, err
	}

	logs, total, err := s.repo.SwapAuditLog.ListByRequest(ctx, id, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询换班审计日志失败", zap.String("swap_request_id", id), zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.SwapAuditLogResponse, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		list = append(list, dto.SwapAuditLogResponse{
			ID:         l.SwapAuditLogID,
			Actor:      dto.UserBrief{ID: l.ActorID, Name: l.ActorName},
			ActorRole:  l.ActorRole,
			Action:     l.Action,
			FromStatus: l.FromStatus,
			ToStatus:   l.ToStatus,
			Note:       l.Note,
			Message:    l.Message,
			CreatedAt:  l.CreatedAt.Format(datetimeLayout),
		})
	}
	return list, total, nil
}

// ── 转换 ──

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(datetimeLayout)
	return &s
}

func toSwapRequestResponse(r *model.SwapRequest) *dto.SwapRequestResponse {
	return &dto.SwapRequestResponse{
		ID:               r.SwapRequestID,
		RequesterID:      r.RequesterID,
		TargetUserID:     r.TargetUserID,
		RequesterShiftID: r.RequesterShiftID,
		TargetShiftID:    r.TargetShiftID,
		RequesterDate:    r.RequesterDate.Format(dateLayout),
		TargetDate:       r.TargetDate.Format(dateLayout),
		Reason:           r.Reason,
		Status:           r.Status,
		TLApprovedAt:     formatTime(r.TLApprovedAt),
		WFMApprovedAt:    formatTime(r.WFMApprovedAt),
		Originals: dto.SwapOriginalSet{
			RequesterOnRequesterDate: r.RequesterOriginalOnRequesterDate,
			TargetOnRequesterDate:    r.TargetOriginalOnRequesterDate,
			RequesterOnTargetDate:    r.RequesterOriginalOnTargetDate,
			TargetOnTargetDate:       r.TargetOriginalOnTargetDate,
		},
		CreatedAt: r.CreatedAt.UTC().Format(datetimeLayout),
		UpdatedAt: r.UpdatedAt.UTC().Format(datetimeLayout),
	}
}
