package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
	pkgerrors "wfm/backend/pkg/errors"
)

const (
	userA    = "user-a"
	userB    = "user-b"
	leaderID = "leader-1"
	adminID  = "admin-1"
)

// ── 测试辅助 ──

type swapTestEnv struct {
	svc     *swapService
	shifts  *mockShiftRepo
	swaps   *mockSwapRepo
	audits  *mockAuditRepo
	sysCfg  *mockSystemConfigRepo
	events  *recordingPublisher
	autoOn  atomic.Bool
	autoCnt atomic.Int32

	shiftA1 *model.ShiftAssignment // A 在 day1 的班次
	shiftB2 *model.ShiftAssignment // B 在 day2 的班次
}

// setupSwapTest A: (day1=AM, day2=OFF)，B: (day1=PM, day2=PM)
func setupSwapTest(t *testing.T) *swapTestEnv {
	t.Helper()

	users := newMockUserRepo()
	users.add(userA, "员工A", model.RoleMember)
	users.add(userB, "员工B", model.RoleMember)
	users.add(leaderID, "组长", model.RoleLeader)
	users.add(adminID, "排班管理员", model.RoleAdmin)

	env := &swapTestEnv{
		shifts: newMockShiftRepo(),
		swaps:  newMockSwapRepo(),
		audits: newMockAuditRepo(),
		sysCfg: newMockSystemConfigRepo(),
		events: &recordingPublisher{},
	}

	repo := &repository.Repository{
		User:            users,
		ShiftAssignment: env.shifts,
		SwapRequest:     env.swaps,
		SwapAuditLog:    env.audits,
		SystemConfig:    env.sysCfg,
	}
	repo.Tx = &mockTransactor{repo: repo, shifts: env.shifts, swaps: env.swaps}

	auto := AutoApproveFunc(func(context.Context) (bool, error) {
		env.autoCnt.Add(1)
		return env.autoOn.Load(), nil
	})

	env.svc = NewSwapService(repo, auto, NewAuditRecorder(env.audits), env.events, zap.NewNop()).(*swapService)
	env.svc.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	env.shiftA1 = env.shifts.add(userA, day1, "AM")
	env.shifts.add(userA, day2, "OFF")
	env.shifts.add(userB, day1, "PM")
	env.shiftB2 = env.shifts.add(userB, day2, "PM")

	return env
}

func (e *swapTestEnv) create(t *testing.T) *dto.SwapRequestResponse {
	t.Helper()
	resp, err := e.svc.Create(context.Background(), &dto.CreateSwapRequest{
		TargetUserID:     userB,
		RequesterShiftID: e.shiftA1.ShiftAssignmentID,
		TargetShiftID:    e.shiftB2.ShiftAssignmentID,
		Reason:           "家里有事",
	}, userA)
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	return resp
}

func (e *swapTestEnv) transition(id, actorID, role, action string) (*dto.SwapRequestResponse, error) {
	return e.svc.Transition(context.Background(), &dto.TransitionInput{
		RequestID: id,
		ActorID:   actorID,
		ActorRole: role,
		Action:    action,
	})
}

func (e *swapTestEnv) mustTransition(t *testing.T, id, actorID, role, action string) *dto.SwapRequestResponse {
	t.Helper()
	resp, err := e.transition(id, actorID, role, action)
	if err != nil {
		t.Fatalf("%s 失败: %v", action, err)
	}
	return resp
}

// toStatus 从创建开始沿正常路径推进到目标状态
func (e *swapTestEnv) toStatus(t *testing.T, status string) string {
	t.Helper()
	id := e.create(t).ID
	switch status {
	case model.SwapStatusPendingAcceptance:
	case model.SwapStatusPendingTL:
		e.mustTransition(t, id, userB, model.RoleMember, model.SwapActionAccept)
	case model.SwapStatusPendingWFM:
		e.mustTransition(t, id, userB, model.RoleMember, model.SwapActionAccept)
		e.mustTransition(t, id, leaderID, model.RoleLeader, model.SwapActionTLApprove)
	case model.SwapStatusApproved:
		e.mustTransition(t, id, userB, model.RoleMember, model.SwapActionAccept)
		e.mustTransition(t, id, leaderID, model.RoleLeader, model.SwapActionTLApprove)
		e.mustTransition(t, id, adminID, model.RoleAdmin, model.SwapActionWFMApprove)
	case model.SwapStatusRejected:
		e.mustTransition(t, id, userB, model.RoleMember, model.SwapActionDecline)
	default:
		t.Fatalf("未知状态 %s", status)
	}
	return id
}

func (e *swapTestEnv) assertLabels(t *testing.T, a1, a2, b1, b2 string) {
	t.Helper()
	got := [4]string{
		e.shifts.label(userA, day1), e.shifts.label(userA, day2),
		e.shifts.label(userB, day1), e.shifts.label(userB, day2),
	}
	want := [4]string{a1, a2, b1, b2}
	if got != want {
		t.Errorf("排班期望 A=(%s,%s) B=(%s,%s)，实际 A=(%s,%s) B=(%s,%s)",
			want[0], want[1], want[2], want[3], got[0], got[1], got[2], got[3])
	}
}

// ════════════════════════════════════════════════════════════
// Create
// ════════════════════════════════════════════════════════════

func TestSwapService_Create_Success(t *testing.T) {
	env := setupSwapTest(t)

	resp := env.create(t)

	if resp.Status != model.SwapStatusPendingAcceptance {
		t.Errorf("期望状态 pending_acceptance，实际=%s", resp.Status)
	}
	if resp.RequesterDate != "2024-02-01" || resp.TargetDate != "2024-02-05" {
		t.Errorf("日期解析错误: %s / %s", resp.RequesterDate, resp.TargetDate)
	}
	if resp.TLApprovedAt != nil || resp.WFMApprovedAt != nil {
		t.Error("新申请不应有审批时间")
	}

	o := resp.Originals
	for name, pair := range map[string]struct {
		got  *string
		want string
	}{
		"requester_on_requester_date": {o.RequesterOnRequesterDate, "AM"},
		"target_on_requester_date":    {o.TargetOnRequesterDate, "PM"},
		"requester_on_target_date":    {o.RequesterOnTargetDate, "OFF"},
		"target_on_target_date":       {o.TargetOnTargetDate, "PM"},
	} {
		if pair.got == nil || *pair.got != pair.want {
			t.Errorf("快照 %s 期望 %s，实际 %v", name, pair.want, pair.got)
		}
	}

	logs := env.audits.entries(resp.ID)
	if len(logs) != 1 || logs[0].Action != model.SwapActionCreate || logs[0].FromStatus != "" {
		t.Errorf("创建应写入 1 条 create 审计，实际 %+v", logs)
	}
	if logs[0].ActorName != "员工A" {
		t.Errorf("审计操作人期望 员工A，实际=%s", logs[0].ActorName)
	}
	if len(env.events.events) != 1 {
		t.Errorf("创建应发布 1 个事件，实际 %d", len(env.events.events))
	}
}

func TestSwapService_Create_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env *swapTestEnv, req *dto.CreateSwapRequest)
		wantErr error
	}{
		{
			name: "与自己换班",
			mutate: func(_ *swapTestEnv, req *dto.CreateSwapRequest) {
				req.TargetUserID = userA
			},
			wantErr: ErrSwapSelf,
		},
		{
			name: "申请人班次不存在",
			mutate: func(_ *swapTestEnv, req *dto.CreateSwapRequest) {
				req.RequesterShiftID = "shift-missing"
			},
			wantErr: ErrResourceNotFound,
		},
		{
			name: "目标班次不属于目标用户",
			mutate: func(env *swapTestEnv, req *dto.CreateSwapRequest) {
				req.TargetShiftID = env.shiftA1.ShiftAssignmentID
			},
			wantErr: ErrShiftOwnerMismatch,
		},
		{
			name: "超过截止时间",
			mutate: func(env *swapTestEnv, _ *dto.CreateSwapRequest) {
				env.svc.now = func() time.Time { return time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC) }
			},
			wantErr: ErrSwapDeadlinePassed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupSwapTest(t)
			req := &dto.CreateSwapRequest{
				TargetUserID:     userB,
				RequesterShiftID: env.shiftA1.ShiftAssignmentID,
				TargetShiftID:    env.shiftB2.ShiftAssignmentID,
			}
			tt.mutate(env, req)

			_, err := env.svc.Create(context.Background(), req, userA)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
			if len(env.swaps.requests) != 0 {
				t.Error("失败时不应创建申请")
			}
		})
	}
}

func TestSwapService_Create_NotFoundDetails(t *testing.T) {
	env := setupSwapTest(t)

	_, err := env.svc.Create(context.Background(), &dto.CreateSwapRequest{
		TargetUserID:     userB,
		RequesterShiftID: env.shiftA1.ShiftAssignmentID,
		TargetShiftID:    "shift-missing",
	}, userA)

	var nf *ResourceNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("期望 ResourceNotFoundError，实际: %v", err)
	}
	if nf.ResourceType != "ShiftAssignment" || nf.ID != "shift-missing" {
		t.Errorf("错误详情不符: %+v", nf)
	}
}

func TestSwapService_Create_DeadlineDisabled(t *testing.T) {
	env := setupSwapTest(t)
	env.sysCfg.cfg.SwapDeadlineHours = 0
	env.svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	env.create(t)
}

func TestSwapService_Create_InFlightDuplicate(t *testing.T) {
	env := setupSwapTest(t)
	first := env.create(t)

	_, err := env.svc.Create(context.Background(), &dto.CreateSwapRequest{
		TargetUserID:     userB,
		RequesterShiftID: env.shiftA1.ShiftAssignmentID,
		TargetShiftID:    env.shiftB2.ShiftAssignmentID,
	}, userA)
	if !errors.Is(err, ErrSwapAlreadyInFlight) {
		t.Fatalf("期望 ErrSwapAlreadyInFlight，实际: %v", err)
	}

	// 前一条结束后可再次发起
	env.mustTransition(t, first.ID, userA, model.RoleMember, model.SwapActionCancel)
	env.create(t)
}

// ════════════════════════════════════════════════════════════
// Transition
// ════════════════════════════════════════════════════════════

func TestSwapService_Transition_NotFound(t *testing.T) {
	env := setupSwapTest(t)

	_, err := env.transition("swap-missing", userB, model.RoleMember, model.SwapActionAccept)
	if !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("期望 ErrResourceNotFound，实际: %v", err)
	}
}

func TestSwapService_Transition_InvalidDoesNotMutate(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusPendingTL)
	auditBefore := len(env.audits.entries(id))

	// 普通员工不能做组长审批
	_, err := env.transition(id, userA, model.RoleMember, model.SwapActionTLApprove)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("期望 ErrInvalidTransition，实际: %v", err)
	}
	// 状态不符
	_, err = env.transition(id, adminID, model.RoleAdmin, model.SwapActionRevoke)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("期望 ErrInvalidTransition，实际: %v", err)
	}

	got, _ := env.svc.Get(context.Background(), id)
	if got.Status != model.SwapStatusPendingTL {
		t.Errorf("非法操作后状态不应变化，实际=%s", got.Status)
	}
	if n := len(env.audits.entries(id)); n != auditBefore {
		t.Errorf("非法操作不应写审计，%d → %d", auditBefore, n)
	}
	if env.autoCnt.Load() != 0 {
		t.Error("非法操作不应读取自动审批开关")
	}
}

func TestSwapService_TLApprove_AutoApproveOn(t *testing.T) {
	env := setupSwapTest(t)
	env.autoOn.Store(true)
	id := env.toStatus(t, model.SwapStatusPendingTL)

	resp := env.mustTransition(t, id, leaderID, model.RoleLeader, model.SwapActionTLApprove)

	if resp.Status != model.SwapStatusApproved {
		t.Errorf("自动审批开启时期望 approved，实际=%s", resp.Status)
	}
	if resp.TLApprovedAt == nil || resp.WFMApprovedAt == nil {
		t.Error("自动审批应同时设置两个审批时间")
	}
	if env.autoCnt.Load() != 1 {
		t.Errorf("期望读取开关 1 次，实际 %d", env.autoCnt.Load())
	}
	// 交换恰好执行一次：执行两次会换回原值
	if env.shifts.writes != 4 {
		t.Errorf("期望写入 4 条排班，实际 %d", env.shifts.writes)
	}
	env.assertLabels(t, "PM", "PM", "AM", "OFF")
}

func TestSwapService_TLApprove_AutoApproveOff(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusPendingTL)

	resp := env.mustTransition(t, id, leaderID, model.RoleLeader, model.SwapActionTLApprove)

	if resp.Status != model.SwapStatusPendingWFM {
		t.Errorf("期望 pending_wfm，实际=%s", resp.Status)
	}
	if resp.TLApprovedAt == nil {
		t.Error("应设置 tl_approved_at")
	}
	if resp.WFMApprovedAt != nil {
		t.Error("不应设置 wfm_approved_at")
	}
	if env.shifts.writes != 0 {
		t.Errorf("未通过审批不应交换排班，实际写入 %d", env.shifts.writes)
	}
	env.assertLabels(t, "AM", "OFF", "PM", "PM")
}

func TestSwapService_TLApprove_AutoApproveError(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusPendingTL)
	env.svc.autoApprove = AutoApproveFunc(func(context.Context) (bool, error) {
		return false, errMockStore
	})

	_, err := env.transition(id, leaderID, model.RoleLeader, model.SwapActionTLApprove)
	if !errors.Is(err, ErrAutoApproveUnknown) {
		t.Fatalf("期望 ErrAutoApproveUnknown，实际: %v", err)
	}
	got, _ := env.svc.Get(context.Background(), id)
	if got.Status != model.SwapStatusPendingTL {
		t.Errorf("状态不应变化，实际=%s", got.Status)
	}
}

func TestSwapService_WFMApprove_SkipsTLStage(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusPendingTL)

	resp := env.mustTransition(t, id, adminID, model.RoleAdmin, model.SwapActionWFMApprove)

	if resp.Status != model.SwapStatusApproved {
		t.Errorf("期望 approved，实际=%s", resp.Status)
	}
	if resp.TLApprovedAt == nil || resp.WFMApprovedAt == nil {
		t.Error("跳过组长审批时两个审批时间都应设置")
	}
	env.assertLabels(t, "PM", "PM", "AM", "OFF")
}

func TestSwapService_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		actor  string
		role   string
		action string
	}{
		{"被换班人拒绝", model.SwapStatusPendingAcceptance, userB, model.RoleMember, model.SwapActionDecline},
		{"组长驳回", model.SwapStatusPendingTL, leaderID, model.RoleLeader, model.SwapActionTLReject},
		{"排班驳回", model.SwapStatusPendingWFM, adminID, model.RoleAdmin, model.SwapActionWFMReject},
		{"申请人撤回", model.SwapStatusPendingWFM, userA, model.RoleMember, model.SwapActionCancel},
		{"被换班人撤回", model.SwapStatusPendingAcceptance, userB, model.RoleMember, model.SwapActionCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupSwapTest(t)
			id := env.toStatus(t, tt.from)

			resp := env.mustTransition(t, id, tt.actor, tt.role, tt.action)
			if resp.Status != model.SwapStatusRejected {
				t.Errorf("期望 rejected，实际=%s", resp.Status)
			}
			env.assertLabels(t, "AM", "OFF", "PM", "PM")
		})
	}
}

func TestSwapService_Revoke_ResetsToPendingTL(t *testing.T) {
	for _, from := range []string{model.SwapStatusApproved, model.SwapStatusRejected, model.SwapStatusPendingWFM} {
		t.Run(from, func(t *testing.T) {
			env := setupSwapTest(t)
			id := env.toStatus(t, from)

			resp := env.mustTransition(t, id, adminID, model.RoleAdmin, model.SwapActionRevoke)

			if resp.Status != model.SwapStatusPendingTL {
				t.Errorf("撤销后期望 pending_tl，实际=%s", resp.Status)
			}
			if resp.TLApprovedAt != nil || resp.WFMApprovedAt != nil {
				t.Error("撤销后两个审批时间都应清空")
			}
			// 撤销已通过的申请须还原排班，其余状态本就未交换
			env.assertLabels(t, "AM", "OFF", "PM", "PM")
		})
	}
}

func TestSwapService_Revoke_OnlyReversesApproved(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusPendingWFM)
	writesBefore := env.shifts.writes

	env.mustTransition(t, id, adminID, model.RoleAdmin, model.SwapActionRevoke)

	if env.shifts.writes != writesBefore {
		t.Errorf("从 pending_wfm 撤销不应写排班，写入 %d 条", env.shifts.writes-writesBefore)
	}
}

func TestSwapService_Revoke_ThenReapprove(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusApproved)

	env.mustTransition(t, id, adminID, model.RoleAdmin, model.SwapActionRevoke)
	env.assertLabels(t, "AM", "OFF", "PM", "PM")

	env.mustTransition(t, id, leaderID, model.RoleLeader, model.SwapActionTLApprove)
	env.mustTransition(t, id, adminID, model.RoleAdmin, model.SwapActionWFMApprove)
	env.assertLabels(t, "PM", "PM", "AM", "OFF")
}

func TestSwapService_ExpectedStatusStale_Conflict(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusPendingWFM)

	// 客户端仍停留在 pending_tl 页面
	_, err := env.svc.Transition(context.Background(), &dto.TransitionInput{
		RequestID:      id,
		ActorID:        leaderID,
		ActorRole:      model.RoleLeader,
		Action:         model.SwapActionTLReject,
		ExpectedStatus: model.SwapStatusPendingTL,
	})

	var ce *pkgerrors.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("期望 ConflictError，实际: %v", err)
	}
	if ce.Expected != model.SwapStatusPendingTL || ce.Actual != model.SwapStatusPendingWFM {
		t.Errorf("冲突详情不符: %+v", ce)
	}
	got, _ := env.svc.Get(context.Background(), id)
	if got.Status != model.SwapStatusPendingWFM {
		t.Errorf("冲突后状态不应变化，实际=%s", got.Status)
	}
}

func TestSwapService_ConcurrentTransitions_OneWins(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusPendingTL)

	const racers = 10
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
		others    atomic.Int32
	)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := &dto.TransitionInput{
				RequestID:      id,
				ExpectedStatus: model.SwapStatusPendingTL,
			}
			if i%2 == 0 {
				in.ActorID, in.ActorRole, in.Action = leaderID, model.RoleLeader, model.SwapActionTLApprove
			} else {
				in.ActorID, in.ActorRole, in.Action = adminID, model.RoleAdmin, model.SwapActionWFMReject
			}

			_, err := env.svc.Transition(context.Background(), in)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, pkgerrors.ErrOptimisticLock):
				conflicts.Add(1)
			default:
				others.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Errorf("期望恰好 1 个成功，实际 %d", successes.Load())
	}
	if conflicts.Load() != racers-1 {
		t.Errorf("期望 %d 个冲突，实际 %d（其他错误 %d）", racers-1, conflicts.Load(), others.Load())
	}
}

func TestSwapService_ExchangeFailure_RollsBack(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusPendingWFM)
	auditBefore := len(env.audits.entries(id))

	env.shifts.failOn[env.shiftB2.ShiftAssignmentID] = errMockStore

	resp, err := env.transition(id, adminID, model.RoleAdmin, model.SwapActionWFMApprove)
	if resp != nil {
		t.Error("交换失败时不应返回申请")
	}
	if !errors.Is(err, ErrExchangeFailed) {
		t.Fatalf("期望 ErrExchangeFailed，实际: %v", err)
	}
	var exErr *ExchangeFailureError
	if !errors.As(err, &exErr) {
		t.Fatalf("期望 ExchangeFailureError，实际: %T", err)
	}
	if exErr.Phase != ExchangePhaseExecute || !errors.Is(err, errMockStore) {
		t.Errorf("错误详情不符: %+v", exErr)
	}

	got, _ := env.svc.Get(context.Background(), id)
	if got.Status != model.SwapStatusPendingWFM {
		t.Errorf("交换失败后状态应回滚为 pending_wfm，实际=%s", got.Status)
	}
	if got.WFMApprovedAt != nil {
		t.Error("交换失败后不应保留 wfm_approved_at")
	}
	env.assertLabels(t, "AM", "OFF", "PM", "PM")
	if n := len(env.audits.entries(id)); n != auditBefore {
		t.Errorf("交换失败不应写审计，%d → %d", auditBefore, n)
	}

	// 故障排除后可重新审批
	delete(env.shifts.failOn, env.shiftB2.ShiftAssignmentID)
	env.mustTransition(t, id, adminID, model.RoleAdmin, model.SwapActionWFMApprove)
	env.assertLabels(t, "PM", "PM", "AM", "OFF")
}

func TestSwapService_SideEffectFailuresDoNotFailTransition(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusPendingAcceptance)

	env.audits.failCreate = errMockStore
	env.events.err = errMockStore

	resp, err := env.transition(id, userB, model.RoleMember, model.SwapActionAccept)
	if err != nil {
		t.Fatalf("审计/事件失败不应影响流转: %v", err)
	}
	if resp.Status != model.SwapStatusPendingTL {
		t.Errorf("期望 pending_tl，实际=%s", resp.Status)
	}
}

// ════════════════════════════════════════════════════════════
// 完整场景
// ════════════════════════════════════════════════════════════

func TestSwapService_Scenario_FullApproval(t *testing.T) {
	env := setupSwapTest(t)

	id := env.create(t).ID
	env.mustTransition(t, id, userB, model.RoleMember, model.SwapActionAccept)
	env.mustTransition(t, id, leaderID, model.RoleLeader, model.SwapActionTLApprove)
	resp := env.mustTransition(t, id, adminID, model.RoleAdmin, model.SwapActionWFMApprove)

	if resp.Status != model.SwapStatusApproved {
		t.Fatalf("期望最终状态 approved，实际=%s", resp.Status)
	}
	if env.shifts.writes != 4 {
		t.Errorf("交换应只执行一次（4 条写入），实际 %d", env.shifts.writes)
	}
	env.assertLabels(t, "PM", "PM", "AM", "OFF")

	logs := env.audits.entries(id)
	want := []struct {
		action, from, to string
	}{
		{model.SwapActionCreate, "", model.SwapStatusPendingAcceptance},
		{model.SwapActionAccept, model.SwapStatusPendingAcceptance, model.SwapStatusPendingTL},
		{model.SwapActionTLApprove, model.SwapStatusPendingTL, model.SwapStatusPendingWFM},
		{model.SwapActionWFMApprove, model.SwapStatusPendingWFM, model.SwapStatusApproved},
	}
	if len(logs) != len(want) {
		t.Fatalf("期望 %d 条审计，实际 %d", len(want), len(logs))
	}
	for i, w := range want {
		if logs[i].Action != w.action || logs[i].FromStatus != w.from || logs[i].ToStatus != w.to {
			t.Errorf("第 %d 条审计期望 %s %q→%s，实际 %s %q→%s",
				i+1, w.action, w.from, w.to, logs[i].Action, logs[i].FromStatus, logs[i].ToStatus)
		}
		if logs[i].Message == "" {
			t.Errorf("第 %d 条审计缺少文案", i+1)
		}
	}

	if len(env.events.events) != 4 {
		t.Errorf("期望发布 4 个事件，实际 %d", len(env.events.events))
	}
}

// ════════════════════════════════════════════════════════════
// 审计日志查询
// ════════════════════════════════════════════════════════════

func TestSwapService_ListAuditLogs(t *testing.T) {
	env := setupSwapTest(t)
	id := env.toStatus(t, model.SwapStatusPendingWFM)

	list, total, err := env.svc.ListAuditLogs(context.Background(), id, &dto.SwapAuditLogListRequest{
		PaginationRequest: dto.PaginationRequest{Page: 2, PageSize: 2},
	})
	if err != nil {
		t.Fatalf("ListAuditLogs 失败: %v", err)
	}
	if total != 3 {
		t.Errorf("期望 total=3，实际=%d", total)
	}
	if len(list) != 1 || list[0].Action != model.SwapActionTLApprove {
		t.Errorf("第二页期望 [tl_approve]，实际 %+v", list)
	}
	if list[0].Actor.Name != "组长" {
		t.Errorf("期望操作人 组长，实际=%s", list[0].Actor.Name)
	}

	_, _, err = env.svc.ListAuditLogs(context.Background(), "swap-missing", &dto.SwapAuditLogListRequest{})
	if !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("期望 ErrResourceNotFound，实际: %v", err)
	}
}
