package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
	pkgerrors "wfm/backend/pkg/errors"
	pkgredis "wfm/backend/pkg/redis"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) add(id, name, role string) {
	m.users[id] = &model.User{UserID: id, Name: name, Role: role}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock ShiftAssignmentRepository ──

type mockShiftRepo struct {
	mu      sync.Mutex
	records map[string]*model.ShiftAssignment
	failOn  map[string]error // 指定记录 UpdateLabel 失败
	writes  int
	seq     int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{
		records: make(map[string]*model.ShiftAssignment),
		failOn:  make(map[string]error),
	}
}

func (m *mockShiftRepo) add(employeeID string, date time.Time, label string) *model.ShiftAssignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	sa := &model.ShiftAssignment{
		ShiftAssignmentID: fmt.Sprintf("shift-%d", m.seq),
		EmployeeID:        employeeID,
		ShiftDate:         date,
		Label:             label,
	}
	m.records[sa.ShiftAssignmentID] = sa
	return sa
}

// label 返回员工某日班次，无记录时返回 ""
func (m *mockShiftRepo) label(employeeID string, date time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sa := range m.records {
		if sa.EmployeeID == employeeID && sa.ShiftDate.Equal(date) {
			return sa.Label
		}
	}
	return ""
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.ShiftAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sa, ok := m.records[id]; ok {
		cp := *sa
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*model.ShiftAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sa := range m.records {
		if sa.EmployeeID == employeeID && sa.ShiftDate.Equal(date) {
			cp := *sa
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) UpdateLabel(_ context.Context, id, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[id]; ok {
		return err
	}
	sa, ok := m.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sa.Label = label
	m.writes++
	return nil
}

func (m *mockShiftRepo) snapshot() map[string]model.ShiftAssignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[string]model.ShiftAssignment, len(m.records))
	for id, sa := range m.records {
		snap[id] = *sa
	}
	return snap
}

func (m *mockShiftRepo) restore(snap map[string]model.ShiftAssignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]*model.ShiftAssignment, len(snap))
	for id, sa := range snap {
		cp := sa
		m.records[id] = &cp
	}
}

// ── Mock SwapRequestRepository ──

type mockSwapRepo struct {
	mu       sync.Mutex
	requests map[string]*model.SwapRequest
	seq      int
}

func newMockSwapRepo() *mockSwapRepo {
	return &mockSwapRepo{requests: make(map[string]*model.SwapRequest)}
}

func (m *mockSwapRepo) put(req *model.SwapRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.requests[req.SwapRequestID] = &cp
}

func (m *mockSwapRepo) Create(_ context.Context, req *model.SwapRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// 与 uk_swap_requests_in_flight 一致
	for _, r := range m.requests {
		if model.IsInFlight(r.Status) &&
			r.RequesterID == req.RequesterID && r.TargetUserID == req.TargetUserID &&
			r.RequesterDate.Equal(req.RequesterDate) && r.TargetDate.Equal(req.TargetDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	if req.SwapRequestID == "" {
		m.seq++
		req.SwapRequestID = fmt.Sprintf("swap-%d", m.seq)
	}
	now := time.Now().UTC()
	req.CreatedAt, req.UpdatedAt = now, now
	cp := *req
	m.requests[req.SwapRequestID] = &cp
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*model.SwapRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRepo) UpdateStatus(_ context.Context, upd *repository.SwapStatusUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[upd.ID]
	if !ok {
		return pkgerrors.NewConflictError("SwapRequest", upd.ID, upd.ExpectedStatus, "")
	}
	if r.Status != upd.ExpectedStatus {
		return pkgerrors.NewConflictError("SwapRequest", upd.ID, upd.ExpectedStatus, r.Status)
	}
	r.Status = upd.NewStatus
	r.TLApprovedAt = upd.TLApprovedAt
	r.WFMApprovedAt = upd.WFMApprovedAt
	return nil
}

func (m *mockSwapRepo) snapshot() map[string]model.SwapRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[string]model.SwapRequest, len(m.requests))
	for id, r := range m.requests {
		snap[id] = *r
	}
	return snap
}

func (m *mockSwapRepo) restore(snap map[string]model.SwapRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]*model.SwapRequest, len(snap))
	for id, r := range snap {
		cp := r
		m.requests[id] = &cp
	}
}

// ── Mock SwapAuditLogRepository ──

type mockAuditRepo struct {
	mu         sync.Mutex
	logs       []model.SwapAuditLog
	failCreate error
}

func newMockAuditRepo() *mockAuditRepo {
	return &mockAuditRepo{}
}

func (m *mockAuditRepo) Create(_ context.Context, log *model.SwapAuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	log.SwapAuditLogID = fmt.Sprintf("audit-%d", len(m.logs)+1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockAuditRepo) ListByRequest(_ context.Context, requestID string, offset, limit int) ([]model.SwapAuditLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.SwapAuditLog
	for _, l := range m.logs {
		if l.SwapRequestID == requestID {
			matched = append(matched, l)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.SwapAuditLog{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockAuditRepo) entries(requestID string) []model.SwapAuditLog {
	logs, _, _ := m.ListByRequest(context.Background(), requestID, 0, 1000)
	return logs
}

// ── Mock SystemConfigRepository ──

type mockSystemConfigRepo struct {
	mu    sync.Mutex
	cfg   *model.SystemConfig
	reads int
	err   error
}

func newMockSystemConfigRepo() *mockSystemConfigRepo {
	return &mockSystemConfigRepo{
		cfg: &model.SystemConfig{
			Singleton:         true,
			AutoApproveSwaps:  false,
			SwapDeadlineHours: 24,
		},
	}
}

func (m *mockSystemConfigRepo) Get(_ context.Context) (*model.SystemConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	if m.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.cfg
	return &cp, nil
}

func (m *mockSystemConfigRepo) Update(_ context.Context, cfg *model.SystemConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cfg
	m.cfg = &cp
	return nil
}

// ── Mock Transactor ──

// mockTransactor 串行执行事务，出错时恢复排班与申请数据
type mockTransactor struct {
	mu     sync.Mutex
	repo   *repository.Repository
	shifts *mockShiftRepo
	swaps  *mockSwapRepo
}

func (m *mockTransactor) Transaction(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shiftSnap := m.shifts.snapshot()
	swapSnap := m.swaps.snapshot()

	if err := fn(m.repo); err != nil {
		m.shifts.restore(shiftSnap)
		m.swaps.restore(swapSnap)
		return err
	}
	return nil
}

// ── Mock BoolCache ──

type mockBoolCache struct {
	mu      sync.Mutex
	values  map[string]bool
	getErr  error
	deletes int
}

func newMockBoolCache() *mockBoolCache {
	return &mockBoolCache{values: make(map[string]bool)}
}

func (m *mockBoolCache) GetBool(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return false, pkgredis.ErrCacheMiss
	}
	return v, nil
}

func (m *mockBoolCache) SetBool(_ context.Context, key string, value bool, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *mockBoolCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	m.deletes++
	return nil
}

// ── Recording SwapEventPublisher ──

type recordingPublisher struct {
	mu     sync.Mutex
	events []SwapEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event *SwapEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *event)
	return nil
}

var errMockStore = errors.New("mock store failure")
