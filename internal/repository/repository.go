package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation PostgreSQL 唯一约束冲突错误码
const pgUniqueViolation = "23505"

// Transactor 事务执行器
// fn 内通过 txRepo 访问的所有 Repository 共享同一事务；fn 返回错误即整体回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(txRepo *Repository) error) error
}

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User            UserRepository
	ShiftAssignment ShiftAssignmentRepository
	SwapRequest     SwapRequestRepository
	SwapAuditLog    SwapAuditLogRepository
	SystemConfig    SystemConfigRepository

	Tx Transactor
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	r := &Repository{
		db:              db,
		User:            NewUserRepo(db),
		ShiftAssignment: NewShiftAssignmentRepo(db),
		SwapRequest:     NewSwapRequestRepo(db),
		SwapAuditLog:    NewSwapAuditLogRepo(db),
		SystemConfig:    NewSystemConfigRepo(db),
	}
	r.Tx = &gormTransactor{db: db}
	return r
}

// Transaction 在事务中执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.Tx.Transaction(ctx, fn)
}

// BeginTx 手动开启事务（调用方负责 Commit / Rollback）
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到指定事务连接的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// ── GORM 事务实现 ──

type gormTransactor struct {
	db *gorm.DB
}

func (t *gormTransactor) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	// 已处于事务中时 GORM 使用 SAVEPOINT 嵌套
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// IsUniqueViolation 判断是否为唯一约束冲突
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
