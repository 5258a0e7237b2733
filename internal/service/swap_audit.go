package service

import (
	"context"
	"fmt"
	"strings"

	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
)

// AuditRecorder 换班审计记录器
// 记录失败只告警，不影响状态流转
type AuditRecorder interface {
	Record(ctx context.Context, entry *model.SwapAuditLog) error
}

type dbAuditRecorder struct {
	repo repository.SwapAuditLogRepository
}

// NewAuditRecorder 创建落库的审计记录器
func NewAuditRecorder(repo repository.SwapAuditLogRepository) AuditRecorder {
	return &dbAuditRecorder{repo: repo}
}

func (r *dbAuditRecorder) Record(ctx context.Context, entry *model.SwapAuditLog) error {
	if entry.Message == "" {
		entry.Message = RenderAuditLine(entry)
	}
	return r.repo.Create(ctx, entry)
}

// ── 文案 ──

var statusLabels = map[string]string{
	model.SwapStatusPendingAcceptance: "待对方确认",
	model.SwapStatusPendingTL:         "待组长审批",
	model.SwapStatusPendingWFM:        "待排班审批",
	model.SwapStatusApproved:          "已通过",
	model.SwapStatusRejected:          "已拒绝",
}

var actionLabels = map[string]string{
	model.SwapActionCreate:     "发起换班申请",
	model.SwapActionAccept:     "同意换班",
	model.SwapActionDecline:    "拒绝换班",
	model.SwapActionTLApprove:  "组长审批通过",
	model.SwapActionTLReject:   "组长驳回",
	model.SwapActionWFMApprove: "排班审批通过",
	model.SwapActionWFMReject:  "排班驳回",
	model.SwapActionCancel:     "撤回申请",
	model.SwapActionRevoke:     "撤销审批结果",
}

var roleLabels = map[string]string{
	model.RoleMember: "员工",
	model.RoleLeader: "组长",
	model.RoleAdmin:  "排班管理员",
}

func labelOr(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return key
}

// RenderAuditLine 生成一行可读的审计文案
// 例：张三（组长）组长审批通过：待组长审批 → 待排班审批
func RenderAuditLine(entry *model.SwapAuditLog) string {
	var b strings.Builder

	actor := entry.ActorName
	if actor == "" {
		actor = entry.ActorID
	}
	b.WriteString(actor)
	if entry.ActorRole != "" {
		fmt.Fprintf(&b, "（%s）", labelOr(roleLabels, entry.ActorRole))
	}
	b.WriteString(labelOr(actionLabels, entry.Action))

	if entry.FromStatus == "" {
		fmt.Fprintf(&b, "：%s", labelOr(statusLabels, entry.ToStatus))
	} else {
		fmt.Fprintf(&b, "：%s → %s", labelOr(statusLabels, entry.FromStatus), labelOr(statusLabels, entry.ToStatus))
	}

	if entry.Note != "" {
		fmt.Fprintf(&b, "。%s", entry.Note)
	}
	return b.String()
}
