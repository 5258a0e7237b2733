package service

import (
	"wfm/backend/internal/model"
)

// actorGuard 动作发起人校验
type actorGuard int

const (
	guardTarget      actorGuard = iota // 仅被换班人
	guardParticipant                   // 申请人或被换班人
	guardLeader                        // 组长
	guardAdmin                         // 排班管理员
)

func (g actorGuard) allows(req *model.SwapRequest, actorID, actorRole string) bool {
	switch g {
	case guardTarget:
		return actorID == req.TargetUserID
	case guardParticipant:
		return actorID == req.RequesterID || actorID == req.TargetUserID
	case guardLeader:
		return actorRole == model.RoleLeader
	case guardAdmin:
		return actorRole == model.RoleAdmin
	}
	return false
}

func (g actorGuard) describe() string {
	switch g {
	case guardTarget:
		return "仅被换班人可操作"
	case guardParticipant:
		return "仅申请人或被换班人可操作"
	case guardLeader:
		return "仅组长可操作"
	case guardAdmin:
		return "仅排班管理员可操作"
	}
	return "无权操作"
}

// swapRule 单个动作的流转规则
type swapRule struct {
	from  []string
	guard actorGuard
	// to 为目标状态；tl_approve 在自动审批开启时改为 approved
	to string
}

func (r swapRule) allowsFrom(status string) bool {
	for _, s := range r.from {
		if s == status {
			return true
		}
	}
	return false
}

var swapRules = map[string]swapRule{
	model.SwapActionAccept: {
		from:  []string{model.SwapStatusPendingAcceptance},
		guard: guardTarget,
		to:    model.SwapStatusPendingTL,
	},
	model.SwapActionDecline: {
		from:  []string{model.SwapStatusPendingAcceptance},
		guard: guardTarget,
		to:    model.SwapStatusRejected,
	},
	model.SwapActionTLApprove: {
		from:  []string{model.SwapStatusPendingTL},
		guard: guardLeader,
		to:    model.SwapStatusPendingWFM,
	},
	model.SwapActionTLReject: {
		from:  []string{model.SwapStatusPendingTL},
		guard: guardLeader,
		to:    model.SwapStatusRejected,
	},
	model.SwapActionWFMApprove: {
		from:  []string{model.SwapStatusPendingWFM, model.SwapStatusPendingTL},
		guard: guardAdmin,
		to:    model.SwapStatusApproved,
	},
	model.SwapActionWFMReject: {
		from:  []string{model.SwapStatusPendingWFM, model.SwapStatusPendingTL},
		guard: guardAdmin,
		to:    model.SwapStatusRejected,
	},
	model.SwapActionCancel: {
		from: []string{
			model.SwapStatusPendingAcceptance,
			model.SwapStatusPendingTL,
			model.SwapStatusPendingWFM,
		},
		guard: guardParticipant,
		to:    model.SwapStatusRejected,
	},
	model.SwapActionRevoke: {
		from: []string{
			model.SwapStatusApproved,
			model.SwapStatusRejected,
			model.SwapStatusPendingWFM,
		},
		guard: guardAdmin,
		to:    model.SwapStatusPendingTL,
	},
}

// checkTransition 校验 (状态, 调用者, 动作) 是否合法
// status 为调用方期望的当前状态；不在规则表中的组合一律拒绝
func checkTransition(req *model.SwapRequest, actorID, actorRole, action, status string) (swapRule, error) {
	rule, ok := swapRules[action]
	if !ok {
		return swapRule{}, &InvalidTransitionError{
			Action: action, Role: actorRole, Status: status,
			Reason: "未知的换班动作",
		}
	}
	if !rule.guard.allows(req, actorID, actorRole) {
		return swapRule{}, &InvalidTransitionError{
			Action: action, Role: actorRole, Status: status,
			Reason:      rule.guard.describe(),
			ActorDenied: true,
		}
	}
	if !rule.allowsFrom(status) {
		return swapRule{}, &InvalidTransitionError{
			Action: action, Role: actorRole, Status: status,
			Reason: "当前状态不允许该操作",
		}
	}
	return rule, nil
}

// AllowedActions 返回调用者在当前状态下可执行的动作
func AllowedActions(req *model.SwapRequest, actorID, actorRole string) []string {
	actions := make([]string, 0, 2)
	for _, action := range model.SwapActions {
		if _, err := checkTransition(req, actorID, actorRole, action, req.Status); err == nil {
			actions = append(actions, action)
		}
	}
	return actions
}
