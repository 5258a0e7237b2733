package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/service"
	pkgerrors "wfm/backend/pkg/errors"
	"wfm/backend/pkg/response"
)

// SwapHandler 换班审批模块 HTTP 处理器
type SwapHandler struct {
	swapSvc service.SwapService
}

// NewSwapHandler 创建 SwapHandler
func NewSwapHandler(swapSvc service.SwapService) *SwapHandler {
	return &SwapHandler{swapSvc: swapSvc}
}

// Create 发起换班申请（申请人为当前登录用户）
// POST /api/v1/swaps
func (h *SwapHandler) Create(c *gin.Context) {
	var req dto.CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 获取换班申请详情
// GET /api/v1/swaps/:id
func (h *SwapHandler) Get(c *gin.Context) {
	result, err := h.swapSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OK(c, result)
}

// Transition 执行状态流转（接受 / 拒绝 / 审批 / 取消 / 撤销）
// POST /api/v1/swaps/:id/transitions
func (h *SwapHandler) Transition(c *gin.Context) {
	var req dto.SwapTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.Transition(c.Request.Context(), &dto.TransitionInput{
		RequestID:      c.Param("id"),
		ActorID:        actorID,
		ActorRole:      role,
		Action:         req.Action,
		ExpectedStatus: req.ExpectedStatus,
		Comment:        req.Comment,
	})
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OK(c, result)
}

// ListAuditLogs 按时间顺序列出换班申请的审计日志
// GET /api/v1/swaps/:id/audit-logs
func (h *SwapHandler) ListAuditLogs(c *gin.Context) {
	var req dto.SwapAuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	list, total, err := h.swapSvc.ListAuditLogs(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// handleSwapError 统一处理换班模块业务错误
func (h *SwapHandler) handleSwapError(c *gin.Context, err error) {
	var (
		invalid  *service.InvalidTransitionError
		conflict *pkgerrors.ConflictError
	)

	switch {
	case errors.As(err, &invalid):
		if invalid.ActorDenied {
			response.ErrorWithDetails(c, http.StatusForbidden, 14002, "无权执行该操作", invalid.Reason)
			return
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, 14002, "当前状态不允许该操作", invalid.Reason)
	case errors.As(err, &conflict):
		response.ErrorWithData(c, http.StatusConflict, 14003, "换班申请已被其他操作修改，请刷新后重试", gin.H{
			"expected_status": conflict.Expected,
			"actual_status":   conflict.Actual,
		})
	case errors.Is(err, service.ErrResourceNotFound):
		response.ErrorWithDetails(c, http.StatusNotFound, 14004, "资源不存在", err.Error())
	case errors.Is(err, service.ErrSwapSelf):
		response.BadRequest(c, 14005, "不能与自己换班")
	case errors.Is(err, service.ErrShiftOwnerMismatch):
		response.BadRequest(c, 14006, "班次不属于指定员工")
	case errors.Is(err, service.ErrSwapAlreadyInFlight):
		response.Conflict(c, 14007, "相同日期的换班申请正在审批中")
	case errors.Is(err, service.ErrSwapDeadlinePassed):
		response.BadRequest(c, 14008, "已超过换班申请截止时间")
	case errors.Is(err, service.ErrExchangeFailed):
		response.Error(c, http.StatusInternalServerError, 14009, "排班交换失败，操作已回滚，请联系管理员")
	case errors.Is(err, service.ErrAutoApproveUnknown):
		response.Error(c, http.StatusServiceUnavailable, 14010, "暂时无法读取审批配置，请稍后重试")
	default:
		response.InternalError(c)
	}
}
