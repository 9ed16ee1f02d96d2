package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/flowcanvas/api"
	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/handoff"
	"github.com/BaSui01/flowcanvas/internal/metrics"
	"github.com/BaSui01/flowcanvas/store"
	"github.com/BaSui01/flowcanvas/types"
)

// =============================================================================
// 🤝 交接 Handler
// =============================================================================

// HandoffHandler 交接目标处理器
type HandoffHandler struct {
	store     *store.Store
	evaluator *handoff.Evaluator
	metrics   *metrics.Collector
	logger    *zap.Logger
}

// NewHandoffHandler 创建交接目标处理器
func NewHandoffHandler(st *store.Store, evaluator *handoff.Evaluator, collector *metrics.Collector, logger *zap.Logger) *HandoffHandler {
	return &HandoffHandler{
		store:     st,
		evaluator: evaluator,
		metrics:   collector,
		logger:    logger.With(zap.String("component", "handoff_handler")),
	}
}

// HandleHandoffs 处理 /api/v1/agents/{id}/handoffs[/reorder]
// @Summary 交接目标列表与重排序
// @Description GET 返回解析后的交接目标列表（含可用性求值）；
// @Description POST /reorder 交换两个列表位置并同步 handoff 记录
// @Tags 交接
// @Accept json
// @Produce json
// @Success 200 {object} Response{data=api.HandoffListResponse}
// @Failure 404 {object} Response
// @Router /api/v1/agents/{id}/handoffs [get]
func (h *HandoffHandler) HandleHandoffs(w http.ResponseWriter, r *http.Request) {
	agentID, reorder, ok := parseHandoffPath(r.URL.Path)
	if !ok {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "agent id missing from path", h.logger)
		return
	}

	switch {
	case r.Method == http.MethodGet && !reorder:
		h.handleList(w, agentID)
	case r.Method == http.MethodPost && reorder:
		h.handleReorder(w, r, agentID)
	default:
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
	}
}

func (h *HandoffHandler) handleList(w http.ResponseWriter, agentID string) {
	state := h.store.State()
	agent, ok := state.Doc.Node(agentID)
	if !ok {
		WriteError(w, types.NewErrorf(types.ErrNotFound, "agent %s not found", agentID), h.logger)
		return
	}

	resolved := handoff.Resolve(agent, state.Doc.AgentEdges(agentID))

	resp := api.HandoffListResponse{AgentID: agentID}
	for _, target := range resolved.Targets {
		resp.Targets = append(resp.Targets, h.toAPITarget(agent, target))
	}
	if resolved.AfterWork != nil {
		aw := h.toAPITarget(agent, *resolved.AfterWork)
		resp.AfterWork = &aw
	}

	WriteSuccess(w, resp)
}

func (h *HandoffHandler) handleReorder(w http.ResponseWriter, r *http.Request, agentID string) {
	var req api.ReorderHandoffsRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		h.metrics.RecordHandoffReorder("error")
		return
	}

	state, notice, err := h.store.Dispatch(store.ReorderHandoffs{AgentID: agentID, I: req.I, J: req.J})
	if err != nil {
		h.metrics.RecordHandoffReorder("error")
		WriteError(w, types.AsError(err), h.logger)
		return
	}

	h.metrics.RecordHandoffReorder("ok")
	WriteSuccess(w, api.ActionResponse{
		State:  api.FlowState{Version: state.Version, Document: state.Doc},
		Notice: notice,
	})
}

// toAPITarget 将解析后的目标转换为 API 形状，顺带求值可用性条件。
func (h *HandoffHandler) toAPITarget(agent *flow.Node, target handoff.Target) api.HandoffTarget {
	available := true
	if av := h.availability(agent, target); av != nil {
		ok, err := h.evaluator.Available(*av, nil)
		if err != nil {
			h.logger.Warn("availability condition failed to evaluate",
				zap.String("agent", agent.ID),
				zap.String("target", target.ID),
				zap.Error(err))
			available = false
		} else {
			available = ok
		}
	}

	return api.HandoffTarget{
		ID:        target.ID,
		Type:      string(target.Type),
		Value:     target.Value,
		Order:     target.Order,
		Available: available,
	}
}

// availability 找到目标对应 handoff 记录上的可用性描述，没有则为 nil。
func (h *HandoffHandler) availability(agent *flow.Node, target handoff.Target) *flow.Availability {
	for i := range agent.Handoffs {
		if agent.Handoffs[i].TargetID == target.ID {
			return &agent.Handoffs[i].Available
		}
	}
	return nil
}

// parseHandoffPath 解析 /api/v1/agents/{id}/handoffs[/reorder]。
func parseHandoffPath(path string) (agentID string, reorder bool, ok bool) {
	tail := pathTail(path, "/api/v1/agents/")
	if tail == "" {
		return "", false, false
	}

	parts := strings.Split(tail, "/")
	switch {
	case len(parts) == 2 && parts[1] == "handoffs" && parts[0] != "":
		return parts[0], false, true
	case len(parts) == 3 && parts[1] == "handoffs" && parts[2] == "reorder" && parts[0] != "":
		return parts[0], true, true
	default:
		return "", false, false
	}
}
