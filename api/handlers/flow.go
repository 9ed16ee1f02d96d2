package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/flowcanvas/api"
	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/internal/metrics"
	"github.com/BaSui01/flowcanvas/store"
	"github.com/BaSui01/flowcanvas/types"
)

// =============================================================================
// 🧩 流文档 Handler
// =============================================================================

// FlowHandler 流文档处理器
type FlowHandler struct {
	store          *store.Store
	metrics        *metrics.Collector
	logger         *zap.Logger
	maxImportBytes int64
}

// NewFlowHandler 创建流文档处理器
func NewFlowHandler(st *store.Store, collector *metrics.Collector, maxImportBytes int64, logger *zap.Logger) *FlowHandler {
	if maxImportBytes <= 0 {
		maxImportBytes = 4 << 20
	}
	return &FlowHandler{
		store:          st,
		metrics:        collector,
		logger:         logger.With(zap.String("component", "flow_handler")),
		maxImportBytes: maxImportBytes,
	}
}

// =============================================================================
// 🎯 文档状态端点
// =============================================================================

// HandleState 处理 /api/v1/flow 请求
// @Summary 当前文档状态
// @Description 返回当前流文档与版本号
// @Tags 流文档
// @Produce json
// @Success 200 {object} Response{data=api.FlowState}
// @Router /api/v1/flow [get]
func (h *FlowHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	state := h.store.State()
	WriteSuccess(w, api.FlowState{Version: state.Version, Document: state.Doc})
}

// HandleExport 处理 /api/v1/flow/export 请求
// @Summary 导出文档
// @Description 以规范 JSON 形式导出当前流文档
// @Tags 流文档
// @Produce json
// @Success 200 {object} flow.Document
// @Router /api/v1/flow/export [get]
func (h *FlowHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	state := h.store.State()
	data, err := state.Doc.Encode()
	if err != nil {
		WriteError(w, types.AsError(err), h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="flow.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleValidate 处理 /api/v1/flow/validate 请求
// @Summary 校验文档
// @Description 按文档 JSON Schema 与引用完整性规则校验一份流文档
// @Tags 流文档
// @Accept json
// @Produce json
// @Success 200 {object} Response{data=api.ValidateResponse}
// @Failure 400 {object} Response
// @Router /api/v1/flow/validate [post]
func (h *FlowHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}
	if !ValidateContentType(w, r, h.logger) {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxImportBytes))
	if err != nil {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "failed to read request body", h.logger)
		return
	}

	doc, decodeErr := flow.Decode(body)
	if decodeErr != nil {
		WriteError(w, types.AsError(decodeErr), h.logger)
		return
	}

	WriteSuccess(w, api.ValidateResponse{
		Valid: true,
		Nodes: len(doc.Nodes),
		Edges: len(doc.Edges),
	})
}

// HandleImport 处理 /api/v1/flow/import 请求
// @Summary 导入合并文档
// @Description 按选择项将外部文档合并进当前文档
// @Tags 流文档
// @Accept json
// @Produce json
// @Success 200 {object} Response{data=api.ActionResponse}
// @Failure 400 {object} Response
// @Router /api/v1/flow/import [post]
func (h *FlowHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImportBytes)
	var req api.ImportRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	action := store.Import{
		Selection:   req.Selection,
		Document:    req.Document,
		VisibleKind: req.VisibleKind,
	}

	state, notice, err := h.dispatch(w, action)
	if err != nil {
		h.metrics.RecordMerge(req.Selection.Override, "error")
		return
	}
	h.metrics.RecordMerge(req.Selection.Override, "ok")
	h.writeAction(w, state, notice)
}

// =============================================================================
// ✏️ 画布编辑端点
// =============================================================================

// HandleNodes 处理 /api/v1/flow/nodes 与 /api/v1/flow/nodes/{id}
// @Summary 节点编辑
// @Description POST 新增节点；DELETE /nodes/{id} 删除节点并级联删除相关边
// @Tags 画布
// @Accept json
// @Produce json
// @Success 200 {object} Response{data=api.ActionResponse}
// @Router /api/v1/flow/nodes [post]
func (h *FlowHandler) HandleNodes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req api.AddNodeRequest
		if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
			return
		}
		state, notice, err := h.dispatch(w, store.AddNode{Node: req.Node})
		if err != nil {
			return
		}
		h.writeAction(w, state, notice)

	case http.MethodDelete:
		id := pathTail(r.URL.Path, "/api/v1/flow/nodes/")
		if id == "" {
			WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "node id missing from path", h.logger)
			return
		}
		state, notice, err := h.dispatch(w, store.RemoveNode{ID: id})
		if err != nil {
			return
		}
		h.writeAction(w, state, notice)

	default:
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
	}
}

// HandleEdges 处理 /api/v1/flow/edges 与 /api/v1/flow/edges/{id}[/move]
// @Summary 连接编辑
// @Description POST 新增连接（类型与样式由服务端推导）；DELETE /edges/{id} 删除；
// @Description POST /edges/{id}/move 在排序视图中上移或下移
// @Tags 画布
// @Accept json
// @Produce json
// @Success 200 {object} Response{data=api.ActionResponse}
// @Router /api/v1/flow/edges [post]
func (h *FlowHandler) HandleEdges(w http.ResponseWriter, r *http.Request) {
	tail := pathTail(r.URL.Path, "/api/v1/flow/edges/")

	switch {
	case r.Method == http.MethodPost && tail == "":
		var req api.AddEdgeRequest
		if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
			return
		}
		state, notice, err := h.dispatch(w, store.AddEdge{
			ID:     req.ID,
			Source: req.Source,
			Target: req.Target,
			Label:  req.Label,
		})
		if err != nil {
			return
		}
		h.writeAction(w, state, notice)

	case r.Method == http.MethodPost && strings.HasSuffix(tail, "/move"):
		id := strings.TrimSuffix(tail, "/move")
		var req api.MoveEdgeRequest
		if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
			return
		}
		if req.Direction != "up" && req.Direction != "down" {
			WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "direction must be up or down", h.logger)
			return
		}
		state, notice, err := h.dispatch(w, store.MoveEdge{ID: id, Up: req.Direction == "up"})
		if err != nil {
			return
		}
		h.writeAction(w, state, notice)

	case r.Method == http.MethodDelete && tail != "":
		state, notice, err := h.dispatch(w, store.RemoveEdge{ID: tail})
		if err != nil {
			return
		}
		h.writeAction(w, state, notice)

	default:
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
	}
}

// HandleAsync 处理 /api/v1/flow/async 请求
// @Summary 切换排序模式
// @Description 在同步序号排序与异步前置依赖排序之间切换
// @Tags 画布
// @Accept json
// @Produce json
// @Success 200 {object} Response{data=api.ActionResponse}
// @Router /api/v1/flow/async [post]
func (h *FlowHandler) HandleAsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	var req api.SetAsyncRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	state, notice, err := h.dispatch(w, store.SetAsync{Async: req.Async})
	if err != nil {
		return
	}
	h.writeAction(w, state, notice)
}

// =============================================================================
// 🔧 内部辅助
// =============================================================================

// dispatch 执行动作并记录指标；出错时已写出响应。
func (h *FlowHandler) dispatch(w http.ResponseWriter, action store.Action) (store.State, *types.Notice, error) {
	start := time.Now()
	state, notice, err := h.store.Dispatch(action)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		h.metrics.RecordAction(store.Name(action), "error", elapsed)
		if types.IsErrorCode(err, types.ErrCycleDetected) {
			h.metrics.RecordRecompute(0, true)
		}
		WriteError(w, types.AsError(err), h.logger)
	case notice != nil:
		h.metrics.RecordAction(store.Name(action), "refused", elapsed)
	default:
		h.metrics.RecordAction(store.Name(action), "committed", elapsed)
		h.metrics.RecordDocumentSize(len(state.Doc.Nodes), len(state.Doc.Edges))
		// A committed async recompute always has at least one relaxation pass.
		if state.Ordering.Passes > 0 {
			h.metrics.RecordRecompute(state.Ordering.Passes, false)
		}
	}
	return state, notice, err
}

func (h *FlowHandler) writeAction(w http.ResponseWriter, state store.State, notice *types.Notice) {
	WriteSuccess(w, api.ActionResponse{
		State:  api.FlowState{Version: state.Version, Document: state.Doc},
		Notice: notice,
	})
}

// pathTail 返回 path 在 prefix 之后的部分；path 不含该前缀时返回空串。
func pathTail(path, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.TrimPrefix(path, prefix)
}
