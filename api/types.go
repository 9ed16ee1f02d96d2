package api

import (
	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/merge"
	"github.com/BaSui01/flowcanvas/types"
)

// =============================================================================
// 流文档类型
// =============================================================================

// FlowState 表示当前文档状态响应。
// @Description 流文档状态
type FlowState struct {
	// 文档版本号，每次提交递增
	Version uint64 `json:"version" example:"12"`
	// 流文档内容
	Document flow.Document `json:"document"`
}

// ValidateResponse 表示文档校验结果。
// @Description 文档校验结果
type ValidateResponse struct {
	// 是否通过校验
	Valid bool `json:"valid"`
	// 节点数量
	Nodes int `json:"nodes"`
	// 边数量
	Edges int `json:"edges"`
}

// ImportRequest 表示导入合并请求。
// @Description 导入合并请求
type ImportRequest struct {
	// 参与导入的字段与节点类别选择
	Selection merge.Selection `json:"selection"`
	// 待导入的流文档
	Document flow.Document `json:"document"`
	// 当前画布可见的节点类别过滤（空 = 不过滤）
	VisibleKind types.NodeKind `json:"visible_kind,omitempty" example:"agent"`
}

// =============================================================================
// 画布编辑类型
// =============================================================================

// AddNodeRequest 表示新增节点请求。
// @Description 新增节点请求
type AddNodeRequest struct {
	// 节点内容；id 为空时由服务端生成
	Node flow.Node `json:"node"`
}

// AddEdgeRequest 表示新增连接请求。
// @Description 新增连接请求
type AddEdgeRequest struct {
	// 边 id；为空时由服务端生成
	ID string `json:"id,omitempty"`
	// 源节点 id
	Source string `json:"source" binding:"required"`
	// 目标节点 id
	Target string `json:"target" binding:"required"`
	// 边标签
	Label string `json:"label,omitempty"`
}

// MoveEdgeRequest 表示排序移动请求。
// @Description 排序移动请求
type MoveEdgeRequest struct {
	// 移动方向: up 或 down
	Direction string `json:"direction" example:"up" binding:"required"`
}

// SetAsyncRequest 表示排序模式切换请求。
// @Description 排序模式切换请求
type SetAsyncRequest struct {
	// 是否启用异步前置依赖排序
	Async bool `json:"async"`
}

// ActionResponse 表示一次编辑动作的结果。
// @Description 编辑动作结果
type ActionResponse struct {
	// 提交后的文档状态
	State FlowState `json:"state"`
	// 策略拒绝提示（动作未提交时出现）
	Notice *types.Notice `json:"notice,omitempty"`
}

// =============================================================================
// 交接类型
// =============================================================================

// HandoffTarget 表示一个已解析的交接目标。
// @Description 交接目标
type HandoffTarget struct {
	// 目标 id（边 id、"nested-chat" 或 "after-work"）
	ID string `json:"id"`
	// 目标类型
	Type string `json:"type" example:"agent_target"`
	// 目标值（代理 id 或 after-work 行为）
	Value string `json:"value"`
	// 解析后的顺序
	Order int `json:"order"`
	// 可用性条件求值结果
	Available bool `json:"available"`
}

// HandoffListResponse 表示一个代理的交接目标列表。
// @Description 交接目标列表
type HandoffListResponse struct {
	// 代理 id
	AgentID string `json:"agent_id"`
	// 可重排序的目标，按 order 升序
	Targets []HandoffTarget `json:"targets"`
	// 终态 after-work 目标（始终最后求值，不参与排序）
	AfterWork *HandoffTarget `json:"after_work,omitempty"`
}

// ReorderHandoffsRequest 表示交接重排序请求。
// @Description 交接重排序请求
type ReorderHandoffsRequest struct {
	// 列表位置 i
	I int `json:"i"`
	// 列表位置 j
	J int `json:"j"`
}
