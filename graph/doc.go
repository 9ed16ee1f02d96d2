// Copyright (c) FlowCanvas Authors.
// Licensed under the MIT License.

/*
Package graph 提供边的邻接规则、语义分类与样式推导。

# 概述

graph 包是流程图一致性引擎的最底层：纯函数、无状态、无副作用。
上层的 ordering、handoff、merge 与 store 通过显式组合调用本包，
而不是通过框架级钩子链。

# 核心接口与类型

  - CheckConnection — Agent 类型邻接规则（分组进入 / 经由管理员 / 单入边）
  - Classify        — 根据端点推导边的语义类型（chat / group / hidden）
  - Style           — (ChatType, AgentType) → 描边颜色、箭头、动画标记
  - Rejection       — 策略拒绝通知（非致命，图保持不变）

# 主要能力

  - 规则按优先级求值，违规以 types.Notice 形式上浮为用户可见提示
  - Classify 幂等：端点不变时重复分类结果相同
  - Style 可按 (ChatType, AgentType) 键安全记忆化
*/
package graph
