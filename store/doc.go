// Copyright (c) FlowCanvas Authors.
// Licensed under the MIT License.

/*
Package store 以纯 reducer 契约管理编辑器的文档状态。

# 概述

没有进程级单例：状态是显式传递的 State 值，更新通过
Reduce(state, action) → (state', notice, error) 纯函数完成。Store 是其上
的薄并发容器，负责原子换入新状态、维护有界历史并向订阅者广播版本。
引擎层（graph / ordering / handoff / merge）在 reducer 内部按
邻接规则 → 分类 → 样式 → 排序 的顺序显式组合。

# 核心接口与类型

  - State    — 文档快照 + 单调递增版本号
  - Action   — AddNode / RemoveNode / AddEdge / RemoveEdge / MoveEdge /
    ReorderHandoffs / SetAsync / Import
  - Reduce   — 纯 reducer；策略拒绝以 Notice 返回，状态保持不变
  - Store    — 并发安全的提交容器（Dispatch / Subscribe / History）

# 主要能力

  - 多字段更新作为单个新 State 交付，调用方不会观察到半更新的图
  - 策略拒绝（邻接规则、最后一条有序边）是 no-op 而非错误
  - 校验失败返回结构化错误并保留先前状态
*/
package store
