// Copyright (c) FlowCanvas Authors.
// Licensed under the MIT License.

/*
Package flow 提供画布流程文档的核心数据模型与边界解码。

# 概述

flow 包定义了编辑器打开的流程文档（Document）及其节点、连接、嵌套会话等
组成结构，并在 JSON 边界上完成 schema 校验、版本归一化与强类型解码。
上层引擎（graph、ordering、handoff、merge）只消费本包产出的规范化表示，
旧版 schema 标签（swarm、rag_user_proxy 等）不会进入引擎类型空间。

# 核心接口与类型

  - Document       — 流程文档聚合（name / tags / isAsync / nodes / edges）
  - Node           — 类型化节点（agent / model / tool，含分组弱引用 ParentID）
  - Edge / EdgeData — 有向连接及其排序、前置依赖、嵌套载荷
  - NestedChat     — Agent 持有的嵌套会话结构（messages + order）
  - HandoffRecord  — 交接条件与可用性描述（按目标键控）
  - AfterWork      — 终结型交接目标（永远最后求值，不参与排序）

# 主要能力

  - Decode / Encode — JSON Schema 边界校验 + 版本化解码 + 旧标签归一化
  - Validate        — 引用完整性硬校验（悬空端点、重复 ID、非 agent 端点）
  - Clone 族        — 深拷贝辅助，支撑引擎的 copy-on-write 约定
*/
package flow
