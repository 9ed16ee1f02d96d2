// Copyright (c) FlowCanvas Authors.
// Licensed under the MIT License.

/*
Package types 提供 FlowCanvas 的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 flow、graph、ordering、
handoff、merge、store、api 等上层模块提供统一的类型契约。所有跨包共享的
枚举、错误码和通知结构均定义于此，以避免循环依赖。

# 核心接口与类型

  - NodeKind          — 节点类别（agent / model / tool）
  - AgentType         — Agent 类型闭集（user_proxy、assistant、reasoning、
    captain、group_manager、doc_agent）
  - ChatType          — 连接类型闭集（chat / nested / group / hidden）
  - Error / ErrorCode — 结构化错误体系，含 HTTP 状态码与 Retryable 标记
  - Notice / Severity — 非致命的策略拒绝通知（snackbar 语义）

# 主要能力

  - 旧版 schema 归一化：NormalizeAgentType / NormalizeChatType
    （rag_user_proxy、swarm 等历史标签在边界转换为当前枚举）
  - 错误工具链：WrapError / AsError / IsErrorCode
  - 常用错误构造：NewValidationError / NewPolicyRejection / NewCycleError
*/
package types
