// Copyright (c) FlowCanvas Authors.
// Licensed under the MIT License.

/*
Package handlers 提供 FlowCanvas HTTP API 的请求处理器实现。

# 概述

handlers 包实现了 FlowCanvas 所有 HTTP 端点的请求处理逻辑，
包括流文档状态、画布编辑、导入合并、交接目标管理、WebSocket
事件推送、健康检查以及统一的响应/错误处理。
所有 Handler 均遵循标准 net/http 接口，通过 Swagger 注解生成 API 文档。

# 核心类型

  - FlowHandler     — 文档状态、导出、校验、导入与画布编辑端点
  - HandoffHandler  — 交接目标列表（含可用性求值）与重排序
  - EventsHandler   — 文档变更事件的 WebSocket 广播
  - HealthHandler   — 服务健康检查（/health, /healthz, /ready）
  - Response        — 统一 JSON 响应结构（success + data + error + timestamp）
  - ErrorInfo       — 结构化错误信息，含 code、message、fields
  - ResponseWriter  — 包装 http.ResponseWriter 以捕获状态码

# 主要能力

  - 统一响应格式：WriteSuccess / WriteError / WriteJSON 辅助函数
  - 请求验证：DecodeJSONBody（严格模式）、ValidateContentType、导入体积上限
  - ErrorCode → HTTP 状态码自动映射（4xx/5xx；策略拒绝映射为 409）
  - 所有编辑端点经由 store.Dispatch 走纯 reducer，策略拒绝作为
    Notice 随 200 响应返回，文档保持不变
  - 每次提交通过 EventsHandler 推送 FlowEvent 帧给画布订阅者
  - 可扩展健康检查：RegisterCheck 注册自定义 HealthCheck 实现
*/
package handlers
