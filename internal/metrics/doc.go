// 版权所有 2024 FlowCanvas Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖 HTTP、
流文档操作与 WebSocket 三大维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离，
支持多维度 label 分组，便于 Grafana 等工具进行可视化与告警。

# 核心类型

  - Collector：指标收集器，持有 Counter、Histogram、Gauge 等
    Prometheus 向量指标，按业务域分组管理。

# 主要能力

  - HTTP 指标：请求总数、请求耗时、请求/响应体大小，
    按 method/path/status 分组，状态码归类为 2xx/3xx/4xx/5xx。
  - 流文档操作指标：动作总数与耗时（按 action/outcome 分组）、
    策略拒绝计数、导入合并计数（override/merge）、交接重排序计数、
    异步排序重算收敛轮数与前置依赖环计数、当前文档节点/边规模。
  - WebSocket 指标：活跃订阅连接数、事件广播计数。
*/
package metrics
