// Copyright (c) FlowCanvas Authors.
// Licensed under the MIT License.

/*
Package handoff 按 Agent 推导可排序的交接目标列表。

# 概述

交接目标不是存储数据，而是由 Agent 的组内出边（groupEdges）、嵌套会话
（nestedChats）与交接记录（handoffs）推导出的视图。推导结果的 order
构成 0..k-1 的稠密排列；终结型 after-work 目标单独跟踪，永远最后求值，
不参与排序。所有变更均 copy-on-write，以一次合并的局部更新交付调用方。

# 核心接口与类型

  - Resolve           — 推导 Agent 的有序目标列表与 after-work 目标
  - Swap / MoveUp / MoveDown — 交换列表位置并同步 order 字段
  - Update            — 合并的局部更新（handoffs + nestedChats）
  - Evaluator         — expr 表达式求值器（交接可用性条件，带编译缓存）

# 主要能力

  - 缺失交接记录按默认条件文本（"Handoff to agent {name}"）自动补齐
  - 嵌套会话目标的 order 回写到其所属 NestedChat.Order
  - 可用性表达式求值失败返回结构化错误，不会 panic
*/
package handoff
