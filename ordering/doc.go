// Copyright (c) FlowCanvas Authors.
// Licensed under the MIT License.

/*
Package ordering 维护会话边集合上的两种互斥排序约束。

# 概述

文档级 IsAsync 标志选择排序约束：同步模式下 order>=0 的边构成无间隙的
稠密序列 0..N-1；异步模式下 order 由前置依赖（prerequisites）通过不动点
迭代推导，并带显式环检测。所有操作均为 copy-on-write，返回全新的边切片。

# 核心接口与类型

  - Resequence        — 同步重编号（插入 / 删除后恢复稠密性）
  - Append            — 新边进入有序集（order = max+1，空集为 0）
  - Remove            — 移出有序集；拒绝移除最后一条初始会话
  - MoveUp / MoveDown — 与排序视图中的相邻边交换 order 值
  - Recompute         — 异步不动点推导（0 或 1+max(前置 order)）

# 主要能力

  - 环检测：DFS 先行检查前置依赖图，成环返回 CYCLE_DETECTED 而非悬挂
  - 前置引用收敛：prerequisites 被过滤至 order>=0 子集内
  - 未参与排序的边保持 order=-1 且 prerequisites 清空
*/
package ordering
