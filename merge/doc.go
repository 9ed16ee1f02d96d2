// Copyright (c) FlowCanvas Authors.
// Licensed under the MIT License.

/*
Package merge 将导入的流程文档并入当前打开的文档。

# 概述

合并引擎接受一个选择结构（Selection），在覆盖（override）与合并（merge）
两种模式下组合两份文档，全程保持节点与边的引用完整性，并重新推导
visibility / animated 标记（从不信任导入载荷里的展示标记）。

# 核心接口与类型

  - Load          — (selection, current, imported, visibleKind) → 合并结果
  - Selection     — 顶层字段与节点类别（models / tools / agents）的参与开关
  - NodeSelection — 按类别的选择性导入过滤

# 主要能力

  - 标量字段仅在当前文档为空时取自导入，防止导入悄然改名
  - tags / requirements 以集合并集合并（去重、顺序无关）
  - 节点与边按 id 去重，当前文档优先；边过滤至存活端点
  - 合并后按文档模式恢复排序不变式（同步稠密重编号 / 异步不动点推导）
*/
package merge
