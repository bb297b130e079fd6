// Copyright 2026 dtfed Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil 提供 dtfed 测试的共享工具和辅助函数。

# 概述

testutil 包为各包的单元测试与属性测试提供统一的辅助能力，
避免各包重复实现相似的测试基础设施。

# 核心能力

  - 上下文辅助: TestContext / CancelledContext，自动注册 Cleanup
  - 断言工具: DatatableIDs / AssertDatatableIDs
  - 日志工具: NewObservedLogger 捕获 zap 日志用于断言

# 子包

  - testutil/mocks: MockRemoteClient（可记录调用、注入状态码与错误的节点目录）、
    MockResolver（逻辑节点到物理节点映射）、MockFeatureTableRepository
  - testutil/fixtures: 预置 DomainData、FeatureTable 样例

# 使用示例

	remote := mocks.NewMockRemoteClient().WithDomainData(fixtures.DomainData("alice", "t1"))
	mgr, err := datatable.NewManager(cfg, remote, nil, nil, zap.NewNop())
*/
package testutil
