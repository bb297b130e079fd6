// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 提供通用的测试辅助函数和断言
// =============================================================================
package testutil

import (
	"context"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BaSui01/dtfed/types"
)

// TestContext 返回带超时的测试上下文
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext 返回已取消的上下文
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// NewObservedLogger 返回可观察的 logger，用于断言日志输出
func NewObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

// DatatableIDs 返回排序后的 "node/table" 列表
func DatatableIDs(list []types.Datatable) []string {
	ids := make([]string, 0, len(list))
	for _, d := range list {
		ids = append(ids, d.Key().String())
	}
	sort.Strings(ids)
	return ids
}

// AssertDatatableIDs 断言数据表集合（忽略顺序）与期望一致
func AssertDatatableIDs(t *testing.T, expected []string, actual []types.Datatable) {
	t.Helper()

	got := DatatableIDs(actual)
	want := append([]string(nil), expected...)
	sort.Strings(want)

	if len(got) != len(want) {
		t.Errorf("datatable count mismatch: expected %v, got %v", want, got)
		return
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("datatable[%d] mismatch: expected %q, got %q", i, want[i], got[i])
		}
	}
}
