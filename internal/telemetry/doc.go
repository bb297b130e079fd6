// Copyright (c) dtfed Authors.
// Licensed under the MIT License.

/*
包 telemetry 负责 OpenTelemetry SDK 的初始化与关闭。

# 概述

Init 按 config.TelemetryConfig 创建 OTLP gRPC 导出器，并注册全局
TracerProvider 与 MeterProvider。datatable 与 remote 包在构造时通过
otel.Tracer 获取 tracer，因此 Init 需要先于它们调用。

遥测禁用时不连接任何外部服务，全局 provider 保持 noop。
*/
package telemetry
