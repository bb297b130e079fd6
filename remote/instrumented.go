package remote

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BaSui01/dtfed/datatable"
	"github.com/BaSui01/dtfed/internal/metrics"
	"github.com/BaSui01/dtfed/types"
)

const tracerName = "github.com/BaSui01/dtfed/remote"

// 指标中的操作名
const (
	OpQuery        = "query"
	OpBatchQuery   = "batch_query"
	OpList         = "list"
	OpDelete       = "delete"
	OpIsRegistered = "is_registered"
)

var _ datatable.RemoteClient = (*Instrumented)(nil)

// Instrumented 为 RemoteClient 记录调用耗时、结果状态与 span
type Instrumented struct {
	next    datatable.RemoteClient
	metrics *metrics.Collector
	tracer  trace.Tracer
}

// Instrument 包装 next。collector 为 nil 时只记录 span
func Instrument(next datatable.RemoteClient, collector *metrics.Collector) *Instrumented {
	return &Instrumented{
		next:    next,
		metrics: collector,
		tracer:  otel.Tracer(tracerName),
	}
}

func (c *Instrumented) QueryDomainData(ctx context.Context, target string, ref types.NodeDatatableID) (*types.DomainData, types.RemoteStatus, error) {
	ctx, done := c.start(ctx, OpQuery, target, attribute.String("ref", ref.String()))
	data, status, err := c.next.QueryDomainData(ctx, target, ref)
	done(status, err)
	return data, status, err
}

func (c *Instrumented) BatchQueryDomainData(ctx context.Context, target string, refs []types.NodeDatatableID) ([]types.DomainData, types.RemoteStatus, error) {
	if c.metrics != nil {
		c.metrics.RecordBatchSize(OpBatchQuery, len(refs))
	}
	ctx, done := c.start(ctx, OpBatchQuery, target, attribute.Int("request_size", len(refs)))
	records, status, err := c.next.BatchQueryDomainData(ctx, target, refs)
	done(status, err)
	return records, status, err
}

func (c *Instrumented) ListDomainData(ctx context.Context, target string, query types.ListQuery) ([]types.DomainData, types.RemoteStatus, error) {
	ctx, done := c.start(ctx, OpList, target,
		attribute.String("domain_id", query.DomainID),
		attribute.String("vendor", query.Vendor),
	)
	records, status, err := c.next.ListDomainData(ctx, target, query)
	done(status, err)
	return records, status, err
}

func (c *Instrumented) DeleteDomainData(ctx context.Context, target string, ref types.NodeDatatableID) (types.RemoteStatus, error) {
	ctx, done := c.start(ctx, OpDelete, target, attribute.String("ref", ref.String()))
	status, err := c.next.DeleteDomainData(ctx, target, ref)
	done(status, err)
	return status, err
}

func (c *Instrumented) IsDomainRegistered(ctx context.Context, nodeID string) bool {
	ctx, done := c.start(ctx, OpIsRegistered, nodeID)
	ok := c.next.IsDomainRegistered(ctx, nodeID)
	done(types.RemoteStatus{}, nil)
	return ok
}

func (c *Instrumented) start(ctx context.Context, op, target string, attrs ...attribute.KeyValue) (context.Context, func(types.RemoteStatus, error)) {
	attrs = append(attrs, attribute.String("target", target))
	ctx, span := c.tracer.Start(ctx, "remote."+op, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, func(status types.RemoteStatus, err error) {
		result := metrics.StatusOK
		switch {
		case err != nil:
			result = metrics.StatusTransportError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case !status.OK():
			result = metrics.StatusRemoteError
			span.SetAttributes(attribute.Int("remote.code", int(status.Code)))
			span.SetStatus(codes.Error, status.Message)
		}
		span.End()

		if c.metrics != nil {
			c.metrics.RecordRemoteCall(op, target, result, time.Since(start))
		}
	}
}
