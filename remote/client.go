package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BaSui01/dtfed/datatable"
	"github.com/BaSui01/dtfed/internal/ctxkeys"
	"github.com/BaSui01/dtfed/internal/tlsutil"
	"github.com/BaSui01/dtfed/types"
)

// 节点网关接口路径
const (
	PathQueryDomainData      = "/api/v1/domaindata/query"
	PathBatchQueryDomainData = "/api/v1/domaindata/batchQuery"
	PathListDomainData       = "/api/v1/domaindata/list"
	PathDeleteDomainData     = "/api/v1/domaindata/delete"
	PathQueryDomain          = "/api/v1/domain/query"
)

// HeaderRequestID 请求追踪头
const HeaderRequestID = "X-Request-ID"

// 响应体读取上限
const maxResponseBytes = 16 << 20

var _ datatable.RemoteClient = (*HTTPClient)(nil)

// =============================================================================
// 🌐 HTTP 客户端
// =============================================================================

// HTTPClient 通过节点网关的 HTTP/JSON 接口访问元数据目录
type HTTPClient struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     tokenSource
	logger     *zap.Logger
}

// NewHTTPClient 创建节点目录客户端
func NewHTTPClient(config Config, logger *zap.Logger) (*HTTPClient, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid remote config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tlsCfg, err := tlsutil.ClientTLSConfig(config.TLS)
	if err != nil {
		return nil, fmt.Errorf("build tls config: %w", err)
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	return &HTTPClient{
		config:     config,
		httpClient: tlsutil.SecureHTTPClient(config.Timeout, tlsCfg),
		limiter:    limiter,
		tokens:     newTokenSource(config),
		logger:     logger.With(zap.String("component", "remote_client")),
	}, nil
}

type domainDataKey struct {
	DomainID     string `json:"domain_id"`
	DomaindataID string `json:"domaindata_id"`
}

type batchQueryRequest struct {
	Data []domainDataKey `json:"data"`
}

type listRequest struct {
	Data types.ListQuery `json:"data"`
}

type domainRequest struct {
	DomainID string `json:"domain_id"`
}

type envelope struct {
	Status types.RemoteStatus `json:"status"`
	Data   json.RawMessage    `json:"data,omitempty"`
}

type domainDataList struct {
	DomaindataList []types.DomainData `json:"domaindata_list"`
}

func keyOf(ref types.NodeDatatableID) domainDataKey {
	return domainDataKey{DomainID: ref.NodeID, DomaindataID: ref.DatatableID}
}

// QueryDomainData 查询单条目录记录。记录不存在时返回 nil
func (c *HTTPClient) QueryDomainData(ctx context.Context, target string, ref types.NodeDatatableID) (*types.DomainData, types.RemoteStatus, error) {
	env, err := c.call(ctx, target, PathQueryDomainData, keyOf(ref))
	if err != nil || !env.Status.OK() {
		return nil, env.Status, err
	}

	var data types.DomainData
	ok, err := decodeData(env.Data, &data)
	if err != nil || !ok {
		return nil, env.Status, err
	}
	return &data, env.Status, nil
}

// BatchQueryDomainData 批量查询目录记录
func (c *HTTPClient) BatchQueryDomainData(ctx context.Context, target string, refs []types.NodeDatatableID) ([]types.DomainData, types.RemoteStatus, error) {
	req := batchQueryRequest{Data: make([]domainDataKey, 0, len(refs))}
	for _, ref := range refs {
		req.Data = append(req.Data, keyOf(ref))
	}
	return c.callList(ctx, target, PathBatchQueryDomainData, req)
}

// ListDomainData 按条件列出节点的目录记录
func (c *HTTPClient) ListDomainData(ctx context.Context, target string, query types.ListQuery) ([]types.DomainData, types.RemoteStatus, error) {
	return c.callList(ctx, target, PathListDomainData, listRequest{Data: query})
}

// DeleteDomainData 删除单条目录记录
func (c *HTTPClient) DeleteDomainData(ctx context.Context, target string, ref types.NodeDatatableID) (types.RemoteStatus, error) {
	env, err := c.call(ctx, target, PathDeleteDomainData, keyOf(ref))
	return env.Status, err
}

// IsDomainRegistered 检查节点是否已在网关注册，任何失败都视为未注册
func (c *HTTPClient) IsDomainRegistered(ctx context.Context, nodeID string) bool {
	env, err := c.call(ctx, nodeID, PathQueryDomain, domainRequest{DomainID: nodeID})
	if err != nil {
		c.logger.Debug("domain query failed", zap.String("node_id", nodeID), zap.Error(err))
		return false
	}
	return env.Status.OK()
}

func (c *HTTPClient) callList(ctx context.Context, target, path string, body any) ([]types.DomainData, types.RemoteStatus, error) {
	env, err := c.call(ctx, target, path, body)
	if err != nil || !env.Status.OK() {
		return nil, env.Status, err
	}

	var list domainDataList
	if _, err := decodeData(env.Data, &list); err != nil {
		return nil, env.Status, err
	}
	if list.DomaindataList == nil {
		list.DomaindataList = []types.DomainData{}
	}
	return list.DomaindataList, env.Status, nil
}

// call 发送 POST 请求并解析响应信封
func (c *HTTPClient) call(ctx context.Context, target, path string, body any) (envelope, error) {
	var env envelope

	endpoint, err := c.config.endpointFor(target)
	if err != nil {
		return env, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return env, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return env, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(endpoint, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return env, fmt.Errorf("failed to create request: %w", err)
	}

	requestID, ok := ctxkeys.RequestID(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if c.tokens != nil {
		token, err := c.tokens.Token(target)
		if err != nil {
			return env, fmt.Errorf("failed to sign token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, fmt.Errorf("request %s on %s: %w", path, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return env, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return env, fmt.Errorf("request %s on %s: http status %d: %s", path, target, resp.StatusCode, truncate(raw, 256))
	}

	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Status.OK() {
		c.logger.Debug("remote returned error status",
			zap.String("target", target),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Int32("code", env.Status.Code),
			zap.String("message", env.Status.Message),
		)
	}
	return env, nil
}

// decodeData 解析信封中的 data 字段，字段缺失或为 null 时返回 false
func decodeData(raw json.RawMessage, out any) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode data: %w", err)
	}
	return true, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
