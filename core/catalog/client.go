package catalog

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"
)

// gqlRunner is the slice of the GraphQL client the catalog client depends on.
// Tests substitute a fake runner.
type gqlRunner interface {
	Run(ctx context.Context, req *graphql.Request, resp interface{}) error
}

// Client talks to the catalog admin GraphQL API. It carries both the reader
// and writer operations.
type Client struct {
	gql      gqlRunner
	token    string
	pageSize int
	logger   *zap.Logger
}

// NewClient creates a catalog client with bounded transport timeouts.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	endpoint := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", cfg.Store, cfg.APIVersion)
	httpClient := &http.Client{Timeout: timeoutDuration, Transport: transport}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 250 {
		pageSize = 250
	}

	return &Client{
		gql:      graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		token:    cfg.AccessToken,
		pageSize: pageSize,
		logger:   logger,
	}
}

// newRequest builds an authenticated GraphQL request.
func (c *Client) newRequest(query string) *graphql.Request {
	req := graphql.NewRequest(query)
	req.Header.Set("X-Shopify-Access-Token", c.token)
	return req
}
