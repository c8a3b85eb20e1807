package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"portfolio/cache"
)

const (
	dashboardTTL = 2 * time.Minute
	listTTL      = 5 * time.Minute
	detailTTL    = 5 * time.Minute
	rolesTTL     = 30 * time.Minute

	// sharedFetchTimeout bounds a collapsed request, which no single
	// caller's context can cancel.
	sharedFetchTimeout = 30 * time.Second
)

// Client is the typed, cached view of the benchmark API used by the
// showcase pages. A result is cached under its resource name and exact
// query, so different filters never share an entry. Concurrent misses for
// the same key share one upstream request. Returned values are shared
// between callers and must not be modified.
type Client struct {
	upstream *Upstream
	cache    *cache.Store
	group    singleflight.Group
}

func NewClient(upstream *Upstream, store *cache.Store) *Client {
	return &Client{upstream: upstream, cache: store}
}

func (c *Client) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	return fetch[DashboardSummary](ctx, c, "dashboard-summary", "/api/dashboard-summary", nil, dashboardTTL)
}

func (c *Client) Benchmarks(ctx context.Context, f Filter) (*BenchmarksResponse, error) {
	return fetch[BenchmarksResponse](ctx, c, "benchmarks", "/api/benchmarks", f.APIQuery(), listTTL)
}

func (c *Client) BenchmarkDetail(ctx context.Context, id int) (*BenchmarkDetail, error) {
	return fetch[BenchmarkDetail](ctx, c, "benchmark", "/api/benchmarks/"+strconv.Itoa(id), nil, detailTTL)
}

func (c *Client) Roles(ctx context.Context) (*RolesResponse, error) {
	return fetch[RolesResponse](ctx, c, "roles", "/api/roles", nil, rolesTTL)
}

func (c *Client) RoleDetail(ctx context.Context, name string) (*RoleDetail, error) {
	return fetch[RoleDetail](ctx, c, "role", "/api/roles/"+url.PathEscape(name), nil, detailTTL)
}

func fetch[T any](ctx context.Context, c *Client, resource, path string, query url.Values, ttl time.Duration) (*T, error) {
	key := cache.Key("benchmarks", resource, path, query.Encode())
	if v, ok := c.cache.Get(key); ok {
		return v.(*T), nil
	}

	// The shared request outlives any one caller: a caller that goes away
	// stops waiting, the others still get the result.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}

		fetchCtx, cancel := context.WithTimeout(shared, sharedFetchTimeout)
		defer cancel()

		body, err := c.upstream.Get(fetchCtx, path, query.Encode())
		if err != nil {
			return nil, err
		}
		out := new(T)
		if err := json.Unmarshal(body, out); err != nil {
			return nil, &NetworkError{Err: fmt.Errorf("failed to decode %s: %w", resource, err)}
		}
		c.cache.Set(key, out, ttl)
		return out, nil
	})

	select {
	case <-ctx.Done():
		return nil, &NetworkError{Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*T), nil
	}
}
