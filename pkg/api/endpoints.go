package api

import (
	"context"
	"fmt"

	"github.com/podiumstats/rostermatch/pkg/identity"
	"github.com/podiumstats/rostermatch/pkg/kit"
)

// Shared request/response types used by both HTTP and MCP transports.

type resolveReq struct {
	Name string
}

type resolveBatchReq struct {
	Names []string
}

// ResolveResult is the response for one queried name.
type ResolveResult struct {
	Query    string                `json:"query"`
	Resolved bool                  `json:"resolved"`
	Cluster  *identity.ClusterInfo `json:"cluster,omitempty"`
}

type batchResponse struct {
	Results []ResolveResult `json:"results"`
}

type clustersResponse struct {
	Clusters []identity.ClusterInfo `json:"clusters"`
}

func resolveOne(dir *identity.Directory, name string) ResolveResult {
	result := ResolveResult{Query: name}
	if info, ok := dir.Lookup(name); ok {
		result.Resolved = true
		result.Cluster = &info
	}
	return result
}

func resolveNameEndpoint(dir *identity.Directory) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*resolveReq)
		return resolveOne(dir, req.Name), nil
	}
}

func resolveBatchEndpoint(dir *identity.Directory) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*resolveBatchReq)
		if len(req.Names) == 0 {
			return nil, fmt.Errorf("names array is empty")
		}
		if len(req.Names) > 100 {
			return nil, fmt.Errorf("too many names (max 100, got %d)", len(req.Names))
		}
		results := make([]ResolveResult, len(req.Names))
		for i, name := range req.Names {
			results[i] = resolveOne(dir, name)
		}
		return batchResponse{Results: results}, nil
	}
}

func listClustersEndpoint(dir *identity.Directory) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return clustersResponse{Clusters: dir.ListClusters()}, nil
	}
}
