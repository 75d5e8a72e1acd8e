package api

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/podiumstats/rostermatch/pkg/identity"
	"github.com/podiumstats/rostermatch/pkg/kit"
)

// RegisterMCPTools registers the resolver MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, dir *identity.Directory) {
	registerResolveName(srv, dir)
	registerResolveBatch(srv, dir)
	registerListClusters(srv, dir)
}

func registerResolveName(srv *server.MCPServer, dir *identity.Directory) {
	tool := mcp.NewTool("resolve_name",
		mcp.WithDescription("Resolve a debater name, in any observed spelling, to its canonical identity cluster."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name to resolve")),
	)

	kit.RegisterMCPTool(srv, tool, resolveNameEndpoint(dir), func(req mcp.CallToolRequest) (any, error) {
		name, _ := req.GetArguments()["name"].(string)
		return &resolveReq{Name: name}, nil
	})
}

func registerResolveBatch(srv *server.MCPServer, dir *identity.Directory) {
	tool := mcp.NewTool("resolve_batch",
		mcp.WithDescription("Resolve multiple debater names (up to 100) to their identity clusters."),
		mcp.WithString("names", mcp.Required(), mcp.Description("Comma-separated list of names to resolve")),
	)

	kit.RegisterMCPTool(srv, tool, resolveBatchEndpoint(dir), func(req mcp.CallToolRequest) (any, error) {
		namesStr, _ := req.GetArguments()["names"].(string)
		names := strings.Split(namesStr, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		return &resolveBatchReq{Names: names}, nil
	})
}

func registerListClusters(srv *server.MCPServer, dir *identity.Directory) {
	tool := mcp.NewTool("list_clusters",
		mcp.WithDescription("List all resolved identity clusters with display names, spellings, and seasons."),
	)

	kit.RegisterMCPTool(srv, tool, listClustersEndpoint(dir), func(_ mcp.CallToolRequest) (any, error) {
		return nil, nil
	})
}
