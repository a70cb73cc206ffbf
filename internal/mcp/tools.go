package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names as constants for consistent reference.
const (
	ToolCreatePost       = "create_post"
	ToolGetAnalytics     = "get_analytics"
	ToolSchedulePosts    = "schedule_posts"
	ToolGenerateHashtags = "generate_hashtags"
	ToolOptimizeMedia    = "optimize_media"
	ToolGetTrending      = "get_trending"
	ToolManageCalendar   = "manage_calendar"
)

// createPostSchema returns the JSON schema for the create_post tool input.
// Schemas are written by hand to carry enum and bound constraints.
func createPostSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"content": {
				"type": "string",
				"description": "The post text"
			},
			"platforms": {
				"type": "array",
				"items": {"type": "string", "enum": ["twitter", "linkedin", "instagram", "facebook"]},
				"description": "Target platforms"
			},
			"media_paths": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Local paths or URLs of media to attach"
			},
			"hashtags": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Hashtags without the # prefix (auto-generated when omitted)"
			},
			"mentions": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Account handles to mention"
			},
			"schedule": {
				"type": "string",
				"description": "RFC 3339 time to publish; omit for immediate posting"
			},
			"optimize_timing": {
				"type": "boolean",
				"description": "Schedule at the next best engagement hour when no schedule is given"
			}
		},
		"required": ["content", "platforms"]
	}`)
}

// getAnalyticsSchema returns the JSON schema for the get_analytics tool input.
func getAnalyticsSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"platforms": {
				"type": "array",
				"items": {"type": "string", "enum": ["twitter", "linkedin", "instagram", "facebook"]},
				"description": "Platforms to query (defaults to all configured)"
			},
			"metric_type": {
				"type": "string",
				"enum": ["impressions", "engagement", "reach", "clicks", "conversions"],
				"description": "Primary metric of interest"
			},
			"date_range": {
				"type": "object",
				"properties": {
					"start_date": {"type": "string", "description": "YYYY-MM-DD"},
					"end_date": {"type": "string", "description": "YYYY-MM-DD"}
				},
				"required": ["start_date", "end_date"]
			},
			"post_ids": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Specific post IDs; omit for account-level metrics"
			}
		}
	}`)
}

// schedulePostsSchema returns the JSON schema for the schedule_posts tool input.
func schedulePostsSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"posts": {
				"type": "array",
				"description": "Posts to schedule, each shaped like create_post arguments",
				"items": {
					"type": "object",
					"properties": {
						"content": {"type": "string"},
						"platforms": {
							"type": "array",
							"items": {"type": "string", "enum": ["twitter", "linkedin", "instagram", "facebook"]}
						},
						"media_paths": {"type": "array", "items": {"type": "string"}},
						"hashtags": {"type": "array", "items": {"type": "string"}},
						"mentions": {"type": "array", "items": {"type": "string"}},
						"schedule": {"type": "string", "description": "RFC 3339 time"}
					},
					"required": ["content", "platforms"]
				}
			},
			"optimize_spacing": {
				"type": "boolean",
				"description": "Replace explicit schedules with computed spacing"
			},
			"spacing_strategy": {
				"type": "string",
				"enum": ["even_spacing", "peak_times"],
				"description": "How to space posts without explicit schedules"
			}
		},
		"required": ["posts"]
	}`)
}

// generateHashtagsSchema returns the JSON schema for the generate_hashtags
// tool input.
func generateHashtagsSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"content": {
				"type": "string",
				"description": "The post text to derive hashtags from"
			},
			"platform": {
				"type": "string",
				"enum": ["twitter", "linkedin", "instagram", "facebook"],
				"description": "Platform whose hashtag conventions apply"
			},
			"max_hashtags": {
				"type": "integer",
				"minimum": 1,
				"maximum": 30,
				"description": "Maximum hashtags to return"
			},
			"include_trending": {
				"type": "boolean",
				"description": "Flag hashtags that currently trend on the platform"
			}
		},
		"required": ["content", "platform"]
	}`)
}

// optimizeMediaSchema returns the JSON schema for the optimize_media tool input.
func optimizeMediaSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"media_path": {
				"type": "string",
				"description": "Local path of the image or video to optimize"
			},
			"platforms": {
				"type": "array",
				"items": {"type": "string", "enum": ["twitter", "linkedin", "instagram", "facebook"]},
				"description": "Platforms whose limits the output must satisfy"
			}
		},
		"required": ["media_path"]
	}`)
}

// getTrendingSchema returns the JSON schema for the get_trending tool input.
func getTrendingSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"platforms": {
				"type": "array",
				"items": {"type": "string", "enum": ["twitter", "linkedin", "instagram", "facebook"]},
				"description": "Platforms to query (defaults to all configured)"
			},
			"category": {
				"type": "string",
				"description": "Industry or category filter"
			},
			"location": {
				"type": "string",
				"description": "Geographic location"
			}
		}
	}`)
}

// manageCalendarSchema returns the JSON schema for the manage_calendar tool
// input.
func manageCalendarSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"action": {
				"type": "string",
				"enum": ["view", "update", "delete", "reschedule", "cancel"],
				"description": "Calendar operation to perform"
			},
			"date_range": {
				"type": "object",
				"properties": {
					"start_date": {"type": "string", "description": "YYYY-MM-DD"},
					"end_date": {"type": "string", "description": "YYYY-MM-DD"}
				},
				"required": ["start_date", "end_date"]
			},
			"post_ids": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Calendar entry IDs to operate on"
			},
			"new_time": {
				"type": "string",
				"description": "RFC 3339 time for update/reschedule"
			}
		},
		"required": ["action"]
	}`)
}

// RegisterTools registers all socialmcp tools with the MCP server.
func RegisterTools(s *Server) {
	mcpServer := s.MCPServer()

	mcpServer.AddTool(&mcp.Tool{
		Name:        ToolCreatePost,
		Description: "Create a post on one or more social platforms, immediately or scheduled",
		InputSchema: createPostSchema(),
	}, createPostHandler)

	mcpServer.AddTool(&mcp.Tool{
		Name:        ToolGetAnalytics,
		Description: "Fetch engagement metrics across platforms with aggregated totals",
		InputSchema: getAnalyticsSchema(),
	}, getAnalyticsHandler)

	mcpServer.AddTool(&mcp.Tool{
		Name:        ToolSchedulePosts,
		Description: "Schedule multiple posts with optional automatic spacing",
		InputSchema: schedulePostsSchema(),
	}, schedulePostsHandler)

	mcpServer.AddTool(&mcp.Tool{
		Name:        ToolGenerateHashtags,
		Description: "Generate scored hashtag suggestions for a post",
		InputSchema: generateHashtagsSchema(),
	}, generateHashtagsHandler)

	mcpServer.AddTool(&mcp.Tool{
		Name:        ToolOptimizeMedia,
		Description: "Resize and transcode media to fit platform upload limits",
		InputSchema: optimizeMediaSchema(),
	}, optimizeMediaHandler)

	mcpServer.AddTool(&mcp.Tool{
		Name:        ToolGetTrending,
		Description: "Fetch currently trending topics per platform",
		InputSchema: getTrendingSchema(),
	}, getTrendingHandler)

	mcpServer.AddTool(&mcp.Tool{
		Name:        ToolManageCalendar,
		Description: "View, reschedule, cancel, or delete scheduled posts",
		InputSchema: manageCalendarSchema(),
	}, manageCalendarHandler)
}

// createPostHandler delegates to handleCreatePost in handlers.go.
func createPostHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleCreatePost(ctx, req)
}

// getAnalyticsHandler delegates to handleGetAnalytics in handlers.go.
func getAnalyticsHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleGetAnalytics(ctx, req)
}

// schedulePostsHandler delegates to handleSchedulePosts in handlers.go.
func schedulePostsHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleSchedulePosts(ctx, req)
}

// generateHashtagsHandler delegates to handleGenerateHashtags in handlers.go.
func generateHashtagsHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleGenerateHashtags(ctx, req)
}

// optimizeMediaHandler delegates to handleOptimizeMedia in handlers.go.
func optimizeMediaHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleOptimizeMedia(ctx, req)
}

// getTrendingHandler delegates to handleGetTrending in handlers.go.
func getTrendingHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleGetTrending(ctx, req)
}

// manageCalendarHandler delegates to handleManageCalendar in handlers.go.
func manageCalendarHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return handleManageCalendar(ctx, req)
}
