// Package mcp provides an MCP (Model Context Protocol) server that lets AI
// agents publish, schedule, and analyze social media posts via STDIO
// transport.
//
// The server exposes seven tools:
//
//   - create_post: Publish a post to one or more platforms, now or scheduled
//   - get_analytics: Fetch engagement metrics with aggregated totals
//   - schedule_posts: Schedule multiple posts with automatic spacing
//   - generate_hashtags: Generate scored hashtag suggestions
//   - optimize_media: Resize and transcode media for platform limits
//   - get_trending: Fetch currently trending topics
//   - manage_calendar: View, reschedule, cancel, or delete scheduled posts
//
// The server uses the official MCP Go SDK from github.com/modelcontextprotocol/go-sdk
// and communicates over STDIO transport, making it suitable for integration with
// AI agents and IDE extensions that support the MCP protocol.
//
// Usage:
//
//	socialmcp mcp
package mcp
