package mcpServer

import (
	"net/http"

	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/job"
	"github.com/akolanti/TenderAPI/internal/tender"
	"github.com/akolanti/TenderAPI/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tools exposes the session to MCP clients. Runs started here execute
// synchronously but share the in-flight guard and the store with the HTTP API.
type Tools struct {
	jobs   *job.Service
	tender tender.Service
	logger *logger_i.Logger
}

func NewTools(jobService *job.Service, tenderService tender.Service) *Tools {
	return &Tools{
		jobs:   jobService,
		tender: tenderService,
		logger: logger_i.NewLogger("MCP"),
	}
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(tools *Tools) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    config.MCPServerName,
			Version: config.MCPServerVersion,
		},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded tender documents with their selection state. No parameters required.",
	}, tools.listDocuments)

	mcp.AddTool(server, &mcp.Tool{
		Name: "analyze_selected",
		Description: `Analyze the currently selected documents in one combined run and store the issues found.
Fails when nothing is selected or another analysis is already running.

Returns: run id, the new issues and any parser warnings.`,
	}, tools.analyzeSelected)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_issues",
		Description: "List every issue found so far, oldest batch first. No parameters required.",
	}, tools.listIssues)

	mcp.AddTool(server, &mcp.Tool{
		Name: "create_question",
		Description: `Create a draft clarification question from an issue's suggested question.
Parameters:
- issue_id (string, required): id of the issue

Returns: the created question.`,
	}, tools.createQuestion)

	mcp.AddTool(server, &mcp.Tool{
		Name: "draft_response",
		Description: `Generate a professional response for a draft question and attach it.
Parameters:
- question_id (string, required): id of the question

Returns: the updated question with its response.`,
	}, tools.draftResponse)

	return server
}

// NewHandler serves the tools over SSE.
func NewHandler(jobService *job.Service, tenderService tender.Service) http.Handler {
	server := NewServer(NewTools(jobService, tenderService))
	return mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			return server
		},
		nil,
	)
}
