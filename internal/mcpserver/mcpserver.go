// Package mcpserver exposes read-only visa lookups as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"visaguide/internal/app"
	"visaguide/internal/model"
)

// VisaQueries is the read side of the visa service.
type VisaQueries interface {
	ListCountries(ctx context.Context) ([]string, error)
	ListVisaTypes(ctx context.Context, country string) ([]string, error)
	GetByCountryAndType(ctx context.Context, country, visaType string) (*model.VisaRecord, error)
	Search(ctx context.Context, term string) ([]model.VisaRecord, error)
}

func New(visas VisaQueries, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"visaguide",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions("VisaGuide: look up visa requirements, fees and processing times by country and visa type."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_countries",
			mcp.WithDescription("List every country that has visa information."),
		),
		listCountries(visas),
	)

	s.AddTool(
		mcp.NewTool("list_visa_types",
			mcp.WithDescription("List the visa types available for a country."),
			mcp.WithString("country", mcp.Description("Country name, case-insensitive"), mcp.Required()),
		),
		listVisaTypes(visas),
	)

	s.AddTool(
		mcp.NewTool("get_visa",
			mcp.WithDescription("Get the full record for one visa type of a country."),
			mcp.WithString("country", mcp.Description("Country name, case-insensitive"), mcp.Required()),
			mcp.WithString("visa_type", mcp.Description("Visa type, case-insensitive"), mcp.Required()),
		),
		getVisa(visas),
	)

	s.AddTool(
		mcp.NewTool("search_visa",
			mcp.WithDescription("Search visa records whose country, visa type or notes contain the term."),
			mcp.WithString("term", mcp.Description("Substring to look for"), mcp.Required()),
		),
		searchVisa(visas),
	)

	return s
}

// ServeStdio serves tools on in/out until ctx is done or in is closed.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	err := server.NewStdioServer(s).Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio server failed: %w", err)
	}
	return nil
}

func listCountries(visas VisaQueries) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		countries, err := visas.ListCountries(ctx)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(countries)
	}
}

func listVisaTypes(visas VisaQueries) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		country, err := req.RequireString("country")
		if err != nil {
			return textResult("country is required", true), nil
		}
		types, err := visas.ListVisaTypes(ctx, country)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(types)
	}
}

func getVisa(visas VisaQueries) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		country, err := req.RequireString("country")
		if err != nil {
			return textResult("country is required", true), nil
		}
		visaType, err := req.RequireString("visa_type")
		if err != nil {
			return textResult("visa_type is required", true), nil
		}
		record, err := visas.GetByCountryAndType(ctx, country, visaType)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(record)
	}
}

func searchVisa(visas VisaQueries) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		term := req.GetString("term", "")
		records, err := visas.Search(ctx, term)
		if err != nil {
			return toolError(err), nil
		}
		return jsonResult(records)
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return textResult(fmt.Sprintf("failed to encode result: %v", err), true), nil
	}
	return textResult(string(b), false), nil
}

func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, app.ErrVisaNotFound):
		return textResult("no visa information found", true)
	case errors.Is(err, app.ErrSearchTermRequired):
		return textResult("search term is required", true)
	default:
		return textResult(fmt.Sprintf("lookup failed: %v", err), true)
	}
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
		IsError: isError,
	}
}
