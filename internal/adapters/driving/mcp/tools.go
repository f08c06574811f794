package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Filename string `json:"filename" jsonschema:"name of the document to search"`
	Query    string `json:"query" jsonschema:"natural language query"`
	K        int    `json:"k,omitempty" jsonschema:"number of chunks to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single matched chunk.
type SearchResultOutput struct {
	Ordinal   int     `json:"ordinal"`
	ChunkText string  `json:"chunk_text"`
	Distance  float64 `json:"distance"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Filename string `json:"filename" jsonschema:"unique name to store the document under"`
	Text     string `json:"text" jsonschema:"plain text content of the document"`
}

// DocumentInput is the input schema for the get_document tool.
type DocumentInput struct {
	Filename string `json:"filename" jsonschema:"name of the stored document"`
}

// DocumentOutput describes a stored document.
type DocumentOutput struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	IndexPath  string    `json:"index_path"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the chunks of one stored document closest in meaning to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Get metadata for a stored document",
	}, s.handleGetDocument)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Chunk, embed and store a text document so it can be searched",
		}, s.handleIngest)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	hits, err := s.ports.Search.Search(ctx, input.Filename, input.Query, input.K)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}
	for i, h := range hits {
		output.Results[i] = SearchResultOutput{
			Ordinal:   h.Ordinal,
			ChunkText: h.ChunkText,
			Distance:  h.Distance,
		}
	}

	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Document.Get(ctx, input.Filename)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, DocumentOutput{
		ID:         doc.ID,
		Filename:   doc.Filename,
		IndexPath:  doc.IndexPath,
		ChunkCount: doc.ChunkCount,
		UploadedAt: doc.UploadedAt,
	}, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Ingest.Ingest(ctx, input.Text, input.Filename)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, DocumentOutput{
		ID:         doc.ID,
		Filename:   doc.Filename,
		IndexPath:  doc.IndexPath,
		ChunkCount: doc.ChunkCount,
		UploadedAt: doc.UploadedAt,
	}, nil
}
