package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/retriever"
	"github.com/PieInTheSky-Inc/yadc/pkg/details"
)

type LookupInput struct {
	Name        string `json:"name" jsonschema:"name or part of a name"`
	Granularity string `json:"granularity,omitempty" jsonschema:"long, short or mini; omitted picks full details for few matches"`
	Escaped     bool   `json:"escaped,omitempty" jsonschema:"wrap the result in a literal block"`
}

type LookupOutput struct {
	Kind  string `json:"kind"`
	Found bool   `json:"found"`
	Count int    `json:"count"`
	Text  string `json:"text"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_item",
		Description: "Look up Pixel Starships items by name",
	}, s.lookupHandler(gamedata.KindItem))

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_research",
		Description: "Look up Pixel Starships research by name",
	}, s.lookupHandler(gamedata.KindResearch))

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_room",
		Description: "Look up Pixel Starships rooms by name",
	}, s.lookupHandler(gamedata.KindRoom))
}

func (s *Server) lookupHandler(kind gamedata.Kind) sdk.ToolHandlerFor[LookupInput, LookupOutput] {
	return func(ctx context.Context, req *sdk.CallToolRequest, input LookupInput) (*sdk.CallToolResult, LookupOutput, error) {
		out := LookupOutput{Kind: string(kind)}
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, out, fmt.Errorf("name is required")
		}

		opts := gamedata.LookupOptions{Escaped: input.Escaped}
		if input.Granularity != "" {
			g, err := details.ParseGranularity(input.Granularity)
			if err != nil {
				return nil, out, err
			}
			if g == details.Embed {
				return nil, out, fmt.Errorf("granularity %q is not available as text", input.Granularity)
			}
			opts.Granularity = g
		}

		res, err := s.data.Lookup(ctx, kind, name, opts)
		switch {
		case errors.Is(err, retriever.ErrNotFound), errors.Is(err, retriever.ErrTooManyResults):
			out.Text = err.Error()
			return nil, out, nil
		case err != nil:
			s.logger.Error("Tool lookup failed", "kind", kind, "name", name, "error", err)
			return nil, out, err
		}

		out.Found = true
		out.Count = res.Count
		out.Text = strings.Join(res.Lines, "\n")
		return nil, out, nil
	}
}
