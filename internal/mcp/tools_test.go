package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/retriever"
	"github.com/PieInTheSky-Inc/yadc/pkg/details"
)

type mockGameData struct {
	result *gamedata.Result
	err    error

	lastKind gamedata.Kind
	lastName string
	lastOpts gamedata.LookupOptions
}

func (m *mockGameData) Lookup(ctx context.Context, kind gamedata.Kind, name string, opts gamedata.LookupOptions) (*gamedata.Result, error) {
	m.lastKind, m.lastName, m.lastOpts = kind, name, opts
	return m.result, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLookupTool(t *testing.T) {
	data := &mockGameData{result: &gamedata.Result{Count: 1, Lines: []string{"**Laser**", "Volley = 3"}}}
	server := NewServer(data, "test", testLogger())

	_, out, err := server.lookupHandler(gamedata.KindRoom)(context.Background(), nil, LookupInput{Name: " laser ", Granularity: "short"})
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Equal(t, "room", out.Kind)
	assert.Equal(t, "**Laser**\nVolley = 3", out.Text)
	assert.Equal(t, "laser", data.lastName)
	assert.Equal(t, details.Short, data.lastOpts.Granularity)
}

func TestLookupTool_InvalidInput(t *testing.T) {
	server := NewServer(&mockGameData{}, "test", testLogger())
	handler := server.lookupHandler(gamedata.KindItem)

	for _, input := range []LookupInput{
		{Name: ""},
		{Name: "laser", Granularity: "huge"},
		{Name: "laser", Granularity: "embed"},
	} {
		_, _, err := handler(context.Background(), nil, input)
		assert.Error(t, err, "%+v", input)
	}
}

func TestLookupTool_FriendlyLookupErrors(t *testing.T) {
	data := &mockGameData{err: &retriever.LookupError{Kind: "item", Query: "reactor", Err: retriever.ErrNotFound}}
	server := NewServer(data, "test", testLogger())

	_, out, err := server.lookupHandler(gamedata.KindItem)(context.Background(), nil, LookupInput{Name: "reactor"})
	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Equal(t, `no item found matching "reactor"`, out.Text)

	data.err = errors.New("upstream down")
	_, _, err = server.lookupHandler(gamedata.KindItem)(context.Background(), nil, LookupInput{Name: "reactor"})
	assert.Error(t, err)
}

func TestServer_ToolsOverTransport(t *testing.T) {
	data := &mockGameData{result: &gamedata.Result{Count: 1, Lines: []string{"**Laser**"}}}
	server := NewServer(data, "test", testLogger())
	ctx := context.Background()

	serverTransport, clientTransport := sdk.NewInMemoryTransports()
	serverSession, err := server.mcp.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := sdk.NewClient(&sdk.Implementation{Name: "client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"get_item", "get_research", "get_room"}, names)

	res, err := session.CallTool(ctx, &sdk.CallToolParams{
		Name:      "get_room",
		Arguments: map[string]any{"name": "laser"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, gamedata.KindRoom, data.lastKind)
	assert.Equal(t, "laser", data.lastName)
}
