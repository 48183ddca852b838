package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
)

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds(nil)
	require.NoError(t, err)
	assert.Equal(t, gamedata.Kinds, kinds)

	kinds, err = parseKinds([]string{"rooms", "Item"})
	require.NoError(t, err)
	assert.Equal(t, []gamedata.Kind{gamedata.KindRoom, gamedata.KindItem}, kinds)

	_, err = parseKinds([]string{"crew"})
	assert.Error(t, err)
}

func TestLookupCmd_Flags(t *testing.T) {
	cmd := lookupCmd(gamedata.KindRoom, "rooms")
	assert.Equal(t, "room <name>", cmd.Use)
	for _, name := range []string{"granularity", "escaped", "id", "json", "width"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Error(t, cmd.Args(cmd, nil))
}
