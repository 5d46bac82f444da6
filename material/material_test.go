package material

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReaction(t *testing.T) {
	cases := []struct {
		in   string
		want Reaction
		ok   bool
	}{
		{"", ReactionNone, true},
		{"reset", ReactionReset, true},
		{"Push-Soccer", ReactionPushSoccerBall, true},
		{"teleport", ReactionNone, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, ok := ParseReaction(c.in)
			assert.Equal(t, c.want, got)
			assert.Equal(t, c.ok, ok)
		})
	}
}

func TestLoadEmbeddedTable(t *testing.T) {
	table, err := Load("", zerolog.Nop())
	require.NoError(t, err)

	soccer := table.Lookup("soccer-kart")
	require.NotNil(t, soccer)
	assert.Equal(t, ReactionPushSoccerBall, soccer.Reaction)
	assert.Equal(t, 12.0, soccer.PushStrength)

	kart := table.Lookup("kart")
	require.NotNil(t, kart)
	assert.Equal(t, 10.0, kart.PushStrength, "push strength defaults when unset")
	assert.Nil(t, table.Lookup("missing"))
}

func TestParseWarnsOnUnknownReaction(t *testing.T) {
	var buf bytes.Buffer
	table, err := Parse([]byte("materials:\n  - name: ice\n    reaction: slide\n"), zerolog.New(&buf))
	require.NoError(t, err)
	assert.Equal(t, ReactionNone, table.Lookup("ice").Reaction)
	assert.Contains(t, buf.String(), "unknown collision reaction")
}

func TestParseRejectsNamelessEntry(t *testing.T) {
	_, err := Parse([]byte("materials:\n  - friction: 1\n"), zerolog.Nop())
	assert.Error(t, err)
}
