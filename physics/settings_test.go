package physics

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	require.NotEmpty(t, doc.Content)
	return doc.Content[0]
}

func TestSettingsFromNode(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want Settings
		warn string
	}{
		{
			name: "defaults",
			src:  "id: rock\n",
			want: Settings{ID: "rock", Mass: 1, Radius: -1, BodyType: BodyNone},
			warn: "unknown physics shape",
		},
		{
			name: "soccer_ball",
			src:  "id: ball\nshape: sphere\nkind: soccer\nmass: 0.5\nradius: 0.4\nmaterial: rubber\n",
			want: Settings{ID: "ball", Mass: 0.5, Radius: 0.4, BodyType: BodySphere, Kind: KindSoccerBall, Material: "rubber"},
		},
		{
			name: "hazard",
			src: "id: crusher\nshape: coneZ\nreset: true\nexplode: true\nflatten: true\n" +
				"reset_when_below: -20\ninteraction: none\non_kart_collision: bump\n",
			want: Settings{
				ID: "crusher", Mass: 1, Radius: -1, BodyType: BodyConeZ,
				CrashReset: true, KnockKart: true, FlattenKart: true,
				ResetWhenTooLow: true, ResetHeight: -20,
				Interaction: "none", OnKartCollision: "bump",
			},
		},
		{
			name: "unknown_kind",
			src:  "id: thing\nshape: box\nkind: spaceship\n",
			want: Settings{ID: "thing", Mass: 1, Radius: -1, BodyType: BodyBox},
			warn: "unknown object kind",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			got, err := SettingsFromNode(decodeNode(t, c.src), zerolog.New(&buf))
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
			if c.warn == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), c.warn)
			}
		})
	}
}

func TestSettingsFromNodeErrors(t *testing.T) {
	_, err := SettingsFromNode(nil, zerolog.Nop())
	assert.Error(t, err)

	_, err = SettingsFromNode(decodeNode(t, "mass: [1, 2]\n"), zerolog.Nop())
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Soccer-Ball")
	assert.True(t, ok)
	assert.Equal(t, KindSoccerBall, k)

	k, ok = ParseKind("")
	assert.True(t, ok)
	assert.Equal(t, KindScenery, k)

	k, ok = ParseKind("movable")
	assert.True(t, ok)
	assert.Equal(t, KindCrate, k)
}
