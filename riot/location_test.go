package riot_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-valorant-client/riot"
)

func TestLocationForRegion(t *testing.T) {
	t.Run("known regions", func(t *testing.T) {
		loc, err := riot.LocationForRegion("eu")
		require.NoError(t, err)
		require.Equal(t, riot.Europe, loc)

		loc, err = riot.LocationForRegion("latam")
		require.NoError(t, err)
		require.Equal(t, riot.LatinAmerica, loc)
		require.Equal(t, "na", loc.Shard)
	})

	t.Run("unknown region is fatal, not defaulted", func(t *testing.T) {
		_, err := riot.LocationForRegion("moon")
		require.Error(t, err)
		var unknownErr riot.UnknownRegionError
		require.ErrorAs(t, err, &unknownErr)
		require.Equal(t, "moon", unknownErr.Region)
	})
}

func TestGameAPIBaseURLs(t *testing.T) {
	require.Equal(t, "https://pd.na.a.pvp.net", riot.GameAPIBaseURL(riot.Brazil))
	require.Equal(t, "https://glz-br-1.na.a.pvp.net", riot.LiveGameAPIBaseURL(riot.Brazil))
}
