// Package riot holds the domain types shared by the handshake client, the
// session layer and the request dispatcher: routing locations, credentials,
// multifactor challenge shapes and the API error taxonomy.
package riot

import "fmt"

// Location identifies the cluster a player's data lives on. Shard selects the
// player-data host, Region the live-game host.
type Location struct {
	Region string `json:"region"`
	Shard  string `json:"shard"`
}

// Known clusters. Brazil and Latin America run on the North American shard.
var (
	Europe       = Location{Region: "eu", Shard: "eu"}
	NorthAmerica = Location{Region: "na", Shard: "na"}
	Korea        = Location{Region: "kr", Shard: "kr"}
	AsiaPacific  = Location{Region: "ap", Shard: "ap"}
	Brazil       = Location{Region: "br", Shard: "na"}
	LatinAmerica = Location{Region: "latam", Shard: "na"}
	PBE          = Location{Region: "na", Shard: "pbe"}
)

var locationsByRegion = map[string]Location{
	"eu":    Europe,
	"na":    NorthAmerica,
	"kr":    Korea,
	"ap":    AsiaPacific,
	"br":    Brazil,
	"latam": LatinAmerica,
}

// UnknownRegionError is returned when the geo-routing endpoint reports a
// region code we have no cluster mapping for. Silently defaulting would point
// every subsequent request at the wrong hosts, so this is fatal.
type UnknownRegionError struct {
	Region string
}

func (e UnknownRegionError) Error() string {
	return fmt.Sprintf("unknown region %q", e.Region)
}

// LocationForRegion maps a region code reported by the geo-routing endpoint
// to its cluster.
func LocationForRegion(region string) (Location, error) {
	loc, ok := locationsByRegion[region]
	if !ok {
		return Location{}, UnknownRegionError{Region: region}
	}
	return loc, nil
}
