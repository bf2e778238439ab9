package riot

import "fmt"

// Base URLs for the provider's fixed endpoints. The per-player game hosts
// depend on the session's routing location and come from the functions below.
const (
	AuthBaseURL         = "https://auth.riotgames.com"
	EntitlementsBaseURL = "https://entitlements.auth.riotgames.com/api"
	GeoBaseURL          = "https://riot-geo.pas.si.riotgames.com"
)

// Header names the dispatcher attaches to outgoing requests.
const (
	HeaderAuthorization  = "Authorization"
	HeaderEntitlements   = "X-Riot-Entitlements-JWT"
	HeaderClientVersion  = "X-Riot-ClientVersion"
	HeaderClientPlatform = "X-Riot-ClientPlatform"
	HeaderRetryAfter     = "Retry-After"
)

// GameAPIBaseURL is the player-data host for a location.
func GameAPIBaseURL(loc Location) string {
	return fmt.Sprintf("https://pd.%s.a.pvp.net", loc.Shard)
}

// LiveGameAPIBaseURL is the live-game host for a location.
func LiveGameAPIBaseURL(loc Location) string {
	return fmt.Sprintf("https://glz-%s-1.%s.a.pvp.net", loc.Region, loc.Shard)
}
