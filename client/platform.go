package client

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
)

// PlatformInfo is the descriptor the game client reports about the machine
// it runs on, attached base64-encoded to every request.
type PlatformInfo struct {
	PlatformType      string `json:"platformType"`
	PlatformOS        string `json:"platformOS"`
	PlatformOSVersion string `json:"platformOSVersion"`
	PlatformChipset   string `json:"platformChipset"`
}

// DefaultPlatform is a descriptor the API is known to accept.
var DefaultPlatform = PlatformInfo{
	PlatformType:      "PC",
	PlatformOS:        "Windows",
	PlatformOSVersion: "10.0.19042.1.256.64bit",
	PlatformChipset:   "Unknown",
}

// Encoded renders the descriptor for the client-platform header.
func (p PlatformInfo) Encoded() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", errors.Wrap(err, "encoding platform info")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
