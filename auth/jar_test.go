package auth

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-valorant-client/session"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRecordingJarScoping(t *testing.T) {
	jar := newRecordingJar()
	jar.seed([]session.Cookie{
		{Name: "ssid", Value: "device", Domain: "auth.riotgames.com", Path: "/"},
		{Name: "scoped", Value: "narrow", Domain: "auth.riotgames.com", Path: "/api"},
		{Name: "other", Value: "elsewhere", Domain: "example.com", Path: "/"},
	})

	names := func(cookies []*http.Cookie) []string {
		out := make([]string, len(cookies))
		for i, c := range cookies {
			out[i] = c.Name
		}
		return out
	}

	t.Run("path scoping", func(t *testing.T) {
		require.Equal(t, []string{"ssid"}, names(jar.Cookies(mustParse(t, "https://auth.riotgames.com/authorize"))))
		require.Equal(t, []string{"scoped", "ssid"}, names(jar.Cookies(mustParse(t, "https://auth.riotgames.com/api/v1/authorization"))))
		// /apiary is not under /api.
		require.Equal(t, []string{"ssid"}, names(jar.Cookies(mustParse(t, "https://auth.riotgames.com/apiary"))))
	})

	t.Run("domain scoping", func(t *testing.T) {
		require.Equal(t, []string{"ssid"}, names(jar.Cookies(mustParse(t, "https://sub.auth.riotgames.com/"))))
		require.Empty(t, jar.Cookies(mustParse(t, "https://riotgames.com/")))
	})

	t.Run("overwrite moves forward", func(t *testing.T) {
		jar.SetCookies(mustParse(t, "https://auth.riotgames.com/"), []*http.Cookie{
			{Name: "ssid", Value: "rotated"},
		})
		cookies := jar.Cookies(mustParse(t, "https://auth.riotgames.com/"))
		require.Equal(t, []string{"ssid"}, names(cookies))
		require.Equal(t, "rotated", cookies[0].Value)
	})
}
