package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-valorant-client/client"
	"github.com/jrsteele09/go-valorant-client/riot"
	"github.com/jrsteele09/go-valorant-client/session"
)

// staticRefresher hands back a canned session on refresh.
type staticRefresher struct {
	calls   int
	session session.Session
	err     error
}

var _ session.Refresher = (*staticRefresher)(nil)

func (r *staticRefresher) RefreshSession(ctx context.Context, s session.Session, onMultifactor riot.MultifactorHandler) (session.Session, error) {
	r.calls++
	if r.err != nil {
		return session.Session{}, r.err
	}
	return r.session, nil
}

func mintAccessToken(t *testing.T, sub uuid.UUID) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"sub": sub.String()}).
		SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func testSession(t *testing.T, userID uuid.UUID, expiration time.Time) session.Session {
	t.Helper()
	return session.Session{
		Credentials: riot.Credentials{Username: "player", Password: "pw"},
		AccessToken: session.AccessToken{
			Type:       "Bearer",
			Token:      mintAccessToken(t, userID),
			IDToken:    "idtok",
			Expiration: expiration,
		},
		EntitlementsToken: "entitlement",
		Location:          riot.Europe,
		UserID:            userID,
	}
}

func TestClientAttachesHeaders(t *testing.T) {
	userID := uuid.New()
	s := testSession(t, userID, time.Now().Add(time.Hour))

	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c, err := client.New(s,
		client.WithBaseURLs(server.URL, server.URL),
		client.WithClientVersion("release-09.01"),
	)
	require.NoError(t, err)
	require.Equal(t, userID, c.UserID())
	require.Equal(t, riot.Europe, c.Location())

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/test", nil, &out))
	require.True(t, out.OK)

	require.Equal(t, s.AccessToken.Encoded(), got.Get("Authorization"))
	require.Equal(t, "entitlement", got.Get("X-Riot-Entitlements-JWT"))
	require.Equal(t, "release-09.01", got.Get("X-Riot-ClientVersion"))
	require.NotEmpty(t, got.Get("X-Riot-ClientPlatform"))
}

func TestClientClassifiesResponses(t *testing.T) {
	userID := uuid.New()
	s := testSession(t, userID, time.Now().Add(time.Hour))

	t.Run("structured not-found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errorCode":"RESOURCE_NOT_FOUND","message":"no such match"}`))
		}))
		defer server.Close()

		c, err := client.New(s, client.WithBaseURLs(server.URL, server.URL))
		require.NoError(t, err)

		err = c.Do(context.Background(), http.MethodGet, "/match", nil, nil)
		require.True(t, riot.IsKind(err, riot.KindResourceNotFound), "got %v", err)
	})

	t.Run("rate limited with hint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		c, err := client.New(s, client.WithBaseURLs(server.URL, server.URL))
		require.NoError(t, err)

		err = c.Do(context.Background(), http.MethodGet, "/match", nil, nil)
		var apiErr *riot.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, riot.KindRateLimited, apiErr.Kind)
		require.Equal(t, 30, apiErr.RetryAfter)
	})
}

func TestClientRefreshesExpiredSessions(t *testing.T) {
	userID := uuid.New()
	stale := testSession(t, userID, time.Now().Add(-time.Minute))

	refreshed := stale
	refreshed.AccessToken = session.AccessToken{
		Type:       "Bearer",
		Token:      "refreshed",
		Expiration: time.Now().Add(time.Hour),
	}
	refresher := &staticRefresher{session: refreshed}

	var authHeaders []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := client.New(stale,
		client.WithBaseURLs(server.URL, server.URL),
		client.WithRefresher(refresher),
	)
	require.NoError(t, err)

	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/one", nil, nil))
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/two", nil, nil))

	require.Equal(t, 1, refresher.calls, "the second request reuses the refreshed token")
	require.Equal(t, []string{"Bearer refreshed", "Bearer refreshed"}, authHeaders)
}

func TestClientSurfacesRefreshFailure(t *testing.T) {
	userID := uuid.New()
	stale := testSession(t, userID, time.Now().Add(-time.Minute))
	refresher := &staticRefresher{err: riot.SessionExpiredError()}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the API with an expired session")
	}))
	defer server.Close()

	c, err := client.New(stale,
		client.WithBaseURLs(server.URL, server.URL),
		client.WithRefresher(refresher),
	)
	require.NoError(t, err)

	err = c.Do(context.Background(), http.MethodGet, "/match", nil, nil)
	require.True(t, riot.IsKind(err, riot.KindSessionExpired))

	var apiErr *riot.APIError
	require.ErrorAs(t, err, &apiErr)
	require.True(t, apiErr.RecommendsReauthentication())
}

func TestClientStoreRoundTrip(t *testing.T) {
	userID := uuid.New()
	s := testSession(t, userID, time.Now().Add(time.Hour))

	c, err := client.New(s, client.WithClientVersion("release-09.01"))
	require.NoError(t, err)

	data, err := json.Marshal(c.Store())
	require.NoError(t, err)

	var saved client.SavedData
	require.NoError(t, json.Unmarshal(data, &saved))

	rebuilt, err := client.NewFromSaved(saved)
	require.NoError(t, err)
	require.Equal(t, userID, rebuilt.UserID())
	require.Equal(t, riot.Europe, rebuilt.Location())
	require.Equal(t, "entitlement", rebuilt.Session().EntitlementsToken)
}

func TestClientRecordsExchanges(t *testing.T) {
	userID := uuid.New()
	s := testSession(t, userID, time.Now().Add(time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"n":1}`))
	}))
	defer server.Close()

	c, err := client.New(s,
		client.WithBaseURLs(server.URL, server.URL),
		client.WithExchangeLogCapacity(2),
	)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Do(context.Background(), http.MethodGet, "/n", nil, nil))
	}

	exchanges := c.ExchangeLog().Exchanges()
	require.Len(t, exchanges, 2, "the log stays within capacity")
	require.Equal(t, http.StatusOK, exchanges[0].StatusCode)
	require.Equal(t, []byte(`{"n":1}`), exchanges[0].Body)
}

func TestClientExchangeLogDisabled(t *testing.T) {
	userID := uuid.New()
	s := testSession(t, userID, time.Now().Add(time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := client.New(s,
		client.WithBaseURLs(server.URL, server.URL),
		client.WithExchangeLogCapacity(0),
	)
	require.NoError(t, err)

	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/n", nil, nil))
	require.Empty(t, c.ExchangeLog().Exchanges())
}
