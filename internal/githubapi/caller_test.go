package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/credential"
	"github.com/thep200/github-user-crawler/pkg/log"
)

func newTestCaller(t *testing.T, serverUrl string, tokens ...string) (*Caller, *credential.Pool) {
	t.Helper()

	config, err := cfg.NewMockLoader()
	require.NoError(t, err)
	c, err := config.Load()
	require.NoError(t, err)
	c.GithubApi.ApiUrl = serverUrl
	c.GithubApi.PerPage = 2
	c.GithubApi.MaxRetries = 2
	c.GithubApi.BackoffBaseMs = 1
	c.GithubApi.RequestTimeout = 2
	c.GithubApi.RequestsPerSecond = 0

	pool, err := credential.NewPool(tokens)
	require.NoError(t, err)

	logger, err := log.NewCslLogger()
	require.NoError(t, err)

	caller, err := NewCaller(logger, c, pool)
	require.NoError(t, err)
	return caller, pool
}

func TestListUsersPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		since := r.URL.Query().Get("since")
		if since == "0" {
			fmt.Fprint(w, `[{"login":"alice","id":7},{"login":"bob","id":12}]`)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	caller, _ := newTestCaller(t, server.URL, "tok")
	ctx := context.Background()

	users, next, err := caller.ListUsers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Login)
	assert.Equal(t, int64(12), next)

	users, next, err = caller.ListUsers(ctx, next)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Zero(t, next)
}

func TestRotatesCredentialOnRateLimit(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "token tok1" {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `{"login":"alice","id":7,"location":"Berlin"}`)
	}))
	defer server.Close()

	caller, _ := newTestCaller(t, server.URL, "tok1", "tok2")

	detail, err := caller.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.Login)
	assert.Equal(t, "Berlin", detail.Location)
}

func TestRateLimitedAfterFullRotation(t *testing.T) {
	reset := time.Now().Add(30 * time.Minute).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	caller, _ := newTestCaller(t, server.URL, "tok1", "tok2")

	_, _, err := caller.ListUsers(context.Background(), 0)
	var rateLimited *RateLimitedError
	require.ErrorAs(t, err, &rateLimited)
	assert.Greater(t, rateLimited.RetryAfter, time.Duration(0))
}

func TestInvalidTokenRetriesWithNextCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "token bad" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"login":"alice","id":7}`)
	}))
	defer server.Close()

	caller, pool := newTestCaller(t, server.URL, "bad", "good")

	detail, err := caller.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.Login)

	// The bad token must stay out of the rotation
	for i := 0; i < 3; i++ {
		cred, err := pool.Acquire()
		require.NoError(t, err)
		assert.Equal(t, "good", cred.Token)
	}
}

func TestAllTokensInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	caller, _ := newTestCaller(t, server.URL, "bad1", "bad2")

	_, err := caller.GetUser(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrNoValidCredentials)
}

func TestGetUserNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	caller, _ := newTestCaller(t, server.URL, "tok")

	_, err := caller.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackoffExhaustionSurfacesUpstreamUnavailable(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	caller, _ := newTestCaller(t, server.URL, "tok")

	_, _, err := caller.ListUsers(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, 2, hits)
}

func TestFindCommitEmailSkipsNoreplyAddresses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/alice/repos":
			fmt.Fprint(w, `[{"name":"tool"}]`)
		case "/repos/alice/tool/commits":
			fmt.Fprint(w, `[
				{"sha":"a1","commit":{"message":"m","author":{"name":"Alice","email":"1234+alice@users.noreply.github.com"}}},
				{"sha":"a2","commit":{"message":"m","author":{"name":"Alice W","email":"alice@example.org"}}}
			]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	caller, _ := newTestCaller(t, server.URL, "tok")

	name, email, err := caller.FindCommitEmail(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice W", name)
	assert.Equal(t, "alice@example.org", email)
}

func TestFindCommitEmailNothingUsable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/bob/repos":
			fmt.Fprint(w, `[{"name":"tool"}]`)
		case "/repos/bob/tool/commits":
			fmt.Fprint(w, `[{"sha":"b1","commit":{"message":"m","author":{"name":"Bob","email":"bob@users.noreply.github.com"}}}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	caller, _ := newTestCaller(t, server.URL, "tok")

	name, email, err := caller.FindCommitEmail(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Empty(t, email)
}

func TestFindCommitTimezoneFromVerifiedPayload(t *testing.T) {
	payload := "tree 9d2f\nparent 11aa\nauthor Alice <a@example.org> 1700000000 +0330\ncommitter Alice <a@example.org> 1700000000 +0330\n\nmsg"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/alice/repos":
			fmt.Fprint(w, `[{"name":"tool"}]`)
		case "/repos/alice/tool/commits":
			fmt.Fprintf(w, `[
				{"sha":"a1","commit":{"message":"m"},"verification":{"verified":false,"payload":%q}},
				{"sha":"a2","commit":{"message":"m"},"verification":{"verified":true,"payload":%q}}
			]`, payload, payload)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	caller, _ := newTestCaller(t, server.URL, "tok")

	tz, err := caller.FindCommitTimezone(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "+0330", tz)
}
