package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	syncerrors "git.home.luguber.info/inful/notionsync/internal/errors"
)

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	require.Error(t, err)
	require.True(t, syncerrors.IsCategory(err, syncerrors.CategoryConfig))
}

func pageJSON(id, title, typeLabel string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"properties": {
			"Name": {"type": "title", "title": [{"type": "text", "text": {"content": %q}}]},
			"Type": {"type": "select", "select": {"name": %q}}
		}
	}`, id, title, typeLabel)
}

func TestFetchPages_PaginatesDatabaseQueryAndBlockChildren(t *testing.T) {
	var queryCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.Equal(t, apiVersion, r.Header.Get("Notion-Version"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/databases/db1/query":
			queryCalls++
			var req queryRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.StartCursor == "" {
				fmt.Fprintf(w, `{"results": [%s], "has_more": true, "next_cursor": "cur2"}`,
					pageJSON("p1", "Welcome", "Home"))
			} else {
				require.Equal(t, "cur2", req.StartCursor)
				fmt.Fprintf(w, `{"results": [%s], "has_more": false, "next_cursor": null}`,
					pageJSON("p2", "About", "Page"))
			}

		case r.Method == http.MethodGet && r.URL.Path == "/v1/blocks/p1/children":
			if r.URL.Query().Get("start_cursor") == "" {
				fmt.Fprint(w, `{"results": [
					{"type": "paragraph", "paragraph": {"rich_text": [{"type": "text", "text": {"content": "first"}}]}}
				], "has_more": true, "next_cursor": "bcur"}`)
			} else {
				require.Equal(t, "bcur", r.URL.Query().Get("start_cursor"))
				fmt.Fprint(w, `{"results": [
					{"type": "divider", "divider": {}}
				], "has_more": false, "next_cursor": null}`)
			}

		case r.Method == http.MethodGet && r.URL.Path == "/v1/blocks/p2/children":
			fmt.Fprint(w, `{"results": [], "has_more": false, "next_cursor": null}`)

		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{Token: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	pages, err := client.FetchPages(context.Background(), "db1")
	require.NoError(t, err)
	require.Equal(t, 2, queryCalls)
	require.Len(t, pages, 2)

	require.Equal(t, "Welcome", pages[0].Title)
	require.Equal(t, "Home", pages[0].TypeLabel)
	require.Len(t, pages[0].Blocks, 2, "block children pagination must be followed")

	require.Equal(t, "About", pages[1].Title)
	require.Empty(t, pages[1].Blocks)
}

func TestFetchPages_APIError_SurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"object": "error", "message": "API token is invalid."}`)
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{Token: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.FetchPages(context.Background(), "db1")
	require.Error(t, err)
	require.True(t, syncerrors.IsCategory(err, syncerrors.CategoryNotion))
	require.Contains(t, err.Error(), "401")
}

func TestFetchPages_ContextCancellation_Propagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [], "has_more": false}`)
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{Token: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.FetchPages(ctx, "db1")
	require.Error(t, err)
	require.True(t, syncerrors.IsCategory(err, syncerrors.CategoryNetwork))
}
