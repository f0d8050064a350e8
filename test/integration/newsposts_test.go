//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/information-sharing-networks/newsposts/internal/newsposts"
)

// TestNewsPosts_Lifecycle creates, reads, updates and deletes a post against a real database
func TestNewsPosts_Lifecycle(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	postsURL := testEnv.baseURL + "/api/newsposts"

	created := createPost(t, testEnv, "Elections announced", "The general election will take place in May.", "Politic", false)
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Fatalf("expected a UUID id, got %q", created.ID)
	}

	// read it back
	resp, body := doRequest(t, http.MethodGet, postsURL+"/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Response: %s", resp.StatusCode, body)
	}
	got := decodeJSON[newsposts.NewsPostResponse](t, body)
	if got.Header != created.Header || got.Genre != newsposts.GenrePolitic {
		t.Errorf("unexpected post %+v", got)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}

	// conditional read
	resp, _ = doRequest(t, http.MethodGet, postsURL+"/"+created.ID, nil, map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("expected status 304, got %d", resp.StatusCode)
	}

	// partial update keeps the fields that are not sent
	resp, body = doRequest(t, http.MethodPut, postsURL+"/"+created.ID, map[string]any{"isPrivate": true}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Response: %s", resp.StatusCode, body)
	}
	updated := decodeJSON[newsposts.NewsPostResponse](t, body)
	if !updated.IsPrivate {
		t.Error("expected post to be private")
	}
	if updated.Text != created.Text {
		t.Errorf("text changed by partial update: got %q", updated.Text)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Errorf("updatedAt went backwards: %v < %v", updated.UpdatedAt, created.UpdatedAt)
	}

	// the cached copy must not survive the update
	resp, body = doRequest(t, http.MethodGet, postsURL+"/"+created.ID, nil, map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 after update, got %d", resp.StatusCode)
	}
	if got := decodeJSON[newsposts.NewsPostResponse](t, body); !got.IsPrivate {
		t.Error("read after update returned stale post")
	}

	// delete
	resp, _ = doRequest(t, http.MethodDelete, postsURL+"/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, http.MethodGet, postsURL+"/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, http.MethodDelete, postsURL+"/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404 for second delete, got %d", resp.StatusCode)
	}
}

// TestNewsPosts_ConcurrentPartialUpdates sends updates of different fields at the same
// time; neither may overwrite the other with a stale value
func TestNewsPosts_ConcurrentPartialUpdates(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	created := createPost(t, testEnv, "header", "text", "Other", false)
	postURL := testEnv.baseURL + "/api/newsposts/" + created.ID

	put := func(body string) int {
		req, err := http.NewRequest(http.MethodPut, postURL, strings.NewReader(body))
		if err != nil {
			return 0
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return 0
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	for i := range 20 {
		header := fmt.Sprintf("header %d", i)
		text := fmt.Sprintf("text %d", i)

		var wg sync.WaitGroup
		statuses := make([]int, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			statuses[0] = put(fmt.Sprintf(`{"header":%q}`, header))
		}()
		go func() {
			defer wg.Done()
			statuses[1] = put(fmt.Sprintf(`{"text":%q}`, text))
		}()
		wg.Wait()

		if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
			t.Fatalf("round %d: unexpected statuses %v", i, statuses)
		}

		resp, body := doRequest(t, http.MethodGet, postURL, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("round %d: expected status 200, got %d", i, resp.StatusCode)
		}
		got := decodeJSON[newsposts.NewsPostResponse](t, body)
		if got.Header != header || got.Text != text {
			t.Fatalf("round %d: lost update, got header %q text %q", i, got.Header, got.Text)
		}
	}
}

func TestNewsPosts_ListPagination(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()
	cleanupDatabase(t, testEnv.pool)

	for i := range 5 {
		createPost(t, testEnv, fmt.Sprintf("post %d", i), "body", "Sport", false)
	}

	tests := []struct {
		query     string
		wantItems int
		wantFirst string
	}{
		{"?page=0&size=2", 2, "post 4"},
		{"?page=1&size=2", 2, "post 2"},
		{"?page=2&size=2", 1, "post 0"},
		{"?page=3&size=2", 0, ""},
		{"", 5, "post 4"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := doRequest(t, http.MethodGet, testEnv.baseURL+"/api/newsposts"+tt.query, nil, nil)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected status 200, got %d. Response: %s", resp.StatusCode, body)
			}
			list := decodeJSON[newsposts.NewsPostListResponse](t, body)
			if list.Total != 5 {
				t.Errorf("expected total 5, got %d", list.Total)
			}
			if len(list.Items) != tt.wantItems {
				t.Fatalf("expected %d items, got %d", tt.wantItems, len(list.Items))
			}
			if tt.wantItems > 0 && list.Items[0].Header != tt.wantFirst {
				t.Errorf("expected first item %q, got %q", tt.wantFirst, list.Items[0].Header)
			}
		})
	}

	resp, _ := doRequest(t, http.MethodGet, testEnv.baseURL+"/api/newsposts?size=1000", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400 for oversized page, got %d", resp.StatusCode)
	}
}

func TestNewsPosts_InvalidRequests(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	postsURL := testEnv.baseURL + "/api/newsposts"

	tests := []struct {
		name     string
		method   string
		url      string
		body     any
		wantCode int
	}{
		{"malformed json", http.MethodPost, postsURL, `{"header":`, http.StatusBadRequest},
		{"missing text", http.MethodPost, postsURL, map[string]any{"header": "h"}, http.StatusBadRequest},
		{"header too long", http.MethodPost, postsURL, map[string]any{"header": strings.Repeat("x", 51), "text": "t"}, http.StatusBadRequest},
		{"unknown genre", http.MethodPost, postsURL, map[string]any{"header": "h", "text": "t", "genre": "Weather"}, http.StatusBadRequest},
		{"bad id", http.MethodGet, postsURL + "/not-a-uuid", nil, http.StatusBadRequest},
		{"unknown id", http.MethodPut, postsURL + "/" + uuid.NewString(), map[string]any{"text": "t"}, http.StatusNotFound},
		{"oversized body", http.MethodPost, postsURL, map[string]any{"header": "h", "text": strings.Repeat("x", 200*1024)}, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doRequest(t, tt.method, tt.url, tt.body, nil)
			if resp.StatusCode != tt.wantCode {
				t.Fatalf("expected status %d, got %d. Response: %s", tt.wantCode, resp.StatusCode, body)
			}
			errResp := decodeJSON[newsposts.ErrorResponse](t, body)
			if len(errResp.Errors) == 0 {
				t.Error("expected error details in response")
			}
		})
	}
}

func TestServer_ErrorRouteAndClient(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	for _, path := range []string{"/error", "/error/nested"} {
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
			resp, _ := doRequest(t, method, testEnv.baseURL+path, nil, nil)
			if resp.StatusCode != http.StatusInternalServerError {
				t.Errorf("%s %s: expected status 500, got %d", method, path, resp.StatusCode)
			}
		}
	}

	resp, body := doRequest(t, http.MethodGet, testEnv.baseURL+"/some/client/route", nil, nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<title>news</title>") {
		t.Errorf("expected the client index, got %d: %s", resp.StatusCode, body)
	}

	resp, _ = doRequest(t, http.MethodGet, testEnv.baseURL+"/health/ready", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected ready, got %d", resp.StatusCode)
	}
}

func TestServer_CORS(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	resp, _ := doRequest(t, http.MethodOptions, testEnv.baseURL+"/api/newsposts", nil, map[string]string{
		"Origin":                        clientOrigin,
		"Access-Control-Request-Method": http.MethodDelete,
	})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != clientOrigin {
		t.Errorf("expected Access-Control-Allow-Origin %q, got %q", clientOrigin, got)
	}

	resp, _ = doRequest(t, http.MethodOptions, testEnv.baseURL+"/api/newsposts", nil, map[string]string{
		"Origin":                        "http://other.example.com",
		"Access-Control-Request-Method": http.MethodGet,
	})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected Access-Control-Allow-Origin %q for other origin", got)
	}
}
