//go:build integration

// functions that are useful in integration tests

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/information-sharing-networks/newsposts/internal/newsposts"
)

// doRequest sends a request with an optional JSON body and returns the response and its body
func doRequest(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp, respBody
}

func decodeJSON[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", body, err)
	}
	return v
}

// createPost creates a post through the API and returns it
func createPost(t *testing.T, env *testEnv, header, text, genre string, isPrivate bool) newsposts.NewsPostResponse {
	t.Helper()

	resp, body := doRequest(t, http.MethodPost, env.baseURL+"/api/newsposts", map[string]any{
		"header":    header,
		"text":      text,
		"genre":     genre,
		"isPrivate": isPrivate,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: got status %d, want 201: %s", resp.StatusCode, body)
	}
	return decodeJSON[newsposts.NewsPostResponse](t, body)
}

// cleanupDatabase truncates the news_posts table to reset the database state between tests
func cleanupDatabase(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), `TRUNCATE TABLE news_posts`); err != nil {
		t.Fatalf("Failed to cleanup database: %v", err)
	}
}
