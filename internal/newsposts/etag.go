package newsposts

// etag.go implements strong ETags for GET responses.
//
// The tag is the SHA-256 of the RFC 8785 canonical form of the JSON payload,
// so it does not depend on map ordering or encoder whitespace.

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gowebpki/jcs"
	"github.com/information-sharing-networks/newsposts/internal/logger"
)

// ComputeETag returns the quoted entity tag for payload
func ComputeETag(payload any) (string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	canonical, err := jcs.Transform(jsonData)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize payload: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return `"` + hex.EncodeToString(sum[:]) + `"`, nil
}

// etagMatches implements the weak comparison used for If-None-Match (RFC 9110 13.1.2)
func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// RespondWithCacheableJSON sends payload with an ETag header.
// When the request's If-None-Match matches, 304 Not Modified is sent without a body.
func RespondWithCacheableJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload any) {
	etag, err := ComputeETag(payload)
	if err != nil {
		logger.ContextRequestLogger(r.Context()).Warn("failed to compute ETag",
			slog.String("error", err.Error()),
		)
		RespondWithJSONPayload(w, statusCode, payload)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		RespondWithStatusCodeOnly(w, http.StatusNotModified)
		return
	}

	RespondWithJSONPayload(w, statusCode, payload)
}
