package teamcity

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// ArtifactKind tags the two shapes an artifact fetch can return: raw file
// content, or a JSON directory listing.
type ArtifactKind int

const (
	// ArtifactText is raw file content.
	ArtifactText ArtifactKind = iota
	// ArtifactListing is a JSON directory listing.
	ArtifactListing
)

// ArtifactPayload is the tagged result of an artifact fetch. Exactly one
// of Text or Listing is populated, selected by Kind.
type ArtifactPayload struct {
	Kind    ArtifactKind
	Text    string
	Listing map[string]any
}

// BuildArtifacts fetches build artifacts. Depending on the request shape
// the endpoint returns either a JSON listing (children/ and content/
// metadata requests) or the raw bytes of a file (content requests for a
// single artifact). The payload kind is decided by the response
// Content-Type plus a JSON decode check, so callers switch on an explicit
// tag instead of probing the data.
func (c *Client) BuildArtifacts(ctx context.Context, buildID, dataType, artifactPath string) (*ArtifactPayload, error) {
	parts := []string{"builds", "id:" + buildID, "artifacts"}
	if dataType != "" {
		parts = append(parts, dataType)
	}
	if artifactPath != "" {
		parts = append(parts, artifactPath)
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.restURL(parts...), nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if listing, ok := decodeListing(body); ok {
		return &ArtifactPayload{Kind: ArtifactListing, Listing: listing}, nil
	}
	return &ArtifactPayload{Kind: ArtifactText, Text: string(body)}, nil
}

// decodeListing attempts to parse an artifact response as a JSON object.
func decodeListing(body []byte) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(body)
	if !strings.HasPrefix(string(trimmed), "{") {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var listing map[string]any
	if err := dec.Decode(&listing); err != nil {
		return nil, false
	}
	return listing, true
}
