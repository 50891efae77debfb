package invalidation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultPaths is invalidated when neither the action nor the environment
// names any paths.
var DefaultPaths = []string{"/*"}

var ErrEmptyUserParameters = errors.New("invalidation: user parameters are empty")

// Request is the decoded user parameters of an invalidate-cache action.
type Request struct {
	DistributionID string   `json:"distributionId"`
	Paths          []string `json:"paths,omitempty"`
}

// ParseUserParameters accepts either a bare distribution id or a JSON object
// {"distributionId": "...", "paths": ["/..."]}.
func ParseUserParameters(raw string) (Request, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Request{}, ErrEmptyUserParameters
	}

	if !strings.HasPrefix(raw, "{") {
		return Request{DistributionID: raw}, nil
	}

	var req Request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return Request{}, fmt.Errorf("invalidation: decode user parameters: %w", err)
	}
	req.DistributionID = strings.TrimSpace(req.DistributionID)
	if req.DistributionID == "" {
		return Request{}, errors.New("invalidation: user parameters have no distributionId")
	}
	req.Paths = NormalizePaths(req.Paths)
	return req, nil
}

// ParsePaths splits a comma separated path list, as found in
// SPADEPLOY_INVALIDATION_PATHS.
func ParsePaths(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return NormalizePaths(strings.Split(value, ","))
}

// NormalizePaths trims paths, drops empty and duplicate entries, and roots
// each path at "/" as CloudFront requires.
func NormalizePaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
