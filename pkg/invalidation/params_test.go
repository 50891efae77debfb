package invalidation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseUserParameters(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		want    Request
		wantErr bool
	}{
		{name: "bare id", raw: "E123", want: Request{DistributionID: "E123"}},
		{name: "trimmed", raw: "  E123\n", want: Request{DistributionID: "E123"}},
		{
			name: "json",
			raw:  `{"distributionId":"E123","paths":["/index.html","assets/*","/index.html"]}`,
			want: Request{DistributionID: "E123", Paths: []string{"/index.html", "/assets/*"}},
		},
		{name: "json without paths", raw: `{"distributionId":"E9"}`, want: Request{DistributionID: "E9"}},
		{name: "empty", raw: " ", wantErr: true},
		{name: "json without id", raw: `{"paths":["/*"]}`, wantErr: true},
		{name: "malformed json", raw: `{"distributionId":`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseUserParameters(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := ParseUserParameters("")
	require.ErrorIs(t, err, ErrEmptyUserParameters)
}

func TestParsePaths(t *testing.T) {
	t.Parallel()

	require.Nil(t, ParsePaths(""))
	require.Nil(t, ParsePaths(" , "))
	require.Equal(t, []string{"/*"}, ParsePaths("/*"))
	require.Equal(t, []string{"/index.html", "/static/*"}, ParsePaths("index.html, /static/*,"))
}

func TestNormalizePaths_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paths := rapid.SliceOf(rapid.StringMatching(`[ a-z/*.]{0,8}`)).Draw(t, "paths")
		out := NormalizePaths(paths)

		seen := map[string]bool{}
		for _, path := range out {
			if !strings.HasPrefix(path, "/") {
				t.Fatalf("path %q is not rooted", path)
			}
			if strings.TrimSpace(path) != path {
				t.Fatalf("path %q is not trimmed", path)
			}
			if seen[path] {
				t.Fatalf("duplicate path %q in %v", path, out)
			}
			seen[path] = true
		}
		if len(out) > len(paths) {
			t.Fatalf("normalization grew %v to %v", paths, out)
		}
	})
}
