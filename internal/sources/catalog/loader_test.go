package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "Nature": [
    {"title": "Silent Spring", "type": "book", "link": "https://example.com/silent-spring", "image": "nature_book", "description": "Rachel Carson"},
    {"title": "Planet Earth", "type": "video", "image": "nature_video", "description": "BBC"}
  ],
  "Science": [
    {"title": "Cosmos", "type": "book", "link": "", "image": "science_book", "description": "Carl Sagan"}
  ]
}`

const sampleYAML = `Nature:
  - title: Silent Spring
    type: book
    link: https://example.com/silent-spring
    image: nature_book
    description: Rachel Carson
Science:
  - title: Cosmos
    type: book
    image: science_book
    description: Carl Sagan
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderLoadJSON(t *testing.T) {
	path := writeFile(t, "recommendations.json", sampleJSON)

	file, err := NewLoader(path).Load()
	require.NoError(t, err)

	require.Len(t, file, 2)
	require.Len(t, file["Nature"], 2)
	assert.Equal(t, "Silent Spring", file["Nature"][0].Title)
	assert.Equal(t, "https://example.com/silent-spring", file["Nature"][0].Link)
	assert.Empty(t, file["Nature"][1].Link)
}

func TestLoaderLoadYAML(t *testing.T) {
	for _, name := range []string{"catalog.yaml", "catalog.YML"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, sampleYAML)

			file, err := NewLoader(path).Load()
			require.NoError(t, err)
			assert.Len(t, file, 2)
			assert.Equal(t, "Cosmos", file["Science"][0].Title)
		})
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	_, err := NewLoader("/nonexistent/path/recommendations.json").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "truncated json", file: "c.json", content: `{"Nature": [`},
		{name: "wrong shape json", file: "c.json", content: `["Nature"]`},
		{name: "bad yaml", file: "c.yaml", content: "Nature: [title: : :"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := NewLoader(path).Load()
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmptyObject(t *testing.T) {
	file, err := Decode([]byte(`{}`), FormatJSON)
	require.NoError(t, err)
	assert.NotNil(t, file)
	assert.Empty(t, file)
}
