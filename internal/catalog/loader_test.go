package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_ValidSnapshots(t *testing.T) {
	dir := t.TempDir()
	worksPath := filepath.Join(dir, "works-index.json")
	imagesPath := filepath.Join(dir, "image-catalog.json")

	writeFile(t, worksPath, `{
		"works": [
			{
				"id": "ceramic-vases",
				"title": "Ceramic Vases",
				"description": "Hand-thrown stoneware",
				"textContent": "A series of hand-thrown vases.",
				"tags": ["ceramics", "pottery"],
				"medium": ["stoneware"],
				"category": "ceramics",
				"year": "2023",
				"featured": true,
				"images": ["img-1"],
				"textEmbedding": [0.1, 0.2, 0.3]
			}
		]
	}`)
	writeFile(t, imagesPath, `{
		"images": [
			{"id": "img-1", "url": "/images/vase.jpg", "caption": "Vase", "alt": "A vase", "embedding": [0.5, 0.5]}
		]
	}`)

	snap := Load(worksPath, imagesPath)
	require.Len(t, snap.Works, 1)
	require.Len(t, snap.Images, 1)

	w := snap.Works[0]
	assert.Equal(t, "ceramic-vases", w.ID)
	assert.Equal(t, []string{"ceramics", "pottery"}, w.Tags)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, w.TextEmbedding)
	assert.True(t, w.Featured)

	img := snap.Images[0]
	assert.Equal(t, "img-1", img.ID)
	assert.Equal(t, "/images/vase.jpg", img.URL)
}

func TestLoad_MissingFilesYieldEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	snap := Load(filepath.Join(dir, "missing.json"), filepath.Join(dir, "also-missing.json"))
	require.NotNil(t, snap)
	assert.Empty(t, snap.Works)
	assert.Empty(t, snap.Images)
}

func TestLoad_CorruptWorksStillLoadsImages(t *testing.T) {
	dir := t.TempDir()
	worksPath := filepath.Join(dir, "works.json")
	imagesPath := filepath.Join(dir, "images.json")

	writeFile(t, worksPath, `{not json`)
	writeFile(t, imagesPath, `{"images": [{"id": "img-1", "url": "/i.jpg"}]}`)

	snap := Load(worksPath, imagesPath)
	assert.Empty(t, snap.Works)
	require.Len(t, snap.Images, 1)
}

func TestSnapshot_WorkByID(t *testing.T) {
	snap := &Snapshot{Works: []*Work{
		{ID: "a"}, {ID: "b"},
	}}
	require.NotNil(t, snap.WorkByID("b"))
	assert.Nil(t, snap.WorkByID("zzz"))
}
