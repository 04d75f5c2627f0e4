package catalog

import (
	"encoding/json"
	"log/slog"
	"os"

	folioerrors "github.com/atelierhq/folio/internal/errors"
)

// Load reads the works and image snapshots from disk.
//
// I/O failure at startup must not crash the search core: a missing or
// unreadable file yields an empty corpus for that modality and a logged
// error. The surrounding system reports health separately.
func Load(worksPath, imagesPath string) *Snapshot {
	snap := &Snapshot{}

	works, err := loadWorks(worksPath)
	if err != nil {
		slog.Error("works snapshot unavailable, starting with empty corpus",
			slog.String("path", worksPath),
			slog.String("error", err.Error()))
	} else {
		snap.Works = works
		slog.Info("works snapshot loaded",
			slog.String("path", worksPath),
			slog.Int("works", len(works)))
	}

	images, err := loadImages(imagesPath)
	if err != nil {
		slog.Error("image catalog unavailable, starting with empty catalog",
			slog.String("path", imagesPath),
			slog.String("error", err.Error()))
	} else {
		snap.Images = images
		slog.Info("image catalog loaded",
			slog.String("path", imagesPath),
			slog.Int("images", len(images)))
	}

	return snap
}

func loadWorks(path string) ([]*Work, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, folioerrors.Wrap(folioerrors.ErrCodeCatalogNotFound, err)
	}

	var f worksFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, folioerrors.Wrap(folioerrors.ErrCodeCatalogCorrupt, err)
	}

	return f.Works, nil
}

func loadImages(path string) ([]*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, folioerrors.Wrap(folioerrors.ErrCodeCatalogNotFound, err)
	}

	var f imagesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, folioerrors.Wrap(folioerrors.ErrCodeCatalogCorrupt, err)
	}

	return f.Images, nil
}
