// Package assets downloads binary resources referenced by compiled documents
// into page directory and records what was fetched as an override layer.
package assets

import (
	"errors"
	"io/fs"
	"path/filepath"

	"domx/common"
	"domx/model"
)

// Names of files downloader maintains inside page directory.
const (
	Dir            = "assets"
	StatusFileName = "downloaded-assets.domx-nodes-status.json"
)

type statusFile struct {
	Status common.DownloadStatus `json:"status"`
}

// ReadStatus returns state of the last download batch for page directory.
// Missing status file is reported as empty status and no error.
func ReadStatus(pageDir string) (common.DownloadStatus, error) {
	var sf statusFile
	if err := model.LoadJSON(filepath.Join(pageDir, StatusFileName), &sf); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return sf.Status, nil
}

// WriteStatus records state of download batch.
func WriteStatus(pageDir string, status common.DownloadStatus) error {
	return model.SaveJSON(filepath.Join(pageDir, StatusFileName), statusFile{Status: status})
}
