package docgen

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/teranos/compdoc/errors"
	"github.com/teranos/compdoc/logger"
)

// resolve joins a relative artifact path onto baseDir
func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

// WriteArtifacts writes each artifact under baseDir.
// Every file is written to a temporary sibling and renamed into place.
func WriteArtifacts(artifacts []Artifact, baseDir string) error {
	for _, a := range artifacts {
		target := resolve(baseDir, a.Path)
		if err := writeFileAtomic(target, a.Content); err != nil {
			return errors.Wrapf(err, "failed to write %s", a.Name)
		}
		logger.Infow("Wrote artifact",
			logger.FieldArtifact, a.Name,
			logger.FieldPath, target)
	}
	return nil
}

func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrapf(err, "failed to chmod %s", tmpName)
	}
	return os.Rename(tmpName, path)
}

// CheckResult holds the result of an up-to-date check
type CheckResult struct {
	UpToDate bool
	// Stale lists artifacts whose file content differs
	Stale []Artifact
	// Missing lists artifacts with no file on disk
	Missing []Artifact
}

// CheckArtifacts compares rendered artifacts with the files under baseDir.
func CheckArtifacts(artifacts []Artifact, baseDir string) (*CheckResult, error) {
	result := &CheckResult{}
	for _, a := range artifacts {
		existing, err := os.ReadFile(resolve(baseDir, a.Path))
		if os.IsNotExist(err) {
			result.Missing = append(result.Missing, a)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", a.Path)
		}
		if !bytes.Equal(existing, a.Content) {
			result.Stale = append(result.Stale, a)
		}
	}
	result.UpToDate = len(result.Stale) == 0 && len(result.Missing) == 0
	return result, nil
}
