// Package update syncs the bumpfile version into third-party manifests
// the tool knows about. It reuses the comment-preserving document engine,
// so a Cargo.toml keeps its formatting the same way the bumpfile does.
package update

import (
	"os"
	"path/filepath"

	"github.com/valentin-kaiser/go-bump/apperror"
	"github.com/valentin-kaiser/go-bump/bumpfile"
	"github.com/valentin-kaiser/go-bump/logging"
)

var logger = logging.GetPackageLogger("update")

// Apply updates a known file at path with the rendered base version.
// The file type is recognized by its name.
func Apply(path string, base string) error {
	switch filepath.Base(path) {
	case "Cargo.toml":
		return cargoToml(path, base)
	default:
		return apperror.NewKindf(apperror.KindUsage, "unsupported file type %q", filepath.Base(path))
	}
}

// cargoToml rewrites the package.version key of a Cargo.toml in place
func cargoToml(path string, base string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperror.WrapKind(apperror.KindIO, err, "reading manifest failed").AddDetail("path", path)
	}

	doc := bumpfile.ParseDocument(data)
	if !doc.Has("package.version") {
		return apperror.NewKindf(apperror.KindSchema, "no [package] version found in %s", path)
	}
	if err := doc.SetString("package.version", base); err != nil {
		return err
	}

	if err := os.WriteFile(path, doc.Bytes(), 0644); err != nil {
		return apperror.WrapKind(apperror.KindIO, err, "writing manifest failed").AddDetail("path", path)
	}
	logger.Info().Str("path", path).Str("version", base).Msg("manifest updated")
	return nil
}
