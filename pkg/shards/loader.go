package shards

import (
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/logging"
	"github.com/arthur-debert/implshard/pkg/types"
)

// Decode decodes shard data, choosing the format from the path extension
func Decode(p string, data []byte) ([]types.Shard, error) {
	format, err := FormatFromPath(p)
	if err != nil {
		return nil, err
	}
	return DecodeFormat(p, format, data)
}

// DecodeFormat decodes shard data in the given format. p is recorded as the
// shard origin and, for script shards, names the trait.
func DecodeFormat(p string, format Format, data []byte) ([]types.Shard, error) {
	switch format {
	case FormatScript:
		return decodeScript(p, data)
	case FormatTOML, FormatYAML, FormatJSON:
		return decodeDocument(p, format, data)
	case FormatXML:
		return decodeXML(p, data)
	default:
		return nil, errors.Newf(errors.ErrUnknownFormat, "unknown shard format: %s", format)
	}
}

// ReadFile reads and decodes one shard file from the OS filesystem
func ReadFile(p string) ([]types.Shard, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrShardRead, "failed to read shard %s", p).
			WithDetail("path", p)
	}
	return Decode(p, data)
}

// Loader walks a shard tree and decodes every file in an enabled format
type Loader struct {
	formats map[Format]bool
}

// NewLoader creates a loader for the given formats; none means all
func NewLoader(formats ...Format) *Loader {
	if len(formats) == 0 {
		formats = AllFormats
	}
	l := &Loader{formats: make(map[Format]bool, len(formats))}
	for _, f := range formats {
		l.formats[f] = true
	}
	return l
}

// LoadDir loads every shard under root with the default loader
func LoadDir(fsys fs.FS, root string) ([]types.Shard, error) {
	return NewLoader().LoadDir(fsys, root)
}

// LoadDir walks root in lexical order and returns the shards of every
// decodable file, in file order. Hidden files and directories and files in
// disabled or unknown formats are skipped.
func (l *Loader) LoadDir(fsys fs.FS, root string) ([]types.Shard, error) {
	logger := logging.GetLogger("shards")
	defer logging.LogOperationStart(logger, "load shards")()

	var shards []types.Shard
	files := 0
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrShardRead, "failed to walk %s", p).WithDetail("path", p)
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		format, ferr := FormatFromPath(p)
		if ferr != nil || !l.formats[format] {
			logger.Trace().Str("path", p).Msg("Skipping file")
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.Wrapf(err, errors.ErrShardRead, "failed to read shard %s", p).WithDetail("path", p)
		}
		decoded, err := DecodeFormat(relative(root, p), format, data)
		if err != nil {
			return err
		}

		files++
		logger.Debug().
			Str("path", p).
			Str("format", string(format)).
			Int("shards", len(decoded)).
			Msg("Decoded shard file")
		shards = append(shards, decoded...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int("files", files).Int("shards", len(shards)).Msg("Loaded shards")
	return shards, nil
}

// relative strips root from p so script shards resolve their trait from
// the tree layout, not from where the tree lives
func relative(root, p string) string {
	if root == "." || root == "" {
		return p
	}
	if rel, ok := strings.CutPrefix(p, path.Clean(root)+"/"); ok {
		return rel
	}
	return p
}
