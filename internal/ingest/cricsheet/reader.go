package cricsheet

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ReadFile loads one source file and returns the matches it holds. JSON
// files carry exactly one match; CSV exports may carry several. A missing
// file surfaces the underlying os.ErrNotExist so the coordinator can
// classify it without string matching.
func ReadFile(path string) ([]RawMatch, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read source file %s", path)
		}
		raw, err := ParseJSON(path, data)
		if err != nil {
			return nil, err
		}
		return []RawMatch{raw}, nil
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open source file %s", path)
		}
		defer f.Close()
		return ParseCSV(path, f)
	default:
		return nil, errors.Newf("unsupported source file type: %s", path)
	}
}
