package specgen

import (
	"os"
	"path/filepath"

	"github.com/teranos/retrospec/errors"
)

// WriteResult lists what Write did, as paths relative to the target dir.
type WriteResult struct {
	Written []string
	Skipped []string
}

// Write stores every spec of result below dir. Existing files are left
// alone unless overwrite is set, since generated stubs are meant to be
// edited by hand.
func Write(result *Result, dir string, overwrite bool) (*WriteResult, error) {
	out := &WriteResult{}
	for _, spec := range result.Specs {
		target := filepath.Join(dir, spec.Path)

		if !overwrite {
			if _, err := os.Stat(target); err == nil {
				out.Skipped = append(out.Skipped, spec.Path)
				continue
			} else if !os.IsNotExist(err) {
				return out, errors.Wrapf(err, "failed to stat %s", target)
			}
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return out, errors.Wrapf(err, "failed to create directory for %s", spec.Path)
		}
		if err := os.WriteFile(target, []byte(spec.Content), 0644); err != nil {
			return out, errors.Wrapf(err, "failed to write %s", target)
		}
		out.Written = append(out.Written, spec.Path)
	}
	return out, nil
}
