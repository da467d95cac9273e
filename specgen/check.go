package specgen

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/retrospec/errors"
)

// CheckResult holds the result of comparing generated specs with disk.
type CheckResult struct {
	UpToDate    bool
	Missing     []string // specs with no file on disk
	Differences []string // files whose content differs
}

// Check compares every spec of result with the file at the same path below
// dir. Differences in trailing whitespace are ignored.
func Check(result *Result, dir string) (*CheckResult, error) {
	check := &CheckResult{}
	for _, spec := range result.Specs {
		existing, err := os.ReadFile(filepath.Join(dir, spec.Path))
		if os.IsNotExist(err) {
			check.Missing = append(check.Missing, spec.Path)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", spec.Path)
		}
		if normalizeLines([]byte(spec.Content)) != normalizeLines(existing) {
			check.Differences = append(check.Differences, spec.Path)
		}
	}
	check.UpToDate = len(check.Missing) == 0 && len(check.Differences) == 0
	return check, nil
}

// normalizeLines strips trailing whitespace from every line and drops
// trailing blank lines. Returns empty string if the scanner fails, which
// makes the comparison report a difference.
func normalizeLines(content []byte) string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return ""
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
