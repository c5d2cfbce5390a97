package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ludo-technologies/pmdview/internal/constants"
	ignore "github.com/sabhiram/go-gitignore"
)

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectReportFiles collects PMD report files (*.xml, *.json) from paths.
// Files named explicitly are always kept. Directory entries are matched
// against excludePatterns (gitignore syntax) and, when respectGitignore is
// set, against the .gitignore files found along the walk.
func (h *FileHelper) CollectReportFiles(paths []string, recursive bool, excludePatterns []string, respectGitignore bool) ([]string, error) {
	var files []string
	excludes := ignore.CompileIgnoreLines(excludePatterns...)

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		collected, err := h.collectFromDir(path, recursive, excludes, respectGitignore)
		if err != nil {
			return nil, err
		}
		files = append(files, collected...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// gitignoreScope is a compiled .gitignore and the directory it applies to
type gitignoreScope struct {
	dir     string
	matcher *ignore.GitIgnore
}

func (h *FileHelper) collectFromDir(root string, recursive bool, excludes *ignore.GitIgnore, respectGitignore bool) ([]string, error) {
	var files []string
	var scopes []gitignoreScope

	ignored := func(path string, isDir bool) bool {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return false
		}
		if isDir {
			rel += "/"
		}
		if excludes.MatchesPath(filepath.ToSlash(rel)) {
			return true
		}
		for _, scope := range scopes {
			scoped, err := filepath.Rel(scope.dir, path)
			if err != nil || scoped == ".." || strings.HasPrefix(scoped, ".."+string(filepath.Separator)) {
				continue
			}
			if isDir {
				scoped += "/"
			}
			if scope.matcher.MatchesPath(filepath.ToSlash(scoped)) {
				return true
			}
		}
		return false
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root {
				if !recursive || d.Name() == ".git" || ignored(path, true) {
					return filepath.SkipDir
				}
			}
			if respectGitignore {
				if matcher, err := ignore.CompileIgnoreFile(filepath.Join(path, ".gitignore")); err == nil {
					scopes = append(scopes, gitignoreScope{dir: path, matcher: matcher})
				}
			}
			return nil
		}

		if h.IsReportFile(path) && !ignored(path, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// IsReportFile checks if a file looks like a PMD report by extension
func (h *FileHelper) IsReportFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == constants.ReportExtXML || ext == constants.ReportExtJSON
}

// OutputPaths returns, for each report, where its converted form is
// written: <dir>/<base name without extension><ext>, next to the report
// when dir is empty. An output never names one of the reports or another
// report's output. A name held by a report falls back to
// <base>.table<ext>; any name still taken gets a -2, -3, ... suffix.
func (h *FileHelper) OutputPaths(reports []string, dir, ext string) []string {
	isReport := make(map[string]bool, len(reports))
	for _, report := range reports {
		isReport[pathKey(report)] = true
	}
	written := make(map[string]bool, len(reports))
	taken := func(path string) bool {
		key := pathKey(path)
		return isReport[key] || written[key]
	}

	outputs := make([]string, 0, len(reports))
	for _, report := range reports {
		target := dir
		if target == "" {
			target = filepath.Dir(report)
		}
		base := strings.TrimSuffix(filepath.Base(report), filepath.Ext(report))

		out := filepath.Join(target, base+ext)
		if isReport[pathKey(out)] {
			out = filepath.Join(target, base+".table"+ext)
		}
		for n := 2; taken(out); n++ {
			out = filepath.Join(target, base+"-"+strconv.Itoa(n)+ext)
		}
		written[pathKey(out)] = true
		outputs = append(outputs, out)
	}
	return outputs
}

// pathKey identifies a file path regardless of how it was spelled
func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
