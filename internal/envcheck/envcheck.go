package envcheck

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/dustin/partsrec/internal/layout"
	"github.com/dustin/partsrec/internal/settings"
)

// ErrMalformed marks a data file that exists but does not have the expected shape
var ErrMalformed = errors.New("malformed data file")

// Result is the outcome of one check
type Result struct {
	Name   string
	Path   string
	OK     bool
	Detail string
}

// Report groups results by section in the order they were run
type Report struct {
	Sections []Section
}

type Section struct {
	Title   string
	Results []Result
}

func (r *Report) Add(title string, results []Result) {
	r.Sections = append(r.Sections, Section{Title: title, Results: results})
}

// Passed is true when every recorded check succeeded
func (r *Report) Passed() bool {
	for _, s := range r.Sections {
		for _, res := range s.Results {
			if !res.OK {
				return false
			}
		}
	}
	return true
}

// Failures counts failed checks
func (r *Report) Failures() int {
	n := 0
	for _, s := range r.Sections {
		for _, res := range s.Results {
			if !res.OK {
				n++
			}
		}
	}
	return n
}

// CheckStructure verifies the directories the application depends on
func CheckStructure(l *layout.Layout) []Result {
	dirs := []string{
		l.DataDir(),
		l.ConfigDir(),
		l.ModelsDir(),
		l.DatasetsDir(),
		l.TrainDir(),
		l.ValDir(),
		l.TestDir(),
		l.PartsInfoDir(),
		l.ResultsDir(),
		l.SrcDir(),
		l.SrcModelsDir(),
		l.SrcDataDir(),
		l.SrcUIDir(),
		l.SrcUtilsDir(),
		l.TestsDir(),
		l.LogsDir(),
	}

	results := make([]Result, 0, len(dirs))
	for _, dir := range dirs {
		res := Result{Name: relative(l, dir), Path: dir}
		info, err := os.Stat(dir)
		switch {
		case err != nil:
			res.Detail = "missing"
		case !info.IsDir():
			res.Detail = "not a directory"
		default:
			res.OK = true
		}
		results = append(results, res)
	}
	return results
}

// CheckFiles verifies that the well-known data files are present.
// configFile replaces the layout's config file when it is not empty.
func CheckFiles(l *layout.Layout, configFile string) []Result {
	if configFile == "" {
		configFile = l.ConfigFile()
	}
	files := []string{
		configFile,
		l.PartsInfoFile(),
		l.DetectionResultsFile(),
		l.TrainingHistoryFile(),
	}

	results := make([]Result, 0, len(files))
	for _, file := range files {
		res := Result{Name: relative(l, file), Path: file}
		info, err := os.Stat(file)
		switch {
		case err != nil:
			res.Detail = "missing"
		case info.IsDir():
			res.Detail = "is a directory"
		default:
			res.OK = true
		}
		results = append(results, res)
	}
	return results
}

// Summary describes a successfully loaded configuration
type Summary struct {
	Sections   int
	ModelName  string
	ClassCount int
}

// InspectConfig loads the store and extracts the values shown at startup
func InspectConfig(store *settings.Store) (Summary, error) {
	doc, err := store.Load()
	if err != nil {
		return Summary{}, err
	}

	name, err := store.Get(settings.KeyModelConfig + ".model_name")
	if err != nil {
		return Summary{}, err
	}
	classes, err := store.ClassNames()
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Sections:   len(doc),
		ModelName:  name.Text(),
		ClassCount: len(classes),
	}, nil
}

// InspectPartsInfo returns the number of entries in the top-level "parts" list
func InspectPartsInfo(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var doc map[string]any
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	parts, ok := doc["parts"].([]any)
	if !ok {
		return 0, fmt.Errorf("%w: %s: no 'parts' list", ErrMalformed, path)
	}
	return len(parts), nil
}

// InspectDetectionResults returns the column count of the CSV header
func InspectDetectionResults(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: %s: empty file", ErrMalformed, path)
		}
		return 0, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return len(header), nil
}

// Run executes every check against the layout
func Run(l *layout.Layout, store *settings.Store) *Report {
	report := &Report{}
	report.Add("Project structure", CheckStructure(l))

	files := CheckFiles(l, store.Path())
	report.Add("Data files", files)
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.Path] = f.OK
	}

	var content []Result
	if present[store.Path()] {
		res := Result{Name: "configuration", Path: store.Path()}
		if summary, err := InspectConfig(store); err != nil {
			res.Detail = err.Error()
		} else {
			res.OK = true
			res.Detail = fmt.Sprintf("%d sections, model %s, %d classes",
				summary.Sections, summary.ModelName, summary.ClassCount)
		}
		content = append(content, res)
	}
	if present[l.PartsInfoFile()] {
		res := Result{Name: "parts info", Path: l.PartsInfoFile()}
		if n, err := InspectPartsInfo(l.PartsInfoFile()); err != nil {
			res.Detail = err.Error()
		} else {
			res.OK = true
			res.Detail = fmt.Sprintf("%d parts", n)
		}
		content = append(content, res)
	}
	if present[l.DetectionResultsFile()] {
		res := Result{Name: "detection results", Path: l.DetectionResultsFile()}
		if n, err := InspectDetectionResults(l.DetectionResultsFile()); err != nil {
			res.Detail = err.Error()
		} else {
			res.OK = true
			res.Detail = fmt.Sprintf("%d columns", n)
		}
		content = append(content, res)
	}
	if len(content) > 0 {
		report.Add("File contents", content)
	}

	return report
}

func relative(l *layout.Layout, path string) string {
	rel, err := filepath.Rel(l.Root(), path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
