package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

// Well-known file names inside the layout
const (
	ConfigFileName           = "config.json"
	PartsInfoFileName        = "hardware_parts.json"
	DetectionResultsFileName = "detection_results.csv"
	TrainingHistoryFileName  = "training_history.json"
)

// Layout is the fixed project directory tree derived from a single root.
// Every path is a pure join; nothing touches the disk until MaterializeAll
// or EnsureDirectory is called.
type Layout struct {
	root string
}

// New creates a layout rooted at root, or at DefaultRoot when root is empty
func New(root string) (*Layout, error) {
	if root == "" {
		dflt, err := DefaultRoot()
		if err != nil {
			return nil, err
		}
		root = dflt
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid project root '%s': %w", root, err)
	}

	return &Layout{root: filepath.Clean(abs)}, nil
}

// DefaultRoot resolves the project root from the running executable:
// a binary installed as <root>/bin/partsrec yields <root>.
// The working directory is never consulted.
func DefaultRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return rootFromExecutable(exe), nil
}

func rootFromExecutable(exe string) string {
	return filepath.Dir(filepath.Dir(filepath.Clean(exe)))
}

func (l *Layout) Root() string { return l.root }

func (l *Layout) DataDir() string            { return filepath.Join(l.root, "data") }
func (l *Layout) ConfigDir() string          { return filepath.Join(l.DataDir(), "config") }
func (l *Layout) ModelsDir() string          { return filepath.Join(l.DataDir(), "models") }
func (l *Layout) DatasetsDir() string        { return filepath.Join(l.DataDir(), "datasets") }
func (l *Layout) TrainDir() string           { return filepath.Join(l.DatasetsDir(), "train") }
func (l *Layout) ValDir() string             { return filepath.Join(l.DatasetsDir(), "val") }
func (l *Layout) TestDir() string            { return filepath.Join(l.DatasetsDir(), "test") }
func (l *Layout) PartsInfoDir() string       { return filepath.Join(l.DataDir(), "parts_info") }
func (l *Layout) ResultsDir() string         { return filepath.Join(l.DataDir(), "results") }
func (l *Layout) ReferenceImagesDir() string { return filepath.Join(l.DataDir(), "reference_images") }

func (l *Layout) SrcDir() string       { return filepath.Join(l.root, "src") }
func (l *Layout) SrcModelsDir() string { return filepath.Join(l.SrcDir(), "models") }
func (l *Layout) SrcDataDir() string   { return filepath.Join(l.SrcDir(), "data") }
func (l *Layout) SrcUIDir() string     { return filepath.Join(l.SrcDir(), "ui") }
func (l *Layout) SrcUtilsDir() string  { return filepath.Join(l.SrcDir(), "utils") }

func (l *Layout) TestsDir() string { return filepath.Join(l.root, "tests") }
func (l *Layout) DocsDir() string  { return filepath.Join(l.root, "docs") }
func (l *Layout) LogsDir() string  { return filepath.Join(l.root, "logs") }

// ConfigFile returns data/config/config.json
func (l *Layout) ConfigFile() string {
	return filepath.Join(l.ConfigDir(), ConfigFileName)
}

// PartsInfoFile returns data/parts_info/hardware_parts.json
func (l *Layout) PartsInfoFile() string {
	return filepath.Join(l.PartsInfoDir(), PartsInfoFileName)
}

// DetectionResultsFile returns data/results/detection_results.csv
func (l *Layout) DetectionResultsFile() string {
	return filepath.Join(l.ResultsDir(), DetectionResultsFileName)
}

// TrainingHistoryFile returns data/results/training_history.json
func (l *Layout) TrainingHistoryFile() string {
	return filepath.Join(l.ResultsDir(), TrainingHistoryFileName)
}

// ModelFile returns the path of a model weights file under data/models
func (l *Layout) ModelFile(name string) string {
	return filepath.Join(l.ModelsDir(), name)
}

// LogFile returns the path of a file under logs
func (l *Layout) LogFile(name string) string {
	return filepath.Join(l.LogsDir(), name)
}

// Dirs lists every directory of the layout, parents before children
func (l *Layout) Dirs() []string {
	return []string{
		l.root,
		l.DataDir(),
		l.ConfigDir(),
		l.ModelsDir(),
		l.DatasetsDir(),
		l.TrainDir(),
		l.ValDir(),
		l.TestDir(),
		l.PartsInfoDir(),
		l.ResultsDir(),
		l.ReferenceImagesDir(),
		l.SrcDir(),
		l.SrcModelsDir(),
		l.SrcDataDir(),
		l.SrcUIDir(),
		l.SrcUtilsDir(),
		l.TestsDir(),
		l.DocsDir(),
		l.LogsDir(),
	}
}

// EnsureDirectory creates path and any missing parents.
// An existing directory is not an error.
func EnsureDirectory(path string) (string, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// MaterializeAll creates every directory of the layout; safe to repeat
func (l *Layout) MaterializeAll() error {
	for _, dir := range l.Dirs() {
		if _, err := EnsureDirectory(dir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
