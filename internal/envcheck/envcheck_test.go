package envcheck

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustin/partsrec/internal/layout"
	"github.com/dustin/partsrec/internal/settings"
)

func newLayout(t *testing.T) *layout.Layout {
	t.Helper()
	l, err := layout.New(t.TempDir())
	require.NoError(t, err)
	return l
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func allOK(results []Result) bool {
	for _, r := range results {
		if !r.OK {
			return false
		}
	}
	return true
}

func TestCheckStructure(t *testing.T) {
	l := newLayout(t)

	before := CheckStructure(l)
	require.NotEmpty(t, before)
	assert.False(t, allOK(before))
	assert.Equal(t, "data", before[0].Name)
	assert.Equal(t, "missing", before[0].Detail)

	names := make([]string, 0, len(before))
	for _, r := range before {
		names = append(names, r.Name)
	}
	assert.Subset(t, names, []string{"data", "data/datasets", "src", "tests", "logs"})
	assert.Less(t, indexOf(names, "data/datasets"), indexOf(names, "data/datasets/train"))
	assert.Less(t, indexOf(names, "src"), indexOf(names, "src/models"))

	require.NoError(t, l.MaterializeAll())
	assert.True(t, allOK(CheckStructure(l)))
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func TestCheckStructure_FileInsteadOfDirectory(t *testing.T) {
	l := newLayout(t)
	require.NoError(t, l.MaterializeAll())
	require.NoError(t, os.RemoveAll(l.SrcUIDir()))
	writeFile(t, l.SrcUIDir(), "not a dir")

	var found bool
	for _, r := range CheckStructure(l) {
		if r.Name == "src/ui" {
			found = true
			assert.False(t, r.OK)
			assert.Equal(t, "not a directory", r.Detail)
		}
	}
	assert.True(t, found)
}

func TestCheckFiles(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.ConfigFile(), `{}`)
	writeFile(t, l.PartsInfoFile(), `{"parts": []}`)

	results := CheckFiles(l, "")
	require.Len(t, results, 4)

	status := map[string]bool{}
	for _, r := range results {
		status[r.Name] = r.OK
	}
	assert.Equal(t, map[string]bool{
		"data/config/config.json":             true,
		"data/parts_info/hardware_parts.json": true,
		"data/results/detection_results.csv":  false,
		"data/results/training_history.json":  false,
	}, status)
}

func TestInspectPartsInfo(t *testing.T) {
	l := newLayout(t)

	writeFile(t, l.PartsInfoFile(), `{"parts": [{"name": "M6 bolt"}, {"name": "M6 nut"}]}`)
	n, err := InspectPartsInfo(l.PartsInfoFile())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	writeFile(t, l.PartsInfoFile(), `{"items": []}`)
	_, err = InspectPartsInfo(l.PartsInfoFile())
	assert.True(t, errors.Is(err, ErrMalformed))

	writeFile(t, l.PartsInfoFile(), `{"parts": `)
	_, err = InspectPartsInfo(l.PartsInfoFile())
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = InspectPartsInfo(filepath.Join(l.Root(), "absent.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestInspectDetectionResults(t *testing.T) {
	l := newLayout(t)

	writeFile(t, l.DetectionResultsFile(), "image,class,confidence,x,y,w,h\na.jpg,bolt,0.9,1,2,3,4\n")
	n, err := InspectDetectionResults(l.DetectionResultsFile())
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	writeFile(t, l.DetectionResultsFile(), "")
	_, err = InspectDetectionResults(l.DetectionResultsFile())
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestInspectConfig(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.ConfigFile(), `{"model_config": {"model_name": "yolov8n"}, "class_names": ["bolt", "nut", "washer"]}`)

	summary, err := InspectConfig(settings.NewStoreForLayout(l))
	require.NoError(t, err)
	assert.Equal(t, Summary{Sections: 2, ModelName: "yolov8n", ClassCount: 3}, summary)

	writeFile(t, l.ConfigFile(), `{"class_names": []}`)
	_, err = InspectConfig(settings.NewStoreForLayout(l))
	assert.True(t, errors.Is(err, settings.ErrKeyNotFound))
}

func TestRun(t *testing.T) {
	l := newLayout(t)
	require.NoError(t, l.MaterializeAll())
	writeFile(t, l.ConfigFile(), `{"model_config": {"model_name": "yolov8n"}, "class_names": ["bolt"]}`)
	writeFile(t, l.PartsInfoFile(), `{"parts": [{}]}`)
	writeFile(t, l.DetectionResultsFile(), "image,class\n")
	writeFile(t, l.TrainingHistoryFile(), `{}`)

	report := Run(l, settings.NewStoreForLayout(l))
	assert.True(t, report.Passed())
	assert.Zero(t, report.Failures())
	require.Len(t, report.Sections, 3)
	assert.Equal(t, "File contents", report.Sections[2].Title)
	assert.Len(t, report.Sections[2].Results, 3)
}

func TestRun_EmptyProject(t *testing.T) {
	l := newLayout(t)

	report := Run(l, settings.NewStoreForLayout(l))
	assert.False(t, report.Passed())
	assert.Len(t, report.Sections, 2)
	assert.Equal(t, len(CheckStructure(l))+len(CheckFiles(l, "")), report.Failures())
}

func TestRun_AlternateConfigFile(t *testing.T) {
	l := newLayout(t)
	require.NoError(t, l.MaterializeAll())
	alt := filepath.Join(t.TempDir(), "alt.json")
	writeFile(t, alt, `{"model_config": {"model_name": "yolov8m"}, "class_names": ["bolt", "nut"]}`)

	report := Run(l, settings.NewStore(alt))
	require.GreaterOrEqual(t, len(report.Sections), 3)

	files := report.Sections[1].Results
	assert.Equal(t, alt, files[0].Path)
	assert.Equal(t, alt, files[0].Name)
	assert.True(t, files[0].OK)
	for _, r := range files {
		assert.NotEqual(t, l.ConfigFile(), r.Path)
	}

	content := report.Sections[2]
	assert.Equal(t, "File contents", content.Title)
	require.NotEmpty(t, content.Results)
	assert.Equal(t, "configuration", content.Results[0].Name)
	assert.True(t, content.Results[0].OK)
	assert.Equal(t, "2 sections, model yolov8m, 2 classes", content.Results[0].Detail)
}
