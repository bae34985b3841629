package sentiment

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/knights-analytics/hugot/pipelines"
)

// stubDownload writes the requested graph flat into the model directory,
// the way hugot copies downloaded files.
func stubDownload(t *testing.T, calls *int, requested *[]string) {
	t.Helper()
	previous := downloadModel
	downloadModel = func(modelName, destination, onnxFile string) (string, error) {
		*calls++
		if requested != nil {
			*requested = append(*requested, onnxFile)
		}
		name := "model.onnx"
		if onnxFile != "" {
			name = filepath.Base(onnxFile)
		}
		dir := ModelDir(destination, modelName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte("onnx"), 0o644); err != nil {
			return "", err
		}
		return dir, nil
	}
	t.Cleanup(func() { downloadModel = previous })
}

func TestEnsureModelDownloadsOnce(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "models")
	calls := 0
	stubDownload(t, &calls, nil)

	first, err := EnsureModel(DEFAULT_MODEL_NAME, DEFAULT_ONNX_FILE, cacheDir)
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	second, err := EnsureModel(DEFAULT_MODEL_NAME, DEFAULT_ONNX_FILE, cacheDir)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected one download, got %d", calls)
	}
	if first != second || first != ModelDir(cacheDir, DEFAULT_MODEL_NAME) {
		t.Fatalf("expected stable model path, got %q and %q", first, second)
	}
	if !IsCached(cacheDir, DEFAULT_MODEL_NAME, DEFAULT_ONNX_FILE) {
		t.Fatalf("expected model to be cached")
	}
}

func TestEnsureModelSurfacesDownloadFailure(t *testing.T) {
	previous := downloadModel
	downloadModel = func(string, string, string) (string, error) { return "", errors.New("registry unreachable") }
	t.Cleanup(func() { downloadModel = previous })

	if _, err := EnsureModel(DEFAULT_MODEL_NAME, DEFAULT_ONNX_FILE, t.TempDir()); err == nil {
		t.Fatalf("expected download error")
	}
}

func TestEnsureModelRequestsOnnxFile(t *testing.T) {
	cacheDir := t.TempDir()
	calls := 0
	var requested []string
	stubDownload(t, &calls, &requested)

	if _, err := EnsureModel(DEFAULT_MODEL_NAME, DEFAULT_ONNX_FILE, cacheDir); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if len(requested) != 1 || requested[0] != DEFAULT_ONNX_FILE {
		t.Fatalf("expected the download to ask for %q, got %v", DEFAULT_ONNX_FILE, requested)
	}
	if _, err := os.Stat(filepath.Join(ModelDir(cacheDir, DEFAULT_MODEL_NAME), "model.onnx")); err != nil {
		t.Fatalf("expected the graph to be cached flat: %v", err)
	}

	// A different graph from the same export is a separate download.
	if IsCached(cacheDir, DEFAULT_MODEL_NAME, "onnx/model_quantized.onnx") {
		t.Fatalf("expected the quantized graph to be missing")
	}
	if _, err := EnsureModel(DEFAULT_MODEL_NAME, "onnx/model_quantized.onnx", cacheDir); err != nil {
		t.Fatalf("ensure quantized: %v", err)
	}
	if calls != 2 || requested[1] != "onnx/model_quantized.onnx" {
		t.Fatalf("expected a second download for the quantized graph, got %d %v", calls, requested)
	}
}

func TestIsCachedWithoutOnnxFile(t *testing.T) {
	cacheDir := t.TempDir()
	if IsCached(cacheDir, "acme/model", "") {
		t.Fatalf("expected empty cache")
	}
	dir := ModelDir(cacheDir, "acme/model")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "model.onnx"), []byte("onnx"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !IsCached(cacheDir, "acme/model", "") {
		t.Fatalf("expected any onnx file to count when none is named")
	}
}

func TestModelDirLayout(t *testing.T) {
	got := ModelDir("/cache", "nlptown/bert-base-multilingual-uncased-sentiment")
	want := filepath.Join("/cache", "nlptown_bert-base-multilingual-uncased-sentiment")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNewHugotClassifierRequiresCachedModel(t *testing.T) {
	_, err := NewHugotClassifier(filepath.Join(t.TempDir(), "missing"), DEFAULT_ONNX_FILE, 0)
	if !errors.Is(err, ErrModelNotCached) {
		t.Fatalf("expected ErrModelNotCached, got %v", err)
	}
}

func TestToSentimentResultsPicksTopLabel(t *testing.T) {
	output := &pipelines.TextClassificationOutput{
		ClassificationOutputs: [][]pipelines.ClassificationOutput{
			{{Label: "5 stars", Score: 0.77}},
			{{Label: "1 star", Score: 0.1}, {Label: "3 stars", Score: 0.26}},
		},
	}

	results, err := toSentimentResults(output)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Label != "5 stars" || results[1].Label != "3 stars" {
		t.Fatalf("unexpected labels %+v", results)
	}
}

func TestToSentimentResultsRejectsEmptyLabels(t *testing.T) {
	output := &pipelines.TextClassificationOutput{
		ClassificationOutputs: [][]pipelines.ClassificationOutput{{}},
	}
	if _, err := toSentimentResults(output); err == nil {
		t.Fatalf("expected error for empty label list")
	}
}
