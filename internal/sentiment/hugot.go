package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/firebird/internal/models"
	"github.com/spacesedan/firebird/internal/utils"
)

const (
	// DEFAULT_MODEL_NAME is the ONNX export of nlptown/bert-base-multilingual-uncased-sentiment.
	DEFAULT_MODEL_NAME = "Xenova/bert-base-multilingual-uncased-sentiment"
	// DEFAULT_ONNX_FILE picks the full precision graph out of the several the export ships.
	DEFAULT_ONNX_FILE  = "onnx/model.onnx"
	DEFAULT_BATCH_SIZE = 32
)

var ErrModelNotCached = errors.New("model is not in the local cache")

// downloadModel is swapped out in tests.
var downloadModel = func(modelName, destination, onnxFile string) (string, error) {
	options := hugot.NewDownloadOptions()
	options.OnnxFilePath = onnxFile
	return hugot.DownloadModel(modelName, destination, options)
}

// ModelDir is where a model is cached, mirroring hugot's download layout.
func ModelDir(cacheDir, modelName string) string {
	return filepath.Join(cacheDir, strings.ReplaceAll(modelName, "/", "_"))
}

// onnxFilename is the name hugot gives a repo file once downloaded. Files
// are copied flat into the model directory.
func onnxFilename(onnxFile string) string {
	if onnxFile == "" {
		return ""
	}
	return path.Base(onnxFile)
}

// IsCached reports whether the model directory holds the requested onnx
// file, or any onnx file when onnxFile is empty.
func IsCached(cacheDir, modelName, onnxFile string) bool {
	dir := ModelDir(cacheDir, modelName)
	if name := onnxFilename(onnxFile); name != "" {
		info, err := os.Stat(filepath.Join(dir, name))
		return err == nil && !info.IsDir()
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.onnx"))
	return err == nil && len(matches) > 0
}

// EnsureModel returns the cached model path, downloading it from the model
// registry on the first call only. onnxFile is the repo path of the graph to
// fetch and is required when the repo holds more than one.
func EnsureModel(modelName, onnxFile, cacheDir string) (string, error) {
	modelPath := ModelDir(cacheDir, modelName)
	if IsCached(cacheDir, modelName, onnxFile) {
		slog.Info("[HugotClassifier] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("[HugotClassifier] failed to create model cache dir: %w", err)
	}

	slog.Info("[HugotClassifier] Model not found, downloading...",
		slog.String("model", modelName),
		slog.String("onnx_file", onnxFile),
		slog.String("cache_dir", cacheDir))
	start := time.Now()

	downloaded, err := downloadModel(modelName, cacheDir, onnxFile)
	if err != nil {
		return "", fmt.Errorf("[HugotClassifier] failed to download %s: %w", modelName, err)
	}

	slog.Info("[HugotClassifier] Model downloaded successfully",
		slog.String("path", downloaded),
		slog.Duration("elapsed", time.Since(start)))
	return downloaded, nil
}

// HugotClassifier runs the star rating model in process.
type HugotClassifier struct {
	session   *hugot.Session
	pipeline  *pipelines.TextClassificationPipeline
	batchSize int
}

// NewHugotClassifier loads a cached model. It never downloads; call
// EnsureModel first.
func NewHugotClassifier(modelPath, onnxFile string, batchSize int) (*HugotClassifier, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("[HugotClassifier] %w: %s", ErrModelNotCached, modelPath)
	}
	if batchSize <= 0 {
		batchSize = DEFAULT_BATCH_SIZE
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("[HugotClassifier] failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath:    modelPath,
		Name:         "campaignSentimentPipeline",
		OnnxFilename: onnxFilename(onnxFile),
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("[HugotClassifier] failed to initialize pipeline: %w", err)
	}

	slog.Info("[HugotClassifier] Pipeline ready",
		slog.String("model_path", modelPath),
		slog.Int("batch_size", batchSize))

	return &HugotClassifier{
		session:   session,
		pipeline:  pipeline,
		batchSize: batchSize,
	}, nil
}

// Classify runs the whole batch through the pipeline, in chunks of batchSize
// to bound memory.
func (h *HugotClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	results := make([]models.SentimentResult, 0, len(texts))
	start := time.Now()

	for _, batch := range utils.Chunk(texts, h.batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, err := h.pipeline.RunPipeline(batch)
		if err != nil {
			return nil, fmt.Errorf("[HugotClassifier] pipeline run failed: %w", err)
		}

		converted, err := toSentimentResults(output)
		if err != nil {
			return nil, err
		}
		results = append(results, converted...)
	}

	slog.Debug("[HugotClassifier] Batch classified",
		slog.Int("texts", len(texts)),
		slog.Duration("elapsed", time.Since(start)))
	return results, nil
}

func (h *HugotClassifier) Close() error {
	if h.session == nil {
		return nil
	}
	return h.session.Destroy()
}

// toSentimentResults keeps the highest scoring label per input.
func toSentimentResults(output *pipelines.TextClassificationOutput) ([]models.SentimentResult, error) {
	if output == nil {
		return nil, errors.New("[HugotClassifier] pipeline returned no output")
	}

	results := make([]models.SentimentResult, 0, len(output.ClassificationOutputs))
	for i, labels := range output.ClassificationOutputs {
		if len(labels) == 0 {
			return nil, fmt.Errorf("[HugotClassifier] no label for input %d", i)
		}
		best := labels[0]
		for _, candidate := range labels[1:] {
			if candidate.Score > best.Score {
				best = candidate
			}
		}
		results = append(results, models.SentimentResult{
			Label: best.Label,
			Score: float64(best.Score),
		})
	}
	return results, nil
}
