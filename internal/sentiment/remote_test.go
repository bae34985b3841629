package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spacesedan/firebird/internal/clients"
	"github.com/spacesedan/firebird/internal/models"
)

func TestHuggingFaceClassifierOverInferenceAPI(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.Header.Get("Authorization"); got != "Bearer hf-token" {
			t.Errorf("expected bearer token, got %q", got)
		}
		var body models.SentimentAnalysisBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		response := make(models.SentimentAnalysisBatchResponse, len(body.Inputs))
		for i, input := range body.Inputs {
			if strings.Contains(input, "encanta") {
				response[i] = models.SentimentAnalysisResponse{{Label: "5 stars", Score: 0.77}, {Label: "4 stars", Score: 0.2}}
			} else {
				response[i] = models.SentimentAnalysisResponse{{Label: "2 stars", Score: 0.1}, {Label: "3 stars", Score: 0.26}}
			}
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := clients.NewHuggingFaceClient(server.URL, DEFAULT_MODEL_NAME, "hf-token", 5*time.Second)
	classifier := NewHuggingFaceClassifier(client, 10)

	results, err := classifier.Classify(context.Background(), []string{
		"me encanta la tarta de queso de este hotel",
		"ldnsfklsdnf",
	})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if requests != 1 {
		t.Fatalf("expected a single batched request, got %d", requests)
	}
	if len(results) != 2 || results[0].Label != "5 stars" || results[1].Label != "3 stars" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestHuggingFaceClientRetriesServerErrors(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[[{"label":"4 stars","score":0.6}]]`))
	}))
	defer server.Close()

	client := clients.NewHuggingFaceClient(server.URL, DEFAULT_MODEL_NAME, "", 5*time.Second)
	client.Backoff = time.Millisecond

	results, err := NewHuggingFaceClassifier(client, 0).Classify(context.Background(), []string{"good"})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if requests != 2 {
		t.Fatalf("expected one retry, got %d requests", requests)
	}
	if results[0].Label != "4 stars" {
		t.Fatalf("unexpected result %+v", results[0])
	}
}

func TestHuggingFaceClassifierRejectsShortResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[{"label":"4 stars","score":0.6}]]`))
	}))
	defer server.Close()

	client := clients.NewHuggingFaceClient(server.URL, DEFAULT_MODEL_NAME, "", 5*time.Second)
	if _, err := NewHuggingFaceClassifier(client, 0).Classify(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestInferenceModelName(t *testing.T) {
	if got := InferenceModelName(DEFAULT_MODEL_NAME); got != SOURCE_MODEL_NAME {
		t.Errorf("expected the onnx export to map to %q, got %q", SOURCE_MODEL_NAME, got)
	}
	if got := InferenceModelName("acme/sentiment"); got != "acme/sentiment" {
		t.Errorf("expected other models to pass through, got %q", got)
	}
}

type fakeCompleter struct {
	reply string
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.reply, nil
}

func TestOpenAIClassifierParsesRatings(t *testing.T) {
	completer := &fakeCompleter{reply: "```json\n{\"ratings\":[{\"index\":1,\"stars\":3,\"confidence\":0.4},{\"index\":0,\"stars\":5,\"confidence\":0.9}]}\n```"}
	classifier := NewOpenAIClassifier(&cleaningCompleter{completer}, 0)

	results, err := classifier.Classify(context.Background(), []string{"me encanta", "ldnsfklsdnf"})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if completer.calls != 1 {
		t.Fatalf("expected one completion, got %d", completer.calls)
	}
	if results[0].Label != "5 stars" || results[1].Label != "3 stars" {
		t.Fatalf("unexpected results %+v", results)
	}
}

// cleaningCompleter mirrors clients.OpenAIClient, which cleans the reply.
type cleaningCompleter struct {
	next completer
}

func (c *cleaningCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	reply, err := c.next.Complete(ctx, system, user)
	return clients.CleanOpenAIResponse(reply), err
}

func TestParseRatingsValidation(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"not json", "five stars"},
		{"missing post", `{"ratings":[{"index":0,"stars":4}]}`},
		{"out of range index", `{"ratings":[{"index":0,"stars":4},{"index":2,"stars":4}]}`},
		{"bad stars", `{"ratings":[{"index":0,"stars":0},{"index":1,"stars":4}]}`},
	}

	for _, tt := range tests {
		if _, err := parseRatings(tt.reply, 2); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
