package reporting

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/spacesedan/firebird/internal/models"
)

type Encoding string

const (
	EncodingJSON     Encoding = "json"
	EncodingProtobuf Encoding = "protobuf"
)

func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(strings.TrimSpace(s))) {
	case "", EncodingJSON:
		return EncodingJSON, nil
	case EncodingProtobuf:
		return EncodingProtobuf, nil
	default:
		return "", fmt.Errorf("unknown report encoding %q (want json or protobuf)", s)
	}
}

// EncodeReport serializes a report. The protobuf form is a
// google.protobuf.Struct with the same field names as the JSON form.
func EncodeReport(report models.CampaignReport, encoding Encoding) ([]byte, error) {
	switch encoding {
	case EncodingProtobuf:
		msg, err := structpb.NewStruct(reportFields(report))
		if err != nil {
			return nil, fmt.Errorf("[Reporting] failed to build report struct: %w", err)
		}
		return proto.Marshal(msg)
	default:
		return json.Marshal(report)
	}
}

func reportFields(report models.CampaignReport) map[string]interface{} {
	fields := map[string]interface{}{
		"run_id":      report.RunID,
		"campaign_id": report.CampaignID,
		"track":       report.Track,
		"status":      string(report.Status),
		"tally": map[string]interface{}{
			"positive": report.Tally.Positive,
			"negative": report.Tally.Negative,
			"neutral":  report.Tally.Neutral,
		},
		"post_count":   report.PostCount,
		"evaluated_at": report.EvaluatedAt.UTC().Format(time.RFC3339Nano),
	}
	if report.ErrorKind != "" {
		fields["error_kind"] = report.ErrorKind
		fields["error"] = report.Error
	}
	return fields
}
