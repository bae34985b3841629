package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/firebird/internal/models"
	"github.com/spacesedan/firebird/internal/utils"
)

const (
	CAMPAIGNS_TABLE_NAME        = "Campaigns"
	CAMPAIGN_TALLIES_TABLE_NAME = "CampaignTallies"

	// Tallies are kept for a week.
	TALLY_TTL = 7 * 24 * time.Hour

	unprocessedRetries = 3
)

type dynamoAPI interface {
	dynamodb.ScanAPIClient
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoCampaignStore keeps campaigns in one table keyed by id, and
// optionally per run tallies in a second table.
type DynamoCampaignStore struct {
	client       dynamoAPI
	table        string
	talliesTable string
	backoff      time.Duration
}

func NewDynamoCampaignStore(client dynamoAPI, table, talliesTable string) *DynamoCampaignStore {
	if table == "" {
		table = CAMPAIGNS_TABLE_NAME
	}
	if talliesTable == "" {
		talliesTable = CAMPAIGN_TALLIES_TABLE_NAME
	}
	return &DynamoCampaignStore{
		client:       client,
		table:        table,
		talliesTable: talliesTable,
		backoff:      500 * time.Millisecond,
	}
}

// ListCampaigns scans the whole table. An item that fails to decode is still
// returned, carrying the decode error, so one bad record does not hide the
// rest.
func (s *DynamoCampaignStore) ListCampaigns(ctx context.Context) ([]models.CampaignDocument, error) {
	var campaigns []models.CampaignDocument
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for campaigns failed: %w", err)
		}
		for _, item := range out.Items {
			campaigns = append(campaigns, decodeCampaignItem(item))
		}
	}

	slog.Info("[DynamoDB] Successfully retrieved campaigns", slog.Int("count", len(campaigns)))
	return campaigns, nil
}

func decodeCampaignItem(item map[string]types.AttributeValue) models.CampaignDocument {
	var doc models.CampaignDocument
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		slog.Warn("[DynamoDB] Unable to decode campaign item", slog.String("error", err.Error()))
		doc = models.CampaignDocument{DecodeErr: err}
		if v, ok := item["id"].(*types.AttributeValueMemberS); ok {
			doc.ID = v.Value
		}
		if v, ok := item["track"].(*types.AttributeValueMemberS); ok {
			doc.Track = aws.String(v.Value)
		}
		if v, ok := item["isActive"].(*types.AttributeValueMemberBOOL); ok {
			doc.IsActive = aws.Bool(v.Value)
		}
		return doc
	}
	return doc
}

func (s *DynamoCampaignStore) UpdateCampaign(ctx context.Context, id string, update models.CampaignUpdate) error {
	if update.IsActive == nil {
		return nil
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
		UpdateExpression:    aws.String("SET isActive = :active"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: *update.IsActive},
		},
	})
	if err != nil {
		var conditionErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return fmt.Errorf("[DynamoDB] %w: %s", ErrCampaignNotFound, id)
		}
		return fmt.Errorf("[DynamoDB] Failed to update campaign %s: %w", id, err)
	}

	slog.Info("[DynamoDB] Campaign updated",
		slog.String("id", id),
		slog.Bool("is_active", *update.IsActive))
	return nil
}

// PutCampaigns batch writes campaigns, retrying unprocessed items.
func (s *DynamoCampaignStore) PutCampaigns(ctx context.Context, campaigns []models.Campaign) error {
	for _, batch := range utils.Chunk(campaigns, utils.DYNAMODB_BATCH_SIZE) {
		if err := ctx.Err(); err != nil {
			slog.Warn("[DynamoDB] context canceled")
			return err
		}

		writeRequests := make([]types.WriteRequest, 0, len(batch))
		for _, campaign := range batch {
			item, err := attributevalue.MarshalMap(campaign.Document())
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to marshal campaign %s: %w", campaign.ID, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.table: writeRequests},
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Failed to batch write campaigns: %w", err)
		}

		retryCount := 0
		backoff := s.backoff
		for len(out.UnprocessedItems) > 0 && retryCount < unprocessedRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			slog.Warn("[DynamoDB] Retrying unprocessed items...",
				slog.Int("retry_attempt", retryCount+1),
				slog.Int("remaining_items", len(out.UnprocessedItems[s.table])))

			out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: out.UnprocessedItems,
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to retry batch write: %w", err)
			}
			retryCount++
		}

		if remaining := len(out.UnprocessedItems[s.table]); remaining > 0 {
			return fmt.Errorf("[DynamoDB] %d campaigns were not written after retries", remaining)
		}
	}

	slog.Info("[DynamoDB] Successfully stored campaigns", slog.Int("count", len(campaigns)))
	return nil
}

// StoreCampaignTally records one run's tally for a campaign. Campaign
// records themselves are never touched.
func (s *DynamoCampaignStore) StoreCampaignTally(ctx context.Context, report models.CampaignReport) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.talliesTable),
		Item:      TallyToDynamoDBItem(report),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to store tally for campaign %s: %w", report.CampaignID, err)
	}
	return nil
}

func TallyToDynamoDBItem(report models.CampaignReport) map[string]types.AttributeValue {
	number := func(n int64) types.AttributeValue {
		return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
	}

	item := map[string]types.AttributeValue{
		"campaign_id":  &types.AttributeValueMemberS{Value: report.CampaignID},
		"run_id":       &types.AttributeValueMemberS{Value: report.RunID},
		"track":        &types.AttributeValueMemberS{Value: report.Track},
		"positive":     number(int64(report.Tally.Positive)),
		"negative":     number(int64(report.Tally.Negative)),
		"neutral":      number(int64(report.Tally.Neutral)),
		"post_count":   number(int64(report.PostCount)),
		"evaluated_at": number(report.EvaluatedAt.Unix()),
		"ttl":          number(report.EvaluatedAt.Add(TALLY_TTL).Unix()),
	}
	return item
}

func (s *DynamoCampaignStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	if err != nil {
		return fmt.Errorf("[DynamoDB] table %s is not reachable: %w", s.table, err)
	}
	return nil
}
