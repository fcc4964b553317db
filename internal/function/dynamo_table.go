package function

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

// DynamoAPI is the part of the DynamoDB client the table uses.
type DynamoAPI interface {
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoTable is a DynamoDB table keyed by the string attribute "id".
type DynamoTable struct {
	client DynamoAPI
}

func NewDynamoTable(client DynamoAPI) *DynamoTable {
	return &DynamoTable{client: client}
}

// OpenDynamoTable builds a client from the default credential chain.
func OpenDynamoTable(ctx context.Context, region string) (*DynamoTable, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewDynamoTable(dynamodb.NewFromConfig(cfg)), nil
}

func (t *DynamoTable) Scan(ctx context.Context, table, startKey string, limit int) (Page, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(table)}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}
	if startKey != "" {
		in.ExclusiveStartKey = key(startKey)
	}

	out, err := t.client.Scan(ctx, in)
	if err != nil {
		return Page{}, err
	}

	var docs []map[string]interface{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &docs); err != nil {
		return Page{}, fmt.Errorf("unmarshal items: %w", err)
	}
	page := Page{Items: make([]json.RawMessage, 0, len(docs))}
	for _, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return Page{}, fmt.Errorf("encode item: %w", err)
		}
		page.Items = append(page.Items, raw)
	}
	if id, ok := out.LastEvaluatedKey["id"].(*types.AttributeValueMemberS); ok {
		page.LastKey = id.Value
	}
	return page, nil
}

func (t *DynamoTable) Put(ctx context.Context, table string, item model.Task) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	return err
}

func (t *DynamoTable) SetCompleted(ctx context.Context, table, id string, completed bool) error {
	_, err := t.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(table),
		Key:              key(id),
		UpdateExpression: aws.String("SET completed = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberBOOL{Value: completed},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	return err
}

func (t *DynamoTable) Delete(ctx context.Context, table, id string) error {
	_, err := t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       key(id),
	})
	return err
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
