package store

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/harmonycheck/model"
)

// Dynamo stores each report as one item keyed by PK, the report JSON in
// the Report attribute.
type Dynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

// NewDynamo connects to DynamoDB. An empty endpoint uses the AWS default
// for the region; set it to http://localhost:8000 for DynamoDB Local.
func NewDynamo(endpoint, region, table string) (*Dynamo, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a DynamoDB session: %w", err)
	}
	return &Dynamo{client: dynamodb.New(sess), table: table}, nil
}

func (d *Dynamo) Get(id string) (*model.StoredReport, bool, error) {
	out, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("error from DynamoDB: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}
	attr, ok := out.Item["Report"]
	if !ok || attr.S == nil {
		return nil, false, fmt.Errorf("report %s has no Report attribute", id)
	}

	var r model.StoredReport
	if err := json.Unmarshal([]byte(*attr.S), &r); err != nil {
		return nil, false, err
	}
	return &r, true, nil
}

func (d *Dynamo) Put(id string, r model.StoredReport) error {
	r.ID = id
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item: map[string]*dynamodb.AttributeValue{
			"PK":     {S: aws.String(id)},
			"Source": {S: aws.String(r.Source)},
			"Report": {S: aws.String(string(data))},
		},
	})
	if err != nil {
		return fmt.Errorf("error from DynamoDB: %w", err)
	}
	return nil
}

// Count scans the table, following pagination.
func (d *Dynamo) Count() (int, error) {
	var total int64
	input := &dynamodb.ScanInput{
		TableName: aws.String(d.table),
		Select:    aws.String(dynamodb.SelectCount),
	}
	for {
		out, err := d.client.Scan(input)
		if err != nil {
			return 0, fmt.Errorf("error from DynamoDB: %w", err)
		}
		total += aws.Int64Value(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return int(total), nil
}

func (d *Dynamo) Close() error {
	return nil
}
