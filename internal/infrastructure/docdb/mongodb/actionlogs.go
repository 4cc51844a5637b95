// Package mongodb provides the action logs collection implementation.
package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unifiedui/variables-service/internal/core/docdb"
	"github.com/unifiedui/variables-service/internal/domain/models"
)

const (
	// ActionLogsCollectionName is the name of the action logs collection.
	ActionLogsCollectionName = "action_logs"
)

// filterColumn describes how a search column maps onto a document field.
type filterColumn struct {
	field     string
	substring bool
}

// filterColumns lists the searchable columns. Name-like columns match
// case-insensitive substrings, enum-like columns match exactly.
var filterColumns = map[string]filterColumn{
	"operation":  {field: "operation"},
	"entityType": {field: "entityType"},
	"parentType": {field: "parentType"},
	"entityName": {field: "entityName", substring: true},
	"parentName": {field: "parentName", substring: true},
	"username":   {field: "user.username", substring: true},
	"userId":     {field: "user.id"},
	"requestId":  {field: "requestId"},
}

// ActionLogsCollection implements the docdb.ActionLogsCollection interface for MongoDB.
type ActionLogsCollection struct {
	collection *mongo.Collection
}

// NewActionLogsCollection creates a new action logs collection wrapper.
func NewActionLogsCollection(db *mongo.Database) *ActionLogsCollection {
	return &ActionLogsCollection{
		collection: db.Collection(ActionLogsCollectionName),
	}
}

// SaveBatch inserts all entries with a single unordered InsertMany.
func (c *ActionLogsCollection) SaveBatch(ctx context.Context, logs []models.ActionLog) error {
	if len(logs) == 0 {
		return nil
	}

	docs := make([]interface{}, len(logs))
	for i := range logs {
		docs[i] = logs[i]
	}

	_, err := c.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to insert action logs: %w", err)
	}
	return nil
}

// Find returns entries in the requested time window, newest first.
func (c *ActionLogsCollection) Find(ctx context.Context, opts *docdb.FindActionLogsOptions) ([]models.ActionLog, error) {
	if opts == nil {
		opts = &docdb.FindActionLogsOptions{}
	}

	filter, err := buildFilter(opts.Filters)
	if err != nil {
		return nil, err
	}
	window := bson.M{}
	if !opts.From.IsZero() {
		window["$gte"] = opts.From
	}
	if !opts.To.IsZero() {
		window["$lte"] = opts.To
	}
	if len(window) > 0 {
		filter["actionTime"] = window
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "actionTime", Value: -1}})
	cursor, err := c.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find action logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := []models.ActionLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode action logs: %w", err)
	}
	return logs, nil
}

// CountOlderThan counts matching entries with actionTime before t.
func (c *ActionLogsCollection) CountOlderThan(ctx context.Context, t time.Time, filters []models.ActionLogFilter) (int64, error) {
	filter, err := buildFilter(filters)
	if err != nil {
		return 0, err
	}
	filter["actionTime"] = bson.M{"$lt": t}

	count, err := c.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count action logs: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes entries with actionTime before t.
func (c *ActionLogsCollection) DeleteOlderThan(ctx context.Context, t time.Time) (int64, error) {
	result, err := c.collection.DeleteMany(ctx, bson.M{"actionTime": bson.M{"$lt": t}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete action logs: %w", err)
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates necessary indexes for the action logs collection.
func (c *ActionLogsCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Time window queries and retention cleanup
		{
			Keys:    bson.D{{Key: "actionTime", Value: -1}},
			Options: options.Index().SetName("idx_action_time"),
		},
		{
			Keys: bson.D{
				{Key: "entityType", Value: 1},
				{Key: "actionTime", Value: -1},
			},
			Options: options.Index().SetName("idx_entity_type_action_time"),
		},
		{
			Keys:    bson.D{{Key: "requestId", Value: 1}},
			Options: options.Index().SetName("idx_request_id").SetSparse(true),
		},
	}

	_, err := c.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create action logs indexes: %w", err)
	}

	return nil
}

// buildFilter creates a MongoDB filter from search filters. Filters on the
// same column are OR-ed, different columns are AND-ed.
func buildFilter(filters []models.ActionLogFilter) (bson.M, error) {
	filter := bson.M{}
	byField := map[string][]interface{}{}
	var order []string

	for _, f := range filters {
		col, ok := filterColumns[f.Column]
		if !ok {
			return nil, fmt.Errorf("%w: %s", docdb.ErrUnknownFilterColumn, f.Column)
		}
		var cond interface{} = f.Value
		if col.substring {
			cond = bson.M{"$regex": regexp.QuoteMeta(f.Value), "$options": "i"}
		}
		if _, seen := byField[col.field]; !seen {
			order = append(order, col.field)
		}
		byField[col.field] = append(byField[col.field], cond)
	}

	var ors []interface{}
	for _, field := range order {
		conds := byField[field]
		if len(conds) == 1 {
			filter[field] = conds[0]
			continue
		}
		alts := make(bson.A, 0, len(conds))
		for _, cond := range conds {
			alts = append(alts, bson.M{field: cond})
		}
		ors = append(ors, bson.M{"$or": alts})
	}
	if len(ors) > 0 {
		filter["$and"] = ors
	}

	return filter, nil
}

var _ docdb.ActionLogsCollection = (*ActionLogsCollection)(nil)
