package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greeneye/models"
)

// alertLog keeps an audit trail of outbound alerts.
type alertLog interface {
	Record(ctx context.Context, rec models.AlertRecord) error
	Recent(ctx context.Context, n int64) ([]models.AlertRecord, error)
	Close(ctx context.Context) error
}

type mongoAlertLog struct {
	client *mongo.Client
	alerts *mongo.Collection
}

func newMongoAlertLog(ctx context.Context, uri, dbName string) (*mongoAlertLog, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	l := &mongoAlertLog{
		client: client,
		alerts: client.Database(dbName).Collection("alerts"),
	}
	if _, err := l.alerts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sentAt", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return l, nil
}

func (l *mongoAlertLog) Record(ctx context.Context, rec models.AlertRecord) error {
	_, err := l.alerts.InsertOne(ctx, &rec)
	return err
}

// Recent returns the newest n records, newest first.
func (l *mongoAlertLog) Recent(ctx context.Context, n int64) ([]models.AlertRecord, error) {
	cur, err := l.alerts.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "sentAt", Value: -1}}).
		SetLimit(n))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.AlertRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *mongoAlertLog) Close(ctx context.Context) error { return l.client.Disconnect(ctx) }

// nopAlertLog is used when no database is configured.
type nopAlertLog struct{}

func (nopAlertLog) Record(context.Context, models.AlertRecord) error { return nil }

func (nopAlertLog) Recent(context.Context, int64) ([]models.AlertRecord, error) {
	return []models.AlertRecord{}, nil
}

func (nopAlertLog) Close(context.Context) error { return nil }
