package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/gigboard/internal/domain/models"
)

const weeklyReportsCollection = "weekly_reports"

// Repository defines the interface for report storage.
type Repository interface {
	SaveWeeklyReport(ctx context.Context, report models.WeeklyReport) error
	LatestWeeklyReports(ctx context.Context, limit int64) ([]models.WeeklyReport, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return newRepository(client, dbName, weeklyReportsCollection), nil
}

func newRepository(client *mongo.Client, dbName, collName string) *MongoDBRepository {
	return &MongoDBRepository{client: client, dbName: dbName, collName: collName}
}

// SaveWeeklyReport archives a weekly report.
func (r *MongoDBRepository) SaveWeeklyReport(ctx context.Context, report models.WeeklyReport) error {
	_, err := r.collection().InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert weekly report: %w", err)
	}
	return nil
}

// LatestWeeklyReports returns up to limit reports, newest period first.
func (r *MongoDBRepository) LatestWeeklyReports(ctx context.Context, limit int64) ([]models.WeeklyReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "period_end", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly reports: %w", err)
	}

	var reports []models.WeeklyReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode weekly reports: %w", err)
	}
	return reports, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}
