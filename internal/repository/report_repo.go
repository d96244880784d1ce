package repository

import (
	"context"
	"fmt"
	"time"

	"csvinsights/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ReportRepo handles MongoDB operations for reports
type ReportRepo interface {
	Create(ctx context.Context, report *model.Report) (string, error)
	GetByID(ctx context.Context, id string) (*model.Report, error)
	ListRecent(ctx context.Context, limit int) ([]model.ReportSummary, error)
	// AddFollowup prepends f and keeps the newest keep entries. It reports
	// false when no report has the id.
	AddFollowup(ctx context.Context, id string, f model.Followup, keep int) (bool, error)
	Ping(ctx context.Context) error
}

type reportRepo struct {
	collection *mongo.Collection
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{
		collection: db.Collection("reports"),
	}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) (string, error) {
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = report.CreatedAt
	if report.Followups == nil {
		report.Followups = []model.Followup{}
	}

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return "", err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid.Hex()
	}
	return report.ID, nil
}

func (r *reportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("report id %q: %w", id, err)
	}

	var report model.Report
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) ListRecent(ctx context.Context, limit int) ([]model.ReportSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"fileName": 1, "rowCount": 1, "columnCount": 1, "createdAt": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []model.ReportSummary{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) AddFollowup(ctx context.Context, id string, f model.Followup, keep int) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("report id %q: %w", id, err)
	}

	update := bson.M{
		"$push": bson.M{
			"followups": bson.M{
				"$each":     []model.Followup{f},
				"$position": 0,
				"$slice":    keep,
			},
		},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *reportRepo) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}
