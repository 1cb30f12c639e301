package repository

import (
	"context"
	"time"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReferralRepository interface {
	Insert(ctx context.Context, referral *domain.Referral) error
	ListByReferralID(ctx context.Context, referralID string) ([]domain.Referral, error)
	// UpdateStatus reports whether a referral was actually modified.
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
}

type referralRepository struct {
	coll *mongo.Collection
}

func NewReferralRepository(coll *mongo.Collection) ReferralRepository {
	return &referralRepository{coll: coll}
}

func (r *referralRepository) Insert(ctx context.Context, referral *domain.Referral) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, referral)
	return err
}

func (r *referralRepository) ListByReferralID(ctx context.Context, referralID string) ([]domain.Referral, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"referral_id": referralID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var referrals []domain.Referral
	if err := cur.All(ctx, &referrals); err != nil {
		return nil, err
	}
	return referrals, nil
}

func (r *referralRepository) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}
