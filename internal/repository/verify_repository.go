package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VerifyRepository interface {
	// UpsertPending stages a registration attempt, replacing any prior
	// attempt for the same email (last write wins).
	UpsertPending(ctx context.Context, pending *domain.PendingRegistration) error
	FindPending(ctx context.Context, email string) (*domain.PendingRegistration, error)
	RotateCode(ctx context.Context, email, code string, expiresAt time.Time) error
	// DeletePending removes the pending record and reports whether this call
	// was the one that removed it. Finalization proceeds only on true, so
	// concurrent verifications have a single winner.
	DeletePending(ctx context.Context, email string) (bool, error)
}

type verifyRepository struct {
	coll *mongo.Collection
}

func NewVerifyRepository(coll *mongo.Collection) VerifyRepository {
	return &verifyRepository{coll: coll}
}

func (r *verifyRepository) UpsertPending(ctx context.Context, pending *domain.PendingRegistration) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": pending.Email},
		pending,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *verifyRepository) FindPending(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.PendingRegistration
	err := r.coll.FindOne(ctx, bson.M{"_id": email}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *verifyRepository) RotateCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": email},
		bson.M{"$set": bson.M{"code": code, "expires_at": expiresAt}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNoPendingRegistration
	}
	return nil
}

func (r *verifyRepository) DeletePending(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": email})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}
