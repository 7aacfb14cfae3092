package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/convergex/campus-events/internal/core/domain"
)

const adminRequestsCollection = "admin_requests"

// AdminRequestRepository implements ports.AdminRequestRepository. The unique
// index on user_id enforces at-most-one request per user; Approve and Reject
// claim the PENDING state with a conditional update so that of two concurrent
// reviewers exactly one wins.
type AdminRequestRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewAdminRequestRepository(db *mongo.Database) *AdminRequestRepository {
	return &AdminRequestRepository{db: db, col: db.Collection(adminRequestsCollection)}
}

type adminRequestDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	Status      string             `bson:"status"`
	RequestedAt time.Time          `bson:"requested_at"`
	ReviewedAt  *time.Time         `bson:"reviewed_at,omitempty"`
}

func (d *adminRequestDoc) toDomain() *domain.AdminRequest {
	return &domain.AdminRequest{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Status:      domain.RequestStatus(d.Status),
		RequestedAt: d.RequestedAt,
		ReviewedAt:  d.ReviewedAt,
	}
}

func (r *AdminRequestRepository) Create(ctx context.Context, req *domain.AdminRequest) (*domain.AdminRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	userOID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := adminRequestDoc{
		UserID:      userOID,
		Status:      string(req.Status),
		RequestedAt: req.RequestedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRequestExists
		}
		return nil, fmt.Errorf("insert admin request: %w", err)
	}

	created := *req
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AdminRequestRepository) FindByID(ctx context.Context, id string) (*domain.AdminRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	var doc adminRequestDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find admin request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AdminRequestRepository) FindByUserID(ctx context.Context, userID string) (*domain.AdminRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	var doc adminRequestDoc
	if err := r.col.FindOne(ctx, bson.M{"user_id": userOID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find admin request by user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AdminRequestRepository) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.AdminRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"status": string(status)},
		options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list admin requests: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.AdminRequest
	for cur.Next(ctx) {
		var doc adminRequestDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode admin request: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

// Approve transitions the request PENDING→APPROVED and grants ROLE_ADMIN to
// its user inside one multi-document transaction. $addToSet keeps the role
// set idempotent even if the user somehow already holds the role.
func (r *AdminRequestRepository) Approve(ctx context.Context, id string) (*domain.AdminRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("approve admin request: start session: %w", err)
	}
	defer session.EndSession(ctx)

	now := time.Now().UTC()
	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		doc, err := r.transition(sc, oid, domain.RequestApproved, now)
		if err != nil {
			return nil, err
		}

		users := r.db.Collection(usersCollection)
		if _, err := users.UpdateOne(sc,
			bson.M{"_id": doc.UserID},
			bson.M{"$addToSet": bson.M{"roles": string(domain.RoleAdmin)}},
		); err != nil {
			return nil, fmt.Errorf("grant admin role: %w", err)
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*adminRequestDoc).toDomain(), nil
}

// Reject transitions the request PENDING→REJECTED. No role change, so no
// transaction is needed beyond the conditional update itself.
func (r *AdminRequestRepository) Reject(ctx context.Context, id string) (*domain.AdminRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	doc, err := r.transition(ctx, oid, domain.RequestRejected, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// transition performs the atomic PENDING-check-then-write. A request that is
// missing yields ErrRequestNotFound; one in any other state yields
// ErrRequestNotPending.
func (r *AdminRequestRepository) transition(ctx context.Context, oid primitive.ObjectID, to domain.RequestStatus, reviewedAt time.Time) (*adminRequestDoc, error) {
	var doc adminRequestDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(domain.RequestPending)},
		bson.M{"$set": bson.M{"status": string(to), "reviewed_at": reviewedAt}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return &doc, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("transition admin request: %w", err)
	}

	// Distinguish "no such request" from "lost the race / already reviewed".
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRequestNotFound
	}
	return nil, domain.ErrRequestNotPending
}

// EnsureIndexes creates the unique one-request-per-user index and the status
// listing index.
func (r *AdminRequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "requested_at", Value: 1}}},
	})
	return err
}
