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

	"github.com/multidisease/platform-api/internal/core/domain"
)

const usersCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

// mongoRoleAssignment is embedded in the user document so a single read
// returns the user together with its roles.
type mongoRoleAssignment struct {
	Role       string     `bson:"role"`
	AssignedAt time.Time  `bson:"assigned_at"`
	ExpiresAt  *time.Time `bson:"expires_at,omitempty"`
	RevokedAt  *time.Time `bson:"revoked_at,omitempty"`
}

type mongoUser struct {
	ID           primitive.ObjectID    `bson:"_id,omitempty"`
	Email        string                `bson:"email"`
	PasswordHash string                `bson:"password_hash"`
	FirstName    string                `bson:"first_name,omitempty"`
	LastName     string                `bson:"last_name,omitempty"`
	IsActive     bool                  `bson:"is_active"`
	Roles        []mongoRoleAssignment `bson:"roles"`
	CreatedAt    time.Time             `bson:"created_at"`
	UpdatedAt    time.Time             `bson:"updated_at"`
}

// EnsureIndexes creates the unique email index.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	doc.ID = primitive.NilObjectID

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return fromMongoUser(doc), nil
}

func (r *MongoUserRepository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromMongoUser(mu), nil
}

func toMongoUser(u *domain.User) mongoUser {
	roles := make([]mongoRoleAssignment, len(u.Roles))
	for i, a := range u.Roles {
		roles[i] = mongoRoleAssignment{
			Role:       string(a.Role),
			AssignedAt: a.AssignedAt,
			ExpiresAt:  a.ExpiresAt,
			RevokedAt:  a.RevokedAt,
		}
	}
	return mongoUser{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsActive:     u.IsActive,
		Roles:        roles,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// fromMongoUser keeps stored role names as they are; the identity loader
// decides what to do with names outside the enumeration.
func fromMongoUser(mu mongoUser) *domain.User {
	roles := make([]domain.RoleAssignment, len(mu.Roles))
	for i, a := range mu.Roles {
		role := domain.Role(a.Role)
		if parsed, ok := domain.ParseRole(a.Role); ok {
			role = parsed
		}
		roles[i] = domain.RoleAssignment{
			Role:       role,
			AssignedAt: a.AssignedAt,
			ExpiresAt:  a.ExpiresAt,
			RevokedAt:  a.RevokedAt,
		}
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		IsActive:     mu.IsActive,
		Roles:        roles,
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
}
