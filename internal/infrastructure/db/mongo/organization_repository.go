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
	"github.com/multidisease/platform-api/internal/core/ports"
)

const collectionOrganizations = "organizations"

type OrganizationRepository struct {
	col *mongo.Collection
}

func NewOrganizationRepository(db *mongo.Database) *OrganizationRepository {
	return &OrganizationRepository{col: db.Collection(collectionOrganizations)}
}

type mongoOrganization struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Type          string             `bson:"type"`
	Address       bson.M             `bson:"address"`
	Phone         string             `bson:"phone,omitempty"`
	Email         string             `bson:"email,omitempty"`
	Website       string             `bson:"website,omitempty"`
	ServiceDeskID string             `bson:"service_desk_id,omitempty"`
	IsActive      bool               `bson:"is_active"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

// Create inserts a new organization document.
func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) (*domain.Organization, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoOrganization{
		Name:          org.Name,
		Type:          string(org.Type),
		Address:       bson.M(org.Address),
		Phone:         org.Phone,
		Email:         org.Email,
		Website:       org.Website,
		ServiceDeskID: org.ServiceDeskID,
		IsActive:      org.IsActive,
		CreatedAt:     org.CreatedAt,
		UpdatedAt:     org.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return fromMongoOrganization(doc), nil
}

// FindByID retrieves an organization by its hex object id.
func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*domain.Organization, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrganizationNotFound
	}

	var doc mongoOrganization
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return fromMongoOrganization(doc), nil
}

// Update applies the non-nil fields of update and returns the new document.
func (r *OrganizationRepository) Update(ctx context.Context, id string, update ports.OrganizationUpdate) (*domain.Organization, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrganizationNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Address != nil {
		set["address"] = bson.M(update.Address)
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Website != nil {
		set["website"] = *update.Website
	}
	if update.ServiceDeskID != nil {
		set["service_desk_id"] = *update.ServiceDeskID
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoOrganization
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return fromMongoOrganization(doc), nil
}

// List returns one page of organizations sorted by name, plus the total count.
func (r *OrganizationRepository) List(ctx context.Context, filter ports.ListOrganizationsFilter) ([]*domain.Organization, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count organizations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find organizations: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoOrganization
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode organizations: %w", err)
	}

	out := make([]*domain.Organization, len(docs))
	for i, d := range docs {
		out[i] = fromMongoOrganization(d)
	}
	return out, total, nil
}

// EnsureIndexes creates necessary indexes on the organizations collection.
func (r *OrganizationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "service_desk_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func fromMongoOrganization(d mongoOrganization) *domain.Organization {
	return &domain.Organization{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Type:          domain.OrganizationType(d.Type),
		Address:       map[string]any(d.Address),
		Phone:         d.Phone,
		Email:         d.Email,
		Website:       d.Website,
		ServiceDeskID: d.ServiceDeskID,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}
