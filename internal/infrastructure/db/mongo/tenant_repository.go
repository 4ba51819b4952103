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

	"github.com/notably/notes-saas/internal/core/domain"
)

const tenantsCollection = "tenants"

// TenantRepository persists tenants, keyed by ObjectID with a unique slug.
type TenantRepository struct {
	coll *mongo.Collection
}

func NewTenantRepository(db *mongo.Database) *TenantRepository {
	return &TenantRepository{coll: db.Collection(tenantsCollection)}
}

type tenantDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Slug string             `bson:"slug"`
	Name string             `bson:"name"`
	Plan string             `bson:"plan"`
}

func (d tenantDoc) toDomain() *domain.Tenant {
	return &domain.Tenant{
		ID:   d.ID.Hex(),
		Slug: d.Slug,
		Name: d.Name,
		Plan: domain.ParsePlan(d.Plan),
	}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := tenantDoc{
		Slug: tenant.Slug,
		Name: tenant.Name,
		Plan: string(tenant.Plan),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrTenantExists
		}
		return nil, fmt.Errorf("insert tenant: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *TenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *TenantRepository) FindBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *TenantRepository) findOne(ctx context.Context, filter bson.M) (*domain.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tenantDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TenantRepository) UpdatePlan(ctx context.Context, id string, plan domain.Plan) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTenantNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"plan": string(plan)}})
	if err != nil {
		return fmt.Errorf("update tenant plan: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

// EnsureIndexes creates the unique slug index.
func (r *TenantRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
