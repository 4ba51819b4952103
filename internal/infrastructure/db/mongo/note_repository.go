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

const notesCollection = "notes"

// NoteRepository persists notes. Every query filters by tenant_id, so a note
// id from another tenant behaves exactly like a missing note.
type NoteRepository struct {
	coll *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{coll: db.Collection(notesCollection)}
}

type noteDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	TenantID  primitive.ObjectID `bson:"tenant_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`

	// Author is populated by the $lookup stage in aggregation reads.
	Author []userDoc `bson:"author,omitempty"`
}

func (d noteDoc) toDomain() *domain.Note {
	note := &domain.Note{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		TenantID:  d.TenantID.Hex(),
		UserID:    d.UserID.Hex(),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if len(d.Author) > 0 {
		note.AuthorEmail = d.Author[0].Email
	}
	return note
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tenantID, err := primitive.ObjectIDFromHex(note.TenantID)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}
	userID, err := primitive.ObjectIDFromHex(note.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now().UTC()
	doc := noteDoc{
		Title:     note.Title,
		Content:   note.Content,
		TenantID:  tenantID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// ListByTenant returns the tenant's notes newest first. Author emails are
// joined in with a $lookup against the users collection.
func (r *NoteRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}

	pipeline := append(
		mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.M{"tenant_id": oid}}},
			bson.D{{Key: "$sort", Value: bson.M{"created_at": -1}}},
		},
		authorLookupStage(),
	)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := make([]*domain.Note, 0)
	for cursor.Next(ctx) {
		var doc noteDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode note: %w", err)
		}
		notes = append(notes, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) FindByID(ctx context.Context, tenantID, noteID string) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := scopedFilter(tenantID, noteID)
	if err != nil {
		return nil, err
	}

	pipeline := append(
		mongo.Pipeline{bson.D{{Key: "$match", Value: filter}}},
		authorLookupStage(),
	)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find note: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("find note: %w", err)
		}
		return nil, domain.ErrNoteNotFound
	}

	var doc noteDoc
	if err := cursor.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode note: %w", err)
	}
	return doc.toDomain(), nil
}

// Update applies the non-empty patch fields and returns the updated note.
func (r *NoteRepository) Update(ctx context.Context, tenantID, noteID string, patch domain.NotePatch) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := scopedFilter(tenantID, noteID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != "" {
		set["title"] = patch.Title
	}
	if patch.Content != "" {
		set["content"] = patch.Content
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc noteDoc
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("update note: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *NoteRepository) Delete(ctx context.Context, tenantID, noteID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := scopedFilter(tenantID, noteID)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return 0, domain.ErrTenantNotFound
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"tenant_id": oid})
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the tenant scoping index.
func (r *NoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// scopedFilter builds the {_id, tenant_id} filter shared by all single-note
// operations. A malformed note id maps to ErrNoteNotFound: indistinguishable
// from a note that does not exist.
func scopedFilter(tenantID, noteID string) (bson.M, error) {
	tid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}
	nid, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return nil, domain.ErrNoteNotFound
	}
	return bson.M{"_id": nid, "tenant_id": tid}, nil
}

func authorLookupStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         usersCollection,
		"localField":   "user_id",
		"foreignField": "_id",
		"as":           "author",
	}}}
}
