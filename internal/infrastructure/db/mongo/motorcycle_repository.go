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

	"github.com/delivery-system/ms-delivery/internal/core/domain"
	"github.com/delivery-system/ms-delivery/internal/core/ports"
)

const collectionMotorcycles = "motorcycles"

// MotorcycleRepository implements ports.MotorcycleRepository using MongoDB.
type MotorcycleRepository struct {
	col *mongo.Collection
}

func NewMotorcycleRepository(db *mongo.Database) *MotorcycleRepository {
	return &MotorcycleRepository{col: db.Collection(collectionMotorcycles)}
}

type mongoMotorcycle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	LicensePlate string             `bson:"license_plate"`
	Brand        string             `bson:"brand"`
	Year         int                `bson:"year"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (m mongoMotorcycle) toDomain() *domain.Motorcycle {
	return &domain.Motorcycle{
		ID:           m.ID.Hex(),
		LicensePlate: m.LicensePlate,
		Brand:        m.Brand,
		Year:         m.Year,
		Status:       domain.MotorcycleStatus(m.Status),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

// Create inserts a new motorcycle document.
func (r *MotorcycleRepository) Create(ctx context.Context, m *domain.Motorcycle) (*domain.Motorcycle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoMotorcycle{
		ID:           primitive.NewObjectID(),
		LicensePlate: m.LicensePlate,
		Brand:        m.Brand,
		Year:         m.Year,
		Status:       string(m.Status),
		CreatedAt:    m.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicatePlate
		}
		return nil, fmt.Errorf("insert motorcycle: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a motorcycle by its hex object id.
func (r *MotorcycleRepository) FindByID(ctx context.Context, id string) (*domain.Motorcycle, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMotorcycleNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByPlate retrieves a motorcycle by license plate.
func (r *MotorcycleRepository) FindByPlate(ctx context.Context, plate string) (*domain.Motorcycle, error) {
	return r.findOne(ctx, bson.M{"license_plate": plate})
}

func (r *MotorcycleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Motorcycle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoMotorcycle
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMotorcycleNotFound
		}
		return nil, fmt.Errorf("find motorcycle: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns every motorcycle ordered by creation time.
func (r *MotorcycleRepository) List(ctx context.Context) ([]*domain.Motorcycle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list motorcycles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoMotorcycle
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode motorcycles: %w", err)
	}

	out := make([]*domain.Motorcycle, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update applies a partial update and returns the resulting document.
func (r *MotorcycleRepository) Update(ctx context.Context, id string, upd ports.MotorcycleUpdate) (*domain.Motorcycle, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMotorcycleNotFound
	}

	set := updateDocument(upd)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoMotorcycle
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrMotorcycleNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrDuplicatePlate
		}
		return nil, fmt.Errorf("update motorcycle: %w", err)
	}
	return doc.toDomain(), nil
}

// updateDocument maps the non-nil fields of upd to their bson names.
func updateDocument(upd ports.MotorcycleUpdate) bson.M {
	set := bson.M{}
	if upd.LicensePlate != nil {
		set["license_plate"] = *upd.LicensePlate
	}
	if upd.Brand != nil {
		set["brand"] = *upd.Brand
	}
	if upd.Year != nil {
		set["year"] = *upd.Year
	}
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}
	return set
}

// Delete removes a motorcycle by id.
func (r *MotorcycleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrMotorcycleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete motorcycle: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMotorcycleNotFound
	}
	return nil
}

// EnsureIndexes creates the unique license plate index.
func (r *MotorcycleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "license_plate", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
