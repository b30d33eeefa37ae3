package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epicevents/crm/internal/core/domain"
)

type mongoRole struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
}

func (d mongoRole) toDomain() *domain.Role {
	return &domain.Role{ID: hexOrEmpty(d.ID), Name: d.Name, Description: d.Description}
}

// RoleRepository implements ports.RoleRepository using MongoDB.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(collectionRoles)}
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var doc mongoRole
	if err := findOne(ctx, r.coll, bson.M{"name": name}, &doc, domain.ErrRoleNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	oid, err := insert(ctx, r.coll, mongoRole{Name: role.Name, Description: role.Description}, domain.ErrRoleExists)
	if err != nil {
		return err
	}
	role.ID = oid.Hex()
	return nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	docs, err := findAll[mongoRole](ctx, r.coll, bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Role, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeNumber int                `bson:"employee_number"`
	FullName       string             `bson:"full_name"`
	Email          string             `bson:"email"`
	Department     string             `bson:"department"`
	PasswordHash   string             `bson:"password_hash"`
	Role           mongoRole          `bson:"role"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
}

func userDoc(u *domain.User) (mongoUser, error) {
	doc := mongoUser{
		EmployeeNumber: u.EmployeeNumber,
		FullName:       u.FullName,
		Email:          u.Email,
		Department:     u.Department,
		PasswordHash:   u.PasswordHash,
		Role:           mongoRole{Name: u.Role.Name, Description: u.Role.Description},
		CreatedAt:      u.CreatedAt.Unix(),
		UpdatedAt:      u.UpdatedAt.Unix(),
	}
	if u.Role.ID != "" {
		oid, err := primitive.ObjectIDFromHex(u.Role.ID)
		if err != nil {
			return mongoUser{}, fmt.Errorf("user role id: %w", err)
		}
		doc.Role.ID = oid
	}
	return doc, nil
}

func (d mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:             d.ID.Hex(),
		EmployeeNumber: d.EmployeeNumber,
		FullName:       d.FullName,
		Email:          d.Email,
		Department:     d.Department,
		PasswordHash:   d.PasswordHash,
		Role:           *d.Role.toDomain(),
		CreatedAt:      unixToTime(d.CreatedAt),
		UpdatedAt:      unixToTime(d.UpdatedAt),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	doc, err := userDoc(user)
	if err != nil {
		return err
	}
	oid, err := insert(ctx, r.coll, doc, domain.ErrUserExists)
	if err != nil {
		return err
	}
	user.ID = oid.Hex()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	var doc mongoUser
	if err := findOne(ctx, r.coll, bson.M{"_id": oid}, &doc, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc mongoUser
	if err := findOne(ctx, r.coll, bson.M{"email": email}, &doc, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	docs, err := findAll[mongoUser](ctx, r.coll, bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := parseID(user.ID, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	doc, err := userDoc(user)
	if err != nil {
		return err
	}
	return replace(ctx, r.coll, oid, doc, domain.ErrUserNotFound, domain.ErrUserExists)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, domain.ErrUserNotFound)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}
