package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openadmit/auth-service/internal/domain"
)

const usersCollection = "users"

// UserStore is the document-backed implementation of the auth.UserStore port.
// Usernames and emails are stored lowercase; EnsureIndexes installs the
// unique indexes that make concurrent duplicate signups safe.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique indexes on username and email.
// Call once at startup, before serving traffic.
func (r *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return domain.ErrStoreUnavailable(err)
	}
	return nil
}

type userDoc struct {
	ID           string    `bson:"_id"`
	FullName     string    `bson:"fullName"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	Phone        string    `bson:"phone"`
	PasswordHash string    `bson:"password"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func toDoc(u domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		FullName:     u.FullName,
		Username:     u.Username,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toDomain(d userDoc) domain.User {
	return domain.User{
		ID:           d.ID,
		FullName:     d.FullName,
		Username:     d.Username,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (r *UserStore) findOne(ctx context.Context, filter bson.D) (domain.User, error) {
	var d userDoc
	err := r.coll.FindOne(ctx, filter).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrStoreUnavailable(err)
	}
	return toDomain(d), nil
}

// ---------- auth.UserStore ----------

func (r *UserStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = domain.NormalizeKey(username)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *UserStore) GetByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	username = domain.NormalizeKey(username)
	email = domain.NormalizeKey(email)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "email", Value: email}},
	}}}
	return r.findOne(ctx, filter)
}

func (r *UserStore) GetByUsernameAndEmail(ctx context.Context, username, email string) (domain.User, error) {
	username = domain.NormalizeKey(username)
	email = domain.NormalizeKey(email)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	filter := bson.D{
		{Key: "username", Value: username},
		{Key: "email", Value: email},
	}
	return r.findOne(ctx, filter)
}

func (r *UserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Username = domain.NormalizeKey(u.Username)
	u.Email = domain.NormalizeKey(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	if u.Role == "" {
		u.Role = string(domain.RoleUser)
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, toDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, domain.ErrAccountConflict()
		}
		return domain.User{}, domain.ErrStoreUnavailable(err)
	}
	return u, nil
}

func (r *UserStore) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if newHash == "" {
		return domain.ErrMissingField("password")
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "password", Value: newHash},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	)
	if err != nil {
		return domain.ErrStoreUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// DeleteAll wipes every user. Maintenance tooling only, not part of the
// service port.
func (r *UserStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, domain.ErrStoreUnavailable(err)
	}
	return res.DeletedCount, nil
}
