package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepo struct {
	coll *mongo.Collection
}

func NewUserRepository(s *Store) domain.UserRepository {
	return &userRepo{coll: s.Collection(CollUsers)}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return duplicateUser(err)
	}
	return mapError(err, "User")
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapError(err, "User")
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	users := []domain.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

// Update writes the scalar profile fields only; reference lists change through AppendRef.
func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	set := bson.M{
		"name":         user.Name,
		"email":        user.Email,
		"occupation":   user.Occupation,
		"password":     user.Password,
		"role":         user.Role,
		"profileImage": user.ProfileImage,
		"cv":           user.CV,
		"updatedAt":    user.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if user.Phone == "" {
		update["$unset"] = bson.M{"phone": ""}
	} else {
		set["phone"] = user.Phone
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateUser(err)
		}
		return apperror.Internal(err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("User not found")
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("User not found")
	}
	return nil
}

func (r *userRepo) AppendRef(ctx context.Context, userID string, field domain.RefField, refID string) error {
	if !field.Valid() {
		return apperror.Internal(fmt.Errorf("unknown user reference field %q", field))
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{string(field): refID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return apperror.Internal(err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("User not found")
	}
	return nil
}

func duplicateUser(err error) error {
	if strings.Contains(err.Error(), "phone") {
		return apperror.Conflict("User with this phone number already exists")
	}
	return apperror.Conflict("User with this email already exists")
}
