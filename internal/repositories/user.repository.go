package repositories

import (
	"context"
	"errors"

	"fieldops/internal/constants"
	"fieldops/internal/database"
	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*User, error)
	ClearCache(ctx context.Context, id int64) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

// GetByID resolves a principal, serving from the user cache when possible.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if found := r.getCacheByID(ctx, id, &user); found {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err = translate(err, "user"); isTyped(err) {
			return nil, err
		}
		return nil, log.Err("failed to get user by id", err, "userID", id)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*User, error) {
	log := r.log.Function("GetByIDs")

	if len(ids) == 0 {
		return []*User{}, nil
	}

	var users []*User
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, log.Err("failed to get users", err, "ids", ids)
	}

	return users, nil
}

func (r *userRepository) ClearCache(ctx context.Context, id int64) error {
	err := database.NewCacheBuilder(r.db.Cache.User, id).
		WithHash(constants.UserCacheHash).
		WithContext(ctx).
		Delete()
	if err != nil && !errors.Is(err, database.ErrCacheDisabled) {
		return r.log.Function("ClearCache").Err("failed to clear user cache", err, "userID", id)
	}
	return nil
}

func (r *userRepository) getCacheByID(ctx context.Context, id int64, user *User) bool {
	found, err := database.NewCacheBuilder(r.db.Cache.User, id).
		WithHash(constants.UserCacheHash).
		WithContext(ctx).
		Get(user)
	if err != nil && !errors.Is(err, database.ErrCacheDisabled) {
		r.log.Function("getCacheByID").Warn("failed to read user cache", "userID", id, "error", err)
	}
	return err == nil && found
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) error {
	err := database.NewCacheBuilder(r.db.Cache.User, user.ID).
		WithHash(constants.UserCacheHash).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		WithContext(ctx).
		Set()
	if errors.Is(err, database.ErrCacheDisabled) {
		return nil
	}
	return err
}
