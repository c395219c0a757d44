package gormdb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jsupa/turbo-template/domain/user"

	"gorm.io/gorm"
)

// UserPO is the users table row.
type UserPO struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Name      string    `gorm:"size:100;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserPO) TableName() string {
	return "users"
}

func fromSnapshot(s user.Snapshot) *UserPO {
	return &UserPO{
		ID:        s.ID,
		Email:     s.Email,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (po *UserPO) toDomain() *user.User {
	return user.Rebuild(user.Snapshot{
		ID:        po.ID,
		Email:     po.Email,
		Name:      po.Name,
		CreatedAt: po.CreatedAt.UTC(),
		UpdatedAt: po.UpdatedAt.UTC(),
	})
}

type UserRepository struct {
	driver *Driver
	now    func() time.Time
}

func NewUserRepository(driver *Driver) *UserRepository {
	return &UserRepository{driver: driver, now: time.Now}
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Duplicate entry") ||
		strings.Contains(errStr, "1062") ||
		strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "SQLSTATE 23505")
}

func (r *UserRepository) EnsureSchema(ctx context.Context) error {
	db, err := r.driver.DB(ctx)
	if err != nil {
		return err
	}
	return db.AutoMigrate(&UserPO{})
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	db, err := r.driver.DB(ctx)
	if err != nil {
		return err
	}

	// MySQL keeps datetime(3); truncate so the saved value equals the stored one.
	now := r.now().UTC().Truncate(time.Millisecond)
	userPO := fromSnapshot(u.Snapshot())
	userPO.UpdatedAt = now

	if u.IsNew() {
		userPO.CreatedAt = now
		if err := db.Create(userPO).Error; err != nil {
			if isDuplicateKeyError(err) {
				return user.NewEmailAlreadyExistsError(userPO.Email)
			}
			return err
		}
	} else {
		result := db.Model(&UserPO{}).
			Where("id = ?", userPO.ID).
			Updates(map[string]interface{}{
				"email":      userPO.Email,
				"name":       userPO.Name,
				"updated_at": userPO.UpdatedAt,
			})
		if result.Error != nil {
			if isDuplicateKeyError(result.Error) {
				return user.NewEmailAlreadyExistsError(userPO.Email)
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return user.NewUserNotFoundError(userPO.ID)
		}
	}

	u.Touch(now)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, id, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	email = user.NormalizeEmail(email)
	return r.findOne(ctx, email, "email = ?", email)
}

func (r *UserRepository) findOne(ctx context.Context, key string, query string, args ...interface{}) (*user.User, error) {
	db, err := r.driver.DB(ctx)
	if err != nil {
		return nil, err
	}

	var userPO UserPO
	if err := db.Where(query, args...).First(&userPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.NewUserNotFoundError(key)
		}
		return nil, err
	}
	return userPO.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context, limit int) ([]*user.User, error) {
	db, err := r.driver.DB(ctx)
	if err != nil {
		return nil, err
	}

	var pos []UserPO
	if err := db.Order("created_at DESC").Order("id ASC").Limit(user.ClampLimit(limit)).Find(&pos).Error; err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(pos))
	for i := range pos {
		users = append(users, pos[i].toDomain())
	}
	return users, nil
}

var _ user.Repository = (*UserRepository)(nil)
