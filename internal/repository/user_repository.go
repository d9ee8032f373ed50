package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"citizen-service/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListCitizenIDsByWards enumerates fan-out recipients: active citizens
// whose ward is in the given scope list.
func (r *UserRepository) ListCitizenIDsByWards(ctx context.Context, wardIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(wardIDs) == 0 {
		return nil, nil
	}
	type row struct {
		ID uuid.UUID
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("id").
		Where("role = ? AND is_active = ? AND ward_id IN ?", model.UserRoleCitizen, true, wardIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out, nil
}

func (r *UserRepository) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	var ward model.Ward
	if err := r.db.WithContext(ctx).First(&ward, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ward, nil
}

func (r *UserRepository) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *UserRepository) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var department model.Department
	if err := r.db.WithContext(ctx).First(&department, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}
