package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mvolkova/taskboard/internal/models"
)

type TaskFilter struct {
	Status string
	Search string
	Offset int
	Limit  int
}

func (r *GormRepo) ListTasks(ctx context.Context, userID uint, f TaskFilter) (int64, []models.Task, error) {
	q := r.DB.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Task
	if err := q.Order("created_at DESC, id DESC").Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateTask(ctx context.Context, t *models.Task) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

// FindTask is scoped to the owner: a missing id and a foreign id both come
// back as gorm.ErrRecordNotFound.
func (r *GormRepo) FindTask(ctx context.Context, id, userID uint) (*models.Task, error) {
	var task models.Task
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *GormRepo) SaveTask(ctx context.Context, t *models.Task) error {
	return r.DB.WithContext(ctx).Save(t).Error
}

func (r *GormRepo) DeleteTask(ctx context.Context, id, userID uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
