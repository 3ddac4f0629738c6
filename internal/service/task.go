package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mvolkova/taskboard/internal/events"
	"github.com/mvolkova/taskboard/internal/logging"
	"github.com/mvolkova/taskboard/internal/models"
	"github.com/mvolkova/taskboard/internal/repo"
	"github.com/mvolkova/taskboard/internal/search"
	"github.com/mvolkova/taskboard/internal/transport"
	"github.com/mvolkova/taskboard/internal/util"
)

type TaskService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
	Search *search.Client
}

type ListParams struct {
	Status string
	Search string
	Page   int
	Limit  int
}

type ListResult struct {
	Tasks      []models.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

func validStatus(s string) bool {
	return s == models.TaskStatusPending || s == models.TaskStatusCompleted
}

func (s *TaskService) List(ctx context.Context, userID uint, p ListParams) (*ListResult, error) {
	if p.Status != "" && !validStatus(p.Status) {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrValidation, models.TaskStatusPending, models.TaskStatusCompleted)
	}

	if p.Page < 1 {
		p.Page = 1
	}
	offset, limit := util.Calculate(p.Page, p.Limit)

	total, items, err := s.Repo.ListTasks(ctx, userID, repo.TaskFilter{
		Status: p.Status,
		Search: p.Search,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Tasks:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      limit,
		TotalPages: util.TotalPages(total, limit),
	}, nil
}

func (s *TaskService) Create(ctx context.Context, userID uint, title, description string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	task := models.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      models.TaskStatusPending,
	}
	if err := s.Repo.CreateTask(ctx, &task); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{"type": "task_created", "task_id": task.ID, "user_id": userID})
	s.index(ctx, task)
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, userID, id uint) (*models.Task, error) {
	return s.Repo.FindTask(ctx, id, userID)
}

func (s *TaskService) Update(ctx context.Context, userID, id uint, patch transport.PatchTaskRequest) (*models.Task, error) {
	if patch.Title == nil && patch.Description == nil && patch.Status == nil {
		return nil, fmt.Errorf("%w: at least one of title, description or status is required", ErrValidation)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if patch.Status != nil && !validStatus(*patch.Status) {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrValidation, models.TaskStatusPending, models.TaskStatusCompleted)
	}

	task, err := s.Repo.FindTask(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}

	if err := s.Repo.SaveTask(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{"type": "task_updated", "task_id": task.ID, "user_id": userID})
	s.index(ctx, *task)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.Repo.DeleteTask(ctx, id, userID); err != nil {
		return err
	}

	s.publish(ctx, userID, map[string]any{"type": "task_deleted", "task_id": id, "user_id": userID})
	if err := s.Search.DeleteTask(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search_deindex_failed", "task_id", id, "error", err)
	}
	return nil
}

func (s *TaskService) Toggle(ctx context.Context, userID, id uint) (*models.Task, error) {
	task, err := s.Repo.FindTask(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusPending {
		task.Status = models.TaskStatusCompleted
	} else {
		task.Status = models.TaskStatusPending
	}

	if err := s.Repo.SaveTask(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{"type": "task_updated", "task_id": task.ID, "user_id": userID})
	s.index(ctx, *task)
	return task, nil
}

func (s *TaskService) SearchTasks(ctx context.Context, userID uint, query string, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	offset, size := util.Calculate(page, limit)

	total, items, err := s.Search.SearchTasks(ctx, userID, query, offset, size)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Tasks:      items,
		Total:      total,
		Page:       page,
		Limit:      size,
		TotalPages: util.TotalPages(total, size),
	}, nil
}

func (s *TaskService) publish(ctx context.Context, userID uint, event map[string]any) {
	if err := s.Events.Publish(ctx, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "error", err)
	}
}

func (s *TaskService) index(ctx context.Context, task models.Task) {
	if err := s.Search.IndexTask(ctx, task); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "task_id", task.ID, "error", err)
	}
}
