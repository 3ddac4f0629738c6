package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mvolkova/taskboard/internal/logging"
	"github.com/mvolkova/taskboard/internal/middleware"
	"github.com/mvolkova/taskboard/internal/service"
	"github.com/mvolkova/taskboard/internal/transport"
	"github.com/mvolkova/taskboard/internal/util"
)

type TaskHTTP struct {
	Svc *service.TaskService
}

func ownerID(c echo.Context) (uint, error) {
	id, ok := middleware.UserID(c.Request().Context())
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	return id, nil
}

func taskID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}
	return uint(id), nil
}

func listResponse(res *service.ListResult) transport.TaskListResponse {
	return transport.TaskListResponse{
		Tasks: res.Tasks,
		Metadata: transport.ListMetadata{
			Total:      res.Total,
			Page:       res.Page,
			Limit:      res.Limit,
			TotalPages: res.TotalPages,
		},
	}
}

func (h *TaskHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.list")

	userID, err := ownerID(c)
	if err != nil {
		return err
	}

	params := service.ListParams{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		Page:   util.ParseIntDefault(c.QueryParam("page"), 1),
		Limit:  util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize),
	}

	res, err := h.Svc.List(ctx, userID, params)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("list_failed", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list tasks")
	}

	return c.JSON(http.StatusOK, listResponse(res))
}

func (h *TaskHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.create")

	userID, err := ownerID(c)
	if err != nil {
		return err
	}

	var req transport.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Svc.Create(ctx, userID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_failed", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create task")
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.get")

	userID, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.Svc.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_failed", "status", 404, "task_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		l.Error("get_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get task")
	}

	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.patch")

	userID, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req transport.PatchTaskRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Svc.Update(ctx, userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("patch_failed", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("patch_failed", "status", 404, "task_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		default:
			l.Error("patch_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update task")
		}
	}

	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.delete")

	userID, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_failed", "status", 404, "task_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		l.Error("delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete task")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *TaskHTTP) Toggle(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.toggle")

	userID, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.Svc.Toggle(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("toggle_failed", "status", 404, "task_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		l.Error("toggle_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot toggle task")
	}

	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.search")

	userID, err := ownerID(c)
	if err != nil {
		return err
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	if h.Svc.Search == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	res, err := h.Svc.SearchTasks(ctx, userID, q, page, limit)
	if err != nil {
		l.Error("search_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot search tasks")
	}

	return c.JSON(http.StatusOK, listResponse(res))
}
