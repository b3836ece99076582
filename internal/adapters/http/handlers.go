// Package http exposes the sync server's REST API. Every board route is
// scoped to the authenticated user; the handlers never accept an owner id
// from the request.
package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/yearboard/core/internal/domain/dates"
	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/infrastructure/logger"
	"github.com/yearboard/core/internal/ports"
)

// contextUserKey is where the auth middleware stores the token claims.
const contextUserKey = "user"

// Handler carries the API dependencies.
type Handler struct {
	auth  ports.AuthService
	board ports.BoardRepository
	log   *logger.Logger
}

func NewHandler(auth ports.AuthService, board ports.BoardRepository, log *logger.Logger) *Handler {
	return &Handler{auth: auth, board: board, log: log.WithComponent("http")}
}

// Register wires the API routes onto the given groups. The board group is
// expected to already carry the auth middleware.
func (h *Handler) Register(authGroup, boardGroup *echo.Group) {
	authGroup.POST("/register", h.RegisterUser)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)

	boardGroup.GET("", h.GetBoard)
	boardGroup.DELETE("", h.ResetBoard)
	boardGroup.PUT("/days/:date", h.UpsertDay)
	boardGroup.DELETE("/days/:date", h.DeleteDay)
	boardGroup.PUT("/events/:id", h.UpsertEvent)
	boardGroup.DELETE("/events/:id", h.DeleteEvent)
	boardGroup.PUT("/rectangles/:id", h.UpsertRectangle)
	boardGroup.DELETE("/rectangles/:id", h.DeleteRectangle)
}

// RegisterLogout attaches the logout route, which needs auth.
func (h *Handler) RegisterLogout(g *echo.Group) {
	g.POST("/logout", h.Logout)
}

func (h *Handler) RegisterUser(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	resp, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrUserExists) {
			return echo.NewHTTPError(http.StatusConflict, ports.ErrorResponse{Message: "email already registered"})
		}
		return h.internal(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	resp, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrUnauthorized) {
			return unauthorized()
		}
		return h.internal(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	resp, err := h.auth.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, entities.ErrUnauthorized) {
			return unauthorized()
		}
		return h.internal(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c echo.Context) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return unauthorized()
	}
	if err := h.auth.Logout(c.Request().Context(), ownerID); err != nil {
		return h.internal(c, err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "logged out"})
}

func (h *Handler) GetBoard(c echo.Context) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return unauthorized()
	}
	data, err := h.board.Fetch(c.Request().Context(), ownerID)
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) ResetBoard(c echo.Context) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return unauthorized()
	}
	if err := h.board.ResetAll(c.Request().Context(), ownerID); err != nil {
		return h.internal(c, err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "board reset"})
}

func (h *Handler) UpsertDay(c echo.Context) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return unauthorized()
	}
	date := c.Param("date")
	if !dates.IsValidKey(date) {
		return badRequest("invalid date")
	}

	var req ports.UpsertDayRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	entry := entities.DayEntry{
		Date:  date,
		Title: req.Title,
		Notes: req.Notes,
		Mood:  req.Mood,
		Tags:  req.Tags,
	}
	if err := h.board.UpsertDay(c.Request().Context(), ownerID, entry); err != nil {
		return h.internal(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) DeleteDay(c echo.Context) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return unauthorized()
	}
	if err := h.board.DeleteDay(c.Request().Context(), ownerID, c.Param("date")); err != nil {
		if errors.Is(err, entities.ErrDayNotFound) {
			return notFound("day not found")
		}
		return h.internal(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpsertEvent(c echo.Context) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return unauthorized()
	}

	var req ports.UpsertEventRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}
	if !dates.IsValidKey(req.StartDate) || !dates.IsValidKey(req.EndDate) {
		return badRequest("invalid event dates")
	}
	if req.EndDate < req.StartDate {
		return badRequest("end date is before start date")
	}

	event := entities.CalendarEvent{
		ID:          c.Param("id"),
		Title:       req.Title,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Category:    req.Category,
		Color:       req.Color,
		Description: req.Description,
	}
	if event.Color == "" {
		event.Color = entities.ColorForCategory(event.Category)
	}
	if err := h.board.UpsertEvent(c.Request().Context(), ownerID, event); err != nil {
		return h.internal(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

func (h *Handler) DeleteEvent(c echo.Context) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return unauthorized()
	}
	if err := h.board.DeleteEvent(c.Request().Context(), ownerID, c.Param("id")); err != nil {
		if errors.Is(err, entities.ErrEventNotFound) {
			return notFound("event not found")
		}
		return h.internal(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpsertRectangle(c echo.Context) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return unauthorized()
	}

	var req ports.UpsertRectangleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	rect := entities.CanvasRectangle{
		ID:     c.Param("id"),
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
		Color:  req.Color,
		Text:   req.Text,
	}.Normalized()
	if err := h.board.UpsertRectangle(c.Request().Context(), ownerID, rect); err != nil {
		return h.internal(c, err)
	}
	return c.JSON(http.StatusOK, rect)
}

func (h *Handler) DeleteRectangle(c echo.Context) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return unauthorized()
	}
	if err := h.board.DeleteRectangle(c.Request().Context(), ownerID, c.Param("id")); err != nil {
		if errors.Is(err, entities.ErrRectangleNotFound) {
			return notFound("rectangle not found")
		}
		return h.internal(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) internal(c echo.Context, err error) error {
	h.log.WithError(err).Errorw("request failed", "path", c.Path())
	return echo.NewHTTPError(http.StatusInternalServerError, ports.ErrorResponse{Message: "internal server error"})
}

func ownerFrom(c echo.Context) (uuid.UUID, error) {
	claims, ok := c.Get(contextUserKey).(*ports.Claims)
	if !ok {
		return uuid.Nil, entities.ErrUnauthorized
	}
	return uuid.Parse(claims.UserID)
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, ports.ErrorResponse{Message: msg})
}

func notFound(msg string) error {
	return echo.NewHTTPError(http.StatusNotFound, ports.ErrorResponse{Message: msg})
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, ports.ErrorResponse{Message: "unauthorized"})
}

func validationError(err error) error {
	details := map[string]interface{}{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = "failed " + fe.Tag() + " validation"
		}
	}
	return echo.NewHTTPError(http.StatusBadRequest, ports.ErrorResponse{Message: "validation failed", Details: details})
}
