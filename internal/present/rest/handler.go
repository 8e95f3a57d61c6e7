// Package rest exposes the dashboard API over HTTP.
package rest

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/castletown/compendium/internal/application/handlers"
	"github.com/castletown/compendium/internal/domain/services"
	"github.com/castletown/compendium/internal/present/rest/presenter"
)

// userIDHeader carries the acting community member. The dashboard frontend
// fills it from its own session; ownership checks in the services rely on it.
const userIDHeader = "X-User-ID"

type Handler struct {
	characters    *handlers.CharacterHandler
	relationships *handlers.RelationshipHandler
	calendar      *handlers.CalendarHandler
	stats         *handlers.StatsHandler
	submissions   *handlers.SubmissionHandler
}

func NewHandler(
	characters *handlers.CharacterHandler,
	relationships *handlers.RelationshipHandler,
	calendar *handlers.CalendarHandler,
	stats *handlers.StatsHandler,
	submissions *handlers.SubmissionHandler,
) *Handler {
	return &Handler{
		characters:    characters,
		relationships: relationships,
		calendar:      calendar,
		stats:         stats,
		submissions:   submissions,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/characters", h.handleCharacterList)
	api.POST("/characters", h.handleCharacterCreate)
	api.GET("/characters/search", h.handleCharacterSearch)
	api.GET("/characters/:id", h.handleCharacterGet)
	api.DELETE("/characters/:id", h.handleCharacterDelete)
	api.GET("/characters/:id/relationships", h.handlePairs)

	api.POST("/relationships", h.handleRelationshipCreate)
	api.GET("/relationships/counts", h.handleRelationshipCounts)
	api.GET("/relationships/types", h.handleRelationshipTypes)
	api.GET("/relationships/:id", h.handleRelationshipGet)
	api.PUT("/relationships/:id", h.handleRelationshipUpdate)
	api.DELETE("/relationships/:id", h.handleRelationshipDelete)

	api.GET("/calendar/today", h.handleCalendarToday)
	api.GET("/calendar/convert", h.handleCalendarConvert)
	api.GET("/calendar/months", h.handleCalendarMonths)

	api.GET("/stats", h.handleStats)

	api.GET("/submissions", h.handleSubmissionList)
	api.POST("/submissions", h.handleSubmissionCreate)
	api.GET("/submissions/:id", h.handleSubmissionGet)
	api.GET("/submissions/:id/similar", h.handleSubmissionSimilar)
	api.POST("/submissions/:id/status", h.handleSubmissionModerate)
}

func (h *Handler) handleCharacterList(c echo.Context) error {
	ctx := c.Request().Context()

	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	result, err := h.characters.HandleList(ctx, limit, offset)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, result)
}

type createCharacterRequest struct {
	Name    string `json:"name"`
	Race    string `json:"race"`
	Job     string `json:"job"`
	Village string `json:"village"`
	Icon    string `json:"icon"`
	Bio     string `json:"bio"`
}

func (h *Handler) handleCharacterCreate(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Request().Header.Get(userIDHeader)
	if userID == "" {
		return presenter.BadRequestMessage(c, "X-User-ID header is required")
	}

	var req createCharacterRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	ch, err := h.characters.HandleCreate(ctx, services.CreateCharacterInput{
		OwnerUserID: userID,
		Name:        req.Name,
		Race:        req.Race,
		Job:         req.Job,
		Village:     req.Village,
		Icon:        req.Icon,
		Bio:         req.Bio,
	})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, ch)
}

func (h *Handler) handleCharacterSearch(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	if query == "" {
		return presenter.BadRequestMessage(c, "q parameter is required")
	}

	chars, err := h.characters.HandleSearch(ctx, query, queryInt(c, "limit", 20))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, chars)
}

func (h *Handler) handleCharacterGet(c echo.Context) error {
	ctx := c.Request().Context()

	ch, err := h.characters.HandleResolve(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, ch)
}

func (h *Handler) handleCharacterDelete(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Request().Header.Get(userIDHeader)
	if userID == "" {
		return presenter.BadRequestMessage(c, "X-User-ID header is required")
	}

	if err := h.characters.HandleDelete(ctx, c.Param("id"), userID); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "deleted"})
}

func (h *Handler) handlePairs(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.relationships.HandlePairs(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, result)
}

type createRelationshipRequest struct {
	SourceID string   `json:"source_id"`
	TargetID string   `json:"target_id"`
	Types    []string `json:"types"`
	Note     string   `json:"note"`
}

func (h *Handler) handleRelationshipCreate(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Request().Header.Get(userIDHeader)
	if userID == "" {
		return presenter.BadRequestMessage(c, "X-User-ID header is required")
	}

	var req createRelationshipRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	rel, err := h.relationships.HandleCreate(ctx, services.CreateRelationshipInput{
		OwnerUserID: userID,
		SourceID:    req.SourceID,
		TargetID:    req.TargetID,
		Types:       req.Types,
		Note:        req.Note,
	})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, rel)
}

func (h *Handler) handleRelationshipCounts(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.relationships.HandleCounts(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, counts)
}

func (h *Handler) handleRelationshipTypes(c echo.Context) error {
	return presenter.OK(c, h.relationships.HandleTypes())
}

func (h *Handler) handleRelationshipGet(c echo.Context) error {
	ctx := c.Request().Context()

	rel, err := h.relationships.HandleGet(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, rel)
}

type updateRelationshipRequest struct {
	Types []string `json:"types"`
	Note  string   `json:"note"`
}

func (h *Handler) handleRelationshipUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Request().Header.Get(userIDHeader)
	if userID == "" {
		return presenter.BadRequestMessage(c, "X-User-ID header is required")
	}

	var req updateRelationshipRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	rel, err := h.relationships.HandleUpdate(ctx, c.Param("id"), userID, req.Types, req.Note)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, rel)
}

func (h *Handler) handleRelationshipDelete(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Request().Header.Get(userIDHeader)
	if userID == "" {
		return presenter.BadRequestMessage(c, "X-User-ID header is required")
	}

	if err := h.relationships.HandleDelete(ctx, c.Param("id"), userID); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "deleted"})
}

func (h *Handler) handleCalendarToday(c echo.Context) error {
	return presenter.OK(c, h.calendar.HandleToday())
}

func (h *Handler) handleCalendarConvert(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return presenter.BadRequestMessage(c, "date parameter is required")
	}

	converted, err := h.calendar.HandleConvert(date)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	return presenter.OK(c, converted)
}

func (h *Handler) handleCalendarMonths(c echo.Context) error {
	return presenter.OK(c, h.calendar.HandleMonths())
}

func (h *Handler) handleStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.stats.HandleOverview(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, stats)
}

func (h *Handler) handleSubmissionList(c echo.Context) error {
	ctx := c.Request().Context()

	subs, err := h.submissions.HandleList(ctx,
		c.QueryParam("kind"),
		c.QueryParam("status"),
		queryInt(c, "limit", 50),
		queryInt(c, "offset", 0),
	)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, subs)
}

type createSubmissionRequest struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) handleSubmissionCreate(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Request().Header.Get(userIDHeader)
	if userID == "" {
		return presenter.BadRequestMessage(c, "X-User-ID header is required")
	}

	var req createSubmissionRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	result, err := h.submissions.HandleSubmit(ctx, services.SubmitInput{
		Kind:         req.Kind,
		AuthorUserID: userID,
		Title:        req.Title,
		Body:         req.Body,
	})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, result)
}

func (h *Handler) handleSubmissionGet(c echo.Context) error {
	ctx := c.Request().Context()

	sub, err := h.submissions.HandleGet(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, sub)
}

func (h *Handler) handleSubmissionSimilar(c echo.Context) error {
	ctx := c.Request().Context()

	similar, err := h.submissions.HandleSimilar(ctx, c.Param("id"), queryInt(c, "limit", 5))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, similar)
}

type moderateSubmissionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleSubmissionModerate(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Request().Header.Get(userIDHeader)
	if userID == "" {
		return presenter.BadRequestMessage(c, "X-User-ID header is required")
	}

	var req moderateSubmissionRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	sub, err := h.submissions.HandleModerate(ctx, c.Param("id"), req.Status, userID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, sub)
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is missing or malformed.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
