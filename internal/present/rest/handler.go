package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/porvoy/archive"
	"github.com/porvoy/archive/internal/domain"
	"github.com/porvoy/archive/internal/present/rest/presenter"
	"github.com/porvoy/archive/internal/usecase"
)

const maxAssetBytes = 64 << 20 // keep uploads bounded

type Handler struct {
	submit *usecase.SubmitUsecase
	query  *usecase.QueryUsecase
	signal usecase.SignalStreamer
}

func NewHandler(
	submit *usecase.SubmitUsecase,
	query *usecase.QueryUsecase,
	signal usecase.SignalStreamer,
) *Handler {
	return &Handler{
		submit: submit,
		query:  query,
		signal: signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/memories", h.handleMemory)
	e.POST("/api/v1/contributions", h.handleContribution)
	e.POST("/api/v1/recordings", h.handleRecording)
	e.GET("/api/v1/items", h.handleItems)
	e.GET("/api/v1/items/:id", h.handleItem)
	e.GET("/api/v1/timeline", h.handleTimeline)
	e.GET("/api/v1/live", h.handleLive)
}

// memoryRequest mirrors the write form's field names.
type memoryRequest struct {
	Type              string `json:"type"`
	Title             string `json:"title"`
	ContentText       string `json:"content_text"`
	ContentDate       string `json:"content_date"`
	DateIsApproximate bool   `json:"date_is_approximate"`
	ContributorName   string `json:"contributor_name"`
	ContributorEmail  string `json:"contributor_email"`
	ContributorPhone  string `json:"contributor_phone"`
	Location          string `json:"location"`
	PeopleMentioned   string `json:"people_mentioned"`
}

func (h *Handler) handleMemory(c echo.Context) error {
	ctx := c.Request().Context()

	var req memoryRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	occurredOn, err := parseContentDate(req.ContentDate)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid content_date")
	}

	sub := archive.Submission{
		Category:          req.Type,
		Title:             req.Title,
		BodyText:          req.ContentText,
		OccurredOn:        occurredOn,
		DateIsApproximate: req.DateIsApproximate,
		Contributor: archive.Contributor{
			Name:  req.ContributorName,
			Email: req.ContributorEmail,
			Phone: req.ContributorPhone,
		},
		Location:        req.Location,
		PeopleMentioned: splitNames(req.PeopleMentioned),
		Channel:         archive.ChannelForm,
	}

	id, err := h.submit.Submit(ctx, sub, nil)
	if err != nil {
		return submissionError(c, err)
	}
	return presenter.Created(c, echo.Map{"id": id})
}

func (h *Handler) handleContribution(c echo.Context) error {
	ctx := c.Request().Context()

	occurredOn, err := parseContentDate(c.FormValue("content_date"))
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid content_date")
	}

	sub := archive.Submission{
		Category:          c.FormValue("type"),
		Title:             c.FormValue("title"),
		Description:       c.FormValue("description"),
		BodyText:          c.FormValue("content_text"),
		OccurredOn:        occurredOn,
		DateIsApproximate: c.FormValue("date_is_approximate") == "true",
		Contributor: archive.Contributor{
			Name:  c.FormValue("contributor_name"),
			Email: c.FormValue("contributor_email"),
			Phone: c.FormValue("contributor_phone"),
		},
		Channel: archive.ChannelUpload,
	}

	upload, err := readUpload(c, "file")
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	id, err := h.submit.Submit(ctx, sub, upload)
	if err != nil {
		return submissionError(c, err)
	}
	return presenter.Created(c, echo.Map{"id": id})
}

func (h *Handler) handleRecording(c echo.Context) error {
	ctx := c.Request().Context()

	occurredOn, err := parseContentDate(c.FormValue("content_date"))
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid content_date")
	}

	duration := 0
	if v := c.FormValue("duration"); v != "" {
		duration, err = strconv.Atoi(v)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid duration")
		}
	}

	sub := archive.Submission{
		Category:          archive.CategoryAudioRecording,
		Title:             c.FormValue("title"),
		Description:       c.FormValue("description"),
		OccurredOn:        occurredOn,
		DateIsApproximate: c.FormValue("date_is_approximate") == "true",
		Contributor: archive.Contributor{
			Name:  c.FormValue("contributor_name"),
			Email: c.FormValue("contributor_email"),
			Phone: c.FormValue("contributor_phone"),
		},
		Channel:         archive.ChannelRecording,
		DurationSeconds: duration,
	}

	upload, err := readUpload(c, "audio")
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if upload == nil {
		return presenter.BadRequestMessage(c, "audio recording is required")
	}

	id, err := h.submit.Submit(ctx, sub, upload)
	if err != nil {
		return submissionError(c, err)
	}
	return presenter.Created(c, echo.Map{"id": id})
}

func (h *Handler) handleItems(c echo.Context) error {
	ctx := c.Request().Context()

	order := c.QueryParam("order")
	if order == "" {
		order = "desc"
	} else if order != "asc" && order != "desc" {
		return presenter.BadRequestMessage(c, "invalid order parameter")
	}

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid limit parameter")
		}
		limit = parsed
	}

	items, err := h.query.List(ctx, c.QueryParam("type"), order == "asc", limit)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, items)
}

func (h *Handler) handleItem(c echo.Context) error {
	ctx := c.Request().Context()

	item, err := h.query.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "content item not found")
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, item)
}

func (h *Handler) handleTimeline(c echo.Context) error {
	ctx := c.Request().Context()

	years, err := h.query.Timeline(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, years)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type liveRequest struct {
	Type       string   `json:"type"`
	Categories []string `json:"categories"`
}

func (h *Handler) handleLive(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer ws.Close()

	// Cancellation, not channel closes, ends the streamer and the read
	// goroutine: the reader may still be delivering frames after the write
	// loop has exited, and a send on a closed input would panic outside
	// echo's recover.
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	input := make(chan []string)
	output := make(chan archive.Event)

	go h.signal.Realtime(ctx, input, output)

	quit := make(chan struct{}, 1)

	go func() {
		for {
			var req liveRequest
			err := ws.ReadJSON(&req)
			if err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				quit <- struct{}{}
				return
			}

			switch req.Type {
			case "listen":
				select {
				case input <- normalizeAll(req.Categories):
				case <-ctx.Done():
					return
				}
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			if err := ws.WriteJSON(event); err != nil {
				slog.DebugContext(
					ctx, "Failed to write event",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}

func normalizeAll(raw []string) []string {
	categories := make([]string, 0, len(raw))
	for _, r := range raw {
		categories = append(categories, archive.NormalizeCategory(r))
	}
	return categories
}

func submissionError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return presenter.BadRequest(c, err)
	}
	return presenter.InternalError(c, err)
}

func parseContentDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func splitNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func readUpload(c echo.Context, field string) (*archive.AssetUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// An absent file is fine; a file part that failed to parse is not,
		// or a contribution could be stored asset-less and still report
		// success.
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return readMultipartFile(fh)
}

func readMultipartFile(fh *multipart.FileHeader) (*archive.AssetUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxAssetBytes))
	if err != nil {
		return nil, err
	}

	return &archive.AssetUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
