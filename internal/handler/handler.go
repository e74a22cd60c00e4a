package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"shortlink/internal/domain"
	"shortlink/internal/service"
	"shortlink/internal/validation"
)

const pageTitle = "Shortlink"

var (
	errInvalidBody   = map[string]string{"error": "invalid request body"}
	errURLRequired   = map[string]string{"error": "url is required"}
	errCodeRequired  = map[string]string{"error": "code is required"}
	errLinkNotFound  = map[string]string{"error": "link not found"}
	errCreateFailed  = map[string]string{"error": "failed to create short url"}
	errResolveFailed = map[string]string{"error": "failed to resolve link"}
	errListFailed    = map[string]string{"error": "failed to list visits"}
	errInvalidURL    = map[string]string{"error": "invalid url format"}
	errUnsafeURL     = map[string]string{"error": "url protocol not allowed"}
	errURLTooLong    = map[string]string{"error": "url exceeds maximum length"}
	errPrivateIP     = map[string]string{"error": "private ip addresses not allowed"}
	errValidation    = map[string]string{"error": "validation failed"}
	respPong         = map[string]string{"message": "pong"}
)

type Handler struct {
	linkService   LinkService
	urlValidator  URLValidator
	logger        *slog.Logger
	recorder      BusinessRecorder
	publicBaseURL string
}

// New builds the HTTP handlers. An empty publicBaseURL makes short URLs use
// the scheme and host of the incoming request.
func New(
	linkService LinkService,
	urlValidator URLValidator,
	logger *slog.Logger,
	recorder BusinessRecorder,
	publicBaseURL string,
) *Handler {
	return &Handler{
		linkService:   linkService,
		urlValidator:  urlValidator,
		logger:        logger,
		recorder:      recorder,
		publicBaseURL: publicBaseURL,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/ping", h.Ping)
	e.POST("/shorten", h.Shorten)
	e.GET("/visits/:code", h.Visits)
	e.GET("/:code", h.Redirect)
}

func (h *Handler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", map[string]string{"Title": pageTitle})
}

func (h *Handler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, respPong)
}

func (h *Handler) Shorten(c echo.Context) error {
	var req domain.ShortenRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, errInvalidBody)
	}

	if err := h.urlValidator.ValidateURL(req.URL); err != nil {
		return h.handleValidationError(c, err)
	}

	resp, err := h.linkService.Shorten(c.Request().Context(), req.URL, h.baseURL(c))
	if err != nil {
		if validation.IsClientError(err) {
			return h.handleValidationError(c, err)
		}
		h.logger.Error("failed to create short url", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errCreateFailed)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Redirect(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, errCodeRequired)
	}

	req := c.Request()
	originalURL, err := h.linkService.ResolveAndLog(req.Context(), code, c.RealIP(), req.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, errLinkNotFound)
		}
		h.logger.Error("failed to resolve link",
			slog.String("short_code", code),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errResolveFailed)
	}

	h.recorder.RecordBusiness("referrer_redirects", 1, map[string]string{
		"short_code": code,
		"referrer":   extractDomain(req.Referer()),
	})

	return c.Redirect(http.StatusFound, originalURL)
}

func (h *Handler) Visits(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, errCodeRequired)
	}

	visits, err := h.linkService.ListVisits(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, errLinkNotFound)
		}
		h.logger.Error("failed to list visits",
			slog.String("short_code", code),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errListFailed)
	}

	return c.JSON(http.StatusOK, domain.VisitsResponse{Visits: visits})
}

func (h *Handler) baseURL(c echo.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	return c.Scheme() + "://" + c.Request().Host
}

func extractDomain(referer string) string {
	if referer == "" {
		return "direct"
	}

	parsed, err := url.Parse(referer)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}

	return parsed.Host
}

func (h *Handler) handleValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, validation.ErrEmptyURL):
		return c.JSON(http.StatusBadRequest, errURLRequired)
	case errors.Is(err, validation.ErrInvalidURLFormat):
		return c.JSON(http.StatusBadRequest, errInvalidURL)
	case errors.Is(err, validation.ErrUnsafeProtocol):
		return c.JSON(http.StatusBadRequest, errUnsafeURL)
	case errors.Is(err, validation.ErrURLTooLong):
		return c.JSON(http.StatusBadRequest, errURLTooLong)
	case errors.Is(err, validation.ErrPrivateIPNotAllowed):
		return c.JSON(http.StatusBadRequest, errPrivateIP)
	default:
		return c.JSON(http.StatusBadRequest, errValidation)
	}
}
