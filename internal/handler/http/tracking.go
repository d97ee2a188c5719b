package http

import (
	resp "ChannelTrack-Backend/internal/lib/api/response"
	"ChannelTrack-Backend/internal/service"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TrackingHandler принимает переходы по отслеживаемым ссылкам
type TrackingHandler struct {
	tracker *service.Tracker
	log     *zap.Logger
}

// NewTrackingHandler создает новый обработчик переходов
func NewTrackingHandler(tracker *service.Tracker, log *zap.Logger) *TrackingHandler {
	return &TrackingHandler{
		tracker: tracker,
		log:     log,
	}
}

// TrackRequest тело POST /api/track/{hash}
type TrackRequest struct {
	UserID *int64 `json:"user_id,omitempty" validate:"omitempty,gt=0"`
}

// TrackResponse результат записи клика
type TrackResponse struct {
	resp.Response
	*service.ClickResult
}

// Redirect записывает клик и перенаправляет посетителя на target_url
//
//	@Summary	Follow a tracking link
//	@Tags		Tracking
//	@Param		hash	path	string	true	"Link hash"
//	@Param		user_id	query	int		false	"Telegram user id"
//	@Success	302
//	@Failure	404	{object}	response.Response
//	@Router		/t/{hash} [get]
func (h *TrackingHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.tracking.Redirect")
	hash := chi.URLParam(r, "hash")

	cc := clickContext(r)
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		// некорректный user_id не должен ломать редирект
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			cc.UserID = &id
		} else {
			log.Debug("ignoring malformed user_id", zap.String("user_id", raw))
		}
	}

	result, err := h.tracker.TrackClick(r.Context(), hash, cc)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			log.Debug("link not found", zap.String("hash", hash))
		}
		writeServiceError(w, r, log, err, "failed to track click")
		return
	}

	log.Debug("click tracked",
		zap.String("hash", hash),
		zap.Int64("click_id", result.ClickID),
		zap.Int64("channel_id", result.ChannelID))

	http.Redirect(w, r, result.TargetURL, http.StatusFound)
}

// Track записывает клик без редиректа (для Mini App и бота)
//
//	@Summary	Track a click
//	@Tags		Tracking
//	@Accept		json
//	@Produce	json
//	@Param		hash	path		string			true	"Link hash"
//	@Param		request	body		TrackRequest	false	"Visitor"
//	@Success	200		{object}	TrackResponse
//	@Failure	400		{object}	response.Response
//	@Failure	404		{object}	response.Response
//	@Router		/api/track/{hash} [post]
func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.tracking.Track")
	hash := chi.URLParam(r, "hash")

	// тело необязательно
	var req TrackRequest
	if r.ContentLength > 0 {
		if !decodeAndValidate(w, r, log, &req) {
			return
		}
	}

	cc := clickContext(r)
	cc.UserID = req.UserID

	result, err := h.tracker.TrackClick(r.Context(), hash, cc)
	if err != nil {
		writeServiceError(w, r, log, err, "failed to track click")
		return
	}

	resp.NewJSON(w, r, http.StatusOK, TrackResponse{Response: resp.OK(), ClickResult: result})
}

func clickContext(r *http.Request) service.ClickContext {
	ip := extractIPAddress(r)
	userAgent := r.UserAgent()
	referer := r.Referer()
	return service.ClickContext{
		IPAddress: &ip,
		UserAgent: &userAgent,
		Referer:   &referer,
	}
}
