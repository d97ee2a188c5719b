package http

import (
	resp "ChannelTrack-Backend/internal/lib/api/response"
	"ChannelTrack-Backend/internal/repository"
	"ChannelTrack-Backend/internal/service"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// decodeAndValidate читает JSON тело и проверяет validate-теги.
// При ошибке пишет конверт 400 и возвращает false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, log *zap.Logger, req interface{}) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		log.Debug("failed to decode request body", zap.Error(err))
		resp.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := validate.Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		if errors.As(err, &validateErr) {
			log.Debug("invalid request", zap.Error(err))
			resp.NewJSON(w, r, http.StatusBadRequest, resp.ValidationError(validateErr))
			return false
		}
		resp.Fail(w, r, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

// writeServiceError переводит ошибки сервисов в конверт с нужным статусом
func writeServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		resp.Fail(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLinkNotFound), errors.Is(err, repository.ErrLinkNotFound):
		resp.Fail(w, r, http.StatusNotFound, "link not found")
	case errors.Is(err, repository.ErrChannelNotFound):
		resp.Fail(w, r, http.StatusNotFound, "channel not found")
	default:
		log.Error(msg, zap.Error(err))
		resp.Fail(w, r, http.StatusInternalServerError, "internal error")
	}
}

// int64Param парсит числовой параметр пути chi
func int64Param(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// requestLog добавляет request_id к логгеру обработчика
func requestLog(log *zap.Logger, r *http.Request, op string) *zap.Logger {
	return log.With(
		zap.String("op", op),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// extractIPAddress извлекает IP адрес из запроса с учетом прокси
func extractIPAddress(r *http.Request) string {
	// Проверяем заголовки прокси в порядке приоритета
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// X-Forwarded-For может содержать список IP через запятую
		ips := strings.Split(ip, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	// Fallback к RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
