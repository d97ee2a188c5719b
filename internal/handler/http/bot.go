package http

import (
	"ChannelTrack-Backend/internal/domain"
	resp "ChannelTrack-Backend/internal/lib/api/response"
	"ChannelTrack-Backend/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// BotHandler обрабатывает события, которые присылает бот канала
type BotHandler struct {
	tracker  *service.Tracker
	channels *service.ChannelService
	log      *zap.Logger
}

// NewBotHandler создает обработчик вызовов бота
func NewBotHandler(tracker *service.Tracker, channels *service.ChannelService, log *zap.Logger) *BotHandler {
	return &BotHandler{
		tracker:  tracker,
		channels: channels,
		log:      log,
	}
}

// RegisterChannelRequest бот добавлен в канал администратором
type RegisterChannelRequest struct {
	ChannelID   int64   `json:"channel_id" validate:"required"`
	Title       string  `json:"title" validate:"max=255"`
	Username    *string `json:"username,omitempty" validate:"omitempty,max=64"`
	AdminUserID int64   `json:"admin_user_id" validate:"required,gt=0"`
}

// ConversionRequest пользователь вступил в канал после клика
type ConversionRequest struct {
	ClickID   int64 `json:"click_id" validate:"required,gt=0"`
	UserID    int64 `json:"user_id" validate:"required,gt=0"`
	ChannelID int64 `json:"channel_id" validate:"required"`
}

// SubscriberRequest вступление или выход пользователя
type SubscriberRequest struct {
	ChannelID int64 `json:"channel_id" validate:"required"`
	UserID    int64 `json:"user_id" validate:"required,gt=0"`
}

// ConversionResponse результат атрибуции
type ConversionResponse struct {
	resp.Response
	*service.ConversionResult
}

// UnsubscriptionResponse результат отписки
type UnsubscriptionResponse struct {
	resp.Response
	Changed bool `json:"changed"`
}

// RegisterChannel регистрирует канал и его администратора
//
//	@Summary	Register a channel
//	@Tags		Bot
//	@Accept		json
//	@Produce	json
//	@Security	BotToken
//	@Param		request	body		RegisterChannelRequest	true	"Channel"
//	@Success	201		{object}	response.Response
//	@Failure	400		{object}	response.Response
//	@Failure	401		{object}	response.Response
//	@Router		/api/bot/channels [post]
func (h *BotHandler) RegisterChannel(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.bot.RegisterChannel")

	var req RegisterChannelRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	channel := &domain.Channel{ID: req.ChannelID, Title: req.Title, Username: req.Username}
	if err := h.channels.RegisterChannel(r.Context(), channel, req.AdminUserID); err != nil {
		writeServiceError(w, r, log, err, "failed to register channel")
		return
	}

	resp.NewJSON(w, r, http.StatusCreated, resp.OK())
}

// MarkConversion атрибутирует вступление пользователя к клику
//
//	@Summary	Mark a click converted
//	@Tags		Bot
//	@Accept		json
//	@Produce	json
//	@Security	BotToken
//	@Param		request	body		ConversionRequest	true	"Conversion"
//	@Success	200		{object}	ConversionResponse
//	@Failure	400		{object}	response.Response
//	@Failure	401		{object}	response.Response
//	@Router		/api/bot/conversions [post]
func (h *BotHandler) MarkConversion(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.bot.MarkConversion")

	var req ConversionRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	result, err := h.tracker.MarkConversion(r.Context(), req.ClickID, req.UserID, req.ChannelID)
	if err != nil {
		writeServiceError(w, r, log, err, "failed to mark conversion")
		return
	}

	resp.NewJSON(w, r, http.StatusOK, ConversionResponse{Response: resp.OK(), ConversionResult: result})
}

// RecordJoin фиксирует вступление без клика
//
//	@Summary	Record an organic join
//	@Tags		Bot
//	@Accept		json
//	@Produce	json
//	@Security	BotToken
//	@Param		request	body		SubscriberRequest	true	"Join"
//	@Success	200		{object}	response.Response
//	@Failure	400		{object}	response.Response
//	@Router		/api/bot/joins [post]
func (h *BotHandler) RecordJoin(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.bot.RecordJoin")

	var req SubscriberRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	if err := h.tracker.RecordJoin(r.Context(), req.ChannelID, req.UserID); err != nil {
		writeServiceError(w, r, log, err, "failed to record join")
		return
	}

	resp.NewJSON(w, r, http.StatusOK, resp.OK())
}

// MarkUnsubscription помечает подписчика ушедшим
//
//	@Summary	Mark an unsubscription
//	@Tags		Bot
//	@Accept		json
//	@Produce	json
//	@Security	BotToken
//	@Param		request	body		SubscriberRequest	true	"Leave"
//	@Success	200		{object}	UnsubscriptionResponse
//	@Failure	400		{object}	response.Response
//	@Router		/api/bot/unsubscriptions [post]
func (h *BotHandler) MarkUnsubscription(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.bot.MarkUnsubscription")

	var req SubscriberRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	changed, err := h.tracker.MarkUnsubscription(r.Context(), req.ChannelID, req.UserID)
	if err != nil {
		writeServiceError(w, r, log, err, "failed to mark unsubscription")
		return
	}

	resp.NewJSON(w, r, http.StatusOK, UnsubscriptionResponse{Response: resp.OK(), Changed: changed})
}
