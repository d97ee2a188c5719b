package http

import (
	"ChannelTrack-Backend/internal/auth"
	"ChannelTrack-Backend/internal/domain"
	resp "ChannelTrack-Backend/internal/lib/api/response"
	"ChannelTrack-Backend/internal/report"
	"ChannelTrack-Backend/internal/service"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// LinksHandler кабинет маркетолога: ссылки и статистика каналов
type LinksHandler struct {
	links    *service.LinkService
	stats    *service.StatsService
	channels *service.ChannelService
	log      *zap.Logger
}

// NewLinksHandler создает новый обработчик ссылок
func NewLinksHandler(links *service.LinkService, stats *service.StatsService, channels *service.ChannelService, log *zap.Logger) *LinksHandler {
	return &LinksHandler{
		links:    links,
		stats:    stats,
		channels: channels,
		log:      log,
	}
}

// CreateLinkRequest структура запроса создания ссылки
type CreateLinkRequest struct {
	TargetURL   string  `json:"target_url" validate:"required,url,max=500"`
	PostID      *int64  `json:"post_id,omitempty" validate:"omitempty,gt=0"`
	UTMSource   *string `json:"utm_source,omitempty" validate:"omitempty,max=255"`
	UTMMedium   *string `json:"utm_medium,omitempty" validate:"omitempty,max=255"`
	UTMCampaign *string `json:"utm_campaign,omitempty" validate:"omitempty,max=255"`
	UTMTerm     *string `json:"utm_term,omitempty" validate:"omitempty,max=255"`
	UTMContent  *string `json:"utm_content,omitempty" validate:"omitempty,max=255"`
	Tag         *string `json:"tag,omitempty" validate:"omitempty,max=100"`
}

// SetLinkActiveRequest включение или выключение ссылки
type SetLinkActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// LinkInfo ссылка вместе с публичным адресом
type LinkInfo struct {
	*domain.TrackingLink
	TrackingURL string `json:"tracking_url"`
}

// LinkResponse одна ссылка
type LinkResponse struct {
	resp.Response
	Link LinkInfo `json:"link"`
}

// ListLinksResponse структура ответа списка ссылок
type ListLinksResponse struct {
	resp.Response
	Links []LinkInfo `json:"links"`
}

// LinkStatsResponse статистика ссылки
type LinkStatsResponse struct {
	resp.Response
	*domain.LinkStats
}

// ChannelStatsResponse статистика канала
type ChannelStatsResponse struct {
	resp.Response
	*domain.ChannelStats
}

// DailyStatsResponse статистика канала по дням
type DailyStatsResponse struct {
	resp.Response
	*domain.DailyStats
}

// CreateLink создает новую отслеживаемую ссылку канала
//
//	@Summary	Create a tracking link
//	@Tags		Links
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		channelID	path		int					true	"Channel id"
//	@Param		request		body		CreateLinkRequest	true	"Link"
//	@Success	201			{object}	LinkResponse
//	@Failure	400			{object}	response.Response
//	@Failure	401			{object}	response.Response
//	@Failure	403			{object}	response.Response
//	@Router		/api/channels/{channelID}/links [post]
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.links.CreateLink")

	channelID, ok := h.authorizeChannel(w, r, log)
	if !ok {
		return
	}

	var req CreateLinkRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	link, err := h.links.CreateLink(r.Context(), service.CreateLinkInput{
		ChannelID: channelID,
		PostID:    req.PostID,
		TargetURL: req.TargetURL,
		Campaign: domain.Campaign{
			Source:   req.UTMSource,
			Medium:   req.UTMMedium,
			Campaign: req.UTMCampaign,
			Term:     req.UTMTerm,
			Content:  req.UTMContent,
			Tag:      req.Tag,
		},
	})
	if err != nil {
		writeServiceError(w, r, log, err, "failed to create link")
		return
	}

	log.Info("link created", zap.Int64("link_id", link.ID), zap.Int64("channel_id", channelID))
	resp.NewJSON(w, r, http.StatusCreated, LinkResponse{Response: resp.OK(), Link: h.linkInfo(link)})
}

// ListLinks возвращает ссылки канала, новые первыми
//
//	@Summary	List channel links
//	@Tags		Links
//	@Produce	json
//	@Security	BearerAuth
//	@Param		channelID	path		int	true	"Channel id"
//	@Success	200			{object}	ListLinksResponse
//	@Failure	403			{object}	response.Response
//	@Router		/api/channels/{channelID}/links [get]
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.links.ListLinks")

	channelID, ok := h.authorizeChannel(w, r, log)
	if !ok {
		return
	}

	links, err := h.links.ListChannelLinks(r.Context(), channelID)
	if err != nil {
		writeServiceError(w, r, log, err, "failed to list links")
		return
	}

	infos := make([]LinkInfo, 0, len(links))
	for _, link := range links {
		infos = append(infos, h.linkInfo(link))
	}
	resp.NewJSON(w, r, http.StatusOK, ListLinksResponse{Response: resp.OK(), Links: infos})
}

// SetLinkActive включает или выключает ссылку
//
//	@Summary	Toggle a tracking link
//	@Tags		Links
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		linkID	path		int						true	"Link id"
//	@Param		request	body		SetLinkActiveRequest	true	"State"
//	@Success	200		{object}	LinkResponse
//	@Failure	404		{object}	response.Response
//	@Router		/api/links/{linkID} [patch]
func (h *LinksHandler) SetLinkActive(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.links.SetLinkActive")

	link, ok := h.authorizeLink(w, r, log)
	if !ok {
		return
	}

	var req SetLinkActiveRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	updated, err := h.links.SetLinkActive(r.Context(), link.ID, *req.IsActive)
	if err != nil {
		writeServiceError(w, r, log, err, "failed to toggle link")
		return
	}

	log.Info("link toggled", zap.Int64("link_id", link.ID), zap.Bool("is_active", updated.IsActive))
	resp.NewJSON(w, r, http.StatusOK, LinkResponse{Response: resp.OK(), Link: h.linkInfo(updated)})
}

// LinkStats возвращает статистику ссылки
//
//	@Summary	Link statistics
//	@Tags		Stats
//	@Produce	json
//	@Security	BearerAuth
//	@Param		linkID	path		int	true	"Link id"
//	@Success	200		{object}	LinkStatsResponse
//	@Failure	404		{object}	response.Response
//	@Router		/api/links/{linkID}/stats [get]
func (h *LinksHandler) LinkStats(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.links.LinkStats")

	link, ok := h.authorizeLink(w, r, log)
	if !ok {
		return
	}

	stats, err := h.stats.GetLinkStats(r.Context(), link.ID)
	if err != nil {
		writeServiceError(w, r, log, err, "failed to get link stats")
		return
	}

	resp.NewJSON(w, r, http.StatusOK, LinkStatsResponse{Response: resp.OK(), LinkStats: stats})
}

// ChannelStats возвращает статистику канала с разбивкой по источникам
//
//	@Summary	Channel statistics
//	@Tags		Stats
//	@Produce	json
//	@Security	BearerAuth
//	@Param		channelID	path		int	true	"Channel id"
//	@Success	200			{object}	ChannelStatsResponse
//	@Failure	403			{object}	response.Response
//	@Router		/api/channels/{channelID}/stats [get]
func (h *LinksHandler) ChannelStats(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.links.ChannelStats")

	channelID, ok := h.authorizeChannel(w, r, log)
	if !ok {
		return
	}

	stats, err := h.stats.GetChannelStats(r.Context(), channelID)
	if err != nil {
		writeServiceError(w, r, log, err, "failed to get channel stats")
		return
	}

	resp.NewJSON(w, r, http.StatusOK, ChannelStatsResponse{Response: resp.OK(), ChannelStats: stats})
}

// DailyStats возвращает статистику канала по дням
//
//	@Summary	Daily channel statistics
//	@Tags		Stats
//	@Produce	json
//	@Security	BearerAuth
//	@Param		channelID	path		int	true	"Channel id"
//	@Param		days		query		int	false	"Window in days"
//	@Success	200			{object}	DailyStatsResponse
//	@Failure	400			{object}	response.Response
//	@Router		/api/channels/{channelID}/stats/daily [get]
func (h *LinksHandler) DailyStats(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.links.DailyStats")

	stats, ok := h.dailyStats(w, r, log)
	if !ok {
		return
	}

	resp.NewJSON(w, r, http.StatusOK, DailyStatsResponse{Response: resp.OK(), DailyStats: stats})
}

// ExportDailyStats отдает статистику по дням xlsx файлом
//
//	@Summary	Export daily channel statistics
//	@Tags		Stats
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Security	BearerAuth
//	@Param		channelID	path	int	true	"Channel id"
//	@Param		days		query	int	false	"Window in days"
//	@Success	200			{file}	file
//	@Failure	400			{object}	response.Response
//	@Router		/api/channels/{channelID}/stats/daily/export [get]
func (h *LinksHandler) ExportDailyStats(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.log, r, "handler.links.ExportDailyStats")

	stats, ok := h.dailyStats(w, r, log)
	if !ok {
		return
	}

	data, err := report.DailyWorkbook(stats)
	if err != nil {
		log.Error("failed to build workbook", zap.Error(err))
		resp.Fail(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, report.DailyFilename(stats.ChannelID, stats.Days)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Warn("failed to write workbook", zap.Error(err))
	}
}

func (h *LinksHandler) dailyStats(w http.ResponseWriter, r *http.Request, log *zap.Logger) (*domain.DailyStats, bool) {
	channelID, ok := h.authorizeChannel(w, r, log)
	if !ok {
		return nil, false
	}

	var days int
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			resp.Fail(w, r, http.StatusBadRequest, "days must be an integer")
			return nil, false
		}
		days = parsed
	}

	stats, err := h.stats.GetDailyStats(r.Context(), channelID, days)
	if err != nil {
		writeServiceError(w, r, log, err, "failed to get daily stats")
		return nil, false
	}
	return stats, true
}

// authorizeChannel разбирает {channelID} и проверяет, что пользователь администратор канала
func (h *LinksHandler) authorizeChannel(w http.ResponseWriter, r *http.Request, log *zap.Logger) (int64, bool) {
	channelID, ok := int64Param(r, "channelID")
	if !ok {
		resp.Fail(w, r, http.StatusBadRequest, "invalid channel id")
		return 0, false
	}
	if !h.requireAdmin(w, r, log, channelID) {
		return 0, false
	}
	return channelID, true
}

// authorizeLink загружает ссылку по {linkID} и проверяет права на ее канал
func (h *LinksHandler) authorizeLink(w http.ResponseWriter, r *http.Request, log *zap.Logger) (*domain.TrackingLink, bool) {
	linkID, ok := int64Param(r, "linkID")
	if !ok || linkID < 0 {
		resp.Fail(w, r, http.StatusBadRequest, "invalid link id")
		return nil, false
	}

	link, err := h.links.GetLink(r.Context(), linkID)
	if err != nil {
		writeServiceError(w, r, log, err, "failed to get link")
		return nil, false
	}
	if !h.requireAdmin(w, r, log, link.ChannelID) {
		return nil, false
	}
	return link, true
}

func (h *LinksHandler) requireAdmin(w http.ResponseWriter, r *http.Request, log *zap.Logger, channelID int64) bool {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		resp.Fail(w, r, http.StatusUnauthorized, "authorization required")
		return false
	}

	isAdmin, err := h.channels.IsAdmin(r.Context(), channelID, userID)
	if err != nil {
		writeServiceError(w, r, log, err, "failed to check channel admin")
		return false
	}
	if !isAdmin {
		log.Debug("user is not a channel admin", zap.Int64("user_id", userID), zap.Int64("channel_id", channelID))
		resp.Fail(w, r, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

func (h *LinksHandler) linkInfo(link *domain.TrackingLink) LinkInfo {
	return LinkInfo{TrackingLink: link, TrackingURL: h.links.TrackingURL(link.LinkHash)}
}
