package auth

import (
	resp "ChannelTrack-Backend/internal/lib/api/response"
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// ContextKey тип для ключей контекста
type ContextKey string

// UserIDKey ключ для получения ID пользователя из контекста
const UserIDKey ContextKey = "user_id"

// BotTokenHeader заголовок, которым бот подписывает свои запросы
const BotTokenHeader = "X-Bot-Token"

// Middleware проверяет маркетологов по JWT и бота по общему секрету
type Middleware struct {
	jwtService *JWTService
	botToken   []byte
	log        *zap.Logger
}

// NewMiddleware создает новый auth middleware
func NewMiddleware(jwtService *JWTService, botToken string, log *zap.Logger) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		botToken:   []byte(botToken),
		log:        log,
	}
}

// RequireAuth middleware для проверки JWT токена
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.log.Debug("missing authorization header")
			resp.Fail(w, r, http.StatusUnauthorized, "authorization required")
			return
		}

		tokenString := ExtractTokenFromBearer(authHeader)
		if tokenString == "" {
			m.log.Debug("invalid authorization header format")
			resp.Fail(w, r, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.log.Debug("invalid token", zap.Error(err))
			if errors.Is(err, ErrExpiredToken) {
				resp.Fail(w, r, http.StatusUnauthorized, "token expired")
			} else {
				resp.Fail(w, r, http.StatusUnauthorized, "invalid token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireBot пропускает только запросы с верным X-Bot-Token
func (m *Middleware) RequireBot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(BotTokenHeader)
		if len(m.botToken) == 0 || subtle.ConstantTimeCompare([]byte(token), m.botToken) != 1 {
			m.log.Warn("rejected bot request", zap.String("path", r.URL.Path))
			resp.Fail(w, r, http.StatusUnauthorized, "invalid bot token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserIDFromContext извлекает ID пользователя из контекста
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// CORS middleware для Mini App и локальной разработки
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, "+BotTokenHeader)
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			// Обработка preflight OPTIONS запросов
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
