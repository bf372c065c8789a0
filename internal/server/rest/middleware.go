package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pangea-chat/roomcode-server/pkg/logger"
	"github.com/pangea-chat/roomcode-server/pkg/token/usertoken"
)

const bearerPrefix = "Bearer "

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		clientIP := getClientIP(r)
		endpoint := r.URL.Path
		httpMethod := r.Method

		logMessage := fmt.Sprintf(
			"Received request [ID: %s] from [ClientIP: %s] to [Endpoint: %s] with [HTTP Method: %s]",
			requestID, clientIP, endpoint, httpMethod,
		)
		logger.Info(logMessage)

		r = r.WithContext(context.WithValue(r.Context(), contextKeyReqID, requestID))

		next.ServeHTTP(w, r)
	})
}

// authMiddleware authenticates the caller from the Authorization header and
// places the user ID in the request context. Both endpoints require it: the
// knocker is the invite target and the code requester must be a known user.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.respondWithError(w, http.StatusForbidden, ErrMsgForbidden)
			return
		}

		userID, err := usertoken.GetUserID(strings.TrimPrefix(authHeader, bearerPrefix), s.secret)
		if err != nil {
			logger.Debug(fmt.Sprintf("Rejected request with invalid token: %s", err))
			s.respondWithError(w, http.StatusForbidden, ErrMsgForbidden)
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), contextKeyUserID, userID))

		next.ServeHTTP(w, r)
	}
}

func getClientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}

	colonIndex := strings.Index(ip, ":")
	if colonIndex != -1 {
		ip = ip[:colonIndex]
	}
	return ip
}
