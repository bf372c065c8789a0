package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pangea-chat/roomcode-server/internal/dto"
	"github.com/pangea-chat/roomcode-server/internal/service"
	"github.com/pangea-chat/roomcode-server/pkg/logger"
)

type contextKey string

const (
	// DefaultPort is the default port the server listens on.
	DefaultPort = 5000
	// DefaultAddress is the default address the server listens on.
	DefaultAddress = ""
	// DefaultWriteTimeout is the default write timeout for server responses.
	DefaultWriteTimeout = 15 * time.Second
	// DefaultReadTimeout is the default read timeout for incoming requests.
	DefaultReadTimeout = 15 * time.Second

	contextKeyReqID  = contextKey("reqID")
	contextKeyUserID = contextKey("userID")

	// ErrMsgForbidden is a http response body message for forbidden status code.
	ErrMsgForbidden = "Forbidden"
	// ErrMsgBadRequestInvalidRequestBody is a http response body message for bad request status code.
	ErrMsgBadRequestInvalidRequestBody = "Invalid request body"
	// ErrMsgBadRequestInvalidAccessCode is a http response body message for rejected access codes.
	// Malformed and unknown codes share it so callers cannot probe which codes exist.
	ErrMsgBadRequestInvalidAccessCode = "Invalid 'access_code'"
	// ErrMsgBadRequestMissingRoomID is a http response body message for a missing room_id query parameter.
	ErrMsgBadRequestMissingRoomID = "Missing 'room_id' query parameter"
	// ErrMsgInternalServerError is a http response body message for internal server error status code.
	ErrMsgInternalServerError = "Internal server error"
)

// Server represents a REST server exposing the room code endpoints.
type Server struct {
	*http.Server
	accessCodeService service.AccessCodeService
	knockService      service.KnockService
	secret            string
}

// NewServer creates a new Server instance.
func NewServer(accessCodeService service.AccessCodeService, knockService service.KnockService, secret string, opts ...ServerOption) *Server {
	server := &Server{
		Server: &http.Server{
			Addr:         DefaultAddress,
			WriteTimeout: DefaultWriteTimeout,
			ReadTimeout:  DefaultReadTimeout,
		},
		accessCodeService: accessCodeService,
		knockService:      knockService,
		secret:            secret,
	}

	for _, opt := range opts {
		opt(server)
	}

	server.initRoutes()

	return server
}

// ServerOption is a function signature for providing options to configure the Server.
type ServerOption func(*Server)

// WithAddress is an option to set the server address.
func WithAddress(addr string) ServerOption {
	return func(s *Server) {
		s.Addr = addr
	}
}

// WithReadTimeout is an option to set the read timeout for the server.
func WithReadTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.ReadTimeout = timeout
	}
}

// WithWriteTimeout is an option to set the write timeout for the server.
func WithWriteTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.WriteTimeout = timeout
	}
}

func (s *Server) initRoutes() {
	r := mux.NewRouter()

	r.Use(s.logMiddleware)

	r.HandleFunc("/_pangea/v1/client/knock_with_code", s.authMiddleware(s.handleKnockWithCode)).Methods("POST")
	r.HandleFunc("/_pangea/v1/client/request_room_code", s.authMiddleware(s.handleRequestRoomCode)).Methods("GET")

	s.Handler = r
}

func (s *Server) handleKnockWithCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextKeyUserID).(string)
	if !ok {
		s.respondWithError(w, http.StatusForbidden, ErrMsgForbidden)
		return
	}

	knockDTO := &dto.KnockWithCodeDTO{}
	if err := json.NewDecoder(r.Body).Decode(knockDTO); err != nil {
		s.respondWithError(w, http.StatusBadRequest, ErrMsgBadRequestInvalidRequestBody)
		return
	}

	rooms, err := s.knockService.KnockWithCode(r.Context(), userID, knockDTO.AccessCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCodeFormat), errors.Is(err, service.ErrCodeNotFound):
			// One rejection for both failure kinds; distinguishing them would
			// let a caller fingerprint valid-but-stale codes.
			s.respondWithError(w, http.StatusBadRequest, ErrMsgBadRequestInvalidAccessCode)
		default:
			logger.Error(fmt.Sprintf("Failed to knock with code: %s", err))
			s.respondWithError(w, http.StatusInternalServerError, ErrMsgInternalServerError)
		}
		return
	}

	s.respondWithJSON(w, http.StatusOK, dto.KnockResultDTO{
		Message: fmt.Sprintf("Sent invites to %s", strings.Join(rooms, ", ")),
		Rooms:   rooms,
	})
}

func (s *Server) handleRequestRoomCode(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		s.respondWithError(w, http.StatusBadRequest, ErrMsgBadRequestMissingRoomID)
		return
	}

	accessCode, err := s.accessCodeService.Allocate(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, service.ErrCodeSpaceExhausted) {
			logger.Error(fmt.Sprintf("Access code space exhausted while allocating for room %s: %s", roomID, err))
		} else {
			logger.Error(fmt.Sprintf("Failed to allocate access code for room %s: %s", roomID, err))
		}
		s.respondWithError(w, http.StatusInternalServerError, ErrMsgInternalServerError)
		return
	}

	s.respondWithJSON(w, http.StatusOK, dto.AccessCodeDTO{AccessCode: accessCode})
}

func (s *Server) respondWithError(w http.ResponseWriter, errCode int, errMessage string) {
	s.respondWithJSON(w, errCode, dto.ErrorDTO{Error: errMessage})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to marshall response to JSON: %s ", err))

		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(ErrMsgInternalServerError)); err != nil {
			logger.Error(fmt.Sprintf("Failed to respond: %s", err))
		}

		return
	}

	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		logger.Error(fmt.Sprintf("Failed to respond: %s", err))
	}
}
