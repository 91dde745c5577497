package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"i4.energy/across/modemmgr/modem"
)

// Server handles incoming HTTP requests for interacting with the
// configured modem instance. The modem runs one command at a time, so
// every handler holds mu for the whole operation.
type Server struct {
	Logger *slog.Logger
	Modem  *modem.Modem

	mu     sync.Mutex
	router *mux.Router
	once   sync.Once
}

// resultResponse is the JSON form of a modem.Result.
type resultResponse[T any] struct {
	modem.Result[T]
	Error string `json:"error,omitempty"`
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.once.Do(s.routes)
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := mux.NewRouter()

	r.HandleFunc("/info", s.handleInfo).Methods(http.MethodGet)

	// network
	r.HandleFunc("/operator", s.handleGetOperator).Methods(http.MethodGet)
	r.HandleFunc("/operator", s.handleSetOperator).Methods(http.MethodPut)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/registration", s.handleRegistration).Methods(http.MethodGet)
	r.HandleFunc("/signal", s.handleSignal).Methods(http.MethodGet)
	r.HandleFunc("/rssi/{index:[0-9]+}", s.handleRSSI).Methods(http.MethodGet)

	// packet data
	r.HandleFunc("/pdp", s.handlePDPContext).Methods(http.MethodGet)
	r.HandleFunc("/pdp/activate", s.handleActivatePDP).Methods(http.MethodPost)
	r.HandleFunc("/pdp/deactivate", s.handleDeactivatePDP).Methods(http.MethodPost)
	r.HandleFunc("/apn", s.handleGetAPN).Methods(http.MethodGet)
	r.HandleFunc("/apn", s.handleSetAPN).Methods(http.MethodPut)

	// vendor extensions
	r.HandleFunc("/access-technology", s.handleGetAccessTechnology).Methods(http.MethodGet)
	r.HandleFunc("/access-technology", s.handleSetAccessTechnology).Methods(http.MethodPut)
	r.HandleFunc("/iccid", s.handleICCID).Methods(http.MethodGet)
	r.HandleFunc("/periodic-messages/stop", s.handleStopPeriodicMessages).Methods(http.MethodPost)

	r.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)

	s.router = r
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	s.sendJSON(w, resp, statusCode)
}

func (s *Server) sendJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Failed to encode response", "error", err)
	}
}

// errorStatus maps the errors a modem operation returns directly.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, modem.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, modem.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, modem.ErrAlreadyClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// sendResult writes an operation outcome. A failed operation is a 502: the
// request was fine but the modem did not answer as expected.
func sendResult[T any](s *Server, w http.ResponseWriter, res modem.Result[T], err error) {
	if err != nil {
		s.sendError(w, err.Error(), errorStatus(err))
		return
	}

	resp := resultResponse[T]{Result: res}
	statusCode := http.StatusOK
	if !res.OK {
		statusCode = http.StatusBadGateway
		if res.Err != nil {
			resp.Error = res.Err.Error()
		}
		s.Logger.Warn("Modem operation failed", "command", res.Command, "error", res.Err)
	}
	s.sendJSON(w, resp, statusCode)
}

// run executes op with exclusive access to the modem.
func run[T any](s *Server, op func() (modem.Result[T], error)) (modem.Result[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return op()
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// handleInfo reports the dialect, the serial session and the identity of
// the modem and SIM.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	type InfoResponse struct {
		Modem        string               `json:"modem"`
		Session      modem.Session        `json:"session"`
		Manufacturer modem.Result[string] `json:"manufacturer"`
		Model        modem.Result[string] `json:"model"`
		Revision     modem.Result[string] `json:"revision"`
		IMEI         modem.Result[string] `json:"imei"`
		IMSI         modem.Result[string] `json:"imsi"`
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resp := InfoResponse{
		Modem:   s.Modem.String(),
		Session: s.Modem.Session(),
	}
	for _, q := range []struct {
		dst  *modem.Result[string]
		call func() (modem.Result[string], error)
	}{
		{&resp.Manufacturer, s.Modem.Manufacturer},
		{&resp.Model, s.Modem.Model},
		{&resp.Revision, s.Modem.Revision},
		{&resp.IMEI, s.Modem.IMEI},
		{&resp.IMSI, s.Modem.IMSI},
	} {
		res, err := q.call()
		if err != nil {
			s.sendError(w, err.Error(), errorStatus(err))
			return
		}
		*q.dst = res
	}

	s.sendJSON(w, resp, http.StatusOK)
}

func (s *Server) handleGetOperator(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.Operator)
	sendResult(s, w, res, err)
}

func (s *Server) handleSetOperator(w http.ResponseWriter, r *http.Request) {
	type OperatorRequest struct {
		PLMN string `json:"plmn"`
	}

	var req OperatorRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.PLMN == "" {
		s.sendError(w, "'plmn' field is required", http.StatusBadRequest)
		return
	}

	res, err := run(s, func() (modem.Result[struct{}], error) {
		return s.Modem.SetOperator(req.PLMN)
	})
	if err == nil && res.OK {
		s.Logger.Info("Operator selected", "plmn", req.PLMN)
	}
	sendResult(s, w, res, err)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Mode int `json:"mode"`
	}

	// reports with LAC and cell id unless asked otherwise
	req := RegisterRequest{Mode: 2}
	if !s.decode(w, r, &req) {
		return
	}

	res, err := run(s, func() (modem.Result[string], error) {
		return s.Modem.Register(req.Mode)
	})
	sendResult(s, w, res, err)
}

func (s *Server) handleRegistration(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.RegistrationInfo)
	sendResult(s, w, res, err)
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.SignalQuality)
	sendResult(s, w, res, err)
}

// handleRSSI converts an AT+CSQ rssi index without touching the modem.
func (s *Server) handleRSSI(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rssi, err := modem.SignalQualityToRSSI(index)
	if err != nil {
		s.sendError(w, err.Error(), errorStatus(err))
		return
	}
	s.sendJSON(w, rssi, http.StatusOK)
}

func (s *Server) handlePDPContext(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.PDPContext)
	sendResult(s, w, res, err)
}

func (s *Server) handleActivatePDP(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.ActivatePDPContext)
	sendResult(s, w, res, err)
}

func (s *Server) handleDeactivatePDP(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.DeactivatePDPContext)
	sendResult(s, w, res, err)
}

func (s *Server) handleGetAPN(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.APN)
	sendResult(s, w, res, err)
}

func (s *Server) handleSetAPN(w http.ResponseWriter, r *http.Request) {
	type APNRequest struct {
		ContextID int    `json:"context_id"`
		APN       string `json:"apn"`
	}

	req := APNRequest{ContextID: 1}
	if !s.decode(w, r, &req) {
		return
	}
	if req.APN == "" {
		s.sendError(w, "'apn' field is required", http.StatusBadRequest)
		return
	}

	res, err := run(s, func() (modem.Result[string], error) {
		return s.Modem.SetAPN(req.ContextID, req.APN)
	})
	sendResult(s, w, res, err)
}

func (s *Server) handleGetAccessTechnology(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.AccessTechnology)
	sendResult(s, w, res, err)
}

func (s *Server) handleSetAccessTechnology(w http.ResponseWriter, r *http.Request) {
	type AccessTechnologyRequest struct {
		Act string `json:"act"`
	}

	var req AccessTechnologyRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := run(s, func() (modem.Result[[]string], error) {
		return s.Modem.SetAccessTechnology(req.Act)
	})
	sendResult(s, w, res, err)
}

func (s *Server) handleICCID(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.ICCID)
	sendResult(s, w, res, err)
}

func (s *Server) handleStopPeriodicMessages(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.StopPeriodicMessages)
	sendResult(s, w, res, err)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	res, err := run(s, s.Modem.Reset)
	if err == nil && res.OK {
		s.Logger.Info("Modem reset to default profile")
	}
	sendResult(s, w, res, err)
}
