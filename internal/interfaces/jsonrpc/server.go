package jsonrpc_interface

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	jsonrpc_handler "github.com/vulpemventures/uniond/internal/interfaces/jsonrpc/handler"
)

const (
	maxRequestSize = 1 << 20

	unknownMethodLabel = "unknown"
)

// response is a JSON-RPC 1.0 response, where exactly one of result and error
// is null.
type response struct {
	Result interface{}       `json:"result"`
	Error  *btcjson.RPCError `json:"error"`
	ID     interface{}       `json:"id"`
}

// rpcServer dispatches JSON-RPC requests posted to its endpoint to the
// handler registered for the requested method.
// Requests must carry the HTTP basic auth credentials the server is created
// with.
type rpcServer struct {
	handlers map[string]jsonrpc_handler.Handler
	requests *prometheus.CounterVec
	authsha  [sha256.Size]byte

	log  func(format string, a ...interface{})
	warn func(err error, format string, a ...interface{})
}

func newRPCServer(
	reg prometheus.Registerer, user, pass string,
	handlers ...jsonrpc_handler.MethodHandler,
) (*rpcServer, error) {
	if user == "" || pass == "" {
		return nil, fmt.Errorf("missing rpc user or password")
	}

	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("rpc server: %s", format)
		log.Debugf(format, a...)
	}
	warnFn := func(err error, format string, a ...interface{}) {
		format = fmt.Sprintf("rpc server: %s", format)
		log.WithError(err).Warnf(format, a...)
	}

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniond_rpc_requests_total",
			Help: "Number of JSON-RPC requests by method and error code.",
		},
		[]string{"method", "code"},
	)
	if reg != nil {
		if err := reg.Register(requests); err != nil {
			return nil, err
		}
	}

	methods := make(map[string]jsonrpc_handler.Handler)
	for _, h := range handlers {
		for method, handler := range h.Methods() {
			if _, ok := methods[method]; ok {
				return nil, fmt.Errorf("method %s registered twice", method)
			}
			methods[method] = handler
		}
	}

	return &rpcServer{
		methods, requests, sha256.Sum256([]byte(basicAuth(user, pass))),
		logFn, warnFn,
	}, nil
}

func (s *rpcServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "JSON-RPC requests must be POST", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorize(w, r) {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestSize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	var req btcjson.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.observe(unknownMethodLabel, btcjson.ErrRPCParse)
		s.reply(w, nil, nil, btcjson.NewRPCError(
			btcjson.ErrRPCParse.Code, fmt.Sprintf("Failed to parse request: %s", err),
		))
		return
	}

	result, rpcErr := s.dispatch(r, &req)
	s.reply(w, req.ID, result, rpcErr)
}

func (s *rpcServer) dispatch(
	r *http.Request, req *btcjson.Request,
) (interface{}, *btcjson.RPCError) {
	handler, ok := s.handlers[req.Method]
	if !ok {
		s.observe(unknownMethodLabel, btcjson.ErrRPCMethodNotFound)
		return nil, btcjson.ErrRPCMethodNotFound
	}

	cmd, err := btcjson.UnmarshalCmd(req)
	if err != nil {
		rpcErr := parseCmdError(err)
		s.observe(req.Method, rpcErr)
		return nil, rpcErr
	}

	result, err := handler(r.Context(), cmd)
	if err != nil {
		rpcErr := jsonrpc_handler.ToRPCError(err)
		s.warn(err, "%s failed with code %d", req.Method, rpcErr.Code)
		s.observe(req.Method, rpcErr)
		return nil, rpcErr
	}

	s.log("served %s", req.Method)
	s.observe(req.Method, nil)
	return result, nil
}

func (s *rpcServer) reply(
	w http.ResponseWriter, id, result interface{}, rpcErr *btcjson.RPCError,
) {
	if rpcErr != nil {
		result = nil
	}
	buf, err := json.Marshal(response{result, rpcErr, id})
	if err != nil {
		s.warn(err, "failed to marshal response")
		buf, _ = json.Marshal(response{nil, btcjson.NewRPCError(
			btcjson.ErrRPCInternal.Code, err.Error(),
		), id})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf); err != nil {
		s.warn(err, "failed to write response")
	}
}

// withAuth guards the given handler with the credentials of the server.
func (s *rpcServer) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authorize(w, r) {
			next.ServeHTTP(w, r)
		}
	})
}

func (s *rpcServer) authorize(w http.ResponseWriter, r *http.Request) bool {
	if s.checkAuth(r) {
		return true
	}
	s.log("rejected unauthorized request from %s", r.RemoteAddr)
	w.Header().Set("WWW-Authenticate", `Basic realm="uniond RPC"`)
	http.Error(w, "401 Unauthorized.", http.StatusUnauthorized)
	return false
}

func (s *rpcServer) checkAuth(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return false
	}
	authsha := sha256.Sum256([]byte(auth))
	return subtle.ConstantTimeCompare(authsha[:], s.authsha[:]) == 1
}

func (s *rpcServer) observe(method string, rpcErr *btcjson.RPCError) {
	code := "0"
	if rpcErr != nil {
		code = strconv.Itoa(int(rpcErr.Code))
	}
	s.requests.WithLabelValues(method, code).Inc()
}

func parseCmdError(err error) *btcjson.RPCError {
	var cmdErr btcjson.Error
	if errors.As(err, &cmdErr) && cmdErr.ErrorCode == btcjson.ErrUnregisteredMethod {
		return btcjson.ErrRPCMethodNotFound
	}
	return btcjson.NewRPCError(
		btcjson.ErrRPCType, fmt.Sprintf("Failed to parse request: %s", err),
	)
}

func basicAuth(user, pass string) string {
	login := user + ":" + pass
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(login))
}
