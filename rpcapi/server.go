package rpcapi

import (
	"context"
	"io/ioutil"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"golang.org/x/net/netutil"

	"github.com/vitelabs/go-walletd/common"
	"github.com/vitelabs/go-walletd/common/value"
	"github.com/vitelabs/go-walletd/seria"
)

const (
	JSONRPCPath    = "/json_rpc"
	maxRequestSize = 1 << 20
	maxConnections = 128
)

var (
	ErrServerStarted = errors.New("rpc server already started")
	ErrServerStopped = errors.New("rpc server not running")
)

// handler serves JSON-RPC over HTTP POST.
type handler struct {
	registry *Registry
	log      log.Logger
}

func NewHandler(registry *Registry) http.Handler {
	return &handler{registry: registry, log: log.New("module", "rpc")}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != JSONRPCPath {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestSize))
	if err != nil {
		h.write(w, newError(nil, JsonRpc2Error{Code: CodeParseError, Message: err.Error()}))
		return
	}
	h.write(w, h.serve(body))
}

func (h *handler) serve(body []byte) *Response {
	root, err := value.Unmarshal(body)
	if err != nil {
		return newError(nil, JsonRpc2Error{Code: CodeParseError, Message: err.Error()})
	}

	req := new(Request)
	if err := seria.FromValue(root, req); err != nil {
		return newError(nil, JsonRpc2Error{Code: CodeInvalidRequest, Message: err.Error()})
	}
	if req.JSONRPC != jsonRPCVersion || req.Method == "" {
		return newError(req.ID, JsonRpc2Error{Code: CodeInvalidRequest, Message: "invalid request"})
	}

	start := time.Now()
	result, err := h.registry.Call(req.Method, req.Params)
	if err != nil {
		rpcErr := errorFor(err)
		h.log.Debug("rpc call failed", "method", req.Method, "code", rpcErr.Code, "err", err)
		return newError(req.ID, rpcErr)
	}
	h.log.Debug("rpc call", "method", req.Method, "elapsed", time.Since(start))
	return newResult(req.ID, result)
}

func (h *handler) write(w http.ResponseWriter, resp *Response) {
	data, err := seria.ToJSON(resp)
	if err != nil {
		h.log.Error("encode rpc response failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// Server runs the JSON-RPC handler on a TCP listener.
type Server struct {
	common.LifecycleStatus

	handler     http.Handler
	corsOrigins []string

	srv      *http.Server
	listener net.Listener
	log      log.Logger
}

func NewServer(registry *Registry, corsOrigins []string) *Server {
	s := &Server{
		handler:     NewHandler(registry),
		corsOrigins: corsOrigins,
		log:         log.New("module", "rpc_server"),
	}
	s.PreInit()
	s.PostInit()
	return s
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	if !s.PreStart() {
		if s.Stopped() {
			return ErrServerStopped
		}
		return ErrServerStarted
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = netutil.LimitListener(listener, maxConnections)

	var h http.Handler = s.handler
	if len(s.corsOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{"*"},
			MaxAge:         600,
		}).Handler(h)
	}
	s.srv = &http.Server{
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	common.Go(func() {
		if err := s.srv.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("rpc server stopped", "err", err)
		}
	})
	s.PostStart()
	s.log.Info("HTTP endpoint opened", "url", "http://"+listener.Addr().String()+JSONRPCPath)
	return nil
}

// Addr is the bound address, useful when Start was given port 0.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.PreStop() {
		return ErrServerStopped
	}
	defer s.PostStop()

	s.log.Info("HTTP endpoint closing")
	return s.srv.Shutdown(ctx)
}
