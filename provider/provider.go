// Package provider implements the hosting side of the framework: bind a
// listener, register every service's methods in ZooKeeper, accept
// connections, and dispatch each request frame to its service through a
// bounded worker pool.
//
// Grounded step for step on _examples/original_source/src/provider.cc's
// Pprovider::Run/RegisterServices/HandleClientRequest/OnZkSessionExpired.
// Go's goroutine-per-accept model stands in for that file's
// epoll_create1/epoll_wait readiness loop — the accept goroutine blocks on
// Listener.Accept exactly where the original blocks in epoll_wait for the
// listening fd, and each accepted connection's read loop blocks on
// io.ReadFull exactly where the original's worker blocks in recv; both
// achieve the same "one goroutine/thread parked per socket instead of
// busy-polling" property without needing an explicit readiness multiplexer.
package provider

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ph0m1/prpc/codec"
	"github.com/Ph0m1/prpc/middleware"
	"github.com/Ph0m1/prpc/protocol"
	"github.com/Ph0m1/prpc/service"
	"github.com/Ph0m1/prpc/workerpool"
)

// Registry is the coordination dependency Provider needs: register a
// method's endpoint, start a session with an expiry callback, and close.
// *registry.Client satisfies this; tests substitute a fake so they don't
// need a live ZooKeeper ensemble.
type Registry interface {
	Start(sessionExpired func()) error
	RegisterMethod(serviceName, methodName, endpoint string) error
	Close()
}

// Config holds the settings Run needs beyond the service table itself.
type Config struct {
	// ListenAddr is passed to net.Listen, e.g. ":8000".
	ListenAddr string
	// AdvertiseAddr is the "ip:port" written into each method's znode —
	// distinct from ListenAddr the same way the original separates the
	// bind address from the ip/port pair it writes into ZooKeeper.
	AdvertiseAddr string
	// Workers sizes the dispatch pool. New raises values below 1 to 1;
	// cmd/provider fills it from config.Config.ThreadNum, which defaults to
	// runtime.NumCPU() when threadnum is unset.
	Workers int
	// RequestReadTimeout bounds how long a connection may sit open waiting
	// for its one request frame. Zero disables the deadline, matching
	// spec.md §9 open question 4's documented default of no read timeout.
	RequestReadTimeout time.Duration
}

// Provider hosts a service table, accepts connections, and dispatches
// requests to it.
type Provider struct {
	cfg     Config
	table   *service.Table
	reg     Registry
	pool    *workerpool.Pool
	handler middleware.HandlerFunc
	codec   codec.Codec

	listener net.Listener
}

// New returns a Provider that will dispatch into table once Run is called.
// middlewares wrap the business dispatch step in the order given.
func New(cfg Config, table *service.Table, reg Registry, middlewares ...middleware.Middleware) *Provider {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	p := &Provider{
		cfg:   cfg,
		table: table,
		reg:   reg,
		pool:  workerpool.New(cfg.Workers),
		codec: codec.GetCodec(codec.CodecTypeBinary),
	}
	p.handler = middleware.Chain(middlewares...)(p.businessHandler)
	return p
}

// RegisterServices walks the service table and, for each service/method,
// ensures the persistent parent znode and ephemeral method znode exist —
// the Go translation of Pprovider::RegisterServices.
func (p *Provider) RegisterServices() error {
	for serviceName, methods := range p.table.Services() {
		for _, methodName := range methods {
			if err := p.reg.RegisterMethod(serviceName, methodName, p.cfg.AdvertiseAddr); err != nil {
				return err
			}
		}
	}
	return nil
}

// onZkSessionExpired restarts the ZK session and re-registers every
// service, mirroring Pprovider::OnZkSessionExpired.
func (p *Provider) onZkSessionExpired() {
	logrus.Warn("zookeeper session expired, reconnecting and re-registering services")
	if err := p.reg.Start(p.onZkSessionExpired); err != nil {
		logrus.WithError(err).Error("failed to reconnect to zookeeper")
		return
	}
	if err := p.RegisterServices(); err != nil {
		logrus.WithError(err).Error("failed to re-register services after session expiry")
	}
}

// Run starts the ZooKeeper session, registers every service, binds
// cfg.ListenAddr, and accepts connections until the listener is closed via
// Close.
func (p *Provider) Run() error {
	if err := p.reg.Start(p.onZkSessionExpired); err != nil {
		return err
	}
	if err := p.RegisterServices(); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", p.cfg.ListenAddr)
	if err != nil {
		return err
	}
	p.listener = ln

	logrus.WithField("addr", p.cfg.ListenAddr).Info("provider listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logrus.WithError(err).Error("accept error")
			continue
		}
		go p.handleConn(conn)
	}
}

// Close stops accepting new connections and drains the dispatch pool.
func (p *Provider) Close() error {
	var err error
	if p.listener != nil {
		err = p.listener.Close()
	}
	p.pool.Shutdown()
	p.reg.Close()
	return err
}

// handleConn reads exactly one request frame off conn, dispatches it
// through the worker pool, writes back the response, and closes the
// connection — per spec.md §9 open question 3, this provider closes every
// connection after one response rather than keeping it open for reuse; the
// caller's connection pool only pays off once a provider implementation
// chooses to keep connections open, which this one deliberately does not.
func (p *Provider) handleConn(conn net.Conn) {
	defer conn.Close()

	if p.cfg.RequestReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(p.cfg.RequestReadTimeout))
	}

	header, payload, err := protocol.ReadFrame(conn, p.codec)
	if err != nil {
		return
	}

	future := p.pool.Submit(func() (any, error) {
		return p.dispatch(header, payload), nil
	})

	resp, err := future.Wait()
	if err != nil {
		return
	}

	conn.Write(resp.([]byte))
}

// dispatch runs the middleware chain over one decoded frame and returns the
// raw response payload to write back, serializing a business error the
// same way HandleClientRequest's response bytes would carry one: an empty
// payload on failure. dispatch itself does not log the error; it is logged
// only when a Logging (or, for panics, Recover) middleware was passed to New.
func (p *Provider) dispatch(header *codec.Header, payload []byte) []byte {
	resp := p.handler(context.Background(), &middleware.Request{Header: header, Payload: payload})
	if resp.Err != "" {
		return nil
	}
	return resp.Payload
}

// businessHandler looks up the service/method, builds fresh request and
// response prototypes, unmarshals the payload, and invokes CallMethod with a
// nil controller — the Go translation of HandleClientRequest's
// lookup-and-invoke body, minus framing (already done by handleConn) and the
// socket write (done by the caller after the chain returns). The controller
// is caller-owned only; a provider-hosted service reports a business failure
// through its response payload (see userservice.LoginResponse.Result), the
// same way the original's CallMethod(method, nil, request, response, done)
// leaves the provider with no failure channel of its own.
func (p *Provider) businessHandler(ctx context.Context, req *middleware.Request) *middleware.Response {
	svc, method, ok := p.table.Lookup(req.Header.ServiceName, req.Header.MethodName)
	if !ok {
		return &middleware.Response{Err: req.Header.ServiceName + "." + req.Header.MethodName + " is not registered"}
	}

	request := method.NewRequest()
	if err := request.Unmarshal(req.Payload); err != nil {
		return &middleware.Response{Err: "request parse error: " + err.Error()}
	}
	response := method.NewResponse()

	respCh := make(chan *middleware.Response, 1)

	svc.CallMethod(method, nil, request, response, func() {
		payload, err := response.Marshal()
		if err != nil {
			respCh <- &middleware.Response{Err: "serialize response error: " + err.Error()}
			return
		}
		respCh <- &middleware.Response{Payload: payload}
	})

	return <-respCh
}
