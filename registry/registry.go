// Package registry wraps a ZooKeeper client connection for the coordination
// model spec.md §3 describes: persistent parent znodes named after a
// service, ephemeral child znodes named after a method and holding that
// method's "ip:port" endpoint, and a session-expired callback that fires
// once per session loss so the provider can re-register.
//
// Grounded on _examples/original_source/src/zookeeperutil.cc's ZkClient,
// translated from its exists-then-create async C callback chain (zoo_aexists
// -> zoo_acreate, unblocking a std::promise) into Go's synchronous
// github.com/go-zookeeper/zk API, which already blocks the calling
// goroutine — no promise/future plumbing is needed to get the same
// blocking-until-complete behavior the original achieves with semaphores.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/sirupsen/logrus"

	"github.com/Ph0m1/prpc/perr"
)

// sessionTimeout matches the 3000ms passed to zookeeper_init in
// zookeeperutil.cc's ZkClient::Start.
const sessionTimeout = 3 * time.Second

// zkConn is the subset of *zk.Conn this package calls. Client depends on
// this interface instead of the concrete type so tests can substitute a
// fake in-memory znode tree rather than needing a live ZooKeeper ensemble.
type zkConn interface {
	Exists(path string) (bool, *zk.Stat, error)
	Create(path string, data []byte, flags int32, acl []zk.ACL) (string, error)
	Get(path string) ([]byte, *zk.Stat, error)
	Close()
}

// Client is a thin, connection-lifecycle-aware wrapper around a
// go-zookeeper/zk.Conn.
type Client struct {
	endpoint string

	mu   sync.Mutex
	conn zkConn

	onExpired func()
}

// New returns a Client that will dial endpoint (host:port) on Start.
func New(endpoint string) *Client {
	return &Client{endpoint: endpoint}
}

// Start connects to the ZooKeeper ensemble and blocks until the session
// reaches zk.StateHasSession, mirroring ZkClient::Start's sem_wait on the
// global watcher's ZOO_CONNECTED_STATE callback. sessionExpired is invoked
// once per Start, from a background goroutine, the first time the session
// this call opened transitions to zk.StateExpired; calling Start again after
// an expiry arms the callback for the new session.
func (c *Client) Start(sessionExpired func()) error {
	c.onExpired = sessionExpired

	conn, events, err := zk.Connect([]string{c.endpoint}, sessionTimeout)
	if err != nil {
		return perr.Wrap(perr.CoordinationError, err, "registry: connect to "+c.endpoint)
	}

	connected := make(chan struct{})
	go c.watch(events, connected)

	select {
	case <-connected:
	case <-time.After(sessionTimeout * 2):
		conn.Close()
		return perr.New(perr.CoordinationError, "registry: timed out waiting for zookeeper session")
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	logrus.WithField("endpoint", c.endpoint).Info("zookeeper session established")
	return nil
}

// watch drains conn's event channel for the lifetime of the session,
// signaling connected once on the first StateHasSession and invoking
// onExpired (once per watched session) on StateExpired.
func (c *Client) watch(events <-chan zk.Event, connected chan struct{}) {
	var signaled, expired bool
	for ev := range events {
		if ev.Type != zk.EventSession {
			continue
		}
		switch ev.State {
		case zk.StateHasSession:
			if !signaled {
				signaled = true
				close(connected)
			}
		case zk.StateExpired:
			logrus.WithField("endpoint", c.endpoint).Warn("zookeeper session expired")
			if !expired {
				expired = true
				if c.onExpired != nil {
					c.onExpired()
				}
			}
		}
	}
}

// Close releases the underlying zk connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Client) conn_() (zkConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, perr.New(perr.CoordinationError, "registry: not started")
	}
	return c.conn, nil
}

// Create ensures path exists with data, creating it if absent. It is the Go
// translation of ZkClient::Create's exists_completion_callback chain: check
// existence first, and only create on ZNONODE, so that re-registering an
// already-present path after a reconnect is a no-op rather than an error.
func (c *Client) Create(path string, data []byte, flags int32) error {
	conn, err := c.conn_()
	if err != nil {
		return err
	}

	exists, _, err := conn.Exists(path)
	if err != nil {
		return perr.Wrap(perr.CoordinationError, err, fmt.Sprintf("registry: exists(%s)", path))
	}
	if exists {
		return nil
	}

	_, err = conn.Create(path, data, flags, zk.WorldACL(zk.PermAll))
	if err != nil && err != zk.ErrNodeExists {
		return perr.Wrap(perr.CoordinationError, err, fmt.Sprintf("registry: create(%s)", path))
	}
	return nil
}

// CreatePersistent ensures a permanent znode exists at path, used for the
// per-service parent node spec.md §3 describes.
func (c *Client) CreatePersistent(path string, data []byte) error {
	return c.Create(path, data, 0)
}

// CreateEphemeral ensures an ephemeral znode exists at path, tied to this
// client's session lifetime, used for the per-method leaf node spec.md §3
// describes.
func (c *Client) CreateEphemeral(path string, data []byte) error {
	return c.Create(path, data, zk.FlagEphemeral)
}

// RegisterMethod ensures /serviceName exists as a persistent, empty parent
// znode and /serviceName/methodName exists as an ephemeral znode holding
// endpoint ("ip:port"), matching the two-level tree spec.md §3 describes.
func (c *Client) RegisterMethod(serviceName, methodName, endpoint string) error {
	servicePath := "/" + serviceName
	if err := c.CreatePersistent(servicePath, nil); err != nil {
		return err
	}
	methodPath := servicePath + "/" + methodName
	return c.CreateEphemeral(methodPath, []byte(endpoint))
}

// ResolveMethod returns the "ip:port" endpoint registered for
// serviceName/methodName, the lookup step a caller performs before dialing.
func (c *Client) ResolveMethod(serviceName, methodName string) (string, error) {
	data, err := c.GetData("/" + serviceName + "/" + methodName)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetData reads the data stored at path, the Go translation of
// ZkClient::GetData's zoo_aget/get_completion_callback pair.
func (c *Client) GetData(path string) ([]byte, error) {
	conn, err := c.conn_()
	if err != nil {
		return nil, err
	}

	data, _, err := conn.Get(path)
	if err != nil {
		return nil, perr.Wrap(perr.CoordinationError, err, fmt.Sprintf("registry: get(%s)", path))
	}
	return data, nil
}
