// Package service implements the descriptor-based service capability
// spec.md §9 calls for in place of a reflected vtable: a Service describes
// itself, hands out fresh request/response prototypes per method, and
// invokes a method given already-decoded request/response values.
//
// Grounded on _examples/original_source/src/provider.cc's NotifyService and
// ServiceInfo (a google::protobuf::Service plus its per-method descriptor
// map), and on _examples/BX-D-mini-RPC/server/service.go for the Go shape
// of a per-service method table — generalized away from that file's
// reflect.Method scanning, since spec.md's data model names explicit
// request/response prototypes rather than a Go method's parameter types.
package service

import (
	"fmt"
	"sync"

	"github.com/Ph0m1/prpc/controller"
	"github.com/Ph0m1/prpc/message"
)

// MethodDescriptor names one RPC method and how to build fresh request and
// response values for it — the Go equivalent of
// google::protobuf::MethodDescriptor plus GetRequestPrototype/GetResponsePrototype.
type MethodDescriptor struct {
	Name        string
	NewRequest  func() message.Message
	NewResponse func() message.Message
}

// Descriptor names a service and its ordered methods. It is built once,
// when the service is constructed, and never mutated afterwards.
type Descriptor struct {
	Name    string
	Methods []*MethodDescriptor
}

// Service is implemented by user code exposing RPC methods. CallMethod may
// invoke done synchronously or asynchronously — the framework does not
// constrain that, mirroring spec.md §4.5 step 8.
type Service interface {
	Descriptor() *Descriptor
	CallMethod(method *MethodDescriptor, ctrl *controller.Controller, request, response message.Message, done func())
}

// Table is the provider's read-after-registration service map: service name
// to Service, plus a per-service method-name index built once in Register
// and never mutated during Run — spec.md §3's invariant.
type Table struct {
	mu       sync.RWMutex
	services map[string]Service
	methods  map[string]map[string]*MethodDescriptor
}

// NewTable returns an empty service table.
func NewTable() *Table {
	return &Table{
		services: make(map[string]Service),
		methods:  make(map[string]map[string]*MethodDescriptor),
	}
}

// Register indexes svc's methods by name. It is idempotent over the same
// descriptor: registering the same service name twice replaces the entry
// rather than accumulating duplicate method maps, matching spec.md §8's
// "NotifyService(s) is idempotent over the same descriptor."
func (t *Table) Register(svc Service) error {
	desc := svc.Descriptor()
	if desc == nil || desc.Name == "" {
		return fmt.Errorf("service: descriptor must have a non-empty name")
	}

	methodMap := make(map[string]*MethodDescriptor, len(desc.Methods))
	for _, m := range desc.Methods {
		if m.Name == "" {
			return fmt.Errorf("service: %s has a method with an empty name", desc.Name)
		}
		if _, dup := methodMap[m.Name]; dup {
			return fmt.Errorf("service: %s has duplicate method %s", desc.Name, m.Name)
		}
		methodMap[m.Name] = m
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.services[desc.Name] = svc
	t.methods[desc.Name] = methodMap
	return nil
}

// Lookup resolves a service and method by name for dispatch. It returns ok
// == false if either the service or the method is unknown.
func (t *Table) Lookup(serviceName, methodName string) (svc Service, method *MethodDescriptor, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	svc, ok = t.services[serviceName]
	if !ok {
		return nil, nil, false
	}
	method, ok = t.methods[serviceName][methodName]
	if !ok {
		return nil, nil, false
	}
	return svc, method, true
}

// Services returns a snapshot of (serviceName, methodName) pairs currently
// registered, used by the provider to build the registry tree of spec.md §3.
func (t *Table) Services() map[string][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string][]string, len(t.methods))
	for svcName, methods := range t.methods {
		names := make([]string, 0, len(methods))
		for name := range methods {
			names = append(names, name)
		}
		out[svcName] = names
	}
	return out
}
