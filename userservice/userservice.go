// Package userservice is a sample service demonstrating the capability-set
// Service interface: a UserServiceRpc exposing a single Login method,
// matching the literal values spec.md §8 scenario 1 names.
package userservice

import (
	"encoding/json"

	"github.com/Ph0m1/prpc/controller"
	"github.com/Ph0m1/prpc/message"
	"github.com/Ph0m1/prpc/service"
)

// LoginRequest is the Login method's request payload.
type LoginRequest struct {
	Name string `json:"name"`
	Pwd  string `json:"pwd"`
}

func (r *LoginRequest) Marshal() ([]byte, error) { return json.Marshal(r) }
func (r *LoginRequest) Unmarshal(b []byte) error { return json.Unmarshal(b, r) }

// Result mirrors the {errcode, errmsg} pair spec.md §8 scenario 1 names.
type Result struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// LoginResponse is the Login method's response payload.
type LoginResponse struct {
	Result  Result `json:"result"`
	Success bool   `json:"success"`
}

func (r *LoginResponse) Marshal() ([]byte, error) { return json.Marshal(r) }
func (r *LoginResponse) Unmarshal(b []byte) error { return json.Unmarshal(b, r) }

// UserService implements service.Service with a single Login method that
// accepts any non-empty name/password pair.
type UserService struct{}

func (s *UserService) Descriptor() *service.Descriptor {
	return &service.Descriptor{
		Name: "UserServiceRpc",
		Methods: []*service.MethodDescriptor{
			{
				Name:        "Login",
				NewRequest:  func() message.Message { return &LoginRequest{} },
				NewResponse: func() message.Message { return &LoginResponse{} },
			},
		},
	}
}

func (s *UserService) CallMethod(method *service.MethodDescriptor, ctrl *controller.Controller, request, response message.Message, done func()) {
	req := request.(*LoginRequest)
	resp := response.(*LoginResponse)

	if req.Name == "" || req.Pwd == "" {
		resp.Result = Result{ErrCode: 1, ErrMsg: "name and pwd are required"}
		resp.Success = false
		done()
		return
	}

	resp.Result = Result{ErrCode: 0, ErrMsg: ""}
	resp.Success = true
	done()
}
