package userservice

import (
	"testing"

	"github.com/Ph0m1/prpc/controller"
)

func TestLoginSucceedsWithCredentials(t *testing.T) {
	svc := &UserService{}
	req := &LoginRequest{Name: "alice", Pwd: "secret"}
	resp := &LoginResponse{}

	called := false
	svc.CallMethod(svc.Descriptor().Methods[0], controller.New(), req, resp, func() { called = true })

	if !called {
		t.Fatal("expected done to be called")
	}
	if !resp.Success || resp.Result.ErrCode != 0 {
		t.Errorf("got %+v, want a successful login", resp)
	}
}

func TestLoginFailsWithoutPassword(t *testing.T) {
	svc := &UserService{}
	req := &LoginRequest{Name: "alice"}
	resp := &LoginResponse{}

	svc.CallMethod(svc.Descriptor().Methods[0], controller.New(), req, resp, func() {})

	if resp.Success {
		t.Error("expected login to fail without a password")
	}
}

func TestLoginRequestRoundTrip(t *testing.T) {
	req := &LoginRequest{Name: "alice", Pwd: "secret"}
	data, err := req.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got LoginRequest
	if err := got.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got != *req {
		t.Errorf("got %+v, want %+v", got, req)
	}
}
