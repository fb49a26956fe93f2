// Command caller invokes a remote method through a Channel, resolving its
// endpoint from ZooKeeper. The default action demonstrates the
// UserServiceRpc.Login call spec.md §8 scenario 1 names.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Ph0m1/prpc/channel"
	"github.com/Ph0m1/prpc/config"
	"github.com/Ph0m1/prpc/controller"
	"github.com/Ph0m1/prpc/registry"
	"github.com/Ph0m1/prpc/service"
	"github.com/Ph0m1/prpc/userservice"
)

func main() {
	app := &cli.App{
		Name:  "caller",
		Usage: "invoke RPC methods registered in ZooKeeper",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "i", Usage: "configuration file path", Required: true},
			&cli.StringFlag{Name: "name", Usage: "login name", Value: "alice"},
			&cli.StringFlag{Name: "pwd", Usage: "login password", Value: "secret"},
		},
		Action: func(c *cli.Context) error {
			return runLogin(c.Path("i"), c.String("name"), c.String("pwd"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("caller exited with error")
	}
}

func runLogin(configPath, name, pwd string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	config.SetGlobal(cfg)

	zkEndpoint, err := cfg.ZookeeperEndpoint()
	if err != nil {
		return err
	}

	reg := registry.New(zkEndpoint)
	if err := reg.Start(func() {
		logrus.Warn("zookeeper session expired during caller lifetime")
	}); err != nil {
		return err
	}
	defer reg.Close()

	ch := channel.New(reg)
	defer ch.Close()

	desc := &service.Descriptor{Name: "UserServiceRpc"}
	method := &service.MethodDescriptor{Name: "Login"}

	req := &userservice.LoginRequest{Name: name, Pwd: pwd}
	resp := &userservice.LoginResponse{}
	ctrl := controller.New()

	ch.CallMethod(desc, method, ctrl, req, resp, nil)
	if ctrl.Failed() {
		return fmt.Errorf("login failed: %s", ctrl.ErrorText())
	}

	fmt.Printf("login result: success=%v errcode=%d errmsg=%q\n", resp.Success, resp.Result.ErrCode, resp.Result.ErrMsg)
	return nil
}
