// Command provider hosts RPC services and registers them in ZooKeeper.
//
// It exposes a single "-i <path>" flag, so it parses it with
// config.ParseFlags (stdlib flag) rather than pulling in a CLI framework —
// see DESIGN.md.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Ph0m1/prpc/config"
	"github.com/Ph0m1/prpc/middleware"
	"github.com/Ph0m1/prpc/provider"
	"github.com/Ph0m1/prpc/registry"
	"github.com/Ph0m1/prpc/service"
	"github.com/Ph0m1/prpc/userservice"
)

func main() {
	configPath, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("provider exited with error")
	}

	if err := run(configPath); err != nil {
		logrus.WithError(err).Fatal("provider exited with error")
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	config.SetGlobal(cfg)

	rpcEndpoint, err := cfg.RPCServerEndpoint()
	if err != nil {
		return err
	}
	zkEndpoint, err := cfg.ZookeeperEndpoint()
	if err != nil {
		return err
	}

	table := service.NewTable()
	if err := table.Register(&userservice.UserService{}); err != nil {
		return err
	}

	reg := registry.New(zkEndpoint)

	p := provider.New(
		provider.Config{
			ListenAddr:    rpcEndpoint,
			AdvertiseAddr: rpcEndpoint,
			Workers:       cfg.ThreadNum(),
		},
		table,
		reg,
		middleware.Recover(),
		middleware.Logging(),
	)

	return p.Run()
}
