package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campuslink/channel-delivery-service/config"
	"github.com/urfave/cli/v2"
)

const (
	ServiceName      = "channel-delivery-service"
	ServiceNamespace = "campuslink"
)

var (
	version        = "0.0.0"
	commit         = "hash"
	commitDate     = time.Now().String()
	branch         = "branch"
	buildTimestamp = ""
)

func Run() error {
	app := &cli.App{
		Name:  ServiceName,
		Usage: "Realtime channel messaging core for the CampusLink portal",
		Commands: []*cli.Command{
			serverCmd(),
		},
	}

	return app.Run(os.Args)
}

func serverCmd() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Run the websocket gateway and REST fallback server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config_file",
				Usage: "Path to the configuration file",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config_file"))
			if err != nil {
				return err
			}
			app := NewApp(cfg)

			if err := app.Start(c.Context); err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			slog.Info("Shutting down...")
			return app.Stop(context.Background())
		},
	}
}
