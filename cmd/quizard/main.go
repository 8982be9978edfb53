package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/urfave/cli/v2"

	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/container"
	util "github.com/saulo-duarte/quizard/internal/utils"

	_ "time/tzdata"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadEnv()
	config.Init()

	app := &cli.App{
		Name:  "quizard",
		Usage: "quiz management backend",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API, or the Lambda handler inside AWS Lambda",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "insert sample subjects, users and a quiz",
				Action: seed,
			},
			{
				Name:  "sweep",
				Usage: "mark stale in-progress attempts as abandoned",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "older-than", Value: 24 * time.Hour, Usage: "minimum attempt age"},
				},
				Action: sweep,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		config.Logger().WithError(err).Fatal("quizard failed")
	}
}

func open(ctx context.Context) (*container.Container, error) {
	settings := config.Load()
	if err := util.SetLocation(settings.Timezone); err != nil {
		return nil, err
	}
	return container.New(ctx, settings)
}

func serve(c *cli.Context) error {
	ctx := c.Context
	auth.Init()

	app, err := open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	go app.Hub.Run(ctx)
	handler := app.Router()

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		config.Logger().Info("Starting Lambda handler")
		lambda.Start(httpadapter.New(handler).ProxyWithContext)
		return nil
	}

	srv := &http.Server{
		Addr:              app.Settings.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		config.Logger().WithField("addr", srv.Addr).Info("HTTP server listening")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	config.Logger().Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}

func migrate(c *cli.Context) error {
	app, err := open(c.Context)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Migrate(); err != nil {
		return err
	}
	config.Logger().Info("Database migrated")
	return nil
}

func seed(c *cli.Context) error {
	app, err := open(c.Context)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Migrate(); err != nil {
		return err
	}
	return app.Seed(c.Context)
}

func sweep(c *cli.Context) error {
	app, err := open(c.Context)
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := app.AttemptContainer.Service.SweepAbandoned(c.Context, c.Duration("older-than"))
	if err != nil {
		return err
	}
	config.Logger().WithField("abandoned", n).Info("Sweep finished")
	return nil
}
