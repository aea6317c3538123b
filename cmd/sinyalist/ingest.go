package cmd

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/burakkonte/sinyalist/internal/conf"
	"github.com/burakkonte/sinyalist/internal/errors"
	"github.com/burakkonte/sinyalist/internal/ingest"
	"github.com/burakkonte/sinyalist/internal/logging"
)

func ingestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run the multi-device consensus ingestion server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context())
		},
	}
	return cmd
}

func runIngest(ctx context.Context) error {
	settings, err := conf.Load(cfgFile)
	if err != nil {
		return errors.New(err).Component("cmd").Category(errors.CategoryConfiguration).Build()
	}

	logging.Init(logging.ParseLevel(settings.Log.Level), settings.Log.Path, settings.Log.MaxSizeMB, settings.Log.MaxBackups, settings.Log.MaxAgeDays)
	log := logging.Structured()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := ingest.NewServer(
		settings.Ingest.ConsensusMinDevices,
		settings.Ingest.RatePerKeyPerMin,
		settings.Ingest.RatePerGeoPerMin,
		time.Duration(settings.Ingest.DedupTTLSeconds)*time.Second,
	)

	persister := ingest.NewNDJSONPersister(settings.Ingest.PersistPath)
	srv.RegisterPersistConsumer(persister)
	srv.RegisterRelayConsumer(ingest.LogRelay{})

	ln, err := net.Listen("tcp", settings.Ingest.Addr)
	if err != nil {
		return errors.New(err).Component("ingest").Category(errors.CategoryIngest).Build()
	}

	httpServer := &http.Server{Handler: srv.Handler()}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("ingestion server listening", "addr", settings.Ingest.Addr)
		if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			return errors.New(err).Component("ingest").Category(errors.CategoryIngest).Build()
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		srv.Close()
		return persister.Close()
	})

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("ingestion server shut down cleanly")
	return nil
}
