package cmd

import (
	"context"
	"math/rand/v2"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/burakkonte/sinyalist/internal/conf"
	"github.com/burakkonte/sinyalist/internal/errors"
	"github.com/burakkonte/sinyalist/internal/events"
	"github.com/burakkonte/sinyalist/internal/logging"
	"github.com/burakkonte/sinyalist/internal/mqttpub"
	"github.com/burakkonte/sinyalist/internal/seismic"
	"github.com/burakkonte/sinyalist/internal/telemetry"
	"github.com/burakkonte/sinyalist/internal/wsserver"
)

const (
	eventBusBufferSize = 64
	eventBusWorkers    = 1
)

func serveCommand() *cobra.Command {
	var devicePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the detector and its consumers (no sample source is attached)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), devicePath)
		},
	}

	cmd.Flags().StringVar(&devicePath, "device", "", "path or identifier for the accelerometer source (only logged at startup; no source is wired)")
	return cmd
}

func runServe(ctx context.Context, devicePath string) error {
	settings, err := conf.Load(cfgFile)
	if err != nil {
		return errors.New(err).Component("cmd").Category(errors.CategoryConfiguration).Build()
	}

	logging.Init(logging.ParseLevel(settings.Log.Level), settings.Log.Path, settings.Log.MaxSizeMB, settings.Log.MaxBackups, settings.Log.MaxAgeDays)
	log := logging.Structured()
	log.Info("starting sinyalist", "device", devicePath)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return errors.New(err).Component("telemetry").Category(errors.CategoryConfiguration).Build()
	}

	var hub *wsserver.Hub
	if settings.WebSocket.Enabled {
		hub = wsserver.NewHub(settings.WebSocket.Addr)
	}

	var publisher *mqttpub.Publisher
	if settings.MQTT.Enabled {
		publisher = mqttpub.NewPublisher(settings.MQTT, "sinyalist-"+randomSuffix())
		if err := publisher.Connect(ctx); err != nil {
			log.Warn("initial mqtt connect failed, will retry on reconnect timer", "error", err)
		}
	}

	eventBus := events.NewBus[seismic.SeismicEvent](eventBusBufferSize, eventBusWorkers)
	debugBus := events.NewBus[seismic.DebugTelemetry](eventBusBufferSize, eventBusWorkers)

	eventBus.Register(events.ConsumerFunc[seismic.SeismicEvent]{
		FuncName: "metrics",
		Fn:       func(event seismic.SeismicEvent) { metrics.ObserveEvent(event.Level.String()) },
	})
	if hub != nil {
		eventBus.Register(events.ConsumerFunc[seismic.SeismicEvent]{
			FuncName: "wsserver",
			Fn:       func(event seismic.SeismicEvent) { hub.BroadcastEvent(event) },
		})
		debugBus.Register(events.ConsumerFunc[seismic.DebugTelemetry]{
			FuncName: "wsserver",
			Fn:       func(t seismic.DebugTelemetry) { hub.BroadcastDebug(t) },
		})
	}
	if publisher != nil {
		eventBus.Register(events.ConsumerFunc[seismic.SeismicEvent]{
			FuncName: "mqtt",
			Fn: func(event seismic.SeismicEvent) {
				if err := publisher.Publish(ctx, event); err != nil {
					log.Warn("mqtt publish failed", "error", err)
				}
			},
		})
	}
	debugBus.Register(events.ConsumerFunc[seismic.DebugTelemetry]{
		FuncName: "metrics",
		Fn: func(t seismic.DebugTelemetry) {
			metrics.ObserveDebug(t.Ratio, t.AdaptiveTrigger)
			if t.LastReject != seismic.RejectNone {
				metrics.ObserveReject(t.LastReject.String())
			}
		},
	})

	detector := seismic.New(
		func(event seismic.SeismicEvent) {
			if !eventBus.Publish(event) {
				metrics.ObserveBusDrop("event")
			}
		},
		func(t seismic.DebugTelemetry) {
			if !debugBus.Publish(t) {
				metrics.ObserveBusDrop("debug")
			}
		},
	)
	detector.UpdateConfig(settings.Detector)

	group, groupCtx := errgroup.WithContext(ctx)

	if hub != nil {
		ln, err := net.Listen("tcp", settings.WebSocket.Addr)
		if err != nil {
			return errors.New(err).Component("wsserver").Category(errors.CategoryWebSocket).Build()
		}
		group.Go(func() error {
			log.Info("websocket dashboard feed listening", "addr", settings.WebSocket.Addr)
			if err := hub.Serve(ln); err != nil && err != http.ErrServerClosed {
				return errors.New(err).Component("wsserver").Category(errors.CategoryWebSocket).Build()
			}
			return nil
		})
	}

	if settings.Metrics.Enabled {
		mux := http.NewServeMux()
		telemetry.RegisterMetricsHandlers(mux)
		server := &http.Server{Addr: settings.Metrics.Addr, Handler: mux}
		group.Go(func() error {
			log.Info("metrics endpoint listening", "addr", settings.Metrics.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	group.Go(func() error {
		return runSampleSource(groupCtx, devicePath, detector)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		eventBus.Close()
		debugBus.Close()
		if hub != nil {
			hub.Close()
		}
		if publisher != nil {
			publisher.Disconnect()
		}
		return nil
	})

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("sinyalist shut down cleanly")
	return nil
}

// runSampleSource blocks until ctx is cancelled. Attaching to a real
// accelerometer device is platform-specific and outside this module's
// scope; this loop exists so `serve` has somewhere to push samples into
// once a binding is wired in for a given target platform.
func runSampleSource(ctx context.Context, devicePath string, detector *seismic.Detector) error {
	<-ctx.Done()
	return nil
}

func randomSuffix() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}
