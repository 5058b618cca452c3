package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/CAFxX/httpcompression"
	"github.com/dgraph-io/badger/v4"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/stephenreynolds/flamegraph-ai/internal/httputil"
	"github.com/stephenreynolds/flamegraph-ai/internal/logutil"
	"github.com/stephenreynolds/flamegraph-ai/internal/reporter"
	"github.com/stephenreynolds/flamegraph-ai/internal/storageprovider"
	"github.com/stephenreynolds/flamegraph-ai/internal/storageutil"
)

type environment struct {
	config ServiceConfig

	profiles storageutil.ObjectHandler
	badgerDB *badger.DB

	hotspotsWriter *kafka.Writer
	reporting      *reporter.Client
}

var release string

func newEnvironment() (*environment, error) {
	var e environment
	if err := cleanenv.ReadEnv(&e.config); err != nil {
		return nil, err
	}

	if e.config.ProfilesBucket != "" {
		storageClient, err := storage.NewClient(context.Background())
		if err != nil {
			return nil, err
		}
		e.profiles = &storageprovider.Gcs{
			BucketHandle: storageClient.Bucket(e.config.ProfilesBucket),
		}
	} else {
		db, err := badger.Open(badger.DefaultOptions(e.config.BadgerPath))
		if err != nil {
			return nil, err
		}
		e.badgerDB = db
		e.profiles = &storageprovider.Badger{DB: db}
	}

	if len(e.config.HotspotsKafkaBrokers) > 0 {
		e.hotspotsWriter = &kafka.Writer{
			Addr:         kafka.TCP(e.config.HotspotsKafkaBrokers...),
			Async:        true,
			Balancer:     kafka.CRC32Balancer{},
			BatchSize:    10,
			Compression:  kafka.Lz4,
			ReadTimeout:  3 * time.Second,
			Topic:        e.config.HotspotsKafkaTopic,
			WriteTimeout: 3 * time.Second,
		}
	}

	if e.config.ReportingServiceHost != "" {
		client, err := reporter.NewClient(e.config.ReportingServiceHost)
		if err != nil {
			return nil, err
		}
		e.reporting = &client
	}

	return &e, nil
}

func (e *environment) shutdown() {
	if e.hotspotsWriter != nil {
		if err := e.hotspotsWriter.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	if e.badgerDB != nil {
		if err := e.badgerDB.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	sentry.Flush(5 * time.Second)
}

func (e *environment) newRouter() (*httprouter.Router, error) {
	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, err
	}

	routes := []struct {
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{http.MethodGet, "/health", e.getHealth},
		{http.MethodGet, "/profiles/:profile_id", e.getRawProfile},
		{http.MethodGet, "/profiles/:profile_id/hotspots", e.getProfileHotspots},
		{http.MethodPost, "/profile", e.postProfile},
	}

	router := httprouter.New()

	for _, route := range routes {
		handlerFunc := httputil.DecompressPayload(route.handler)
		handler := compress(handlerFunc)

		router.Handler(route.method, route.path, handler)
	}

	return router, nil
}

func main() {
	logutil.ConfigureLogger()

	env, err := newEnvironment()
	if err != nil {
		log.Fatal().Err(err).Msg("error setting up environment")
	}

	err = sentry.Init(sentry.ClientOptions{
		BeforeSend:       httputil.SetHTTPStatusCodeTag,
		Dsn:              env.config.SentryDSN,
		EnableTracing:    true,
		Environment:      env.config.Environment,
		Release:          release,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("can't initialize sentry")
	}

	router, err := env.newRouter()
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal().Err(err).Msg("error setting up the router")
	}

	server := http.Server{
		Addr:    ":" + strconv.Itoa(env.config.Port),
		Handler: sentryhttp.New(sentryhttp.Options{}).Handle(router),
	}

	waitForShutdown := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(cctx); err != nil {
			sentry.CaptureException(err)
			log.Err(err).Msg("error shutting down server")
		}

		close(waitForShutdown)
	}()

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		sentry.CaptureException(err)
		log.Err(err).Msg("server failed")
	}

	<-waitForShutdown

	// Shutdown the rest of the environment after the HTTP connections are closed
	env.shutdown()
}

func (e *environment) getHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
