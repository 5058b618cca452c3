package main

type (
	ServiceConfig struct {
		Environment string `env:"FLAMEGRAPH_ENVIRONMENT" env-default:"development"`
		Port        int    `env:"PORT" env-default:"8080"`

		SentryDSN string `env:"SENTRY_DSN"`

		// When a bucket is configured profiles are stored in GCS,
		// otherwise they land in a local badger DB.
		ProfilesBucket string `env:"PROFILES_BUCKET"`
		BadgerPath     string `env:"BADGER_PATH" env-default:"/var/lib/flamegraph/profiles"`

		HotspotsKafkaBrokers []string `env:"HOTSPOTS_KAFKA_BROKERS"`
		HotspotsKafkaTopic   string   `env:"HOTSPOTS_KAFKA_TOPIC" env-default:"profile-hotspots"`

		ReportingServiceHost string `env:"REPORTING_SERVICE_HOST"`
	}
)
