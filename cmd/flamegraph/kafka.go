package main

import (
	"github.com/stephenreynolds/flamegraph-ai/internal/hotspot"
)

type (
	// HotspotsKafkaMessage is the envelope we publish for every analyzed
	// profile so downstream consumers can index hotspots.
	HotspotsKafkaMessage struct {
		Environment string           `json:"environment,omitempty"`
		ProfileID   string           `json:"profile_id"`
		Received    int64            `json:"received"`
		Summary     *hotspot.Summary `json:"summary"`
	}
)
