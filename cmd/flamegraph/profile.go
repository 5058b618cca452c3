package main

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	gojson "github.com/goccy/go-json"

	"github.com/stephenreynolds/flamegraph-ai/internal/hotspot"
	"github.com/stephenreynolds/flamegraph-ai/internal/reporter"
	"github.com/stephenreynolds/flamegraph-ai/internal/storageutil"
)

type PostProfileResponse struct {
	ProfileID string           `json:"profile_id"`
	Summary   *hotspot.Summary `json:"summary"`
}

func (e *environment) postProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)

	s := sentry.StartSpan(ctx, "request.body")
	s.Description = "Read request body"
	body, err := io.ReadAll(r.Body)
	s.Finish()
	if err != nil {
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s = sentry.StartSpan(ctx, "json.unmarshal")
	s.Description = "Unmarshal trace document"
	var document interface{}
	err = gojson.Unmarshal(body, &document)
	s.Finish()
	if err != nil {
		log.Err(err).Msg("profile can't be unmarshaled")
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	s = sentry.StartSpan(ctx, "hotspot.analyze")
	s.Description = "Analyze trace document"
	summary, err := hotspot.Analyze(document)
	s.Finish()
	if err != nil {
		if hotspot.IsValidationError(err) {
			log.Warn().Err(err).Msg("invalid trace document")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	profileID := uuid.New().String()

	s = sentry.StartSpan(ctx, "storage.write")
	s.Description = "Write trace document to storage"
	err = storageutil.CompressedWrite(ctx, e.profiles, profileID, document)
	s.Finish()
	if err != nil {
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	received := time.Now().Unix()

	if e.hotspotsWriter != nil {
		b, err := gojson.Marshal(HotspotsKafkaMessage{
			Environment: e.config.Environment,
			ProfileID:   profileID,
			Received:    received,
			Summary:     summary,
		})
		if err != nil {
			hub.CaptureException(err)
		} else {
			err = e.hotspotsWriter.WriteMessages(ctx, kafka.Message{
				Key:   []byte(profileID),
				Value: b,
			})
			if err != nil {
				hub.CaptureException(err)
				log.Err(err).Str("profile_id", profileID).Msg("can't publish hotspots")
			}
		}
	}

	if e.reporting != nil {
		err = e.reporting.SendSummary(ctx, reporter.ReportPayload{
			ProfileID: profileID,
			Received:  received,
			Summary:   summary,
		})
		if err != nil {
			// Reporting is best effort, the summary is still returned.
			hub.CaptureException(err)
			log.Err(err).Str("profile_id", profileID).Msg("can't send summary to the reporting service")
		}
	}

	s = sentry.StartSpan(ctx, "json.marshal")
	s.Description = "Marshal response"
	defer s.Finish()

	b, err := gojson.Marshal(PostProfileResponse{
		ProfileID: profileID,
		Summary:   summary,
	})
	if err != nil {
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (e *environment) getRawProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)
	ps := httprouter.ParamsFromContext(ctx)
	profileID := ps.ByName("profile_id")
	hub.Scope().SetTag("profile_id", profileID)

	var document interface{}
	err := storageutil.UnmarshalCompressed(ctx, e.profiles, profileID, &document)
	if err != nil {
		if errors.Is(err, storageutil.ErrObjectNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	b, err := gojson.Marshal(document)
	if err != nil {
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (e *environment) getProfileHotspots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)
	ps := httprouter.ParamsFromContext(ctx)
	profileID := ps.ByName("profile_id")
	hub.Scope().SetTag("profile_id", profileID)

	var document interface{}
	err := storageutil.UnmarshalCompressed(ctx, e.profiles, profileID, &document)
	if err != nil {
		if errors.Is(err, storageutil.ErrObjectNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Stored documents were validated at ingest time, a failure here is
	// unexpected but still maps through the same predicate.
	summary, err := hotspot.Analyze(document)
	if err != nil {
		if hotspot.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	b, err := gojson.Marshal(summary)
	if err != nil {
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}
