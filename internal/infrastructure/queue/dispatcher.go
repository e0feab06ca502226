package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/medtrack/patient-system/internal/api/metrics"
	"github.com/medtrack/patient-system/internal/core/domain"
	"github.com/medtrack/patient-system/internal/infrastructure/wire"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256

	// Topic is the broker destination for patient change events.
	Topic = "patient"
)

// Sink is the broker boundary the dispatcher publishes through.
type Sink interface {
	Send(ctx context.Context, topic string, payload []byte) error
}

// Dispatcher is the asynchronous, best-effort event publisher. Events are
// routed to a fixed set of workers using consistent hashing on the patient
// id, guaranteeing per-patient publish ordering. Enqueueing never blocks the
// write pipeline: when a worker channel is full the event is dropped and
// counted. Sink failures are logged and counted, never surfaced.
type Dispatcher struct {
	workers     []chan domain.PatientChangeEvent
	sink        Sink
	sendTimeout time.Duration
	log         zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers. If
// numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink Sink, sendTimeout time.Duration, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if sendTimeout <= 0 {
		sendTimeout = 2 * time.Second
	}
	d := &Dispatcher{
		workers:     make([]chan domain.PatientChangeEvent, numWorkers),
		sink:        sink,
		sendTimeout: sendTimeout,
		log:         log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.PatientChangeEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish enqueues an event for the worker responsible for its patient id.
// The call never blocks: on a full channel the event is dropped and logged.
func (d *Dispatcher) Publish(event domain.PatientChangeEvent) {
	idx := d.shardIndex(event.PatientID)
	select {
	case d.workers[idx] <- event:
		metrics.PublishQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.EventsPublishErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Str("patient_id", event.PatientID).
			Str("event_type", string(event.Type)).
			Msg("publish queue full, event dropped")
	}
}

// shardIndex maps a patient id deterministically to a worker index.
func (d *Dispatcher) shardIndex(patientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(patientID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.PatientChangeEvent) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.PublishQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			d.send(ctx, event)
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, event domain.PatientChangeEvent) {
	payload := wire.EncodePatientEvent(event)

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.sink.Send(sendCtx, Topic, payload); err != nil {
		metrics.EventsPublishErrorsTotal.WithLabelValues("broker_send").Inc()
		d.log.Error().Err(err).
			Str("patient_id", event.PatientID).
			Str("event_type", string(event.Type)).
			Msg("failed to publish patient event")
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues(string(event.Type)).Inc()
	d.log.Debug().
		Str("patient_id", event.PatientID).
		Str("event_type", string(event.Type)).
		Msg("patient event published")
}
