// Package stream materializes DynamoDB Streams records into domain objects.
//
// Each stream image is converted to a record and hydrated into a new
// instance of the type registered for the source table. The hydrated
// object is handed to a Sink as a Change.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/hydrator/hydrator"
	"github.com/jacentio/hydrator/metadata"
	"github.com/jacentio/hydrator/store"
	"github.com/jacentio/hydrator/store/dynamo"
)

// Op is the kind of change observed on an item.
type Op string

const (
	// OpUpsert is an inserted or modified item.
	OpUpsert Op = "upsert"

	// OpRemove is a deleted item, or an item that was soft deleted by
	// setting its TTL attribute.
	OpRemove Op = "remove"
)

// Change is one materialized stream record.
type Change struct {
	Op      Op
	EventID string
	Table   string

	// Keys holds the item's primary key attributes.
	Keys store.Identifier

	// Entity is the hydrated domain object (a pointer of the registered type).
	Entity any
}

// Sink receives materialized changes.
type Sink interface {
	Apply(ctx context.Context, c Change) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, c Change) error

// Apply implements Sink.
func (f SinkFunc) Apply(ctx context.Context, c Change) error { return f(ctx, c) }

// Registry maps table names to domain types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

// Register maps table to the type of sample, a struct or a pointer to one
// (e.g. &Person{}). It panics on any other sample.
func (r *Registry) Register(table string, sample any) *Registry {
	t := metadata.PointerType(reflect.TypeOf(sample))
	if t == nil {
		panic(fmt.Sprintf("stream: cannot register %T for table %q, want a struct or pointer to struct", sample, table))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[table] = t
	return r
}

// TypeOf returns the type registered for table.
func (r *Registry) TypeOf(table string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[table]
	return t, ok
}

// Handler processes DynamoDB stream events.
type Handler struct {
	hydrator     *hydrator.Hydrator
	registry     *Registry
	sink         Sink
	logger       *slog.Logger
	ttlAttribute string
}

// NewHandler creates a new stream handler.
func NewHandler(h *hydrator.Hydrator, registry *Registry, sink Sink, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	return &Handler{
		hydrator:     h,
		registry:     registry,
		sink:         sink,
		logger:       logger,
		ttlAttribute: dynamo.DefaultTTLAttribute,
	}
}

// WithTTLAttribute sets the attribute marking soft deleted items.
func (h *Handler) WithTTLAttribute(attr string) *Handler {
	h.ttlAttribute = attr
	return h
}

// HandleStream processes DynamoDB stream events.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleStream(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord processes a single DynamoDB stream record.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	table := TableFromARN(record.EventSourceArn)
	t, ok := h.registry.TypeOf(table)
	if !ok {
		h.logger.Warn("skipping record for unregistered table",
			"eventID", record.EventID,
			"table", table,
		)
		return nil
	}

	var (
		op    Op
		image map[string]events.DynamoDBAttributeValue
	)
	switch record.EventName {
	case "INSERT":
		op, image = OpUpsert, record.Change.NewImage
	case "MODIFY":
		op, image = OpUpsert, record.Change.NewImage
		// TTL newly set (was absent/0, now present) is a soft delete
		oldTTL := getNumberAttr(record.Change.OldImage, h.ttlAttribute)
		newTTL := getNumberAttr(record.Change.NewImage, h.ttlAttribute)
		if oldTTL == 0 && newTTL != 0 {
			op = OpRemove
		}
	case "REMOVE":
		op, image = OpRemove, record.Change.OldImage
	default:
		return nil
	}
	if len(image) == 0 {
		h.logger.Warn("skipping record without image",
			"eventID", record.EventID,
			"table", table,
			"event", record.EventName,
		)
		return nil
	}

	entity, err := h.hydrator.Hydrate(ctx, ImageToRecord(image), reflect.New(t.Elem()).Interface())
	if err != nil {
		return fmt.Errorf("hydrate %s: %w", table, err)
	}

	change := Change{
		Op:      op,
		EventID: record.EventID,
		Table:   table,
		Keys:    store.Identifier(ImageToRecord(record.Change.Keys).Map()),
		Entity:  entity,
	}
	if h.sink != nil {
		if err := h.sink.Apply(ctx, change); err != nil {
			return fmt.Errorf("apply %s: %w", table, err)
		}
	}

	h.logger.Info("materialized change",
		"eventID", record.EventID,
		"table", table,
		"op", op,
	)
	return nil
}
