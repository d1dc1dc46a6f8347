// Package trigger translates inbound "object created" notifications into
// pipeline invocations. Events arrive either from an SQS queue (Consumer)
// or over the HTTP webhook; both funnel through the Dispatcher.
package trigger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/photoshare/internal/common"
	"github.com/dmitrijs2005/photoshare/internal/logging"
	"github.com/dmitrijs2005/photoshare/internal/server/models"
	"github.com/dmitrijs2005/photoshare/internal/server/pipeline"
)

// s3Event mirrors the S3 event notification payload, reduced to the fields
// the pipeline contract needs. Keys are taken verbatim from the event.
type s3Event struct {
	Records []struct {
		S3 struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// ParseEvent extracts one Notification per event record. Payloads that are
// not S3 events at all yield an error; records with missing identity fields
// are passed through so the pipeline can classify them as malformed.
func ParseEvent(data []byte) ([]models.Notification, error) {
	var event s3Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorMalformedEvent, err)
	}
	if len(event.Records) == 0 {
		return nil, fmt.Errorf("%w: no records", common.ErrorMalformedEvent)
	}

	notifications := make([]models.Notification, 0, len(event.Records))
	for _, r := range event.Records {
		notifications = append(notifications, models.Notification{
			Bucket: r.S3.Bucket.Name,
			Key:    r.S3.Object.Key,
		})
	}
	return notifications, nil
}

// Processor is the pipeline surface the dispatcher needs.
type Processor interface {
	Process(ctx context.Context, n models.Notification) pipeline.Outcome
}

// Dispatcher fans an event out to the pipeline, one invocation per record.
// Records are independent: one record's failure never stops the others.
type Dispatcher struct {
	processor Processor
	logger    logging.Logger
}

func NewDispatcher(p Processor, logger logging.Logger) *Dispatcher {
	return &Dispatcher{processor: p, logger: logger.With("module", "trigger")}
}

// Dispatch parses the event and processes every record, returning one
// outcome per record in event order.
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) ([]pipeline.Outcome, error) {
	notifications, err := ParseEvent(data)
	if err != nil {
		return nil, err
	}

	outcomes := make([]pipeline.Outcome, 0, len(notifications))
	for _, n := range notifications {
		outcomes = append(outcomes, d.processor.Process(ctx, n))
	}
	return outcomes, nil
}
