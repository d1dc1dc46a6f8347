// Package pipeline implements the ingestion-and-derivation core: given a
// notification about a newly stored original image, it fetches the object,
// derives a bounded-size JPEG thumbnail, stores it, and upserts the
// metadata record linking the two.
//
// The two store writes are not atomic. The record is written only after the
// thumbnail write succeeded, so a record always implies its thumbnail
// exists; the reverse window (thumbnail without record, when the metadata
// write fails) is accepted and repaired by redelivery, since re-processing
// the same notification is idempotent.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/photoshare/internal/logging"
	"github.com/dmitrijs2005/photoshare/internal/server/codec"
	"github.com/dmitrijs2005/photoshare/internal/server/models"
	"github.com/dmitrijs2005/photoshare/internal/server/repositories/photos"
	"github.com/dmitrijs2005/photoshare/internal/server/storage"
)

// ThumbPrefix is prepended to the original key to form the thumbnail key.
const ThumbPrefix = "thumb-"

// metadataEmailKey is the object-metadata key carrying the uploader contact.
const metadataEmailKey = "email"

// unknownContact is recorded when the uploader attached no contact.
const unknownContact = "unknown"

// Options fixes the derivation and naming policy for a Pipeline.
type Options struct {
	// ThumbnailBucket receives every derived thumbnail.
	ThumbnailBucket string
	// StoreDomain is used to compose public locator URLs.
	StoreDomain string
	// MaxSize bounds both thumbnail dimensions, in pixels.
	MaxSize int
}

// Pipeline orchestrates the object store, the codec, and the record store.
// All collaborators are created once at process start and shared across
// invocations; the pipeline itself holds no per-invocation state.
type Pipeline struct {
	store  storage.ObjectStore
	codec  *codec.Codec
	photos photos.Repository
	logger logging.Logger
	opts   Options

	now func() time.Time
}

func New(store storage.ObjectStore, c *codec.Codec, repo photos.Repository, logger logging.Logger, opts Options) *Pipeline {
	return &Pipeline{
		store:  store,
		codec:  c,
		photos: repo,
		logger: logger.With("module", "pipeline"),
		opts:   opts,
		now:    time.Now,
	}
}

// ThumbnailKey derives the thumbnail object key from the original key.
func ThumbnailKey(originalKey string) string {
	return ThumbPrefix + originalKey
}

// ObjectURL composes the deterministic public locator of (bucket, key).
// It is string composition only; no network call, no signing.
func ObjectURL(bucket, storeDomain, key string) string {
	return fmt.Sprintf("https://%s.%s/%s", bucket, storeDomain, key)
}

// Process runs the full derivation for one notification and never lets a
// failure escape as an error: every exit path is a classified Outcome.
// Re-invoking with the same notification after a prior success repeats all
// steps and overwrites both the thumbnail and the record, which keeps the
// operation safe under at-least-once delivery.
func (p *Pipeline) Process(ctx context.Context, n models.Notification) Outcome {
	log := p.logger.With("invocation_id", uuid.New().String(), "bucket", n.Bucket, "key", n.Key)

	if n.Bucket == "" || n.Key == "" {
		out := Outcome{Kind: MalformedInput, Key: n.Key, Diagnostic: "notification is missing bucket or key"}
		log.Warn(ctx, "rejecting malformed notification")
		return out
	}

	obj, err := p.store.Get(ctx, n.Bucket, n.Key)
	if err != nil {
		return p.fail(ctx, log, SourceUnavailable, n.Key, "fetch original", err)
	}

	// Absent contact metadata is expected and must never fail the run.
	email := obj.Metadata[metadataEmailKey]
	if email == "" {
		email = unknownContact
	}
	extra := extraMetadata(obj.Metadata)

	img, err := p.codec.Decode(obj.Body)
	if err != nil {
		return p.fail(ctx, log, DecodeFailed, n.Key, "decode original", err)
	}

	thumb := p.codec.Fit(p.codec.Normalize(img), p.opts.MaxSize, p.opts.MaxSize)

	encoded, err := p.codec.EncodeJPEG(thumb)
	if err != nil {
		return p.fail(ctx, log, EncodeFailed, n.Key, "encode thumbnail", err)
	}

	thumbKey := ThumbnailKey(n.Key)
	if err := p.store.Put(ctx, p.opts.ThumbnailBucket, thumbKey, encoded, codec.MIMEType); err != nil {
		// The record write is not attempted: a record must always imply
		// its thumbnail exists.
		return p.fail(ctx, log, SinkWriteFailed, n.Key, "store thumbnail", err)
	}

	record := &models.PhotoRecord{
		Filename:     n.Key,
		OriginalURL:  ObjectURL(n.Bucket, p.opts.StoreDomain, n.Key),
		ThumbnailURL: ObjectURL(p.opts.ThumbnailBucket, p.opts.StoreDomain, thumbKey),
		Email:        email,
		UploadedAt:   p.now().UTC(),
		Extra:        extra,
	}
	if err := p.photos.Upsert(ctx, record); err != nil {
		return p.fail(ctx, log, MetadataWriteFailed, n.Key, "upsert metadata record", err)
	}

	log.Info(ctx, "original processed",
		"thumbnail_bucket", p.opts.ThumbnailBucket,
		"thumbnail_key", thumbKey,
		"thumbnail_bytes", len(encoded),
		"width", thumb.Bounds().Dx(),
		"height", thumb.Bounds().Dy(),
	)

	return Outcome{Kind: Success, Key: n.Key}
}

func (p *Pipeline) fail(ctx context.Context, log logging.Logger, kind Kind, key, stage string, err error) Outcome {
	diagnostic := fmt.Sprintf("%s: %v", stage, err)
	log.Error(ctx, "invocation failed", "kind", string(kind), "diagnostic", diagnostic)
	return Outcome{Kind: kind, Key: key, Diagnostic: diagnostic}
}

// extraMetadata returns the uploader metadata minus the contact key, for
// the record's extension fields. Returns nil when nothing remains.
func extraMetadata(metadata map[string]string) map[string]string {
	var extra map[string]string
	for k, v := range metadata {
		if k == metadataEmailKey {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[k] = v
	}
	return extra
}
