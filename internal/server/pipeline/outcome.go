package pipeline

// Kind classifies the result of one pipeline invocation. Every failure
// kind is terminal for the invocation; retry is the trigger source's job.
type Kind string

const (
	Success             Kind = "success"
	MalformedInput      Kind = "malformed_input"
	SourceUnavailable   Kind = "source_unavailable"
	DecodeFailed        Kind = "decode_failed"
	EncodeFailed        Kind = "encode_failed"
	SinkWriteFailed     Kind = "sink_write_failed"
	MetadataWriteFailed Kind = "metadata_write_failed"
)

// Outcome is what Process returns instead of raising faults: a
// classification plus a human-readable diagnostic. It is always reported
// to the invoking trigger layer so its redelivery policy can act.
type Outcome struct {
	Kind       Kind   `json:"kind"`
	Key        string `json:"key,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Failed reports whether the invocation ended in any failure kind.
func (o Outcome) Failed() bool {
	return o.Kind != Success
}

// Retryable reports whether redelivering the same notification could
// change the result. Malformed notifications can never succeed, so
// retrying them only poisons the queue.
func (o Outcome) Retryable() bool {
	return o.Kind != Success && o.Kind != MalformedInput
}
