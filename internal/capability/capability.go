// Package capability defines the external model capabilities the dialogue
// pipeline consumes, plus HTTP-backed implementations of both. The pipeline
// treats them as synchronous black boxes with a single failure channel;
// timeouts and retries live here, at the boundary.
package capability

import "context"

// Classification is the primary classifier's verdict for one message.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier is the primary intent classification capability.
type Classifier interface {
	// Loaded reports whether the model behind the capability came up.
	Loaded() bool
	Classify(ctx context.Context, text string) (Classification, error)
}

// Span is one tagged region of the input text.
type Span struct {
	Text  string `json:"text"`
	Type  string `json:"type"` // at least MONEY, CARDINAL, DATE
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Tagger is the general-purpose named-entity capability.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Span, error)
}
