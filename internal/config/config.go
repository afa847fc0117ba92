// Package config holds the conversion core's tunable thresholds.
package config

// Config collects the numeric thresholds used by the image
// classifier and table classifier. Defaults reproduce spec.md's
// literal constants exactly; hosts may override individual fields
// via the With* functional options.
type Config struct {
	// Image metadata gate (EMU).
	ImageMinDimensionEMU int // reject if both dims below this
	ImageMaxWidthEMU     int
	ImageMaxHeightEMU    int
	ImageMinParagraphs   int     // fewer non-empty paragraphs seen => reject
	ImageEdgeFraction    float64 // reject if block position within this fraction of the start (the end edge is fixed at 95%)
	ImageAspectMin       float64
	ImageAspectMax       float64
	ImageDuplicateEMU    int // repeated-logo dimension tolerance

	// Image pixel scorer.
	ImageContentScoreThreshold int

	// Inline-vs-figure threshold (EMU), the 1.5in = 1,371,600 EMU cutoff.
	ImageInlineMaxEMU     int
	ImageInlineMinRunText int // minimum paragraph text length to allow inline

	// Semantic classifier safety valves.
	AbstractSafetyValve int
	KeywordsSafetyValve int

	// Figure caption lookahead window.
	FigureCaptionLookahead int
}

// Default returns the spec-literal configuration.
func Default() Config {
	return Config{
		ImageMinDimensionEMU:       300000,
		ImageMaxWidthEMU:           7000000,
		ImageMaxHeightEMU:          9000000,
		ImageMinParagraphs:         20,
		ImageEdgeFraction:          0.08,
		ImageAspectMin:             0.06,
		ImageAspectMax:             15,
		ImageDuplicateEMU:          50000,
		ImageContentScoreThreshold: 4,
		ImageInlineMaxEMU:          1371600,
		ImageInlineMinRunText:      20,
		AbstractSafetyValve:        10,
		KeywordsSafetyValve:        3,
		FigureCaptionLookahead:     5,
	}
}

// Option mutates a Config.
type Option func(*Config)

// New builds a Config from Default with the given options applied.
func New(opts ...Option) Config {
	c := Default()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithImageScoreThreshold(n int) Option {
	return func(c *Config) { c.ImageContentScoreThreshold = n }
}

func WithImageMinParagraphs(n int) Option {
	return func(c *Config) { c.ImageMinParagraphs = n }
}

func WithAbstractSafetyValve(n int) Option {
	return func(c *Config) { c.AbstractSafetyValve = n }
}

func WithKeywordsSafetyValve(n int) Option {
	return func(c *Config) { c.KeywordsSafetyValve = n }
}
