package obs

// ExporterType enumerates supported tracing exporter backends. The library is
// embedded in host applications that usually own their own OTLP pipeline, so
// only the demo-friendly backends are built in; hosts wire their exporter by
// configuring the global providers before use.
type ExporterType string

const (
	ExporterStdout ExporterType = "stdout"
	ExporterNone   ExporterType = "none"
)

// Options control observability initialization.
type Options struct {
	ServiceName string
	Environment string
	Version     string

	Exporter    ExporterType
	SampleRatio float64

	DisableMetrics bool
}

// DefaultOptions returns sane defaults when configuration is partial.
func DefaultOptions() Options {
	return Options{
		Exporter:    ExporterNone,
		SampleRatio: 1.0,
	}
}
