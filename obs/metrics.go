package obs

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce      sync.Once
	requestCounter   metric.Int64Counter
	latencyHistogram metric.Float64Histogram
	inputTokensHist  metric.Int64Histogram
	outputTokensHist metric.Int64Histogram
	totalTokensHist  metric.Int64Histogram
	imageBlocksHist  metric.Int64Histogram
)

func installMetrics(m meter) {
	metricsOnce.Do(func() {
		if m == nil {
			return
		}
		requestCounter, _ = m.Int64Counter("docvision.requests", metric.WithDescription("Total invocations"))
		latencyHistogram, _ = m.Float64Histogram("docvision.request.latency_ms", metric.WithDescription("Invocation latency (ms)"))
		inputTokensHist, _ = m.Int64Histogram("docvision.tokens.input", metric.WithDescription("Input tokens"))
		outputTokensHist, _ = m.Int64Histogram("docvision.tokens.output", metric.WithDescription("Output tokens"))
		totalTokensHist, _ = m.Int64Histogram("docvision.tokens.total", metric.WithDescription("Total tokens"))
		imageBlocksHist, _ = m.Int64Histogram("docvision.payload.image_blocks", metric.WithDescription("Image blocks per payload"))
	})
}

type meter interface {
	Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error)
	Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error)
	Int64Histogram(string, ...metric.Int64HistogramOption) (metric.Int64Histogram, error)
}

func recordRequest(attrs ...attribute.KeyValue) {
	if requestCounter != nil {
		requestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	}
}

func recordLatency(ms float64, attrs ...attribute.KeyValue) {
	if latencyHistogram != nil {
		latencyHistogram.Record(context.Background(), ms, metric.WithAttributes(attrs...))
	}
}

// RecordImageBlocks reports the number of image blocks a payload carries.
func RecordImageBlocks(n int, attrs ...attribute.KeyValue) {
	if imageBlocksHist != nil {
		imageBlocksHist.Record(context.Background(), int64(n), metric.WithAttributes(attrs...))
	}
}

func recordUsage(usage UsageTokens, attrs ...attribute.KeyValue) {
	ctx := context.Background()
	if inputTokensHist != nil {
		inputTokensHist.Record(ctx, int64(usage.InputTokens), metric.WithAttributes(attrs...))
	}
	if outputTokensHist != nil {
		outputTokensHist.Record(ctx, int64(usage.OutputTokens), metric.WithAttributes(attrs...))
	}
	if totalTokensHist != nil {
		totalTokensHist.Record(ctx, int64(usage.TotalTokens), metric.WithAttributes(attrs...))
	}
}
