package obs

import (
	"context"
	"sync"
	"testing"
)

func resetForTest() {
	manager = nil
	managerOnce = sync.Once{}
}

func TestInitWithNoneExporter(t *testing.T) {
	resetForTest()
	shutdown, err := Init(context.Background(), Options{Exporter: ExporterNone})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if shutdown == nil {
		t.Fatalf("expected shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
	resetForTest()
}

func TestStartRequestWithoutInit(t *testing.T) {
	resetForTest()
	ctx, recorder := StartRequest(context.Background(), "test.op")
	if ctx == nil || recorder == nil {
		t.Fatalf("StartRequest must work against global providers")
	}
	recorder.AddAttributes()
	recorder.End(nil, UsageTokens{InputTokens: 1, OutputTokens: 1, TotalTokens: 2})
	resetForTest()
}
