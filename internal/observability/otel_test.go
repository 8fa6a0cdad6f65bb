package observability

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), zerolog.Nop(), OtelConfig{})
	if shutdown == nil {
		t.Fatalf("expected shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitOTelStdout(t *testing.T) {
	shutdown := InitOTel(context.Background(), zerolog.Nop(), OtelConfig{Enabled: true, Environment: "test"})
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
