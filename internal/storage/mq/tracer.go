package mq

import (
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/storage/mq")

// clientHooks instruments a kafka client with the global tracer provider.
// It must be called after the provider is installed.
func clientHooks() []kgo.Hook {
	k := kotel.NewKotel(
		kotel.WithTracer(kotel.NewTracer(
			kotel.TracerProvider(otel.GetTracerProvider()),
			kotel.TracerPropagator(otel.GetTextMapPropagator()),
		)),
	)
	return k.Hooks()
}
