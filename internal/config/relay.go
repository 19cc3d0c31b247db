package config

import "time"

// Relay configures the outbox relay that forwards customer and beer change
// events to Kafka.
type Relay struct {
	BatchSize   uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval    time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
	Concurrency int           `env:"RELAY_CONCURRENCY" envDefault:"8"`
}
