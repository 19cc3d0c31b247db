package config

type Migrate struct {
	// Seed loads the sample customers and beers into empty tables after migrating.
	Seed bool `env:"MIGRATE_SEED" envDefault:"false"`
}
