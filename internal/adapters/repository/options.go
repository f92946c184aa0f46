package repository

import "github.com/google/uuid"

// Option applies a configuration option to the memory and SQLite stores.
type Option func(*storeOptions)

type storeOptions struct {
	newID func() string
}

func defaultStoreOptions() storeOptions {
	return storeOptions{newID: uuid.NewString}
}

func applyOptions(opts []Option) storeOptions {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithIDGenerator replaces the UUIDv4 id generator.
func WithIDGenerator(gen func() string) Option {
	return func(o *storeOptions) {
		if gen != nil {
			o.newID = gen
		}
	}
}
