package storage

import "aith/internal/ports"

// Provider is the blob store used by the API and the worker.
type Provider = ports.StorageProvider
