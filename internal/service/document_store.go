package service

import (
	"context"
	"encoding/json"
	"fmt"

	"finance-dashboard/internal/domain"
	applog "finance-dashboard/internal/log"
	"finance-dashboard/internal/ports"
)

// documentStore reads and writes JSON documents through a KeyValueStore.
type documentStore struct {
	kv     ports.KeyValueStore
	logger *applog.Logger
}

// load decodes the document under key. exists is true when the key is
// present, even if its contents are not valid JSON, in which case value is
// nil. err is set only when the store itself failed to read.
func (d documentStore) load(ctx context.Context, key string) (value any, exists bool, err error) {
	raw, found, err := d.kv.Get(ctx, key)
	if err != nil {
		return nil, false, domain.ErrStorage.WithMessage(fmt.Sprintf("read %s", key)).WithCause(err)
	}
	if !found {
		return nil, false, nil
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		d.logger.WarnContext(ctx, "stored document is not valid json",
			applog.FieldKey, key,
			applog.FieldError, err.Error(),
		)
		return nil, true, nil
	}
	return value, true, nil
}

// loadForRead is load for read paths: a failed read is logged and reported as
// a missing document.
func (d documentStore) loadForRead(ctx context.Context, key string) (any, bool) {
	value, exists, err := d.load(ctx, key)
	if err != nil {
		d.logger.WarnContext(ctx, "read failed, using defaults",
			applog.FieldKey, key,
			applog.FieldError, err.Error(),
		)
		return nil, false
	}
	return value, exists
}

func (d documentStore) save(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return domain.NewStorageError(key, err)
	}
	if err := d.kv.Set(ctx, key, payload); err != nil {
		d.logger.ErrorContext(ctx, "write failed",
			applog.FieldKey, key,
			applog.FieldError, err.Error(),
		)
		return domain.NewStorageError(key, err)
	}
	return nil
}

func (d documentStore) remove(ctx context.Context, key string) error {
	if err := d.kv.Delete(ctx, key); err != nil {
		return domain.NewStorageError(key, err)
	}
	return nil
}
