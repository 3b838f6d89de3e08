package snapshot

import (
	"context"
	"path"
)

// Archive saves and loads snapshots through a Store with a Codec.
type Archive struct {
	store Store
	codec Codec
}

// NewArchive creates an archive. A nil codec means JSON.
func NewArchive(store Store, codec Codec) *Archive {
	if codec == nil {
		codec = JSON
	}
	return &Archive{store: store, codec: codec}
}

// Codec returns the codec used for new snapshots.
func (a *Archive) Codec() Codec {
	return a.codec
}

// Key returns the store key for name: the codec's extension is added
// when name has none.
func (a *Archive) Key(name string) string {
	if path.Ext(name) == "" {
		return name + a.codec.Extension()
	}
	return name
}

// Save encodes snap and stores it under name.
func (a *Archive) Save(ctx context.Context, name string, snap *Snapshot) error {
	key := a.Key(name)
	data, err := codecForKey(key, a.codec).Encode(snap)
	if err != nil {
		return err
	}
	return a.store.Put(ctx, key, data)
}

// Load fetches and decodes the snapshot stored under name. The codec is
// chosen from the key's extension so snapshots written in either format
// can be read back.
func (a *Archive) Load(ctx context.Context, name string) (*Snapshot, error) {
	key := a.Key(name)
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return codecForKey(key, a.codec).Decode(data)
}
