package snapshot

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/fxamacker/cbor/v2"

	obserrors "github.com/vango-dev/observer/internal/errors"
)

// Codec encodes snapshots to bytes.
type Codec interface {
	// Name is the codec's config name ("json" or "cbor").
	Name() string
	// Extension is appended to store keys that have none.
	Extension() string
	Encode(*Snapshot) ([]byte, error)
	Decode([]byte) (*Snapshot, error)
}

var (
	// JSON encodes snapshots as indented JSON.
	JSON Codec = jsonCodec{}

	// CBOR encodes snapshots as canonical CBOR, so equal snapshots
	// produce equal bytes.
	CBOR Codec = newCBORCodec()
)

// CodecByName returns the codec called name.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	}
	return nil, obserrors.New(obserrors.CodeConfigInvalid).
		WithOp("snapshot.CodecByName").
		WithDetail(fmt.Sprintf("unknown snapshot format %q", name)).
		WithSuggestion("Use \"json\" or \"cbor\".")
}

// codecForKey picks a codec from the key's extension.
func codecForKey(key string, fallback Codec) Codec {
	switch path.Ext(key) {
	case JSON.Extension():
		return JSON
	case CBOR.Extension():
		return CBOR
	}
	return fallback
}

func decodeError(codec string, err error) error {
	return obserrors.New(obserrors.CodeSnapshotDecode).
		WithOp("snapshot.Decode").
		WithDetail(fmt.Sprintf("the data is not a valid %s snapshot", codec)).
		Wrap(err)
}

type jsonCodec struct{}

func (jsonCodec) Name() string      { return "json" }
func (jsonCodec) Extension() string { return ".json" }

func (jsonCodec) Encode(s *Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func (jsonCodec) Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, decodeError("json", err)
	}
	return &s, nil
}

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBORCodec() cborCodec {
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	enc, err := encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	dec, err := decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
	return cborCodec{enc: enc, dec: dec}
}

func (cborCodec) Name() string      { return "cbor" }
func (cborCodec) Extension() string { return ".cbor" }

func (c cborCodec) Encode(s *Snapshot) ([]byte, error) {
	return c.enc.Marshal(s)
}

func (c cborCodec) Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := c.dec.Unmarshal(data, &s); err != nil {
		return nil, decodeError("cbor", err)
	}
	return &s, nil
}
