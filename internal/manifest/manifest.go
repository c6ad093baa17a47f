// Package manifest projects a Container into an order-preserving,
// serializable summary — useful for caching the entry catalog of large
// shared archives (RAYMAN3.HST, Data.hst) without re-parsing every body,
// and for the CLI/inspector's JSON output.
package manifest

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/iancoleman/orderedmap"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/haruki-hx/libhx/hx"
)

// Manifest is an insertion-order-preserving projection of a container's
// entries, keyed by their CUUID's hex representation.
type Manifest struct {
	om *orderedmap.OrderedMap
}

// FromContainer builds a manifest that lists every entry in the
// container's own order, recording just enough to locate and label it
// without re-reading the body.
func FromContainer(c *hx.Container) *Manifest {
	om := orderedmap.New()
	om.SetEscapeHTML(false)

	for _, e := range c.Entries {
		key := fmt.Sprintf("%016x", e.CUUID)
		entry := orderedmap.New()
		entry.SetEscapeHTML(false)
		entry.Set("class", e.Class.String())
		entry.Set("offset", e.Offset)
		entry.Set("size", e.Size)
		links := make([]string, len(e.Links))
		for i, l := range e.Links {
			links[i] = fmt.Sprintf("%016x", l)
		}
		entry.Set("links", links)
		if name, ok := entryName(e); ok {
			entry.Set("name", name)
		}
		om.Set(key, entry)
	}

	return &Manifest{om: om}
}

func entryName(e *hx.Entry) (string, bool) {
	switch b := e.Body.(type) {
	case *hx.EventResData:
		return b.Name, b.Name != ""
	case *hx.WaveFileIdObj:
		return b.Name, b.Name != ""
	default:
		return "", false
	}
}

// OrderedMap exposes the underlying order-preserving map, e.g. for
// embedding into a larger response.
func (m *Manifest) OrderedMap() *orderedmap.OrderedMap {
	return m.om
}

// MarshalMsgpack encodes the manifest with vmihailenco/msgpack, preserving
// key order because orderedmap.OrderedMap implements msgpack.Marshaler-
// compatible field ordering via its own MarshalJSON path; here we walk it
// explicitly to keep the encoding a plain ordered map-of-maps rather than
// leaning on JSON as an intermediate.
func (m *Manifest) MarshalMsgpack() ([]byte, error) {
	return msgpack.Marshal(orderedMapToPlain(m.om))
}

// UnmarshalMsgpack decodes a manifest previously produced by
// MarshalMsgpack, reconstructing an OrderedMap so key order survives the
// round trip through the cache file.
func UnmarshalMsgpack(data []byte) (*Manifest, error) {
	dec := msgpack.NewDecoder(bytesReader(data))
	v, err := decodeOrdered(dec)
	if err != nil {
		return nil, err
	}
	om, ok := v.(*orderedmap.OrderedMap)
	if !ok {
		return nil, fmt.Errorf("manifest: top-level msgpack value is %T, expected a map", v)
	}
	return &Manifest{om: om}, nil
}

// MarshalJSON renders the manifest for CLI/API output using sonic, the
// fast JSON codec, rather than encoding/json.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(m.om)
}

func orderedMapToPlain(om *orderedmap.OrderedMap) map[string]any {
	out := make(map[string]any, len(om.Keys()))
	for _, k := range om.Keys() {
		v, _ := om.Get(k)
		if child, ok := v.(*orderedmap.OrderedMap); ok {
			out[k] = orderedMapToPlain(child)
		} else {
			out[k] = v
		}
	}
	return out
}

// CacheSidecarPath returns the ".hxcache" path for a container file path.
func CacheSidecarPath(path string) string {
	return path + ".hxcache"
}

// LoadOrBuild returns a cached manifest for path if a fresh ".hxcache"
// sidecar exists (matching size and modification time), building and
// persisting a new one from build() otherwise.
func LoadOrBuild(path string, build func() (*Manifest, error)) (*Manifest, error) {
	info, statErr := os.Stat(path)
	cachePath := CacheSidecarPath(path)

	if statErr == nil {
		if cached, ok := tryLoadCache(cachePath, info.Size(), info.ModTime().Unix()); ok {
			return cached, nil
		}
	}

	m, err := build()
	if err != nil {
		return nil, err
	}
	if statErr == nil {
		_ = writeCache(cachePath, info.Size(), info.ModTime().Unix(), m)
	}
	return m, nil
}

type cacheEnvelope struct {
	Size    int64  `msgpack:"size"`
	ModTime int64  `msgpack:"mod_time"`
	Body    []byte `msgpack:"body"`
}

func tryLoadCache(cachePath string, size, modTime int64) (*Manifest, bool) {
	raw, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}
	var env cacheEnvelope
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	if env.Size != size || env.ModTime != modTime {
		return nil, false
	}
	m, err := UnmarshalMsgpack(env.Body)
	if err != nil {
		return nil, false
	}
	return m, true
}

func writeCache(cachePath string, size, modTime int64, m *Manifest) error {
	body, err := m.MarshalMsgpack()
	if err != nil {
		return err
	}
	raw, err := msgpack.Marshal(cacheEnvelope{Size: size, ModTime: modTime, Body: body})
	if err != nil {
		return err
	}
	return os.WriteFile(cachePath, raw, 0o644)
}
