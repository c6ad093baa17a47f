package manifest

import (
	"testing"

	"github.com/haruki-hx/libhx/hx"
)

func buildTestContainer() *hx.Container {
	entries := []*hx.Entry{
		{CUUID: 1, Class: hx.EventResDataClass, Body: &hx.EventResData{Name: "boom"}},
		{CUUID: 2, Class: hx.WaveFileIdObjClass, Body: &hx.WaveFileIdObj{Name: "boom_EN"}},
	}
	c := &hx.Container{Variant: hx.HXG, Entries: entries}
	return c
}

func TestManifestPreservesOrderThroughMsgpack(t *testing.T) {
	c := buildTestContainer()
	m := FromContainer(c)

	data, err := m.MarshalMsgpack()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	round, err := UnmarshalMsgpack(data)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	keys := round.OrderedMap().Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	wantFirst := "0000000000000001"
	if keys[0] != wantFirst {
		t.Errorf("expected first key %q to preserve insertion order, got %q", wantFirst, keys[0])
	}
}

func TestManifestMarshalJSON(t *testing.T) {
	c := buildTestContainer()
	m := FromContainer(c)

	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty JSON output")
	}
}
