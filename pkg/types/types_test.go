package types

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestLookupNestedPath(t *testing.T) {
	is := is.New(t)

	c := ConnectionInfo{"mqtt": map[string]any{"host": "broker", "port": 1883}}

	v, ok := c.Lookup("mqtt.host")
	is.True(ok)
	is.Equal(v, "broker")

	_, ok = c.Lookup("mqtt.host.name")
	is.True(!ok)

	_, ok = c.Lookup("http")
	is.True(!ok)

	_, ok = ConnectionInfo(nil).Lookup("mqtt")
	is.True(!ok)
}

func TestMatchesAfterJSONDecoding(t *testing.T) {
	is := is.New(t)

	var c ConnectionInfo
	err := json.Unmarshal([]byte(`{"port":1883,"hosts":["a","b"],"tls":{"enabled":true}}`), &c)
	is.NoErr(err)

	is.True(c.Matches("port", 1883))
	is.True(c.Matches("port", int64(1883)))
	is.True(!c.Matches("port", "1883"))
	is.True(c.Matches("hosts", []string{"a", "b"}))
	is.True(c.Matches("tls", map[string]any{"enabled": true}))
	is.True(c.Matches("tls.enabled", true))
}

func TestNest(t *testing.T) {
	is := is.New(t)

	doc := Nest("mqtt.tls.enabled", true)

	b, err := json.Marshal(doc)
	is.NoErr(err)
	is.Equal(string(b), `{"mqtt":{"tls":{"enabled":true}}}`)
}

func TestCloneIsDeep(t *testing.T) {
	is := is.New(t)

	d := Device{
		Tags:           []string{"outdoor"},
		ConnectionInfo: ConnectionInfo{"mqtt": map[string]any{"port": 1883}},
	}

	c := d.Clone()
	c.Tags[0] = "indoor"
	c.ConnectionInfo["mqtt"].(map[string]any)["port"] = 8883

	is.Equal(d.Tags[0], "outdoor")
	is.True(d.ConnectionInfo.Matches("mqtt.port", 1883))
}

func TestPatchIsEmpty(t *testing.T) {
	is := is.New(t)

	is.True(DevicePatch{}.IsEmpty())

	name := "n"
	is.True(!DevicePatch{Name: &name}.IsEmpty())
	is.True(!DevicePatch{Tags: []string{}}.IsEmpty())
}
