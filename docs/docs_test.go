package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDocRegistered(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var doc struct {
		Info  map[string]any `json:"info"`
		Paths map[string]map[string]struct {
			Description string `json:"description"`
		} `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("rendered doc is not JSON: %v", err)
	}
	if doc.Info["title"] != SwaggerInfo.Title {
		t.Fatalf("title=%v", doc.Info["title"])
	}
	for _, p := range []string{"/api/v1/thermostat/adjust", "/api/v1/thermostat/press"} {
		desc := doc.Paths[p]["post"].Description
		if !strings.Contains(desc, `"temperature" is the confirmed new value`) {
			t.Fatalf("%s description does not point clients at temperature: %q", p, desc)
		}
	}
}
