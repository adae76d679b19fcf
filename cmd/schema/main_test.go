package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestWriteSchemaCoversEveryMessage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "protocol.schema.json")
	if err := writeSchema(out, buildSchema()); err != nil {
		t.Fatalf("writeSchema failed: %v", err)
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected the temp file to be renamed away")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read schema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if doc["title"] != "Critter Clash Wire Protocol" {
		t.Fatalf("unexpected title %v", doc["title"])
	}
	if doc["$ref"] != "#/$defs/wireMessages" {
		t.Fatalf("expected the root to reference wireMessages, got %v", doc["$ref"])
	}
	defs, ok := doc["$defs"].(map[string]any)
	if !ok {
		t.Fatalf("expected $defs in schema")
	}
	root, ok := defs["wireMessages"].(map[string]any)
	if !ok {
		t.Fatalf("schema is missing the wireMessages definition")
	}
	properties, ok := root["properties"].(map[string]any)
	if !ok {
		t.Fatalf("wireMessages has no properties")
	}

	messages := reflect.TypeOf(wireMessages{})
	for i := 0; i < messages.NumField(); i++ {
		key := strings.Split(messages.Field(i).Tag.Get("json"), ",")[0]
		if _, ok := properties[key]; !ok {
			t.Fatalf("schema is missing message %s", key)
		}
	}
	if len(properties) != messages.NumField() {
		t.Fatalf("expected %d messages, schema lists %d", messages.NumField(), len(properties))
	}
	for _, name := range []string{"ChooseMovePayload", "RoomPayload", "ForceSwitchPrompt", "ShopCatalog"} {
		if _, ok := defs[name]; !ok {
			t.Fatalf("schema is missing %s", name)
		}
	}
}
