package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"critter-clash/server/internal/net/proto"
)

// wireMessages lists every payload exchanged over the websocket, keyed by
// message type.
type wireMessages struct {
	RequestQueueEntry    struct{}                  `json:"requestQueueEntry"`
	ChooseMove           proto.ChooseMovePayload   `json:"chooseMove"`
	SwitchActive         proto.SwitchActivePayload `json:"switchActive"`
	Move                 proto.MovePayload         `json:"move"`
	Interact             struct{}                  `json:"interact"`
	GetShopCatalog       struct{}                  `json:"getShopCatalog"`
	BuyUpgrade           proto.BuyUpgradePayload   `json:"buyUpgrade"`
	HealParty            struct{}                  `json:"healParty"`
	EnteredHub           proto.EnteredHub          `json:"enteredHub"`
	MapUpdated           proto.MapView             `json:"mapUpdated"`
	QueueWaiting         struct{}                  `json:"queueWaiting"`
	BattleStarted        proto.RoomPayload         `json:"battleStarted"`
	BattleStateUpdated   proto.RoomPayload         `json:"battleStateUpdated"`
	CombatLogLine        proto.CombatLogLine       `json:"combatLogLine"`
	ForceSwitchPrompt    proto.ForceSwitchPrompt   `json:"forceSwitchPrompt"`
	PlayerStateUpdated   proto.PlayerStateUpdated  `json:"playerStateUpdated"`
	BattleEnded          proto.BattleEnded         `json:"battleEnded"`
	OpponentDisconnected struct{}                  `json:"opponentDisconnected"`
	ShopCatalog          proto.ShopCatalog         `json:"shopCatalog"`
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(wireMessages))
	schema.Title = "Critter Clash Wire Protocol"
	schema.Description = "Payloads of every websocket message, keyed by the envelope type field"
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
