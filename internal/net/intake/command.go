package intake

import (
	"critter-clash/server/internal/net/proto"
)

const (
	CommandRejectUnknownType    = "unknown_type"
	CommandRejectMalformed      = "malformed_payload"
	CommandRejectMissingIndex   = "missing_index"
	CommandRejectInvalidMove    = "invalid_direction"
	CommandRejectMissingUpgrade = "missing_upgrade"
)

// Command is a validated client request with its payload bound.
type Command struct {
	Type      string
	Index     int
	DX        int
	DY        int
	UpgradeID string
}

// StageClientCommand binds and validates the payload of in. Commands that
// fail here never reach the hub.
func StageClientCommand(in proto.Inbound) (Command, bool, string) {
	var zero Command
	command := Command{Type: in.Type}

	switch in.Type {
	case proto.TypeRequestQueueEntry, proto.TypeInteract, proto.TypeGetShopCatalog, proto.TypeHealParty:
	case proto.TypeChooseMove:
		var payload proto.ChooseMovePayload
		if err := in.Decode(&payload); err != nil {
			return zero, false, CommandRejectMalformed
		}
		if payload.MoveIndex == nil {
			return zero, false, CommandRejectMissingIndex
		}
		command.Index = *payload.MoveIndex
	case proto.TypeSwitchActive:
		var payload proto.SwitchActivePayload
		if err := in.Decode(&payload); err != nil {
			return zero, false, CommandRejectMalformed
		}
		if payload.PokemonIndex == nil {
			return zero, false, CommandRejectMissingIndex
		}
		command.Index = *payload.PokemonIndex
	case proto.TypeMove:
		var payload proto.MovePayload
		if err := in.Decode(&payload); err != nil {
			return zero, false, CommandRejectMalformed
		}
		dx, dy, ok := payload.Delta()
		if !ok {
			return zero, false, CommandRejectInvalidMove
		}
		command.DX, command.DY = dx, dy
	case proto.TypeBuyUpgrade:
		var payload proto.BuyUpgradePayload
		if err := in.Decode(&payload); err != nil {
			return zero, false, CommandRejectMalformed
		}
		if payload.UpgradeID == "" {
			return zero, false, CommandRejectMissingUpgrade
		}
		command.UpgradeID = payload.UpgradeID
	default:
		return zero, false, CommandRejectUnknownType
	}

	return command, true, ""
}
