package battle

import (
	"fmt"
	"math/rand"

	"critter-clash/server/internal/creature"
)

const (
	RejectUnknownSide   = "unknown_side"
	RejectWrongPhase    = "wrong_phase"
	RejectNotYourTurn   = "not_your_turn"
	RejectInvalidMove   = "invalid_move_index"
	RejectInvalidSwitch = "invalid_party_index"
	RejectTargetFainted = "target_fainted"
	RejectAlreadyActive = "already_active"
	RejectAwaitingOther = "awaiting_opponent_switch"
)

const (
	varianceFloor  = 0.85
	varianceSpread = 0.3
)

// Hit describes one resolved attack.
type Hit struct {
	Attacker   Side
	User       string
	Target     string
	Move       creature.Move
	Damage     int
	Multiplier float64
	Qualifier  creature.Qualifier
	Remaining  int
}

// Faint describes an active creature that fainted during a turn.
type Faint struct {
	Side       Side
	Creature   string
	Wiped      bool
	Generation uint64
}

// Turn is everything one accepted action produced.
type Turn struct {
	Log   []string
	Hits  []Hit
	Faint *Faint
}

// Engine resolves battle actions. It is not safe for concurrent use; the
// caller serialises access to rooms.
type Engine struct {
	chart creature.Chart
	rng   *rand.Rand
}

func NewEngine(chart creature.Chart, rng *rand.Rand) *Engine {
	if chart == nil {
		chart = creature.DefaultChart()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Engine{chart: chart, rng: rng}
}

// ChooseMove resolves side attacking with the move at index. When the turn
// then passes to a synthetic opponent, the opponent answers immediately.
func (e *Engine) ChooseMove(room *Room, side Side, index int) (Turn, bool, string) {
	var turn Turn
	if room == nil || !side.Valid() {
		return turn, false, RejectUnknownSide
	}
	if room.Phase != PhaseBattle {
		return turn, false, RejectWrongPhase
	}
	if room.Turn != side {
		return turn, false, RejectNotYourTurn
	}
	attacker := room.Slot(side).ActiveCreature()
	if attacker == nil || index < 0 || index >= len(attacker.Moves) {
		return turn, false, RejectInvalidMove
	}

	e.attack(room, side, attacker.Moves[index], &turn)
	e.answerIfSynthetic(room, &turn)
	return turn, true, ""
}

// Switch replaces side's active creature. In the battle phase it does not
// consume the turn. While side is awaiting a forced switch it resumes the
// battle with the turn handed to the side that did not switch.
func (e *Engine) Switch(room *Room, side Side, index int) (Turn, bool, string) {
	var turn Turn
	if room == nil || !side.Valid() {
		return turn, false, RejectUnknownSide
	}
	slot := room.Slot(side)
	switch room.Phase {
	case PhaseBattle:
	case PhaseAwaitingSwitch:
		if room.Awaiting != side {
			return turn, false, RejectAwaitingOther
		}
	default:
		return turn, false, RejectWrongPhase
	}
	if index < 0 || index >= len(slot.Party) {
		return turn, false, RejectInvalidSwitch
	}
	if index == slot.Active {
		return turn, false, RejectAlreadyActive
	}
	if !slot.Party.Eligible(index) {
		return turn, false, RejectTargetFainted
	}

	slot.Active = index
	room.bump()
	turn.Log = append(turn.Log, fmt.Sprintf("%s sent out %s!", slot.Name, slot.Party[index].Name))

	if room.Phase == PhaseAwaitingSwitch {
		room.Phase = PhaseBattle
		room.Awaiting = ""
		room.Turn = side.Opponent()
		e.answerIfSynthetic(room, &turn)
	}
	return turn, true, ""
}

// answerIfSynthetic lets a synthetic side act when it holds the turn.
func (e *Engine) answerIfSynthetic(room *Room, turn *Turn) {
	if room.Phase != PhaseBattle {
		return
	}
	slot := room.Slot(room.Turn)
	if !slot.Synthetic() {
		return
	}
	active := slot.ActiveCreature()
	if active == nil {
		return
	}
	move := active.Moves[e.rng.Intn(len(active.Moves))]
	e.attack(room, room.Turn, move, turn)
}

// attack applies one move and advances the room. The turn passes to the
// defender unless the defender fainted.
func (e *Engine) attack(room *Room, side Side, move creature.Move, turn *Turn) {
	attackerSlot := room.Slot(side)
	defenderSide := side.Opponent()
	defenderSlot := room.Slot(defenderSide)
	attacker := attackerSlot.ActiveCreature()
	defender := defenderSlot.ActiveCreature()

	rolled, multiplier, qualifier := e.Damage(attacker, defender, move)
	dealt := defender.ApplyDamage(rolled)
	room.Turns++

	turn.Hits = append(turn.Hits, Hit{
		Attacker:   side,
		User:       attacker.Name,
		Target:     defender.Name,
		Move:       move,
		Damage:     dealt,
		Multiplier: multiplier,
		Qualifier:  qualifier,
		Remaining:  defender.CurrentHP,
	})
	// The log reports the rolled damage, overkill included; Hit.Damage is
	// what the defender actually lost.
	turn.Log = append(turn.Log, fmt.Sprintf("%s used %s! It dealt %d damage.%s", attacker.Name, move.Name, rolled, qualifierText(qualifier)))

	if !defender.Fainted {
		room.Turn = defenderSide
		return
	}

	turn.Log = append(turn.Log, fmt.Sprintf("%s fainted!", defender.Name))
	faint := &Faint{Side: defenderSide, Creature: defender.Name}
	room.bump()

	switch {
	case defenderSlot.Party.AllFainted():
		faint.Wiped = true
		room.Phase = PhaseEnded
		room.Winner = side
	case defenderSlot.Synthetic():
		defenderSlot.Active = defenderSlot.Party.FirstEligible()
		turn.Log = append(turn.Log, fmt.Sprintf("%s sent out %s!", defenderSlot.Name, defenderSlot.ActiveCreature().Name))
		room.Turn = side
	default:
		room.Phase = PhaseAwaitingSwitch
		room.Awaiting = defenderSide
	}
	faint.Generation = room.generation
	turn.Faint = faint
}

// Damage computes the integer damage of move from attacker to defender:
// power × attack/defense × variance × effectiveness, truncated.
func (e *Engine) Damage(attacker, defender *creature.Creature, move creature.Move) (int, float64, creature.Qualifier) {
	variance := varianceFloor + e.rng.Float64()*varianceSpread
	raw, multiplier, qualifier := e.scaledDamage(attacker, defender, move, variance)
	damage := int(raw)
	if damage < 0 {
		damage = 0
	}
	return damage, multiplier, qualifier
}

func (e *Engine) scaledDamage(attacker, defender *creature.Creature, move creature.Move, variance float64) (float64, float64, creature.Qualifier) {
	defense := defender.Defense
	if defense <= 0 {
		defense = 1
	}
	base := float64(move.Power) * (float64(attacker.Attack) / float64(defense)) * variance
	multiplier, qualifier := e.chart.Effectiveness(move.Type, defender.Type)
	return base * multiplier, multiplier, qualifier
}

func qualifierText(q creature.Qualifier) string {
	switch q {
	case creature.QualifierStrong:
		return " It's super effective!"
	case creature.QualifierWeak:
		return " It's not very effective..."
	default:
		return ""
	}
}

// EligibleChoices lists the party indices side may switch to.
func EligibleChoices(slot *Slot) []int {
	var choices []int
	for i := range slot.Party {
		if i != slot.Active && slot.Party.Eligible(i) {
			choices = append(choices, i)
		}
	}
	return choices
}
