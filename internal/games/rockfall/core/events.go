package core

// EventKind is a semantic tag emitted by the engine for collaborators
// (HUD, audio, network clients) to map to effects.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventBoulderLanded
	EventBoulderStartedRolling
	EventDiamondLanded
	EventDiamondStartedRolling
	EventPlayerMoved
	EventDirtDug
	EventDiamondCollected
	EventBoulderPushed
	EventPlayerBlocked
	EventExitSpawned
	EventExitReached
	EventPlayerCrushed
	EventTimeUp
)

// String returns the snake_case name of the event, used in logs and on the wire.
func (k EventKind) String() string {
	switch k {
	case EventBoulderLanded:
		return "boulder_landed"
	case EventBoulderStartedRolling:
		return "boulder_started_rolling"
	case EventDiamondLanded:
		return "diamond_landed"
	case EventDiamondStartedRolling:
		return "diamond_started_rolling"
	case EventPlayerMoved:
		return "player_moved"
	case EventDirtDug:
		return "dirt_dug"
	case EventDiamondCollected:
		return "diamond_collected"
	case EventBoulderPushed:
		return "boulder_pushed"
	case EventPlayerBlocked:
		return "player_blocked"
	case EventExitSpawned:
		return "exit_spawned"
	case EventExitReached:
		return "exit_reached"
	case EventPlayerCrushed:
		return "player_crushed"
	case EventTimeUp:
		return "time_up"
	default:
		return "none"
	}
}

// Event records one thing that happened during a tick.
type Event struct {
	Kind     EventKind
	Pos      Pos
	EntityID int
}

// landedEvent returns the impact event for a loose kind.
func landedEvent(k Kind) EventKind {
	if k == Diamond {
		return EventDiamondLanded
	}
	return EventBoulderLanded
}

// rollEvent returns the roll-onset event for a loose kind.
func rollEvent(k Kind) EventKind {
	if k == Diamond {
		return EventDiamondStartedRolling
	}
	return EventBoulderStartedRolling
}

// Outcome is the terminal status of a tick.
type Outcome uint8

const (
	OutcomeContinue Outcome = iota
	OutcomeLevelComplete
	OutcomeGameOver
)

// String returns the string representation of an outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeLevelComplete:
		return "level_complete"
	case OutcomeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}
