// Package types defines the shared data structures for the brigands world.
// This package contains only type definitions and constants, no logic.
package types

// Kind identifies what an item is. Units, terrain and buildings share one
// Item struct; the kind decides which fields are meaningful.
type Kind string

const (
	KindHuman     Kind = "human"
	KindEnemy     Kind = "enemy-unit"
	KindGrass     Kind = "grass"
	KindTree      Kind = "tree"
	KindRock      Kind = "rock"
	KindWater     Kind = "water"
	KindDead      Kind = "dead"
	KindFarm      Kind = "farm"
	KindWarehouse Kind = "warehouse"
	KindCrop      Kind = "crop"
	KindPlanted   Kind = "planted"
	KindPath      Kind = "path"
)

// Resource kinds carried by units and stored in buildings.
const (
	ResourceCrop = "crop"
)

// Player ids.
const (
	PlayerHuman = "human"
	PlayerAI    = "ai"
)

// Event types.
const (
	EventDefault        = "DefaultEvent"
	EventSleeping       = "Sleeping"
	EventCropGrown      = "CropGrown"
	EventResourcePickup = "ResourcePickup"
	EventEnemySpotted   = "EnemySpotted"
	EventGameStarted    = "GameStarted"
)

// ActionType names a reducer verb.
type ActionType string

const (
	ActionAttack           ActionType = "attack"
	ActionMove             ActionType = "move"
	ActionBuildFarm        ActionType = "build_farm"
	ActionBuildWarehouse   ActionType = "build_warehouse"
	ActionPlantCrop        ActionType = "plant_crop"
	ActionHarvestCrop      ActionType = "harvest_crop"
	ActionLoadResource     ActionType = "load_resource"
	ActionUnloadResource   ActionType = "unload_resource"
	ActionSetActiveEvent   ActionType = "set_active_event"
	ActionTrainEvent       ActionType = "train_event"
	ActionFinishTrainEvent ActionType = "finish_train_event"
	ActionSleep            ActionType = "sleep"
	ActionSetUnitBehavior  ActionType = "set_unit_behavior"
	ActionAutoAction       ActionType = "auto_action"
	ActionEndTurn          ActionType = "end_turn"
	ActionSetSelected      ActionType = "set_selected"
	ActionRestart          ActionType = "restart"
)

// RefKind selects how a Ref finds its item in the current snapshot.
type RefKind string

const (
	RefItem         RefKind = "item"          // fixed id
	RefSelected     RefKind = "selected"      // state.SelectedID
	RefNearestEnemy RefKind = "nearest_enemy" // closest living unit of another owner
	RefHome         RefKind = "home"          // farm built by the agent
	RefNearestKind  RefKind = "nearest_kind"  // closest item of ItemKind
)

// Ref is an item accessor. It is resolved against whichever snapshot is
// current when the action runs, never captured as a pointer.
type Ref struct {
	Kind     RefKind `json:"kind"`
	ID       int     `json:"id,omitempty"`
	ItemKind Kind    `json:"item_kind,omitempty"`
}

// GuardType selects the predicate a Guard evaluates.
type GuardType string

const (
	GuardValid     GuardType = "valid"      // the verb's own precondition holds
	GuardAlways    GuardType = "always"
	GuardNever     GuardType = "never"
	GuardUntilTurn GuardType = "until_turn" // state.Turn <= Guard.Turn
)

// Guard is the condition of a rule. When is an optional expression that
// must also evaluate to true.
type Guard struct {
	Type GuardType `json:"type"`
	Turn int       `json:"turn,omitempty"`
	When string    `json:"when,omitempty"`
}

// Action is one reducer input. Actions double as rules: an action stored in
// an item's ConditionalActions fires when its Guard holds.
type Action struct {
	Type   ActionType `json:"type"`
	Agent  Ref        `json:"agent"`
	Target *Ref       `json:"target,omitempty"`
	Guard  Guard      `json:"guard"`
	Event  *Event     `json:"event,omitempty"` // SetActiveEvent, TrainEvent
	ID     int        `json:"id,omitempty"`    // SetSelected
	Seed   int64      `json:"seed,omitempty"`  // Restart
}

// Event is a notification queued on units for one turn.
type Event struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Turn     int    `json:"turn"`
	ItemID   int    `json:"item_id,omitempty"`  // originating item
	Local    bool   `json:"local,omitempty"`    // visible only to AgentID
	AgentID  int    `json:"agent_id,omitempty"` // addressee of a local event
	Resource string `json:"resource,omitempty"` // ResourcePickup
}

// Training is an in-progress behavior recording session.
type Training struct {
	BehaviorName string   `json:"behavior_name"`
	EventType    string   `json:"event_type"`
	Event        Event    `json:"event"`
	Actions      []Action `json:"actions"`
}

// Item is any world entity: unit, terrain cell or building.
type Item struct {
	ID      int    `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Kind    Kind   `json:"kind"`
	HP      int    `json:"hp,omitempty"`
	AP      int    `json:"ap,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`

	Resources   []string `json:"resources,omitempty"`
	BuilderID   int      `json:"builder_id,omitempty"`
	CreatedTurn int      `json:"created_turn,omitempty"`
	Visited     []int    `json:"visited,omitempty"`

	BehaviorName       string    `json:"behavior_name,omitempty"`
	ConditionalActions []Action  `json:"conditional_actions,omitempty"`
	Events             []Event   `json:"events,omitempty"`
	ActiveEvent        Event     `json:"active_event"`
	Training           bool      `json:"training,omitempty"`
	BehaviorTraining   *Training `json:"behavior_training,omitempty"`
	LastAction         *Action   `json:"last_action,omitempty"`
}

// EventBehavior is the rule list a behavior runs for one event type.
type EventBehavior struct {
	EventType string   `json:"event_type"`
	Actions   []Action `json:"actions"`
}

// Behaviors maps behavior name → event type → rule list.
type Behaviors map[string]map[string]EventBehavior

// State is one immutable world snapshot.
type State struct {
	Turn           int       `json:"turn"`
	ActivePlayerID string    `json:"active_player_id"`
	Players        []string  `json:"players"`
	Items          []Item    `json:"items"`
	Events         []Event   `json:"events"`
	Behaviors      Behaviors `json:"behaviors"`
	SelectedID     int       `json:"selected_id"`
	Winner         string    `json:"winner,omitempty"`
	NextID         int       `json:"next_id"`
	Seed           int64     `json:"seed"`
}

// Intent is the parsed representation of a shell command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
}

// Result is the output of a single session step.
type Result struct {
	Actions []Action
	Events  []Event
	Output  []string
}
