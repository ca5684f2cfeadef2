// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package cards

// EffectNode is one node of a parsed ability tree. Concrete nodes are
// GameAction, Sequence, Branch and Choice. The resolver walks the tree with
// an explicit stack so that execution can suspend while waiting for player
// input and resume later from the same position.
type EffectNode interface {
	effectNode()
}

// GameAction status modifiers.
const (
	StatusRest          = "REST"
	StatusActive        = "ACTIVE"
	StatusFaceUp        = "FACE_UP"
	StatusPowerOverride = "POWER_OVERRIDE"
	StatusCostReduction = "COST_REDUCTION"
)

// Destination positions for deck moves.
const (
	PositionTop    = "TOP"
	PositionBottom = "BOTTOM"
)

// GameAction is a single primitive mutation of the game state.
type GameAction struct {
	Type   ActionType
	Target *TargetQuery
	Value  *ValueSource
	// Duration bounds continuous modifiers; instant actions leave it empty.
	Duration Duration
	// Status carries the action variant, e.g. BUFF with POWER_OVERRIDE.
	Status       string
	SourceZone   Zone
	DestZone     Zone
	DestPosition string
	// Keyword is set for GRANT_KEYWORD actions.
	Keyword string
	RawText string
}

// Sequence runs its child nodes in order.
type Sequence struct {
	Actions []EffectNode
}

// Branch runs IfTrue when its condition holds, IfFalse otherwise.
// Either side may be nil.
type Branch struct {
	Condition *Condition
	IfTrue    EffectNode
	IfFalse   EffectNode
}

// Choice suspends resolution and asks a player to pick one option.
type Choice struct {
	Message      string
	Options      []EffectNode
	OptionLabels []string
	Player       PlayerScope
}

func (*GameAction) effectNode() {}
func (*Sequence) effectNode()   {}
func (*Branch) effectNode()     {}
func (*Choice) effectNode()     {}

// Ability is one activatable or triggered effect on a card. Cost runs first
// and must fully resolve before Effect is executed; a declined or failed cost
// aborts the ability.
type Ability struct {
	Trigger   TriggerType
	Condition *Condition
	Cost      EffectNode
	Effect    EffectNode
	RawText   string
}

// TargetQuery describes which cards an action may touch. Empty filter
// fields match everything.
type TargetQuery struct {
	Zone   Zone
	Player PlayerScope

	CardTypes  []CardType
	Traits     []string
	Attributes []string
	Colors     []string
	Names      []string
	// CardIDs restricts candidates to specific printed card numbers;
	// ExcludeIDs removes them.
	CardIDs    []string
	ExcludeIDs []string

	CostMin  *int
	CostMax  *int
	PowerMin *int
	PowerMax *int
	IsRest   *bool

	// Count is how many targets the action takes; -1 means all candidates.
	Count int
	// IsUpTo allows picking fewer than Count, including none.
	IsUpTo     bool
	SelectMode SelectMode
	// SaveID stores the picked cards in the resolution context under this
	// key; RefID points a REFERENCE query back at such a saved set.
	SaveID  string
	RefID   string
	RawText string
}

// NewTargetQuery returns a query with the parser defaults: one card chosen
// interactively from the controller's field.
func NewTargetQuery() *TargetQuery {
	return &TargetQuery{
		Zone:       ZoneField,
		Player:     ScopeSelf,
		Count:      1,
		SelectMode: SelectChoose,
	}
}

// ValueSource yields the numeric amount of an action, either fixed or
// derived from the board at resolution time.
type ValueSource struct {
	Base int
	// DynamicSource names a quantity measured when the action resolves,
	// e.g. HAND_COUNT or COUNT_REFERENCE.
	DynamicSource string
	Multiplier    int
	Divisor       int
	RefID         string
}

// FixedValue is a ValueSource that always yields base.
func FixedValue(base int) *ValueSource {
	return &ValueSource{Base: base, Multiplier: 1, Divisor: 1}
}

// Condition gates an ability or branch on a measured game quantity.
type Condition struct {
	Type     ConditionType
	Target   *TargetQuery
	Operator CompareOperator
	Value    int
	// StrValue carries name or trait comparisons and context markers.
	StrValue string
	RawText  string
}
