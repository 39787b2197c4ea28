package docgen

// TypeDef is a named type declaration extracted from a component source.
// Names are unique across a whole run.
type TypeDef struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// TS is the full TypeScript declaration, e.g. `type Variant = "info" | "error"`
	TS string `json:"ts" yaml:"ts"`
}

// Prop kinds
const (
	PropLet      = "let"
	PropConst    = "const"
	PropFunction = "function"
)

// Prop is a component property.
type Prop struct {
	Name        string `json:"name" yaml:"name"`
	Kind        string `json:"kind" yaml:"kind"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	IsRequired  bool   `json:"isRequired" yaml:"isRequired"`
	Constant    bool   `json:"constant" yaml:"constant"`
	Reactive    bool   `json:"reactive" yaml:"reactive"`
}

// Event kinds
const (
	EventDispatched = "dispatched"
	EventForwarded  = "forwarded"
)

// Event is an event a component emits.
type Event struct {
	Name        string `json:"name" yaml:"name"`
	Kind        string `json:"type" yaml:"type"`
	Element     string `json:"element,omitempty" yaml:"element,omitempty"`
	Detail      string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Slot is a named or default slot.
type Slot struct {
	Name      string `json:"name" yaml:"name"`
	Default   bool   `json:"default" yaml:"default"`
	Fallback  string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	SlotProps string `json:"slot_props,omitempty" yaml:"slot_props,omitempty"`
}

// RestProps names the element receiving spread attributes
type RestProps struct {
	Name string `json:"name" yaml:"name"`
}

// Documentation is the component-level metadata returned by the Parser.
// The collector passes it through unchanged.
type Documentation struct {
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Props       []Prop     `json:"props" yaml:"props"`
	Events      []Event    `json:"events" yaml:"events"`
	Slots       []Slot     `json:"slots" yaml:"slots"`
	RestProps   *RestProps `json:"rest_props,omitempty" yaml:"rest_props,omitempty"`
}

// IsEmpty reports whether the block carries no metadata
func (d *Documentation) IsEmpty() bool {
	return d == nil || (d.Description == "" && len(d.Props) == 0 &&
		len(d.Events) == 0 && len(d.Slots) == 0 && d.RestProps == nil)
}

// ComponentRecord is everything collected about one exported component.
type ComponentRecord struct {
	Name string
	// Located is false for exports with no discoverable source (placeholders)
	Located bool
	Source  string
	Group   string
	// TypeDefs are the typedefs this component collected first, in declaration order
	TypeDefs []TypeDef
	// TypeRefs names every typedef the component declares, including ones
	// another component collected first
	TypeRefs []string
	Doc      Documentation
}
