package model

// FieldKind is the closed set of input controls a form can render.
type FieldKind string

const (
	FieldKindText    FieldKind = "text"
	FieldKindInteger FieldKind = "integer"
	FieldKindFloat   FieldKind = "float"
	FieldKindBoolean FieldKind = "boolean"
	FieldKindEnum    FieldKind = "enum"
	FieldKindRange   FieldKind = "range"
	FieldKindFile    FieldKind = "file"
)

// FileKind narrows a file field to the media it accepts.
type FileKind string

const (
	FileKindImage   FileKind = "image"
	FileKindAudio   FileKind = "audio"
	FileKindVideo   FileKind = "video"
	FileKindGeneric FileKind = "generic"
)

// Coarse type tags produced by DetectFileType and consumed by ClassifyOutputs.
const (
	TagImage  = "image"
	TagAudio  = "audio"
	TagVideo  = "video"
	TagString = "string"
	TagList   = "list"
	TagJSON   = "json"
)

// Field describes one input control. Choices is non-empty only for enum
// fields; Min, Max and Step are set only for range fields.
type Field struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"kind"`
	FileKind FileKind  `json:"fileKind,omitempty"`
	Multiple bool      `json:"multiple,omitempty"`
	Label    string    `json:"label"`
	Help     string    `json:"help,omitempty"`
	Default  any       `json:"default,omitempty"`
	Choices  []any     `json:"choices,omitempty"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	Step     float64   `json:"step,omitempty"`
}

// SlotKind is the render target for one positional output.
type SlotKind string

const (
	SlotKindImage      SlotKind = "image"
	SlotKindAudio      SlotKind = "audio"
	SlotKindVideo      SlotKind = "video"
	SlotKindText       SlotKind = "text"
	SlotKindStructured SlotKind = "structured"
)

// Slot describes one output position. The slot sequence is fixed once the
// form is built.
type Slot struct {
	Index int      `json:"index"`
	Kind  SlotKind `json:"kind"`
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Slots       []Slot            `json:"slots"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// SlotKinds returns the ordered slot kinds, the contract the output pipeline
// reshapes every response to.
func (f FormModel) SlotKinds() []SlotKind {
	kinds := make([]SlotKind, len(f.Slots))
	for i, slot := range f.Slots {
		kinds[i] = slot.Kind
	}
	return kinds
}

// Field looks up a field by name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
