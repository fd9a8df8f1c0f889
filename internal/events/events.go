package events

// Kind discriminates the timeline event variants.
type Kind string

const (
	KindFrame           Kind = "frame"
	KindMouseClick      Kind = "mouseclick"
	KindMouseDrag       Kind = "mousedrag"
	KindType            Kind = "type"
	KindHotkey          Kind = "hotkey"
	KindQuest           Kind = "quest"
	KindHint            Kind = "hint"
	KindDenseCaption    Kind = "dense_caption"
	KindStateTransition Kind = "state_transition"
	KindStructuredData  Kind = "structured_data"
	KindReasoning       Kind = "reasoning"
)

// Event is one entry of a processed session timeline. Timestamps are
// milliseconds relative to session start.
type Event interface {
	Kind() Kind
	Time() int64
}

// TrajectoryPoint is one sample of a drag path. Time is milliseconds
// relative to the start of the drag.
type TrajectoryPoint struct {
	Time int64 `json:"time"`
	X    int   `json:"x"`
	Y    int   `json:"y"`
}

// Frame carries a still image captured from the session recording.
type Frame struct {
	Timestamp int64
	Image     []byte
}

// MouseClick is a down/up pair within the click thresholds.
type MouseClick struct {
	Timestamp int64
	X         int
	Y         int
}

// MouseDrag is a down/up pair exceeding the click thresholds, with its
// path resampled to a fixed control-point count.
type MouseDrag struct {
	Timestamp int64
	Points    []TrajectoryPoint
}

// TypeText is a run of unmodified printable keystrokes. Timestamp is the
// time of the first character.
type TypeText struct {
	Timestamp int64
	Text      string
}

// Hotkey is a special or modified key press, e.g. "ctrl-alt-delete".
type Hotkey struct {
	Timestamp int64
	Combo     string
}

// Quest is a task prompt from the application event log.
type Quest struct {
	Timestamp int64
	Message   string
}

// Hint is guidance text from the application event log.
type Hint struct {
	Timestamp int64
	Message   string
}

// DenseCaption is a model-generated description of a single frame.
type DenseCaption struct {
	Timestamp int64
	Image     []byte
	Text      string
}

// StateTransition is a model-generated narration of the change between
// two frames.
type StateTransition struct {
	Timestamp int64
	Before    []byte
	After     []byte
	Text      string
}

// StructuredData carries OCR-grounded query/response pairs about a frame.
// Payload is the serialized elements+queries JSON document.
type StructuredData struct {
	Timestamp int64
	Image     []byte
	Payload   string
}

// Reasoning is synthetic narration emitted by the paint generator before
// an action.
type Reasoning struct {
	Timestamp int64
	Text      string
}

func (e Frame) Kind() Kind           { return KindFrame }
func (e MouseClick) Kind() Kind      { return KindMouseClick }
func (e MouseDrag) Kind() Kind       { return KindMouseDrag }
func (e TypeText) Kind() Kind        { return KindType }
func (e Hotkey) Kind() Kind          { return KindHotkey }
func (e Quest) Kind() Kind           { return KindQuest }
func (e Hint) Kind() Kind            { return KindHint }
func (e DenseCaption) Kind() Kind    { return KindDenseCaption }
func (e StateTransition) Kind() Kind { return KindStateTransition }
func (e StructuredData) Kind() Kind  { return KindStructuredData }
func (e Reasoning) Kind() Kind       { return KindReasoning }

func (e Frame) Time() int64           { return e.Timestamp }
func (e MouseClick) Time() int64      { return e.Timestamp }
func (e MouseDrag) Time() int64       { return e.Timestamp }
func (e TypeText) Time() int64        { return e.Timestamp }
func (e Hotkey) Time() int64          { return e.Timestamp }
func (e Quest) Time() int64           { return e.Timestamp }
func (e Hint) Time() int64            { return e.Timestamp }
func (e DenseCaption) Time() int64    { return e.Timestamp }
func (e StateTransition) Time() int64 { return e.Timestamp }
func (e StructuredData) Time() int64  { return e.Timestamp }
func (e Reasoning) Time() int64       { return e.Timestamp }

// IsAction reports whether the event represents a user input action.
func IsAction(e Event) bool {
	switch e.Kind() {
	case KindMouseClick, KindMouseDrag, KindType, KindHotkey:
		return true
	}
	return false
}
