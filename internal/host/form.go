// Package host provides environments the typewriter engine can type into.
package host

import (
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/verte-zerg/scribe/internal/typewriter"
)

var (
	// ErrReadOnly is returned when writing to a read-only field.
	ErrReadOnly = errors.New("field is read-only")
	// ErrInvalidRange is returned for a selection outside the field value.
	ErrInvalidRange = errors.New("invalid selection range")
)

// Event is a notification dispatched by a Field.
type Event struct {
	Type    typewriter.EventType
	Field   string
	Value   string
	Bubbles bool
}

// Listener receives field events.
type Listener func(Event)

// Field is an in-memory text-entry element.
type Field struct {
	mu        sync.Mutex
	name      string
	value     string
	selStart  int
	selEnd    int
	readOnly  bool
	listeners []Listener
	form      *Form
}

// NewField returns an empty, detached field.
func NewField(name string) *Field {
	return &Field{name: name}
}

// Name returns the field name.
func (f *Field) Name() string {
	return f.name
}

// Value implements typewriter.Target.
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// SetValue implements typewriter.Target.
func (f *Field) SetValue(value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readOnly {
		return ErrReadOnly
	}
	f.value = value
	n := utf8.RuneCountInString(value)
	if f.selStart > n {
		f.selStart = n
	}
	if f.selEnd > n {
		f.selEnd = n
	}
	return nil
}

// Dispatch implements typewriter.Target. Field listeners run first, then the
// event bubbles to the owning form.
func (f *Field) Dispatch(eventType typewriter.EventType) error {
	f.mu.Lock()
	ev := Event{Type: eventType, Field: f.name, Value: f.value, Bubbles: true}
	listeners := append([]Listener(nil), f.listeners...)
	form := f.form
	f.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
	if form != nil {
		form.bubble(ev)
	}
	return nil
}

// SetSelectionRange implements typewriter.Target.
func (f *Field) SetSelectionRange(start, end int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := utf8.RuneCountInString(f.value)
	if start < 0 || end < start || end > n {
		return ErrInvalidRange
	}
	f.selStart = start
	f.selEnd = end
	return nil
}

// Selection returns the caret/selection range in runes.
func (f *Field) Selection() (start, end int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selStart, f.selEnd
}

// SetReadOnly toggles whether the field accepts writes.
func (f *Field) SetReadOnly(readOnly bool) {
	f.mu.Lock()
	f.readOnly = readOnly
	f.mu.Unlock()
}

// Clear empties the field without dispatching events.
func (f *Field) Clear() {
	f.mu.Lock()
	f.value = ""
	f.selStart = 0
	f.selEnd = 0
	f.mu.Unlock()
}

// AddListener registers l for every event dispatched by the field.
func (f *Field) AddListener(l Listener) {
	f.mu.Lock()
	f.listeners = append(f.listeners, l)
	f.mu.Unlock()
}

var _ typewriter.Target = (*Field)(nil)

// Form owns a set of fields and tracks which one has focus.
type Form struct {
	mu        sync.Mutex
	fields    map[string]*Field
	focused   *Field
	listeners []Listener
}

// NewForm returns an empty form with nothing focused.
func NewForm() *Form {
	return &Form{fields: map[string]*Field{}}
}

// AddField creates a field owned by the form, replacing any field of the same name.
func (fm *Form) AddField(name string) *Field {
	f := NewField(name)
	f.form = fm
	fm.mu.Lock()
	fm.fields[name] = f
	fm.mu.Unlock()
	return f
}

// Field returns the named field.
func (fm *Form) Field(name string) (*Field, bool) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	f, ok := fm.fields[name]
	return f, ok
}

// Focus moves focus to the named field. It reports whether the field exists.
func (fm *Form) Focus(name string) bool {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	f, ok := fm.fields[name]
	if !ok {
		return false
	}
	fm.focused = f
	return true
}

// Blur removes focus from every field.
func (fm *Form) Blur() {
	fm.mu.Lock()
	fm.focused = nil
	fm.mu.Unlock()
}

// FocusedName returns the name of the focused field, or "".
func (fm *Form) FocusedName() string {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	if fm.focused == nil {
		return ""
	}
	return fm.focused.name
}

// Focused implements typewriter.Resolver. Read-only fields do not accept
// direct value assignment and are reported as no target.
func (fm *Form) Focused() typewriter.Target {
	fm.mu.Lock()
	f := fm.focused
	fm.mu.Unlock()
	if f == nil {
		return nil
	}
	f.mu.Lock()
	readOnly := f.readOnly
	f.mu.Unlock()
	if readOnly {
		return nil
	}
	return f
}

// AddListener registers l for events bubbling up from any field.
func (fm *Form) AddListener(l Listener) {
	fm.mu.Lock()
	fm.listeners = append(fm.listeners, l)
	fm.mu.Unlock()
}

func (fm *Form) bubble(ev Event) {
	fm.mu.Lock()
	listeners := append([]Listener(nil), fm.listeners...)
	fm.mu.Unlock()
	for _, l := range listeners {
		l(ev)
	}
}

var _ typewriter.Resolver = (*Form)(nil)
