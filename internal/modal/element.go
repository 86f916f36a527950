// Package modal drives the file-tree modal over a small in-memory document model.
package modal

import (
	"html"
	"sort"
	"strings"
)

// EventTypeClick is the only pointer event the modal reacts to.
const EventTypeClick = "click"

// Event describes a dispatched pointer event.
// Target is the element the event originated on; CurrentTarget is the element whose listener runs.
type Event struct {
	Type          string
	Target        *Element
	CurrentTarget *Element
}

// Listener handles an Event.
type Listener func(Event)

// ListenerHandle identifies a registered listener for removal.
type ListenerHandle struct {
	element   *Element
	eventType string
	id        int
}

type registeredListener struct {
	id       int
	listener Listener
}

// Element is a node of the document model.
type Element struct {
	Tag        string
	classes    []string
	attributes map[string]string
	text       string
	innerHTML  string
	children   []*Element
	parent     *Element
	listeners  map[string][]registeredListener
	nextID     int
}

// NewElement creates a detached element with the given classes.
func NewElement(tag string, classes ...string) *Element {
	element := &Element{
		Tag:        tag,
		attributes: map[string]string{},
		listeners:  map[string][]registeredListener{},
	}
	for _, className := range classes {
		element.AddClass(className)
	}
	return element
}

// AppendChild attaches child as the last child and returns element.
func (element *Element) AppendChild(children ...*Element) *Element {
	for _, child := range children {
		child.parent = element
		element.children = append(element.children, child)
	}
	return element
}

// Parent returns the parent element or nil.
func (element *Element) Parent() *Element {
	return element.parent
}

// Children returns the element's children.
func (element *Element) Children() []*Element {
	return append([]*Element(nil), element.children...)
}

// AddClass adds className when absent.
func (element *Element) AddClass(className string) {
	if element.HasClass(className) {
		return
	}
	element.classes = append(element.classes, className)
}

// RemoveClass removes className when present.
func (element *Element) RemoveClass(className string) {
	for index, existing := range element.classes {
		if existing == className {
			element.classes = append(element.classes[:index], element.classes[index+1:]...)
			return
		}
	}
}

// HasClass reports whether className is set.
func (element *Element) HasClass(className string) bool {
	for _, existing := range element.classes {
		if existing == className {
			return true
		}
	}
	return false
}

// SetAttribute sets an attribute value.
func (element *Element) SetAttribute(name, value string) {
	element.attributes[name] = value
}

// Attribute returns an attribute value and whether it is set.
func (element *Element) Attribute(name string) (string, bool) {
	value, exists := element.attributes[name]
	return value, exists
}

// SetTextContent replaces the element's text.
func (element *Element) SetTextContent(text string) {
	element.text = text
}

// TextContent returns the element's text.
func (element *Element) TextContent() string {
	return element.text
}

// SetInnerHTML replaces the element's markup content.
func (element *Element) SetInnerHTML(markup string) {
	element.innerHTML = markup
}

// InnerHTML returns the element's markup content.
func (element *Element) InnerHTML() string {
	return element.innerHTML
}

// AddEventListener registers listener for eventType.
func (element *Element) AddEventListener(eventType string, listener Listener) ListenerHandle {
	element.nextID++
	element.listeners[eventType] = append(element.listeners[eventType], registeredListener{id: element.nextID, listener: listener})
	return ListenerHandle{element: element, eventType: eventType, id: element.nextID}
}

// RemoveEventListener detaches the listener identified by handle. Unknown handles are ignored.
func (element *Element) RemoveEventListener(handle ListenerHandle) {
	if handle.element != element {
		return
	}
	registered := element.listeners[handle.eventType]
	for index, entry := range registered {
		if entry.id == handle.id {
			element.listeners[handle.eventType] = append(registered[:index], registered[index+1:]...)
			return
		}
	}
}

// ListenerCount reports the number of listeners registered for eventType.
func (element *Element) ListenerCount(eventType string) int {
	return len(element.listeners[eventType])
}

// Dispatch delivers an event of eventType to element and then to each ancestor.
func (element *Element) Dispatch(eventType string) {
	for current := element; current != nil; current = current.parent {
		registered := append([]registeredListener(nil), current.listeners[eventType]...)
		for _, entry := range registered {
			entry.listener(Event{Type: eventType, Target: element, CurrentTarget: current})
		}
	}
}

// Click dispatches a click event.
func (element *Element) Click() {
	element.Dispatch(EventTypeClick)
}

// QuerySelector returns the first descendant carrying className, depth-first.
func (element *Element) QuerySelector(className string) *Element {
	for _, child := range element.children {
		if child.HasClass(className) {
			return child
		}
		if found := child.QuerySelector(className); found != nil {
			return found
		}
	}
	return nil
}

// RenderHTML serialises the element, its attributes and its content.
// Text content is escaped; inner HTML is emitted verbatim after the children.
func (element *Element) RenderHTML() string {
	var builder strings.Builder
	element.writeHTML(&builder)
	return builder.String()
}

func (element *Element) writeHTML(builder *strings.Builder) {
	builder.WriteString("<" + element.Tag)
	if len(element.classes) > 0 {
		builder.WriteString(` class="` + html.EscapeString(strings.Join(element.classes, " ")) + `"`)
	}
	attributeNames := make([]string, 0, len(element.attributes))
	for name := range element.attributes {
		attributeNames = append(attributeNames, name)
	}
	sort.Strings(attributeNames)
	for _, name := range attributeNames {
		builder.WriteString(" " + name + `="` + html.EscapeString(element.attributes[name]) + `"`)
	}
	builder.WriteString(">")
	builder.WriteString(html.EscapeString(element.text))
	for _, child := range element.children {
		child.writeHTML(builder)
	}
	builder.WriteString(element.innerHTML)
	builder.WriteString("</" + element.Tag + ">")
}
