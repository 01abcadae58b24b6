// Package widget implements the counter widget: a single integer of local
// state, one increment action and a rendered label.
package widget

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/aretw0/docu/pkg/domain"
)

// Counter is one mounted widget instance. Safe for concurrent use.
type Counter struct {
	id       string
	mu       sync.Mutex
	count    int64
	onChange func(count int64)
}

// NewCounter creates an instance at 0. onChange, if set, is the re-render
// hook scheduled after every increment.
func NewCounter(id string, onChange func(count int64)) *Counter {
	return &Counter{id: id, onChange: onChange}
}

// ID returns the instance ID.
func (c *Counter) ID() string { return c.id }

// Increment applies the increment transition and schedules a re-render.
func (c *Counter) Increment() int64 {
	c.mu.Lock()
	c.count = domain.Increment(c.count)
	n := c.count
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(n)
	}
	return n
}

// Count returns the current count.
func (c *Counter) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Label returns the text the widget displays.
func (c *Counter) Label() string {
	return domain.CounterLabel(c.Count())
}

// Render returns the widget markup for the current count.
func (c *Counter) Render() (template.HTML, error) {
	return Render(domain.CounterState{ID: c.id, Count: c.Count()}, "")
}

var counterTemplate = template.Must(template.New("counter").Parse(
	`<form class="docu-counter" method="post" action="{{.Action}}">` +
		`<button type="submit" data-counter="{{.ID}}">{{.Label}}</button>` +
		`</form>`))

// Render produces the widget markup for a state. action is the URL the
// button posts the increment to; it defaults to the empty action (same URL).
func Render(state domain.CounterState, action string) (template.HTML, error) {
	var buf bytes.Buffer
	err := counterTemplate.Execute(&buf, struct {
		ID     string
		Label  string
		Action string
	}{
		ID:     state.ID,
		Label:  state.Label(),
		Action: action,
	})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
