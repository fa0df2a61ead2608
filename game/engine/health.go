package engine

import "fmt"

// ListenerID identifies a registered death listener.
type ListenerID int

type deathListener struct {
	id ListenerID
	fn func()
}

// Health tracks current and max health of anything that can take damage.
// Death listeners are one-shot: they run once, in registration order, on the
// transition to zero and are then discarded.
type Health struct {
	current   int
	max       int
	alive     bool
	listeners []deathListener
	nextID    ListenerID
}

// NewHealth creates a full, living health pool
func NewHealth(max int) (*Health, error) {
	if max < 1 {
		return nil, fmt.Errorf("%w: max health must be positive, got %d", ErrInvalidHealth, max)
	}
	return &Health{current: max, max: max, alive: true}, nil
}

// Current returns the current health
func (h *Health) Current() int { return h.current }

// Max returns the maximum health
func (h *Health) Max() int { return h.max }

// Alive reports whether health is above zero
func (h *Health) Alive() bool { return h.alive }

// Set changes current health. Zero is terminal for this life: once dead only
// Revive brings the pool back.
func (h *Health) Set(v int) error {
	if v < 0 || v > h.max {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidHealth, v, h.max)
	}
	if !h.alive {
		if v == 0 {
			return nil
		}
		return fmt.Errorf("%w: cannot set health %d on a dead entity", ErrInvalidHealth, v)
	}

	h.current = v
	if v == 0 {
		h.alive = false
		h.fireDeath()
	}
	return nil
}

// Revive restores a dead entity to v health.
func (h *Health) Revive(v int) error {
	if h.alive {
		return fmt.Errorf("%w: entity is alive", ErrInvalidHealth)
	}
	if v < 1 || v > h.max {
		return fmt.Errorf("%w: revive health %d not in [1, %d]", ErrInvalidHealth, v, h.max)
	}
	h.current = v
	h.alive = true
	return nil
}

// SetMax changes max health, clamping current health down to the new max.
func (h *Health) SetMax(m int) error {
	if m < 1 {
		return fmt.Errorf("%w: max health must be positive, got %d", ErrInvalidHealth, m)
	}
	h.max = m
	if h.current > m {
		h.current = m
	}
	return nil
}

// OnDeath registers a one-shot listener for the next death.
func (h *Health) OnDeath(fn func()) ListenerID {
	h.nextID++
	h.listeners = append(h.listeners, deathListener{id: h.nextID, fn: fn})
	return h.nextID
}

// RemoveListener unregisters a pending listener. It reports whether one was found.
func (h *Health) RemoveListener(id ListenerID) bool {
	for i, l := range h.listeners {
		if l.id == id {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (h *Health) fireDeath() {
	pending := h.listeners
	h.listeners = nil
	for _, l := range pending {
		l.fn()
	}
}
