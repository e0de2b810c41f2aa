package spatial

import (
	"context"
	"log/slog"
)

// Machine owns the State of one camera feed. It is driven by a single
// per-frame handler and is not safe for concurrent use.
type Machine struct {
	state      State
	thresholds Thresholds
	logger     *slog.Logger
}

// NewMachine returns a machine in Outside/Stable.
func NewMachine(th Thresholds, logger *slog.Logger) (*Machine, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{thresholds: th, logger: logger}, nil
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Thresholds returns the configured hysteresis distances.
func (m *Machine) Thresholds() Thresholds {
	return m.thresholds
}

// Observe records this frame's classification and advances the state.
func (m *Machine) Observe(visible, frameBigger bool, deltaZ float64) State {
	prev := m.state.Phase()

	m.state.PortalVisible = visible
	m.state.FrameBiggerThanCamera = frameBigger
	m.state = Step(m.state, deltaZ, m.thresholds)

	if next := m.state.Phase(); next != prev && m.logger.Enabled(context.Background(), slog.LevelDebug) {
		m.logger.Debug("portal side change",
			"from", prev.String(),
			"to", next.String(),
			"filtered_side", m.state.InFilteredSide,
			"delta_z", deltaZ,
		)
	}
	return m.state
}

// Hide marks the portal as not visible without stepping the side logic.
// Used for frames where the portal could not be classified.
func (m *Machine) Hide() State {
	m.state.PortalVisible = false
	m.state.FrameBiggerThanCamera = false
	return m.state
}

// Reset returns to Outside/Stable.
func (m *Machine) Reset() {
	m.state = State{}
}
