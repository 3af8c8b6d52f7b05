package cpu

import (
	"log"
	"slices"
	"strings"
)

// Phase is a control sequencer state.
type Phase int

//go:generate go tool stringer -linecomment -type=Phase
const (
	PHASE_UNSET   = Phase(0) // UNSET
	PHASE_FETCH   = Phase(1) // FETCH
	PHASE_DECODE  = Phase(2) // DECODE
	PHASE_EXECUTE = Phase(3) // EXECUTE
)

// DefaultPhases is the conventional control state set.
var DefaultPhases = []Phase{PHASE_FETCH, PHASE_DECODE, PHASE_EXECUTE}

// ParsePhase parses a control phase name, ignoring case.
func ParsePhase(name string) (phase Phase, err error) {
	for _, phase = range DefaultPhases {
		if strings.EqualFold(phase.String(), strings.TrimSpace(name)) {
			return
		}
	}

	phase = PHASE_UNSET
	err = ErrParsePhase(name)
	return
}

// ParsePhases parses a comma separated list of control phase names.
func ParsePhases(list string) (phases []Phase, err error) {
	for name := range strings.SplitSeq(list, ",") {
		var phase Phase
		phase, err = ParsePhase(name)
		if err != nil {
			return
		}
		if !slices.Contains(phases, phase) {
			phases = append(phases, phase)
		}
	}

	return
}

// Sequencer tracks the current control phase. It never advances on its own;
// the owner sets each phase before executing it.
type Sequencer struct {
	Logger *log.Logger // Destination of phase markers. Nil uses log.Default().

	states  []Phase
	current Phase
}

// NewSequencer creates a sequencer accepting only 'states'.
func NewSequencer(states ...Phase) (seq *Sequencer) {
	seq = &Sequencer{
		states: slices.Clone(states),
	}

	return
}

// States returns the configured state set.
func (seq *Sequencer) States() []Phase {
	return slices.Clone(seq.states)
}

// State returns the current phase, or PHASE_UNSET.
func (seq *Sequencer) State() Phase {
	return seq.current
}

// Clear returns the sequencer to PHASE_UNSET.
func (seq *Sequencer) Clear() {
	seq.current = PHASE_UNSET
}

// SetState makes 'phase' current, if it is in the configured state set.
func (seq *Sequencer) SetState(phase Phase) (err error) {
	if phase == PHASE_UNSET || !slices.Contains(seq.states, phase) {
		err = ErrPhase(phase)
		return
	}

	seq.current = phase
	return
}

// ExecuteState performs the action of the current phase.
// Each phase logs a distinct marker; no machine state is touched.
func (seq *Sequencer) ExecuteState() (err error) {
	var marker string

	switch seq.current {
	case PHASE_UNSET:
		err = ErrNoCurrentState
		return
	case PHASE_FETCH:
		marker = f("fetching instruction from program memory")
	case PHASE_DECODE:
		marker = f("decoding instruction")
	case PHASE_EXECUTE:
		marker = f("executing instruction")
	default:
		err = ErrPhase(seq.current)
		return
	}

	logger := seq.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Print(marker)

	return
}
