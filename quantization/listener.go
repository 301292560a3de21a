package quantization

import "fmt"

// EventKind classifies training progress events.
type EventKind int

const (
	// EventIteration reports an accepted refinement iteration.
	EventIteration EventKind = iota
	// EventSplit reports a codebook doubling.
	EventSplit
	// EventRepair reports an under-populated entry re-seeded from a donor.
	EventRepair
	// EventRepairAbandoned reports that under-populated entries could not be repaired.
	EventRepairAbandoned
	// EventRegression reports a distortion increase; the previous iteration is restored.
	EventRegression
	// EventAnomaly reports a numerical anomaly such as NaN distortion.
	EventAnomaly
	// EventDistinct reports that training used the distinct vectors directly.
	EventDistinct
)

func (k EventKind) String() string {
	switch k {
	case EventIteration:
		return "iteration"
	case EventSplit:
		return "split"
	case EventRepair:
		return "repair"
	case EventRepairAbandoned:
		return "repair-abandoned"
	case EventRegression:
		return "regression"
	case EventAnomaly:
		return "anomaly"
	case EventDistinct:
		return "distinct"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Event is a training progress report.
type Event struct {
	Kind EventKind
	// CodebookSize is the number of entries being trained.
	CodebookSize int
	// Pass numbers the refinement loops of one training call, starting at 1.
	Pass int
	// Iteration is the iteration within the pass, starting at 1.
	Iteration int
	// Distortion is the average entry distortion after the iteration.
	Distortion float64
	// Entry is the affected entry for repair events, -1 otherwise.
	Entry   int
	Message string
}

// StatusListener receives training progress events. Implementations must
// return quickly; events are delivered synchronously from the training goroutine
// and have no effect on control flow.
type StatusListener interface {
	OnEvent(Event)
}

// StatusListenerFunc adapts a function to StatusListener.
type StatusListenerFunc func(Event)

// OnEvent implements StatusListener.
func (f StatusListenerFunc) OnEvent(e Event) { f(e) }

type noopListener struct{}

func (noopListener) OnEvent(Event) {}
