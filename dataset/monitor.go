package dataset

import "github.com/catalook/catalook/core"

// Load stage reported once the new snapshot is installed.
// The earlier stages (connect, fetch, validate) come from the source.
const StageReady = "ready"

// Progress is one load milestone: a stage name and a coarse percentage.
type Progress struct {
	Stage   string
	Percent int
	Err     error
}

// LoadMonitor provides hooks to observe a catalog load.
// Implementations must be cheap; they are called from the load path.
type LoadMonitor interface {
	Stage(stage string, percent int)
	Ready(snap *core.Snapshot)
	Failed(err error)
}

// noopLoadMonitor is a no-op implementation of LoadMonitor.
type noopLoadMonitor struct{}

var _ LoadMonitor = noopLoadMonitor{}

func (noopLoadMonitor) Stage(string, int)    {}
func (noopLoadMonitor) Ready(*core.Snapshot) {}
func (noopLoadMonitor) Failed(error)         {}

// ChannelMonitor forwards load milestones to a channel as Progress values.
// Sends never block; milestones are dropped when the channel is full, so
// slow consumers cannot stall a load.
type ChannelMonitor struct {
	ch chan<- Progress
}

var _ LoadMonitor = (*ChannelMonitor)(nil)

// NewChannelMonitor creates a monitor forwarding milestones to ch.
func NewChannelMonitor(ch chan<- Progress) *ChannelMonitor {
	return &ChannelMonitor{ch: ch}
}

func (m *ChannelMonitor) Stage(stage string, percent int) {
	m.send(Progress{Stage: stage, Percent: percent})
}

func (m *ChannelMonitor) Ready(*core.Snapshot) {
	m.send(Progress{Stage: StageReady, Percent: 100})
}

func (m *ChannelMonitor) Failed(err error) {
	m.send(Progress{Stage: "failed", Err: err})
}

func (m *ChannelMonitor) send(p Progress) {
	select {
	case m.ch <- p:
	default:
	}
}
