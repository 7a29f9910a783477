package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/ledgertmpl/output"
)

// slowThreshold marks operations highlighted in reports.
const slowThreshold = 100 * time.Millisecond

// TimingCollector builds a tree of timed operations. The first timer
// started becomes the root; later ones nest under whichever timer is
// still running.
type TimingCollector struct {
	mu      sync.Mutex
	root    *timerNode
	current *timerNode
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *timerNode
	children []*timerNode
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return time.Since(n.start)
	}
	return n.end.Sub(n.start)
}

// NewTimingCollector creates an empty TimingCollector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: time.Now()}
	if c.root == nil {
		c.root = node
	} else {
		c.attach(c.current, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

func (c *TimingCollector) attach(parent, node *timerNode) {
	node.parent = parent
	parent.children = append(parent.children, node)
}

// Report prints the timing tree, styled when w is a terminal:
//
//	render rent.tmpl: 12ms
//	├─ template.render: 10ms
//	│  └─ balance.lookup (1 accounts): 9ms
//	└─ transaction.build: 0ms
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}

	styles := output.NewStyles(w)
	_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Keyword(c.root.name), formatDuration(c.root.duration()))
	for i, child := range c.root.children {
		reportNode(w, styles, child, "", i == len(c.root.children)-1)
	}
}

func reportNode(w io.Writer, styles *output.Styles, node *timerNode, prefix string, last bool) {
	branch, extension := "├─ ", "│  "
	if last {
		branch, extension = "└─ ", "   "
	}

	d := node.duration()
	timing := styles.Timing(formatDuration(d), d >= slowThreshold)
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(prefix+branch), node.name, timing)

	for i, child := range node.children {
		reportNode(w, styles, child, prefix+extension, i == len(node.children)-1)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	t.node.end = time.Now()
	if c.current == t.node && t.node.parent != nil {
		c.current = t.node.parent
	}
}

func (t *timingTimer) Child(name string) Timer {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: time.Now()}
	c.attach(t.node, node)

	return &timingTimer{collector: c, node: node}
}
