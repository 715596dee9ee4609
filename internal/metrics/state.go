package metrics

import "github.com/prometheus/client_golang/prometheus"

var aiStateDesc = prometheus.NewDesc(
	namespace+"_ai_client_state",
	"Current AI client state. The series with value 1 is the active state.",
	[]string{"state"},
	nil,
)

// StateCollector reads the AI client state on each scrape.
type StateCollector struct {
	states []string
	state  func() string
}

func NewStateCollector(state func() string, states ...string) *StateCollector {
	return &StateCollector{states: states, state: state}
}

// Describe sends the metric descriptor to the channel.
func (c *StateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- aiStateDesc
}

// Collect emits one gauge per known state.
func (c *StateCollector) Collect(ch chan<- prometheus.Metric) {
	current := c.state()
	for _, s := range c.states {
		value := 0.0
		if s == current {
			value = 1
		}
		ch <- prometheus.MustNewConstMetric(aiStateDesc, prometheus.GaugeValue, value, s)
	}
}
