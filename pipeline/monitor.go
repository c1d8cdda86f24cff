package pipeline

import (
	"log/slog"

	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/synthesis"
)

// Monitor provides hooks to observe a pipeline call.
// Implement this interface to track intermediate steps and results.
// Every callback receives the call's request ID.
type Monitor interface {
	Start(requestID string, query string, topK int)
	AfterRetrieval(requestID string, passages []*core.ScoredPassage)
	AfterSynthesis(requestID string, completion *synthesis.Completion)
	Finish(requestID string, answer *core.StructuredAnswer)
	Failed(requestID string, err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ string, _ int)                  {}
func (n *noopMonitor) AfterRetrieval(_ string, _ []*core.ScoredPassage) {}
func (n *noopMonitor) AfterSynthesis(_ string, _ *synthesis.Completion) {}
func (n *noopMonitor) Finish(_ string, _ *core.StructuredAnswer)        {}
func (n *noopMonitor) Failed(_ string, _ error)                         {}

// LogMonitor writes each stage of a call to a logger at debug level.
// Passage text is never logged, only IDs and scores.
type LogMonitor struct {
	logger *slog.Logger
}

var _ Monitor = (*LogMonitor)(nil)

// NewLogMonitor creates a monitor that logs to logger.
// A nil logger uses slog.Default().
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger.With("component", "pipeline-monitor")}
}

func (m *LogMonitor) Start(requestID string, query string, topK int) {
	m.logger.Debug("query started", "request_id", requestID, "query", query, "top_k", topK)
}

func (m *LogMonitor) AfterRetrieval(requestID string, passages []*core.ScoredPassage) {
	ids := make([]uint64, 0, len(passages))
	scores := make([]float32, 0, len(passages))
	for _, p := range passages {
		if p == nil || p.Passage == nil {
			continue
		}
		ids = append(ids, uint64(p.Passage.Id))
		scores = append(scores, p.Score)
	}
	m.logger.Debug("passages retrieved", "request_id", requestID, "count", len(passages), "ids", ids, "scores", scores)
}

func (m *LogMonitor) AfterSynthesis(requestID string, completion *synthesis.Completion) {
	m.logger.Debug("completion received", "request_id", requestID, "calls", completion.Calls, "length", len(completion.Text))
}

func (m *LogMonitor) Finish(requestID string, answer *core.StructuredAnswer) {
	m.logger.Debug("query finished", "request_id", requestID, "found", answer.Found(), "evidence", len(answer.Evidence))
}

func (m *LogMonitor) Failed(requestID string, err error) {
	m.logger.Debug("query failed", "request_id", requestID, "err", err)
}
