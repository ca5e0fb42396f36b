package metrics

import (
	"time"

	obserrors "github.com/target/dashboard-client/internal/observability/errors"
	"github.com/target/dashboard-client/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// ActionMetric captures one submission (login, register, upload, logout) or profile load.
type ActionMetric struct {
	Action   string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitAction emits standardised submission metrics.
func EmitAction(sink statsd.Sink, in ActionMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"action": in.Action,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("action.submit", 1, tags)

	if in.Duration > 0 {
		sink.Timing("action.duration", in.Duration, CloneTags(tags))
	}
}

// ResultOf maps an error to ResultSuccess or ResultError.
func ResultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}
