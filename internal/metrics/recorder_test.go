package metrics

import "testing"

func TestOutcomeFor(t *testing.T) {
	cases := []struct {
		ok, failed int
		want       BatchOutcomeLabel
	}{
		{3, 0, BatchOutcomeSuccess},
		{0, 0, BatchOutcomeSuccess},
		{2, 1, BatchOutcomePartial},
		{0, 2, BatchOutcomeFailed},
	}
	for _, c := range cases {
		if got := OutcomeFor(c.ok, c.failed); got != c.want {
			t.Errorf("OutcomeFor(%d, %d) = %s, want %s", c.ok, c.failed, got, c.want)
		}
	}
}

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
