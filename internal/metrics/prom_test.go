package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planFixture() ([]domain.Site, []contract.ScheduleBlocker) {
	sites := []domain.Site{
		{ID: "a", Steps: []domain.Step{
			{Type: domain.TaskPreWork, State: domain.StepScheduled, Tentative: false},
			{Type: domain.TaskSiteVisit, State: domain.StepScheduled, Tentative: false},
		}},
		{ID: "b", Steps: []domain.Step{
			{Type: domain.TaskPreWork, State: domain.StepScheduled, Tentative: true},
			{Type: domain.TaskSiteVisit, State: domain.StepUnschedulable, Tentative: true},
		}},
	}
	blockers := []contract.ScheduleBlocker{
		{SiteID: "b", TaskType: domain.TaskSiteVisit, Code: contract.BlockerNoFeasibleSlot},
	}
	return sites, blockers
}

func TestPromSink_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg, "siteplan")
	require.NoError(t, err)

	sites, blockers := planFixture()
	sink.RecordRun(20*time.Millisecond, sites, blockers)

	expectedRuns := `
# HELP siteplan_schedule_runs_total Total number of scheduling runs
# TYPE siteplan_schedule_runs_total counter
siteplan_schedule_runs_total 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.runs, strings.NewReader(expectedRuns)))

	expectedBlocked := `
# HELP siteplan_unschedulable_steps_total Steps emitted without dates, by task type
# TYPE siteplan_unschedulable_steps_total counter
siteplan_unschedulable_steps_total{task_type="site_visit"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.unschedulable, strings.NewReader(expectedBlocked)))

	expectedScheduled := `
# HELP siteplan_scheduled_steps Dated steps in the latest plan, by task type and tentativeness
# TYPE siteplan_scheduled_steps gauge
siteplan_scheduled_steps{task_type="pre_work",tentative="false"} 1
siteplan_scheduled_steps{task_type="pre_work",tentative="true"} 1
siteplan_scheduled_steps{task_type="site_visit",tentative="false"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.scheduled, strings.NewReader(expectedScheduled)))

	assert.Equal(t, 1, testutil.CollectAndCount(sink.duration))
}

func TestPromSink_GaugeReflectsLatestRunOnly(t *testing.T) {
	sink, err := NewPromSink(prometheus.NewRegistry(), "siteplan")
	require.NoError(t, err)

	sites, blockers := planFixture()
	sink.RecordRun(time.Millisecond, sites, blockers)
	sink.RecordRun(time.Millisecond, sites[:1], nil)

	assert.Equal(t, 2, testutil.CollectAndCount(sink.scheduled), "tentative pre-work series cleared")
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.scheduled.WithLabelValues("pre_work", "false"))+
		testutil.ToFloat64(sink.scheduled.WithLabelValues("site_visit", "false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.runs))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.unschedulable.WithLabelValues("site_visit")))
}

func TestNewPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSink(reg, "siteplan")
	require.NoError(t, err)
	second, err := NewPromSink(reg, "siteplan")
	require.NoError(t, err)

	second.RecordRun(time.Millisecond, nil, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.runs))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg, "siteplan")
	require.NoError(t, err)
	sink.RecordRun(time.Millisecond, nil, nil)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "siteplan_schedule_runs_total 1")
}

func TestNoop_DoesNothing(t *testing.T) {
	var r Recorder = Noop{}
	sites, blockers := planFixture()
	assert.NotPanics(t, func() { r.RecordRun(time.Second, sites, blockers) })
}
