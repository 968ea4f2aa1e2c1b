package tracker

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexMcLaughlin1/sessions/internal/calendar"
	"github.com/AlexMcLaughlin1/sessions/internal/model"
	"github.com/AlexMcLaughlin1/sessions/internal/service/store"
	"github.com/AlexMcLaughlin1/sessions/internal/state"
)

type memoryRepo struct {
	env     *state.Envelope
	loadErr error
	saveErr error
	saves   int
}

func (r *memoryRepo) Load() (*state.Envelope, error) { return r.env, r.loadErr }
func (r *memoryRepo) Location() string               { return "memory" }
func (r *memoryRepo) Close() error                   { return nil }

func (r *memoryRepo) Save(env *state.Envelope) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.env = env
	return nil
}

func fixedClock(day time.Time) func() time.Time {
	return func() time.Time { return day.Add(9 * time.Hour) }
}

// 三周计划：2025-01-06 / 01-13 / 01-20
func testPlan() *model.Plan {
	starts := calendar.WeekStarts(calendar.Date(2025, time.January, 6), 3)
	texts := []map[string]string{
		{"Session 1": "Swim 2km + Bike 40km", "Session 2": "Run 5-7km"},
		{"Session 1": "Gym", "Session 2": "Run 10km"},
		{"Session 1": "Bike 60km", "Session 2": ""},
	}
	rows := make([]model.PlanRow, len(texts))
	for i := range texts {
		rows[i] = model.PlanRow{
			Index:          i,
			Label:          []string{"1", "2", "Race"}[i],
			WeekCommencing: starts[i],
			SourceDate:     starts[i],
			Sessions:       texts[i],
		}
	}
	return &model.Plan{
		SourcePath:     "sessions.csv",
		SessionColumns: []string{"Session 1", "Session 2"},
		Rows:           rows,
	}
}

func newTestTracker(t *testing.T, repo state.Repository, today time.Time) *Tracker {
	t.Helper()
	return NewTracker(testPlan(), store.NewSessionStore(), repo, Options{Now: fixedClock(today)})
}

func TestToggleCompletion_SavesAndAggregates(t *testing.T) {
	repo := &memoryRepo{}
	tr := newTestTracker(t, repo, calendar.Date(2025, time.January, 15))

	update, err := tr.ToggleCompletion(model.CompletionKey(0, "Session 2"))
	require.NoError(t, err)
	assert.True(t, update.Done)
	assert.Equal(t, model.CellCompleted, update.Status)
	assert.Empty(t, update.Warning)
	assert.Equal(t, "completed_0_session_2", update.Key)
	assert.Equal(t, 1, repo.saves)

	stats := tr.Stats()
	assert.Equal(t, 6, stats.TotalSessions)
	assert.Equal(t, 1, stats.CompletedCount)
	assert.Equal(t, 1, stats.MissedCount)
	assert.InDelta(t, 6.0, stats.Distances.Run, 1e-9)
	assert.Equal(t, 1, stats.CurrentWeekIndex)

	require.NotNil(t, repo.env)
	assert.Equal(t, state.SchemaVersion, repo.env.Version)
	assert.Equal(t, "2025-01-15", repo.env.SavedAt)
	assert.Equal(t, true, repo.env.State["completed_0_session_2"])

	update, err = tr.ToggleCompletion(model.CompletionKey(0, "Session 2"))
	require.NoError(t, err)
	assert.False(t, update.Done)
	assert.Equal(t, model.CellMissed, update.Status)
	assert.Equal(t, false, repo.env.State["completed_0_session_2"])
}

func TestToggleCompletion_Errors(t *testing.T) {
	tr := newTestTracker(t, &memoryRepo{}, calendar.Date(2025, time.January, 15))

	_, err := tr.ToggleCompletion(model.PlannedKey(0, "Session 1"))
	assert.ErrorIs(t, err, ErrWrongKeyPrefix)

	_, err = tr.ToggleCompletion(model.CompletionKey(3, "Session 1"))
	assert.ErrorIs(t, err, ErrUnknownCell)

	_, err = tr.ToggleCompletion(model.CompletionKey(0, "Session 9"))
	assert.ErrorIs(t, err, ErrUnknownCell)
}

func TestToggleCompletion_NormalizedColumnCollides(t *testing.T) {
	tr := newTestTracker(t, &memoryRepo{}, calendar.Date(2025, time.January, 15))

	_, err := tr.ToggleCompletion(model.CompletionKey(1, "SESSION_1"))
	require.NoError(t, err)

	board := tr.Board()
	assert.True(t, board.Rows[1].Cells[0].Done)
}

func TestSetPlannedDay(t *testing.T) {
	repo := &memoryRepo{}
	tr := newTestTracker(t, repo, calendar.Date(2025, time.January, 15))
	key := model.PlannedKey(1, "Session 1")

	update, err := tr.SetPlannedDay(key, "2025-01-16")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-16", update.PlannedDay)
	assert.Equal(t, "2025-01-16", repo.env.State["planned_1_session_1"])

	update, err = tr.SetPlannedDay(key, "Sun 2025-01-19")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-19", update.PlannedDay)

	update, err = tr.SetPlannedDay(key, UnplannedLabel)
	require.NoError(t, err)
	assert.Empty(t, update.PlannedDay)
	_, present := repo.env.State["planned_1_session_1"]
	assert.False(t, present)
}

func TestSetPlannedDay_OutOfWeekClears(t *testing.T) {
	repo := &memoryRepo{}
	tr := newTestTracker(t, repo, calendar.Date(2025, time.January, 15))
	key := model.PlannedKey(1, "Session 2")

	_, err := tr.SetPlannedDay(key, "2025-01-14")
	require.NoError(t, err)

	for _, value := range []string{"2025-01-20", "2025-01-12", "garbage", ""} {
		_, err := tr.SetPlannedDay(key, "2025-01-14")
		require.NoError(t, err)

		update, err := tr.SetPlannedDay(key, value)
		require.NoError(t, err, value)
		assert.Empty(t, update.PlannedDay, value)
		assert.Empty(t, tr.Board().Rows[1].Cells[1].PlannedDay, value)
	}
}

func TestSetPlannedDay_WrongPrefix(t *testing.T) {
	tr := newTestTracker(t, &memoryRepo{}, calendar.Date(2025, time.January, 15))

	_, err := tr.SetPlannedDay(model.CompletionKey(0, "Session 1"), "2025-01-07")
	assert.ErrorIs(t, err, ErrWrongKeyPrefix)
}

func TestSaveFailureIsSoft(t *testing.T) {
	repo := &memoryRepo{saveErr: errors.New("read-only file system")}
	tr := newTestTracker(t, repo, calendar.Date(2025, time.January, 15))

	update, err := tr.ToggleCompletion(model.CompletionKey(1, "Session 1"))
	require.NoError(t, err)
	assert.True(t, update.Done)
	assert.Equal(t, SaveWarning, update.Warning)
	assert.Equal(t, 1, tr.Stats().GymSessionCount)
	assert.Contains(t, tr.Status().LastSaveError, "read-only")

	repo.saveErr = nil
	require.NoError(t, tr.SaveNow())
	assert.Empty(t, tr.Status().LastSaveError)
	assert.Equal(t, true, repo.env.State["completed_1_session_1"])
}

func TestRestore_PrunesInvalidEntries(t *testing.T) {
	repo := &memoryRepo{env: &state.Envelope{
		Version: state.SchemaVersion,
		SavedAt: "2025-01-10",
		State: map[string]any{
			"completed_0_session_1": true,
			"completed_9_session_1": true, // 周不存在
			"completed_0_session_7": true, // 列不存在
			"planned_0_session_1":   "2025-01-08",
			"planned_0_session_2":   "2025-01-20", // 不在该周
			"planned_1_session_1":   "not-a-date",
		},
	}}
	tr := newTestTracker(t, repo, calendar.Date(2025, time.January, 10))

	board := tr.Board()
	assert.True(t, board.Rows[0].Cells[0].Done)
	assert.Equal(t, "2025-01-08", board.Rows[0].Cells[0].PlannedDay)
	assert.Empty(t, board.Rows[0].Cells[1].PlannedDay)
	assert.Empty(t, board.Rows[1].Cells[0].PlannedDay)
	assert.Equal(t, 1, tr.Stats().CompletedCount)
}

func TestRestore_VersionMismatchStartsEmpty(t *testing.T) {
	repo := &memoryRepo{env: &state.Envelope{
		Version: 999,
		State:   map[string]any{"completed_0_session_1": true},
	}}
	tr := newTestTracker(t, repo, calendar.Date(2025, time.January, 10))
	assert.Zero(t, tr.Stats().CompletedCount)
}

func TestRestore_LoadErrorStartsEmpty(t *testing.T) {
	repo := &memoryRepo{loadErr: errors.New("permission denied")}
	tr := newTestTracker(t, repo, calendar.Date(2025, time.January, 10))
	assert.Zero(t, tr.Stats().CompletedCount)
}

func TestPersistAcrossRestart_FileRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan_state.json")
	today := calendar.Date(2025, time.January, 22)

	first := newTestTracker(t, state.NewFileRepository(path), today)
	_, err := first.ToggleCompletion(model.CompletionKey(2, "Session 1"))
	require.NoError(t, err)
	_, err = first.SetPlannedDay(model.PlannedKey(2, "Session 1"), "2025-01-25")
	require.NoError(t, err)

	second := newTestTracker(t, state.NewFileRepository(path), today)
	cell := second.Board().Rows[2].Cells[0]
	assert.True(t, cell.Done)
	assert.Equal(t, "2025-01-25", cell.PlannedDay)
	assert.InDelta(t, 60.0, second.Stats().Distances.Bike, 1e-9)
}

func TestBoard(t *testing.T) {
	tr := newTestTracker(t, &memoryRepo{}, calendar.Date(2025, time.January, 15))
	board := tr.Board()

	assert.Equal(t, "2025-01-15", board.Today)
	assert.Equal(t, []string{"Session 1", "Session 2"}, board.SessionColumns)
	require.Len(t, board.Rows, 3)

	row := board.Rows[1]
	assert.True(t, row.Current)
	assert.False(t, board.Rows[0].Current)
	assert.Equal(t, "2025-01-13", row.WeekCommencing)
	require.Len(t, row.DayOptions, 8)
	assert.Equal(t, DayOption{Value: "", Label: UnplannedLabel}, row.DayOptions[0])
	assert.Equal(t, DayOption{Value: "2025-01-13", Label: "Mon 2025-01-13"}, row.DayOptions[1])
	assert.Equal(t, DayOption{Value: "2025-01-19", Label: "Sun 2025-01-19"}, row.DayOptions[7])

	assert.Equal(t, model.CellMissed, board.Rows[0].Cells[0].Status)
	assert.Equal(t, model.CellPending, row.Cells[0].Status)
	assert.Equal(t, "completed_1_session_1", row.Cells[0].CompletionKey)
	assert.Equal(t, "planned_1_session_1", row.Cells[0].PlannedKey)
	assert.Equal(t, "Race", board.Rows[2].Label)
}

func TestStatus(t *testing.T) {
	tr := newTestTracker(t, &memoryRepo{}, calendar.Date(2025, time.January, 15))
	s := tr.Status()

	assert.Equal(t, "sessions.csv", s.SourcePath)
	assert.Equal(t, 3, s.Weeks)
	assert.Equal(t, "2025-01-06", s.PlanStart)
	assert.Equal(t, "2025-01-26", s.PlanEnd)
	assert.Equal(t, "memory", s.StateLocation)
}
