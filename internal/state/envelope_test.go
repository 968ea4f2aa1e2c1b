package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexMcLaughlin1/sessions/internal/calendar"
	"github.com/AlexMcLaughlin1/sessions/internal/model"
)

func sampleState() (model.CompletionState, model.PlannedDayState) {
	completion := model.CompletionState{
		model.CompletionKey(0, "Session 1"): true,
		model.CompletionKey(0, "Session 2"): false,
		model.CompletionKey(4, "Session 3"): true,
	}
	planned := model.PlannedDayState{
		model.PlannedKey(0, "Session 1"): "2025-01-07",
		model.PlannedKey(4, "Session 3"): "2025-02-08",
	}
	return completion, planned
}

func TestSerialize_StampsVersionAndDate(t *testing.T) {
	completion, planned := sampleState()
	env := Serialize(completion, planned, calendar.Date(2025, time.February, 3))

	assert.Equal(t, SchemaVersion, env.Version)
	assert.Equal(t, "2025-02-03", env.SavedAt)
	assert.Len(t, env.State, 5)
	assert.Equal(t, true, env.State["completed_0_session_1"])
	assert.Equal(t, false, env.State["completed_0_session_2"])
	assert.Equal(t, "2025-02-08", env.State["planned_4_session_3"])
}

func TestSerializeDeserialize_RoundTrip(t *testing.T) {
	completion, planned := sampleState()

	raw, err := Encode(Serialize(completion, planned, calendar.Date(2025, time.February, 3)))
	require.NoError(t, err)

	gotCompletion, gotPlanned := Deserialize(raw)
	assert.Equal(t, completion, gotCompletion)
	assert.Equal(t, planned, gotPlanned)
}

func TestDeserialize_EmptyMapsRoundTrip(t *testing.T) {
	raw, err := Encode(Serialize(model.CompletionState{}, model.PlannedDayState{}, calendar.Date(2025, time.January, 1)))
	require.NoError(t, err)

	completion, planned := Deserialize(raw)
	assert.Empty(t, completion)
	assert.Empty(t, planned)
}

func TestDeserialize_VersionMismatch(t *testing.T) {
	raw := []byte(`{"version": 999, "saved_at": "2025-01-01", "state": {"completed_0_session_1": true, "planned_0_session_1": "2025-01-07"}}`)

	completion, planned := Deserialize(raw)
	assert.Empty(t, completion)
	assert.Empty(t, planned)
}

func TestDeserialize_MissingVersion(t *testing.T) {
	completion, planned := Deserialize([]byte(`{"state": {"completed_0_session_1": true}}`))
	assert.Empty(t, completion)
	assert.Empty(t, planned)
}

func TestDeserialize_MalformedJSON(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"version": "1"}`, `[1, 2]`, `{"version": 1, "state": []}`} {
		completion, planned := Deserialize([]byte(raw))
		assert.Empty(t, completion, raw)
		assert.Empty(t, planned, raw)
	}
}

func TestDeserialize_WrongValueTypeDiscardsAll(t *testing.T) {
	raw := []byte(`{"version": 1, "saved_at": "2025-01-01", "state": {"completed_0_session_1": true, "completed_1_session_1": "yes"}}`)

	completion, planned := Deserialize(raw)
	assert.Empty(t, completion)
	assert.Empty(t, planned)
}

func TestDeserialize_IgnoresForeignKeys(t *testing.T) {
	raw := []byte(`{"version": 1, "saved_at": "2025-01-01", "state": {"state_loaded": true, "completed_2_session_1": true}}`)

	completion, planned := Deserialize(raw)
	assert.Equal(t, model.CompletionState{model.CompletionKey(2, "Session 1"): true}, completion)
	assert.Empty(t, planned)
}

func TestRestore_Errors(t *testing.T) {
	_, _, err := Restore(nil)
	assert.ErrorIs(t, err, ErrMalformedState)

	_, _, err = Restore(&Envelope{Version: 2})
	assert.ErrorIs(t, err, ErrVersionMismatch)

	_, _, err = Restore(&Envelope{Version: 1, State: map[string]any{"planned_x_session_1": "2025-01-01"}})
	assert.ErrorIs(t, err, ErrMalformedState)
}

func TestEncode_WireFormat(t *testing.T) {
	completion := model.CompletionState{model.CompletionKey(1, "Session 2"): true}
	raw, err := Encode(Serialize(completion, nil, calendar.Date(2025, time.March, 9)))
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, float64(1), generic["version"])
	assert.Equal(t, "2025-03-09", generic["saved_at"])
	assert.Equal(t, map[string]any{"completed_1_session_2": true}, generic["state"])
}
