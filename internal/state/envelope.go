package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlexMcLaughlin1/sessions/internal/calendar"
	"github.com/AlexMcLaughlin1/sessions/internal/model"
)

// SchemaVersion 当前持久化结构版本，不一致时整体丢弃
const SchemaVersion = 1

// Envelope 持久化结构：{version, saved_at, state}
type Envelope struct {
	Version int            `json:"version"`
	SavedAt string         `json:"saved_at"`
	State   map[string]any `json:"state"`
}

var (
	ErrVersionMismatch = errors.New("state version mismatch")
	ErrMalformedState  = errors.New("malformed state")
)

// Serialize 合并完成状态与计划日期
func Serialize(completion model.CompletionState, planned model.PlannedDayState, today time.Time) *Envelope {
	env := &Envelope{
		Version: SchemaVersion,
		SavedAt: calendar.FormatISO(today),
		State:   make(map[string]any, len(completion)+len(planned)),
	}
	for k, done := range completion {
		env.State[k.Completed().String()] = done
	}
	for k, day := range planned {
		env.State[k.Planned().String()] = day
	}
	return env
}

// Encode 编码为 JSON（缩进两格）
func Encode(env *Envelope) ([]byte, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode 解码 JSON
func Decode(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return &env, nil
}

// Deserialize 解析持久化数据；任何结构性错误都返回空状态
func Deserialize(raw []byte) (model.CompletionState, model.PlannedDayState) {
	env, err := Decode(raw)
	if err != nil {
		return model.CompletionState{}, model.PlannedDayState{}
	}
	completion, planned, err := Restore(env)
	if err != nil {
		return model.CompletionState{}, model.PlannedDayState{}
	}
	return completion, planned
}

// Restore 校验版本并按前缀拆分 state
//
// 不认识前缀的 key 忽略；已知前缀但 key 或值类型不合法视为整体损坏，不做部分恢复。
func Restore(env *Envelope) (model.CompletionState, model.PlannedDayState, error) {
	completion := model.CompletionState{}
	planned := model.PlannedDayState{}

	if env == nil {
		return completion, planned, fmt.Errorf("%w: empty envelope", ErrMalformedState)
	}
	if env.Version != SchemaVersion {
		return completion, planned, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, env.Version, SchemaVersion)
	}

	for raw, value := range env.State {
		if !strings.HasPrefix(raw, string(model.PrefixCompleted)+"_") && !strings.HasPrefix(raw, string(model.PrefixPlanned)+"_") {
			continue
		}
		key, err := model.ParseCellKey(raw)
		if err != nil {
			return model.CompletionState{}, model.PlannedDayState{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
		switch key.Prefix {
		case model.PrefixCompleted:
			done, ok := value.(bool)
			if !ok {
				return model.CompletionState{}, model.PlannedDayState{}, fmt.Errorf("%w: %s is not a bool", ErrMalformedState, raw)
			}
			completion[key] = done
		case model.PrefixPlanned:
			day, ok := value.(string)
			if !ok {
				return model.CompletionState{}, model.PlannedDayState{}, fmt.Errorf("%w: %s is not a string", ErrMalformedState, raw)
			}
			planned[key] = day
		}
	}

	return completion, planned, nil
}
