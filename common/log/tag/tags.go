// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package tag

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const LoggingCallAtKey = "logging-call-at"

// Tag is the interface for logging system
type Tag struct {
	// keep this field private
	field zap.Field
}

// Field returns a zap field
func (t *Tag) Field() zap.Field {
	return t.field
}

func newStringTag(key string, value string) Tag {
	return Tag{
		field: zap.String(key, value),
	}
}

func newInt64(key string, value int64) Tag {
	return Tag{
		field: zap.Int64(key, value),
	}
}

func newInt(key string, value int) Tag {
	return Tag{
		field: zap.Int(key, value),
	}
}

func newTimeTag(key string, value time.Time) Tag {
	return Tag{
		field: zap.Time(key, value),
	}
}

func newObjectTag(key string, value interface{}) Tag {
	return Tag{
		field: zap.String(key, fmt.Sprintf("%v", value)),
	}
}

func newErrorTag(key string, value error) Tag {
	//NOTE zap already chosen "error" as key
	return Tag{
		field: zap.Error(value),
	}
}

// TAGS

func Error(err error) Tag {
	return newErrorTag("error", err)
}

func Service(sv string) Tag {
	return newStringTag("service", sv)
}

func Message(msg string) Tag {
	return newStringTag("message", msg)
}

func GameID(id string) Tag {
	return newStringTag("gameId", id)
}

func PlayerID(id string) Tag {
	return newStringTag("playerId", id)
}

func ObserverID(id string) Tag {
	return newStringTag("observerId", id)
}

func CardID(id string) Tag {
	return newStringTag("cardId", id)
}

func CardUUID(id string) Tag {
	return newStringTag("cardUuid", id)
}

func RequestID(id string) Tag {
	return newStringTag("requestId", id)
}

func Phase(p string) Tag {
	return newStringTag("phase", p)
}

func GameAction(a string) Tag {
	return newStringTag("gameAction", a)
}

func Turn(t int) Tag {
	return newInt("turn", t)
}

func Deck(name string) Tag {
	return newStringTag("deck", name)
}

func Seed(v int64) Tag {
	return newInt64("seed", v)
}

func Shard(shardId int32) Tag {
	return newInt64("shard", int64(shardId))
}

func StatusCode(status int) Tag {
	return newInt("status", status)
}

func AnyToStr(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

func Value(v interface{}) Tag {
	return newObjectTag("value", v)
}

func UnixTimestamp(v int64) Tag {
	return newTimeTag("UnixTimestamp", time.Unix(v, 0))
}

func ID(v string) Tag {
	return newStringTag("ID", v)
}

func Key(v string) Tag {
	return newStringTag("Key", v)
}

func DefaultValue(v interface{}) Tag {
	return newObjectTag("default-value", v)
}

func ArchiveTaskType(v string) Tag {
	return newStringTag("ArchiveTaskType", v)
}
