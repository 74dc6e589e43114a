// Package redisarchive persists run traces and assembled results in Redis
// for billing and observability consumers. Trace events are appended to a
// per-run ZSET with an atomically assigned sequence; results are stored as
// JSON values.
package redisarchive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/streamloom/streamloom/stream"
	"github.com/streamloom/streamloom/trace"
)

// TraceRecord is one archived trace event with its assigned sequence.
type TraceRecord struct {
	Sequence int64        `json:"sequence"`
	Event    *trace.Event `json:"event"`
}

func (a *Archive) seqKey(runID string) string { return fmt.Sprintf("%s:run:%s:seq", a.prefix, runID) }
func (a *Archive) traceKey(runID string) string {
	return fmt.Sprintf("%s:run:%s:trace", a.prefix, runID)
}
func (a *Archive) resultKey(runID string) string {
	return fmt.Sprintf("%s:run:%s:result", a.prefix, runID)
}

// AppendTrace archives one trace event for the run, returning its assigned
// sequence.
func (a *Archive) AppendTrace(ctx context.Context, runID string, ev *trace.Event) (int64, error) {
	b, err := json.Marshal(TraceRecord{Event: ev})
	if err != nil {
		return 0, fmt.Errorf("marshal trace record: %w", err)
	}
	keys := []string{a.seqKey(runID), a.traceKey(runID)}
	args := []interface{}{string(b), int64(a.resultTTL.Seconds())}

	// Try EVALSHA first if we cached the SHA
	if a.appendSHA != "" {
		if seq, err := a.rdb.EvalSha(ctx, a.appendSHA, keys, args...).Int64(); err == nil {
			return seq, nil
		}
		// if NOSCRIPT or other error, fall through to EVAL
	}
	seq, err := a.rdb.Eval(ctx, luaAppendTrace, keys, args...).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis eval append trace: %w", err)
	}
	return seq, nil
}

// Traces returns all archived trace records for a run, in sequence order.
func (a *Archive) Traces(ctx context.Context, runID string) ([]*TraceRecord, error) {
	return a.TracesSince(ctx, runID, 0)
}

// TracesSince returns archived trace records with sequence > since.
func (a *Archive) TracesSince(ctx context.Context, runID string, since int64) ([]*TraceRecord, error) {
	vals, err := a.rdb.ZRangeByScore(ctx, a.traceKey(runID), &redis.ZRangeBy{
		Min: fmt.Sprintf("(%d", since),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrange trace: %w", err)
	}
	records := make([]*TraceRecord, 0, len(vals))
	for _, v := range vals {
		var rec TraceRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}
	return records, nil
}

// SaveResult archives a run's assembled result.
func (a *Archive) SaveResult(ctx context.Context, runID string, res stream.Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := a.rdb.Set(ctx, a.resultKey(runID), b, a.resultTTL).Err(); err != nil {
		return fmt.Errorf("redis set result: %w", err)
	}
	return nil
}

// GetResult retrieves a run's archived result.
func (a *Archive) GetResult(ctx context.Context, runID string) (*stream.Result, error) {
	v, err := a.rdb.Get(ctx, a.resultKey(runID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("result for run %s not found", runID)
		}
		return nil, fmt.Errorf("redis get result: %w", err)
	}
	var res stream.Result
	if err := json.Unmarshal(v, &res); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &res, nil
}

// DeleteRun removes a run's trace log and result.
func (a *Archive) DeleteRun(ctx context.Context, runID string) error {
	return a.rdb.Del(ctx, a.seqKey(runID), a.traceKey(runID), a.resultKey(runID)).Err()
}
