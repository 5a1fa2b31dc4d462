package model

import "encoding/json"

// RunCounters accumulates per-entity outcomes over one sync run. It is
// reset at process start and emitted as a single JSON line at the end.
type RunCounters struct {
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	EmptySku int `json:"emptySku"`
	Failed   int `json:"failed"`
}

func (c RunCounters) Total() int {
	return c.Updated + c.Skipped + c.EmptySku + c.Failed
}

func (c RunCounters) String() string {
	b, _ := json.Marshal(c)
	return string(b)
}
