// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tomtom215/itemrec/internal/recommend"
)

// Target selects where results of a run are persisted.
type Target int

const (
	// TargetPrimary is the production result set, keyed by app id.
	TargetPrimary Target = iota
	// TargetEval is the offline-evaluation result set, keyed by eval id.
	TargetEval
)

// TargetFor returns the target a job writes to.
func TargetFor(evaluation bool) Target {
	if evaluation {
		return TargetEval
	}
	return TargetPrimary
}

// Table returns the table, collection or key-prefix base name for the target.
func (t Target) Table() string {
	if t == TargetEval {
		return "offline_eval_itemrec_scores"
	}
	return "itemrec_scores"
}

// Topic returns the message topic for the target. Topics double as
// JetStream stream names, which may not contain dots.
func (t Target) Topic() string {
	return t.Table()
}

func (t Target) String() string {
	switch t {
	case TargetPrimary:
		return "primary"
	case TargetEval:
		return "eval"
	default:
		return "target(" + strconv.Itoa(int(t)) + ")"
	}
}

// ResultSink persists recommendation results.
// Implementations must be safe for concurrent use when the job runs
// more than one writer.
type ResultSink interface {
	Name() string
	Write(ctx context.Context, result *recommend.Result) error
	Close() error
}

// Record is the persisted form of a recommend.Result, shared by every
// backend that stores documents or JSON values.
type Record struct {
	UserID    string     `json:"uid" bson:"uid"`
	ItemIDs   []string   `json:"iids" bson:"iids"`
	Scores    []float64  `json:"scores" bson:"scores"`
	ItemTypes [][]string `json:"itypes" bson:"itypes"`
	ContextID int        `json:"contextid" bson:"contextid"`
	AlgoID    int        `json:"algoid" bson:"algoid"`
	ModelSet  bool       `json:"modelset" bson:"modelset"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}

// NewRecord converts a result into its persisted form.
func NewRecord(r *recommend.Result, now time.Time) *Record {
	return &Record{
		UserID:    r.UserID,
		ItemIDs:   r.ItemIDs(),
		Scores:    r.Scores(),
		ItemTypes: r.ItemTags(),
		ContextID: r.ContextID,
		AlgoID:    r.AlgoID,
		ModelSet:  r.ModelSet,
		CreatedAt: now.UTC(),
	}
}

// Key returns the key-value layout <prefix><contextid>:<algoid>:<modelset>:<uid>.
func Key(prefix string, r *recommend.Result) string {
	return prefix + strconv.Itoa(r.ContextID) + ":" + strconv.Itoa(r.AlgoID) + ":" +
		strconv.FormatBool(r.ModelSet) + ":" + r.UserID
}

// KeyPrefix returns the key prefix used by key-value backends for a target.
func KeyPrefix(t Target) string {
	return t.Table() + ":"
}

// ErrClosed is returned by writes to a closed sink.
var ErrClosed = errors.New("sink closed")

// PermanentError marks a write failure that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so Resilient does not retry it. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or any error it wraps, is permanent.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

func closeQuietly(c io.Closer) {
	_ = c.Close() //nolint:errcheck // best-effort cleanup on a failed open
}
