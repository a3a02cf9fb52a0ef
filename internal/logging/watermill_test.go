// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillAdapter(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	a := NewWatermillAdapterWithLogger(logger)

	a.Info("published", watermill.LogFields{"topic": "itemrec_scores"})
	a.Error("publish failed", errors.New("boom"), nil)
	a.With(watermill.LogFields{"uid": "u1"}).Debug("sent", nil)

	out := buf.String()
	for _, want := range []string{
		`"component":"watermill"`,
		`"topic":"itemrec_scores"`,
		`"error":"boom"`,
		`"uid":"u1"`,
		`"level":"debug"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestWatermillAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	a := NewWatermillAdapterWithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	a.Trace("noise", nil)
	a.Debug("noise", nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output below info, got %s", buf.String())
	}
}
