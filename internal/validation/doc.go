// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide. Field names in error
// messages come from koanf struct tags, so a failure on Config.Job.AppID is
// reported as "job.app_id".
//
//	type SinkConfig struct {
//	    Backend string `koanf:"backend" validate:"oneof=duckdb badger"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    return verr
//	}
package validation
