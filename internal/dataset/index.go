// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package dataset

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/tomtom215/itemrec/internal/recommend"
)

// ReadUserIndex parses "uindex<TAB>uid" lines.
// Blank lines are skipped; a repeated index is malformed.
func ReadUserIndex(ctx context.Context, r io.Reader, name string) (map[int]string, error) {
	users := make(map[int]string)

	err := scanLines(ctx, r, name, func(lineNo int, line string) error {
		if strings.TrimSpace(line) == "" {
			return nil
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return malformed(name, lineNo, line, "expected 2 tab-separated fields, got %d", len(fields))
		}

		idx, err := parseIndex(fields[0])
		if err != nil {
			return malformed(name, lineNo, line, "invalid user index: %v", err)
		}
		uid := strings.TrimSpace(fields[1])
		if uid == "" {
			return malformed(name, lineNo, line, "empty user id")
		}
		if _, dup := users[idx]; dup {
			return malformed(name, lineNo, line, "duplicate user index %d", idx)
		}

		users[idx] = uid
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ReadItemIndex parses "iindex<TAB>iid<TAB>itypes" lines where itypes is a
// comma-separated tag list. The itypes field may be omitted.
func ReadItemIndex(ctx context.Context, r io.Reader, name string) (map[int]recommend.Item, error) {
	items := make(map[int]recommend.Item)

	err := scanLines(ctx, r, name, func(lineNo int, line string) error {
		if strings.TrimSpace(line) == "" {
			return nil
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 || len(fields) > 3 {
			return malformed(name, lineNo, line, "expected 2 or 3 tab-separated fields, got %d", len(fields))
		}

		idx, err := parseIndex(fields[0])
		if err != nil {
			return malformed(name, lineNo, line, "invalid item index: %v", err)
		}
		iid := strings.TrimSpace(fields[1])
		if iid == "" {
			return malformed(name, lineNo, line, "empty item id")
		}
		if _, dup := items[idx]; dup {
			return malformed(name, lineNo, line, "duplicate item index %d", idx)
		}

		item := recommend.Item{ID: iid}
		if len(fields) == 3 {
			item.Tags = parseTags(fields[2])
		}
		items[idx] = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// parseIndex parses a 1-based entity index.
func parseIndex(s string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if idx < 1 {
		return 0, strconv.ErrRange
	}
	return idx, nil
}

// parseTags splits a comma-separated tag list, dropping empty entries.
func parseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
