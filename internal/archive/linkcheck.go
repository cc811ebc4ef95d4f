// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/archive-engine/internal/httputil"
)

// LinkStatus reports one digitized link probe.
type LinkStatus struct {
	DocumentID int64  `json:"archiveDocumentId"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	OK         bool   `json:"ok"`
	Detail     string `json:"detail"`
}

// VerifyLinks probes the digitized version link of every active record
// that carries one, in ID order. Digitized copies live on external
// repository servers, so probes ride the rate-limit retry helper. A
// broken link is a report entry, not an error; the error return covers
// cancellation and database failures only.
func (s *Store) VerifyLinks(ctx context.Context, client *http.Client) ([]LinkStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, digitized_version_link FROM archive_documents
		 WHERE active = 1 AND is_digitized = 1 AND digitized_version_link IS NOT NULL
		   AND digitized_version_link != '' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing digitized documents: %w", err)
	}

	var targets []LinkStatus
	for rows.Next() {
		var target LinkStatus
		if err := rows.Scan(&target.DocumentID, &target.Title, &target.URL); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning digitized document: %w", err)
		}
		targets = append(targets, target)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	report := make([]LinkStatus, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report = append(report, probeLink(ctx, client, target))
	}
	return report, nil
}

func probeLink(ctx context.Context, client *http.Client, target LinkStatus) LinkStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.URL, nil)
	if err != nil {
		target.Detail = fmt.Sprintf("bad URL: %v", err)
		return target
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		target.Detail = err.Error()
		return target
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	target.OK = resp.StatusCode < 400
	target.Detail = resp.Status
	return target
}
