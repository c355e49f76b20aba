// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// DefaultBlockTemplates is the starter catalog created by Seed.
var DefaultBlockTemplates = []CreateBlockTemplateParams{
	{
		Name:        "Hero",
		Type:        "hero",
		Description: "Full-width headline with a call to action",
		DefaultHtml: `<section class="py-5 text-center bg-light"><div class="container"><h1 class="display-4">Your headline here</h1><p class="lead">Describe your offer in one sentence.</p><a href="#contact" class="btn btn-primary btn-lg">Get started</a></div></section>`,
	},
	{
		Name:        "Features",
		Type:        "features",
		Description: "Three-column feature grid",
		DefaultHtml: `<section class="py-5"><div class="container"><div class="row text-center"><div class="col-md-4"><h3>Fast</h3><p>Explain the first benefit.</p></div><div class="col-md-4"><h3>Simple</h3><p>Explain the second benefit.</p></div><div class="col-md-4"><h3>Reliable</h3><p>Explain the third benefit.</p></div></div></div></section>`,
	},
	{
		Name:        "Call to Action",
		Type:        "cta",
		Description: "Highlighted banner with a single button",
		DefaultHtml: `<section class="py-5 bg-primary text-white text-center"><div class="container"><h2>Ready to start?</h2><a href="#contact" class="btn btn-light btn-lg mt-3">Contact us</a></div></section>`,
	},
	{
		Name:        "Gallery",
		Type:        "gallery",
		Description: "Responsive image grid",
		DefaultHtml: `<section class="py-5"><div class="container"><div class="row g-3"><div class="col-6 col-md-3"><div class="ratio ratio-1x1 bg-secondary"></div></div><div class="col-6 col-md-3"><div class="ratio ratio-1x1 bg-secondary"></div></div><div class="col-6 col-md-3"><div class="ratio ratio-1x1 bg-secondary"></div></div><div class="col-6 col-md-3"><div class="ratio ratio-1x1 bg-secondary"></div></div></div></div></section>`,
	},
	{
		Name:        "Footer",
		Type:        "footer",
		Description: "Simple page footer",
		DefaultHtml: `<footer class="py-4 bg-dark text-white-50 text-center"><div class="container"><small>&copy; Your company</small></div></footer>`,
	},
}

// Seed creates the default block templates when the catalog is empty.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	count, err := queries.CountBlockTemplates(ctx, CountBlockTemplatesParams{})
	if err != nil {
		return fmt.Errorf("counting block templates: %w", err)
	}
	if count > 0 {
		slog.Info("block templates already exist, skipping seed", "count", count)
		return nil
	}

	now := time.Now().UTC()
	return ExecTx(ctx, db, func(q *Queries) error {
		for _, tmpl := range DefaultBlockTemplates {
			tmpl.IsActive = true
			tmpl.CreatedAt = now
			created, err := q.CreateBlockTemplate(ctx, tmpl)
			if err != nil {
				return fmt.Errorf("creating block template %q: %w", tmpl.Name, err)
			}
			slog.Info("created block template", "id", created.ID, "type", created.Type)
		}
		return nil
	})
}
