// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/landing-cms/internal/cache"
	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/store"
	"github.com/olegiv/landing-cms/internal/util"
)

// Menu limits.
const (
	MaxMenuLabelLength = 100
	MaxMenuURLLength   = 2048
)

// MenuInput holds the editable fields of a menu. A nil IsActive keeps the
// current value, or means active on create.
type MenuInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	IsActive *bool  `json:"is_active"`
}

// MenuItemInput holds the editable fields of a menu item. A nil ParentID
// places the item at the top level.
type MenuItemInput struct {
	ParentID *int64 `json:"parent_id"`
	Label    string `json:"label"`
	URL      string `json:"url"`
	IsActive *bool  `json:"is_active"`
}

// MenuService manages the site's navigation menus.
type MenuService struct {
	db        *sql.DB
	queries   *store.Queries
	menuCache *cache.MenuCache
	logger    *slog.Logger
	now       func() time.Time
}

// NewMenuService creates a new MenuService. menuCache may be nil.
func NewMenuService(db *sql.DB, menuCache *cache.MenuCache, logger *slog.Logger) *MenuService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuService{
		db:        db,
		queries:   store.New(db),
		menuCache: menuCache,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns every menu ordered by name, without items.
func (s *MenuService) List(ctx context.Context) ([]model.Menu, error) {
	rows, err := s.queries.ListMenus(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	menus := make([]model.Menu, 0, len(rows))
	for _, r := range rows {
		menus = append(menus, *menuFromStore(r))
	}
	return menus, nil
}

// Get returns a menu with all of its items as a flat list in display order.
func (s *MenuService) Get(ctx context.Context, menuID int64) (*model.Menu, error) {
	m, err := s.getMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}

	items, err := s.queries.ListMenuItems(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}

	menu := menuFromStore(m)
	menu.Items = make([]model.MenuItem, 0, len(items))
	for _, it := range items {
		menu.Items = append(menu.Items, menuItemFromStore(it))
	}
	return menu, nil
}

// GetByLocation returns the active menu at location with its active items
// nested under their parents. When several menus are active at one
// location the oldest wins.
func (s *MenuService) GetByLocation(ctx context.Context, location string) (*model.Menu, error) {
	if !model.IsValidMenuLocation(location) {
		return nil, notFound("unknown menu location %q", location)
	}
	if menu, ok := s.menuCache.Get(ctx, location); ok {
		if menu == nil {
			return nil, notFound("no active menu at %s", location)
		}
		return menu, nil
	}

	m, err := s.queries.GetActiveMenuByLocation(ctx, location)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.menuCache.Put(ctx, location, nil)
			return nil, notFound("no active menu at %s", location)
		}
		return nil, fmt.Errorf("getting menu: %w", err)
	}

	items, err := s.queries.ListMenuItems(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}

	menu := menuFromStore(m)
	menu.Items = buildMenuTree(items)
	s.menuCache.Put(ctx, location, menu)
	return menu, nil
}

// Create adds a menu.
func (s *MenuService) Create(ctx context.Context, in MenuInput) (*model.Menu, error) {
	name, location, err := normalizeMenuInput(in)
	if err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := s.now().UTC()
	m, err := s.queries.CreateMenu(ctx, store.CreateMenuParams{
		Name:      name,
		Location:  location,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, translateStoreErr(err, "creating menu", "menu")
	}

	s.menuCache.Invalidate(ctx)
	s.logger.Info("menu created", "menu_id", m.ID, "location", m.Location)
	return menuFromStore(m), nil
}

// Update replaces the name, location and active flag of a menu.
func (s *MenuService) Update(ctx context.Context, menuID int64, in MenuInput) (*model.Menu, error) {
	existing, err := s.getMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	name, location, err := normalizeMenuInput(in)
	if err != nil {
		return nil, err
	}
	active := existing.IsActive
	if in.IsActive != nil {
		active = *in.IsActive
	}

	m, err := s.queries.UpdateMenu(ctx, store.UpdateMenuParams{
		Name:      name,
		Location:  location,
		IsActive:  active,
		UpdatedAt: s.now().UTC(),
		ID:        existing.ID,
	})
	if err != nil {
		return nil, translateStoreErr(err, "updating menu", "menu")
	}

	s.menuCache.Invalidate(ctx)
	return menuFromStore(m), nil
}

// Delete removes a menu and all of its items.
func (s *MenuService) Delete(ctx context.Context, menuID int64) error {
	m, err := s.getMenu(ctx, menuID)
	if err != nil {
		return err
	}
	if err := s.queries.DeleteMenu(ctx, m.ID); err != nil {
		return fmt.Errorf("deleting menu: %w", err)
	}

	s.menuCache.Invalidate(ctx)
	s.logger.Info("menu deleted", "menu_id", m.ID)
	return nil
}

// CreateItem appends an item to a menu.
func (s *MenuService) CreateItem(ctx context.Context, menuID int64, in MenuItemInput) (*model.MenuItem, error) {
	m, err := s.getMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	label, link, err := normalizeMenuItemInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, m.ID, 0, in.ParentID); err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	var item store.MenuItem
	err = store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		next, err := q.NextMenuItemOrder(ctx, m.ID)
		if err != nil {
			return err
		}
		item, err = q.CreateMenuItem(ctx, store.CreateMenuItemParams{
			MenuID:    m.ID,
			ParentID:  util.NullInt64FromPtr(in.ParentID),
			Label:     label,
			Url:       link,
			OrderNum:  next,
			IsActive:  active,
			CreatedAt: s.now().UTC(),
		})
		return err
	})
	if err != nil {
		return nil, translateStoreErr(err, "creating menu item", "menu item")
	}

	s.menuCache.Invalidate(ctx)
	out := menuItemFromStore(item)
	return &out, nil
}

// UpdateItem replaces the label, link, parent and active flag of an item.
func (s *MenuService) UpdateItem(ctx context.Context, itemID int64, in MenuItemInput) (*model.MenuItem, error) {
	existing, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	label, link, err := normalizeMenuItemInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, existing.MenuID, existing.ID, in.ParentID); err != nil {
		return nil, err
	}
	active := existing.IsActive
	if in.IsActive != nil {
		active = *in.IsActive
	}

	item, err := s.queries.UpdateMenuItem(ctx, store.UpdateMenuItemParams{
		ParentID: util.NullInt64FromPtr(in.ParentID),
		Label:    label,
		Url:      link,
		IsActive: active,
		ID:       existing.ID,
	})
	if err != nil {
		return nil, translateStoreErr(err, "updating menu item", "menu item")
	}

	s.menuCache.Invalidate(ctx)
	out := menuItemFromStore(item)
	return &out, nil
}

// DeleteItem removes an item and everything nested under it.
func (s *MenuService) DeleteItem(ctx context.Context, itemID int64) error {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.queries.DeleteMenuItem(ctx, item.ID); err != nil {
		return fmt.Errorf("deleting menu item: %w", err)
	}
	s.menuCache.Invalidate(ctx)
	return nil
}

// ReorderItems sets each listed item's position to its index in itemIDs.
// IDs that do not belong to the menu are ignored. All updates commit
// together or not at all.
func (s *MenuService) ReorderItems(ctx context.Context, menuID int64, itemIDs []int64) (*model.Menu, error) {
	m, err := s.getMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, dup := seen[id]; dup {
			return nil, invalid("menu item %d listed more than once", id)
		}
		seen[id] = struct{}{}
	}

	err = store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		for i, id := range itemIDs {
			if err := q.SetMenuItemOrder(ctx, store.SetMenuItemOrderParams{
				OrderNum: int64(i),
				ID:       id,
				MenuID:   m.ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reordering menu items: %w", err)
	}

	s.menuCache.Invalidate(ctx)
	s.logger.Info("menu items reordered", "menu_id", m.ID, "count", len(itemIDs))
	return s.Get(ctx, m.ID)
}

func (s *MenuService) getMenu(ctx context.Context, menuID int64) (store.Menu, error) {
	m, err := s.queries.GetMenu(ctx, menuID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Menu{}, notFound("menu not found")
		}
		return store.Menu{}, fmt.Errorf("getting menu: %w", err)
	}
	return m, nil
}

func (s *MenuService) getItem(ctx context.Context, itemID int64) (store.MenuItem, error) {
	item, err := s.queries.GetMenuItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.MenuItem{}, notFound("menu item not found")
		}
		return store.MenuItem{}, fmt.Errorf("getting menu item: %w", err)
	}
	return item, nil
}

// checkParent rejects a parent from another menu, the item itself, or one
// of the item's descendants. itemID is zero for a new item.
func (s *MenuService) checkParent(ctx context.Context, menuID, itemID int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	if *parentID == itemID {
		return invalid("menu item cannot be its own parent")
	}

	items, err := s.queries.ListMenuItems(ctx, menuID)
	if err != nil {
		return fmt.Errorf("listing menu items: %w", err)
	}
	parents := make(map[int64]sql.NullInt64, len(items))
	for _, it := range items {
		parents[it.ID] = it.ParentID
	}

	if _, ok := parents[*parentID]; !ok {
		return invalid("parent item %d is not in this menu", *parentID)
	}
	if itemID == 0 {
		return nil
	}
	cur := *parentID
	for range len(parents) {
		p := parents[cur]
		if !p.Valid {
			return nil
		}
		if p.Int64 == itemID {
			return invalid("menu item cannot be nested under its own descendant")
		}
		cur = p.Int64
	}
	return nil
}

// buildMenuTree nests active items under their parents, each level sorted
// by position. Children of inactive items are hidden with them.
func buildMenuTree(items []store.MenuItem) []model.MenuItem {
	children := make(map[int64][]store.MenuItem)
	var roots []store.MenuItem
	for _, it := range items {
		if !it.IsActive {
			continue
		}
		if it.ParentID.Valid {
			children[it.ParentID.Int64] = append(children[it.ParentID.Int64], it)
		} else {
			roots = append(roots, it)
		}
	}

	var build func(level []store.MenuItem) []model.MenuItem
	build = func(level []store.MenuItem) []model.MenuItem {
		sort.SliceStable(level, func(i, j int) bool { return level[i].OrderNum < level[j].OrderNum })
		out := make([]model.MenuItem, 0, len(level))
		for _, it := range level {
			node := menuItemFromStore(it)
			if kids := children[it.ID]; len(kids) > 0 {
				node.Children = build(kids)
			}
			out = append(out, node)
		}
		return out
	}
	return build(roots)
}

func normalizeMenuInput(in MenuInput) (string, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", "", invalid("name is required")
	}
	if utf8.RuneCountInString(name) > MaxMenuLabelLength {
		return "", "", invalid("name is too long (max %d characters)", MaxMenuLabelLength)
	}
	location := strings.ToLower(strings.TrimSpace(in.Location))
	if !model.IsValidMenuLocation(location) {
		return "", "", invalid("location must be %q or %q", model.MenuLocationHeader, model.MenuLocationFooter)
	}
	return name, location, nil
}

func normalizeMenuItemInput(in MenuItemInput) (string, string, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return "", "", invalid("label is required")
	}
	if utf8.RuneCountInString(label) > MaxMenuLabelLength {
		return "", "", invalid("label is too long (max %d characters)", MaxMenuLabelLength)
	}

	link := strings.TrimSpace(in.URL)
	if link == "" {
		return "", "", invalid("url is required")
	}
	if len(link) > MaxMenuURLLength || !isSafeMenuURL(link) {
		return "", "", invalid("url must be a site path, an anchor, or an http(s), mailto or tel link")
	}
	return label, link, nil
}

// isSafeMenuURL accepts site-relative paths, fragments and a few schemes.
// Scripted schemes such as javascript: are rejected.
func isSafeMenuURL(raw string) bool {
	if strings.HasPrefix(raw, "#") {
		return true
	}
	if strings.HasPrefix(raw, "/") {
		return !strings.HasPrefix(raw, "//") && !strings.HasPrefix(raw, `/\`)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "mailto", "tel":
		return u.Opaque != ""
	}
	return false
}
