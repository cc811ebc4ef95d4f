// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signature

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/internal/search"
	"github.com/pdiddy/archive-engine/pkg/types"
)

var (
	// ErrNotFound reports a component or element ID with no row.
	ErrNotFound = errors.New("signature record not found")

	// ErrComponentHasElements guards component deletion: a component is
	// never removed while elements still reference it.
	ErrComponentHasElements = errors.New("component still has elements")

	// ErrElementCycle rejects a parent link that would make an element
	// its own ancestor.
	ErrElementCycle = errors.New("parent link would create a cycle")
)

// Store persists signature components, elements, and parent links.
type Store struct {
	db     *sql.DB
	search *search.Registry
}

// NewStore wraps an open archive database handle.
func NewStore(conn *sql.DB) *Store {
	reg := search.NewRegistry()
	RegisterSearchHandlers(reg)
	return &Store{db: conn, search: reg}
}

// --- components ---

// CreateComponent inserts a new component with the given index style.
func (s *Store) CreateComponent(ctx context.Context, name, description string, indexType types.IndexType) (*types.SignatureComponent, error) {
	if name == "" {
		return nil, fmt.Errorf("component name is empty")
	}
	if err := validIndexType(indexType); err != nil {
		return nil, err
	}

	now := db.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO signature_components (name, description, index_type, created_on, modified_on)
		 VALUES (?, ?, ?, ?, ?)`,
		name, description, string(indexType), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting component: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading component id: %w", err)
	}

	return &types.SignatureComponent{
		ID:          id,
		Name:        name,
		Description: description,
		IndexType:   indexType,
		CreatedOn:   db.ParseTime(now),
		ModifiedOn:  db.ParseTime(now),
	}, nil
}

// GetComponent loads one component by ID.
func (s *Store) GetComponent(ctx context.Context, id int64) (*types.SignatureComponent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, index_type, created_on, modified_on
		 FROM signature_components WHERE id = ?`, id)
	return scanComponent(row)
}

// ListComponents returns every component ordered by name.
func (s *Store) ListComponents(ctx context.Context) ([]types.SignatureComponent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, index_type, created_on, modified_on
		 FROM signature_components ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing components: %w", err)
	}
	defer rows.Close()

	var comps []types.SignatureComponent
	for rows.Next() {
		comp, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		comps = append(comps, *comp)
	}
	return comps, rows.Err()
}

// UpdateComponent replaces a component's name, description, and index
// style. Changing the style does not touch existing element indices;
// reindexing applies it.
func (s *Store) UpdateComponent(ctx context.Context, id int64, name, description string, indexType types.IndexType) (*types.SignatureComponent, error) {
	if name == "" {
		return nil, fmt.Errorf("component name is empty")
	}
	if err := validIndexType(indexType); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE signature_components SET name = ?, description = ?, index_type = ?, modified_on = ?
		 WHERE id = ?`,
		name, description, string(indexType), db.Now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating component: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, fmt.Errorf("component %d: %w", id, ErrNotFound)
	}
	return s.GetComponent(ctx, id)
}

// DeleteComponent removes an empty component. Components with elements
// are protected; delete or move the elements first.
func (s *Store) DeleteComponent(ctx context.Context, id int64) error {
	var elements int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM signature_elements WHERE signature_component_id = ?`, id,
	).Scan(&elements)
	if err != nil {
		return fmt.Errorf("counting elements: %w", err)
	}
	if elements > 0 {
		return fmt.Errorf("component %d has %d elements: %w", id, elements, ErrComponentHasElements)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM signature_components WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting component: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("component %d: %w", id, ErrNotFound)
	}
	return nil
}

// ReindexComponent rewrites every element index of the component from
// its position in creation order, closing the gaps deletions leave.
// Manual overrides are replaced along with everything else.
func (s *Store) ReindexComponent(ctx context.Context, id int64) (*types.ReindexResult, error) {
	comp, err := s.GetComponent(ctx, id)
	if err != nil {
		return nil, err
	}

	var count int
	err = db.WithRetry(ctx, 0, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx,
			`SELECT id FROM signature_elements WHERE signature_component_id = ? ORDER BY id`, id)
		if err != nil {
			return fmt.Errorf("listing elements: %w", err)
		}
		var ids []int64
		for rows.Next() {
			var elemID int64
			if err := rows.Scan(&elemID); err != nil {
				rows.Close()
				return fmt.Errorf("scanning element id: %w", err)
			}
			ids = append(ids, elemID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("reading element ids: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`UPDATE signature_elements SET idx = ?, modified_on = ? WHERE id = ?`)
		if err != nil {
			return fmt.Errorf("preparing reindex update: %w", err)
		}
		defer stmt.Close()

		now := db.Now()
		for pos, elemID := range ids {
			if _, err := stmt.ExecContext(ctx, FormatIndex(pos+1, comp.IndexType), now, elemID); err != nil {
				return fmt.Errorf("reindexing element %d: %w", elemID, err)
			}
		}

		count = len(ids)
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	return &types.ReindexResult{
		Message:    fmt.Sprintf("reindexed %d elements of component %q", count, comp.Name),
		FinalCount: count,
	}, nil
}

func validIndexType(kind types.IndexType) error {
	switch kind {
	case types.IndexDec, types.IndexRoman, types.IndexSmallChar, types.IndexCapChar:
		return nil
	default:
		return fmt.Errorf("unknown index type %q", kind)
	}
}

func scanComponent(row interface{ Scan(...any) error }) (*types.SignatureComponent, error) {
	var comp types.SignatureComponent
	var description, indexType, created, modified string
	err := row.Scan(&comp.ID, &comp.Name, &description, &indexType, &created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("component: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning component: %w", err)
	}
	comp.Description = description
	comp.IndexType = types.IndexType(indexType)
	comp.CreatedOn = db.ParseTime(created)
	comp.ModifiedOn = db.ParseTime(modified)
	return &comp, nil
}

// --- elements ---

// CreateElement inserts an element into a component. An empty index
// string assigns the formatted ordinal for the component's current
// element count; a non-empty one is stored verbatim as an override.
func (s *Store) CreateElement(ctx context.Context, componentID int64, name, description, index string, parentIDs []int64) (*types.SignatureElement, error) {
	if name == "" {
		return nil, fmt.Errorf("element name is empty")
	}
	parents := normalizeParents(parentIDs)

	var elem *types.SignatureElement
	err := db.WithRetry(ctx, 0, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		comp, err := componentInTx(ctx, tx, componentID)
		if err != nil {
			return err
		}

		idx := index
		if idx == "" {
			var count int
			err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM signature_elements WHERE signature_component_id = ?`,
				componentID,
			).Scan(&count)
			if err != nil {
				return fmt.Errorf("counting elements: %w", err)
			}
			idx = FormatIndex(count+1, comp.IndexType)
		}

		now := db.Now()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO signature_elements (signature_component_id, name, description, idx, created_on, modified_on)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			componentID, name, description, idx, now, now,
		)
		if err != nil {
			return fmt.Errorf("inserting element: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading element id: %w", err)
		}

		if err := replaceParentLinks(ctx, tx, id, parents, false); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing element: %w", err)
		}

		elem = &types.SignatureElement{
			ID:                   id,
			SignatureComponentID: componentID,
			Name:                 name,
			Description:          description,
			Index:                idx,
			ParentIDs:            parents,
			CreatedOn:            db.ParseTime(now),
			ModifiedOn:           db.ParseTime(now),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return elem, nil
}

// GetElement loads one element with its parent IDs.
func (s *Store) GetElement(ctx context.Context, id int64) (*types.SignatureElement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, signature_component_id, name, description, idx, created_on, modified_on
		 FROM signature_elements WHERE id = ?`, id)

	elem, err := scanElementRow(row)
	if err != nil {
		return nil, err
	}

	parents, err := s.parentsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	elem.ParentIDs = parents
	return elem, nil
}

// ListElements returns a component's elements in creation order, parent
// IDs included.
func (s *Store) ListElements(ctx context.Context, componentID int64) ([]types.SignatureElement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, signature_component_id, name, description, idx, created_on, modified_on
		 FROM signature_elements WHERE signature_component_id = ? ORDER BY id`, componentID)
	if err != nil {
		return nil, fmt.Errorf("listing elements: %w", err)
	}
	defer rows.Close()

	var elems []types.SignatureElement
	for rows.Next() {
		elem, err := scanElementRow(rows)
		if err != nil {
			return nil, err
		}
		elems = append(elems, *elem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachParents(ctx, elems); err != nil {
		return nil, err
	}
	return elems, nil
}

// UpdateElement replaces an element's fields and parent set. An empty
// index recomputes the formatted ordinal from the element's position in
// its component; parent links are cycle-checked before the swap.
func (s *Store) UpdateElement(ctx context.Context, id int64, name, description, index string, parentIDs []int64) (*types.SignatureElement, error) {
	if name == "" {
		return nil, fmt.Errorf("element name is empty")
	}
	parents := normalizeParents(parentIDs)

	err := db.WithRetry(ctx, 0, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var componentID int64
		err = tx.QueryRowContext(ctx,
			`SELECT signature_component_id FROM signature_elements WHERE id = ?`, id,
		).Scan(&componentID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("element %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("loading element: %w", err)
		}

		idx := index
		if idx == "" {
			comp, err := componentInTx(ctx, tx, componentID)
			if err != nil {
				return err
			}
			var ordinal int
			err = tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM signature_elements
				 WHERE signature_component_id = ? AND id <= ?`,
				componentID, id,
			).Scan(&ordinal)
			if err != nil {
				return fmt.Errorf("computing ordinal: %w", err)
			}
			idx = FormatIndex(ordinal, comp.IndexType)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE signature_elements SET name = ?, description = ?, idx = ?, modified_on = ?
			 WHERE id = ?`,
			name, description, idx, db.Now(), id,
		)
		if err != nil {
			return fmt.Errorf("updating element: %w", err)
		}

		if err := replaceParentLinks(ctx, tx, id, parents, true); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return s.GetElement(ctx, id)
}

// DeleteElement removes an element. Parent links in both directions go
// with it; stored document signature paths are left untouched and
// resolve as dangling history.
func (s *Store) DeleteElement(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM signature_elements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting element: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("element %d: %w", id, ErrNotFound)
	}
	return nil
}

// replaceParentLinks swaps an element's parent set inside tx. When
// checkCycles is set every candidate is tested against the existing
// graph first; links out of a fresh element cannot close a cycle.
func replaceParentLinks(ctx context.Context, tx *sql.Tx, id int64, parents []int64, checkCycles bool) error {
	if checkCycles {
		for _, parent := range parents {
			if parent == id {
				return fmt.Errorf("element %d cannot parent itself: %w", id, ErrElementCycle)
			}
			ancestor, err := isAncestor(ctx, tx, parent, id)
			if err != nil {
				return err
			}
			if ancestor {
				return fmt.Errorf("element %d is an ancestor of %d: %w", id, parent, ErrElementCycle)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM signature_element_parents WHERE element_id = ?`, id); err != nil {
		return fmt.Errorf("clearing parent links: %w", err)
	}

	for _, parent := range parents {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO signature_element_parents (element_id, parent_id) VALUES (?, ?)`,
			id, parent)
		if err != nil {
			return fmt.Errorf("linking parent %d: %w", parent, err)
		}
	}
	return nil
}

// isAncestor reports whether target is among start's ancestors in the
// parent graph.
func isAncestor(ctx context.Context, tx *sql.Tx, start, target int64) (bool, error) {
	var found bool
	err := tx.QueryRowContext(ctx,
		`WITH RECURSIVE anc(id) AS (
			SELECT parent_id FROM signature_element_parents WHERE element_id = ?
			UNION
			SELECT sp.parent_id FROM signature_element_parents sp JOIN anc ON sp.element_id = anc.id
		 )
		 SELECT EXISTS (SELECT 1 FROM anc WHERE id = ?)`,
		start, target,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("walking ancestors of %d: %w", start, err)
	}
	return found, nil
}

func componentInTx(ctx context.Context, tx *sql.Tx, id int64) (*types.SignatureComponent, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT id, name, description, index_type, created_on, modified_on
		 FROM signature_components WHERE id = ?`, id)
	return scanComponent(row)
}

func scanElementRow(row interface{ Scan(...any) error }) (*types.SignatureElement, error) {
	var elem types.SignatureElement
	var description, idx sql.NullString
	var created, modified string
	err := row.Scan(&elem.ID, &elem.SignatureComponentID, &elem.Name, &description, &idx, &created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("element: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning element: %w", err)
	}
	elem.Description = description.String
	elem.Index = idx.String
	elem.ParentIDs = []int64{}
	elem.CreatedOn = db.ParseTime(created)
	elem.ModifiedOn = db.ParseTime(modified)
	return &elem, nil
}

// parentsOf returns an element's parent IDs in ascending order.
func (s *Store) parentsOf(ctx context.Context, id int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT parent_id FROM signature_element_parents WHERE element_id = ? ORDER BY parent_id`, id)
	if err != nil {
		return nil, fmt.Errorf("loading parent links: %w", err)
	}
	defer rows.Close()

	parents := []int64{}
	for rows.Next() {
		var parent int64
		if err := rows.Scan(&parent); err != nil {
			return nil, fmt.Errorf("scanning parent link: %w", err)
		}
		parents = append(parents, parent)
	}
	return parents, rows.Err()
}

// attachParents fills ParentIDs for a page of elements with one query.
func (s *Store) attachParents(ctx context.Context, elems []types.SignatureElement) error {
	if len(elems) == 0 {
		return nil
	}

	args := make([]any, len(elems))
	index := make(map[int64]*types.SignatureElement, len(elems))
	for i := range elems {
		args[i] = elems[i].ID
		index[elems[i].ID] = &elems[i]
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT element_id, parent_id FROM signature_element_parents
		 WHERE element_id IN (`+search.Placeholders(len(args))+`) ORDER BY element_id, parent_id`,
		args...)
	if err != nil {
		return fmt.Errorf("loading parent links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var elementID, parentID int64
		if err := rows.Scan(&elementID, &parentID); err != nil {
			return fmt.Errorf("scanning parent link: %w", err)
		}
		if elem := index[elementID]; elem != nil {
			elem.ParentIDs = append(elem.ParentIDs, parentID)
		}
	}
	return rows.Err()
}

func normalizeParents(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
