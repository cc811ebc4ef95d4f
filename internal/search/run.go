// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pdiddy/archive-engine/pkg/types"
)

// Run executes req against meta's table and assembles one response
// page. scan reads a single row of meta.Select's column list.
//
// The count and page queries share one compiled predicate. A page
// beyond the last is an empty page with correct totals, not an error.
func Run[T any](ctx context.Context, conn *sql.DB, req types.SearchRequest, meta Meta, reg *Registry, scan func(*sql.Rows) (T, error)) (*types.SearchResponse[T], error) {
	if req.Page < 1 {
		return nil, Invalidf("page", "", "page must be at least 1")
	}
	if req.PageSize != types.AllPages && req.PageSize < 1 {
		return nil, Invalidf("pageSize", "", "pageSize must be at least 1, or -1 for all")
	}

	conds, err := Normalize(req.Query)
	if err != nil {
		return nil, err
	}
	where, err := Compile(conds, meta, reg)
	if err != nil {
		return nil, err
	}
	order, err := CompileSort(req.Sort, meta)
	if err != nil {
		return nil, err
	}

	from := " FROM " + meta.Table + " " + meta.Alias + " WHERE " + where.SQL

	var total int64
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*)"+from, where.Args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting matches: %w", err)
	}

	resp := &types.SearchResponse[T]{
		Data:       []T{},
		Page:       req.Page,
		TotalSize:  total,
		TotalPages: totalPages(total, req.PageSize),
	}

	query := "SELECT " + meta.Select + from + " ORDER BY " + order
	args := where.Args
	if req.PageSize != types.AllPages {
		query += " LIMIT ? OFFSET ?"
		args = append(args, req.PageSize, (req.Page-1)*req.PageSize)
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying page: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		resp.Data = append(resp.Data, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	return resp, nil
}

// totalPages is ceil(total/size), never below 1. The AllPages request
// is one page by definition.
func totalPages(total int64, size int) int {
	if size == types.AllPages {
		return 1
	}
	pages := (total + int64(size) - 1) / int64(size)
	if pages < 1 {
		pages = 1
	}
	return int(pages)
}
