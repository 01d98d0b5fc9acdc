package postgres

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/core/apperror"
	"onghub/internal/domain"
)

// ParseOrderBy turns "name" or "-created_at" into an ORDER BY clause. Only
// columns in allowed are accepted; an empty value yields fallback.
func ParseOrderBy(orderBy string, allowed []string, fallback string) (string, error) {
	if orderBy == "" {
		return fallback, nil
	}
	col, dir := orderBy, "ASC"
	if strings.HasPrefix(orderBy, "-") {
		col, dir = orderBy[1:], "DESC"
	}
	if !slices.Contains(allowed, col) {
		return "", apperror.NewValidation("invalid order column").WithDetail("orderBy", orderBy)
	}
	return col + " " + dir, nil
}

// ListPage counts the rows matched by q, then fetches one ordered page.
func ListPage[T any](
	ctx context.Context,
	querier Querier,
	q squirrel.SelectBuilder,
	filter domain.ListFilter,
	allowedOrder []string,
	defaultOrder string,
) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Items:  []T{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	orderBy, err := ParseOrderBy(filter.OrderBy, allowedOrder, defaultOrder)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy(orderBy)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	return result, nil
}
