package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"atlas_tours/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertService(ctx context.Context, s domain.Service) error {
	highlights, _ := json.Marshal(s.Highlights)
	tags, _ := json.Marshal(s.Tags)
	_, err := r.db.ExecContext(ctx, upsertServiceSQL,
		s.ID,
		s.Name,
		string(s.Category),
		s.BasePrice,
		string(s.PriceType),
		s.Location,
		string(highlights),
		s.Rating,
		s.ReviewCount,
		s.Popularity,
		string(tags),
	)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, id string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, id, status, reason)
	return err
}

func (r *Repo) GetService(ctx context.Context, id string) (domain.Service, error) {
	row := r.db.QueryRowContext(ctx, getServiceSQL, id)
	svc, err := scanService(row)
	if err == sql.ErrNoRows {
		return domain.Service{}, domain.ErrNotFound
	}
	return svc, err
}

func (r *Repo) ListServices(ctx context.Context, q domain.ServicesQuery) ([]domain.Service, error) {
	var (
		where []string
		args  []any
	)
	if q.Category != nil {
		where = append(where, "category = ?")
		args = append(args, string(*q.Category))
	}
	if q.Location != nil {
		where = append(where, "location = ?")
		args = append(args, *q.Location)
	}

	sqlStr := listServicesPrefix
	if len(where) > 0 {
		sqlStr += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	sqlStr += "ORDER BY id"
	if q.Limit > 0 {
		sqlStr += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dst ...any) error }

func scanService(row rowScanner) (domain.Service, error) {
	var (
		svc                  domain.Service
		category, priceType  string
		location             sql.NullString
		highlightsJSON, tags []byte
		rating, popularity   sql.NullFloat64
		reviewCount          sql.NullInt64
	)
	if err := row.Scan(
		&svc.ID,
		&svc.Name,
		&category,
		&svc.BasePrice,
		&priceType,
		&location,
		&highlightsJSON,
		&rating,
		&reviewCount,
		&popularity,
		&tags,
	); err != nil {
		return domain.Service{}, err
	}

	svc.Category = domain.Category(category)
	svc.PriceType = domain.PriceType(priceType)
	if location.Valid {
		svc.Location = location.String
	}
	if rating.Valid {
		svc.Rating = rating.Float64
	}
	if reviewCount.Valid {
		svc.ReviewCount = int(reviewCount.Int64)
	}
	if popularity.Valid {
		svc.Popularity = popularity.Float64
	}
	_ = json.Unmarshal(highlightsJSON, &svc.Highlights)
	_ = json.Unmarshal(tags, &svc.Tags)
	return svc, nil
}
