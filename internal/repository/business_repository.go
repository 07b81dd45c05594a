package repository

import (
	"context"

	"botpanel/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BusinessRepository struct {
	db *pgxpool.Pool
}

func NewBusinessRepository(db *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{db: db}
}

const businessColumns = `id, name, owner_id, type, promo_link, phone, geo, style, target_action,
	working_days, start_time, end_time, work_saturday, start_time_sat, end_time_sat,
	work_sunday, start_time_sun, end_time_sun, catalog_type, catalog_link, catalog_api_key,
	faq_link, created_at`

func scanBusiness(row pgx.Row) (*entities.Business, error) {
	var b entities.Business
	var workingDays []byte
	err := row.Scan(&b.ID, &b.Name, &b.OwnerID, &b.Type, &b.PromoLink, &b.Phone, &b.Geo,
		&b.Style, &b.TargetAction, &workingDays, &b.StartTime, &b.EndTime,
		&b.WorkSaturday, &b.StartTimeSat, &b.EndTimeSat,
		&b.WorkSunday, &b.StartTimeSun, &b.EndTimeSun,
		&b.CatalogType, &b.CatalogLink, &b.CatalogAPIKey, &b.FAQLink, &b.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	b.WorkingDays = []string{}
	fromJSONB(workingDays, &b.WorkingDays)
	return &b, nil
}

func (r *BusinessRepository) Create(ctx context.Context, b *entities.Business) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO businesses (id, name, owner_id, type, promo_link, phone, geo, style,
			target_action, working_days, start_time, end_time, work_saturday,
			start_time_sat, end_time_sat, work_sunday, start_time_sun, end_time_sun,
			catalog_type, catalog_link, catalog_api_key, faq_link)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22)
		 RETURNING created_at`,
		b.ID, b.Name, b.OwnerID, b.Type, b.PromoLink, b.Phone, b.Geo, b.Style,
		b.TargetAction, toJSONB(b.WorkingDays), b.StartTime, b.EndTime, b.WorkSaturday,
		b.StartTimeSat, b.EndTimeSat, b.WorkSunday, b.StartTimeSun, b.EndTimeSun,
		b.CatalogType, b.CatalogLink, b.CatalogAPIKey, b.FAQLink).
		Scan(&b.CreatedAt)
}

func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	return scanBusiness(r.db.QueryRow(ctx,
		"SELECT "+businessColumns+" FROM businesses WHERE id = $1", id))
}

func (r *BusinessRepository) ListByOwner(ctx context.Context, ownerID string) ([]entities.Business, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+businessColumns+" FROM businesses WHERE owner_id = $1 ORDER BY created_at", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := []entities.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *b)
	}
	return businesses, rows.Err()
}

func (r *BusinessRepository) ListAllGroupedByOwner(ctx context.Context) (map[string][]entities.Business, error) {
	rows, err := r.db.Query(ctx, "SELECT "+businessColumns+" FROM businesses ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := map[string][]entities.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		grouped[b.OwnerID] = append(grouped[b.OwnerID], *b)
	}
	return grouped, rows.Err()
}

func (r *BusinessRepository) Update(ctx context.Context, b *entities.Business) error {
	_, err := r.db.Exec(ctx,
		`UPDATE businesses SET name = $2, type = $3, promo_link = $4, phone = $5, geo = $6,
			style = $7, target_action = $8, working_days = $9, start_time = $10,
			end_time = $11, work_saturday = $12, start_time_sat = $13, end_time_sat = $14,
			work_sunday = $15, start_time_sun = $16, end_time_sun = $17, catalog_type = $18,
			catalog_link = $19, catalog_api_key = $20, faq_link = $21
		 WHERE id = $1`,
		b.ID, b.Name, b.Type, b.PromoLink, b.Phone, b.Geo, b.Style, b.TargetAction,
		toJSONB(b.WorkingDays), b.StartTime, b.EndTime, b.WorkSaturday,
		b.StartTimeSat, b.EndTimeSat, b.WorkSunday, b.StartTimeSun, b.EndTimeSun,
		b.CatalogType, b.CatalogLink, b.CatalogAPIKey, b.FAQLink)
	return err
}

func (r *BusinessRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM businesses WHERE id = $1", id)
	return err
}
