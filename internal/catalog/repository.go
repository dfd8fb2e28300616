package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, productID string) (Product, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns the whole catalog in its curated display order.
func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, original_price, discount, color
		FROM products
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.OriginalPrice, &p.Discount, &p.Color); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		images, err := r.listImages(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Images = images
	}

	return products, nil
}

func (r *PostgresRepository) Get(ctx context.Context, productID string) (Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, price, original_price, discount, color
		FROM products
		WHERE id=$1
	`, productID)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.OriginalPrice, &p.Discount, &p.Color); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}

	images, err := r.listImages(ctx, p.ID)
	if err != nil {
		return Product{}, err
	}
	p.Images = images

	return p, nil
}

func (r *PostgresRepository) listImages(ctx context.Context, productID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT url FROM product_images WHERE product_id=$1 ORDER BY position
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		images = append(images, url)
	}
	return images, rows.Err()
}
