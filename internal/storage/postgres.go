package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"onlinebooking/internal/config"
	"onlinebooking/pkg/redis"
)

const statsCacheKey = "booking_stats"

var ErrBookingNotFound = errors.New("booking not found")

type PostgresStorage struct {
	db     *sqlx.DB
	cache  *redis.Client
	logger *zap.Logger
}

// Booking is one submitted reservation, whatever its outcome. Amounts are
// in cents.
type Booking struct {
	ID            int64     `db:"id"`
	ChatID        int64     `db:"chat_id"`
	Username      string    `db:"username"`
	PackageID     int       `db:"package_id"`
	PackageName   string    `db:"package_name"`
	BeginAt       time.Time `db:"begin_at"`
	PaymentMethod string    `db:"payment_method"`
	Status        string    `db:"status"`
	SubtotalCents int64     `db:"subtotal_cents"`
	DiscountCents int64     `db:"discount_cents"`
	VoucherCents  int64     `db:"voucher_cents"`
	TotalCents    int64     `db:"total_cents"`
	DiscountCode  string    `db:"discount_code"`
	Vouchers      string    `db:"vouchers"`
	Contact       []byte    `db:"contact"`
	Payload       []byte    `db:"payload"`
	Response      []byte    `db:"response"`
	PaymentURL    string    `db:"payment_url"`
	CreatedAt     time.Time `db:"created_at"`
}

func NewPostgresStorage(ctx context.Context, cfg config.DatabaseConfig, cache *redis.Client, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		cache:  cache,
		logger: logger,
	}, nil
}

// DB is used by the migrator.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) SaveBooking(ctx context.Context, b Booking) (int64, error) {
	const query = `
        INSERT INTO bookings (
            chat_id, username, package_id, package_name, begin_at,
            payment_method, status, subtotal_cents, discount_cents,
            voucher_cents, total_cents, discount_code, vouchers,
            contact, payload, response, payment_url
        ) VALUES (
            :chat_id, :username, :package_id, :package_name, :begin_at,
            :payment_method, :status, :subtotal_cents, :discount_cents,
            :voucher_cents, :total_cents, :discount_code, :vouchers,
            :contact, :payload, :response, :payment_url
        )
        RETURNING id
    `

	if len(b.Contact) == 0 {
		b.Contact = []byte("{}")
	}
	if len(b.Response) == 0 {
		b.Response = nil
	}

	rows, err := s.db.NamedQueryContext(ctx, query, b)
	if err != nil {
		return 0, fmt.Errorf("failed to save booking: %w", err)
	}
	defer rows.Close()

	var id int64
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to read booking id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to save booking: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, statsCacheKey); err != nil {
			s.logger.Warn("Failed to invalidate booking statistics", zap.Error(err))
		}
	}

	return id, nil
}

func (s *PostgresStorage) GetBookingByID(ctx context.Context, id int64) (*Booking, error) {
	const query = `SELECT * FROM bookings WHERE id = $1`

	var b Booking
	if err := s.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// ListBookings returns bookings newest first; limit <= 0 returns all.
func (s *PostgresStorage) ListBookings(ctx context.Context, limit int) ([]Booking, error) {
	query := `SELECT * FROM bookings ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var bookings []Booking
	if err := s.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return bookings, nil
}

type BookingStatistics struct {
	TotalBookings int            `json:"total_bookings"`
	TotalCents    int64          `json:"total_cents"`
	TodayBookings int            `json:"today_bookings"`
	TodayCents    int64          `json:"today_cents"`
	WeekBookings  int            `json:"week_bookings"`
	WeekCents     int64          `json:"week_cents"`
	MonthBookings int            `json:"month_bookings"`
	MonthCents    int64          `json:"month_cents"`
	StatusCounts  map[string]int `json:"status_counts"`
}

// GetBookingStatistics counts bookings that did not fail. Results are cached
// for an hour and invalidated by SaveBooking.
func (s *PostgresStorage) GetBookingStatistics(ctx context.Context) (*BookingStatistics, error) {
	if s.cache != nil {
		var cached BookingStatistics
		if err := s.cache.GetJSON(ctx, statsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats := &BookingStatistics{StatusCounts: make(map[string]int)}

	type countTotal struct {
		Count int   `db:"count"`
		Total int64 `db:"total"`
	}
	periods := []struct {
		where string
		count *int
		total *int64
	}{
		{"", &stats.TotalBookings, &stats.TotalCents},
		{"AND created_at >= CURRENT_DATE", &stats.TodayBookings, &stats.TodayCents},
		{"AND created_at >= CURRENT_DATE - INTERVAL '7 days'", &stats.WeekBookings, &stats.WeekCents},
		{"AND created_at >= CURRENT_DATE - INTERVAL '30 days'", &stats.MonthBookings, &stats.MonthCents},
	}
	for _, p := range periods {
		var ct countTotal
		err := s.db.GetContext(ctx, &ct, `
            SELECT COUNT(*) AS count, COALESCE(SUM(total_cents), 0) AS total
            FROM bookings
            WHERE status <> 'failed' `+p.where)
		if err != nil {
			return nil, fmt.Errorf("failed to count bookings: %w", err)
		}
		*p.count = ct.Count
		*p.total = ct.Total
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, statsCacheKey, stats, time.Hour); err != nil {
			s.logger.Warn("Failed to cache booking statistics", zap.Error(err))
		}
	}

	return stats, nil
}

// ExportBookingsToExcel writes all bookings to dir/name.xlsx and returns
// the path.
func (s *PostgresStorage) ExportBookingsToExcel(ctx context.Context, dir, name string) (string, error) {
	bookings, err := s.ListBookings(ctx, 0)
	if err != nil {
		return "", err
	}

	f, err := bookingsWorkbook(bookings)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(dir, name+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return path, nil
}

const bookingsSheet = "Bookings"

var bookingHeaders = []string{
	"ID", "Chat ID", "Username", "Package ID", "Package", "Begin",
	"Payment method", "Status", "Subtotal", "Discount", "Vouchers amount",
	"Total", "Discount code", "Vouchers", "Contact", "Payment URL", "Created At",
}

func bookingsWorkbook(bookings []Booking) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	for col, header := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(bookingsSheet, cell, header)
	}

	for row, b := range bookings {
		data := []any{
			b.ID,
			b.ChatID,
			b.Username,
			b.PackageID,
			b.PackageName,
			b.BeginAt.Format("2006-01-02 15:04"),
			b.PaymentMethod,
			b.Status,
			cents(b.SubtotalCents),
			cents(b.DiscountCents),
			cents(b.VoucherCents),
			cents(b.TotalCents),
			b.DiscountCode,
			b.Vouchers,
			string(b.Contact),
			b.PaymentURL,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(bookingsSheet, cell, value)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(bookingHeaders), 1)
		f.SetCellStyle(bookingsSheet, "A1", last, style)
	}

	f.SetActiveSheet(index)
	// a new workbook starts with an empty Sheet1
	f.DeleteSheet("Sheet1")
	return f, nil
}

func cents(v int64) float64 {
	return float64(v) / 100
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
