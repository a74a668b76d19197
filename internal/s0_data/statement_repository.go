package s0_data

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fscore/internal/contracts"
)

// StatementRepository serves statements and profiles from postgres
// ⭐ SSOT: 재무제표 DB 저장소는 여기서만
type StatementRepository struct {
	pool *pgxpool.Pool
}

// NewStatementRepository creates a new statement repository
func NewStatementRepository(pool *pgxpool.Pool) *StatementRepository {
	return &StatementRepository{pool: pool}
}

// statementCell is one row of data.financial_statements
type statementCell struct {
	Statement contracts.StatementKind
	PeriodEnd time.Time
	LineItem  string
	Value     *float64
}

// GetStatements loads the three statements of a ticker
func (r *StatementRepository) GetStatements(ctx context.Context, ticker string) (*contracts.RawStatements, error) {
	query := `
		SELECT statement, period_end, line_item, value
		FROM data.financial_statements
		WHERE ticker = $1
		ORDER BY statement, period_end DESC, line_item
	`

	rows, err := r.pool.Query(ctx, query, strings.ToUpper(ticker))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: query statements: %v", ticker, contracts.ErrNoData, err)
	}
	defer rows.Close()

	cells := make([]statementCell, 0)
	for rows.Next() {
		var c statementCell
		var kind string
		if err := rows.Scan(&kind, &c.PeriodEnd, &c.LineItem, &c.Value); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		c.Statement = contracts.StatementKind(kind)
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}

	if len(cells) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, contracts.ErrNoData)
	}

	return assembleStatements(ticker, cells), nil
}

// assembleStatements pivots rows into most-recent-first tables
func assembleStatements(ticker string, cells []statementCell) *contracts.RawStatements {
	periods := map[contracts.StatementKind]map[string]map[string]float64{
		contracts.StatementIncome:   {},
		contracts.StatementBalance:  {},
		contracts.StatementCashFlow: {},
	}

	for _, c := range cells {
		byPeriod, ok := periods[c.Statement]
		if !ok {
			continue
		}
		label := c.PeriodEnd.Format("2006-01-02")
		items := byPeriod[label]
		if items == nil {
			items = make(map[string]float64)
			byPeriod[label] = items
		}
		// NULL keeps the period but leaves the item missing
		if c.Value != nil {
			items[c.LineItem] = *c.Value
		}
	}

	return &contracts.RawStatements{
		Ticker:          ticker,
		IncomeStatement: contracts.TableFromPeriods(periods[contracts.StatementIncome]),
		BalanceSheet:    contracts.TableFromPeriods(periods[contracts.StatementBalance]),
		CashFlow:        contracts.TableFromPeriods(periods[contracts.StatementCashFlow]),
	}
}


// GetProfile loads the profile row of a ticker
func (r *StatementRepository) GetProfile(ctx context.Context, ticker string) (*contracts.Profile, error) {
	query := `
		SELECT industry, sector, country, price, book_value, trailing_pe, peg
		FROM data.ticker_profiles
		WHERE ticker = $1
	`

	var p contracts.Profile
	var price, bookValue, trailingPE, peg *float64
	err := r.pool.QueryRow(ctx, query, strings.ToUpper(ticker)).Scan(
		&p.Industry, &p.Sector, &p.Country, &price, &bookValue, &trailingPE, &peg,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", ticker, contracts.ErrNoData)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: query profile: %v", ticker, contracts.ErrNoData, err)
	}

	p.Ticker = ticker
	p.Price = contracts.NumPtr(price)
	p.BookValue = contracts.NumPtr(bookValue)
	p.TrailingPE = contracts.NumPtr(trailingPE)
	p.PEG = contracts.NumPtr(peg)
	return &p, nil
}

// SaveStatements upserts every cell of the raw statements
func (r *StatementRepository) SaveStatements(ctx context.Context, raw *contracts.RawStatements) (int, error) {
	query := `
		INSERT INTO data.financial_statements (ticker, statement, period_end, line_item, value, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (ticker, statement, period_end, line_item) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`

	ticker := strings.ToUpper(raw.Ticker)
	batch := &pgx.Batch{}
	for _, kind := range []contracts.StatementKind{contracts.StatementIncome, contracts.StatementBalance, contracts.StatementCashFlow} {
		for _, col := range raw.Table(kind).Columns {
			periodEnd, err := time.Parse("2006-01-02", col.Label)
			if err != nil {
				return 0, fmt.Errorf("%s %s: period %q: %w", ticker, kind, col.Label, err)
			}
			for item, value := range col.Items {
				batch.Queue(query, ticker, string(kind), periodEnd, item, value)
			}
		}
	}

	if batch.Len() == 0 {
		return 0, nil
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("save statement cell: %w", err)
		}
	}

	return batch.Len(), nil
}

// SaveProfile upserts a profile row
func (r *StatementRepository) SaveProfile(ctx context.Context, p *contracts.Profile) error {
	query := `
		INSERT INTO data.ticker_profiles (ticker, industry, sector, country, price, book_value, trailing_pe, peg, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			industry = EXCLUDED.industry,
			sector = EXCLUDED.sector,
			country = EXCLUDED.country,
			price = EXCLUDED.price,
			book_value = EXCLUDED.book_value,
			trailing_pe = EXCLUDED.trailing_pe,
			peg = EXCLUDED.peg,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		strings.ToUpper(p.Ticker), p.Industry, p.Sector, p.Country,
		nullable(p.Price), nullable(p.BookValue), nullable(p.TrailingPE), nullable(p.PEG),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func nullable(n contracts.Num) *float64 {
	v, ok := n.Get()
	if !ok {
		return nil
	}
	return &v
}
