package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/market-intel/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it in
// tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrapf(ErrUnavailable, "postgres: ping: %v", err)
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id                BIGSERIAL PRIMARY KEY,
	name              TEXT NOT NULL,
	ticker_symbol     TEXT UNIQUE,
	region            TEXT,
	industry          TEXT,
	sector            TEXT,
	website           TEXT,
	address           TEXT,
	phone             TEXT,
	employee_count    INTEGER,
	business_summary  TEXT,
	market_cap        DOUBLE PRECISION,
	revenue           DOUBLE PRECISION,
	growth_rate       DOUBLE PRECISION,
	profit_margin     DOUBLE PRECISION,
	innovativeness    DOUBLE PRECISION,
	hiring            DOUBLE PRECISION,
	sustainability    DOUBLE PRECISION,
	insider_sentiment DOUBLE PRECISION,
	last_updated      TIMESTAMPTZ NOT NULL DEFAULT now(),
	data_source       TEXT NOT NULL DEFAULT 'manual'
);

CREATE TABLE IF NOT EXISTS company_officers (
	id                BIGSERIAL PRIMARY KEY,
	company_id        BIGINT NOT NULL REFERENCES companies(id),
	name              TEXT NOT NULL,
	title             TEXT,
	age               INTEGER,
	year_born         INTEGER,
	fiscal_year       INTEGER,
	total_pay         DOUBLE PRECISION,
	exercised_value   DOUBLE PRECISION,
	unexercised_value DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS news_articles (
	id              BIGSERIAL PRIMARY KEY,
	company_id      BIGINT REFERENCES companies(id),
	industry        TEXT,
	topic           TEXT,
	title           TEXT NOT NULL,
	source_name     TEXT,
	source_url      TEXT NOT NULL UNIQUE,
	published_date  TIMESTAMPTZ,
	summary         TEXT,
	sentiment_score DOUBLE PRECISION,
	sentiment_label TEXT,
	collected_date  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS market_trends (
	id                BIGSERIAL PRIMARY KEY,
	industry          TEXT,
	region            TEXT,
	trend_description TEXT NOT NULL,
	trend_type        TEXT,
	source            TEXT,
	source_url        TEXT,
	published_date    TIMESTAMPTZ,
	collected_date    TIMESTAMPTZ NOT NULL DEFAULT now(),
	sentiment_score   DOUBLE PRECISION,
	relevance_score   DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS icps (
	id            BIGSERIAL PRIMARY KEY,
	profile_name  TEXT NOT NULL UNIQUE,
	criteria_json TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_used     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS leads (
	id                   BIGSERIAL PRIMARY KEY,
	icp_id               BIGINT REFERENCES icps(id),
	company_name         TEXT NOT NULL,
	contact_name         TEXT,
	job_title            TEXT,
	industry             TEXT,
	company_size         TEXT,
	region               TEXT,
	website              TEXT,
	email                TEXT,
	phone                TEXT,
	linkedin_profile     TEXT,
	source               TEXT,
	qualification_reason TEXT,
	score                DOUBLE PRECISION,
	engagement_level     DOUBLE PRECISION,
	technologies_used    TEXT,
	notes                TEXT,
	collected_date       TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_contacted       TIMESTAMPTZ,
	status               TEXT NOT NULL DEFAULT 'New'
);

CREATE TABLE IF NOT EXISTS real_estate_projects (
	id                       BIGSERIAL PRIMARY KEY,
	project_name             TEXT NOT NULL,
	developer_id             BIGINT REFERENCES companies(id),
	developer_name           TEXT,
	city                     TEXT,
	region                   TEXT,
	project_type             TEXT,
	status                   TEXT,
	rera_registration_id     TEXT UNIQUE,
	launch_date              TIMESTAMPTZ,
	expected_completion_date TIMESTAMPTZ,
	total_area_sqft          DOUBLE PRECISION,
	price_per_sqft_range     TEXT,
	key_features             TEXT,
	source_url               TEXT,
	collected_date           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS architectural_firms (
	id                  BIGSERIAL PRIMARY KEY,
	company_id          BIGINT UNIQUE REFERENCES companies(id),
	firm_name           TEXT NOT NULL,
	city                TEXT,
	region              TEXT,
	specialization      TEXT,
	notable_projects    TEXT,
	key_personnel       TEXT,
	awards              TEXT,
	coa_registration_id TEXT,
	source_url          TEXT,
	collected_date      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analysis_results (
	id                 BIGSERIAL PRIMARY KEY,
	analysis_type      TEXT NOT NULL,
	target_entity_id   BIGINT,
	target_entity_name TEXT,
	result_json        TEXT NOT NULL,
	generated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_leads_company_name_lower ON leads (lower(company_name));
CREATE UNIQUE INDEX IF NOT EXISTS idx_firms_name_lower ON architectural_firms (lower(firm_name));
CREATE INDEX IF NOT EXISTS idx_companies_name_lower ON companies (lower(name));
CREATE INDEX IF NOT EXISTS idx_companies_industry ON companies(industry);
CREATE INDEX IF NOT EXISTS idx_officers_company_id ON company_officers(company_id);
CREATE INDEX IF NOT EXISTS idx_articles_company_id ON news_articles(company_id);
CREATE INDEX IF NOT EXISTS idx_articles_industry ON news_articles(industry);
CREATE INDEX IF NOT EXISTS idx_trends_industry ON market_trends(industry);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_projects_city ON real_estate_projects(city);
CREATE INDEX IF NOT EXISTS idx_analyses_type ON analysis_results(analysis_type);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

// Companies

func (s *PostgresStore) InsertCompany(ctx context.Context, c *model.Company) (int64, error) {
	if c.LastUpdated.IsZero() {
		c.LastUpdated = time.Now().UTC()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO companies (name, ticker_symbol, region, industry, sector, website, address, phone,
			employee_count, business_summary, market_cap, revenue, growth_rate, profit_margin,
			innovativeness, hiring, sustainability, insider_sentiment, last_updated, data_source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING id`,
		c.Name, c.TickerSymbol, c.Region, c.Industry, c.Sector, c.Website, c.Address, c.Phone,
		c.EmployeeCount, c.BusinessSummary, c.MarketCap, c.Revenue, c.GrowthRate, c.ProfitMargin,
		c.Innovativeness, c.Hiring, c.Sustainability, c.InsiderSentiment, c.LastUpdated, string(c.DataSource),
	).Scan(&c.ID)
	if err != nil {
		return 0, pgErr(err, "postgres: insert company")
	}
	return c.ID, nil
}

func (s *PostgresStore) UpdateCompany(ctx context.Context, c *model.Company) error {
	c.LastUpdated = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE companies SET name = $1, ticker_symbol = $2, region = $3, industry = $4, sector = $5,
			website = $6, address = $7, phone = $8, employee_count = $9, business_summary = $10,
			market_cap = $11, revenue = $12, growth_rate = $13, profit_margin = $14,
			innovativeness = $15, hiring = $16, sustainability = $17, insider_sentiment = $18,
			last_updated = $19, data_source = $20
		 WHERE id = $21`,
		c.Name, c.TickerSymbol, c.Region, c.Industry, c.Sector, c.Website, c.Address, c.Phone,
		c.EmployeeCount, c.BusinessSummary, c.MarketCap, c.Revenue, c.GrowthRate, c.ProfitMargin,
		c.Innovativeness, c.Hiring, c.Sustainability, c.InsiderSentiment, c.LastUpdated, string(c.DataSource),
		c.ID,
	)
	if err != nil {
		return pgErr(err, "postgres: update company")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "company %d", c.ID)
	}
	return nil
}

func (s *PostgresStore) GetCompany(ctx context.Context, id int64) (*model.Company, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+companyCols+` FROM companies WHERE id = $1`, id)
	c, err := scanPgCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "company %d", id)
	}
	return c, err
}

func (s *PostgresStore) GetCompanyByTicker(ctx context.Context, ticker string) (*model.Company, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+companyCols+` FROM companies WHERE ticker_symbol = $1`, ticker)
	c, err := scanPgCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (s *PostgresStore) GetCompanyByName(ctx context.Context, name string) (*model.Company, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+companyCols+` FROM companies WHERE lower(name) = lower($1)`, name)
	c, err := scanPgCompany(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (s *PostgresStore) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, error) {
	query := `SELECT ` + companyCols + ` FROM companies WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Industry != "" {
		query += fmt.Sprintf(` AND lower(industry) = lower($%d)`, argIdx)
		args = append(args, filter.Industry)
		argIdx++
	}
	if filter.Region != "" {
		query += fmt.Sprintf(` AND lower(region) = lower($%d)`, argIdx)
		args = append(args, filter.Region)
		argIdx++
	}
	query += ` ORDER BY name`
	query, args = appendPgLimitOffset(query, args, argIdx, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		c, err := scanPgCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, eris.Wrap(rows.Err(), "postgres: list companies iterate")
}

func (s *PostgresStore) ReplaceOfficers(ctx context.Context, companyID int64, officers []model.CompanyOfficer) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin officers tx")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM company_officers WHERE company_id = $1`, companyID); err != nil {
		return eris.Wrap(err, "postgres: delete officers")
	}
	for _, o := range officers {
		if _, err := tx.Exec(ctx,
			`INSERT INTO company_officers (company_id, name, title, age, year_born, fiscal_year,
				total_pay, exercised_value, unexercised_value)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			companyID, o.Name, o.Title, o.Age, o.YearBorn, o.FiscalYear,
			o.TotalPay, o.ExercisedValue, o.UnexercisedValue,
		); err != nil {
			return eris.Wrapf(err, "postgres: insert officer %s", o.Name)
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit officers")
}

func (s *PostgresStore) ListOfficers(ctx context.Context, companyID int64) ([]model.CompanyOfficer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_id, name, title, age, year_born, fiscal_year,
			total_pay, exercised_value, unexercised_value
		 FROM company_officers WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list officers")
	}
	defer rows.Close()

	var officers []model.CompanyOfficer
	for rows.Next() {
		var o model.CompanyOfficer
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Name, &o.Title, &o.Age, &o.YearBorn,
			&o.FiscalYear, &o.TotalPay, &o.ExercisedValue, &o.UnexercisedValue); err != nil {
			return nil, eris.Wrap(err, "postgres: scan officer")
		}
		officers = append(officers, o)
	}
	return officers, eris.Wrap(rows.Err(), "postgres: list officers iterate")
}

// News articles

func (s *PostgresStore) InsertArticle(ctx context.Context, a *model.NewsArticle) (int64, error) {
	if a.CollectedDate.IsZero() {
		a.CollectedDate = time.Now().UTC()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO news_articles (company_id, industry, topic, title, source_name, source_url,
			published_date, summary, sentiment_score, sentiment_label, collected_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		a.CompanyID, a.Industry, a.Topic, a.Title, a.SourceName, a.SourceURL,
		a.PublishedDate, a.Summary, a.SentimentScore, a.SentimentLabel, a.CollectedDate,
	).Scan(&a.ID)
	if err != nil {
		return 0, pgErr(err, "postgres: insert article")
	}
	return a.ID, nil
}

func (s *PostgresStore) UpdateArticle(ctx context.Context, a *model.NewsArticle) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE news_articles SET company_id = $1, industry = $2, topic = $3, title = $4,
			source_name = $5, source_url = $6, published_date = $7, summary = $8,
			sentiment_score = $9, sentiment_label = $10
		 WHERE id = $11`,
		a.CompanyID, a.Industry, a.Topic, a.Title, a.SourceName, a.SourceURL,
		a.PublishedDate, a.Summary, a.SentimentScore, a.SentimentLabel, a.ID,
	)
	if err != nil {
		return pgErr(err, "postgres: update article")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "article %d", a.ID)
	}
	return nil
}

func (s *PostgresStore) GetArticleByURL(ctx context.Context, sourceURL string) (*model.NewsArticle, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+articleCols+` FROM news_articles WHERE source_url = $1`, sourceURL)
	a, err := scanPgArticle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (s *PostgresStore) ListArticles(ctx context.Context, filter ArticleFilter) ([]model.NewsArticle, error) {
	query := `SELECT ` + articleCols + ` FROM news_articles WHERE true`
	args := []any{}
	argIdx := 1

	if filter.CompanyID != nil {
		query += fmt.Sprintf(` AND company_id = $%d`, argIdx)
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.Industry != "" {
		query += fmt.Sprintf(` AND lower(industry) = lower($%d)`, argIdx)
		args = append(args, filter.Industry)
		argIdx++
	}
	if filter.Topic != "" {
		query += fmt.Sprintf(` AND lower(topic) = lower($%d)`, argIdx)
		args = append(args, filter.Topic)
		argIdx++
	}
	query += ` ORDER BY published_date DESC`
	query, args = appendPgLimitOffset(query, args, argIdx, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list articles")
	}
	defer rows.Close()

	var articles []model.NewsArticle
	for rows.Next() {
		a, err := scanPgArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, eris.Wrap(rows.Err(), "postgres: list articles iterate")
}

// Market trends

func (s *PostgresStore) InsertTrend(ctx context.Context, t *model.MarketTrend) (int64, error) {
	if t.CollectedDate.IsZero() {
		t.CollectedDate = time.Now().UTC()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO market_trends (industry, region, trend_description, trend_type, source,
			source_url, published_date, collected_date, sentiment_score, relevance_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		t.Industry, t.Region, t.Description, t.TrendType, t.Source,
		t.SourceURL, t.PublishedDate, t.CollectedDate, t.SentimentScore, t.RelevanceScore,
	).Scan(&t.ID)
	if err != nil {
		return 0, pgErr(err, "postgres: insert trend")
	}
	return t.ID, nil
}

func (s *PostgresStore) ListTrends(ctx context.Context, filter TrendFilter) ([]model.MarketTrend, error) {
	query := `SELECT id, industry, region, trend_description, trend_type, source, source_url,
		published_date, collected_date, sentiment_score, relevance_score
		FROM market_trends WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Industry != "" {
		query += fmt.Sprintf(` AND lower(industry) = lower($%d)`, argIdx)
		args = append(args, filter.Industry)
		argIdx++
	}
	if filter.Region != "" {
		query += fmt.Sprintf(` AND lower(region) = lower($%d)`, argIdx)
		args = append(args, filter.Region)
		argIdx++
	}
	query += ` ORDER BY collected_date DESC`
	query, args = appendPgLimitOffset(query, args, argIdx, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list trends")
	}
	defer rows.Close()

	var trends []model.MarketTrend
	for rows.Next() {
		var t model.MarketTrend
		if err := rows.Scan(&t.ID, &t.Industry, &t.Region, &t.Description, &t.TrendType,
			&t.Source, &t.SourceURL, &t.PublishedDate, &t.CollectedDate,
			&t.SentimentScore, &t.RelevanceScore); err != nil {
			return nil, eris.Wrap(err, "postgres: scan trend")
		}
		trends = append(trends, t)
	}
	return trends, eris.Wrap(rows.Err(), "postgres: list trends iterate")
}

// ICPs

func (s *PostgresStore) InsertICP(ctx context.Context, p *model.ICP) (int64, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO icps (profile_name, criteria_json, created_at, last_used)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		p.ProfileName, p.CriteriaJSON, p.CreatedAt, p.LastUsed,
	).Scan(&p.ID)
	if err != nil {
		return 0, pgErr(err, "postgres: insert icp")
	}
	return p.ID, nil
}

func (s *PostgresStore) UpdateICP(ctx context.Context, p *model.ICP) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE icps SET profile_name = $1, criteria_json = $2, last_used = $3 WHERE id = $4`,
		p.ProfileName, p.CriteriaJSON, p.LastUsed, p.ID,
	)
	if err != nil {
		return pgErr(err, "postgres: update icp")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "icp %d", p.ID)
	}
	return nil
}

func (s *PostgresStore) GetICP(ctx context.Context, id int64) (*model.ICP, error) {
	var p model.ICP
	err := s.pool.QueryRow(ctx,
		`SELECT id, profile_name, criteria_json, created_at, last_used FROM icps WHERE id = $1`, id,
	).Scan(&p.ID, &p.ProfileName, &p.CriteriaJSON, &p.CreatedAt, &p.LastUsed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "icp %d", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get icp")
	}
	return &p, nil
}

func (s *PostgresStore) GetICPByName(ctx context.Context, profileName string) (*model.ICP, error) {
	var p model.ICP
	err := s.pool.QueryRow(ctx,
		`SELECT id, profile_name, criteria_json, created_at, last_used FROM icps WHERE profile_name = $1`,
		profileName,
	).Scan(&p.ID, &p.ProfileName, &p.CriteriaJSON, &p.CreatedAt, &p.LastUsed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get icp by name")
	}
	return &p, nil
}

func (s *PostgresStore) ListICPs(ctx context.Context) ([]model.ICP, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, profile_name, criteria_json, created_at, last_used FROM icps ORDER BY profile_name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list icps")
	}
	defer rows.Close()

	var icps []model.ICP
	for rows.Next() {
		var p model.ICP
		if err := rows.Scan(&p.ID, &p.ProfileName, &p.CriteriaJSON, &p.CreatedAt, &p.LastUsed); err != nil {
			return nil, eris.Wrap(err, "postgres: scan icp")
		}
		icps = append(icps, p)
	}
	return icps, eris.Wrap(rows.Err(), "postgres: list icps iterate")
}

func (s *PostgresStore) TouchICP(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE icps SET last_used = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return eris.Wrapf(err, "postgres: touch icp %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "icp %d", id)
	}
	return nil
}

// Leads

func (s *PostgresStore) InsertLead(ctx context.Context, l *model.Lead) (int64, error) {
	if l.CollectedDate.IsZero() {
		l.CollectedDate = time.Now().UTC()
	}
	if l.Status == "" {
		l.Status = model.LeadNew
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO leads (icp_id, company_name, contact_name, job_title, industry, company_size,
			region, website, email, phone, linkedin_profile, source, qualification_reason, score,
			engagement_level, technologies_used, notes, collected_date, last_contacted, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING id`,
		l.ICPID, l.CompanyName, l.ContactName, l.JobTitle, l.Industry, l.CompanySize,
		l.Region, l.Website, l.Email, l.Phone, l.LinkedInProfile, l.Source, l.QualificationReason,
		l.Score, l.EngagementLevel, l.TechnologiesUsed, l.Notes, l.CollectedDate, l.LastContacted,
		string(l.Status),
	).Scan(&l.ID)
	if err != nil {
		return 0, pgErr(err, "postgres: insert lead")
	}
	return l.ID, nil
}

func (s *PostgresStore) UpdateLead(ctx context.Context, l *model.Lead) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET icp_id = $1, company_name = $2, contact_name = $3, job_title = $4,
			industry = $5, company_size = $6, region = $7, website = $8, email = $9, phone = $10,
			linkedin_profile = $11, source = $12, qualification_reason = $13, score = $14,
			engagement_level = $15, technologies_used = $16, notes = $17, last_contacted = $18,
			status = $19
		 WHERE id = $20`,
		l.ICPID, l.CompanyName, l.ContactName, l.JobTitle, l.Industry, l.CompanySize,
		l.Region, l.Website, l.Email, l.Phone, l.LinkedInProfile, l.Source, l.QualificationReason,
		l.Score, l.EngagementLevel, l.TechnologiesUsed, l.Notes, l.LastContacted, string(l.Status),
		l.ID,
	)
	if err != nil {
		return pgErr(err, "postgres: update lead")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "lead %d", l.ID)
	}
	return nil
}

func (s *PostgresStore) GetLead(ctx context.Context, id int64) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+leadCols+` FROM leads WHERE id = $1`, id)
	l, err := scanPgLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "lead %d", id)
	}
	return l, err
}

func (s *PostgresStore) GetLeadByCompanyName(ctx context.Context, companyName string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+leadCols+` FROM leads WHERE lower(company_name) = lower($1)`, companyName)
	l, err := scanPgLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadCols + ` FROM leads WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.ICPID != nil {
		query += fmt.Sprintf(` AND icp_id = $%d`, argIdx)
		args = append(args, *filter.ICPID)
		argIdx++
	}
	if filter.MinScore != nil {
		query += fmt.Sprintf(` AND score >= $%d`, argIdx)
		args = append(args, *filter.MinScore)
		argIdx++
	}
	query += ` ORDER BY score DESC`
	query, args = appendPgLimitOffset(query, args, argIdx, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanPgLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func (s *PostgresStore) UpdateLeadStatus(ctx context.Context, id int64, status model.LeadStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead status %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "lead %d", id)
	}
	return nil
}

// Real-estate projects

func (s *PostgresStore) InsertProject(ctx context.Context, p *model.RealEstateProject) (int64, error) {
	if p.CollectedDate.IsZero() {
		p.CollectedDate = time.Now().UTC()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO real_estate_projects (project_name, developer_id, developer_name, city, region,
			project_type, status, rera_registration_id, launch_date, expected_completion_date,
			total_area_sqft, price_per_sqft_range, key_features, source_url, collected_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		p.ProjectName, p.DeveloperID, p.DeveloperName, p.City, p.Region,
		p.ProjectType, p.Status, p.RERARegistrationID, p.LaunchDate, p.ExpectedCompletion,
		p.TotalAreaSqft, p.PricePerSqftRange, p.KeyFeatures, p.SourceURL, p.CollectedDate,
	).Scan(&p.ID)
	if err != nil {
		return 0, pgErr(err, "postgres: insert project")
	}
	return p.ID, nil
}

func (s *PostgresStore) UpdateProject(ctx context.Context, p *model.RealEstateProject) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE real_estate_projects SET project_name = $1, developer_id = $2, developer_name = $3,
			city = $4, region = $5, project_type = $6, status = $7, rera_registration_id = $8,
			launch_date = $9, expected_completion_date = $10, total_area_sqft = $11,
			price_per_sqft_range = $12, key_features = $13, source_url = $14
		 WHERE id = $15`,
		p.ProjectName, p.DeveloperID, p.DeveloperName, p.City, p.Region, p.ProjectType, p.Status,
		p.RERARegistrationID, p.LaunchDate, p.ExpectedCompletion, p.TotalAreaSqft,
		p.PricePerSqftRange, p.KeyFeatures, p.SourceURL, p.ID,
	)
	if err != nil {
		return pgErr(err, "postgres: update project")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "project %d", p.ID)
	}
	return nil
}

func (s *PostgresStore) GetProjectByRERA(ctx context.Context, reraID string) (*model.RealEstateProject, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+projectCols+` FROM real_estate_projects WHERE rera_registration_id = $1`, reraID)
	p, err := scanPgProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (s *PostgresStore) ListProjects(ctx context.Context, filter ProjectFilter) ([]model.RealEstateProject, error) {
	query := `SELECT ` + projectCols + ` FROM real_estate_projects WHERE true`
	args := []any{}
	argIdx := 1

	if filter.City != "" {
		query += fmt.Sprintf(` AND lower(city) = lower($%d)`, argIdx)
		args = append(args, filter.City)
		argIdx++
	}
	if filter.Region != "" {
		query += fmt.Sprintf(` AND lower(region) = lower($%d)`, argIdx)
		args = append(args, filter.Region)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(` AND lower(status) = lower($%d)`, argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	query += ` ORDER BY collected_date DESC`
	query, args = appendPgLimitOffset(query, args, argIdx, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list projects")
	}
	defer rows.Close()

	var projects []model.RealEstateProject
	for rows.Next() {
		p, err := scanPgProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, eris.Wrap(rows.Err(), "postgres: list projects iterate")
}

// Architectural firms

func (s *PostgresStore) InsertFirm(ctx context.Context, f *model.ArchitecturalFirm) (int64, error) {
	if f.CollectedDate.IsZero() {
		f.CollectedDate = time.Now().UTC()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO architectural_firms (company_id, firm_name, city, region, specialization,
			notable_projects, key_personnel, awards, coa_registration_id, source_url, collected_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		f.CompanyID, f.FirmName, f.City, f.Region, f.Specialization,
		f.NotableProjects, f.KeyPersonnel, f.Awards, f.COARegistrationID, f.SourceURL, f.CollectedDate,
	).Scan(&f.ID)
	if err != nil {
		return 0, pgErr(err, "postgres: insert firm")
	}
	return f.ID, nil
}

func (s *PostgresStore) UpdateFirm(ctx context.Context, f *model.ArchitecturalFirm) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE architectural_firms SET company_id = $1, firm_name = $2, city = $3, region = $4,
			specialization = $5, notable_projects = $6, key_personnel = $7, awards = $8,
			coa_registration_id = $9, source_url = $10
		 WHERE id = $11`,
		f.CompanyID, f.FirmName, f.City, f.Region, f.Specialization, f.NotableProjects,
		f.KeyPersonnel, f.Awards, f.COARegistrationID, f.SourceURL, f.ID,
	)
	if err != nil {
		return pgErr(err, "postgres: update firm")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "firm %d", f.ID)
	}
	return nil
}

func (s *PostgresStore) GetFirmByName(ctx context.Context, firmName string) (*model.ArchitecturalFirm, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+firmCols+` FROM architectural_firms WHERE lower(firm_name) = lower($1)`, firmName)
	f, err := scanPgFirm(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

func (s *PostgresStore) ListFirms(ctx context.Context, filter FirmFilter) ([]model.ArchitecturalFirm, error) {
	query := `SELECT ` + firmCols + ` FROM architectural_firms WHERE true`
	args := []any{}
	argIdx := 1

	if filter.City != "" {
		query += fmt.Sprintf(` AND lower(city) = lower($%d)`, argIdx)
		args = append(args, filter.City)
		argIdx++
	}
	if filter.Specialization != "" {
		query += fmt.Sprintf(` AND specialization ILIKE $%d`, argIdx)
		args = append(args, "%"+filter.Specialization+"%")
		argIdx++
	}
	query += ` ORDER BY firm_name`
	query, args = appendPgLimitOffset(query, args, argIdx, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list firms")
	}
	defer rows.Close()

	var firms []model.ArchitecturalFirm
	for rows.Next() {
		f, err := scanPgFirm(rows)
		if err != nil {
			return nil, err
		}
		firms = append(firms, *f)
	}
	return firms, eris.Wrap(rows.Err(), "postgres: list firms iterate")
}

// Analysis results

func (s *PostgresStore) InsertAnalysis(ctx context.Context, r *model.AnalysisResult) (int64, error) {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO analysis_results (analysis_type, target_entity_id, target_entity_name,
			result_json, generated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		string(r.AnalysisType), r.TargetID, r.TargetName, r.ResultJSON, r.GeneratedAt,
	).Scan(&r.ID)
	if err != nil {
		return 0, pgErr(err, "postgres: insert analysis")
	}
	return r.ID, nil
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.AnalysisResult, error) {
	query := `SELECT id, analysis_type, target_entity_id, target_entity_name, result_json, generated_at
		FROM analysis_results WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Type != "" {
		query += fmt.Sprintf(` AND analysis_type = $%d`, argIdx)
		args = append(args, string(filter.Type))
		argIdx++
	}
	if filter.TargetID != nil {
		query += fmt.Sprintf(` AND target_entity_id = $%d`, argIdx)
		args = append(args, *filter.TargetID)
		argIdx++
	}
	query += ` ORDER BY generated_at DESC`
	query, args = appendPgLimitOffset(query, args, argIdx, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list analyses")
	}
	defer rows.Close()

	var results []model.AnalysisResult
	for rows.Next() {
		var r model.AnalysisResult
		if err := rows.Scan(&r.ID, &r.AnalysisType, &r.TargetID, &r.TargetName,
			&r.ResultJSON, &r.GeneratedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan analysis")
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "postgres: list analyses iterate")
}

// helpers

// pgErr maps unique-violation errors (SQLSTATE 23505) to ErrConflict and
// wraps everything else.
func pgErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pge *pgconn.PgError
	if errors.As(err, &pge) && pge.Code == "23505" {
		return eris.Wrapf(ErrConflict, "%s: %v", msg, err)
	}
	return eris.Wrap(err, msg)
}

func appendPgLimitOffset(query string, args []any, argIdx, limit, offset int) (string, []any) {
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++
	if offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, offset)
	}
	return query, args
}

func scanPgCompany(row pgx.Row) (*model.Company, error) {
	var c model.Company
	err := row.Scan(&c.ID, &c.Name, &c.TickerSymbol, &c.Region, &c.Industry, &c.Sector,
		&c.Website, &c.Address, &c.Phone, &c.EmployeeCount, &c.BusinessSummary,
		&c.MarketCap, &c.Revenue, &c.GrowthRate, &c.ProfitMargin, &c.Innovativeness,
		&c.Hiring, &c.Sustainability, &c.InsiderSentiment, &c.LastUpdated, &c.DataSource)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan company")
	}
	return &c, nil
}

func scanPgArticle(row pgx.Row) (*model.NewsArticle, error) {
	var a model.NewsArticle
	err := row.Scan(&a.ID, &a.CompanyID, &a.Industry, &a.Topic, &a.Title, &a.SourceName,
		&a.SourceURL, &a.PublishedDate, &a.Summary, &a.SentimentScore, &a.SentimentLabel,
		&a.CollectedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan article")
	}
	return &a, nil
}

func scanPgLead(row pgx.Row) (*model.Lead, error) {
	var l model.Lead
	err := row.Scan(&l.ID, &l.ICPID, &l.CompanyName, &l.ContactName, &l.JobTitle, &l.Industry,
		&l.CompanySize, &l.Region, &l.Website, &l.Email, &l.Phone, &l.LinkedInProfile,
		&l.Source, &l.QualificationReason, &l.Score, &l.EngagementLevel, &l.TechnologiesUsed,
		&l.Notes, &l.CollectedDate, &l.LastContacted, &l.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan lead")
	}
	return &l, nil
}

func scanPgProject(row pgx.Row) (*model.RealEstateProject, error) {
	var p model.RealEstateProject
	err := row.Scan(&p.ID, &p.ProjectName, &p.DeveloperID, &p.DeveloperName, &p.City, &p.Region,
		&p.ProjectType, &p.Status, &p.RERARegistrationID, &p.LaunchDate, &p.ExpectedCompletion,
		&p.TotalAreaSqft, &p.PricePerSqftRange, &p.KeyFeatures, &p.SourceURL, &p.CollectedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan project")
	}
	return &p, nil
}

func scanPgFirm(row pgx.Row) (*model.ArchitecturalFirm, error) {
	var f model.ArchitecturalFirm
	err := row.Scan(&f.ID, &f.CompanyID, &f.FirmName, &f.City, &f.Region, &f.Specialization,
		&f.NotableProjects, &f.KeyPersonnel, &f.Awards, &f.COARegistrationID, &f.SourceURL,
		&f.CollectedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan firm")
	}
	return &f, nil
}
