package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/market-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrapf(ErrUnavailable, "sqlite: ping: %v", err)
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT NOT NULL COLLATE NOCASE,
	ticker_symbol     TEXT UNIQUE,
	region            TEXT,
	industry          TEXT,
	sector            TEXT,
	website           TEXT,
	address           TEXT,
	phone             TEXT,
	employee_count    INTEGER,
	business_summary  TEXT,
	market_cap        REAL,
	revenue           REAL,
	growth_rate       REAL,
	profit_margin     REAL,
	innovativeness    REAL,
	hiring            REAL,
	sustainability    REAL,
	insider_sentiment REAL,
	last_updated      DATETIME NOT NULL,
	data_source       TEXT NOT NULL DEFAULT 'manual'
);

CREATE TABLE IF NOT EXISTS company_officers (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id        INTEGER NOT NULL REFERENCES companies(id),
	name              TEXT NOT NULL,
	title             TEXT,
	age               INTEGER,
	year_born         INTEGER,
	fiscal_year       INTEGER,
	total_pay         REAL,
	exercised_value   REAL,
	unexercised_value REAL
);

CREATE TABLE IF NOT EXISTS news_articles (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id      INTEGER REFERENCES companies(id),
	industry        TEXT,
	topic           TEXT,
	title           TEXT NOT NULL,
	source_name     TEXT,
	source_url      TEXT NOT NULL UNIQUE,
	published_date  DATETIME,
	summary         TEXT,
	sentiment_score REAL,
	sentiment_label TEXT,
	collected_date  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS market_trends (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	industry          TEXT,
	region            TEXT,
	trend_description TEXT NOT NULL,
	trend_type        TEXT,
	source            TEXT,
	source_url        TEXT,
	published_date    DATETIME,
	collected_date    DATETIME NOT NULL,
	sentiment_score   REAL,
	relevance_score   REAL
);

CREATE TABLE IF NOT EXISTS icps (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_name  TEXT NOT NULL UNIQUE,
	criteria_json TEXT NOT NULL,
	created_at    DATETIME NOT NULL,
	last_used     DATETIME
);

CREATE TABLE IF NOT EXISTS leads (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	icp_id               INTEGER REFERENCES icps(id),
	company_name         TEXT NOT NULL COLLATE NOCASE UNIQUE,
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
	score                REAL,
	engagement_level     REAL,
	technologies_used    TEXT,
	notes                TEXT,
	collected_date       DATETIME NOT NULL,
	last_contacted       DATETIME,
	status               TEXT NOT NULL DEFAULT 'New'
);

CREATE TABLE IF NOT EXISTS real_estate_projects (
	id                       INTEGER PRIMARY KEY AUTOINCREMENT,
	project_name             TEXT NOT NULL,
	developer_id             INTEGER REFERENCES companies(id),
	developer_name           TEXT,
	city                     TEXT,
	region                   TEXT,
	project_type             TEXT,
	status                   TEXT,
	rera_registration_id     TEXT UNIQUE,
	launch_date              DATETIME,
	expected_completion_date DATETIME,
	total_area_sqft          REAL,
	price_per_sqft_range     TEXT,
	key_features             TEXT,
	source_url               TEXT,
	collected_date           DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS architectural_firms (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id          INTEGER UNIQUE REFERENCES companies(id),
	firm_name           TEXT NOT NULL COLLATE NOCASE UNIQUE,
	city                TEXT,
	region              TEXT,
	specialization      TEXT,
	notable_projects    TEXT,
	key_personnel       TEXT,
	awards              TEXT,
	coa_registration_id TEXT,
	source_url          TEXT,
	collected_date      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_results (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	analysis_type      TEXT NOT NULL,
	target_entity_id   INTEGER,
	target_entity_name TEXT,
	result_json        TEXT NOT NULL,
	generated_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_name ON companies(name);
CREATE INDEX IF NOT EXISTS idx_companies_industry ON companies(industry);
CREATE INDEX IF NOT EXISTS idx_officers_company_id ON company_officers(company_id);
CREATE INDEX IF NOT EXISTS idx_articles_company_id ON news_articles(company_id);
CREATE INDEX IF NOT EXISTS idx_articles_industry ON news_articles(industry);
CREATE INDEX IF NOT EXISTS idx_trends_industry ON market_trends(industry);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_projects_city ON real_estate_projects(city);
CREATE INDEX IF NOT EXISTS idx_analyses_type ON analysis_results(analysis_type);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Companies

const companyCols = `id, name, ticker_symbol, region, industry, sector, website, address, phone,
	employee_count, business_summary, market_cap, revenue, growth_rate, profit_margin,
	innovativeness, hiring, sustainability, insider_sentiment, last_updated, data_source`

func (s *SQLiteStore) InsertCompany(ctx context.Context, c *model.Company) (int64, error) {
	if c.LastUpdated.IsZero() {
		c.LastUpdated = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO companies (name, ticker_symbol, region, industry, sector, website, address, phone,
			employee_count, business_summary, market_cap, revenue, growth_rate, profit_margin,
			innovativeness, hiring, sustainability, insider_sentiment, last_updated, data_source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.TickerSymbol, c.Region, c.Industry, c.Sector, c.Website, c.Address, c.Phone,
		c.EmployeeCount, c.BusinessSummary, c.MarketCap, c.Revenue, c.GrowthRate, c.ProfitMargin,
		c.Innovativeness, c.Hiring, c.Sustainability, c.InsiderSentiment, c.LastUpdated, string(c.DataSource),
	)
	if err != nil {
		return 0, sqliteErr(err, "sqlite: insert company")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert company id")
	}
	c.ID = id
	return id, nil
}

func (s *SQLiteStore) UpdateCompany(ctx context.Context, c *model.Company) error {
	c.LastUpdated = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE companies SET name = ?, ticker_symbol = ?, region = ?, industry = ?, sector = ?,
			website = ?, address = ?, phone = ?, employee_count = ?, business_summary = ?,
			market_cap = ?, revenue = ?, growth_rate = ?, profit_margin = ?, innovativeness = ?,
			hiring = ?, sustainability = ?, insider_sentiment = ?, last_updated = ?, data_source = ?
		 WHERE id = ?`,
		c.Name, c.TickerSymbol, c.Region, c.Industry, c.Sector, c.Website, c.Address, c.Phone,
		c.EmployeeCount, c.BusinessSummary, c.MarketCap, c.Revenue, c.GrowthRate, c.ProfitMargin,
		c.Innovativeness, c.Hiring, c.Sustainability, c.InsiderSentiment, c.LastUpdated, string(c.DataSource),
		c.ID,
	)
	if err != nil {
		return sqliteErr(err, "sqlite: update company")
	}
	return checkRowsAffected(res, "company", c.ID)
}

func (s *SQLiteStore) GetCompany(ctx context.Context, id int64) (*model.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+companyCols+` FROM companies WHERE id = ?`, id)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "company %d", id)
	}
	return c, err
}

func (s *SQLiteStore) GetCompanyByTicker(ctx context.Context, ticker string) (*model.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+companyCols+` FROM companies WHERE ticker_symbol = ?`, ticker)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (s *SQLiteStore) GetCompanyByName(ctx context.Context, name string) (*model.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+companyCols+` FROM companies WHERE name = ? COLLATE NOCASE`, name)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (s *SQLiteStore) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, error) {
	query := `SELECT ` + companyCols + ` FROM companies WHERE 1=1`
	var args []any

	if filter.Industry != "" {
		query += ` AND industry = ? COLLATE NOCASE`
		args = append(args, filter.Industry)
	}
	if filter.Region != "" {
		query += ` AND region = ? COLLATE NOCASE`
		args = append(args, filter.Region)
	}
	query += ` ORDER BY name`
	query, args = appendLimitOffset(query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, eris.Wrap(rows.Err(), "sqlite: list companies iterate")
}

func (s *SQLiteStore) ReplaceOfficers(ctx context.Context, companyID int64, officers []model.CompanyOfficer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin officers tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM company_officers WHERE company_id = ?`, companyID); err != nil {
		return eris.Wrap(err, "sqlite: delete officers")
	}
	for _, o := range officers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO company_officers (company_id, name, title, age, year_born, fiscal_year,
				total_pay, exercised_value, unexercised_value)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			companyID, o.Name, o.Title, o.Age, o.YearBorn, o.FiscalYear,
			o.TotalPay, o.ExercisedValue, o.UnexercisedValue,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert officer %s", o.Name)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit officers")
}

func (s *SQLiteStore) ListOfficers(ctx context.Context, companyID int64) ([]model.CompanyOfficer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, name, title, age, year_born, fiscal_year,
			total_pay, exercised_value, unexercised_value
		 FROM company_officers WHERE company_id = ? ORDER BY name`, companyID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list officers")
	}
	defer rows.Close()

	var officers []model.CompanyOfficer
	for rows.Next() {
		var o model.CompanyOfficer
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Name, &o.Title, &o.Age, &o.YearBorn,
			&o.FiscalYear, &o.TotalPay, &o.ExercisedValue, &o.UnexercisedValue); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan officer")
		}
		officers = append(officers, o)
	}
	return officers, eris.Wrap(rows.Err(), "sqlite: list officers iterate")
}

// News articles

const articleCols = `id, company_id, industry, topic, title, source_name, source_url,
	published_date, summary, sentiment_score, sentiment_label, collected_date`

func (s *SQLiteStore) InsertArticle(ctx context.Context, a *model.NewsArticle) (int64, error) {
	if a.CollectedDate.IsZero() {
		a.CollectedDate = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO news_articles (company_id, industry, topic, title, source_name, source_url,
			published_date, summary, sentiment_score, sentiment_label, collected_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.CompanyID, a.Industry, a.Topic, a.Title, a.SourceName, a.SourceURL,
		a.PublishedDate, a.Summary, a.SentimentScore, a.SentimentLabel, a.CollectedDate,
	)
	if err != nil {
		return 0, sqliteErr(err, "sqlite: insert article")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert article id")
	}
	a.ID = id
	return id, nil
}

func (s *SQLiteStore) UpdateArticle(ctx context.Context, a *model.NewsArticle) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE news_articles SET company_id = ?, industry = ?, topic = ?, title = ?,
			source_name = ?, source_url = ?, published_date = ?, summary = ?,
			sentiment_score = ?, sentiment_label = ?
		 WHERE id = ?`,
		a.CompanyID, a.Industry, a.Topic, a.Title, a.SourceName, a.SourceURL,
		a.PublishedDate, a.Summary, a.SentimentScore, a.SentimentLabel, a.ID,
	)
	if err != nil {
		return sqliteErr(err, "sqlite: update article")
	}
	return checkRowsAffected(res, "article", a.ID)
}

func (s *SQLiteStore) GetArticleByURL(ctx context.Context, sourceURL string) (*model.NewsArticle, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleCols+` FROM news_articles WHERE source_url = ?`, sourceURL)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (s *SQLiteStore) ListArticles(ctx context.Context, filter ArticleFilter) ([]model.NewsArticle, error) {
	query := `SELECT ` + articleCols + ` FROM news_articles WHERE 1=1`
	var args []any

	if filter.CompanyID != nil {
		query += ` AND company_id = ?`
		args = append(args, *filter.CompanyID)
	}
	if filter.Industry != "" {
		query += ` AND industry = ? COLLATE NOCASE`
		args = append(args, filter.Industry)
	}
	if filter.Topic != "" {
		query += ` AND topic = ? COLLATE NOCASE`
		args = append(args, filter.Topic)
	}
	query += ` ORDER BY published_date DESC`
	query, args = appendLimitOffset(query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list articles")
	}
	defer rows.Close()

	var articles []model.NewsArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, eris.Wrap(rows.Err(), "sqlite: list articles iterate")
}

// Market trends

func (s *SQLiteStore) InsertTrend(ctx context.Context, t *model.MarketTrend) (int64, error) {
	if t.CollectedDate.IsZero() {
		t.CollectedDate = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO market_trends (industry, region, trend_description, trend_type, source,
			source_url, published_date, collected_date, sentiment_score, relevance_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Industry, t.Region, t.Description, t.TrendType, t.Source,
		t.SourceURL, t.PublishedDate, t.CollectedDate, t.SentimentScore, t.RelevanceScore,
	)
	if err != nil {
		return 0, sqliteErr(err, "sqlite: insert trend")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert trend id")
	}
	t.ID = id
	return id, nil
}

func (s *SQLiteStore) ListTrends(ctx context.Context, filter TrendFilter) ([]model.MarketTrend, error) {
	query := `SELECT id, industry, region, trend_description, trend_type, source, source_url,
		published_date, collected_date, sentiment_score, relevance_score
		FROM market_trends WHERE 1=1`
	var args []any

	if filter.Industry != "" {
		query += ` AND industry = ? COLLATE NOCASE`
		args = append(args, filter.Industry)
	}
	if filter.Region != "" {
		query += ` AND region = ? COLLATE NOCASE`
		args = append(args, filter.Region)
	}
	query += ` ORDER BY collected_date DESC`
	query, args = appendLimitOffset(query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list trends")
	}
	defer rows.Close()

	var trends []model.MarketTrend
	for rows.Next() {
		var t model.MarketTrend
		if err := rows.Scan(&t.ID, &t.Industry, &t.Region, &t.Description, &t.TrendType,
			&t.Source, &t.SourceURL, &t.PublishedDate, &t.CollectedDate,
			&t.SentimentScore, &t.RelevanceScore); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan trend")
		}
		trends = append(trends, t)
	}
	return trends, eris.Wrap(rows.Err(), "sqlite: list trends iterate")
}

// ICPs

func (s *SQLiteStore) InsertICP(ctx context.Context, p *model.ICP) (int64, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO icps (profile_name, criteria_json, created_at, last_used) VALUES (?, ?, ?, ?)`,
		p.ProfileName, p.CriteriaJSON, p.CreatedAt, p.LastUsed,
	)
	if err != nil {
		return 0, sqliteErr(err, "sqlite: insert icp")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert icp id")
	}
	p.ID = id
	return id, nil
}

func (s *SQLiteStore) UpdateICP(ctx context.Context, p *model.ICP) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE icps SET profile_name = ?, criteria_json = ?, last_used = ? WHERE id = ?`,
		p.ProfileName, p.CriteriaJSON, p.LastUsed, p.ID,
	)
	if err != nil {
		return sqliteErr(err, "sqlite: update icp")
	}
	return checkRowsAffected(res, "icp", p.ID)
}

func (s *SQLiteStore) GetICP(ctx context.Context, id int64) (*model.ICP, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile_name, criteria_json, created_at, last_used FROM icps WHERE id = ?`, id)
	p, err := scanICP(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "icp %d", id)
	}
	return p, err
}

func (s *SQLiteStore) GetICPByName(ctx context.Context, profileName string) (*model.ICP, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile_name, criteria_json, created_at, last_used FROM icps WHERE profile_name = ?`,
		profileName)
	p, err := scanICP(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *SQLiteStore) ListICPs(ctx context.Context) ([]model.ICP, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile_name, criteria_json, created_at, last_used FROM icps ORDER BY profile_name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list icps")
	}
	defer rows.Close()

	var icps []model.ICP
	for rows.Next() {
		p, err := scanICP(rows)
		if err != nil {
			return nil, err
		}
		icps = append(icps, *p)
	}
	return icps, eris.Wrap(rows.Err(), "sqlite: list icps iterate")
}

func (s *SQLiteStore) TouchICP(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE icps SET last_used = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: touch icp %d", id)
	}
	return checkRowsAffected(res, "icp", id)
}

// Leads

const leadCols = `id, icp_id, company_name, contact_name, job_title, industry, company_size,
	region, website, email, phone, linkedin_profile, source, qualification_reason, score,
	engagement_level, technologies_used, notes, collected_date, last_contacted, status`

func (s *SQLiteStore) InsertLead(ctx context.Context, l *model.Lead) (int64, error) {
	if l.CollectedDate.IsZero() {
		l.CollectedDate = time.Now().UTC()
	}
	if l.Status == "" {
		l.Status = model.LeadNew
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (icp_id, company_name, contact_name, job_title, industry, company_size,
			region, website, email, phone, linkedin_profile, source, qualification_reason, score,
			engagement_level, technologies_used, notes, collected_date, last_contacted, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ICPID, l.CompanyName, l.ContactName, l.JobTitle, l.Industry, l.CompanySize,
		l.Region, l.Website, l.Email, l.Phone, l.LinkedInProfile, l.Source, l.QualificationReason,
		l.Score, l.EngagementLevel, l.TechnologiesUsed, l.Notes, l.CollectedDate, l.LastContacted,
		string(l.Status),
	)
	if err != nil {
		return 0, sqliteErr(err, "sqlite: insert lead")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert lead id")
	}
	l.ID = id
	return id, nil
}

func (s *SQLiteStore) UpdateLead(ctx context.Context, l *model.Lead) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET icp_id = ?, company_name = ?, contact_name = ?, job_title = ?,
			industry = ?, company_size = ?, region = ?, website = ?, email = ?, phone = ?,
			linkedin_profile = ?, source = ?, qualification_reason = ?, score = ?,
			engagement_level = ?, technologies_used = ?, notes = ?, last_contacted = ?, status = ?
		 WHERE id = ?`,
		l.ICPID, l.CompanyName, l.ContactName, l.JobTitle, l.Industry, l.CompanySize,
		l.Region, l.Website, l.Email, l.Phone, l.LinkedInProfile, l.Source, l.QualificationReason,
		l.Score, l.EngagementLevel, l.TechnologiesUsed, l.Notes, l.LastContacted, string(l.Status),
		l.ID,
	)
	if err != nil {
		return sqliteErr(err, "sqlite: update lead")
	}
	return checkRowsAffected(res, "lead", l.ID)
}

func (s *SQLiteStore) GetLead(ctx context.Context, id int64) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadCols+` FROM leads WHERE id = ?`, id)
	l, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "lead %d", id)
	}
	return l, err
}

func (s *SQLiteStore) GetLeadByCompanyName(ctx context.Context, companyName string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadCols+` FROM leads WHERE company_name = ? COLLATE NOCASE`, companyName)
	l, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return l, err
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadCols + ` FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.ICPID != nil {
		query += ` AND icp_id = ?`
		args = append(args, *filter.ICPID)
	}
	if filter.MinScore != nil {
		query += ` AND score >= ?`
		args = append(args, *filter.MinScore)
	}
	query += ` ORDER BY score DESC`
	query, args = appendLimitOffset(query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) UpdateLeadStatus(ctx context.Context, id int64, status model.LeadStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead status %d", id)
	}
	return checkRowsAffected(res, "lead", id)
}

// Real-estate projects

const projectCols = `id, project_name, developer_id, developer_name, city, region, project_type,
	status, rera_registration_id, launch_date, expected_completion_date, total_area_sqft,
	price_per_sqft_range, key_features, source_url, collected_date`

func (s *SQLiteStore) InsertProject(ctx context.Context, p *model.RealEstateProject) (int64, error) {
	if p.CollectedDate.IsZero() {
		p.CollectedDate = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO real_estate_projects (project_name, developer_id, developer_name, city, region,
			project_type, status, rera_registration_id, launch_date, expected_completion_date,
			total_area_sqft, price_per_sqft_range, key_features, source_url, collected_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProjectName, p.DeveloperID, p.DeveloperName, p.City, p.Region,
		p.ProjectType, p.Status, p.RERARegistrationID, p.LaunchDate, p.ExpectedCompletion,
		p.TotalAreaSqft, p.PricePerSqftRange, p.KeyFeatures, p.SourceURL, p.CollectedDate,
	)
	if err != nil {
		return 0, sqliteErr(err, "sqlite: insert project")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert project id")
	}
	p.ID = id
	return id, nil
}

func (s *SQLiteStore) UpdateProject(ctx context.Context, p *model.RealEstateProject) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE real_estate_projects SET project_name = ?, developer_id = ?, developer_name = ?,
			city = ?, region = ?, project_type = ?, status = ?, rera_registration_id = ?,
			launch_date = ?, expected_completion_date = ?, total_area_sqft = ?,
			price_per_sqft_range = ?, key_features = ?, source_url = ?
		 WHERE id = ?`,
		p.ProjectName, p.DeveloperID, p.DeveloperName, p.City, p.Region, p.ProjectType, p.Status,
		p.RERARegistrationID, p.LaunchDate, p.ExpectedCompletion, p.TotalAreaSqft,
		p.PricePerSqftRange, p.KeyFeatures, p.SourceURL, p.ID,
	)
	if err != nil {
		return sqliteErr(err, "sqlite: update project")
	}
	return checkRowsAffected(res, "project", p.ID)
}

func (s *SQLiteStore) GetProjectByRERA(ctx context.Context, reraID string) (*model.RealEstateProject, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectCols+` FROM real_estate_projects WHERE rera_registration_id = ?`, reraID)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *SQLiteStore) ListProjects(ctx context.Context, filter ProjectFilter) ([]model.RealEstateProject, error) {
	query := `SELECT ` + projectCols + ` FROM real_estate_projects WHERE 1=1`
	var args []any

	if filter.City != "" {
		query += ` AND city = ? COLLATE NOCASE`
		args = append(args, filter.City)
	}
	if filter.Region != "" {
		query += ` AND region = ? COLLATE NOCASE`
		args = append(args, filter.Region)
	}
	if filter.Status != "" {
		query += ` AND status = ? COLLATE NOCASE`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY collected_date DESC`
	query, args = appendLimitOffset(query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list projects")
	}
	defer rows.Close()

	var projects []model.RealEstateProject
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, eris.Wrap(rows.Err(), "sqlite: list projects iterate")
}

// Architectural firms

const firmCols = `id, company_id, firm_name, city, region, specialization, notable_projects,
	key_personnel, awards, coa_registration_id, source_url, collected_date`

func (s *SQLiteStore) InsertFirm(ctx context.Context, f *model.ArchitecturalFirm) (int64, error) {
	if f.CollectedDate.IsZero() {
		f.CollectedDate = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO architectural_firms (company_id, firm_name, city, region, specialization,
			notable_projects, key_personnel, awards, coa_registration_id, source_url, collected_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.CompanyID, f.FirmName, f.City, f.Region, f.Specialization,
		f.NotableProjects, f.KeyPersonnel, f.Awards, f.COARegistrationID, f.SourceURL, f.CollectedDate,
	)
	if err != nil {
		return 0, sqliteErr(err, "sqlite: insert firm")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert firm id")
	}
	f.ID = id
	return id, nil
}

func (s *SQLiteStore) UpdateFirm(ctx context.Context, f *model.ArchitecturalFirm) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE architectural_firms SET company_id = ?, firm_name = ?, city = ?, region = ?,
			specialization = ?, notable_projects = ?, key_personnel = ?, awards = ?,
			coa_registration_id = ?, source_url = ?
		 WHERE id = ?`,
		f.CompanyID, f.FirmName, f.City, f.Region, f.Specialization, f.NotableProjects,
		f.KeyPersonnel, f.Awards, f.COARegistrationID, f.SourceURL, f.ID,
	)
	if err != nil {
		return sqliteErr(err, "sqlite: update firm")
	}
	return checkRowsAffected(res, "firm", f.ID)
}

func (s *SQLiteStore) GetFirmByName(ctx context.Context, firmName string) (*model.ArchitecturalFirm, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+firmCols+` FROM architectural_firms WHERE firm_name = ? COLLATE NOCASE`, firmName)
	f, err := scanFirm(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return f, err
}

func (s *SQLiteStore) ListFirms(ctx context.Context, filter FirmFilter) ([]model.ArchitecturalFirm, error) {
	query := `SELECT ` + firmCols + ` FROM architectural_firms WHERE 1=1`
	var args []any

	if filter.City != "" {
		query += ` AND city = ? COLLATE NOCASE`
		args = append(args, filter.City)
	}
	if filter.Specialization != "" {
		query += ` AND specialization LIKE ?`
		args = append(args, "%"+filter.Specialization+"%")
	}
	query += ` ORDER BY firm_name`
	query, args = appendLimitOffset(query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list firms")
	}
	defer rows.Close()

	var firms []model.ArchitecturalFirm
	for rows.Next() {
		f, err := scanFirm(rows)
		if err != nil {
			return nil, err
		}
		firms = append(firms, *f)
	}
	return firms, eris.Wrap(rows.Err(), "sqlite: list firms iterate")
}

// Analysis results

func (s *SQLiteStore) InsertAnalysis(ctx context.Context, r *model.AnalysisResult) (int64, error) {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_results (analysis_type, target_entity_id, target_entity_name,
			result_json, generated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(r.AnalysisType), r.TargetID, r.TargetName, r.ResultJSON, r.GeneratedAt,
	)
	if err != nil {
		return 0, sqliteErr(err, "sqlite: insert analysis")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert analysis id")
	}
	r.ID = id
	return id, nil
}

func (s *SQLiteStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.AnalysisResult, error) {
	query := `SELECT id, analysis_type, target_entity_id, target_entity_name, result_json, generated_at
		FROM analysis_results WHERE 1=1`
	var args []any

	if filter.Type != "" {
		query += ` AND analysis_type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.TargetID != nil {
		query += ` AND target_entity_id = ?`
		args = append(args, *filter.TargetID)
	}
	query += ` ORDER BY generated_at DESC`
	query, args = appendLimitOffset(query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close()

	var results []model.AnalysisResult
	for rows.Next() {
		var r model.AnalysisResult
		if err := rows.Scan(&r.ID, &r.AnalysisType, &r.TargetID, &r.TargetName,
			&r.ResultJSON, &r.GeneratedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan analysis")
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: list analyses iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %d", entity, id)
	}
	return nil
}

// sqliteErr maps unique-constraint violations to ErrConflict and wraps
// everything else.
func sqliteErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return eris.Wrapf(ErrConflict, "%s: %v", msg, err)
	}
	return eris.Wrap(err, msg)
}

func appendLimitOffset(query string, args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)
	if offset > 0 {
		query += ` OFFSET ?`
		args = append(args, offset)
	}
	return query, args
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCompany(row scannable) (*model.Company, error) {
	var c model.Company
	err := row.Scan(&c.ID, &c.Name, &c.TickerSymbol, &c.Region, &c.Industry, &c.Sector,
		&c.Website, &c.Address, &c.Phone, &c.EmployeeCount, &c.BusinessSummary,
		&c.MarketCap, &c.Revenue, &c.GrowthRate, &c.ProfitMargin, &c.Innovativeness,
		&c.Hiring, &c.Sustainability, &c.InsiderSentiment, &c.LastUpdated, &c.DataSource)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan company")
	}
	return &c, nil
}

func scanArticle(row scannable) (*model.NewsArticle, error) {
	var a model.NewsArticle
	err := row.Scan(&a.ID, &a.CompanyID, &a.Industry, &a.Topic, &a.Title, &a.SourceName,
		&a.SourceURL, &a.PublishedDate, &a.Summary, &a.SentimentScore, &a.SentimentLabel,
		&a.CollectedDate)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan article")
	}
	return &a, nil
}

func scanICP(row scannable) (*model.ICP, error) {
	var p model.ICP
	err := row.Scan(&p.ID, &p.ProfileName, &p.CriteriaJSON, &p.CreatedAt, &p.LastUsed)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan icp")
	}
	return &p, nil
}

func scanLead(row scannable) (*model.Lead, error) {
	var l model.Lead
	err := row.Scan(&l.ID, &l.ICPID, &l.CompanyName, &l.ContactName, &l.JobTitle, &l.Industry,
		&l.CompanySize, &l.Region, &l.Website, &l.Email, &l.Phone, &l.LinkedInProfile,
		&l.Source, &l.QualificationReason, &l.Score, &l.EngagementLevel, &l.TechnologiesUsed,
		&l.Notes, &l.CollectedDate, &l.LastContacted, &l.Status)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan lead")
	}
	return &l, nil
}

func scanProject(row scannable) (*model.RealEstateProject, error) {
	var p model.RealEstateProject
	err := row.Scan(&p.ID, &p.ProjectName, &p.DeveloperID, &p.DeveloperName, &p.City, &p.Region,
		&p.ProjectType, &p.Status, &p.RERARegistrationID, &p.LaunchDate, &p.ExpectedCompletion,
		&p.TotalAreaSqft, &p.PricePerSqftRange, &p.KeyFeatures, &p.SourceURL, &p.CollectedDate)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan project")
	}
	return &p, nil
}

func scanFirm(row scannable) (*model.ArchitecturalFirm, error) {
	var f model.ArchitecturalFirm
	err := row.Scan(&f.ID, &f.CompanyID, &f.FirmName, &f.City, &f.Region, &f.Specialization,
		&f.NotableProjects, &f.KeyPersonnel, &f.Awards, &f.COARegistrationID, &f.SourceURL,
		&f.CollectedDate)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan firm")
	}
	return &f, nil
}
