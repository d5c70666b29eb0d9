// Package resolve implements identity resolution and idempotent upserts.
// Incoming normalized entities are matched against stored rows by natural
// key, merged without regressing known data, and inserted otherwise. The
// resolver serializes its lookup-then-write sequences so two concurrent
// ingestions of the same natural key cannot both insert.
package resolve

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/store"
)

// ErrIdentityConflict is returned when a natural-key collision cannot be
// safely merged. The write is rejected rather than merged into the wrong row.
var ErrIdentityConflict = eris.New("resolve: identity conflict")

// placeholderRegion is assigned to companies created as link targets when a
// referenced developer or firm has no existing Company row.
const placeholderRegion = "IN"

// Resolver owns all upsert entry points. The mutex makes each
// lookup-merge-write sequence atomic with respect to other resolver calls.
type Resolver struct {
	store store.Store
	mu    sync.Mutex
}

// New creates a Resolver backed by the given store.
func New(st store.Store) *Resolver {
	return &Resolver{store: st}
}

// UpsertCompany resolves the incoming company against stored rows, preferring
// ticker over name, and merges or inserts. Returns the canonical id and
// whether a new row was created.
func (r *Resolver) UpsertCompany(ctx context.Context, c *model.Company) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upsertCompanyLocked(ctx, c)
}

func (r *Resolver) upsertCompanyLocked(ctx context.Context, c *model.Company) (int64, bool, error) {
	existing, err := r.findCompany(ctx, c)
	if err != nil {
		return 0, false, err
	}

	var id int64
	created := false
	if existing != nil {
		mergeCompany(existing, c)
		if err := r.store.UpdateCompany(ctx, existing); err != nil {
			return 0, false, mapConflict(err, "company", existing.Name)
		}
		id = existing.ID
		zap.L().Debug("resolve: merged company",
			zap.Int64("company_id", id),
			zap.String("name", existing.Name),
		)
	} else {
		id, err = r.store.InsertCompany(ctx, c)
		if err != nil {
			return 0, false, mapConflict(err, "company", c.Name)
		}
		created = true
		zap.L().Info("resolve: created company",
			zap.Int64("company_id", id),
			zap.String("name", c.Name),
		)
	}

	// Officer lists are replace-on-refresh: a record carrying officers is the
	// new authoritative list for that company.
	if len(c.Officers) > 0 {
		if err := r.store.ReplaceOfficers(ctx, id, c.Officers); err != nil {
			return 0, false, eris.Wrap(err, "resolve: replace officers")
		}
	}
	return id, created, nil
}

// findCompany runs the natural-key cascade: ticker first, then exact
// case-insensitive name.
func (r *Resolver) findCompany(ctx context.Context, c *model.Company) (*model.Company, error) {
	if c.TickerSymbol != nil {
		existing, err := r.store.GetCompanyByTicker(ctx, *c.TickerSymbol)
		if err != nil {
			return nil, eris.Wrap(err, "resolve: lookup company by ticker")
		}
		if existing != nil {
			return existing, nil
		}
	}
	if c.Name != "" {
		existing, err := r.store.GetCompanyByName(ctx, c.Name)
		if err != nil {
			return nil, eris.Wrap(err, "resolve: lookup company by name")
		}
		if existing != nil {
			return existing, nil
		}
	}
	return nil, nil
}

// UpsertArticle resolves by source URL. Re-ingesting the same URL updates the
// stored row in place, including recomputed sentiment, without creating a
// second row.
func (r *Resolver) UpsertArticle(ctx context.Context, a *model.NewsArticle) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.store.GetArticleByURL(ctx, a.SourceURL)
	if err != nil {
		return 0, false, eris.Wrap(err, "resolve: lookup article by url")
	}
	if existing != nil {
		mergeArticle(existing, a)
		if err := r.store.UpdateArticle(ctx, existing); err != nil {
			return 0, false, mapConflict(err, "article", a.SourceURL)
		}
		return existing.ID, false, nil
	}

	id, err := r.store.InsertArticle(ctx, a)
	if err != nil {
		return 0, false, mapConflict(err, "article", a.SourceURL)
	}
	return id, true, nil
}

// UpsertTrend always inserts: trends carry no natural key.
func (r *Resolver) UpsertTrend(ctx context.Context, t *model.MarketTrend) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.store.InsertTrend(ctx, t)
	if err != nil {
		return 0, false, eris.Wrap(err, "resolve: insert trend")
	}
	return id, true, nil
}

// UpsertLead resolves by company name. Merging never reverses the stored
// lifecycle status; scoring updates land via the lead package.
func (r *Resolver) UpsertLead(ctx context.Context, l *model.Lead) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.store.GetLeadByCompanyName(ctx, l.CompanyName)
	if err != nil {
		return 0, false, eris.Wrap(err, "resolve: lookup lead by company")
	}
	if existing != nil {
		mergeLead(existing, l)
		if err := r.store.UpdateLead(ctx, existing); err != nil {
			return 0, false, mapConflict(err, "lead", l.CompanyName)
		}
		return existing.ID, false, nil
	}

	id, err := r.store.InsertLead(ctx, l)
	if err != nil {
		return 0, false, mapConflict(err, "lead", l.CompanyName)
	}
	return id, true, nil
}

// UpsertProject resolves by RERA registration id when present. A developer
// name that does not resolve to an existing Company gets a minimal
// placeholder Company created inline, so the developer link is valid the
// moment the call returns.
func (r *Resolver) UpsertProject(ctx context.Context, p *model.RealEstateProject) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.DeveloperID == nil && p.DeveloperName != nil {
		devID, err := r.resolveLinkedCompany(ctx, *p.DeveloperName, "Real Estate")
		if err != nil {
			return 0, false, err
		}
		p.DeveloperID = &devID
	}

	if p.RERARegistrationID != nil {
		existing, err := r.store.GetProjectByRERA(ctx, *p.RERARegistrationID)
		if err != nil {
			return 0, false, eris.Wrap(err, "resolve: lookup project by rera id")
		}
		if existing != nil {
			mergeProject(existing, p)
			if err := r.store.UpdateProject(ctx, existing); err != nil {
				return 0, false, mapConflict(err, "project", p.ProjectName)
			}
			return existing.ID, false, nil
		}
	}

	id, err := r.store.InsertProject(ctx, p)
	if err != nil {
		return 0, false, mapConflict(err, "project", p.ProjectName)
	}
	return id, true, nil
}

// UpsertFirm resolves by firm name and keeps the one-to-one company link
// populated, creating a placeholder Company when none exists.
func (r *Resolver) UpsertFirm(ctx context.Context, f *model.ArchitecturalFirm) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.CompanyID == nil {
		companyID, err := r.resolveLinkedCompany(ctx, f.FirmName, "Architecture Services")
		if err != nil {
			return 0, false, err
		}
		f.CompanyID = &companyID
	}

	existing, err := r.store.GetFirmByName(ctx, f.FirmName)
	if err != nil {
		return 0, false, eris.Wrap(err, "resolve: lookup firm by name")
	}
	if existing != nil {
		mergeFirm(existing, f)
		if err := r.store.UpdateFirm(ctx, existing); err != nil {
			return 0, false, mapConflict(err, "firm", f.FirmName)
		}
		return existing.ID, false, nil
	}

	id, err := r.store.InsertFirm(ctx, f)
	if err != nil {
		return 0, false, mapConflict(err, "firm", f.FirmName)
	}
	return id, true, nil
}

// resolveLinkedCompany finds a company by name or creates a placeholder row
// for it. Caller must hold r.mu.
func (r *Resolver) resolveLinkedCompany(ctx context.Context, name, industry string) (int64, error) {
	existing, err := r.store.GetCompanyByName(ctx, name)
	if err != nil {
		return 0, eris.Wrap(err, "resolve: lookup linked company")
	}
	if existing != nil {
		return existing.ID, nil
	}

	region := placeholderRegion
	ind := industry
	placeholder := &model.Company{
		Name:       name,
		Region:     &region,
		Industry:   &ind,
		DataSource: model.SourceDerived,
	}
	id, err := r.store.InsertCompany(ctx, placeholder)
	if err != nil {
		return 0, mapConflict(err, "company", name)
	}
	zap.L().Info("resolve: created placeholder company",
		zap.Int64("company_id", id),
		zap.String("name", name),
	)
	return id, nil
}

// mapConflict converts store uniqueness violations into ErrIdentityConflict.
// A violation here means the key should have matched an existing row but did
// not, which is never safe to merge blindly.
func mapConflict(err error, entity, key string) error {
	if eris.Is(err, store.ErrConflict) {
		return eris.Wrapf(ErrIdentityConflict, "%s %q: %v", entity, key, err)
	}
	return eris.Wrapf(err, "resolve: upsert %s %q", entity, key)
}
