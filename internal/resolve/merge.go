package resolve

import (
	"time"

	"github.com/sells-group/market-intel/internal/model"
)

// Merge rules: a field from the incoming record overwrites the stored value
// only when the incoming value is present. Stored non-null fields are never
// regressed to null by a sparser source.

func takeStr(dst **string, src *string) {
	if src != nil && *src != "" {
		*dst = src
	}
}

func takeInt(dst **int, src *int) {
	if src != nil {
		*dst = src
	}
}

func takeInt64(dst **int64, src *int64) {
	if src != nil {
		*dst = src
	}
}

func takeFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = src
	}
}

func takeTime(dst **time.Time, src *time.Time) {
	if src != nil {
		*dst = src
	}
}

func mergeCompany(dst, src *model.Company) {
	// A real name beats a ticker used as a name fallback.
	if src.Name != "" && (src.TickerSymbol == nil || src.Name != *src.TickerSymbol) {
		dst.Name = src.Name
	}
	takeStr(&dst.TickerSymbol, src.TickerSymbol)
	takeStr(&dst.Region, src.Region)
	takeStr(&dst.Industry, src.Industry)
	takeStr(&dst.Sector, src.Sector)
	takeStr(&dst.Website, src.Website)
	takeStr(&dst.Address, src.Address)
	takeStr(&dst.Phone, src.Phone)
	takeInt(&dst.EmployeeCount, src.EmployeeCount)
	takeStr(&dst.BusinessSummary, src.BusinessSummary)
	takeFloat(&dst.MarketCap, src.MarketCap)
	takeFloat(&dst.Revenue, src.Revenue)
	takeFloat(&dst.GrowthRate, src.GrowthRate)
	takeFloat(&dst.ProfitMargin, src.ProfitMargin)
	takeFloat(&dst.Innovativeness, src.Innovativeness)
	takeFloat(&dst.Hiring, src.Hiring)
	takeFloat(&dst.Sustainability, src.Sustainability)
	takeFloat(&dst.InsiderSentiment, src.InsiderSentiment)
	if src.DataSource != "" && src.DataSource != model.SourceDerived {
		dst.DataSource = src.DataSource
	}
	dst.LastUpdated = time.Now().UTC()
}

func mergeArticle(dst, src *model.NewsArticle) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	takeInt64(&dst.CompanyID, src.CompanyID)
	takeStr(&dst.Industry, src.Industry)
	takeStr(&dst.Topic, src.Topic)
	takeStr(&dst.SourceName, src.SourceName)
	takeTime(&dst.PublishedDate, src.PublishedDate)
	takeStr(&dst.Summary, src.Summary)
	takeFloat(&dst.SentimentScore, src.SentimentScore)
	if src.SentimentLabel != nil {
		dst.SentimentLabel = src.SentimentLabel
	}
}

func mergeLead(dst, src *model.Lead) {
	takeInt64(&dst.ICPID, src.ICPID)
	takeStr(&dst.ContactName, src.ContactName)
	takeStr(&dst.JobTitle, src.JobTitle)
	takeStr(&dst.Industry, src.Industry)
	takeStr(&dst.CompanySize, src.CompanySize)
	takeStr(&dst.Region, src.Region)
	takeStr(&dst.Website, src.Website)
	takeStr(&dst.Email, src.Email)
	takeStr(&dst.Phone, src.Phone)
	takeStr(&dst.LinkedInProfile, src.LinkedInProfile)
	takeStr(&dst.Source, src.Source)
	takeStr(&dst.QualificationReason, src.QualificationReason)
	takeFloat(&dst.Score, src.Score)
	takeFloat(&dst.EngagementLevel, src.EngagementLevel)
	takeStr(&dst.TechnologiesUsed, src.TechnologiesUsed)
	takeStr(&dst.Notes, src.Notes)
	takeTime(&dst.LastContacted, src.LastContacted)
	// Status is lifecycle state, not source data. Re-ingesting a lead never
	// rewinds outreach progress.
}

func mergeProject(dst, src *model.RealEstateProject) {
	if src.ProjectName != "" {
		dst.ProjectName = src.ProjectName
	}
	takeInt64(&dst.DeveloperID, src.DeveloperID)
	takeStr(&dst.DeveloperName, src.DeveloperName)
	takeStr(&dst.City, src.City)
	takeStr(&dst.Region, src.Region)
	takeStr(&dst.ProjectType, src.ProjectType)
	takeStr(&dst.Status, src.Status)
	takeTime(&dst.LaunchDate, src.LaunchDate)
	takeTime(&dst.ExpectedCompletion, src.ExpectedCompletion)
	takeFloat(&dst.TotalAreaSqft, src.TotalAreaSqft)
	takeStr(&dst.PricePerSqftRange, src.PricePerSqftRange)
	takeStr(&dst.KeyFeatures, src.KeyFeatures)
	takeStr(&dst.SourceURL, src.SourceURL)
}

func mergeFirm(dst, src *model.ArchitecturalFirm) {
	takeInt64(&dst.CompanyID, src.CompanyID)
	takeStr(&dst.City, src.City)
	takeStr(&dst.Region, src.Region)
	takeStr(&dst.Specialization, src.Specialization)
	takeStr(&dst.NotableProjects, src.NotableProjects)
	takeStr(&dst.KeyPersonnel, src.KeyPersonnel)
	takeStr(&dst.Awards, src.Awards)
	takeStr(&dst.COARegistrationID, src.COARegistrationID)
	takeStr(&dst.SourceURL, src.SourceURL)
}
