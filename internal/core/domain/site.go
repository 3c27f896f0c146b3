package domain

// Site represents one guarded construction site. Visits are scoped to a site,
// and the one-open-visit invariant holds per (worker, site) pair.
type Site struct {
	SiteID      string `json:"siteID"`   // Primary Key (e.g., UUID)
	Name        string `json:"name"`
	Address     string `json:"address"`  // Optional street address
	IsActive    bool   `json:"isActive"` // Inactive sites reject new check-ins
	AuditFields        // Embed common audit fields
}
