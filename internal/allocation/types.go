// Package allocation splits the value of completed sites among the members
// who attended them, optionally carving out a bonus pool for salvagers.
//
// The package is a pure computation: it performs no I/O, holds no state
// between calls, and never modifies the values it is given.
package allocation

// SiteStatus records whether a site has actually been run.
type SiteStatus string

const (
	// StatusCompleted is a performed site. The empty status means the same.
	StatusCompleted SiteStatus = "completed"

	// StatusPlanned is a site that has not been run yet. Planned sites are
	// neither paid out nor counted.
	StatusPlanned SiteStatus = "planned"
)

// Member is one entry of the roster.
type Member struct {
	ID         string `json:"id" yaml:"id" validate:"required"`
	Name       string `json:"name" yaml:"name" validate:"required"`
	IsSalvager bool   `json:"isSalvager" yaml:"isSalvager"`
}

// Site is a group activity whose value is determined by its level.
type Site struct {
	ID           string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string     `json:"name" yaml:"name" validate:"required"`
	Level        int        `json:"level" yaml:"level" validate:"gte=1"`
	Participants []string   `json:"participants" yaml:"participants" validate:"required"`
	Status       SiteStatus `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,oneof=completed planned"`
}

// Performed reports whether the site counts toward payment and totals.
func (s Site) Performed() bool {
	return s.Status != StatusPlanned
}

// LevelValues maps a level key ("1", "2", ...) to its monetary value. Values
// arrive from loosely typed sources, so anything may be stored; see Value.
type LevelValues map[string]any

// Config holds the per-tenant allocation settings.
type Config struct {
	LevelValues     LevelValues `json:"levelValues" yaml:"levelValues" mapstructure:"levelValues"`
	HasSalvager     bool        `json:"hasSalvager" yaml:"hasSalvager" mapstructure:"hasSalvager"`
	SalvagerPercent *float64    `json:"salvagerPercent,omitempty" yaml:"salvagerPercent,omitempty" mapstructure:"salvagerPercent"`
	Currency        string      `json:"currency,omitempty" yaml:"currency,omitempty" mapstructure:"currency"`
	AutoCalculate   *bool       `json:"autoCalculate,omitempty" yaml:"autoCalculate,omitempty" mapstructure:"autoCalculate"`
}

// Data is everything a tenant stores: settings, roster and sites.
type Data struct {
	Config  Config   `json:"config" yaml:"config"`
	Members []Member `json:"members" yaml:"members"`
	Sites   []Site   `json:"sites" yaml:"sites"`
}

// SiteShare is the contribution of one site to one member's total.
type SiteShare struct {
	SiteName string  `json:"siteName"`
	Level    int     `json:"level"`
	Amount   float64 `json:"amount"`
}

// Payment is the earnings of one roster member.
type Payment struct {
	MemberID   string      `json:"memberId"`
	Name       string      `json:"name"`
	IsSalvager bool        `json:"isSalvager"`
	Total      float64     `json:"total"`
	SitesCount int         `json:"sitesCount"`
	Sites      []SiteShare `json:"sites"`
}

// Report is the result of an allocation run.
type Report struct {
	Payments   []Payment `json:"payments"`
	TotalPaid  float64   `json:"totalPaid"`
	TotalSites int       `json:"totalSites"`
	Config     Config    `json:"config"`
}

// Payment returns the payment for a member id.
func (r Report) Payment(memberID string) (Payment, bool) {
	for _, p := range r.Payments {
		if p.MemberID == memberID {
			return p, true
		}
	}
	return Payment{}, false
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	out := c
	if c.LevelValues != nil {
		out.LevelValues = make(LevelValues, len(c.LevelValues))
		for k, v := range c.LevelValues {
			out.LevelValues[k] = cloneValue(v)
		}
	}
	if c.SalvagerPercent != nil {
		p := *c.SalvagerPercent
		out.SalvagerPercent = &p
	}
	if c.AutoCalculate != nil {
		a := *c.AutoCalculate
		out.AutoCalculate = &a
	}
	return out
}

// cloneValue copies the containers a decoded document can hold. Scalars are
// returned as is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// AutoCalculateEnabled reports whether reads and writes should carry a fresh
// report. An unset flag means true.
func (c Config) AutoCalculateEnabled() bool {
	return c.AutoCalculate == nil || *c.AutoCalculate
}

// Clone returns a deep copy of the data.
func (d Data) Clone() Data {
	out := Data{Config: d.Config.Clone()}
	if d.Members != nil {
		out.Members = make([]Member, len(d.Members))
		copy(out.Members, d.Members)
	}
	if d.Sites != nil {
		out.Sites = make([]Site, len(d.Sites))
		for i, s := range d.Sites {
			out.Sites[i] = s
			if s.Participants != nil {
				out.Sites[i].Participants = make([]string, len(s.Participants))
				copy(out.Sites[i].Participants, s.Participants)
			}
		}
	}
	return out
}
