package allocation

import (
	"github.com/iwvelando/site-payouts/pkg/constants"
	"github.com/iwvelando/site-payouts/pkg/mathutil"
)

// Engine computes payment reports. The zero value is not usable; build one
// with New. An Engine is immutable and safe for concurrent use.
type Engine struct {
	maxLevelValue float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxLevelValue sets the ceiling above which a level value counts as
// zero. Non-positive values keep the default.
func WithMaxLevelValue(ceiling float64) Option {
	return func(e *Engine) {
		if ceiling > 0 {
			e.maxLevelValue = ceiling
		}
	}
}

// New returns an Engine with the default level-value ceiling.
func New(opts ...Option) Engine {
	e := Engine{maxLevelValue: constants.DefaultMaxLevelValue}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// MaxLevelValue returns the configured ceiling.
func (e Engine) MaxLevelValue() float64 {
	return e.maxLevelValue
}

// Allocate runs a default Engine.
func Allocate(cfg Config, members []Member, sites []Site) (Report, error) {
	return New().Allocate(cfg, members, sites)
}

// Calculate allocates a tenant's stored data.
func (e Engine) Calculate(d Data) (Report, error) {
	return e.Allocate(d.Config, d.Members, d.Sites)
}

// Allocate splits each performed site's value among its participants.
//
// Sites are processed in order. A participant id missing from the roster
// still counts toward the divisor but is paid nothing. When salvagers are
// enabled and at least one attends, salvagerPercent of the value is shared
// between the attending salvagers and the rest is split among everyone.
// No rounding is applied.
func (e Engine) Allocate(cfg Config, members []Member, sites []Site) (Report, error) {
	if err := Validate(members, sites); err != nil {
		return Report{}, err
	}

	payments := make([]Payment, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		payments[i] = Payment{
			MemberID:   m.ID,
			Name:       m.Name,
			IsSalvager: m.IsSalvager,
			Sites:      []SiteShare{},
		}
		index[m.ID] = i
	}

	percent := cfg.Percent()
	totalSites := 0

	for _, site := range sites {
		if !site.Performed() {
			continue
		}
		totalSites++

		participantCount := len(site.Participants)
		if participantCount == 0 {
			continue
		}
		siteValue := cfg.LevelValues.Value(site.Level, e.maxLevelValue)

		regularShare := siteValue
		bonusPerSalvager := 0.0
		var present map[string]bool
		if cfg.HasSalvager {
			present = salvagersPresent(members, site.Participants)
			if len(present) > 0 {
				pool := mathutil.ApplyPercentage(siteValue, percent)
				bonusPerSalvager = mathutil.Split(pool, len(present))
				regularShare = siteValue - pool
			}
		}
		sharePerPerson := mathutil.Split(regularShare, participantCount)

		for _, id := range site.Participants {
			i, ok := index[id]
			if !ok {
				continue
			}
			amount := sharePerPerson
			if present[id] {
				amount += bonusPerSalvager
			}
			p := &payments[i]
			p.Total += amount
			p.SitesCount++
			p.Sites = append(p.Sites, SiteShare{
				SiteName: site.Name,
				Level:    site.Level,
				Amount:   amount,
			})
		}
	}

	totalPaid := 0.0
	for _, p := range payments {
		totalPaid += p.Total
	}

	return Report{
		Payments:   payments,
		TotalPaid:  totalPaid,
		TotalSites: totalSites,
		Config:     cfg.Clone(),
	}, nil
}

// salvagersPresent returns the roster salvagers listed among participants.
func salvagersPresent(members []Member, participants []string) map[string]bool {
	attending := make(map[string]struct{}, len(participants))
	for _, id := range participants {
		attending[id] = struct{}{}
	}
	present := make(map[string]bool)
	for _, m := range members {
		if !m.IsSalvager {
			continue
		}
		if _, ok := attending[m.ID]; ok {
			present[m.ID] = true
		}
	}
	return present
}
