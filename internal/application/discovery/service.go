package discovery

import (
	"context"
	"sort"

	"dirtex-backend/internal/apperr"
	"dirtex-backend/internal/domain"
	"dirtex-backend/internal/pkg/geo"

	"github.com/paulmach/orb"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Quantity sort directions. Empty means no quantity sort.
const (
	SortQuantityAsc  = "asc"
	SortQuantityDesc = "desc"
)

// Input describes one discovery query. ViewerLocation and the filters come in
// as explicit parameters so the feed is computable without any ambient state.
type Input struct {
	ViewerLocation *orb.Point
	MaterialTypes  []string // empty set = no material filter
	QuantitySort   string   // "", "asc" or "desc"
	IsSubscriber   bool
	RadiusMiles    int // effective cap for subscribers; ignored otherwise
}

// Entry is one feed item: the listing plus its distance from the viewer when
// both sides have coordinates.
type Entry struct {
	domain.Listing
	DistanceMiles *int `json:"distance_miles,omitempty"`
}

// Feed is the discovery result partitioned by listing type. Both partitions
// come from the same filtered set.
type Feed struct {
	Imports []Entry `json:"imports"`
	Exports []Entry `json:"exports"`
}

// Discover recomputes the feed from the current active set. Read-only and
// idempotent: same inputs, same ordering and membership.
func (s *Service) Discover(ctx context.Context, in Input) (*Feed, error) {
	if in.QuantitySort != "" && in.QuantitySort != SortQuantityAsc && in.QuantitySort != SortQuantityDesc {
		return nil, apperr.Validation("sort must be asc or desc")
	}
	var listings []domain.Listing
	err := s.DB.WithContext(ctx).
		Where("status = ?", domain.StatusActive).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return Rank(listings, in), nil
}

// Rank applies the eligibility cap, the material filter and the sort order,
// then partitions by listing type. Pure over its inputs.
func Rank(listings []domain.Listing, in Input) *Feed {
	distanceDependent := in.ViewerLocation != nil && (in.IsSubscriber || in.QuantitySort == "")

	entries := make([]Entry, 0, len(listings))
	for i := range listings {
		l := listings[i]
		e := Entry{Listing: l}
		if in.ViewerLocation != nil && l.HasCoordinates() {
			d := geo.Miles(*in.ViewerLocation, geo.NewPoint(*l.Latitude, *l.Longitude))
			e.DistanceMiles = &d
		}

		// Subscribers only see listings inside their radius; listings
		// without coordinates cannot satisfy a distance condition.
		if in.IsSubscriber && in.ViewerLocation != nil {
			if e.DistanceMiles == nil || *e.DistanceMiles > in.RadiusMiles {
				continue
			}
		}
		if len(in.MaterialTypes) > 0 && !contains(in.MaterialTypes, l.MaterialType) {
			continue
		}
		// A distance sort is about to apply: coordinate-less listings are
		// excluded rather than sorted as zero-distance.
		if distanceDependent && e.DistanceMiles == nil {
			continue
		}
		entries = append(entries, e)
	}

	switch {
	case in.QuantitySort == SortQuantityAsc:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Quantity.LessThan(entries[j].Quantity)
		})
	case in.QuantitySort == SortQuantityDesc:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Quantity.GreaterThan(entries[j].Quantity)
		})
	case in.ViewerLocation != nil:
		sort.SliceStable(entries, func(i, j int) bool {
			return *entries[i].DistanceMiles < *entries[j].DistanceMiles
		})
		// else: input order (created_at DESC) is preserved
	}

	feed := &Feed{Imports: []Entry{}, Exports: []Entry{}}
	for _, e := range entries {
		if e.ListingType == domain.ListingTypeImport {
			feed.Imports = append(feed.Imports, e)
		} else {
			feed.Exports = append(feed.Exports, e)
		}
	}
	return feed
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
