package services

import (
	"sort"

	"github.com/yigit/placement/internal/app/models"
)

// ClassifyOffers buckets students by the number of offer-bearing registrations they hold.
// A student's branch is taken from their first registration in slice order.
func ClassifyOffers(registrations []*models.StudentRegistration) models.OfferSummary {
	type tally struct {
		branch models.Branch
		offers int
	}

	students := make(map[string]*tally)
	order := make([]string, 0)
	for _, reg := range registrations {
		t, ok := students[reg.StudentID]
		if !ok {
			t = &tally{branch: reg.Branch}
			students[reg.StudentID] = t
			order = append(order, reg.StudentID)
		}
		if reg.HasOffer {
			t.offers++
		}
	}

	summary := models.OfferSummary{BranchWise: []models.BranchOfferCounts{}}
	byBranch := make(map[models.Branch]*models.BranchOfferCounts)
	for _, id := range order {
		t := students[id]
		if t.offers == 0 {
			continue
		}
		summary.TotalOffers += t.offers

		bucket, ok := byBranch[t.branch]
		if !ok {
			bucket = &models.BranchOfferCounts{Branch: t.branch}
			byBranch[t.branch] = bucket
		}
		if t.offers == 1 {
			summary.SingleOffer++
			bucket.Single++
		} else {
			summary.MultipleOffers++
			bucket.Multiple++
		}
	}

	for _, bucket := range byBranch {
		summary.BranchWise = append(summary.BranchWise, *bucket)
	}
	sort.Slice(summary.BranchWise, func(i, j int) bool {
		return summary.BranchWise[i].Branch < summary.BranchWise[j].Branch
	})
	return summary
}
