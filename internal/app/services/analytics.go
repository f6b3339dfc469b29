package services

import (
	"math"
	"sort"
	"time"

	"github.com/yigit/placement/internal/app/models"
)

// BuildSnapshot folds the registration set into dashboard statistics.
// drives is keyed by drive id; registrations whose drive is missing still count
// towards totals and appear in drive-wise stats as "N/A".
func BuildSnapshot(
	registrations []*models.StudentRegistration,
	drives map[string]*models.PlacementDrive,
	cohort models.Cohort,
	filter models.AnalyticsFilter,
) models.AnalyticsSnapshot {
	filtered := filterForAnalytics(registrations, filter)

	placed := make(map[string]struct{})
	for _, reg := range filtered {
		if reg.HasOffer {
			placed[reg.StudentID] = struct{}{}
		}
	}

	total := cohort.TotalStudents
	if filter.Branch != nil {
		if size, ok := cohort.Branches[filter.Branch.Normalize()]; ok {
			total = size
		}
	}

	return models.AnalyticsSnapshot{
		TotalStudents:   total,
		PlacedStudents:  len(placed),
		PlacementRate:   roundTo(percentOf(len(placed), total), 1),
		BranchWiseStats: branchWiseStats(filtered, cohort),
		YearWiseStats:   yearWiseStats(filtered, drives, cohort),
		DriveWiseStats:  driveWiseStats(filtered, drives),
	}
}

func filterForAnalytics(registrations []*models.StudentRegistration, filter models.AnalyticsFilter) []*models.StudentRegistration {
	if filter.Branch == nil && filter.AcademicYear == nil {
		return registrations
	}

	out := make([]*models.StudentRegistration, 0, len(registrations))
	for _, reg := range registrations {
		if filter.Branch != nil && reg.Branch.Normalize() != filter.Branch.Normalize() {
			continue
		}
		if filter.AcademicYear != nil && reg.AcademicYear != filter.AcademicYear.String() {
			continue
		}
		out = append(out, reg)
	}
	return out
}

func branchWiseStats(registrations []*models.StudentRegistration, cohort models.Cohort) []models.BranchStats {
	seen := make(map[models.Branch]map[string]struct{})
	for _, reg := range registrations {
		branch := reg.Branch.Normalize()
		if _, ok := seen[branch]; !ok {
			seen[branch] = make(map[string]struct{})
		}
		if reg.HasOffer {
			seen[branch][reg.StudentID] = struct{}{}
		}
	}

	stats := make([]models.BranchStats, 0, len(seen))
	for branch, placedSet := range seen {
		total := cohort.Branches[branch]
		if total <= 0 {
			continue
		}
		placed := min(len(placedSet), total)
		stats = append(stats, models.BranchStats{
			Branch:     branch,
			Total:      total,
			Placed:     placed,
			Percentage: wholePercent(placed, total),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Branch < stats[j].Branch })
	return stats
}

func yearWiseStats(
	registrations []*models.StudentRegistration,
	drives map[string]*models.PlacementDrive,
	cohort models.Cohort,
) []models.YearStats {
	type buckets struct {
		placed      map[string]struct{}
		internships map[string]struct{}
	}

	byYear := make(map[models.Year]*buckets)
	for _, reg := range registrations {
		b, ok := byYear[reg.Year]
		if !ok {
			b = &buckets{placed: map[string]struct{}{}, internships: map[string]struct{}{}}
			byYear[reg.Year] = b
		}
		if !reg.HasOffer {
			continue
		}
		if drive, ok := drives[reg.DriveID]; ok && drive.Type == models.DriveTypeInternship {
			b.internships[reg.StudentID] = struct{}{}
		} else {
			b.placed[reg.StudentID] = struct{}{}
		}
	}

	stats := make([]models.YearStats, 0, len(byYear))
	for year, b := range byYear {
		total := cohort.Years[year]
		if total <= 0 {
			continue
		}
		stats = append(stats, models.YearStats{
			Year:        year,
			Total:       total,
			Placed:      min(len(b.placed), total),
			Internships: min(len(b.internships), total),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Year < stats[j].Year })
	return stats
}

func driveWiseStats(registrations []*models.StudentRegistration, drives map[string]*models.PlacementDrive) []models.DriveStats {
	index := make(map[string]int)
	stats := make([]models.DriveStats, 0)
	for _, reg := range registrations {
		i, ok := index[reg.DriveID]
		if !ok {
			name := models.NotAvailable
			if drive, found := drives[reg.DriveID]; found {
				name = drive.DisplayName()
			}
			stats = append(stats, models.DriveStats{DriveID: reg.DriveID, DriveName: name})
			i = len(stats) - 1
			index[reg.DriveID] = i
		}
		stats[i].TotalApplicants++
		if reg.HasOffer {
			stats[i].Placed++
		}
	}

	for i := range stats {
		stats[i].SuccessRate = wholePercent(stats[i].Placed, stats[i].TotalApplicants)
	}
	return stats
}

// BuildPlacementTrend returns exactly months points beginning at the academic year start.
// Registrations and offers are bucketed by submission month.
func BuildPlacementTrend(
	registrations []*models.StudentRegistration,
	year models.AcademicYear,
	startMonth time.Month,
	months int,
) []models.TrendPoint {
	if months <= 0 {
		return []models.TrendPoint{}
	}

	start := year.Start(startMonth)
	points := make([]models.TrendPoint, months)
	for i := range points {
		m := start.AddDate(0, i, 0)
		points[i] = models.TrendPoint{
			Month: m.Format("2006-01"),
			Label: m.Format("Jan"),
		}
	}

	end := start.AddDate(0, months, 0)
	for _, reg := range registrations {
		at := reg.SubmittedAt.UTC()
		if at.Before(start) || !at.Before(end) {
			continue
		}
		i := (at.Year()-start.Year())*12 + int(at.Month()) - int(start.Month())
		points[i].Registrations++
		if reg.HasOffer {
			points[i].Offers++
		}
	}
	return points
}

func percentOf(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func wholePercent(part, total int) int {
	return int(math.Round(percentOf(part, total)))
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
