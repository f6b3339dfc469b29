package models

// OfferSummary classifies placed students by how many offers they hold.
// SingleOffer and MultipleOffers count students; TotalOffers counts offer-bearing registrations.
type OfferSummary struct {
	SingleOffer    int                 `json:"singleOffer"`
	MultipleOffers int                 `json:"multipleOffers"`
	TotalOffers    int                 `json:"totalOffers"`
	BranchWise     []BranchOfferCounts `json:"branchWise"`
}

// BranchOfferCounts is the per-branch split of OfferSummary.
type BranchOfferCounts struct {
	Branch   Branch `json:"branch"`
	Single   int    `json:"single"`
	Multiple int    `json:"multiple"`
}

// AnalyticsFilter narrows the registration set before aggregation.
type AnalyticsFilter struct {
	Branch       *Branch
	AcademicYear *AcademicYear
}

// AnalyticsSnapshot is the dashboard summary folded from the registration set.
type AnalyticsSnapshot struct {
	TotalStudents   int           `json:"totalStudents"`
	PlacedStudents  int           `json:"placedStudents"`
	PlacementRate   float64       `json:"placementRate"`
	BranchWiseStats []BranchStats `json:"branchWiseStats"`
	YearWiseStats   []YearStats   `json:"yearWiseStats"`
	DriveWiseStats  []DriveStats  `json:"driveWiseStats"`
}

// BranchStats is one row of the branch-wise breakdown.
type BranchStats struct {
	Branch     Branch `json:"branch"`
	Total      int    `json:"total"`
	Placed     int    `json:"placed"`
	Percentage int    `json:"percentage"`
}

// YearStats is one row of the year-wise breakdown.
type YearStats struct {
	Year        Year `json:"year"`
	Total       int  `json:"total"`
	Placed      int  `json:"placed"`
	Internships int  `json:"internships"`
}

// DriveStats is one row of the drive-wise breakdown.
type DriveStats struct {
	DriveID         string `json:"driveId"`
	DriveName       string `json:"driveName"`
	TotalApplicants int    `json:"totalApplicants"`
	Placed          int    `json:"placed"`
	SuccessRate     int    `json:"successRate"`
}

// TrendPoint is one month of the placement trend series.
type TrendPoint struct {
	Month         string `json:"month"`
	Label         string `json:"label"`
	Registrations int    `json:"registrations"`
	Offers        int    `json:"offers"`
}

// Cohort is the fixed population used as the denominator of every rate.
type Cohort struct {
	TotalStudents int
	Branches      map[Branch]int
	Years         map[Year]int
}
