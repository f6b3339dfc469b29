package dto

// AnalyticsQuery is the query of GET /analytics/stats
type AnalyticsQuery struct {
	Branch       string `form:"branch" example:"CSE"`
	AcademicYear string `form:"academicYear" binding:"omitempty,academicyear" example:"2024-25"`
}

// TrendQuery is the query of GET /analytics/trend
type TrendQuery struct {
	AcademicYear string `form:"academicYear" binding:"omitempty,academicyear" example:"2024-25"`
}

// SheetRequest is the raw query of GET /sheets. Values are parsed leniently.
type SheetRequest struct {
	AcademicYear string `form:"academicYear" example:"2024-25"`
	Branch       string `form:"branch" example:"CSE"`
	MinCGPA      string `form:"minCGPA" example:"7.0"`
	Type         string `form:"type" example:"placement" enums:"placement,internship,hackathon,pending,all"`
	Format       string `form:"format" example:"csv" enums:"csv,xlsx"`
}
