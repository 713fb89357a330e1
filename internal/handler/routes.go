package handler

import "github.com/gin-gonic/gin"

// Handlers bundles every API handler for route registration.
type Handlers struct {
	Students   *StudentHandler
	Classes    *ClassHandler
	Assignment *AssignmentHandler
	Grades     *GradeHandler
	Attendance *AttendanceHandler
	Analytics  *AnalyticsHandler
	Exports    *ExportHandler
}

// Register mounts every route onto the provided group.
func (h Handlers) Register(api *gin.RouterGroup) {
	students := api.Group("/students")
	{
		students.GET("", h.Students.List)
		students.POST("", h.Students.Create)
		students.GET("/:id", h.Students.Get)
		students.PUT("/:id", h.Students.Update)
		students.DELETE("/:id", h.Students.Deactivate)
		students.GET("/:id/average", h.Grades.StudentAverage)
		students.GET("/:id/attendance", h.Attendance.StudentSummary)
	}

	classes := api.Group("/classes")
	{
		classes.GET("", h.Classes.List)
		classes.POST("", h.Classes.Create)
		classes.GET("/:id", h.Classes.Get)
		classes.PUT("/:id", h.Classes.Update)
		classes.DELETE("/:id", h.Classes.Delete)
		classes.GET("/:id/roster", h.Classes.Roster)
		classes.POST("/:id/roster", h.Classes.Enroll)
		classes.DELETE("/:id/roster/:studentId", h.Classes.Unenroll)
		classes.GET("/:id/attendance/:date", h.Attendance.Day)
		classes.PUT("/:id/attendance/:date", h.Attendance.SaveDay)
		classes.GET("/:id/attendance/:date/sheet", h.Attendance.DaySheet)
	}

	assignments := api.Group("/assignments")
	{
		assignments.GET("", h.Assignment.List)
		assignments.POST("", h.Assignment.Create)
		assignments.GET("/:id", h.Assignment.Get)
		assignments.PUT("/:id", h.Assignment.Update)
		assignments.DELETE("/:id", h.Assignment.Delete)
		assignments.GET("/:id/average", h.Assignment.Average)
	}

	grades := api.Group("/grades")
	{
		grades.GET("", h.Grades.List)
		grades.PUT("", h.Grades.Upsert)
		grades.GET("/:id", h.Grades.Get)
		grades.DELETE("/:id", h.Grades.Delete)
	}

	api.GET("/attendance", h.Attendance.List)
	api.GET("/analytics/summary", h.Analytics.Summary)

	if h.Exports != nil {
		exports := api.Group("/exports")
		{
			exports.GET("/classes/:id/roster", h.Exports.RosterCSV)
			exports.GET("/classes/:id/attendance", h.Exports.AttendanceDayCSV)
			exports.GET("/classes/:id/gradebook", h.Exports.GradebookXLSX)
			exports.GET("/at-risk", h.Exports.AtRiskPDF)
		}
	}
}
