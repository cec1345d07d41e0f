package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles the API surface for route registration.
type Handlers struct {
	Employees    *EmployeeHandler
	Absences     *AbsenceHandler
	Shifts       *ShiftHandler
	Planning     *PlanningHandler
	Distribution *DistributionHandler
}

// Register mounts every route group under the given prefix.
func Register(r *gin.Engine, prefix string, h Handlers) {
	api := r.Group(prefix)

	employees := api.Group("/employees")
	employees.GET("", h.Employees.List)
	employees.POST("", h.Employees.Create)
	employees.GET("/:id", h.Employees.Get)
	employees.PUT("/:id", h.Employees.Update)
	employees.DELETE("/:id", h.Employees.Deactivate)

	absences := api.Group("/absences")
	absences.GET("", h.Absences.List)
	absences.POST("", h.Absences.Create)
	absences.GET("/:id", h.Absences.Get)
	absences.DELETE("/:id", h.Absences.Delete)

	shifts := api.Group("/shifts")
	shifts.GET("", h.Shifts.List)
	shifts.POST("", h.Shifts.Create)
	shifts.GET("/:id", h.Shifts.Get)
	shifts.POST("/:id/assign", h.Shifts.Assign)
	shifts.DELETE("/:id", h.Shifts.Delete)

	planning := api.Group("/planning")
	planning.GET("/board", h.Planning.Board)
	planning.GET("/conflicts", h.Planning.Conflicts)
	planning.GET("/warnings", h.Planning.Warnings)
	planning.GET("/availability", h.Planning.Availability)
	planning.GET("/loads", h.Planning.Loads)
	planning.POST("/distribute", h.Distribution.Distribute)
}
