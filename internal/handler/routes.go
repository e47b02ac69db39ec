package handler

import "github.com/gin-gonic/gin"

// Handlers groups the resource handlers mounted under the API prefix.
type Handlers struct {
	KRS       *KRSHandler
	Schedules *ScheduleHandler
	Rooms     *RoomHandler
	Courses   *CourseHandler
	Students  *StudentHandler
	Lecturers *LecturerHandler
}

// Register mounts every resource route on r.
func (h Handlers) Register(r gin.IRouter) {
	krs := r.Group("/krs")
	krs.GET("", h.KRS.List)
	krs.POST("", h.KRS.Create)
	krs.GET("/summary", h.KRS.Summary)
	krs.GET("/:id", h.KRS.Get)
	krs.PUT("/:id", h.KRS.Update)
	krs.DELETE("/:id", h.KRS.Delete)

	schedules := r.Group("/schedules")
	schedules.GET("", h.Schedules.List)
	schedules.POST("", h.Schedules.Create)
	schedules.GET("/:id", h.Schedules.Get)
	schedules.PUT("/:id", h.Schedules.Update)
	schedules.DELETE("/:id", h.Schedules.Delete)

	rooms := r.Group("/rooms")
	rooms.GET("", h.Rooms.List)
	rooms.POST("", h.Rooms.Create)
	rooms.GET("/:id", h.Rooms.Get)
	rooms.PUT("/:id", h.Rooms.Update)
	rooms.DELETE("/:id", h.Rooms.Delete)

	courses := r.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)

	r.GET("/students", h.Students.List)
	r.GET("/students/:id", h.Students.Get)
	r.GET("/lecturers", h.Lecturers.List)
	r.GET("/lecturers/:id", h.Lecturers.Get)
}
