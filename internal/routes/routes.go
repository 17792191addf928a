package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/audit"
	"github.com/veltagrid/appointments-api/internal/cache"
	"github.com/veltagrid/appointments-api/internal/config"
	"github.com/veltagrid/appointments-api/internal/handlers"
	infraRepo "github.com/veltagrid/appointments-api/internal/infra/repository"
	"github.com/veltagrid/appointments-api/internal/middleware"
	"github.com/veltagrid/appointments-api/internal/notify"
	ucCatalog "github.com/veltagrid/appointments-api/internal/usecase/catalog"
	ucScheduling "github.com/veltagrid/appointments-api/internal/usecase/scheduling"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	schedulingRepo := infraRepo.NewSchedulingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	outbox := notify.NewOutbox(db)

	availCache := cache.NewAvailabilityCache(rdb, 30*time.Second)

	// ======================================================
	// USE CASES: SCHEDULING
	// ======================================================
	availabilityUC := ucScheduling.NewGetAvailability(schedulingRepo)

	createUC := ucScheduling.NewCreateAppointment(
		schedulingRepo,
		availabilityUC,
		auditDispatcher,
		outbox,
	)

	confirmUC := ucScheduling.NewConfirmAppointment(schedulingRepo, auditDispatcher, outbox)
	cancelUC := ucScheduling.NewCancelAppointment(schedulingRepo, auditDispatcher, outbox)
	completeUC := ucScheduling.NewCompleteAppointment(schedulingRepo, auditDispatcher, outbox)
	deleteUC := ucScheduling.NewDeleteAppointment(schedulingRepo, auditDispatcher)

	listByDateUC := ucScheduling.NewListAppointmentsByDate(schedulingRepo)
	listByMonthUC := ucScheduling.NewListAppointmentsByMonth(schedulingRepo)
	listHolidaysUC := ucScheduling.NewListHolidays(schedulingRepo)

	// ======================================================
	// USE CASES: TIME CATALOG
	// ======================================================
	getSlotsUC := ucCatalog.NewGetSlots(schedulingRepo)
	configureSlotsUC := ucCatalog.NewConfigureSlots(schedulingRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	branchHandler := handlers.NewBranchHandler(db)
	typeHandler := handlers.NewAppointmentTypeHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	holidayHandler := handlers.NewHolidayHandler(db, listHolidaysUC)
	assignmentHandler := handlers.NewAssignmentHandler(db)
	timeSlotHandler := handlers.NewTimeSlotHandler(getSlotsUC, configureSlotsUC)

	availabilityHandler := handlers.NewAvailabilityHandler(db, availabilityUC, availCache)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createUC,
		confirmUC,
		cancelUC,
		completeUC,
		deleteUC,
		listByDateUC,
		listByMonthUC,
		availCache,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, availabilityUC, createUC, availCache)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC (client self-booking)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:branch/types", publicHandler.ListTypes)
			publicAPI.GET("/:branch/availability", publicHandler.Availability)
			publicAPI.POST("/:branch/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE (staff)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/branches", branchHandler.List)
			secured.GET("/me/branch", branchHandler.GetMine)
			secured.PATCH("/me/branch", branchHandler.Update)

			secured.GET("/appointment-types", typeHandler.List)
			secured.POST("/appointment-types", typeHandler.Create)
			secured.PATCH("/appointment-types/:id", typeHandler.Update)
			secured.DELETE("/appointment-types/:id", typeHandler.Delete)

			secured.GET("/me/branch/types/:typeId/slots", timeSlotHandler.Get)
			secured.PUT("/me/branch/types/:typeId/slots", timeSlotHandler.Configure)

			secured.GET("/holidays", holidayHandler.List)
			secured.POST("/holidays", holidayHandler.Create)
			secured.DELETE("/holidays/:id", holidayHandler.Delete)

			secured.GET("/clients", clientHandler.List)

			secured.GET("/users/:userId/appointment-types", assignmentHandler.List)
			secured.POST("/users/:userId/appointment-types", assignmentHandler.Assign)
			secured.DELETE("/users/:userId/appointment-types/:typeId", assignmentHandler.Unassign)

			secured.GET("/availability", availabilityHandler.Get)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
