package bot

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"carrental/pkg/logger"
	"carrental/pkg/models"
	"carrental/pkg/rental"
	"carrental/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type reservationBody struct {
	ClientID        string    `json:"client_id" binding:"required"`
	VehicleID       string    `json:"vehicle_id" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	DriverRequested bool      `json:"driver_requested"`
	Comment         string    `json:"comment"`
	PickupLocation  string    `json:"pickup_location"`
	Destination     string    `json:"destination"`
}

type actionBody struct {
	ClientID string `json:"client_id" binding:"required"`
	Method   string `json:"method"`
}

func NewRouter(svc service.IServiceManager, log logger.ILogger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	fail := func(c *gin.Context, err error) {
		status := httpStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("api request failed", logger.String("path", c.FullPath()), logger.Error(err))
		}
		body := gin.H{"error": err.Error()}
		var eligibility *rental.EligibilityError
		if errors.As(err, &eligibility) {
			body["violations"] = eligibility.Violations
		}
		c.JSON(status, body)
	}

	api := r.Group("/api")
	{
		api.GET("/vehicles", func(c *gin.Context) {
			var filter rental.VehicleFilter
			if err := c.ShouldBindQuery(&filter); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			vehicles, total, err := svc.Catalog().Search(c.Request.Context(), filter)
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"data": vehicles, "total": total})
		})

		api.GET("/vehicles/:id", func(c *gin.Context) {
			details, err := svc.Catalog().Vehicle(c.Request.Context(), c.Param("id"))
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, details)
		})

		api.GET("/vehicles/:id/quote", func(c *gin.Context) {
			start, err1 := time.Parse(time.RFC3339, c.Query("start"))
			end, err2 := time.Parse(time.RFC3339, c.Query("end"))
			if err1 != nil || err2 != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be ISO-8601"})
				return
			}
			price, err := svc.Reservation().Quote(c.Request.Context(), c.Param("id"), start, end)
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"total_price": price})
		})

		api.GET("/clients/:id/reservations", func(c *gin.Context) {
			tabs, err := svc.Reservation().ClientOrders(c.Request.Context(), c.Param("id"))
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, tabs)
		})

		api.POST("/reservations", func(c *gin.Context) {
			var body reservationBody
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			res, err := svc.Reservation().Create(c.Request.Context(), models.ReservationRequest(body))
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusCreated, res)
		})

		api.POST("/reservations/:id/:action", func(c *gin.Context) {
			var body actionBody
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx := c.Request.Context()
			id := c.Param("id")

			var (
				res *models.Reservation
				err error
			)
			switch c.Param("action") {
			case "cancel":
				res, err = svc.Reservation().Cancel(ctx, body.ClientID, id)
			case "payment":
				res, err = svc.Reservation().SubmitPayment(ctx, body.ClientID, id, models.PaymentMethod(body.Method))
			default:
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown action %q", c.Param("action"))})
				return
			}
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, res)
		})
	}

	return r
}

func RunServer(port int, svc service.IServiceManager, log logger.ILogger) error {
	return NewRouter(svc, log).Run(fmt.Sprintf(":%d", port))
}
