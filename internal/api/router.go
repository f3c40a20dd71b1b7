package api

import (
	v1 "github.com/feeflow/feeflow/internal/api/v1"
	"github.com/feeflow/feeflow/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Voucher *v1.VoucherHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Voucher routes
	vouchers := router.Group("/vouchers")
	{
		vouchers.POST("/issue", handlers.Voucher.IssueVouchers)
		vouchers.POST("/pay", handlers.Voucher.PayVoucher)
		vouchers.GET("/:id", handlers.Voucher.GetVoucher)
	}
}
