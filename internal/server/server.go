package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/flashbill/flashbill/internal/audit"
	auditdomain "github.com/flashbill/flashbill/internal/audit/domain"
	"github.com/flashbill/flashbill/internal/config"
	"github.com/flashbill/flashbill/internal/invoice"
	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
	"github.com/flashbill/flashbill/internal/observability"
	obsmiddleware "github.com/flashbill/flashbill/internal/observability/logger"
	obsmetrics "github.com/flashbill/flashbill/internal/observability/metrics"
	obstracing "github.com/flashbill/flashbill/internal/observability/tracing"
	"github.com/flashbill/flashbill/internal/payment"
	paymentdomain "github.com/flashbill/flashbill/internal/payment/domain"
	"github.com/flashbill/flashbill/internal/ratelimit"
	"github.com/flashbill/flashbill/internal/tax"
	taxdomain "github.com/flashbill/flashbill/internal/tax/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	tax.Module,
	invoice.Module,
	payment.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	auditSvc   auditdomain.Service
	invoiceSvc invoicedomain.Service
	paymentSvc paymentdomain.Service
	taxSvc     taxdomain.Service

	writeLimiter *ratelimit.WriteLimiter
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	GenID      *snowflake.Node
	AuditSvc   auditdomain.Service
	InvoiceSvc invoicedomain.Service
	PaymentSvc paymentdomain.Service
	TaxSvc     taxdomain.Service

	WriteLimiter *ratelimit.WriteLimiter `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics     `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		auditSvc:     p.AuditSvc,
		invoiceSvc:   p.InvoiceSvc,
		paymentSvc:   p.PaymentSvc,
		taxSvc:       p.TaxSvc,
		writeLimiter: p.WriteLimiter,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")
	v1.Use(s.OrgContext())

	// -------- Invoices --------
	v1.GET("/invoices", s.ListInvoices)
	v1.POST("/invoices", s.WriteRateLimit(), s.CreateInvoice)
	v1.POST("/invoices/preview", s.PreviewInvoice)
	v1.GET("/invoices/:id", s.GetInvoiceByID)
	v1.PATCH("/invoices/:id", s.WriteRateLimit(), s.UpdateInvoice)
	v1.POST("/invoices/:id/send", s.WriteRateLimit(), s.SendInvoice)
	v1.POST("/invoices/:id/view", s.MarkInvoiceViewed)
	v1.POST("/invoices/:id/cancel", s.WriteRateLimit(), s.CancelInvoice)

	// -------- Payments --------
	v1.GET("/invoices/:id/payments", s.ListInvoicePayments)
	v1.POST("/invoices/:id/payments", s.WriteRateLimit(), s.RecordPayment)
	v1.POST("/invoices/:id/refunds", s.WriteRateLimit(), s.RefundPayment)

	// -------- Tax Settings --------
	v1.GET("/tax-settings", s.ListTaxSettings)
	v1.POST("/tax-settings", s.WriteRateLimit(), s.CreateTaxSetting)
	v1.GET("/tax-settings/:id", s.GetTaxSettingByID)
	v1.PATCH("/tax-settings/:id", s.WriteRateLimit(), s.UpdateTaxSetting)
	v1.DELETE("/tax-settings/:id", s.WriteRateLimit(), s.DeleteTaxSetting)

	// -------- Audit Logs --------
	v1.GET("/audit-logs", s.ListAuditLogs)
}
