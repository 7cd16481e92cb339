package migration

import (
	auditdomain "github.com/flashbill/flashbill/internal/audit/domain"
	invoicedomain "github.com/flashbill/flashbill/internal/invoice/domain"
	paymentdomain "github.com/flashbill/flashbill/internal/payment/domain"
	taxdomain "github.com/flashbill/flashbill/internal/tax/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		// The versioned SQL migrations target postgres. For the embedded
		// dialects used in development, gorm derives the same schema from
		// the models.
		if conn.Dialector.Name() != "postgres" {
			return conn.AutoMigrate(
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceItem{},
				&paymentdomain.Payment{},
				&taxdomain.TaxSetting{},
				&auditdomain.AuditLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
