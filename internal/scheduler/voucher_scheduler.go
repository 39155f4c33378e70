package scheduler

import (
	"github.com/adeliap/rotiku-backend/internal/app/service"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// VoucherScheduler deactivates expired vouchers on a nightly sweep, so the
// admin list and the storefront agree without waiting for a validation hit.
type VoucherScheduler struct {
	cron           *cron.Cron
	voucherService service.VoucherService
}

func NewVoucherScheduler(voucherService service.VoucherService) *VoucherScheduler {
	return &VoucherScheduler{
		cron:           cron.New(),
		voucherService: voucherService,
	}
}

// Start registers the nightly sweep at 00:05 server time.
func (s *VoucherScheduler) Start() error {
	_, err := s.cron.AddFunc("5 0 * * *", func() {
		logger.Info("Starting scheduled voucher expiry sweep", nil)

		count, err := s.voucherService.DeactivateExpired()
		if err != nil {
			logger.Error("Failed to deactivate expired vouchers", err, nil)
			return
		}

		logger.Info("Voucher expiry sweep completed", map[string]interface{}{
			"deactivated": count,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for voucher expiry", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Voucher scheduler started (daily at 00:05)", nil)

	return nil
}

func (s *VoucherScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Voucher scheduler stopped", nil)
}
