package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// SalesSummary aggregates a reporting window for the back-office dashboard.
type SalesSummary struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	OrderCount    int       `json:"order_count"`
	ItemCount     int       `json:"item_count"`
	GrossRevenue  float64   `json:"gross_revenue"`
	TotalDiscount float64   `json:"total_discount"`
	NetRevenue    float64   `json:"net_revenue"`
}

type ReportService interface {
	Summary(from, to time.Time) (*SalesSummary, error)
	ExportOrdersXLSX(from, to time.Time) ([]byte, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

func (s *reportService) Summary(from, to time.Time) (*SalesSummary, error) {
	logger.Debug("Building sales summary", map[string]interface{}{
		"from": from,
		"to":   to,
	})

	orders, err := s.orderRepo.FindByDateRange(from, to)
	if err != nil {
		return nil, err
	}

	summary := &SalesSummary{From: from, To: to}
	for _, order := range orders {
		if order.Status == model.OrderStatusCancelled {
			continue
		}
		summary.OrderCount++
		summary.GrossRevenue += order.Subtotal
		summary.TotalDiscount += order.VoucherDiscount
		summary.NetRevenue += order.TotalAmount
		for _, item := range order.OrderItems {
			summary.ItemCount += item.Quantity
		}
	}

	logger.Info("Sales summary built", map[string]interface{}{
		"order_count": summary.OrderCount,
		"net_revenue": summary.NetRevenue,
	})
	return summary, nil
}

// ExportOrdersXLSX renders the orders in the window as a spreadsheet, one
// row per order line, for the owner's bookkeeping.
func (s *reportService) ExportOrdersXLSX(from, to time.Time) ([]byte, error) {
	logger.Info("Exporting orders to XLSX", map[string]interface{}{
		"from": from,
		"to":   to,
	})

	orders, err := s.orderRepo.FindByDateRange(from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Pesanan"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{
		"Order ID", "Tanggal", "Pelanggan", "Produk", "Hari", "Tambahan",
		"Jumlah", "Harga Satuan", "Subtotal Baris", "Voucher", "Diskon",
		"Ongkir", "Total Pesanan", "Pembayaran", "Status",
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	rowNum := 2
	for _, order := range orders {
		for _, item := range order.OrderItems {
			values := []interface{}{
				order.ID,
				order.CreatedAt.Format("2006-01-02 15:04"),
				order.User.Name,
				item.ProductName,
				string(item.OrderDay),
				item.AddonSnapshot,
				item.Quantity,
				item.Price,
				item.Price * float64(item.Quantity),
				order.VoucherCode,
				order.VoucherDiscount,
				order.DeliveryFee,
				order.TotalAmount,
				string(order.PaymentMethod),
				string(order.Status),
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
			rowNum++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to write XLSX report", err, nil)
		return nil, err
	}

	logger.Info("Orders exported to XLSX", map[string]interface{}{
		"order_count": len(orders),
		"row_count":   rowNum - 2,
	})
	return buf.Bytes(), nil
}
