package service

import (
	"context"
	"fmt"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/dukapos/register-api/internal/domain/repository"
	"github.com/dukapos/register-api/pkg/printer"
)

// ReceiptService composes printable receipts from finalized sales and sends
// them to the register's printer.
type ReceiptService struct {
	settingsRepo repository.SettingsRepository
	customerRepo repository.CustomerRepository
	printer      printer.Printer
	charWidth    int
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	settingsRepo repository.SettingsRepository,
	customerRepo repository.CustomerRepository,
	p printer.Printer,
	charWidth int,
) *ReceiptService {
	if charWidth <= 0 {
		charWidth = 42
	}
	return &ReceiptService{
		settingsRepo: settingsRepo,
		customerRepo: customerRepo,
		printer:      p,
		charWidth:    charWidth,
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// BuildReceipt assembles the receipt value object for a sale.
func (s *ReceiptService) BuildReceipt(ctx context.Context, sale *entity.Sale) (*entity.Receipt, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: settings.StoreName,
			Address:   settings.Address,
			Phone:     settings.Phone,
			TaxID:     settings.TaxID,
		},
		BillNo:            sale.BillNo,
		Date:              sale.SaleDate.Format("02/01/2006 15:04"),
		Register:          sale.RegisterID,
		PaymentMethod:     sale.PaymentMethod.String(),
		SubTotal:          float64(sale.SubTotal) / 100,
		PromotionDiscount: float64(sale.PromotionDiscount) / 100,
		PointDiscount:     float64(sale.PointDiscount) / 100,
		CouponDiscount:    float64(sale.CouponDiscount) / 100,
		Total:             float64(sale.Total) / 100,
		Received:          float64(sale.AmountReceived) / 100,
		Change:            float64(sale.Change) / 100,
		PointsRedeemed:    sale.PointsRedeemed,
		PointsEarned:      sale.PointsEarned,
		Footer:            settings.ReceiptFooter,
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		ri := entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: float64(item.UnitPrice) / 100,
			Total:     float64(item.Total) / 100,
			Discount:  float64(item.PromotionDiscount) / 100,
		}
		if item.PromotionTitle != nil {
			ri.Promotion = *item.PromotionTitle
		}
		receipt.Items = append(receipt.Items, ri)
	}

	if sale.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *sale.CustomerID)
		if err == nil && customer != nil {
			receipt.Customer = customer.Name
			receipt.PointsBalance = customer.Points
		}
	}

	return receipt, nil
}

// Render lays a receipt out as an ESC/POS document.
func (s *ReceiptService) Render(receipt *entity.Receipt) []byte {
	doc := printer.NewDocument(s.charWidth)
	doc.Init().
		SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(receipt.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if receipt.Header.Address != "" {
		doc.Text(receipt.Header.Address)
	}
	if receipt.Header.Phone != "" {
		doc.Text("Tel: " + receipt.Header.Phone)
	}
	if receipt.Header.TaxID != "" {
		doc.Text("PIN: " + receipt.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('=').
		KeyValue("Bill No", receipt.BillNo).
		KeyValue("Date", receipt.Date)
	if receipt.Register != "" {
		doc.KeyValue("Register", receipt.Register)
	}
	if receipt.Customer != "" {
		doc.KeyValue("Customer", receipt.Customer)
	}
	doc.Separator('-')

	for _, item := range receipt.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Promotion != "" && item.Discount > 0 {
			doc.TextF("   %s -%s", item.Promotion, money(item.Discount))
		}
	}

	doc.Separator('-').
		KeyValue("Subtotal", money(receipt.SubTotal))
	if receipt.PromotionDiscount > 0 {
		doc.KeyValue("Promotions", "-"+money(receipt.PromotionDiscount))
	}
	if receipt.PointDiscount > 0 {
		doc.KeyValue(fmt.Sprintf("Points (%d)", receipt.PointsRedeemed), "-"+money(receipt.PointDiscount))
	}
	if receipt.CouponDiscount > 0 {
		doc.KeyValue("Coupon", "-"+money(receipt.CouponDiscount))
	}

	doc.SetBold(true).
		KeyValue("TOTAL", money(receipt.Total)).
		SetBold(false).
		KeyValue("Received "+receipt.PaymentMethod, money(receipt.Received)).
		KeyValue("Change", money(receipt.Change))

	if receipt.PointsEarned > 0 || receipt.PointsRedeemed > 0 {
		doc.Separator('-').
			KeyValue("Points earned", fmt.Sprintf("%d", receipt.PointsEarned)).
			KeyValue("Points balance", fmt.Sprintf("%d", receipt.PointsBalance))
	}

	if receipt.Footer != "" {
		doc.Separator('=').
			SetAlign(printer.AlignCenter).
			Text(receipt.Footer)
	}

	doc.FeedLines(3).Cut()
	return doc.Bytes()
}

// PrintSale builds, renders and prints the receipt for a sale, opening the
// cash drawer for cash payments.
func (s *ReceiptService) PrintSale(ctx context.Context, sale *entity.Sale) error {
	receipt, err := s.BuildReceipt(ctx, sale)
	if err != nil {
		return err
	}

	data := s.Render(receipt)
	if sale.PaymentMethod.String() == "cash" {
		drawer := printer.NewDocument(s.charWidth)
		data = append(drawer.OpenDrawer().Bytes(), data...)
	}
	return s.printer.Print(data)
}
