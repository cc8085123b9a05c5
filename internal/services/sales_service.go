package services

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"canteenbooks/internal/dates"
	"canteenbooks/internal/domain"
	"canteenbooks/internal/ledger"
	"canteenbooks/internal/repos"
)

// SaleDeleteWindow is how long after recording a sale may be undone.
const SaleDeleteWindow = ledger.EditWindow

type SalesService struct {
	Book
}

func NewSalesService(b Book) *SalesService {
	return &SalesService{Book: b}
}

// Record sells qty units of a product: stock goes down and the sale is
// filed under the working day, in one write.
func (s *SalesService) Record(productID string, qty int) (domain.Sale, error) {
	if qty <= 0 {
		return domain.Sale{}, domain.Invalid("quantity", "quantity must be a positive whole number")
	}
	var out domain.Sale
	err := s.Store.WithLock(func() error {
		products, err := s.Store.Products()
		if err != nil {
			return err
		}
		i := findProduct(products, productID)
		if i < 0 {
			return domain.NotFound("product", productID)
		}
		sales, err := s.Store.Sales()
		if err != nil {
			return err
		}
		p := products[i]
		if p.Stock < qty {
			return domain.Invalid("quantity", "not enough stock, only "+strconv.Itoa(p.Stock)+" left")
		}
		q := decimal.NewFromInt(int64(qty))
		out = domain.Sale{
			SaleID:            newID("S"),
			ProductID:         p.ProductID,
			ProductName:       p.ProductName,
			ProductCategory:   p.ProductCategory,
			Quantity:          qty,
			BuyingPrice:       p.BuyingPrice,
			SellingPrice:      p.SellingPrice,
			TotalBuyingPrice:  p.BuyingPrice.Mul(q).Round(2),
			TotalSellingPrice: p.SellingPrice.Mul(q).Round(2),
			Profit:            p.SellingPrice.Sub(p.BuyingPrice).Mul(q).Round(2),
			Date:              s.today().String(),
			Timestamp:         s.Clock.Now().UnixMilli(),
		}
		p.Stock -= qty
		p.HasSale = true
		products[i] = p
		return s.Store.Save(repos.Put(repos.Products, products), repos.Put(repos.Sales, append(sales, out)))
	})
	return out, err
}

// Delete undoes a sale recorded less than SaleDeleteWindow ago and puts
// its quantity back on the shelf.
func (s *SalesService) Delete(saleID string) error {
	return s.Store.WithLock(func() error {
		sales, err := s.Store.Sales()
		if err != nil {
			return err
		}
		i := slices.IndexFunc(sales, func(x domain.Sale) bool { return x.SaleID == saleID })
		if i < 0 {
			return domain.NotFound("sale", saleID)
		}
		sale := sales[i]
		age := s.Clock.Now().Sub(time.UnixMilli(sale.Timestamp))
		if age >= SaleDeleteWindow {
			return domain.Denied("delete sale", "sales can only be deleted within 24 hours")
		}
		products, err := s.Store.Products()
		if err != nil {
			return err
		}
		sales = slices.Delete(sales, i, i+1)
		if j := findProduct(products, sale.ProductID); j >= 0 {
			products[j].Stock += sale.Quantity
			products[j].HasSale = soldProducts(sales)[strings.ToUpper(products[j].ProductID)]
		}
		return s.Store.Save(repos.Put(repos.Sales, sales), repos.Put(repos.Products, products))
	})
}

type SaleList struct {
	Sales         []domain.Sale   `json:"sales"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalBuying   decimal.Decimal `json:"totalBuying"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
}

func newSaleList(sales []domain.Sale) SaleList {
	l := SaleList{Sales: sales}
	for _, x := range sales {
		l.TotalQuantity += x.Quantity
		l.TotalSales = l.TotalSales.Add(x.TotalSellingPrice)
		l.TotalBuying = l.TotalBuying.Add(x.TotalBuyingPrice)
		l.TotalProfit = l.TotalProfit.Add(x.Profit)
	}
	return l
}

func (s *SalesService) ForDay(day dates.Day) (SaleList, error) {
	return s.Filter(SaleFilter{Period: PeriodCustom, From: day, To: day})
}

type SaleFilter struct {
	Period    string    `query:"period"`
	ProductID string    `query:"productId"`
	Category  string    `query:"category"`
	From      dates.Day `query:"-"`
	To        dates.Day `query:"-"`
}

// Filter lists sales in a period, optionally narrowed to one product or
// category, newest first.
func (s *SalesService) Filter(f SaleFilter) (SaleList, error) {
	from, to, err := s.bounds(f.Period, f.From, f.To)
	if err != nil {
		return SaleList{}, err
	}
	sales, err := s.Store.Sales()
	if err != nil {
		return SaleList{}, err
	}
	out := make([]domain.Sale, 0, len(sales))
	for _, x := range sales {
		if f.ProductID != "" && !strings.EqualFold(x.ProductID, strings.TrimSpace(f.ProductID)) {
			continue
		}
		if f.Category != "" && x.ProductCategory != f.Category {
			continue
		}
		if !ledger.InRange(x.Date, from, to, s.loc()) {
			continue
		}
		out = append(out, x)
	}
	slices.SortStableFunc(out, func(a, b domain.Sale) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		}
		return 0
	})
	return newSaleList(out), nil
}
