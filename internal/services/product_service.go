package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"canteenbooks/internal/domain"
	"canteenbooks/internal/repos"
	"canteenbooks/internal/validate"
)

// MaxStock bounds the units held of one product.
const MaxStock = 1_000_000

type ProductService struct {
	Book
}

func NewProductService(b Book) *ProductService {
	return &ProductService{Book: b}
}

type ProductInput struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName" validate:"required"`
	ProductCategory string          `json:"productCategory" validate:"required"`
	BuyingPrice     decimal.Decimal `json:"buyingPrice"`
	SellingPrice    decimal.Decimal `json:"sellingPrice"`
}

func (in ProductInput) clean() (ProductInput, error) {
	var ok bool
	if in.ProductName, ok = validate.Name(in.ProductName); !ok {
		return in, domain.Invalid("productName", "enter a product name of at most 100 characters")
	}
	if in.ProductCategory, ok = validate.Name(in.ProductCategory); !ok {
		return in, domain.Invalid("productCategory", "enter a category of at most 100 characters")
	}
	if in.BuyingPrice.IsNegative() {
		return in, domain.Invalid("buyingPrice", "buying price cannot be negative")
	}
	if in.SellingPrice.IsNegative() {
		return in, domain.Invalid("sellingPrice", "selling price cannot be negative")
	}
	in.BuyingPrice = in.BuyingPrice.Round(2)
	in.SellingPrice = in.SellingPrice.Round(2)
	return in, nil
}

func (s *ProductService) Register(in ProductInput) (domain.Product, error) {
	id, ok := validate.ProductID(in.ProductID)
	if !ok {
		return domain.Product{}, domain.Invalid("productId", "use letters, digits, - or _")
	}
	in, err := in.clean()
	if err != nil {
		return domain.Product{}, err
	}
	var out domain.Product
	err = s.Store.WithLock(func() error {
		products, err := s.Store.Products()
		if err != nil {
			return err
		}
		if findProduct(products, id) >= 0 {
			return domain.Invalid("productId", "product "+id+" already exists")
		}
		out = domain.Product{
			ProductID:       id,
			ProductName:     in.ProductName,
			ProductCategory: in.ProductCategory,
			BuyingPrice:     in.BuyingPrice,
			SellingPrice:    in.SellingPrice,
			PriceHistory:    []domain.PriceChange{},
		}
		return s.Store.Save(repos.Put(repos.Products, append(products, out)))
	})
	return out, err
}

// Edit rewrites a product that has never been stocked or sold. After that
// only prices may change, through UpdatePrices.
func (s *ProductService) Edit(id string, in ProductInput) (domain.Product, error) {
	in, err := in.clean()
	if err != nil {
		return domain.Product{}, err
	}
	var out domain.Product
	err = s.Store.WithLock(func() error {
		products, sold, i, err := s.loadOne(id)
		if err != nil {
			return err
		}
		p := products[i]
		if sold[strings.ToUpper(p.ProductID)] || p.Stock > 0 {
			return domain.Denied("edit product", "editing is disabled after stocking or sales")
		}
		p.ProductName = in.ProductName
		p.ProductCategory = in.ProductCategory
		p.BuyingPrice = in.BuyingPrice
		p.SellingPrice = in.SellingPrice
		products[i] = p
		out = p
		return s.Store.Save(repos.Put(repos.Products, products))
	})
	return out, err
}

// UpdatePrices changes prices on a product already in trade and records
// each change in its price history.
func (s *ProductService) UpdatePrices(id string, buying, selling decimal.Decimal) (domain.Product, error) {
	if buying.IsNegative() || selling.IsNegative() {
		return domain.Product{}, domain.Invalid("price", "prices cannot be negative")
	}
	buying, selling = buying.Round(2), selling.Round(2)
	var out domain.Product
	err := s.Store.WithLock(func() error {
		products, sold, i, err := s.loadOne(id)
		if err != nil {
			return err
		}
		p := products[i]
		if !sold[strings.ToUpper(p.ProductID)] && p.Stock == 0 {
			return domain.Denied("update prices", "use Edit to change this product, it has not been sold or stocked yet")
		}
		at := s.Clock.Stamp().Format(time.RFC3339Nano)
		p.PriceHistory = slices.Clone(p.PriceHistory)
		if !buying.Equal(p.BuyingPrice) {
			p.PriceHistory = append(p.PriceHistory, domain.PriceChange{Field: "buyingPrice", OldValue: p.BuyingPrice, NewValue: buying, ChangedAt: at})
			p.BuyingPrice = buying
		}
		if !selling.Equal(p.SellingPrice) {
			p.PriceHistory = append(p.PriceHistory, domain.PriceChange{Field: "sellingPrice", OldValue: p.SellingPrice, NewValue: selling, ChangedAt: at})
			p.SellingPrice = selling
		}
		products[i] = p
		out = p
		return s.Store.Save(repos.Put(repos.Products, products))
	})
	return out, err
}

// Restock adds qty to stock and books what it cost as a restocking expense
// on the working day.
func (s *ProductService) Restock(id string, qty int) (domain.Product, error) {
	if qty <= 0 {
		return domain.Product{}, domain.Invalid("quantity", "quantity must be a positive whole number")
	}
	if qty > MaxStock {
		return domain.Product{}, domain.Invalid("quantity", "quantity must be at most "+strconv.Itoa(MaxStock))
	}
	var out domain.Product
	err := s.Store.WithLock(func() error {
		products, _, i, err := s.loadOne(id)
		if err != nil {
			return err
		}
		if products[i].Stock > MaxStock-qty {
			return domain.Invalid("quantity", "stock would exceed "+strconv.Itoa(MaxStock))
		}
		expenses, err := s.Store.Expenses()
		if err != nil {
			return err
		}
		p := products[i]
		p.Stock += qty
		products[i] = p
		out = p
		expenses = append(expenses, domain.DailyExpense{
			ID:            domain.ID(newID("E")),
			Date:          s.today().String(),
			ExpenseTypeID: domain.RestockingTypeID,
			Amount:        p.BuyingPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2),
			Note:          fmt.Sprintf("Restocked %d x %s", qty, p.ProductName),
		})
		return s.Store.Save(repos.Put(repos.Products, products), repos.Put(repos.DailyExpenses, expenses))
	})
	return out, err
}

// SetStock overwrites the stock count. Once a product has sold, stock only
// moves through sales and restocks.
func (s *ProductService) SetStock(id string, qty int) (domain.Product, error) {
	if qty < 0 || qty > MaxStock {
		return domain.Product{}, domain.Invalid("stock", "stock must be between 0 and "+strconv.Itoa(MaxStock))
	}
	var out domain.Product
	err := s.Store.WithLock(func() error {
		products, sold, i, err := s.loadOne(id)
		if err != nil {
			return err
		}
		if sold[strings.ToUpper(products[i].ProductID)] {
			return domain.Denied("set stock", "stock cannot be overwritten after a sale, restock instead")
		}
		products[i].Stock = qty
		out = products[i]
		return s.Store.Save(repos.Put(repos.Products, products))
	})
	return out, err
}

// List returns every product with HasSale derived from the sales on record.
func (s *ProductService) List() ([]domain.Product, error) {
	products, err := s.Store.Products()
	if err != nil {
		return nil, err
	}
	sales, err := s.Store.Sales()
	if err != nil {
		return nil, err
	}
	sold := soldProducts(sales)
	for i := range products {
		products[i].HasSale = sold[strings.ToUpper(products[i].ProductID)]
	}
	return products, nil
}

func (s *ProductService) Get(id string) (domain.Product, error) {
	products, err := s.List()
	if err != nil {
		return domain.Product{}, err
	}
	i := findProduct(products, id)
	if i < 0 {
		return domain.Product{}, domain.NotFound("product", id)
	}
	return products[i], nil
}

func (s *ProductService) PriceHistory(id string) ([]domain.PriceChange, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if p.PriceHistory == nil {
		return []domain.PriceChange{}, nil
	}
	return p.PriceHistory, nil
}

// Categories lists distinct product categories, sorted.
func (s *ProductService) Categories() ([]string, error) {
	products, err := s.Store.Products()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, p := range products {
		if p.ProductCategory != "" && !seen[p.ProductCategory] {
			seen[p.ProductCategory] = true
			out = append(out, p.ProductCategory)
		}
	}
	slices.Sort(out)
	return out, nil
}

// loadOne reads products and sales and locates id. Must run under WithLock.
func (s *ProductService) loadOne(id string) ([]domain.Product, map[string]bool, int, error) {
	products, err := s.Store.Products()
	if err != nil {
		return nil, nil, -1, err
	}
	i := findProduct(products, id)
	if i < 0 {
		return nil, nil, -1, domain.NotFound("product", id)
	}
	sales, err := s.Store.Sales()
	if err != nil {
		return nil, nil, -1, err
	}
	return products, soldProducts(sales), i, nil
}
