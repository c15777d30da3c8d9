package stock_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stock-rentals-api/internal/domain/entity"
	"github.com/jhoicas/stock-rentals-api/internal/domain/repository"
	"github.com/jhoicas/stock-rentals-api/pkg/search"
)

// memStore estado en memoria compartido por los repos fake. Las entidades se
// guardan por valor; los getters devuelven copias para imitar a un repo real.
type memStore struct {
	products     map[string]entity.Product
	customers    map[string]entity.Customer
	stocks       map[string]entity.Stock
	movements    []entity.StockMovement
	transactions map[string]entity.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		products:     make(map[string]entity.Product),
		customers:    make(map[string]entity.Customer),
		stocks:       make(map[string]entity.Stock),
		transactions: make(map[string]entity.Transaction),
	}
}

// snapshot copia profunda del estado, para simular rollback en el TxRunner fake.
func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.transactions {
		v.Items = append([]entity.TransactionItem(nil), v.Items...)
		c.transactions[k] = v
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.customers = from.customers
	s.stocks = from.stocks
	s.movements = from.movements
	s.transactions = from.transactions
}

func (s *memStore) addProduct(p entity.Product) { s.products[p.ID] = p }

func (s *memStore) setStock(productID string, onHand int64) {
	s.stocks[productID] = entity.Stock{ProductID: productID, OnHand: onHand}
}

func (s *memStore) onHand(productID string) int64 {
	return s.stocks[productID].OnHand
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = *p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
func (r *fakeProductRepo) GetBySerialNumber(serial string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SerialNumber == serial {
			return &p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = *p; return nil }
func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		p := p
		out = append(out, &p)
	}
	return out, nil
}
func (r *fakeProductRepo) HasTransactions(productID string) (bool, error) {
	for _, tx := range r.s.transactions {
		for _, item := range tx.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}
func (r *fakeProductRepo) Delete(id string) error { delete(r.s.products, id); return nil }

type fakeCustomerRepo struct{ s *memStore }

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { r.s.customers[c.ID] = *c; return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}
func (r *fakeCustomerRepo) GetByName(name string) (*entity.Customer, error) {
	for _, c := range r.s.customers {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}
func (r *fakeCustomerRepo) List(limit, offset int) ([]*entity.Customer, error) { return nil, nil }
func (r *fakeCustomerRepo) Update(c *entity.Customer) error                    { r.s.customers[c.ID] = *c; return nil }
func (r *fakeCustomerRepo) Delete(id string) error                             { delete(r.s.customers, id); return nil }

type fakeStockRepo struct{ s *memStore }

func (r *fakeStockRepo) Get(productID string) (*entity.Stock, error) {
	st, ok := r.s.stocks[productID]
	if !ok {
		return &entity.Stock{ProductID: productID}, nil
	}
	return &st, nil
}
func (r *fakeStockRepo) GetForUpdate(productID string) (*entity.Stock, error) {
	return r.Get(productID)
}
func (r *fakeStockRepo) Upsert(stock *entity.Stock) error {
	r.s.stocks[stock.ProductID] = *stock
	return nil
}

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, *m)
	return nil
}
func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		out = append(out, &m)
	}
	return out, nil
}

type fakeTransactionRepo struct{ s *memStore }

func (r *fakeTransactionRepo) Create(tx *entity.Transaction) error {
	cp := *tx
	cp.Items = append([]entity.TransactionItem(nil), tx.Items...)
	r.s.transactions[tx.ID] = cp
	return nil
}
func (r *fakeTransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	tx, ok := r.s.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := tx
	cp.Items = append([]entity.TransactionItem(nil), tx.Items...)
	return &cp, nil
}
func (r *fakeTransactionRepo) GetByIDForUpdate(id string) (*entity.Transaction, error) {
	return r.GetByID(id)
}
func (r *fakeTransactionRepo) UpdateReturnState(tx *entity.Transaction) error {
	return r.Create(tx)
}
func (r *fakeTransactionRepo) List(filter repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	var all []*entity.Transaction
	for id := range r.s.transactions {
		tx, _ := r.GetByID(id)
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Search != "" && !search.Matches(tx.SearchText, filter.Search) {
			continue
		}
		all = append(all, tx)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].TransactionDate.Equal(all[j].TransactionDate) {
			return all[i].TransactionDate.After(all[j].TransactionDate)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}
func (r *fakeTransactionRepo) ListOverdueRentals(now time.Time, limit int) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for id := range r.s.transactions {
		tx, _ := r.GetByID(id)
		if tx.Type != entity.TransactionRented || tx.Status != entity.StatusActive {
			continue
		}
		if tx.ExpectedReturnDate == nil || !tx.ExpectedReturnDate.Before(now) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// fakeTxRunner ejecuta el callback contra el estado en memoria; ante error
// restaura el snapshot previo, imitando el rollback de una transacción real.
type fakeTxRunner struct{ s *memStore }

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	txRepo repository.TransactionRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.s.snapshot()
	err := fn(
		&fakeStockRepo{r.s},
		&fakeMovementRepo{r.s},
		&fakeTransactionRepo{r.s},
		&fakeCustomerRepo{r.s},
		&fakeProductRepo{r.s},
	)
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// fakeIdempotency deduplicación en memoria.
type fakeIdempotency struct {
	seen map[string]bool
	err  error
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{seen: make(map[string]bool)}
}

func (f *fakeIdempotency) SetIdempotency(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}
