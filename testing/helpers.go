// Package testing provides fixtures and in-memory store doubles for the
// service and handler tests.
package testing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
)

func MockContext() context.Context {
	return context.Background()
}

// MockInvoice is a pending factoring invoice whose line items sum to the
// invoice amount: 2 x 75000 + 3 x 45000 = 285000.
func MockInvoice() *models.Invoice {
	id := uuid.New()
	return &models.Invoice{
		ID:            id,
		InvoiceNumber: "INV-2025-001",
		Seller: models.Seller{
			Name:  "Tech Manufacturing Ltd",
			GSTIN: "29ABCDE1234F1Z5",
		},
		Amount:        decimal.NewFromInt(285000),
		IssueDate:     time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
		Description:   "Industrial components, April delivery",
		FactoringType: models.FactoringTypeFactoring,
		Status:        models.InvoiceStatusPending,
		Items: []models.LineItem{
			{
				InvoiceID:   id,
				Description: "CNC machined housings",
				Quantity:    2,
				Rate:        decimal.NewFromInt(75000),
				Amount:      decimal.NewFromInt(150000),
			},
			{
				InvoiceID:   id,
				Description: "Precision gear assemblies",
				Quantity:    3,
				Rate:        decimal.NewFromInt(45000),
				Amount:      decimal.NewFromInt(135000),
			},
		},
		Timeline: []models.TimelineEvent{
			{
				InvoiceID: id,
				Action:    "uploaded",
				Date:      time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC),
				Actor:     "seller@techmanufacturing.example",
			},
		},
	}
}

// MockFactoringRequest is an open request with no bid yet.
func MockFactoringRequest() *models.FactoringRequest {
	return &models.FactoringRequest{
		ID:            uuid.New(),
		InvoiceID:     uuid.New(),
		InvoiceNumber: "INV-2025-001",
		Amount:        decimal.NewFromInt(285000),
		UploadDate:    time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
		FactoringType: models.FactoringTypeFactoring,
		Status:        models.RequestStatusPendingBid,
		Seller: models.SellerProfile{
			Name:            "Tech Manufacturing Ltd",
			CreditScore:     720,
			YearsInBusiness: 8,
			ContactPerson:   "R. Iyer",
			Email:           "accounts@techmanufacturing.example",
			Phone:           "+911234567890",
		},
		Buyer: models.BuyerRef{
			Name:         "Metro Retail Group",
			CreditRating: "A",
		},
	}
}

func MockSubmitBidRequest() models.SubmitBidRequest {
	return models.SubmitBidRequest{
		InterestRate:       decimal.NewFromFloat(12.5),
		AdvanceAmount:      decimal.NewFromInt(256500),
		ValidityPeriodDays: 30,
		Terms:              "90% advance, recourse on default",
	}
}

// MockDuePayment is a financed invoice with contactable buyer details.
func MockDuePayment() *models.DuePayment {
	return &models.DuePayment{
		ID:            uuid.New(),
		InvoiceID:     uuid.New(),
		InvoiceNumber: "INV-2025-001",
		Amount:        decimal.NewFromInt(285000),
		IssueDate:     time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
		Buyer: models.BuyerContact{
			Name:          "Metro Retail Group",
			CreditRating:  "A",
			ContactPerson: "S. Kapoor",
			Email:         "payables@metroretail.example",
			Phone:         "+919876543210",
		},
		FactoringType: models.FactoringTypeFactoring,
		Status:        models.PaymentStatusUpcoming,
	}
}

// InMemoryInvoiceStore implements stores.InvoiceStore for tests.
type InMemoryInvoiceStore struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*models.Invoice
	// Err, when set, is returned by every method.
	Err error
}

func NewInMemoryInvoiceStore(invoices ...*models.Invoice) *InMemoryInvoiceStore {
	s := &InMemoryInvoiceStore{invoices: make(map[uuid.UUID]*models.Invoice)}
	for _, inv := range invoices {
		s.invoices[inv.ID] = inv
	}
	return s
}

func (s *InMemoryInvoiceStore) List(ctx context.Context) ([]*models.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	return out, nil
}

func (s *InMemoryInvoiceStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return inv, nil
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, invoice *models.Invoice) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[invoice.ID] = invoice
	return nil
}

func (s *InMemoryInvoiceStore) SaveDecision(ctx context.Context, invoice *models.Invoice, event models.TimelineEvent) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.invoices[invoice.ID]
	if !ok {
		return ledger.ErrNotFound
	}
	if stored.Status != models.InvoiceStatusPending {
		return &ledger.InvalidStateError{
			Entity:  "invoice",
			ID:      invoice.ID.String(),
			Current: string(stored.Status),
			Wanted:  string(models.InvoiceStatusPending),
		}
	}
	stored.Status = invoice.Status
	stored.Timeline = append(stored.Timeline, event)
	return nil
}

// InMemoryRequestStore implements stores.RequestStore for tests.
type InMemoryRequestStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*models.FactoringRequest
	Err      error
}

func NewInMemoryRequestStore(requests ...*models.FactoringRequest) *InMemoryRequestStore {
	s := &InMemoryRequestStore{requests: make(map[uuid.UUID]*models.FactoringRequest)}
	for _, req := range requests {
		s.requests[req.ID] = req
	}
	return s
}

func (s *InMemoryRequestStore) List(ctx context.Context) ([]*models.FactoringRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.FactoringRequest, 0, len(s.requests))
	for _, req := range s.requests {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	return out, nil
}

func (s *InMemoryRequestStore) ListAvailable(ctx context.Context) ([]*models.FactoringRequest, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	open := make([]*models.FactoringRequest, 0, len(all))
	for _, req := range all {
		if req.Status == models.RequestStatusPendingBid {
			open = append(open, req)
		}
	}
	return open, nil
}

func (s *InMemoryRequestStore) GetByID(ctx context.Context, id uuid.UUID) (*models.FactoringRequest, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return req, nil
}

func (s *InMemoryRequestStore) Create(ctx context.Context, req *models.FactoringRequest) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = req
	return nil
}

func (s *InMemoryRequestStore) PlaceBid(ctx context.Context, requestID uuid.UUID, bid *models.Bid) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return ledger.ErrNotFound
	}
	if req.Status != models.RequestStatusPendingBid || req.Bid != nil {
		return ledger.NewConflictError("request %s already has a bid", requestID)
	}
	req.Status = models.RequestStatusBidPlaced
	req.Bid = bid
	return nil
}

func (s *InMemoryRequestStore) UpdateStatus(ctx context.Context, requestID uuid.UUID, from, to models.RequestStatus) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return ledger.ErrNotFound
	}
	if req.Status != from {
		return ledger.NewConflictError("request %s is %s, expected %s", requestID, req.Status, from)
	}
	req.Status = to
	return nil
}

// InMemoryDuePaymentStore implements stores.DuePaymentStore for tests.
type InMemoryDuePaymentStore struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*models.DuePayment
	Err      error
}

func NewInMemoryDuePaymentStore(payments ...*models.DuePayment) *InMemoryDuePaymentStore {
	s := &InMemoryDuePaymentStore{payments: make(map[uuid.UUID]*models.DuePayment)}
	for _, p := range payments {
		s.payments[p.ID] = p
	}
	return s
}

func (s *InMemoryDuePaymentStore) List(ctx context.Context) ([]*models.DuePayment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.DuePayment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *InMemoryDuePaymentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.DuePayment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return p, nil
}

func (s *InMemoryDuePaymentStore) Create(ctx context.Context, payment *models.DuePayment) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.ID] = payment
	return nil
}

func (s *InMemoryDuePaymentStore) AppendAttempt(ctx context.Context, paymentID uuid.UUID, attempt models.CollectionAttempt) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return ledger.ErrNotFound
	}
	p.Attempts = append(p.Attempts, attempt)
	return nil
}

// InMemoryTransactionStore implements stores.TransactionStore for tests.
type InMemoryTransactionStore struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*models.Transaction
	Err          error
}

func NewInMemoryTransactionStore() *InMemoryTransactionStore {
	return &InMemoryTransactionStore{transactions: make(map[uuid.UUID]*models.Transaction)}
}

func (s *InMemoryTransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *tx
	s.transactions[tx.ID] = &stored
	return nil
}

func (s *InMemoryTransactionStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus, providerName, providerRef string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return ledger.ErrNotFound
	}
	tx.Status = status
	if providerName != "" {
		tx.ProviderName = providerName
	}
	if providerRef != "" {
		tx.ProviderRef = providerRef
	}
	return nil
}

func (s *InMemoryTransactionStore) ListByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.Transaction, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.Status == status {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionTime.After(out[j].TransactionTime) })
	return out, nil
}

// InMemoryUserStore implements stores.UserStore for tests.
type InMemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	Err   error
}

func NewInMemoryUserStore(users ...*models.User) *InMemoryUserStore {
	s := &InMemoryUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.Email] = u
	}
	return s
}

func (s *InMemoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return u, nil
}

func (s *InMemoryUserStore) Create(ctx context.Context, user *models.User) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Email] = user
	return nil
}

// ErrDelivery is what FakeNotifier returns while it is still failing.
var ErrDelivery = errors.New("delivery failed")

// FakeNotifier records deliveries and can be told to fail a fixed number of
// times before succeeding.
type FakeNotifier struct {
	mu        sync.Mutex
	Emails    []string
	SMS       []string
	FailTimes int
	calls     int
}

func (n *FakeNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	return n.record(&n.Emails, to)
}

func (n *FakeNotifier) SendSMS(ctx context.Context, phone, message string) error {
	return n.record(&n.SMS, phone)
}

func (n *FakeNotifier) record(dest *[]string, target string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.calls <= n.FailTimes {
		return ErrDelivery
	}
	*dest = append(*dest, target)
	return nil
}

func (n *FakeNotifier) Calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}
