package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/supporthub/support-desk/internal/audit"
	"github.com/supporthub/support-desk/internal/errs"
	"github.com/supporthub/support-desk/internal/model"
	"github.com/supporthub/support-desk/internal/service/customer"
	"github.com/supporthub/support-desk/internal/service/payment"
	"github.com/supporthub/support-desk/internal/service/ticket"
)

type mockAuditor struct {
	entries []audit.Entry
}

func (m *mockAuditor) Record(ctx context.Context, e audit.Entry) {
	m.entries = append(m.entries, e)
}

type mockSearcher struct {
	search func(ctx context.Context, term string) ([]model.Customer, error)
}

func (m *mockSearcher) Search(ctx context.Context, term string) ([]model.Customer, error) {
	return m.search(ctx, term)
}

type mockBalancer struct {
	balance func(ctx context.Context, id int64) (*customer.BalanceView, error)
}

func (m *mockBalancer) Balance(ctx context.Context, id int64) (*customer.BalanceView, error) {
	return m.balance(ctx, id)
}

type mockTicketCreator struct {
	create func(ctx context.Context, in ticket.CreateInput) (*model.Ticket, *model.Customer, error)
}

func (m *mockTicketCreator) Create(ctx context.Context, in ticket.CreateInput) (*model.Ticket, *model.Customer, error) {
	return m.create(ctx, in)
}

type mockPaymentRecorder struct {
	record func(ctx context.Context, in payment.Input) (*payment.Receipt, error)
}

func (m *mockPaymentRecorder) Record(ctx context.Context, in payment.Input) (*payment.Receipt, error) {
	return m.record(ctx, in)
}

func doRequest(h echo.HandlerFunc, req *http.Request, pathParams map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range pathParams {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	_ = h(c)

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestSearchCustomersHandler(t *testing.T) {
	auditor := &mockAuditor{}
	svc := &mockSearcher{
		search: func(ctx context.Context, term string) ([]model.Customer, error) {
			if term != "alice" {
				t.Errorf("term = %q, want alice", term)
			}
			return []model.Customer{
				{ID: 1, Name: "Alice Johnson", Email: "alice@example.com", Balance: decimal.RequireFromString("150.00")},
			}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/tools/customers/search?q=alice", nil)
	rec, body := doRequest(searchCustomersHandler(svc, auditor), req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["success"] != true || body["total"] != float64(1) {
		t.Errorf("body = %v", body)
	}
	customers := body["customers"].([]any)
	first := customers[0].(map[string]any)
	if first["balance_formatted"] != "$150.00" {
		t.Errorf("balance_formatted = %v", first["balance_formatted"])
	}
	if len(auditor.entries) != 1 || auditor.entries[0].Kind != model.AuditToolCall {
		t.Errorf("audit entries = %+v", auditor.entries)
	}
}

func TestSearchCustomersHandlerBlankTerm(t *testing.T) {
	svc := &mockSearcher{
		search: func(ctx context.Context, term string) ([]model.Customer, error) {
			return nil, errs.Validation("search term is required")
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/tools/customers/search", nil)
	rec, body := doRequest(searchCustomersHandler(svc, &mockAuditor{}), req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["success"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestCustomerBalanceHandler(t *testing.T) {
	now := time.Now()
	auditor := &mockAuditor{}
	svc := &mockBalancer{
		balance: func(ctx context.Context, id int64) (*customer.BalanceView, error) {
			return &customer.BalanceView{
				Customer: model.Customer{
					ID: id, Name: "Alice Johnson", Email: "alice@example.com",
					Balance: decimal.RequireFromString("175.00"),
				},
				BalanceFormatted: "$175.00",
				RecentPayments: []model.Payment{
					{Amount: decimal.RequireFromString("25.00"), Method: model.MethodCard, CreatedAt: now},
				},
				TicketCount:   2,
				PaymentCount:  3,
				LastPaymentAt: &now,
			}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, body := doRequest(customerBalanceHandler(svc, auditor), req, map[string]string{"id": "1"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	cust := body["customer"].(map[string]any)
	if cust["balance_formatted"] != "$175.00" {
		t.Errorf("balance_formatted = %v", cust["balance_formatted"])
	}
	summary := body["summary"].(map[string]any)
	if summary["ticket_count"] != float64(2) || summary["payment_count"] != float64(3) {
		t.Errorf("summary = %v", summary)
	}
	recent := body["recent_payments"].([]any)
	if len(recent) != 1 {
		t.Fatalf("recent_payments = %v", recent)
	}
	if recent[0].(map[string]any)["description"] != "payment" {
		t.Errorf("nil description must render as %q", "payment")
	}
	if len(auditor.entries) != 1 || auditor.entries[0].Kind != model.AuditQuery {
		t.Errorf("audit entries = %+v", auditor.entries)
	}
}

func TestCustomerBalanceHandlerBadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := doRequest(customerBalanceHandler(nil, &mockAuditor{}), req, map[string]string{"id": "abc"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCustomerBalanceHandlerNotFound(t *testing.T) {
	svc := &mockBalancer{
		balance: func(ctx context.Context, id int64) (*customer.BalanceView, error) {
			return nil, errs.NotFound("customer", id)
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := doRequest(customerBalanceHandler(svc, &mockAuditor{}), req, map[string]string{"id": "99"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCreateTicketHandler(t *testing.T) {
	auditor := &mockAuditor{}
	svc := &mockTicketCreator{
		create: func(ctx context.Context, in ticket.CreateInput) (*model.Ticket, *model.Customer, error) {
			if in.RawPriority != "urgent" {
				t.Errorf("RawPriority = %q, must pass through unparsed", in.RawPriority)
			}
			return &model.Ticket{
					ID: 42, CustomerID: in.CustomerID, Title: in.Title,
					Status: model.TicketOpen, Priority: model.PriorityMedium,
					CreatedAt: time.Now(),
				},
				&model.Customer{ID: in.CustomerID, Name: "Alice Johnson"},
				nil
		},
	}
	payload := `{"customer_id":1,"title":"Login broken","description":"cannot sign in","priority":"urgent"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/tools/tickets", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec, body := doRequest(createTicketHandler(svc, auditor), req, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	tk := body["ticket"].(map[string]any)
	if tk["number"] != "#000042" {
		t.Errorf("number = %v, want #000042", tk["number"])
	}
	conf, _ := body["confirmation"].(string)
	if !strings.Contains(conf, "#000042") || !strings.Contains(conf, "Alice Johnson") {
		t.Errorf("confirmation = %q", conf)
	}
	if len(auditor.entries) != 1 || auditor.entries[0].Kind != model.AuditCreation {
		t.Errorf("audit entries = %+v", auditor.entries)
	}
}

func TestCreateTicketHandlerMissingFields(t *testing.T) {
	svc := &mockTicketCreator{
		create: func(ctx context.Context, in ticket.CreateInput) (*model.Ticket, *model.Customer, error) {
			return nil, nil, errs.MissingFields("title", "description")
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/tools/tickets", strings.NewReader(`{"customer_id":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec, body := doRequest(createTicketHandler(svc, &mockAuditor{}), req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	errMsg, _ := body["error"].(string)
	if !strings.Contains(errMsg, "title") {
		t.Errorf("error = %q, should name the missing fields", errMsg)
	}
}

func TestRecordPaymentHandler(t *testing.T) {
	auditor := &mockAuditor{}
	svc := &mockPaymentRecorder{
		record: func(ctx context.Context, in payment.Input) (*payment.Receipt, error) {
			if !in.Amount.Equal(decimal.RequireFromString("50.00")) {
				t.Errorf("amount = %s, want 50.00", in.Amount)
			}
			if in.Method != model.MethodTransfer {
				t.Errorf("method = %q, unknown literal must coerce to transfer", in.Method)
			}
			return &payment.Receipt{
				Payment: model.Payment{
					ID: 9, Reference: "01J0000000000000000000TEST",
					CustomerID: in.CustomerID, Amount: in.Amount,
					Method: in.Method, CreatedAt: time.Now(),
				},
				BalanceBefore: decimal.RequireFromString("100.00"),
				BalanceAfter:  decimal.RequireFromString("150.00"),
			}, nil
		},
	}
	payload := `{"customer_id":1,"amount":"50.00","method":"wire"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/tools/payments", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec, body := doRequest(recordPaymentHandler(svc, auditor), req, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %v", rec.Code, body)
	}
	balances := body["balances"].(map[string]any)
	if balances["before"] != "100.00" || balances["after"] != "150.00" || balances["delta"] != "50.00" {
		t.Errorf("balances = %v", balances)
	}
	conf, _ := body["confirmation"].(string)
	if !strings.Contains(conf, "$50.00") || !strings.Contains(conf, "$150.00") {
		t.Errorf("confirmation = %q", conf)
	}
	if len(auditor.entries) != 1 || auditor.entries[0].Kind != model.AuditPayment {
		t.Errorf("audit entries = %+v", auditor.entries)
	}
}

func TestRecordPaymentHandlerBadInput(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing amount", `{"customer_id":1}`},
		{"missing customer", `{"amount":"10.00"}`},
		{"non-decimal amount", `{"customer_id":1,"amount":"ten"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/tools/payments", strings.NewReader(tt.payload))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec, _ := doRequest(recordPaymentHandler(nil, &mockAuditor{}), req, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestRecordPaymentHandlerValidationFromService(t *testing.T) {
	svc := &mockPaymentRecorder{
		record: func(ctx context.Context, in payment.Input) (*payment.Receipt, error) {
			return nil, errs.Validation("amount exceeds the maximum of 999999.99")
		},
	}
	payload := `{"customer_id":1,"amount":"1000000.00"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/tools/payments", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec, _ := doRequest(recordPaymentHandler(svc, &mockAuditor{}), req, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
