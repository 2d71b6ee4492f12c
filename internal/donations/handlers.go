package donations

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/httputil"
	"github.com/gracecity/church-backend/internal/payments"
	"github.com/gracecity/church-backend/internal/store"
)

const maxWebhookBytes = 1 << 20

const msgProviderUnavailable = "Payment provider is unavailable, please try again later"

var errNotFound = apperr.NotFound("Donation not found")

type createRequest struct {
	DonorName      string `json:"donorName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Purpose        string `json:"purpose"`
	Message        string `json:"message"`
	IsAnonymous    bool   `json:"isAnonymous"`
	PaymentChannel string `json:"paymentChannel"`
}

func (req createRequest) donation() (Donation, error) {
	d := Donation{
		DonorName:   strings.TrimSpace(req.DonorName),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       strings.TrimSpace(req.Phone),
		Amount:      req.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Purpose:     strings.ToLower(strings.TrimSpace(req.Purpose)),
		Message:     strings.TrimSpace(req.Message),
		IsAnonymous: req.IsAnonymous,
		Status:      StatusPending,
	}
	if d.DonorName == "" {
		return d, apperr.Validation("Name is required")
	}
	addr, err := mail.ParseAddress(d.Email)
	if err != nil {
		return d, apperr.Validation("A valid email is required")
	}
	d.Email = addr.Address
	if d.Amount <= 0 {
		return d, apperr.Validation("Amount must be greater than zero")
	}
	if d.Currency == "" {
		d.Currency = DefaultCurrency
	}
	if len(d.Currency) != 3 {
		return d, apperr.Validation("Currency must be a three-letter code")
	}

	switch strings.ToLower(strings.TrimSpace(req.PaymentChannel)) {
	case channelBankTransfer, ChannelManual:
		d.PaymentChannel = ChannelManual
	case "", ChannelPaystack, "card":
		d.PaymentChannel = ChannelPaystack
	default:
		return d, apperr.Validation("Unsupported payment channel")
	}
	return d, nil
}

// Create records a donation. Manual transfers are stored without contacting the payment
// provider; card donations receive a hosted checkout URL.
func (m *Module) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	d, err := req.donation()
	if err != nil {
		httputil.Error(w, err)
		return
	}
	s, err := m.open(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	d.Reference = payments.NewReference()
	if err := s.Create(r.Context(), &d); err != nil {
		httputil.Error(w, err)
		return
	}

	if d.PaymentChannel == ChannelManual {
		httputil.Success(w, http.StatusCreated, httputil.Fields{
			"donation":       d,
			"reference":      d.Reference,
			"paymentChannel": ChannelManual,
			"message":        "Please complete your bank transfer using this reference",
		})
		return
	}

	checkout, err := m.provider.InitializeTransaction(r.Context(), payments.InitRequest{
		Donor:     payments.Donor{Name: d.DonorName, Email: d.Email, Phone: d.Phone},
		Amount:    d.Amount,
		Currency:  d.Currency,
		Reference: d.Reference,
		Metadata:  map[string]string{"donationId": d.ID, "purpose": d.Purpose},
	})
	if err != nil {
		d.Status = StatusFailed
		if serr := s.Save(r.Context(), &d); serr != nil {
			log.Printf("[donations] mark %s failed: %v", d.Reference, serr)
		}
		httputil.Error(w, apperr.Unavailable(msgProviderUnavailable, err))
		return
	}

	d.AuthorizationURL = checkout.AuthorizationURL
	if err := s.Save(r.Context(), &d); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusCreated, httputil.Fields{
		"donation":         d,
		"reference":        d.Reference,
		"paymentChannel":   ChannelPaystack,
		"authorizationUrl": d.AuthorizationURL,
	})
}

// Verify refreshes a card donation from the provider after the donor returns from checkout.
// The route is public, so only the receipt is returned.
func (m *Module) Verify(w http.ResponseWriter, r *http.Request) {
	s, err := m.open(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	d, err := byReference(r.Context(), s, chi.URLParam(r, "reference"))
	if err != nil {
		httputil.Error(w, notFound(err))
		return
	}

	if d.PaymentChannel == ChannelPaystack && d.Status == StatusPending {
		v, err := m.provider.VerifyTransaction(r.Context(), d.Reference)
		if err != nil {
			httputil.Error(w, apperr.Unavailable(msgProviderUnavailable, err))
			return
		}
		if applyVerification(&d, v, m.now()) {
			if err := s.Save(r.Context(), &d); err != nil {
				httputil.Error(w, err)
				return
			}
		}
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"donation": d.receipt(), "status": d.Status})
}

// Webhook applies signed provider events. Unknown references and event types are
// acknowledged so the provider stops retrying.
func (m *Module) Webhook(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ev, err := payments.ConstructEvent(raw, r.Header.Get(payments.SignatureHeader), m.webhookSecret)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			httputil.Fail(w, http.StatusUnauthorized, "Invalid signature")
			return
		}
		httputil.Fail(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	switch ev.Type {
	case payments.EventChargeSuccess, payments.EventChargeFailed, payments.EventRefundProcessed:
	default:
		httputil.Success(w, http.StatusOK, httputil.Fields{"received": true})
		return
	}

	data, err := ev.Decode()
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}
	s, err := m.open(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	d, err := byReference(r.Context(), s, data.Ref())
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("[donations] webhook %s for unknown reference %q", ev.Type, data.Ref())
		httputil.Success(w, http.StatusOK, httputil.Fields{"received": true})
		return
	}
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if applyEvent(&d, ev.Type, data, m.now()) {
		if err := s.Save(r.Context(), &d); err != nil {
			httputil.Error(w, err)
			return
		}
		log.Printf("[donations] %s: %s -> %s", ev.Type, d.Reference, d.Status)
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"received": true})
}

// List serves the admin listing filtered by status, channel and purpose.
func (m *Module) List(w http.ResponseWriter, r *http.Request) {
	s, err := m.open(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	q := r.URL.Query()
	query := store.Query[Donation]{
		Order: store.Newest[Donation](store.DescFromQuery(q)),
		Page:  store.PageFromQuery(q),
	}
	if v := q.Get("status"); v != "" {
		query.Filters = append(query.Filters, store.Equal("status", v, func(d *Donation) string { return d.Status }))
	}
	if v := q.Get("channel"); v != "" {
		if strings.EqualFold(v, channelBankTransfer) {
			v = ChannelManual
		}
		query.Filters = append(query.Filters, store.Equal("payment_channel", v, func(d *Donation) string { return d.PaymentChannel }))
	}
	if v := q.Get("purpose"); v != "" {
		query.Filters = append(query.Filters, store.Equal("purpose", v, func(d *Donation) string { return d.Purpose }))
	}
	if v := strings.TrimSpace(q.Get("search")); v != "" {
		query.Filters = append(query.Filters, store.Search(v, []string{"donor_name", "email", "reference"},
			func(d *Donation) []string { return []string{d.DonorName, d.Email, d.Reference} }))
	}

	items, total, err := s.List(r.Context(), query)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{
		"donations":  items,
		"pagination": store.NewPagination(query.Page, total),
	})
}

func (m *Module) Get(w http.ResponseWriter, r *http.Request) {
	s, err := m.open(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	d, err := s.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, notFound(err))
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"donation": d})
}

// Summary totals every donation.
func (m *Module) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := m.open(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	items, _, err := s.List(r.Context(), store.Query[Donation]{})
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"summary": summarize(items)})
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus is the manual confirmation path, mostly for bank transfers.
func (m *Module) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if !validStatuses[req.Status] {
		httputil.Fail(w, http.StatusBadRequest, "Status must be one of pending, success, failed, cancelled, refunded")
		return
	}
	m.modify(w, r, func(_ context.Context, d *Donation) error {
		d.Status = req.Status
		now := m.now()
		switch req.Status {
		case StatusSuccess:
			if d.PaidAt == nil {
				d.PaidAt = &now
			}
		case StatusRefunded:
			d.RefundedAt = &now
		}
		return nil
	})
}

// Cancel abandons a pending donation.
func (m *Module) Cancel(w http.ResponseWriter, r *http.Request) {
	m.modify(w, r, func(ctx context.Context, d *Donation) error {
		if d.Status != StatusPending {
			return apperr.Validation("Only pending donations can be cancelled")
		}
		if d.PaymentChannel == ChannelPaystack {
			if err := m.provider.Cancel(ctx, d.Reference); err != nil {
				if errors.Is(err, payments.ErrNotCancellable) {
					return apperr.Conflict("This donation has already been paid")
				}
				return apperr.Unavailable(msgProviderUnavailable, err)
			}
		}
		d.Status = StatusCancelled
		return nil
	})
}

type refundRequest struct {
	Amount int64 `json:"amount"`
}

// Refund returns a successful donation. Manual donations are refunded offline and only
// marked here.
func (m *Module) Refund(w http.ResponseWriter, r *http.Request) {
	var req refundRequest
	if r.ContentLength > 0 {
		if err := httputil.Decode(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
	}
	m.modify(w, r, func(ctx context.Context, d *Donation) error {
		if d.Status != StatusSuccess {
			return apperr.Validation("Only successful donations can be refunded")
		}
		if req.Amount < 0 || req.Amount > d.Amount {
			return apperr.Validation("Refund amount must be between zero and the donated amount")
		}
		if d.PaymentChannel == ChannelPaystack {
			if _, err := m.provider.Refund(ctx, d.Reference, req.Amount); err != nil {
				return apperr.Unavailable(msgProviderUnavailable, err)
			}
		}
		now := m.now()
		d.Status = StatusRefunded
		d.RefundedAt = &now
		return nil
	})
}

func (m *Module) modify(w http.ResponseWriter, r *http.Request, change func(context.Context, *Donation) error) {
	s, err := m.open(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	d, err := s.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, notFound(err))
		return
	}
	if err := change(r.Context(), &d); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := s.Save(r.Context(), &d); err != nil {
		httputil.Error(w, notFound(err))
		return
	}
	httputil.Success(w, http.StatusOK, httputil.Fields{"donation": d})
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errNotFound
	}
	return err
}

func (m *Module) now() time.Time { return m.clock().UTC() }
