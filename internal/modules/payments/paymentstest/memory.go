// Package paymentstest provides an in-memory payments.Store for tests.
package paymentstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/payments"
)

type state struct {
	events       map[string]payments.ProviderEvent // provider|event_id
	transactions map[string]payments.PaymentTransaction
	donations    map[string]payments.Donation
	campaigns    map[string]campaigns.Campaign
}

func (s *state) clone() *state {
	c := &state{
		events:       make(map[string]payments.ProviderEvent, len(s.events)),
		transactions: make(map[string]payments.PaymentTransaction, len(s.transactions)),
		donations:    make(map[string]payments.Donation, len(s.donations)),
		campaigns:    make(map[string]campaigns.Campaign, len(s.campaigns)),
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.donations {
		c.donations[k] = v
	}
	for k, v := range s.campaigns {
		c.campaigns[k] = v
	}
	return c
}

// Store mimics the MySQL repo: unique keys report payments.ErrDuplicate and
// InTx commits only when fn succeeds.
type Store struct {
	mu   *sync.Mutex
	st   *state
	inTx bool

	// Fail forces the named method to return the error.
	Fail map[string]error
}

func NewStore() *Store {
	return &Store{
		mu: &sync.Mutex{},
		st: &state{
			events:       map[string]payments.ProviderEvent{},
			transactions: map[string]payments.PaymentTransaction{},
			donations:    map[string]payments.Donation{},
			campaigns:    map[string]campaigns.Campaign{},
		},
		Fail: map[string]error{},
	}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) InTx(ctx context.Context, fn func(tx payments.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, st: s.st.clone(), inTx: true, Fail: s.Fail}
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

// Seeding and inspection helpers.

func (s *Store) AddCampaign(c campaigns.Campaign) {
	defer s.lock()()
	s.st.campaigns[c.ID] = c
}

func (s *Store) AddTransaction(t payments.PaymentTransaction) {
	defer s.lock()()
	s.st.transactions[t.ID] = t
}

func (s *Store) AddDonation(d payments.Donation) {
	defer s.lock()()
	s.st.donations[d.ID] = d
}

func (s *Store) Transactions() []payments.PaymentTransaction {
	defer s.lock()()
	out := make([]payments.PaymentTransaction, 0, len(s.st.transactions))
	for _, t := range s.st.transactions {
		out = append(out, t)
	}
	return out
}

func (s *Store) Donations() []payments.Donation {
	defer s.lock()()
	out := make([]payments.Donation, 0, len(s.st.donations))
	for _, d := range s.st.donations {
		out = append(out, d)
	}
	return out
}

func (s *Store) Events() []payments.ProviderEvent {
	defer s.lock()()
	out := make([]payments.ProviderEvent, 0, len(s.st.events))
	for _, e := range s.st.events {
		out = append(out, e)
	}
	return out
}

// payments.Store

func (s *Store) RecordEvent(_ context.Context, ev *payments.ProviderEvent) error {
	if err := s.Fail["RecordEvent"]; err != nil {
		return err
	}
	defer s.lock()()
	key := ev.Provider + "|" + ev.EventID
	if _, ok := s.st.events[key]; ok {
		return payments.ErrDuplicate
	}
	s.st.events[key] = *ev
	return nil
}

func (s *Store) MarkEventProcessed(_ context.Context, id string, at time.Time) error {
	if err := s.Fail["MarkEventProcessed"]; err != nil {
		return err
	}
	defer s.lock()()
	for k, e := range s.st.events {
		if e.ID == id {
			e.ProcessedAt = &at
			s.st.events[k] = e
		}
	}
	return nil
}

func (s *Store) TransactionByKey(_ context.Context, key string) (payments.PaymentTransaction, error) {
	if err := s.Fail["TransactionByKey"]; err != nil {
		return payments.PaymentTransaction{}, err
	}
	defer s.lock()()
	for _, t := range s.st.transactions {
		if t.IdempotencyKey == key {
			return t, nil
		}
	}
	return payments.PaymentTransaction{}, payments.ErrTransactionNotFound
}

func (s *Store) TransactionBySession(_ context.Context, sessionID string) (payments.PaymentTransaction, error) {
	if err := s.Fail["TransactionBySession"]; err != nil {
		return payments.PaymentTransaction{}, err
	}
	defer s.lock()()
	for _, t := range s.st.transactions {
		if t.SessionID == sessionID {
			return t, nil
		}
	}
	return payments.PaymentTransaction{}, payments.ErrTransactionNotFound
}

func (s *Store) CreateTransaction(_ context.Context, t *payments.PaymentTransaction) error {
	if err := s.Fail["CreateTransaction"]; err != nil {
		return err
	}
	defer s.lock()()
	for _, x := range s.st.transactions {
		if x.IdempotencyKey == t.IdempotencyKey || x.SessionID == t.SessionID {
			return payments.ErrDuplicate
		}
	}
	s.st.transactions[t.ID] = *t
	return nil
}

func (s *Store) SetTransactionStatus(_ context.Context, sessionID, status string, paymentIntent *string) error {
	if err := s.Fail["SetTransactionStatus"]; err != nil {
		return err
	}
	defer s.lock()()
	for id, t := range s.st.transactions {
		if t.SessionID != sessionID || t.PaymentStatus == payments.StatusPaid {
			continue
		}
		t.PaymentStatus = status
		if paymentIntent != nil {
			pi := *paymentIntent
			t.PaymentIntent = &pi
		}
		s.st.transactions[id] = t
	}
	return nil
}

func (s *Store) DonationBySession(_ context.Context, sessionID string) (payments.Donation, error) {
	if err := s.Fail["DonationBySession"]; err != nil {
		return payments.Donation{}, err
	}
	defer s.lock()()
	for _, d := range s.st.donations {
		if d.GatewaySessionID == sessionID {
			return d, nil
		}
	}
	return payments.Donation{}, payments.ErrDonationNotFound
}

func (s *Store) DonationByPaymentIntent(_ context.Context, paymentIntent string) (payments.Donation, error) {
	if err := s.Fail["DonationByPaymentIntent"]; err != nil {
		return payments.Donation{}, err
	}
	defer s.lock()()
	for _, d := range s.st.donations {
		if d.PaymentIntent != nil && *d.PaymentIntent == paymentIntent {
			return d, nil
		}
	}
	return payments.Donation{}, payments.ErrDonationNotFound
}

func (s *Store) CreateDonation(_ context.Context, d *payments.Donation) error {
	if err := s.Fail["CreateDonation"]; err != nil {
		return err
	}
	defer s.lock()()
	for _, x := range s.st.donations {
		if x.GatewaySessionID == d.GatewaySessionID {
			return payments.ErrDuplicate
		}
	}
	s.st.donations[d.ID] = *d
	return nil
}

func (s *Store) MarkDonationRefunded(_ context.Context, id string, refundCents int64, at time.Time) error {
	if err := s.Fail["MarkDonationRefunded"]; err != nil {
		return err
	}
	defer s.lock()()
	d, ok := s.st.donations[id]
	if !ok {
		return payments.ErrDonationNotFound
	}
	d.PaymentStatus = payments.DonationRefunded
	d.RefundCents = &refundCents
	d.RefundedAt = &at
	s.st.donations[id] = d
	return nil
}

func (s *Store) PaidDonationsByCampaign(_ context.Context, campaignID string, limit int) ([]payments.Donation, error) {
	defer s.lock()()
	return s.paid(func(d payments.Donation) bool { return d.CampaignID == campaignID }, limit), nil
}

func (s *Store) PaidDonationsByDonor(_ context.Context, donorID string, limit int) ([]payments.Donation, error) {
	defer s.lock()()
	return s.paid(func(d payments.Donation) bool { return d.DonorID != nil && *d.DonorID == donorID }, limit), nil
}

func (s *Store) paid(match func(payments.Donation) bool, limit int) []payments.Donation {
	var out []payments.Donation
	for _, d := range s.st.donations {
		if d.PaymentStatus == payments.DonationPaid && match(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) PaidTotals(_ context.Context) (payments.Totals, error) {
	defer s.lock()()
	var t payments.Totals
	for _, d := range s.st.donations {
		if d.PaymentStatus == payments.DonationPaid {
			t.Count++
			t.SumCents += d.AmountCents
		}
	}
	return t, nil
}

func (s *Store) Campaign(_ context.Context, id string) (campaigns.Campaign, error) {
	if err := s.Fail["Campaign"]; err != nil {
		return campaigns.Campaign{}, err
	}
	defer s.lock()()
	c, ok := s.st.campaigns[id]
	if !ok {
		return campaigns.Campaign{}, campaigns.ErrCampaignNotFound
	}
	return c, nil
}

func (s *Store) AdjustCampaignTotals(_ context.Context, campaignID string, deltaCents int64, deltaDonors int) error {
	if err := s.Fail["AdjustCampaignTotals"]; err != nil {
		return err
	}
	defer s.lock()()
	c, ok := s.st.campaigns[campaignID]
	if !ok {
		return campaigns.ErrCampaignNotFound
	}
	c.RaisedCents += deltaCents
	c.DonorCount += deltaDonors
	s.st.campaigns[campaignID] = c
	return nil
}

func (s *Store) CompleteIfFunded(_ context.Context, campaignID string) (bool, error) {
	if err := s.Fail["CompleteIfFunded"]; err != nil {
		return false, err
	}
	defer s.lock()()
	c, ok := s.st.campaigns[campaignID]
	if !ok || c.Status != campaigns.StatusActive || c.RaisedCents < c.TargetCents {
		return false, nil
	}
	c.Status = campaigns.StatusCompleted
	s.st.campaigns[campaignID] = c
	return true, nil
}
